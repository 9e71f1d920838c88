// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pdiddy/pubmed-agent/internal/llm"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

const (
	// EnvVaultPath overrides the configured vault location.
	EnvVaultPath = "OBSIDIAN_VAULT_PATH"

	defaultFolder    = "AI-Generated"
	filenameMaxLen   = 50
	filenameQueryLen = 30
)

var (
	invalidFilenameChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// ResolvePath determines the Obsidian vault location. Order: explicit
// config, the OBSIDIAN_VAULT_PATH environment variable, then common
// home-directory locations. The returned path always exists.
func ResolvePath(cfg types.VaultConfig) (string, error) {
	candidates := make([]string, 0, 5)
	if cfg.Path != "" {
		candidates = append(candidates, cfg.Path)
	}
	if env := os.Getenv(EnvVaultPath); env != "" {
		candidates = append(candidates, env)
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, "Obsidian"),
			filepath.Join(home, "Documents", "Obsidian"),
			filepath.Join(home, "Documents", "obsidian"),
		)
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path, nil
		}
	}

	return "", fmt.Errorf("no Obsidian vault found: set vault.path in the config file or %s", EnvVaultPath)
}

// SanitizeFilename converts a string to a safe filename: invalid
// characters removed, whitespace runs replaced with hyphens, length
// capped at 50 runes.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, "-")
	return truncateRunes(name, filenameMaxLen)
}

// Exporter writes research notes into the vault.
type Exporter struct {
	provider llm.Provider
	cfg      types.VaultConfig

	// now is replaceable in tests.
	now func() time.Time
}

// NewExporter builds an Exporter. provider may be nil, in which case
// concept extraction uses the frequency fallback and follow-up
// questions are omitted.
func NewExporter(provider llm.Provider, cfg types.VaultConfig) *Exporter {
	if cfg.Folder == "" {
		cfg.Folder = defaultFolder
	}
	return &Exporter{provider: provider, cfg: cfg, now: time.Now}
}

// Export writes one note for the query and its answer, returning the
// path of the created file. Progress and non-fatal problems are
// reported on w.
func (e *Exporter) Export(ctx context.Context, query, response, model string, temperature float64, w io.Writer) (string, error) {
	vaultPath, err := ResolvePath(e.cfg)
	if err != nil {
		return "", err
	}

	targetDir := filepath.Join(vaultPath, e.cfg.Folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("creating vault folder: %w", err)
	}

	var concepts []string
	if e.provider != nil {
		concepts = ExtractConcepts(ctx, e.provider, response, e.cfg.MaxConcepts)
	} else {
		concepts = conceptsFallback(response, e.cfg.MaxConcepts)
	}

	var followUps string
	if e.provider != nil {
		followUps, err = FollowUpQuestions(ctx, e.provider, query, response)
		if err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
			followUps = ""
		}
	}

	created := e.now()
	note := BuildNote(query, response, model, temperature, concepts, followUps, created)

	filename := fmt.Sprintf("%s-%s.md",
		created.Format("2006-01-02-150405"),
		SanitizeFilename(truncateRunes(query, filenameQueryLen)))
	path := filepath.Join(targetDir, filename)

	markdown, err := note.Markdown()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}

	fmt.Fprintf(w, "exported note to %s\n", path)
	return path, nil
}
