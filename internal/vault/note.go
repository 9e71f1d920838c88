// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vault exports research answers as Markdown notes into an
// Obsidian vault, with YAML frontmatter and wiki-style concept links.
package vault

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Note is one Obsidian note ready to be rendered as Markdown.
type Note struct {
	Title    string
	Content  string
	Tags     []string
	Metadata map[string]any
	Created  time.Time
}

// Markdown renders the note with YAML frontmatter followed by the body.
func (n Note) Markdown() (string, error) {
	frontmatter := map[string]any{
		"title": n.Title,
		"date":  n.Created.Format("2006-01-02"),
		"tags":  n.Tags,
	}
	for k, v := range n.Metadata {
		frontmatter[k] = v
	}

	data, err := yaml.Marshal(frontmatter)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}

	return fmt.Sprintf("---\n%s---\n\n%s", data, n.Content), nil
}

// BuildNote assembles the standard research note layout from an answer.
// Follow-up questions and concept links are optional sections.
func BuildNote(query, response, model string, temperature float64, concepts []string, followUps string, created time.Time) Note {
	title := truncateRunes(query, 50) + "..."

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "## Query\n\n%s\n\n", query)
	fmt.Fprintf(&b, "## Response\n\n%s\n\n", response)

	if followUps != "" {
		fmt.Fprintf(&b, "## Follow-up Questions\n\n%s\n\n", followUps)
	}

	if len(concepts) > 0 {
		b.WriteString("## Possible Connections\n\n")
		for _, concept := range concepts {
			fmt.Fprintf(&b, "- [[%s]]\n", concept)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Notes and Annotations\n\n- \n\n")

	return Note{
		Title:   title,
		Content: b.String(),
		Tags:    []string{"AI-Generated", "Research", "PubMed"},
		Metadata: map[string]any{
			"query":       query,
			"model":       model,
			"temperature": temperature,
			"category":    "AI-Generated",
		},
		Created: created,
	}
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
