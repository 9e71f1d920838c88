// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists retrieved article records in a local SQLite
// database with a full-text index over titles and abstracts.
//
// The index is an FTS5 virtual table, which go-sqlite3 only includes when
// compiled with the sqlite_fts5 build tag. Build and test through the mage
// targets, or pass -tags sqlite_fts5 to the Go toolchain directly.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

const dbFile = "library.db"

// Store manages the article library SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int

	// now is replaceable in tests.
	now func() time.Time
}

// NewStore opens or creates the library database at cfg.Dir/library.db.
// It creates the schema if it does not exist.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			pmid TEXT NOT NULL UNIQUE,
			published TEXT,
			title TEXT,
			abstract TEXT,
			first_author TEXT,
			doi TEXT,
			pubmed_url TEXT,
			full_text_url TEXT,
			keywords TEXT,
			mesh_terms TEXT,
			journal TEXT,
			publication_types TEXT,
			saved_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_journal ON articles(journal)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, abstract, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveSummary holds counts from a library save run.
type SaveSummary struct {
	Saved   int
	Updated int
	Failed  int
}

// Total returns the number of articles processed.
func (s SaveSummary) Total() int {
	return s.Saved + s.Updated + s.Failed
}

// Save upserts article records into the library, keyed by PMID. Progress
// lines are written to w as each record lands.
func (s *Store) Save(ctx context.Context, articles []types.Article, w io.Writer) (SaveSummary, error) {
	var summary SaveSummary

	for _, article := range articles {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if article.PMID == "" {
			fmt.Fprintf(w, "failed  (missing PMID): %s\n", article.Title)
			summary.Failed++
			continue
		}

		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM articles WHERE pmid = ?`, article.PMID,
		).Scan(&exists)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", article.PMID, err)
			summary.Failed++
			continue
		}

		if err := s.upsertArticle(ctx, article); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", article.PMID, err)
			summary.Failed++
			continue
		}

		if exists > 0 {
			fmt.Fprintf(w, "updated %s\n", article.PMID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "saved   %s\n", article.PMID)
			summary.Saved++
		}
	}

	fmt.Fprintf(w, "\nsaved: %d, updated: %d, failed: %d\n",
		summary.Saved, summary.Updated, summary.Failed)

	return summary, nil
}

func (s *Store) upsertArticle(ctx context.Context, article types.Article) error {
	keywordsJSON, _ := json.Marshal(article.Keywords)
	meshJSON, _ := json.Marshal(article.MeSHTerms)
	pubTypesJSON, _ := json.Marshal(article.PublicationTypes)
	savedAt := s.now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (pmid, published, title, abstract, first_author, doi,
			pubmed_url, full_text_url, keywords, mesh_terms, journal, publication_types, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			published=excluded.published, title=excluded.title, abstract=excluded.abstract,
			first_author=excluded.first_author, doi=excluded.doi,
			pubmed_url=excluded.pubmed_url, full_text_url=excluded.full_text_url,
			keywords=excluded.keywords, mesh_terms=excluded.mesh_terms,
			journal=excluded.journal, publication_types=excluded.publication_types,
			saved_at=excluded.saved_at`,
		article.PMID, article.Published, article.Title, article.Abstract,
		article.FirstAuthor, article.DOI, article.PubMedURL, article.FullTextURL,
		string(keywordsJSON), string(meshJSON), article.Journal, string(pubTypesJSON),
		savedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting article: %w", err)
	}
	return nil
}
