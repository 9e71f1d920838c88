// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// QueryOptions holds parameters for library queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles and abstracts.
	Query string

	// Journal filters by exact journal name.
	Journal string

	// PublicationType filters by one publication type.
	PublicationType string

	// Year filters by publication year.
	Year string

	// MeSHTerm filters by one MeSH term.
	MeSHTerm string

	// MaxResults limits result count. Zero uses store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Journal == "" && q.PublicationType == "" &&
		q.Year == "" && q.MeSHTerm == ""
}

// Retrieve queries the library with optional full-text search and
// structured filters. Full-text queries are ranked by relevance;
// structured-only queries are sorted newest first.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Article, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT a.pmid, a.published, a.title, a.abstract, a.first_author, a.doi,
				a.pubmed_url, a.full_text_url, a.keywords, a.mesh_terms,
				a.journal, a.publication_types
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			WHERE articles_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT a.pmid, a.published, a.title, a.abstract, a.first_author, a.doi,
				a.pubmed_url, a.full_text_url, a.keywords, a.mesh_terms,
				a.journal, a.publication_types
			FROM articles a
			WHERE 1=1`)
	}

	if opts.Journal != "" {
		qb.WriteString(` AND a.journal = ?`)
		args = append(args, opts.Journal)
	}

	if opts.Year != "" {
		qb.WriteString(` AND a.published = ?`)
		args = append(args, opts.Year)
	}

	if opts.PublicationType != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(a.publication_types) WHERE value = ?)`)
		args = append(args, opts.PublicationType)
	}

	if opts.MeSHTerm != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(a.mesh_terms) WHERE value = ?)`)
		args = append(args, opts.MeSHTerm)
	}

	if useFTS {
		qb.WriteString(` ORDER BY articles_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.published DESC, a.pmid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []types.Article
	for rows.Next() {
		var (
			a            types.Article
			keywordsJSON sql.NullString
			meshJSON     sql.NullString
			pubTypesJSON sql.NullString
		)

		if err := rows.Scan(
			&a.PMID, &a.Published, &a.Title, &a.Abstract, &a.FirstAuthor, &a.DOI,
			&a.PubMedURL, &a.FullTextURL, &keywordsJSON, &meshJSON,
			&a.Journal, &pubTypesJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if keywordsJSON.Valid {
			json.Unmarshal([]byte(keywordsJSON.String), &a.Keywords)
		}
		if meshJSON.Valid {
			json.Unmarshal([]byte(meshJSON.String), &a.MeSHTerms)
		}
		if pubTypesJSON.Valid {
			json.Unmarshal([]byte(pubTypesJSON.String), &a.PublicationTypes)
		}

		results = append(results, a)
	}

	return results, rows.Err()
}

// Get returns the stored article with the given PMID.
func (s *Store) Get(ctx context.Context, pmid string) (types.Article, error) {
	var (
		a            types.Article
		keywordsJSON sql.NullString
		meshJSON     sql.NullString
		pubTypesJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT pmid, published, title, abstract, first_author, doi,
			pubmed_url, full_text_url, keywords, mesh_terms, journal, publication_types
		 FROM articles WHERE pmid = ?`, pmid,
	).Scan(
		&a.PMID, &a.Published, &a.Title, &a.Abstract, &a.FirstAuthor, &a.DOI,
		&a.PubMedURL, &a.FullTextURL, &keywordsJSON, &meshJSON,
		&a.Journal, &pubTypesJSON,
	)
	if err == sql.ErrNoRows {
		return types.Article{}, fmt.Errorf("no saved article with PMID %s", pmid)
	}
	if err != nil {
		return types.Article{}, fmt.Errorf("looking up article: %w", err)
	}

	if keywordsJSON.Valid {
		json.Unmarshal([]byte(keywordsJSON.String), &a.Keywords)
	}
	if meshJSON.Valid {
		json.Unmarshal([]byte(meshJSON.String), &a.MeSHTerms)
	}
	if pubTypesJSON.Valid {
		json.Unmarshal([]byte(pubTypesJSON.String), &a.PublicationTypes)
	}

	return a, nil
}
