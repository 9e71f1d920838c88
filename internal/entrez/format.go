// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

const conciseAbstractLimit = 200

// Expanded returns the full text block for one article.
func Expanded(a types.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Published: %s\n", a.Published)
	fmt.Fprintf(&b, "Title: %s\n", a.Title)
	fmt.Fprintf(&b, "First Author: %s\n", a.FirstAuthor)
	fmt.Fprintf(&b, "Journal: %s\n", a.Journal)
	fmt.Fprintf(&b, "Publication Type: %s\n", joinOr(a.PublicationTypes, NoPubType))
	fmt.Fprintf(&b, "DOI: %s\n", a.DOI)
	fmt.Fprintf(&b, "PubMed URL: %s\n", a.PubMedURL)
	fmt.Fprintf(&b, "Full Text URL: %s\n", a.FullTextURL)
	fmt.Fprintf(&b, "Keywords: %s\n", joinOr(a.Keywords, NoKeywords))
	fmt.Fprintf(&b, "MeSH Terms: %s\n", joinOr(a.MeSHTerms, NoMeSHTerms))
	fmt.Fprintf(&b, "Summary:\n%s", a.Abstract)
	return b.String()
}

// Concise returns the short text block for one article, truncating long
// abstracts.
func Concise(a types.Article) string {
	summary := a.Abstract
	if r := []rune(summary); len(r) > conciseAbstractLimit {
		summary = string(r[:conciseAbstractLimit]) + "..."
	}
	return fmt.Sprintf("Title: %s\nPublished: %s\nSummary: %s", a.Title, a.Published, summary)
}

// FormatText writes articles as text blocks separated by blank lines.
func FormatText(articles []types.Article, expanded bool, w io.Writer) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}
	for i, a := range articles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if expanded {
			fmt.Fprintln(w, Expanded(a))
		} else {
			fmt.Fprintln(w, Concise(a))
		}
	}
}

// FormatJSON writes articles as a JSON array of records.
func FormatJSON(articles []types.Article, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if articles == nil {
		articles = []types.Article{}
	}
	return enc.Encode(articles)
}

// FormatTable writes articles as a human-readable rank table.
func FormatTable(articles []types.Article, w io.Writer) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-24s  %-6s  %s\n",
		"Rank", "Title", "First Author", "Year", "Journal")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, a := range articles {
		title := ellipsize(a.Title, 60)
		author := ellipsize(a.FirstAuthor, 24)
		year := a.Published
		if r := []rune(year); len(r) > 6 {
			year = string(r[:6])
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-24s  %-6s  %s\n", i+1, title, author, year, a.Journal)
	}
}

// ellipsize shortens s to at most max runes, ending with "..." when cut.
// Truncation counts runes so multibyte titles are never split mid-character.
func ellipsize(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// FormatMetrics writes citation metrics as indented JSON.
func FormatMetrics(m types.CitationMetrics, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func joinOr(items []string, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}
	return strings.Join(items, ", ")
}
