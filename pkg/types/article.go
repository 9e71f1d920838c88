// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-agent CLI.
package types

// Article is the record produced by parsing one PubMed efetch entry.
// Scalar fields that are absent from the source XML carry the placeholder
// strings documented on each field; list fields are empty when absent and
// formatters render their placeholders.
type Article struct {
	// PMID is the PubMed identifier. Empty when the source entry had none.
	PMID string `json:"pmid" yaml:"pmid"`

	// Published is the publication year, or "No date available".
	Published string `json:"published" yaml:"published"`

	// Title is the article title, or "No title available".
	Title string `json:"title" yaml:"title"`

	// Abstract holds the abstract text with section labels preserved
	// (e.g. "METHODS: ..."), or "No abstract available".
	Abstract string `json:"abstract" yaml:"abstract"`

	// FirstAuthor is "LastName, ForeName" for the first listed author,
	// or "Unknown".
	FirstAuthor string `json:"first_author" yaml:"first_author"`

	// DOI is the digital object identifier, or "No DOI available".
	DOI string `json:"doi" yaml:"doi"`

	// PubMedURL is the article page on pubmed.ncbi.nlm.nih.gov, or
	// "No URL available" when the entry had no PMID.
	PubMedURL string `json:"pubmed_url" yaml:"pubmed_url"`

	// FullTextURL points at the PMC full text when a PMC ID is present,
	// falls back to the DOI resolver, and is "Not available" otherwise.
	FullTextURL string `json:"full_text_url" yaml:"full_text_url"`

	// Keywords lists author-supplied keywords in source order.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// MeSHTerms lists Medical Subject Headings descriptor names.
	MeSHTerms []string `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`

	// Journal is the journal title, or "Unknown Journal".
	Journal string `json:"journal" yaml:"journal"`

	// PublicationTypes lists publication types (e.g. "Review",
	// "Clinical Trial") in source order.
	PublicationTypes []string `json:"publication_types,omitempty" yaml:"publication_types,omitempty"`
}

// CitationMetrics summarizes the citation neighborhood of one article.
type CitationMetrics struct {
	// Article is the subject article.
	Article Article `json:"article" yaml:"article"`

	// CitationCount is the number of PubMed articles citing the subject.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// Related lists up to five related articles suggested by Entrez.
	Related []Article `json:"related_articles,omitempty" yaml:"related_articles,omitempty"`
}
