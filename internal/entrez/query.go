// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entrez queries the NCBI Entrez E-utilities API (esearch, efetch,
// elink) and parses PubMed XML responses into article records.
package entrez

import (
	"fmt"
	"strings"
)

// Operator joins the main query terms.
type Operator string

const (
	OpAND Operator = "AND"
	OpOR  Operator = "OR"
)

// Sort selects the esearch result order.
type Sort string

const (
	SortRelevance   Sort = "relevance"
	SortPubDate     Sort = "pub_date"
	SortFirstAuthor Sort = "first_author"
)

// apiParam maps a Sort to the esearch sort parameter value.
func (s Sort) apiParam() string {
	switch s {
	case SortPubDate:
		return "date"
	case SortFirstAuthor:
		return "first_author"
	default:
		return "relevance"
	}
}

// Filters holds the structured search parameters from which an Entrez term
// string is built.
type Filters struct {
	// Query is the free-text search query.
	Query string

	// Author filters by author name (e.g. "Smith JB").
	Author string

	// Journal filters by journal name.
	Journal string

	// PublicationDate is a date range, "YYYY/MM/DD:YYYY/MM/DD" or "YYYY:YYYY".
	PublicationDate string

	// PublicationType filters by type (e.g. "Review", "Clinical Trial").
	PublicationType string

	// MeSHTerms holds Medical Subject Headings separated by semicolons.
	// Semicolons rather than commas, because MeSH terms often contain
	// commas (e.g. "Diabetes Mellitus, Type 2").
	MeSHTerms string

	// FieldRestriction restricts the free-text query to a field
	// (e.g. "Title", "Abstract"). Ignored when TitleOnly or AbstractOnly
	// is set.
	FieldRestriction string

	// TitleOnly searches only article titles.
	TitleOnly bool

	// AbstractOnly searches only abstracts.
	AbstractOnly bool

	// Affiliation filters by author affiliation/institution.
	Affiliation string

	// FreeFullText keeps only articles with free full text.
	FreeFullText bool

	// Operator joins the free-text query and MeSH terms. Empty means AND.
	// Filters are always joined with AND regardless.
	Operator Operator
}

// IsEmpty reports whether the filters contain nothing to search for.
func (f Filters) IsEmpty() bool {
	return f.Query == "" && f.Author == "" && f.Journal == "" &&
		f.PublicationDate == "" && f.PublicationType == "" &&
		f.MeSHTerms == "" && f.Affiliation == "" && !f.FreeFullText
}

// BuildTerm composes the Entrez term string. The free-text query and each
// MeSH term form the main clause, joined with the selected operator; the
// remaining filters form a second clause joined with AND. With no main
// clause the broad match all[sb] anchors the filters.
func BuildTerm(f Filters) string {
	op := f.Operator
	if op == "" {
		op = OpAND
	}

	var terms []string
	if f.Query != "" {
		switch {
		case f.TitleOnly:
			terms = append(terms, fmt.Sprintf("(%s)[Title]", f.Query))
		case f.AbstractOnly:
			terms = append(terms, fmt.Sprintf("(%s)[Abstract]", f.Query))
		case f.FieldRestriction != "":
			terms = append(terms, fmt.Sprintf("(%s)[%s]", f.Query, f.FieldRestriction))
		default:
			terms = append(terms, fmt.Sprintf("(%s)", f.Query))
		}
	}

	for _, mesh := range strings.Split(f.MeSHTerms, ";") {
		mesh = strings.TrimSpace(mesh)
		if mesh == "" {
			continue
		}
		terms = append(terms, fmt.Sprintf("%q[MeSH Terms]", mesh))
	}

	var filters []string
	if f.Author != "" {
		filters = append(filters, f.Author+"[Author]")
	}
	if f.Journal != "" {
		filters = append(filters, fmt.Sprintf("%q[Journal]", f.Journal))
	}
	if f.PublicationDate != "" {
		filters = append(filters, f.PublicationDate+"[Date - Publication]")
	}
	if f.PublicationType != "" {
		filters = append(filters, fmt.Sprintf("%q[Publication Type]", f.PublicationType))
	}
	if f.FreeFullText {
		filters = append(filters, "free full text[Filter]")
	}
	if f.Affiliation != "" {
		filters = append(filters, fmt.Sprintf("%q[Affiliation]", f.Affiliation))
	}

	main := "all[sb]"
	if len(terms) > 0 {
		main = strings.Join(terms, " "+string(op)+" ")
	}

	if len(filters) == 0 {
		return main
	}
	return fmt.Sprintf("(%s) AND (%s)", main, strings.Join(filters, " AND "))
}
