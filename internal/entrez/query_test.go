// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTermFreeText(t *testing.T) {
	got := BuildTerm(Filters{Query: "remdesivir covid"})
	assert.Equal(t, "(remdesivir covid)", got)
}

func TestBuildTermFieldRestrictions(t *testing.T) {
	tests := []struct {
		name string
		f    Filters
		want string
	}{
		{"title only", Filters{Query: "sepsis", TitleOnly: true}, "(sepsis)[Title]"},
		{"abstract only", Filters{Query: "sepsis", AbstractOnly: true}, "(sepsis)[Abstract]"},
		{"field restriction", Filters{Query: "sepsis", FieldRestriction: "Text Word"}, "(sepsis)[Text Word]"},
		{"title wins over field restriction", Filters{Query: "sepsis", TitleOnly: true, FieldRestriction: "Text Word"}, "(sepsis)[Title]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildTerm(tt.f))
		})
	}
}

// MeSH terms arrive semicolon-separated because the terms themselves
// contain commas; each one must be individually quoted.
func TestBuildTermMeSHQuoting(t *testing.T) {
	got := BuildTerm(Filters{MeSHTerms: "Diabetes Mellitus, Type 2; Hypertension"})
	assert.Equal(t, `"Diabetes Mellitus, Type 2"[MeSH Terms] AND "Hypertension"[MeSH Terms]`, got)
}

func TestBuildTermOperator(t *testing.T) {
	f := Filters{Query: "heart failure", MeSHTerms: "Cardiomyopathies"}

	f.Operator = OpOR
	assert.Equal(t, `(heart failure) OR "Cardiomyopathies"[MeSH Terms]`, BuildTerm(f))

	f.Operator = OpAND
	assert.Equal(t, `(heart failure) AND "Cardiomyopathies"[MeSH Terms]`, BuildTerm(f))

	// Empty operator defaults to AND.
	f.Operator = ""
	assert.Equal(t, `(heart failure) AND "Cardiomyopathies"[MeSH Terms]`, BuildTerm(f))
}

// The operator only joins the main clause; filters are always ANDed.
func TestBuildTermFiltersAlwaysAND(t *testing.T) {
	f := Filters{
		Query:           "gene therapy",
		MeSHTerms:       "Hemophilia A",
		Operator:        OpOR,
		Author:          "Smith JB",
		Journal:         "The Lancet",
		PublicationDate: "2020:2023",
		PublicationType: "Clinical Trial",
		Affiliation:     "Mayo Clinic",
		FreeFullText:    true,
	}
	want := `((gene therapy) OR "Hemophilia A"[MeSH Terms]) AND ` +
		`(Smith JB[Author] AND "The Lancet"[Journal] AND 2020:2023[Date - Publication] AND ` +
		`"Clinical Trial"[Publication Type] AND free full text[Filter] AND "Mayo Clinic"[Affiliation])`
	assert.Equal(t, want, BuildTerm(f))
}

// Filters without query terms anchor on the broad all[sb] match.
func TestBuildTermFiltersOnly(t *testing.T) {
	got := BuildTerm(Filters{Journal: "BMJ"})
	assert.Equal(t, `(all[sb]) AND ("BMJ"[Journal])`, got)
}

func TestBuildTermSkipsBlankMeSHTerms(t *testing.T) {
	got := BuildTerm(Filters{MeSHTerms: " ; Neoplasms ; "})
	assert.Equal(t, `"Neoplasms"[MeSH Terms]`, got)
}

func TestFiltersIsEmpty(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.True(t, Filters{Operator: OpOR, TitleOnly: true}.IsEmpty())
	assert.False(t, Filters{Query: "x"}.IsEmpty())
	assert.False(t, Filters{MeSHTerms: "Neoplasms"}.IsEmpty())
	assert.False(t, Filters{FreeFullText: true}.IsEmpty())
}

func TestSortAPIParam(t *testing.T) {
	assert.Equal(t, "relevance", Sort("").apiParam())
	assert.Equal(t, "relevance", SortRelevance.apiParam())
	assert.Equal(t, "date", SortPubDate.apiParam())
	assert.Equal(t, "first_author", SortFirstAuthor.apiParam())
}
