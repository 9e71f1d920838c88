// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullArticleXML = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>12345678</PMID>
      <Article>
        <Journal>
          <JournalIssue>
            <PubDate><Year>2023</Year></PubDate>
          </JournalIssue>
          <Title>The Lancet</Title>
        </Journal>
        <ArticleTitle>Remdesivir for severe covid-19</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Background text.</AbstractText>
          <AbstractText Label="RESULTS">Results text.</AbstractText>
        </Abstract>
        <AuthorList>
          <Author>
            <LastName>Smith</LastName>
            <ForeName>Jane B</ForeName>
          </Author>
          <Author>
            <LastName>Doe</LastName>
            <ForeName>John</ForeName>
          </Author>
        </AuthorList>
        <ELocationID EIdType="doi" ValidYN="Y">10.1000/test.doi</ELocationID>
        <PublicationTypeList>
          <PublicationType>Clinical Trial</PublicationType>
          <PublicationType>Journal Article</PublicationType>
        </PublicationTypeList>
      </Article>
      <MeshHeadingList>
        <MeshHeading><DescriptorName>COVID-19</DescriptorName></MeshHeading>
        <MeshHeading><DescriptorName>Antiviral Agents</DescriptorName></MeshHeading>
      </MeshHeadingList>
      <KeywordList>
        <Keyword>remdesivir</Keyword>
        <Keyword>pandemic</Keyword>
      </KeywordList>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pubmed">12345678</ArticleId>
        <ArticleId IdType="pmc">PMC9999999</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

// A minimal entry: everything optional is absent.
const bareArticleXML = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <Article></Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func parseXML(t *testing.T, data string) pubmedArticleSet {
	t.Helper()
	var set pubmedArticleSet
	require.NoError(t, xml.Unmarshal([]byte(data), &set))
	return set
}

func TestParseFullArticle(t *testing.T) {
	articles := parseArticles(parseXML(t, fullArticleXML))
	require.Len(t, articles, 1)
	a := articles[0]

	assert.Equal(t, "12345678", a.PMID)
	assert.Equal(t, "2023", a.Published)
	assert.Equal(t, "Remdesivir for severe covid-19", a.Title)
	assert.Equal(t, "BACKGROUND: Background text.\n\nRESULTS: Results text.", a.Abstract)
	assert.Equal(t, "Smith, Jane B", a.FirstAuthor)
	assert.Equal(t, "10.1000/test.doi", a.DOI)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/12345678/", a.PubMedURL)
	assert.Equal(t, "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC9999999/", a.FullTextURL)
	assert.Equal(t, []string{"remdesivir", "pandemic"}, a.Keywords)
	assert.Equal(t, []string{"COVID-19", "Antiviral Agents"}, a.MeSHTerms)
	assert.Equal(t, "The Lancet", a.Journal)
	assert.Equal(t, []string{"Clinical Trial", "Journal Article"}, a.PublicationTypes)
}

// Absent optional fields must produce the documented placeholders.
func TestParsePlaceholders(t *testing.T) {
	articles := parseArticles(parseXML(t, bareArticleXML))
	require.Len(t, articles, 1)
	a := articles[0]

	assert.Equal(t, NoDate, a.Published)
	assert.Equal(t, NoTitle, a.Title)
	assert.Equal(t, NoAbstract, a.Abstract)
	assert.Equal(t, NoAuthor, a.FirstAuthor)
	assert.Equal(t, NoDOI, a.DOI)
	assert.Equal(t, NoURL, a.PubMedURL)
	assert.Equal(t, NoFullText, a.FullTextURL)
	assert.Equal(t, NoJournal, a.Journal)
	assert.Empty(t, a.Keywords)
	assert.Empty(t, a.MeSHTerms)
	assert.Empty(t, a.PublicationTypes)
}

func TestPublicationYear(t *testing.T) {
	tests := []struct {
		name string
		pd   pubDate
		want string
	}{
		{"year element", pubDate{Year: "2021"}, "2021"},
		{"medline season", pubDate{MedlineDate: "2020 Spring"}, "2020"},
		{"medline range", pubDate{MedlineDate: "2020-2021"}, "2020"},
		{"medline months", pubDate{MedlineDate: "2019 Jan-Feb"}, "2019"},
		{"unparseable", pubDate{MedlineDate: "Winter"}, NoDate},
		{"absent", pubDate{}, NoDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicationYear(tt.pd))
		})
	}
}

func TestFirstAuthor(t *testing.T) {
	tests := []struct {
		name    string
		authors []authorXML
		want    string
	}{
		{"none", nil, NoAuthor},
		{"full name", []authorXML{{LastName: "Smith", ForeName: "Jane"}}, "Smith, Jane"},
		{"last name only", []authorXML{{LastName: "Smith"}}, "Smith"},
		{"collective", []authorXML{{CollectiveName: "COVID Study Group"}}, "COVID Study Group"},
		{"empty author element", []authorXML{{}}, NoAuthor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstAuthor(tt.authors))
		})
	}
}

func TestAbstractUnlabeledSection(t *testing.T) {
	abs := &abstractXML{Sections: []abstractSection{{Text: "Plain abstract."}}}
	assert.Equal(t, "Plain abstract.", abstractText(abs))
}

func TestExtractDOIFallsBackToArticleIDs(t *testing.T) {
	// Invalid ELocationID is skipped; ArticleIdList provides the DOI.
	elocs := []eLocationID{{EIdType: "doi", Valid: "N", Value: "10.1000/bad"}}
	ids := []articleID{{IDType: "doi", Value: "10.1000/good"}}
	assert.Equal(t, "10.1000/good", extractDOI(elocs, ids))
}

func TestFullTextURLPrefersPMC(t *testing.T) {
	ids := []articleID{{IDType: "pmc", Value: "PMC123"}}
	assert.Equal(t, "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC123/", fullTextURL(ids, "10.1/x"))
	assert.Equal(t, "https://doi.org/10.1/x", fullTextURL(nil, "10.1/x"))
	assert.Equal(t, NoFullText, fullTextURL(nil, ""))
}
