// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"strconv"
	"strings"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// Placeholder values for article fields absent from the source XML.
const (
	NoDate       = "No date available"
	NoTitle      = "No title available"
	NoAbstract   = "No abstract available"
	NoAuthor     = "Unknown"
	NoDOI        = "No DOI available"
	NoURL        = "No URL available"
	NoFullText   = "Not available"
	NoKeywords   = "No keywords available"
	NoMeSHTerms  = "No MeSH terms available"
	NoJournal    = "Unknown Journal"
	NoPubType    = "Not specified"
)

// parseArticles converts an efetch article set into article records,
// substituting placeholders for absent fields.
func parseArticles(set pubmedArticleSet) []types.Article {
	articles := make([]types.Article, 0, len(set.Articles))
	for _, pa := range set.Articles {
		articles = append(articles, parseArticle(pa))
	}
	return articles
}

func parseArticle(pa pubmedArticle) types.Article {
	citation := pa.MedlineCitation
	art := citation.Article

	a := types.Article{
		PMID:        strings.TrimSpace(citation.PMID),
		Published:   publicationYear(art.Journal.JournalIssue.PubDate),
		Title:       orPlaceholder(strings.TrimSpace(art.ArticleTitle), NoTitle),
		Abstract:    abstractText(art.Abstract),
		FirstAuthor: firstAuthor(art.Authors),
		Journal:     orPlaceholder(strings.TrimSpace(art.Journal.Title), NoJournal),
	}

	doi := extractDOI(art.ELocationIDs, pa.PubmedData.ArticleIDs)
	a.DOI = orPlaceholder(doi, NoDOI)

	if a.PMID != "" {
		a.PubMedURL = "https://pubmed.ncbi.nlm.nih.gov/" + a.PMID + "/"
	} else {
		a.PubMedURL = NoURL
	}

	a.FullTextURL = fullTextURL(pa.PubmedData.ArticleIDs, doi)

	for _, pt := range art.PublicationTypes {
		if pt = strings.TrimSpace(pt); pt != "" {
			a.PublicationTypes = append(a.PublicationTypes, pt)
		}
	}
	for _, mh := range citation.MeshHeadings {
		if name := strings.TrimSpace(mh.DescriptorName); name != "" {
			a.MeSHTerms = append(a.MeSHTerms, name)
		}
	}
	for _, kl := range citation.KeywordLists {
		for _, kw := range kl.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				a.Keywords = append(a.Keywords, kw)
			}
		}
	}

	return a
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// publicationYear returns the Year element, or the leading year of a
// MedlineDate value ("2020 Jan-Feb", "2020-2021"), or the placeholder.
func publicationYear(pd pubDate) string {
	if y := strings.TrimSpace(pd.Year); y != "" {
		return y
	}
	fields := strings.Fields(pd.MedlineDate)
	if len(fields) > 0 {
		year := strings.SplitN(fields[0], "-", 2)[0]
		if _, err := strconv.Atoi(year); err == nil {
			return year
		}
	}
	return NoDate
}

// abstractText concatenates abstract sections, keeping structured labels
// ("METHODS: ...") the way PubMed presents them.
func abstractText(abs *abstractXML) string {
	if abs == nil || len(abs.Sections) == 0 {
		return NoAbstract
	}
	var parts []string
	for _, s := range abs.Sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			parts = append(parts, s.Label+": "+text)
		} else {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return NoAbstract
	}
	return strings.Join(parts, "\n\n")
}

// firstAuthor formats the first listed author as "LastName, ForeName".
func firstAuthor(authors []authorXML) string {
	if len(authors) == 0 {
		return NoAuthor
	}
	a := authors[0]
	last := strings.TrimSpace(a.LastName)
	fore := strings.TrimSpace(a.ForeName)
	switch {
	case last != "" && fore != "":
		return last + ", " + fore
	case last != "":
		return last
	case a.CollectiveName != "":
		return strings.TrimSpace(a.CollectiveName)
	default:
		return NoAuthor
	}
}

// extractDOI checks ELocationID first (more reliable), then ArticleIdList.
func extractDOI(elocs []eLocationID, ids []articleID) string {
	for _, e := range elocs {
		if e.EIdType == "doi" && (e.Valid == "" || e.Valid == "Y") {
			return strings.TrimSpace(e.Value)
		}
	}
	for _, id := range ids {
		if id.IDType == "doi" {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

// fullTextURL prefers the PMC page, then the DOI resolver.
func fullTextURL(ids []articleID, doi string) string {
	for _, id := range ids {
		if id.IDType == "pmc" && strings.TrimSpace(id.Value) != "" {
			return "https://www.ncbi.nlm.nih.gov/pmc/articles/" + strings.TrimSpace(id.Value) + "/"
		}
	}
	if doi != "" {
		return "https://doi.org/" + doi
	}
	return NoFullText
}
