// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import "encoding/xml"

// E-utilities XML response structures. Only the elements the parser reads
// are mapped; everything else is ignored by encoding/xml.

type eSearchResult struct {
	XMLName        xml.Name `xml:"eSearchResult"`
	Count          int      `xml:"Count"`
	IDs            []string `xml:"IdList>Id"`
	PhraseNotFound []string `xml:"ErrorList>PhraseNotFound"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
	PubmedData      pubmedData      `xml:"PubmedData"`
}

type medlineCitation struct {
	PMID            string        `xml:"PMID"`
	Article         articleXML    `xml:"Article"`
	MeshHeadings    []meshHeading `xml:"MeshHeadingList>MeshHeading"`
	KeywordLists    []keywordList `xml:"KeywordList"`
}

type articleXML struct {
	ArticleTitle     string        `xml:"ArticleTitle"`
	Abstract         *abstractXML  `xml:"Abstract"`
	Authors          []authorXML   `xml:"AuthorList>Author"`
	Journal          journalXML    `xml:"Journal"`
	PublicationTypes []string      `xml:"PublicationTypeList>PublicationType"`
	ELocationIDs     []eLocationID `xml:"ELocationID"`
}

type abstractXML struct {
	Sections []abstractSection `xml:"AbstractText"`
}

type abstractSection struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type authorXML struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

type journalXML struct {
	Title        string     `xml:"Title"`
	JournalIssue journalIssue `xml:"JournalIssue"`
}

type journalIssue struct {
	PubDate pubDate `xml:"PubDate"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	MedlineDate string `xml:"MedlineDate"`
}

type meshHeading struct {
	DescriptorName string `xml:"DescriptorName"`
}

type keywordList struct {
	Keywords []string `xml:"Keyword"`
}

type eLocationID struct {
	EIdType string `xml:"EIdType,attr"`
	Valid   string `xml:"ValidYN,attr"`
	Value   string `xml:",chardata"`
}

type pubmedData struct {
	ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
}

type articleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

type eLinkResult struct {
	XMLName  xml.Name  `xml:"eLinkResult"`
	LinkSets []linkSet `xml:"LinkSet"`
}

type linkSet struct {
	LinkSetDbs []linkSetDb `xml:"LinkSetDb"`
}

type linkSetDb struct {
	LinkName string   `xml:"LinkName"`
	IDs      []string `xml:"Link>Id"`
}
