// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search PubMed for articles",
	Long: `Search queries PubMed through the NCBI E-utilities. A free-text query
can be combined with structured filters: author, journal, MeSH terms,
publication date range, publication type, and more.

MeSH terms are separated by semicolons, not commas, because MeSH headings
often contain commas (e.g. --mesh "Diabetes Mellitus, Type 2;Hypertension").
Publication dates use YYYY/MM/DD or ranges like "2020:2023".`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query (or pass as arguments)")
	searchCmd.Flags().String("author", "", "filter by author name")
	searchCmd.Flags().String("journal", "", "filter by journal name")
	searchCmd.Flags().String("mesh", "", "filter by MeSH terms, semicolon-separated")
	searchCmd.Flags().String("pub-date", "", "filter by publication date or range (YYYY/MM/DD or YYYY:YYYY)")
	searchCmd.Flags().String("pub-type", "", "filter by publication type (e.g. Review, Clinical Trial)")
	searchCmd.Flags().String("field", "", "restrict the query to a field (e.g. Title, Abstract)")
	searchCmd.Flags().Bool("title-only", false, "match the query in titles only")
	searchCmd.Flags().Bool("abstract-only", false, "match the query in abstracts only")
	searchCmd.Flags().String("affiliation", "", "filter by author affiliation")
	searchCmd.Flags().Bool("free-full-text", false, "only articles with free full text")
	searchCmd.Flags().Bool("or", false, "join query terms with OR instead of AND")
	searchCmd.Flags().String("sort", "relevance", "result order: relevance, pub_date, or first_author")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (0 = config default)")
	searchCmd.Flags().Int("offset", 0, "skip this many results")
	searchCmd.Flags().Bool("expanded", false, "show full article records")
	searchCmd.Flags().Bool("table", false, "output results as a table")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

// filtersFromFlags builds the Entrez filter set shared by search-like
// commands.
func filtersFromFlags(cmd *cobra.Command, args []string) entrez.Filters {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	author, _ := cmd.Flags().GetString("author")
	journal, _ := cmd.Flags().GetString("journal")
	mesh, _ := cmd.Flags().GetString("mesh")
	pubDate, _ := cmd.Flags().GetString("pub-date")
	pubType, _ := cmd.Flags().GetString("pub-type")
	field, _ := cmd.Flags().GetString("field")
	titleOnly, _ := cmd.Flags().GetBool("title-only")
	abstractOnly, _ := cmd.Flags().GetBool("abstract-only")
	affiliation, _ := cmd.Flags().GetString("affiliation")
	freeFullText, _ := cmd.Flags().GetBool("free-full-text")
	useOr, _ := cmd.Flags().GetBool("or")

	op := entrez.OpAND
	if useOr {
		op = entrez.OpOR
	}

	return entrez.Filters{
		Query:            query,
		Author:           author,
		Journal:          journal,
		MeSHTerms:        mesh,
		PublicationDate:  pubDate,
		PublicationType:  pubType,
		FieldRestriction: field,
		TitleOnly:        titleOnly,
		AbstractOnly:     abstractOnly,
		Affiliation:      affiliation,
		FreeFullText:     freeFullText,
		Operator:         op,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := filtersFromFlags(cmd, args)
	if filters.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --author, --journal, or --mesh")
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	offset, _ := cmd.Flags().GetInt("offset")

	client := entrezClient()
	articles, err := client.Search(cmd.Context(), filters, entrez.SearchOptions{
		MaxResults: maxResults,
		Sort:       entrez.Sort(sortFlag),
		Offset:     offset,
	})
	if err != nil {
		return err
	}

	return writeArticles(cmd, articles)
}

// writeArticles renders articles per the shared output flags.
func writeArticles(cmd *cobra.Command, articles []types.Article) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	tableOutput, _ := cmd.Flags().GetBool("table")
	expanded, _ := cmd.Flags().GetBool("expanded")

	switch {
	case jsonOutput:
		return entrez.FormatJSON(articles, os.Stdout)
	case tableOutput:
		entrez.FormatTable(articles, os.Stdout)
	default:
		entrez.FormatText(articles, expanded, os.Stdout)
	}
	return nil
}
