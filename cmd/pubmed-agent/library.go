// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local article library (save, query, export)",
	Long: `Library keeps retrieved article records in a local SQLite database with
full-text search over titles and abstracts. Use save to store search
results, query to search the saved records, and export to write them out.`,
}

// --- save subcommand ---

var librarySaveCmd = &cobra.Command{
	Use:   "save [query]",
	Short: "Search PubMed and save the results to the library",
	RunE:  runLibrarySave,
}

func runLibrarySave(cmd *cobra.Command, args []string) error {
	filters := filtersFromFlags(cmd, args)
	if filters.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --author, --journal, or --mesh")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	client := entrezClient()
	articles, err := client.Search(cmd.Context(), filters, entrez.SearchOptions{MaxResults: maxResults})
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		fmt.Fprintln(os.Stdout, "No articles found.")
		return nil
	}

	store, err := library.NewStore(libraryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Save(cmd.Context(), articles, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d article(s) failed to save", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var libraryQueryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Search the saved article records",
	Long: `Query searches the library using FTS5 full-text search over titles and
abstracts, structured filters (journal, publication type, year, MeSH
term), or a combination of both.`,
	RunE: runLibraryQuery,
}

func runLibraryQuery(cmd *cobra.Command, args []string) error {
	opts := libraryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --journal, --pub-type, --year, or --mesh")
	}

	store, err := library.NewStore(libraryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	articles, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return writeArticles(cmd, articles)
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to YAML or JSON",
	Long: `Export writes the saved article records (or a filtered subset) to
export.yaml or export.json in the library directory. Supports the same
filter flags as query.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := library.NewStore(libraryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := libraryOptsFromFlags(cmd, args)
	dir := libraryConfig().Dir

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", dir)
	case "json":
		if err := store.ExportJSON(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func libraryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	journal, _ := cmd.Flags().GetString("journal")
	pubType, _ := cmd.Flags().GetString("pub-type")
	year, _ := cmd.Flags().GetString("year")
	mesh, _ := cmd.Flags().GetString("mesh")
	limit, _ := cmd.Flags().GetInt("limit")

	return library.QueryOptions{
		Query:           queryText,
		Journal:         journal,
		PublicationType: pubType,
		Year:            year,
		MeSHTerm:        mesh,
		MaxResults:      limit,
	}
}

func init() {
	// Save accepts the same search filters as the search command.
	librarySaveCmd.Flags().String("query", "", "free-text search query (or pass as arguments)")
	librarySaveCmd.Flags().String("author", "", "filter by author name")
	librarySaveCmd.Flags().String("journal", "", "filter by journal name")
	librarySaveCmd.Flags().String("mesh", "", "filter by MeSH terms, semicolon-separated")
	librarySaveCmd.Flags().String("pub-date", "", "filter by publication date or range")
	librarySaveCmd.Flags().String("pub-type", "", "filter by publication type")
	librarySaveCmd.Flags().String("field", "", "restrict the query to a field")
	librarySaveCmd.Flags().Bool("title-only", false, "match the query in titles only")
	librarySaveCmd.Flags().Bool("abstract-only", false, "match the query in abstracts only")
	librarySaveCmd.Flags().String("affiliation", "", "filter by author affiliation")
	librarySaveCmd.Flags().Bool("free-full-text", false, "only articles with free full text")
	librarySaveCmd.Flags().Bool("or", false, "join query terms with OR instead of AND")
	librarySaveCmd.Flags().Int("max-results", 0, "maximum articles to save (0 = config default)")

	// Query flags.
	libraryQueryCmd.Flags().String("query", "", "full-text search query")
	libraryQueryCmd.Flags().String("journal", "", "filter by journal name")
	libraryQueryCmd.Flags().String("pub-type", "", "filter by publication type")
	libraryQueryCmd.Flags().String("year", "", "filter by publication year")
	libraryQueryCmd.Flags().String("mesh", "", "filter by one MeSH term")
	libraryQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	libraryQueryCmd.Flags().Bool("expanded", false, "show full article records")
	libraryQueryCmd.Flags().Bool("table", false, "output results as a table")
	libraryQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	libraryExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	libraryExportCmd.Flags().String("journal", "", "filter by journal name for partial export")
	libraryExportCmd.Flags().String("pub-type", "", "filter by publication type for partial export")
	libraryExportCmd.Flags().String("year", "", "filter by publication year for partial export")
	libraryExportCmd.Flags().String("mesh", "", "filter by one MeSH term for partial export")
	libraryExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(libraryQueryCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
