// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/internal/knowledge"
	"github.com/pdiddy/pubmed-agent/internal/llm"
	"github.com/pdiddy/pubmed-agent/internal/secrets"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the vector knowledge base (load, query)",
	Long: `Knowledge maintains a Qdrant collection of embedded article text.
Use load to search PubMed and store the results, and query to retrieve
the most similar stored chunks for a question.`,
}

// --- load subcommand ---

var knowledgeLoadCmd = &cobra.Command{
	Use:   "load [query]",
	Short: "Search PubMed and load the results into the knowledge base",
	Long: `Load runs a PubMed search, embeds each article's title and abstract
with the configured embedding model, and upserts the chunks into the
Qdrant collection. Re-loading an article overwrites its previous chunks.`,
	RunE: runKnowledgeLoad,
}

func runKnowledgeLoad(cmd *cobra.Command, args []string) error {
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

	base, store, err := knowledgeBase(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := base.Load(cmd.Context(), articles, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Loaded == 0 {
		return fmt.Errorf("no articles loaded: %d skipped", summary.Skipped)
	}
	return nil
}

// --- query subcommand ---

var knowledgeQueryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Retrieve the stored chunks most similar to a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKnowledgeQuery,
}

func runKnowledgeQuery(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	base, store, err := knowledgeBase(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := base.Query(cmd.Context(), question)
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Fprintln(os.Stdout, "No results found.")
		return nil
	}

	for i, hit := range hits {
		fmt.Fprintf(os.Stdout, "%d. [%.3f] %s (PMID %s)\n", i+1, hit.Score, hit.Title, hit.PMID)
		fmt.Fprintf(os.Stdout, "   %s\n\n", hit.Text)
	}
	return nil
}

// knowledgeBase wires the Qdrant store and the Gemini embedder.
func knowledgeBase(cmd *cobra.Command) (*knowledge.Base, *knowledge.Store, error) {
	cfg := knowledgeConfig()

	apiKey, err := secrets.Require(loadedSecrets, secretGeminiKey)
	if err != nil {
		return nil, nil, err
	}
	embedder, err := llm.NewEmbedder(cmd.Context(), apiKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, nil, err
	}

	store, err := knowledge.NewStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	return knowledge.NewBase(store, embedder, cfg), store, nil
}

func init() {
	knowledgeLoadCmd.Flags().String("query", "", "free-text search query (or pass as arguments)")
	knowledgeLoadCmd.Flags().String("author", "", "filter by author name")
	knowledgeLoadCmd.Flags().String("journal", "", "filter by journal name")
	knowledgeLoadCmd.Flags().String("mesh", "", "filter by MeSH terms, semicolon-separated")
	knowledgeLoadCmd.Flags().String("pub-date", "", "filter by publication date or range")
	knowledgeLoadCmd.Flags().String("pub-type", "", "filter by publication type")
	knowledgeLoadCmd.Flags().String("field", "", "restrict the query to a field")
	knowledgeLoadCmd.Flags().Bool("title-only", false, "match the query in titles only")
	knowledgeLoadCmd.Flags().Bool("abstract-only", false, "match the query in abstracts only")
	knowledgeLoadCmd.Flags().String("affiliation", "", "filter by author affiliation")
	knowledgeLoadCmd.Flags().Bool("free-full-text", false, "only articles with free full text")
	knowledgeLoadCmd.Flags().Bool("or", false, "join query terms with OR instead of AND")
	knowledgeLoadCmd.Flags().Int("max-results", 0, "maximum articles to load (0 = config default)")

	knowledgeCmd.AddCommand(knowledgeLoadCmd)
	knowledgeCmd.AddCommand(knowledgeQueryCmd)

	rootCmd.AddCommand(knowledgeCmd)
}
