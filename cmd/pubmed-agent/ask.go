// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-agent/internal/agent"
	"github.com/pdiddy/pubmed-agent/internal/llm"
	"github.com/pdiddy/pubmed-agent/internal/vault"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a research question using PubMed and a generative model",
	Long: `Ask searches PubMed for articles matching the question, feeds the
retrieved records to the configured generative model, and prints a
synthesized, citation-grounded answer.

With --export the answer is written as a Markdown note into the Obsidian
vault, including suggested concept links and follow-up questions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("provider", "", "AI provider: gemini or openai (default from config)")
	askCmd.Flags().String("model", "", "model identifier (default per provider)")
	askCmd.Flags().Float64("temperature", 0, "sampling temperature (default from config)")
	askCmd.Flags().Bool("no-search", false, "answer from the model alone, without PubMed context")
	askCmd.Flags().Int("max-articles", 0, "maximum articles to feed the model (default 5)")
	askCmd.Flags().String("journal", "", "restrict the PubMed search to a journal")
	askCmd.Flags().String("mesh", "", "restrict the PubMed search by MeSH terms, semicolon-separated")
	askCmd.Flags().String("pub-date", "", "restrict the PubMed search by date range (YYYY:YYYY)")
	askCmd.Flags().Bool("export", false, "export the answer as an Obsidian note")
	askCmd.Flags().Bool("show-articles", false, "print the retrieved article records after the answer")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	providerFlag, _ := cmd.Flags().GetString("provider")
	modelFlag, _ := cmd.Flags().GetString("model")
	noSearch, _ := cmd.Flags().GetBool("no-search")
	maxArticles, _ := cmd.Flags().GetInt("max-articles")
	journal, _ := cmd.Flags().GetString("journal")
	mesh, _ := cmd.Flags().GetString("mesh")
	pubDate, _ := cmd.Flags().GetString("pub-date")
	export, _ := cmd.Flags().GetBool("export")
	showArticles, _ := cmd.Flags().GetBool("show-articles")

	cfg, err := aiConfig(providerFlag, modelFlag)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature, _ = cmd.Flags().GetFloat64("temperature")
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	var exporter agent.NoteExporter
	if export {
		exporter = vault.NewExporter(provider, vaultConfig())
	}

	a := agent.New(provider, entrezClient(), exporter, cfg.Temperature)

	opts := agent.Options{
		SkipSearch:  noSearch,
		MaxArticles: maxArticles,
		ExportNote:  export,
	}
	opts.Filters.Journal = journal
	opts.Filters.MeSHTerms = mesh
	opts.Filters.PublicationDate = pubDate

	answer, err := a.Ask(cmd.Context(), question, opts, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, answer.Text)
	fmt.Fprintf(os.Stderr, "\nmodel: %s, elapsed: %s\n", answer.Model, answer.Elapsed.Round(10*time.Millisecond))

	if showArticles && len(answer.Articles) > 0 {
		fmt.Fprintln(os.Stdout)
		for _, article := range answer.Articles {
			fmt.Fprintln(os.Stdout, article.Title)
			fmt.Fprintf(os.Stdout, "  %s\n", article.PubMedURL)
		}
	}

	if answer.NotePath != "" {
		fmt.Fprintf(os.Stderr, "note: %s\n", answer.NotePath)
	}
	return nil
}
