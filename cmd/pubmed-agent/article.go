// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

var articleCmd = &cobra.Command{
	Use:   "article [pmid]",
	Short: "Fetch one article record by PMID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := entrezClient()
		article, err := client.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return entrez.FormatJSON([]types.Article{article}, os.Stdout)
		}
		fmt.Fprintln(os.Stdout, entrez.Expanded(article))
		return nil
	},
}

var citationsCmd = &cobra.Command{
	Use:   "citations [pmid]",
	Short: "List articles that cite the given article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		max, _ := cmd.Flags().GetInt("max-results")

		client := entrezClient()
		articles, err := client.CitedBy(cmd.Context(), args[0], max)
		if err != nil {
			return err
		}
		return writeArticles(cmd, articles)
	},
}

var relatedCmd = &cobra.Command{
	Use:   "related [pmid]",
	Short: "List articles related to the given article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		max, _ := cmd.Flags().GetInt("max-results")

		client := entrezClient()
		articles, err := client.Related(cmd.Context(), args[0], max)
		if err != nil {
			return err
		}
		return writeArticles(cmd, articles)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics [pmid]",
	Short: "Show citation metrics for an article",
	Long: `Metrics fetches the article record, counts the articles citing it, and
lists a sample of related work.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := entrezClient()
		m, err := client.Metrics(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return entrez.FormatMetrics(m, os.Stdout)
	},
}

func init() {
	articleCmd.Flags().Bool("json", false, "output the record as JSON")

	for _, cmd := range []*cobra.Command{citationsCmd, relatedCmd} {
		cmd.Flags().Int("max-results", 0, "maximum number of results (0 = config default)")
		cmd.Flags().Bool("expanded", false, "show full article records")
		cmd.Flags().Bool("table", false, "output results as a table")
		cmd.Flags().Bool("json", false, "output results as JSON")
	}

	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(citationsCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(metricsCmd)
}
