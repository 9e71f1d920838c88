// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-agent CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-agent/internal/entrez"
	"github.com/pdiddy/pubmed-agent/internal/secrets"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Secret file names under .secrets/.
const (
	secretNCBIKey     = "ncbi-api-key"
	secretEntrezEmail = "entrez-email"
	secretGeminiKey   = "gemini-api-key"
	secretOpenAIKey   = "openai-api-key"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the pubmed-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-agent",
	Short: "Research assistant for PubMed literature",
	Long: `pubmed-agent searches PubMed through the NCBI E-utilities, analyzes
citations, and answers research questions with a generative model grounded
in the retrieved articles.

Each capability is a subcommand: search, article, citations, related,
metrics, ask, knowledge, and library. Answers can be exported as Markdown
notes into an Obsidian vault.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-agent.yaml or ~/.config/pubmed-agent/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-agent"))
		}
	}

	viper.SetEnvPrefix("PUBMED_AGENT")
	viper.AutomaticEnv()

	viper.SetDefault("ai.provider", string(types.ProviderGemini))
	viper.SetDefault("ai.temperature", 1.0)
	viper.SetDefault("knowledge.qdrant_address", "localhost:6334")
	viper.SetDefault("knowledge.collection", "pubmed_knowledge")
	viper.SetDefault("knowledge.vector_size", 768)
	viper.SetDefault("knowledge.embedding_model", "text-embedding-004")
	viper.SetDefault("library.dir", "library")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// entrezClient builds the E-utilities client from config and secrets.
func entrezClient() *entrez.Client {
	cfg := types.EntrezConfig{
		Email:      viper.GetString("entrez.email"),
		APIKey:     viper.GetString("entrez.api_key"),
		MaxResults: viper.GetInt("entrez.max_results"),
		RateLimit:  viper.GetFloat64("entrez.rate_limit"),
		CacheTTL:   viper.GetDuration("entrez.cache_ttl"),
		MaxRetries: viper.GetInt("entrez.max_retries"),
	}
	if cfg.Email == "" {
		cfg.Email = secrets.Lookup(loadedSecrets, secretEntrezEmail)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = secrets.Lookup(loadedSecrets, secretNCBIKey)
	}
	return entrez.New(cfg)
}

// aiConfig resolves the generation provider settings, including the
// provider-specific API key from secrets.
func aiConfig(providerFlag, modelFlag string) (types.AIConfig, error) {
	cfg := types.AIConfig{
		Provider:    types.AIProvider(viper.GetString("ai.provider")),
		Model:       viper.GetString("ai.model"),
		Temperature: viper.GetFloat64("ai.temperature"),
		MaxRetries:  viper.GetInt("ai.max_retries"),
	}
	if providerFlag != "" {
		cfg.Provider = types.AIProvider(providerFlag)
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}

	switch cfg.Provider {
	case types.ProviderGemini:
		if cfg.Model == "" {
			cfg.Model = "gemini-2.0-flash"
		}
		key, err := secrets.Require(loadedSecrets, secretGeminiKey)
		if err != nil {
			return types.AIConfig{}, err
		}
		cfg.APIKey = key
	case types.ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
		key, err := secrets.Require(loadedSecrets, secretOpenAIKey)
		if err != nil {
			return types.AIConfig{}, err
		}
		cfg.APIKey = key
	default:
		return types.AIConfig{}, fmt.Errorf("unknown AI provider %q (want %q or %q)",
			cfg.Provider, types.ProviderGemini, types.ProviderOpenAI)
	}

	return cfg, nil
}

// knowledgeConfig resolves the vector knowledge base settings.
func knowledgeConfig() types.KnowledgeConfig {
	return types.KnowledgeConfig{
		QdrantAddress:  viper.GetString("knowledge.qdrant_address"),
		Collection:     viper.GetString("knowledge.collection"),
		VectorSize:     viper.GetUint64("knowledge.vector_size"),
		EmbeddingModel: viper.GetString("knowledge.embedding_model"),
		ChunkSize:      viper.GetInt("knowledge.chunk_size"),
		MaxResults:     viper.GetInt("knowledge.max_results"),
	}
}

// vaultConfig resolves the Obsidian vault settings.
func vaultConfig() types.VaultConfig {
	return types.VaultConfig{
		Path:        viper.GetString("vault.path"),
		Folder:      viper.GetString("vault.folder"),
		MaxConcepts: viper.GetInt("vault.max_concepts"),
	}
}

// libraryConfig resolves the local article library settings.
func libraryConfig() types.LibraryConfig {
	return types.LibraryConfig{
		Dir:        viper.GetString("library.dir"),
		MaxResults: viper.GetInt("library.max_results"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
