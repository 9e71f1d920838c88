// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EntrezConfig holds settings for the Entrez/PubMed client.
type EntrezConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent with every E-utilities request, as NCBI asks.
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key. With a key the service allows
	// 10 requests per second instead of 3.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the default maximum number of articles per search
	// (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// RateLimit is the sustained request rate in requests per second.
	// Zero selects 3 req/s, or 10 req/s when APIKey is set.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// Burst is the token-bucket burst size (default 3).
	Burst int `json:"burst" yaml:"burst"`

	// CacheTTL is how long a cached E-utilities response stays valid
	// (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// MaxRetries is the number of retry attempts on 429 and 5xx
	// responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIProvider identifies the generative AI backend.
type AIProvider string

const (
	ProviderGemini AIProvider = "gemini"
	ProviderOpenAI AIProvider = "openai"
)

// AIConfig holds settings for components that call a generative AI API.
type AIConfig struct {
	// Provider selects the backend: gemini or openai.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gemini-2.0-flash", "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature (default 1.0).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retry attempts for failed API calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// KnowledgeConfig holds settings for the vector knowledge base.
type KnowledgeConfig struct {
	// QdrantAddress is the host:port of the Qdrant gRPC endpoint
	// (e.g. "localhost:6334").
	QdrantAddress string `json:"qdrant_address" yaml:"qdrant_address"`

	// Collection is the Qdrant collection name (default "pubmed_knowledge").
	Collection string `json:"collection" yaml:"collection"`

	// VectorSize is the embedding dimensionality (default 768).
	VectorSize uint64 `json:"vector_size" yaml:"vector_size"`

	// EmbeddingModel is the embedding model identifier
	// (e.g. "text-embedding-004").
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// ChunkSize is the target chunk length in runes when splitting
	// documents (default 1000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// MaxResults is the default number of chunks returned per query
	// (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// VaultConfig holds settings for Obsidian vault export.
type VaultConfig struct {
	// Path is the vault root. Empty means resolve from
	// OBSIDIAN_VAULT_PATH or common home locations.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Folder is the subfolder for generated notes (default "AI-Generated").
	Folder string `json:"folder" yaml:"folder"`

	// MaxConcepts is the number of key concepts to extract for note
	// linking (default 10).
	MaxConcepts int `json:"max_concepts" yaml:"max_concepts"`
}

// LibraryConfig holds settings for the local article library.
type LibraryConfig struct {
	// Dir is the directory containing the library database
	// (default "library/").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all component configurations.
type Config struct {
	Entrez    EntrezConfig    `json:"entrez" yaml:"entrez"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Knowledge KnowledgeConfig `json:"knowledge" yaml:"knowledge"`
	Vault     VaultConfig     `json:"vault" yaml:"vault"`
	Library   LibraryConfig   `json:"library" yaml:"library"`
}
