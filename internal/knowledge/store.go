// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge maintains a Qdrant-backed vector knowledge base of
// article text, used for semantic retrieval over previously loaded
// search results.
package knowledge

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"

	"github.com/pdiddy/pubmed-agent/pkg/types"
)

const (
	payloadText  = "text"
	payloadPMID  = "pmid"
	payloadTitle = "title"
)

// Point is one embedded text chunk to be stored in the collection.
type Point struct {
	// ID is the Qdrant point ID, unique per chunk.
	ID uuid.UUID
	// Vector is the dense embedding of Text.
	Vector []float32
	// Text is the chunk content.
	Text string
	// PMID identifies the source article.
	PMID string
	// Title is the source article title.
	Title string
}

// Hit is a single result from a similarity search.
type Hit struct {
	Text  string
	PMID  string
	Title string
	// Score is the cosine similarity (higher is more similar).
	Score float32
}

// VectorStore defines the storage operations the knowledge base needs,
// abstracted so tests can supply a mock.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not already exist.
	EnsureCollection(ctx context.Context) error
	// Upsert inserts or updates chunk points in the collection.
	Upsert(ctx context.Context, points []Point) error
	// Search finds the topK most similar chunks to vector.
	Search(ctx context.Context, vector []float32, topK uint64) ([]Hit, error)
	// Close releases the underlying gRPC connection.
	Close() error
}

// Compile-time check that Store implements VectorStore.
var _ VectorStore = (*Store)(nil)

// Store is a Qdrant vector store client that implements VectorStore via gRPC.
type Store struct {
	client     *pb.Client
	collection string
	vectorSize uint64
}

// NewStore creates a Qdrant client by dialing cfg.QdrantAddress. The
// connection uses insecure credentials, suitable for local deployments.
func NewStore(cfg types.KnowledgeConfig) (*Store, error) {
	if cfg.QdrantAddress == "" {
		return nil, fmt.Errorf("knowledge: qdrant address is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("knowledge: collection name is required")
	}
	if cfg.VectorSize == 0 {
		return nil, fmt.Errorf("knowledge: vector size must be > 0")
	}

	host, portStr, err := net.SplitHostPort(cfg.QdrantAddress)
	if err != nil {
		return nil, fmt.Errorf("knowledge: invalid address %q: %w", cfg.QdrantAddress, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("knowledge: invalid port %q in address", portStr)
	}

	client, err := pb.NewClient(&pb.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge: creating qdrant client: %w", err)
	}

	return &Store{
		client:     client,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
	}, nil
}

// EnsureCollection checks whether the configured collection exists and
// creates it with cosine distance if it does not.
func (s *Store) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("knowledge: checking collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: pb.NewVectorsConfig(&pb.VectorParams{
			Size:     s.vectorSize,
			Distance: pb.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("knowledge: creating collection %q: %w", s.collection, err)
	}

	return nil
}

// Upsert inserts or updates chunk points. Each chunk's UUID is used as
// the Qdrant point ID, so re-loading the same chunk is idempotent.
func (s *Store) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*pb.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &pb.PointStruct{
			Id:      pb.NewIDUUID(p.ID.String()),
			Vectors: pb.NewVectors(p.Vector...),
			Payload: pb.NewValueMap(map[string]any{
				payloadText:  p.Text,
				payloadPMID:  p.PMID,
				payloadTitle: p.Title,
			}),
		})
	}

	wait := true
	_, err := s.client.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("knowledge: upserting %d points: %w", len(points), err)
	}

	return nil
}

// Search performs a nearest-neighbor vector search returning up to topK
// chunks ordered by cosine similarity (descending).
func (s *Store) Search(ctx context.Context, vector []float32, topK uint64) ([]Hit, error) {
	scored, err := s.client.Query(ctx, &pb.QueryPoints{
		CollectionName: s.collection,
		Query:          pb.NewQueryDense(vector),
		Limit:          &topK,
		WithPayload:    pb.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge: search failed: %w", err)
	}

	hits := make([]Hit, 0, len(scored))
	for _, sp := range scored {
		hit := Hit{Score: sp.Score}
		if v, ok := sp.Payload[payloadText]; ok {
			hit.Text = v.GetStringValue()
		}
		if v, ok := sp.Payload[payloadPMID]; ok {
			hit.PMID = v.GetStringValue()
		}
		if v, ok := sp.Payload[payloadTitle]; ok {
			hit.Title = v.GetStringValue()
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Close releases the gRPC connection to Qdrant.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
