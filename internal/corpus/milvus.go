package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

func init() {
	// Load .env for Milvus configuration
	_ = godotenv.Load("../../../.env")
}

// Common errors for Milvus operations
var (
	ErrInvalidDimension = errors.New("invalid vector dimension")
	ErrConnectionFailed = errors.New("failed to connect to Milvus")
	ErrSearchFailed     = errors.New("failed to search vectors")
)

// MilvusConfig holds configuration for Milvus connection and collection
type MilvusConfig struct {
	Address        string // Milvus server address (e.g., "localhost:19530")
	CollectionName string // Name of the chunk collection
	Dimension      int    // Vector dimension (e.g., 3072 for text-embedding-3-large)
	IndexType      string // Index type (default: "HNSW")
	MetricType     string // Similarity metric (default: "COSINE")

	// HNSW index parameters
	M              int // HNSW M parameter (default: 16)
	EfConstruction int // HNSW efConstruction (default: 256)
}

// DefaultMilvusConfig returns default configuration from environment variables
func DefaultMilvusConfig() MilvusConfig {
	address := os.Getenv("MILVUS_ADDRESS")
	if address == "" {
		address = "localhost:19530"
	}

	collection := os.Getenv("MILVUS_COLLECTION")
	if collection == "" {
		collection = "episode_chunks"
	}

	return MilvusConfig{
		Address:        address,
		CollectionName: collection,
		Dimension:      3072,
		IndexType:      "HNSW",
		MetricType:     "COSINE",
		M:              16,
		EfConstruction: 256,
	}
}

// MilvusStore implements the Store interface backed by a Milvus collection
// of episode chunks. Queries are embedded on the fly via the configured
// Embedder; listing bypasses embeddings entirely.
type MilvusStore struct {
	client   client.Client
	embedder Embedder
	config   MilvusConfig
}

// NewMilvusStore creates a new Milvus chunk store instance
// Connects to Milvus and ensures the collection exists with proper schema
func NewMilvusStore(ctx context.Context, config MilvusConfig, embedder Embedder) (*MilvusStore, error) {
	if config.Dimension <= 0 {
		return nil, ErrInvalidDimension
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}

	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &MilvusStore{
		client:   c,
		embedder: embedder,
		config:   config,
	}

	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the collection with schema if it doesn't exist
func (m *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if has {
		return nil // Collection already exists
	}

	// Define schema for episode chunks
	schema := &entity.Schema{
		CollectionName: m.config.CollectionName,
		AutoID:         true,
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:     "episode_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "text",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", m.config.Dimension),
				},
			},
			{
				Name:     "source_type",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "paper_title",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
			{
				Name:     "priority",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "sequence_index",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "time_start",
				DataType: entity.FieldTypeDouble, // Seconds into the audio track
			},
			{
				Name:     "time_end",
				DataType: entity.FieldTypeDouble,
			},
		},
	}

	// Create collection
	if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// Create HNSW index on embedding field
	idx, err := entity.NewIndexHNSW(entity.COSINE, m.config.M, m.config.EfConstruction)
	if err != nil {
		return fmt.Errorf("failed to create index config: %w", err)
	}

	if err := m.client.CreateIndex(ctx, m.config.CollectionName, "embedding", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	// Load collection into memory
	if err := m.client.LoadCollection(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	return nil
}

var chunkOutputFields = []string{
	"episode_id", "text", "source_type", "paper_title",
	"priority", "sequence_index", "time_start", "time_end",
}

// SimilaritySearch embeds the query and performs top-K vector search
// restricted to the given episode. An empty query falls back to a generic
// overview probe so retrieval still returns episode content.
func (m *MilvusStore) SimilaritySearch(ctx context.Context, episodeID, query string, topK int) ([]ScoredChunk, error) {
	if episodeID == "" {
		return nil, fmt.Errorf("episode ID cannot be empty")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	if query == "" {
		query = "episode overview"
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding generated for query")
	}
	queryVector := vectors[0]
	if len(queryVector) != m.config.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(queryVector))
	}

	expr := fmt.Sprintf(`episode_id == "%s"`, episodeID)

	sp, err := entity.NewIndexHNSWSearchParam(64) // ef parameter for search
	if err != nil {
		return nil, fmt.Errorf("failed to create search params: %w", err)
	}

	results, err := m.client.Search(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		expr,
		chunkOutputFields,
		[]entity.Vector{entity.FloatVector(queryVector)},
		"embedding",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	if len(results) == 0 {
		return []ScoredChunk{}, nil
	}

	scored := make([]ScoredChunk, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		chunk := parseChunkFields(results[0].Fields, i)
		scored = append(scored, ScoredChunk{Chunk: chunk, Score: results[0].Scores[i]})
	}

	return scored, nil
}

// ListAll returns up to limit chunks of an episode with no relevance
// ranking. A missing episode yields an empty slice, not an error.
func (m *MilvusStore) ListAll(ctx context.Context, episodeID string, limit int) ([]Chunk, error) {
	if episodeID == "" {
		return nil, fmt.Errorf("episode ID cannot be empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	expr := fmt.Sprintf(`episode_id == "%s"`, episodeID)

	results, err := m.client.Query(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		expr,
		chunkOutputFields,
		client.WithLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list episode chunks: %w", err)
	}

	rows := 0
	for _, column := range results {
		if column.Name() == "text" {
			rows = column.Len()
		}
	}

	chunks := make([]Chunk, 0, rows)
	for i := 0; i < rows; i++ {
		chunks = append(chunks, parseChunkFields(results, i))
	}

	return chunks, nil
}

// parseChunkFields extracts row i from a set of result columns.
func parseChunkFields(fields []entity.Column, i int) Chunk {
	var chunk Chunk
	for _, field := range fields {
		switch field.Name() {
		case "episode_id":
			chunk.EpisodeID = field.(*entity.ColumnVarChar).Data()[i]
		case "text":
			chunk.Text = field.(*entity.ColumnVarChar).Data()[i]
		case "source_type":
			chunk.SourceType = SourceType(field.(*entity.ColumnVarChar).Data()[i])
		case "paper_title":
			chunk.PaperTitle = field.(*entity.ColumnVarChar).Data()[i]
		case "priority":
			chunk.Priority = int(field.(*entity.ColumnInt64).Data()[i])
		case "sequence_index":
			chunk.SequenceIndex = int(field.(*entity.ColumnInt64).Data()[i])
		case "time_start":
			chunk.TimeStart = field.(*entity.ColumnDouble).Data()[i]
		case "time_end":
			chunk.TimeEnd = field.(*entity.ColumnDouble).Data()[i]
		}
	}
	return chunk
}

// Close releases resources and closes the Milvus connection
func (m *MilvusStore) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
