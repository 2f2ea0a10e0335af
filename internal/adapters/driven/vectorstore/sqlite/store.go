// Package sqlite provides a SQLite-backed vector store. Embeddings are
// stored as little-endian float32 blobs next to chunk text; similarity
// search decodes and scores them in process, which is plenty for
// collection sizes a single machine ingests.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fathom-labs/fathom-cli/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/fathom-labs/fathom-cli/internal/core/domain"
	"github.com/fathom-labs/fathom-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a vector store at the specified data directory.
// If dataDir is empty, defaults to ~/.fathom/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fathom", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// CreateCollection creates a collection. Idempotent for identical model
// and dimensions; an existing collection with different parameters is a
// conflict.
func (s *Store) CreateCollection(ctx context.Context, key domain.CollectionKey, model string, dimensions int) error {
	if key.Name == "" || !key.Provider.IsValid() {
		return fmt.Errorf("%w: invalid collection key %q", domain.ErrInvalidInput, key.String())
	}
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	existing, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Model != model || existing.Dimensions != dimensions {
			return fmt.Errorf("%w: collection %s exists with model %s (%d dims)",
				domain.ErrCollectionConflict, key.String(), existing.Model, existing.Dimensions)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (provider, name, model, dimensions)
		VALUES (?, ?, ?, ?)
	`, key.Provider.String(), key.Name, model, dimensions)
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", key.String(), err)
	}
	return nil
}

// Get returns collection metadata, or nil if no collection exists for
// the key.
func (s *Store) Get(ctx context.Context, key domain.CollectionKey) (*domain.CollectionInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.model, c.dimensions, c.created_at,
		       (SELECT COUNT(*) FROM chunks WHERE collection_id = c.id)
		FROM collections c
		WHERE c.provider = ? AND c.name = ?
	`, key.Provider.String(), key.Name)

	info := domain.CollectionInfo{Key: key}
	if err := row.Scan(&info.Model, &info.Dimensions, &info.CreatedAt, &info.ChunkCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning collection %s: %w", key.String(), err)
	}
	return &info, nil
}

// AddChunks persists chunks with their embedding vectors.
func (s *Store) AddChunks(ctx context.Context, key domain.CollectionKey, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	collectionID, dimensions, err := s.lookupCollection(ctx, key)
	if err != nil {
		return err
	}

	for i, v := range vectors {
		if len(v) != dimensions {
			return fmt.Errorf("%w: vector %d has %d dimensions, collection %s expects %d",
				domain.ErrInvalidInput, i, len(v), key.String(), dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection_id, document_id, content, position, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, collectionID, chunk.DocumentID,
			chunk.Content, chunk.Position, float32SliceToBytes(vectors[i]), string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns the k stored chunks most similar to the query vector,
// ties broken by insertion order.
func (s *Store) Search(ctx context.Context, key domain.CollectionKey, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	collectionID, dimensions, err := s.lookupCollection(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(query) != dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection %s expects %d",
			domain.ErrInvalidInput, len(query), key.String(), dimensions)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, embedding, metadata
		FROM chunks WHERE collection_id = ?
		ORDER BY rowid
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		var metadataJSON string
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Position, &embeddingBlob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
			}
		}

		hits = append(hits, driven.VectorHit{
			Chunk:      chunk,
			Similarity: cosineSimilarity(query, bytesToFloat32Slice(embeddingBlob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// List enumerates all persisted collections.
func (s *Store) List(ctx context.Context) ([]domain.CollectionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.provider, c.name, c.model, c.dimensions, c.created_at,
		       (SELECT COUNT(*) FROM chunks WHERE collection_id = c.id)
		FROM collections c
		ORDER BY c.provider, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var infos []domain.CollectionInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.CollectionInfo
		var provider string
		if err := rows.Scan(&provider, &info.Key.Name, &info.Model,
			&info.Dimensions, &info.CreatedAt, &info.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		info.Key.Provider = domain.AIProvider(provider)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}
	return infos, nil
}

// lookupCollection resolves a key to its row ID and dimensions.
func (s *Store) lookupCollection(ctx context.Context, key domain.CollectionKey) (int64, int, error) {
	var id int64
	var dimensions int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, dimensions FROM collections WHERE provider = ? AND name = ?
	`, key.Provider.String(), key.Name).Scan(&id, &dimensions)
	if err == sql.ErrNoRows {
		return 0, 0, fmt.Errorf("%w: collection %s does not exist", domain.ErrStoreNotInitialized, key.String())
	}
	if err != nil {
		return 0, 0, fmt.Errorf("looking up collection %s: %w", key.String(), err)
	}
	return id, dimensions, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity scores two vectors in float64 to limit rounding
// drift. Zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
