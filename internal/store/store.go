// Package store caches enriched deals in SQLite so repeated runs over the
// same batch skip paid generative calls.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dealwire/internal/core"
)

// Store represents the SQLite-based caching store
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "dealwire.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	dealsTable := `
	CREATE TABLE IF NOT EXISTS deals (
		url TEXT,
		content_hash TEXT,
		id TEXT,
		title TEXT,
		pretty_date TEXT,
		context TEXT,
		deal_value TEXT,
		metadata TEXT,
		model_used TEXT,
		date_enriched DATETIME,
		PRIMARY KEY (url, content_hash)
	);`

	if _, err := s.db.Exec(dealsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// ContentHash returns the cache key component derived from article content.
// A content edit invalidates the cached enrichment for the same URL.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CacheDeal stores an enriched deal keyed by its source URL and content hash.
func (s *Store) CacheDeal(deal core.EnrichedDeal, contentHash string) error {
	metadata, err := json.Marshal(deal.DealMetadata)
	if err != nil {
		return fmt.Errorf("failed to encode deal metadata: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO deals
	(url, content_hash, id, title, pretty_date, context, deal_value, metadata, model_used, date_enriched)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		deal.URL,
		contentHash,
		deal.ID,
		deal.Title,
		deal.PrettyDate,
		deal.Context,
		deal.DealValue,
		string(metadata),
		deal.ModelUsed,
		deal.DateEnriched,
	)

	return err
}

// GetCachedDeal retrieves an enriched deal from the cache. A miss, including
// an entry older than maxAge, returns (nil, nil).
func (s *Store) GetCachedDeal(url, contentHash string, maxAge time.Duration) (*core.EnrichedDeal, error) {
	query := `
	SELECT id, title, pretty_date, context, deal_value, metadata, model_used, date_enriched
	FROM deals
	WHERE url = ? AND content_hash = ? AND date_enriched > ?`

	cutoff := time.Now().UTC().Add(-maxAge)
	row := s.db.QueryRow(query, url, contentHash, cutoff)

	var deal core.EnrichedDeal
	var metadata string

	err := row.Scan(
		&deal.ID,
		&deal.Title,
		&deal.PrettyDate,
		&deal.Context,
		&deal.DealValue,
		&metadata,
		&deal.ModelUsed,
		&deal.DateEnriched,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan deal: %w", err)
	}

	deal.URL = url
	if err := json.Unmarshal([]byte(metadata), &deal.DealMetadata); err != nil {
		return nil, fmt.Errorf("failed to decode deal metadata: %w", err)
	}

	return &deal, nil
}

// CacheStats represents cache statistics
type CacheStats struct {
	DealCount   int
	CacheSize   int64
	LastUpdated time.Time
}

// GetCacheStats returns statistics about the cache
func (s *Store) GetCacheStats() (*CacheStats, error) {
	stats := &CacheStats{}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM deals").Scan(&stats.DealCount); err != nil {
		return nil, fmt.Errorf("failed to count deals: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.CacheSize = info.Size()
		stats.LastUpdated = info.ModTime()
	}

	return stats, nil
}
