package traces

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using a local SQLite database file.
// Sample vectors are stored as little-endian float64 blobs.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the trace database at
// dbPath. The parent directory is created when missing.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS traces (
			locator     TEXT PRIMARY KEY,
			sample_rate REAL NOT NULL,
			samples     BLOB NOT NULL
		)
	`)
	return err
}

// Get fetches the trace for locator. A missing row is (nil, 0, false, nil).
func (s *SQLiteStore) Get(ctx context.Context, locator string) ([]float64, float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rate float64
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT sample_rate, samples FROM traces WHERE locator = ?`, locator,
	).Scan(&rate, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to query trace %q: %w", locator, err)
	}

	samples, err := decodeSamples(blob)
	if err != nil {
		return nil, 0, false, fmt.Errorf("corrupt trace %q: %w", locator, err)
	}
	return samples, rate, true, nil
}

// Put stores a trace under locator, replacing any previous trace.
func (s *SQLiteStore) Put(ctx context.Context, locator string, sampleRate float64, samples []float64) error {
	if locator == "" {
		return fmt.Errorf("trace locator is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO traces (locator, sample_rate, samples) VALUES (?, ?, ?)
		 ON CONFLICT(locator) DO UPDATE SET sample_rate = excluded.sample_rate, samples = excluded.samples`,
		locator, sampleRate, encodeSamples(samples))
	if err != nil {
		return fmt.Errorf("failed to store trace %q: %w", locator, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeSamples(samples []float64) []byte {
	buf := make([]byte, 8*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeSamples(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 8", len(blob))
	}
	samples := make([]float64, len(blob)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return samples, nil
}
