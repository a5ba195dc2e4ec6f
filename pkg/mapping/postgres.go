// pkg/mapping/postgres.go
package mapping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/careops/phi-cleanse/pkg/model"
)

// PostgresStore keeps mapping tables in a single Postgres table instead of
// per-type JSON files, for deployments where several operators share one
// mapping state. Every insert is durable immediately, so Flush is a no-op
// and the flush policy does not apply.
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger

	mu       sync.Mutex
	cache    map[model.FieldType]map[string]string
	loaded   map[model.FieldType]bool
	warnings []Warning
}

const createMappingTableSQL = `
	CREATE TABLE IF NOT EXISTS phi_mappings (
		field_type      TEXT NOT NULL,
		original_value  TEXT NOT NULL,
		sanitized_value TEXT NOT NULL,
		created_at      TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (field_type, original_value)
	)
`

// NewPostgresStore opens a Postgres-backed mapping store and ensures the
// mapping table exists.
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &PostgresStore{
		db:     db,
		logger: logger,
		cache:  make(map[model.FieldType]map[string]string),
		loaded: make(map[model.FieldType]bool),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, createMappingTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create mapping table: %w", err)
	}

	logger.Info("Ensured phi_mappings table exists")
	return s, nil
}

// Close releases the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// GetOrCreate implements Store. Concurrent creators of the same original are
// resolved by the primary key: the insert is ON CONFLICT DO NOTHING and the
// stored row wins.
func (s *PostgresStore) GetOrCreate(ft model.FieldType, original string, gen func() (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ft); err != nil {
		return "", err
	}

	if sanitized, ok := s.cache[ft][original]; ok {
		return sanitized, nil
	}

	sanitized, err := gen()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO phi_mappings (field_type, original_value, sanitized_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (field_type, original_value) DO NOTHING
	`, ft.String(), original, sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to insert mapping: %w", err)
	}

	// Another writer may have won the conflict; the stored value is
	// authoritative either way.
	var stored string
	err = s.db.GetContext(ctx, &stored, `
		SELECT sanitized_value FROM phi_mappings
		WHERE field_type = $1 AND original_value = $2
	`, ft.String(), original)
	switch {
	case err == nil:
		sanitized = stored
	case errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("mapping insert not visible: %w", err)
	default:
		return "", fmt.Errorf("failed to read back mapping: %w", err)
	}

	s.cache[ft][original] = sanitized
	return sanitized, nil
}

// Load implements Store.
func (s *PostgresStore) Load(ft model.FieldType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoaded(ft)
}

// Flush implements Store. Inserts are durable immediately.
func (s *PostgresStore) Flush(model.FieldType) error { return nil }

// FlushAll implements Store.
func (s *PostgresStore) FlushAll() error { return nil }

// Warnings implements Store.
func (s *PostgresStore) Warnings() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// ensureLoaded warms the in-memory cache for a field type. A read failure
// degrades to an empty cache with a surfaced warning; the database remains
// authoritative through GetOrCreate's read-back.
func (s *PostgresStore) ensureLoaded(ft model.FieldType) error {
	if s.loaded[ft] {
		return nil
	}
	s.loaded[ft] = true
	s.cache[ft] = make(map[string]string)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := s.db.QueryxContext(ctx, `
		SELECT original_value, sanitized_value FROM phi_mappings
		WHERE field_type = $1
	`, ft.String())
	if err != nil {
		s.warnings = append(s.warnings, Warning{
			FieldType: ft,
			Message:   fmt.Sprintf("failed to load mappings: %v", err),
			Time:      time.Now(),
		})
		s.logger.Warn("Failed to warm mapping cache",
			zap.String("fieldType", ft.String()),
			zap.Error(err))
		return nil
	}
	defer rows.Close()

	for rows.Next() {
		var original, sanitized string
		if err := rows.Scan(&original, &sanitized); err != nil {
			return fmt.Errorf("failed to scan mapping row: %w", err)
		}
		s.cache[ft][original] = sanitized
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating mappings: %w", err)
	}

	s.logger.Debug("Loaded mapping table",
		zap.String("fieldType", ft.String()),
		zap.Int("entries", len(s.cache[ft])))
	return nil
}
