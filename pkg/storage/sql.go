package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLStore is a SQL-backed store. It works with any database/sql compatible
// driver. Requires a table with schema:
//
//	CREATE TABLE statekit_entries (
//	    key VARCHAR(255) PRIMARY KEY,
//	    value BYTEA NOT NULL,
//	    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
//	);
type SQLStore struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
	closed    bool
}

// SQLDialect represents the SQL dialect for query generation.
type SQLDialect int

const (
	// DialectPostgreSQL uses PostgreSQL syntax ($1, $2 placeholders).
	DialectPostgreSQL SQLDialect = iota
	// DialectMySQL uses MySQL syntax (? placeholders).
	DialectMySQL
	// DialectSQLite uses SQLite syntax (? placeholders).
	DialectSQLite
)

// SQLStoreOption configures SQLStore behavior.
type SQLStoreOption func(*sqlStoreConfig)

type sqlStoreConfig struct {
	tableName string
	dialect   SQLDialect
}

// WithTableName sets the table name. Default: "statekit_entries".
func WithTableName(name string) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.tableName = name
	}
}

// WithDialect sets the SQL dialect. Default: DialectPostgreSQL.
func WithDialect(d SQLDialect) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.dialect = d
	}
}

// NewSQLStore creates a SQL-backed store. The db is not closed by Close, as
// it may be shared.
func NewSQLStore(db *sql.DB, opts ...SQLStoreOption) *SQLStore {
	cfg := &sqlStoreConfig{
		tableName: "statekit_entries",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &SQLStore{
		db:        db,
		tableName: cfg.tableName,
		dialect:   cfg.dialect,
	}
}

// placeholder returns the dialect placeholder for the nth parameter (1-based).
func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Get retrieves the value for a key.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed {
		return nil, ErrStoreClosed{}
	}

	query := fmt.Sprintf(
		"SELECT value FROM %s WHERE key = %s",
		s.tableName, s.placeholder(1),
	)

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set upserts a value.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if s.closed {
		return ErrStoreClosed{}
	}

	var query string
	switch s.dialect {
	case DialectMySQL:
		query = fmt.Sprintf(
			"INSERT INTO %s (key, value, updated_at) VALUES (?, ?, NOW()) "+
				"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = NOW()",
			s.tableName,
		)
	case DialectSQLite:
		query = fmt.Sprintf(
			"INSERT INTO %s (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) "+
				"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP",
			s.tableName,
		)
	default: // PostgreSQL
		query = fmt.Sprintf(
			"INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, NOW()) "+
				"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()",
			s.tableName,
		)
	}

	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

// Remove deletes a key.
func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if s.closed {
		return ErrStoreClosed{}
	}

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE key = %s",
		s.tableName, s.placeholder(1),
	)
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

// Close marks the store as closed without closing the shared *sql.DB.
func (s *SQLStore) Close() error {
	s.closed = true
	return nil
}
