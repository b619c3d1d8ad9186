// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface using the pure Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"shoplist-generator/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite. Cross-request
// serialization of Append and UpdateNotes comes from the database's own
// write transaction semantics.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts a new generation record.
func (s *SQLiteStore) Append(ctx context.Context, rec *storage.ShoppingListRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	recipeIDs, err := json.Marshal(rec.RecipeIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO shopping_lists (id, username, created_at, recipe_ids, list_file_url, notes) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Username, rec.CreatedAt.Unix(), string(recipeIDs), rec.ListFileURL, rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping list record: %w", err)
	}

	return nil
}

// UpdateNotes replaces the notes of an existing record.
func (s *SQLiteStore) UpdateNotes(ctx context.Context, id, notes string) (*storage.ShoppingListRecord, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shopping_lists SET notes = ? WHERE id = ?",
		notes, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update notes: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrNotFound
	}

	return s.Get(ctx, id)
}

// Get returns a record by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*storage.ShoppingListRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at, recipe_ids, list_file_url, notes FROM shopping_lists WHERE id = ?",
		id,
	)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list record: %w", err)
	}
	return rec, nil
}

// ListAll returns every record in insertion order.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]storage.ShoppingListRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, created_at, recipe_ids, list_file_url, notes FROM shopping_lists ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list records: %w", err)
	}
	defer rows.Close()

	var records []storage.ShoppingListRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping list record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping list records: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*storage.ShoppingListRecord, error) {
	var (
		rec       storage.ShoppingListRecord
		createdAt int64
		recipeIDs string
	)
	if err := row.Scan(&rec.ID, &rec.Username, &createdAt, &recipeIDs, &rec.ListFileURL, &rec.Notes); err != nil {
		return nil, err
	}

	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(recipeIDs), &rec.RecipeIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe ids: %w", err)
	}

	return &rec, nil
}
