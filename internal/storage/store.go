// Package storage provides the persistence layer for shopping-list
// generation records.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("shopping list record not found")

// ShoppingListRecord is one persisted generation event. Immutable after
// creation except for Notes.
type ShoppingListRecord struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
	RecipeIDs   []string  `json:"recipeIds"`
	ListFileURL string    `json:"listFileUrl"`
	Notes       string    `json:"notes"`
}

// Store is the append-oriented record collection. Implementations must
// serialize Append and UpdateNotes against each other.
type Store interface {
	// Append adds a record. The id must be unique.
	Append(ctx context.Context, rec *ShoppingListRecord) error

	// UpdateNotes replaces the notes of an existing record and returns
	// the updated record. Returns ErrNotFound for unknown ids.
	UpdateNotes(ctx context.Context, id, notes string) (*ShoppingListRecord, error)

	// Get returns a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*ShoppingListRecord, error)

	// ListAll returns every record in insertion order. Filtering by
	// username is a caller concern.
	ListAll(ctx context.Context) ([]ShoppingListRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
