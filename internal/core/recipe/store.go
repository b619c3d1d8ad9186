package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"shoplist-generator/internal/pkg/common"
)

// Store is a read-only view over the application's flat JSON collection
// file. The recipe collection itself is owned by the CRUD service; this
// store only resolves recipes for shopping-list generation and re-reads
// the file whenever its modification time changes.
type Store struct {
	path string

	mu      sync.RWMutex
	recipes map[string]Recipe
	keys    []string // collection names found in the file
	modTime time.Time
}

// NewStore loads the collection file at path.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the collection file, replacing the in-memory view.
func (s *Store) Reload() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("failed to stat collection file %s: %w", s.path, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read collection file %s: %w", s.path, err)
	}

	var collections struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.Unmarshal(data, &collections); err != nil {
		return fmt.Errorf("failed to parse collection file %s: %w", s.path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse collection file %s: %w", s.path, err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byID := make(map[string]Recipe, len(collections.Recipes))
	for _, r := range collections.Recipes {
		byID[r.ID] = r
	}

	s.mu.Lock()
	s.recipes = byID
	s.keys = keys
	s.modTime = info.ModTime()
	s.mu.Unlock()

	return nil
}

// maybeReload refreshes the view when the backing file changed. The
// owning CRUD service writes the file at any time; resolving against a
// stale snapshot would reject recipes added after startup. On any
// failure the previous snapshot stays in place.
func (s *Store) maybeReload() {
	info, err := os.Stat(s.path)
	if err != nil {
		common.LogWarn("Failed to stat collection file, keeping current snapshot",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return
	}

	s.mu.RLock()
	changed := !info.ModTime().Equal(s.modTime)
	s.mu.RUnlock()
	if !changed {
		return
	}

	if err := s.Reload(); err != nil {
		common.LogWarn("Failed to reload collection file, keeping current snapshot",
			zap.String("path", s.path),
			zap.Error(err),
		)
	}
}

// FindByIDs resolves the given IDs, preserving request order. Unknown IDs
// are skipped; the returned slice may be shorter than ids.
func (s *Store) FindByIDs(ids []string) []Recipe {
	s.maybeReload()

	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.recipes[id]; ok {
			found = append(found, r)
		}
	}
	return found
}

// Collections returns the collection names present in the backing file.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.keys...)
}

// Len returns the number of loaded recipes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}
