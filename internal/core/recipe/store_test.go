package recipe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collectionFixture = `{
  "recipes": [
    {
      "id": "r1",
      "name": "Pasta",
      "ingredients": [
        {"items": [{"amount": "500g", "name": "spaghetti"}]}
      ]
    },
    {"id": "r2", "name": "Empty"}
  ],
  "users": [{"id": "u1", "name": "anonymous"}]
}`

func writeCollection(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(writeCollection(t, collectionFixture))
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"recipes", "users"}, store.Collections())
}

func TestNewStoreMissingFile(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFindByIDs(t *testing.T) {
	store, err := NewStore(writeCollection(t, collectionFixture))
	require.NoError(t, err)

	// Request order is preserved, unknown ids are skipped.
	found := store.FindByIDs([]string{"r2", "nope", "r1"})
	require.Len(t, found, 2)
	assert.Equal(t, "Empty", found[0].Name)
	assert.Equal(t, "Pasta", found[1].Name)

	assert.Empty(t, store.FindByIDs(nil))
}

func TestFindByIDsPicksUpFileChanges(t *testing.T) {
	path := writeCollection(t, collectionFixture)
	store, err := NewStore(path)
	require.NoError(t, err)
	require.Empty(t, store.FindByIDs([]string{"r3"}))

	// The owning CRUD service rewrites the file behind our back; the
	// next lookup must see the new recipe without a restart.
	updated := `{"recipes": [{"id": "r3", "name": "Soup"}]}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	future := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	found := store.FindByIDs([]string{"r3"})
	require.Len(t, found, 1)
	assert.Equal(t, "Soup", found[0].Name)
	assert.Empty(t, store.FindByIDs([]string{"r1"}))
}

func TestReload(t *testing.T) {
	path := writeCollection(t, collectionFixture)
	store, err := NewStore(path)
	require.NoError(t, err)

	updated := `{"recipes": [{"id": "r3", "name": "Soup"}]}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	require.NoError(t, store.Reload())

	assert.Equal(t, 1, store.Len())
	assert.Empty(t, store.FindByIDs([]string{"r1"}))
	require.Len(t, store.FindByIDs([]string{"r3"}), 1)
}
