package shoplist

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist-generator/internal/core/document"
	"shoplist-generator/internal/core/recipe"
	core "shoplist-generator/internal/core/shoplist"
	"shoplist-generator/internal/infrastructure/config"
	"shoplist-generator/internal/storage"
)

type fakeRecipeSource struct {
	recipes []recipe.Recipe
}

func (f *fakeRecipeSource) FindByIDs(ids []string) []recipe.Recipe {
	return f.recipes
}

type passthroughConsolidator struct{}

func (passthroughConsolidator) Consolidate(ctx context.Context, lines []core.IngredientLine) []core.ConsolidatedLine {
	out := make([]core.ConsolidatedLine, len(lines))
	for i, l := range lines {
		out[i] = core.ConsolidatedLine{Amount: l.Amount, Ingredient: l.Name, Recipes: l.Recipes}
	}
	return out
}

type fakeRenderer struct{}

func (fakeRenderer) Render(header document.Header, lines []document.Line, generatedAt time.Time) (*document.Document, error) {
	return &document.Document{Bytes: []byte("%PDF-fake"), Pages: 1}, nil
}

type memoryStore struct {
	records []storage.ShoppingListRecord
}

func (m *memoryStore) Append(ctx context.Context, rec *storage.ShoppingListRecord) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *memoryStore) UpdateNotes(ctx context.Context, id, notes string) (*storage.ShoppingListRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Notes = notes
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memoryStore) Get(ctx context.Context, id string) (*storage.ShoppingListRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memoryStore) ListAll(ctx context.Context) ([]storage.ShoppingListRecord, error) {
	return append([]storage.ShoppingListRecord(nil), m.records...), nil
}

func (m *memoryStore) Close() error { return nil }

func setupRouter(t *testing.T, recipes []recipe.Recipe, store *memoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Storage: config.StorageConfig{
			OutputDir:  t.TempDir(),
			PublicBase: "/shopping-lists",
		},
	}
	svc := core.NewService(cfg, &fakeRecipeSource{recipes: recipes}, passthroughConsolidator{}, fakeRenderer{}, store)
	handler := NewHandler(svc, store)

	router := gin.New()
	router.POST("/api/shopping-list", handler.Generate)
	router.GET("/api/shopping-lists", handler.List)
	router.PUT("/api/shopping-lists/:id/notes", handler.UpdateNotes)
	return router
}

func pastaRecipe() recipe.Recipe {
	return recipe.Recipe{
		ID:   "a",
		Name: "Pasta",
		Ingredients: []recipe.IngredientGroup{
			{Items: []recipe.Ingredient{{Amount: "500g", Name: "spaghetti"}}},
		},
	}
}

func postJSON(router *gin.Engine, path, body, username string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.Header.Set("X-Username", username)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateSuccess(t *testing.T) {
	store := &memoryStore{}
	router := setupRouter(t, []recipe.Recipe{pastaRecipe()}, store)

	w := postJSON(router, "/api/shopping-list", `{"recipeIds": ["a"]}`, "Maria")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/shopping-lists/shopping_Maria_"))

	require.Len(t, store.records, 1)
	assert.Equal(t, "Maria", store.records[0].Username)
}

func TestGenerateUsernameFallback(t *testing.T) {
	store := &memoryStore{}
	router := setupRouter(t, []recipe.Recipe{pastaRecipe()}, store)

	w := postJSON(router, "/api/shopping-list", `{"recipeIds": ["a"]}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.records, 1)
	assert.Equal(t, "anonymous", store.records[0].Username)
}

func TestGenerateInvalidRequest(t *testing.T) {
	router := setupRouter(t, []recipe.Recipe{pastaRecipe()}, &memoryStore{})

	for _, body := range []string{
		`{}`,
		`{"recipeIds": []}`,
		`{"recipeIds": "a"}`,
		`not json`,
	} {
		w := postJSON(router, "/api/shopping-list", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.JSONEq(t, `{"error": "recipes array is required"}`, w.Body.String(), "body %q", body)
	}
}

func TestGenerateNoValidRecipes(t *testing.T) {
	router := setupRouter(t, []recipe.Recipe{{ID: "a", Name: "Empty"}}, &memoryStore{})

	w := postJSON(router, "/api/shopping-list", `{"recipeIds": ["a"]}`, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "No valid recipes with ingredients found"}`, w.Body.String())
}

func TestListRecords(t *testing.T) {
	store := &memoryStore{records: []storage.ShoppingListRecord{
		{ID: "2025-03-14-12-00-00", Username: "anonymous", RecipeIDs: []string{"a"}},
	}}
	router := setupRouter(t, nil, store)

	req := httptest.NewRequest(http.MethodGet, "/api/shopping-lists", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var records []storage.ShoppingListRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-14-12-00-00", records[0].ID)
}

func TestUpdateNotes(t *testing.T) {
	store := &memoryStore{records: []storage.ShoppingListRecord{
		{ID: "2025-03-14-12-00-00", Username: "anonymous"},
	}}
	router := setupRouter(t, nil, store)

	req := httptest.NewRequest(http.MethodPut, "/api/shopping-lists/2025-03-14-12-00-00/notes",
		bytes.NewBufferString(`{"notes": "also buy parmesan"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var rec storage.ShoppingListRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "also buy parmesan", rec.Notes)
	assert.Equal(t, "also buy parmesan", store.records[0].Notes)
}

func TestUpdateNotesInvalidBody(t *testing.T) {
	store := &memoryStore{records: []storage.ShoppingListRecord{
		{ID: "2025-03-14-12-00-00", Username: "anonymous"},
	}}
	router := setupRouter(t, nil, store)

	req := httptest.NewRequest(http.MethodPut, "/api/shopping-lists/2025-03-14-12-00-00/notes",
		bytes.NewBufferString(`not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	// Not the generation endpoint's message; notes have no recipes array.
	assert.JSONEq(t, `{"error": "Invalid request body"}`, w.Body.String())
}

func TestUpdateNotesNotFound(t *testing.T) {
	router := setupRouter(t, nil, &memoryStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/shopping-lists/missing/notes",
		bytes.NewBufferString(`{"notes": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
