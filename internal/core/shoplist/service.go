package shoplist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"shoplist-generator/internal/core/document"
	"shoplist-generator/internal/core/recipe"
	"shoplist-generator/internal/infrastructure/config"
	"shoplist-generator/internal/pkg/common"
	"shoplist-generator/internal/storage"
)

// Record ids are derived from the generation timestamp so they sort by
// creation time and stay readable in the collection.
const recordIDLayout = "2006-01-02-15-04-05"

// RecipeSource resolves recipe ids against the recipe collection.
type RecipeSource interface {
	FindByIDs(ids []string) []recipe.Recipe
}

// Consolidator merges duplicate ingredient lines; a failed merge yields
// an empty list, never an error.
type Consolidator interface {
	Consolidate(ctx context.Context, lines []IngredientLine) []ConsolidatedLine
}

// Renderer produces the paginated checklist document.
type Renderer interface {
	Render(header document.Header, lines []document.Line, generatedAt time.Time) (*document.Document, error)
}

// Service runs the generation pipeline: aggregate, normalize,
// consolidate, layout, persist. All steps execute in sequence; the record
// is appended only after the document is durably written.
type Service struct {
	config       *config.Config
	recipes      RecipeSource
	consolidator Consolidator
	renderer     Renderer
	records      storage.Store
}

// NewService creates the shopping-list service.
func NewService(cfg *config.Config, recipes RecipeSource, consolidator Consolidator, renderer Renderer, records storage.Store) *Service {
	return &Service{
		config:       cfg,
		recipes:      recipes,
		consolidator: consolidator,
		renderer:     renderer,
		records:      records,
	}
}

// Result is a finished generation.
type Result struct {
	URL    string
	Record storage.ShoppingListRecord
}

// Generate builds a shopping list for the given recipe ids.
// Returns ErrNoValidRecipes when nothing usable was selected; storage and
// render failures are wrapped in the matching common error.
func (s *Service) Generate(ctx context.Context, username string, recipeIDs []string) (*Result, error) {
	selected := s.recipes.FindByIDs(recipeIDs)

	agg, err := Aggregate(selected)
	if err != nil {
		return nil, err
	}

	for i := range agg.Lines {
		agg.Lines[i] = Normalize(agg.Lines[i])
	}

	consolidated := s.consolidator.Consolidate(ctx, agg.Lines)

	generatedAt := time.Now().UTC()
	header := document.Header{
		Username:    username,
		RecipeNames: recipeNames(agg.Recipes),
	}
	doc, err := s.renderer.Render(header, documentLines(consolidated), generatedAt)
	if err != nil {
		return nil, common.NewError(common.ErrCodeDocumentWrite, common.ErrDocumentWrite.Message, common.ErrDocumentWrite.Status, err)
	}

	id, filename := s.identifiers(ctx, username, generatedAt)
	path := filepath.Join(s.config.Storage.OutputDir, filename)
	if err := s.writeDocument(path, doc.Bytes); err != nil {
		return nil, common.NewError(common.ErrCodeDocumentWrite, common.ErrDocumentWrite.Message, common.ErrDocumentWrite.Status, err)
	}

	rec := storage.ShoppingListRecord{
		ID:          id,
		Username:    username,
		CreatedAt:   generatedAt,
		RecipeIDs:   append([]string(nil), recipeIDs...),
		ListFileURL: s.config.Storage.PublicBase + "/" + filename,
		Notes:       "",
	}
	if err := s.records.Append(ctx, &rec); err != nil {
		// The document already exists without a record; harmless dead
		// storage, surfaced as a server error.
		common.LogError("Record append failed after document write",
			zap.Error(err),
			zap.String("id", id),
			zap.String("path", path),
		)
		return nil, common.NewError(common.ErrCodeRecordStore, common.ErrRecordStore.Message, common.ErrRecordStore.Status, err)
	}

	common.LogInfo("Shopping list generated",
		zap.String("id", id),
		zap.String("username", username),
		zap.Int("recipes", len(agg.Recipes)),
		zap.Int("lines", len(consolidated)),
		zap.Int("pages", doc.Pages),
	)

	return &Result{URL: rec.ListFileURL, Record: rec}, nil
}

// identifiers derives the record id and the document filename from the
// generation timestamp. Same-second collisions (existing record or
// existing file) get a short random suffix on both.
func (s *Service) identifiers(ctx context.Context, username string, generatedAt time.Time) (string, string) {
	stamp := generatedAt.Format(recordIDLayout)
	filename := fmt.Sprintf("shopping_%s_%s.pdf", common.SanitizeFilename(username), stamp)

	_, statErr := os.Stat(filepath.Join(s.config.Storage.OutputDir, filename))
	_, getErr := s.records.Get(ctx, stamp)
	if statErr == nil || getErr == nil {
		stamp = stamp + "-" + common.ShortID()
		filename = fmt.Sprintf("shopping_%s_%s.pdf", common.SanitizeFilename(username), stamp)
	}

	return stamp, filename
}

func (s *Service) writeDocument(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return nil
}

func recipeNames(recipes []recipe.Recipe) []string {
	names := make([]string, len(recipes))
	for i, r := range recipes {
		names[i] = r.Name
	}
	return names
}

func documentLines(consolidated []ConsolidatedLine) []document.Line {
	lines := make([]document.Line, len(consolidated))
	for i, c := range consolidated {
		lines[i] = document.Line{
			Amount:     c.Amount,
			Ingredient: c.Ingredient,
			Recipes:    c.Recipes,
		}
	}
	return lines
}
