// Package shoplist exposes the shopping-list endpoints: generation,
// listing and note edits.
package shoplist

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shoplist-generator/internal/core/shoplist"
	"shoplist-generator/internal/pkg/common"
	"shoplist-generator/internal/storage"
)

// Handler serves the shopping-list routes.
type Handler struct {
	service *shoplist.Service
	records storage.Store
}

// NewHandler creates a shopping-list handler.
func NewHandler(service *shoplist.Service, records storage.Store) *Handler {
	return &Handler{
		service: service,
		records: records,
	}
}

// Generate handles POST /api/shopping-list. It takes the selected recipe
// ids, runs the generation pipeline and returns the document URL.
func (h *Handler) Generate(c *gin.Context) {
	var req struct {
		RecipeIDs []string `json:"recipeIds"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || len(req.RecipeIDs) == 0 {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: common.ErrInvalidRequest.Message,
		})
		return
	}

	username := c.GetHeader("X-Username")
	if username == "" {
		username = "anonymous"
	}

	result, err := h.service.Generate(c.Request.Context(), username, req.RecipeIDs)
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": result.URL,
	})
}

func (h *Handler) respondGenerateError(c *gin.Context, err error) {
	if errors.Is(err, shoplist.ErrNoValidRecipes) {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: common.ErrNoValidRecipes.Message,
		})
		return
	}

	var custom *common.CustomError
	if errors.As(err, &custom) {
		common.LogError("Shopping list generation failed",
			zap.String("code", custom.Code),
			zap.Error(err),
		)
		c.JSON(custom.Status, common.ErrorResponse{Error: custom.Message})
		return
	}

	common.LogError("Shopping list generation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Error: common.ErrInternalError.Message,
	})
}

// List handles GET /api/shopping-lists and returns every generation
// record in insertion order.
func (h *Handler) List(c *gin.Context) {
	records, err := h.records.ListAll(c.Request.Context())
	if err != nil {
		common.LogError("Failed to list shopping list records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Error: common.ErrInternalError.Message,
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// UpdateNotes handles PUT /api/shopping-lists/:id/notes. Notes are the
// only mutable field of a record.
func (h *Handler) UpdateNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	id := c.Param("id")
	rec, err := h.records.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Error: common.ErrNotFound.Message,
			})
			return
		}
		common.LogError("Failed to update notes",
			zap.String("id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Error: common.ErrInternalError.Message,
		})
		return
	}

	c.JSON(http.StatusOK, rec)
}
