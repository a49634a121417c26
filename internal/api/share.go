package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/share"
)

// ShareStore persists shared analysis payloads under short IDs.
type ShareStore interface {
	Create(ctx context.Context, payload json.RawMessage) (string, error)
	Get(ctx context.Context, id string) (json.RawMessage, error)
}

// CreateShare handles POST /api/v1/share
//
//	@Summary      Create a share link
//	@Description  Stores an analysis payload and returns a short link to it
//	@Tags         share
//	@Accept       json
//	@Produce      json
//	@Success      200 {object} ShareResponse
//	@Failure      400 {object} object
//	@Failure      503 {object} object
//	@Router       /api/v1/share [post]
func (h *Handler) CreateShare(c *gin.Context) {
	if h.shares == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "share storage not configured"})
		return
	}

	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be valid JSON"})
		return
	}

	id, err := h.shares.Create(c.Request.Context(), payload)
	if err != nil {
		h.logger.Error("Failed to create share link",
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create share link"})
		return
	}

	c.JSON(http.StatusOK, ShareResponse{
		ID:  id,
		URL: h.baseURL + "/s/" + id,
	})
}

// GetShared handles GET /s/:id
//
//	@Summary      Fetch a shared analysis
//	@Description  Returns the stored payload for a share link
//	@Tags         share
//	@Produce      json
//	@Param        id path string true "Share ID"
//	@Success      200 {object} object
//	@Failure      404 {object} object
//	@Router       /s/{id} [get]
func (h *Handler) GetShared(c *gin.Context) {
	if h.shares == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "share link not found or expired"})
		return
	}

	id := c.Param("id")
	payload, err := h.shares.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, share.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "share link not found or expired"})
			return
		}
		h.logger.Error("Failed to read share link",
			logger.String("id", id),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read share link"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
