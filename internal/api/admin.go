package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/analyzer/internal/database"
	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/storage"
)

// HistoryReader reads persisted analysis records.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error)
	GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error)
	GetStats(ctx context.Context) (*database.AnalysisStats, error)
	GetFlagStats(ctx context.Context) ([]*database.FlagStat, error)
}

// DomainReader reads domain reputation rows.
type DomainReader interface {
	Top(ctx context.Context, limit int) ([]*domain.DomainReputation, error)
	GetByDomain(ctx context.Context, host string) (*domain.DomainReputation, error)
}

// ArchiveSearcher queries archived analysis results.
type ArchiveSearcher interface {
	Search(ctx context.Context, term string, size int) ([]*storage.ArchivedAnalysis, error)
}

// GetHistory handles GET /api/v1/history
//
//	@Summary      Recent analysis records
//	@Tags         admin
//	@Produce      json
//	@Param        limit query int false "Max records to return"
//	@Success      200 {object} HistoryResponse
//	@Failure      503 {object} object
//	@Router       /api/v1/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history storage not configured"})
		return
	}

	limit := queryInt(c, "limit", 0)
	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read analysis history",
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Records: records,
		Count:   len(records),
	})
}

// GetHistoryByID handles GET /api/v1/history/:id
//
//	@Summary      Single analysis record
//	@Tags         admin
//	@Produce      json
//	@Param        id path string true "Record ID"
//	@Success      200 {object} domain.AnalysisRecord
//	@Failure      404 {object} object
//	@Failure      503 {object} object
//	@Router       /api/v1/history/{id} [get]
func (h *Handler) GetHistoryByID(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history storage not configured"})
		return
	}

	id := c.Param("id")
	record, err := h.history.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis record not found"})
			return
		}
		h.logger.Error("Failed to read analysis record",
			logger.String("id", id),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetStats handles GET /api/v1/stats
//
//	@Summary      Aggregate analysis statistics
//	@Tags         admin
//	@Produce      json
//	@Success      200 {object} StatsResponse
//	@Failure      503 {object} object
//	@Router       /api/v1/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history storage not configured"})
		return
	}

	ctx := c.Request.Context()
	stats, err := h.history.GetStats(ctx)
	if err != nil {
		h.logger.Error("Failed to compute analysis stats",
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	flags, err := h.history.GetFlagStats(ctx)
	if err != nil {
		h.logger.Error("Failed to compute flag stats",
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, toStatsResponse(stats, flags))
}

// GetDomains handles GET /api/v1/domains
//
//	@Summary      Top domains by reputation
//	@Tags         admin
//	@Produce      json
//	@Param        limit query int false "Max domains to return"
//	@Success      200 {object} DomainsResponse
//	@Failure      503 {object} object
//	@Router       /api/v1/domains [get]
func (h *Handler) GetDomains(c *gin.Context) {
	if h.domains == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "domain reputation storage not configured"})
		return
	}

	limit := queryInt(c, "limit", 0)
	domains, err := h.domains.Top(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read domain reputations",
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read domains"})
		return
	}

	c.JSON(http.StatusOK, DomainsResponse{
		Domains: domains,
		Count:   len(domains),
	})
}

// GetDomain handles GET /api/v1/domains/:domain
//
//	@Summary      Reputation for a single domain
//	@Tags         admin
//	@Produce      json
//	@Param        domain path string true "Domain name"
//	@Success      200 {object} domain.DomainReputation
//	@Failure      404 {object} object
//	@Failure      503 {object} object
//	@Router       /api/v1/domains/{domain} [get]
func (h *Handler) GetDomain(c *gin.Context) {
	if h.domains == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "domain reputation storage not configured"})
		return
	}

	host := c.Param("domain")
	rep, err := h.domains.GetByDomain(c.Request.Context(), host)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
			return
		}
		h.logger.Error("Failed to read domain reputation",
			logger.String("domain", host),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read domain"})
		return
	}

	c.JSON(http.StatusOK, rep)
}

// SearchArchive handles GET /api/v1/search
//
//	@Summary      Search archived analysis results
//	@Tags         admin
//	@Produce      json
//	@Param        q    query string true  "Search term"
//	@Param        size query int    false "Max results to return"
//	@Success      200 {object} SearchResponse
//	@Failure      400 {object} object
//	@Failure      503 {object} object
//	@Router       /api/v1/search [get]
func (h *Handler) SearchArchive(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search archive not configured"})
		return
	}

	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	size := queryInt(c, "size", 0)
	results, err := h.archive.Search(c.Request.Context(), term, size)
	if err != nil {
		h.logger.Error("Archive search failed",
			logger.String("term", term),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
	})
}

// queryInt parses an optional integer query parameter, falling back on
// parse errors so stores apply their own defaults.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
