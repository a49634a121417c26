// Package api exposes the analyzer's HTTP surface: the public analyze
// endpoints, the admin reads under /api/v1, and share links.
package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/analyzer/internal/analyzer"
	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/processor"
)

const defaultBatchLimit = 100

// Handler handles HTTP requests for the analyzer API. The admin
// collaborators (history, domains, shares, archive) are optional; nil
// disables the matching endpoints with a 503.
type Handler struct {
	service        *analyzer.Service
	batchProcessor *processor.BatchProcessor
	history        HistoryReader
	domains        DomainReader
	shares         ShareStore
	archive        ArchiveSearcher
	logger         logger.Logger

	serviceName    string
	serviceVersion string
	baseURL        string
	batchLimit     int
}

// HandlerConfig wires the handler's collaborators.
type HandlerConfig struct {
	Service        *analyzer.Service
	BatchProcessor *processor.BatchProcessor
	History        HistoryReader
	Domains        DomainReader
	Shares         ShareStore
	Archive        ArchiveSearcher
	Logger         logger.Logger
	ServiceName    string
	ServiceVersion string
	BaseURL        string
	BatchLimit     int
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	batchLimit := cfg.BatchLimit
	if batchLimit <= 0 {
		batchLimit = defaultBatchLimit
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Handler{
		service:        cfg.Service,
		batchProcessor: cfg.BatchProcessor,
		history:        cfg.History,
		domains:        cfg.Domains,
		shares:         cfg.Shares,
		archive:        cfg.Archive,
		logger:         cfg.Logger,
		serviceName:    cfg.ServiceName,
		serviceVersion: cfg.ServiceVersion,
		baseURL:        baseURL,
		batchLimit:     batchLimit,
	}
}

// Root handles GET /
//
//	@Summary      Service capability descriptor
//	@Description  Lists the analyze endpoints this service exposes
//	@Tags         meta
//	@Produce      json
//	@Success      200 {object} RootResponse
//	@Router       / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Message:         "AI Analysis API is running",
		Status:          "healthy",
		MemoryOptimized: true,
		Endpoints: map[string]string{
			"text":   "/analyze/text",
			"url":    "/analyze/url",
			"image":  "/analyze/image",
			"health": "/health",
		},
	})
}

// Health handles GET /health
//
//	@Summary      Service health
//	@Description  Static health contract; always 200 regardless of dependency state
//	@Tags         meta
//	@Produce      json
//	@Success      200 {object} ServiceHealthResponse
//	@Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceHealthResponse{
		Status:  "ok",
		Message: "Service is healthy",
		Service: h.serviceName,
		Version: h.serviceVersion,
	})
}

// AnalyzeText handles POST /analyze/text
//
//	@Summary      Analyze free text
//	@Description  Scores text credibility; uses the inference backend when one answers, the statistical scorer otherwise
//	@Tags         analyze
//	@Accept       json
//	@Produce      json
//	@Param        request body domain.TextAnalysisRequest true "Text to analyze"
//	@Success      200 {object} AnalyzeResponse
//	@Router       /analyze/text [post]
func (h *Handler) AnalyzeText(c *gin.Context) {
	var req domain.TextAnalysisRequest
	text := ""
	if err := c.ShouldBindJSON(&req); err != nil {
		// The route never fails; malformed bodies score as empty input.
		h.logger.Warn("Invalid text analysis request",
			logger.Error(err))
	} else if req.Text != nil {
		text = *req.Text
	}

	result := h.service.AnalyzeText(c.Request.Context(), text)

	c.JSON(http.StatusOK, AnalyzeResponse{Result: result})
}

// AnalyzeURL handles POST /analyze/url
//
//	@Summary      Analyze a URL
//	@Description  Scores a URL's credibility without fetching it
//	@Tags         analyze
//	@Accept       json
//	@Produce      json
//	@Param        request body domain.URLAnalysisRequest true "URL to analyze"
//	@Success      200 {object} AnalyzeResponse
//	@Router       /analyze/url [post]
func (h *Handler) AnalyzeURL(c *gin.Context) {
	var req domain.URLAnalysisRequest
	rawURL := ""
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid URL analysis request",
			logger.Error(err))
	} else if req.URL != nil {
		rawURL = *req.URL
	}

	result := h.service.AnalyzeURL(c.Request.Context(), rawURL)

	c.JSON(http.StatusOK, AnalyzeResponse{Result: result})
}

// AnalyzeImage handles POST /analyze/image
//
//	@Summary      Analyze an uploaded image
//	@Description  Decodes the image and reports its dimensions with a credibility score
//	@Tags         analyze
//	@Accept       multipart/form-data
//	@Produce      json
//	@Param        file formData file true "Image file"
//	@Success      200 {object} AnalyzeResponse
//	@Failure      500 {object} object
//	@Router       /analyze/image [post]
func (h *Handler) AnalyzeImage(c *gin.Context) {
	data, err := h.readImageFile(c)
	if err == nil {
		var result *domain.AnalysisResult
		result, err = h.service.AnalyzeImage(c.Request.Context(), data)
		if err == nil {
			c.JSON(http.StatusOK, AnalyzeResponse{Result: result})
			return
		}
	}

	h.logger.Warn("Image analysis failed",
		logger.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": fmt.Sprintf("Image processing failed: %v", err),
	})
}

// readImageFile extracts the uploaded file bytes from the multipart form.
func (h *Handler) readImageFile(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}

	return data, nil
}

// AnalyzeVideo handles POST /analyze/video
//
//	@Summary      Analyze a video
//	@Description  Not implemented; always 501
//	@Tags         analyze
//	@Produce      json
//	@Failure      501 {object} object
//	@Router       /analyze/video [post]
func (h *Handler) AnalyzeVideo(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "Video analysis not implemented",
	})
}

// AnalyzeBatch handles POST /api/v1/analyze/batch
//
//	@Summary      Analyze a batch of items
//	@Description  Analyzes up to the configured limit of text/url items on a worker pool, preserving order
//	@Tags         analyze
//	@Accept       json
//	@Produce      json
//	@Param        request body BatchAnalyzeRequest true "Items to analyze"
//	@Success      200 {object} BatchAnalyzeResponse
//	@Failure      400 {object} object
//	@Router       /api/v1/analyze/batch [post]
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var req BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid batch analysis request",
			logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Items) > h.batchLimit {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("batch size %d exceeds limit of %d", len(req.Items), h.batchLimit),
		})
		return
	}

	results, err := h.batchProcessor.Process(c.Request.Context(), req.Items)
	if err != nil {
		h.logger.Error("Batch analysis failed",
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "batch analysis canceled"})
		return
	}

	c.JSON(http.StatusOK, BatchAnalyzeResponse{
		Results: results,
		Count:   len(results),
	})
}
