package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
	"github.com/mwalkowski/travel-notes/internal/infra/config"
	"github.com/mwalkowski/travel-notes/internal/infra/flags"
	apperrors "github.com/mwalkowski/travel-notes/pkg/errors"
)

const generateFlag = "attractions.generate"

// Handler wires the HTTP transport to the attractions domain.
type Handler struct {
	cfg    *config.Config
	svc    attractions.Service
	flags  flags.Provider
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, svc attractions.Service, flagProvider flags.Provider, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		svc:    svc,
		flags:  flagProvider,
		logger: logger.With("component", "http.handler"),
	}
}

// GenerateSuggestions produces AI attraction suggestions for a travel note.
func (h *Handler) GenerateSuggestions(c *gin.Context) {
	noStoreHeaders(c)

	if !h.flags.Enabled(generateFlag) {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "not found", nil))
		return
	}

	user, ok := getUser(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return
	}

	noteID := c.Param("id")
	if noteID == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "travel note id is required", nil))
		return
	}

	// Missing upstream credentials are a deployment fault, not a user error;
	// fail loudly before spending the request budget.
	if h.cfg.LLM.APIKey == "" {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "config_error", "language model credentials are missing", nil))
		return
	}
	if h.cfg.Pexels.APIKey == "" {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "config_error", "image search credentials are missing", nil))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.Suggestions.OperationTimeout)
	defer cancel()

	result, err := h.svc.Suggestions(ctx, noteID, user.ID)
	if err != nil {
		abortWithError(c, h.mapSuggestionError(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddAttractions persists a user-selected subset of suggestions.
func (h *Handler) AddAttractions(c *gin.Context) {
	user, ok := getUser(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return
	}

	noteID := c.Param("id")
	if noteID == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "travel note id is required", nil))
		return
	}

	var req addAttractionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", errMessage(err), err))
		return
	}

	created, err := h.svc.AddAttractions(c.Request.Context(), noteID, user.ID, req.Attractions)
	if err != nil {
		abortWithError(c, h.mapCommitError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attractions": created})
}

// RemoveAttraction deletes one committed attraction from a note.
func (h *Handler) RemoveAttraction(c *gin.Context) {
	user, ok := getUser(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return
	}

	noteID := c.Param("id")
	attractionID := c.Param("attractionId")
	if noteID == "" || attractionID == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "travel note id and attraction id are required", nil))
		return
	}

	if err := h.svc.RemoveAttraction(c.Request.Context(), noteID, user.ID, attractionID); err != nil {
		abortWithError(c, h.mapCommitError(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type addAttractionsRequest struct {
	Attractions []attractions.AttractionInput `json:"attractions" binding:"required,min=1,max=50,dive"`
}

func (h *Handler) mapSuggestionError(err error) *HTTPError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewHTTPError(http.StatusGatewayTimeout, "timeout", "request timed out, please try again", err)
	}
	switch {
	case apperrors.IsCode(err, "not_found"):
		return NewHTTPError(http.StatusNotFound, "not_found", "travel note not found", err)
	case apperrors.IsCode(err, "forbidden"):
		return NewHTTPError(http.StatusForbidden, "forbidden", "access denied", err)
	case apperrors.IsCode(err, "generation_error"):
		return NewHTTPError(http.StatusInternalServerError, "generation_error", errMessage(err), err)
	case apperrors.IsCode(err, "config_error"):
		return NewHTTPError(http.StatusInternalServerError, "config_error", errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal_error", "failed to generate suggestions", err)
	}
}

func (h *Handler) mapCommitError(err error) *HTTPError {
	switch {
	case apperrors.IsCode(err, "not_found_or_forbidden"):
		return NewHTTPError(http.StatusNotFound, "not_found_or_forbidden", "note not found or access denied", err)
	case apperrors.IsCode(err, "invalid_input"):
		return NewHTTPError(http.StatusBadRequest, "invalid_input", errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal_error", "failed to update attractions", err)
	}
}

// noStoreHeaders keeps CDNs and proxies from caching per-user suggestion
// payloads.
func noStoreHeaders(c *gin.Context) {
	headers := c.Writer.Header()
	headers.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	headers.Set("Pragma", "no-cache")
	headers.Set("Expires", "0")
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
