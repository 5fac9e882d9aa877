package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/ledger_backend/internal/apperrors"
	portssvc "github.com/openledgerhq/ledger_backend/internal/core/ports/services"
	"github.com/openledgerhq/ledger_backend/internal/dto"
	"github.com/openledgerhq/ledger_backend/internal/middleware"
	"github.com/openledgerhq/ledger_backend/internal/utils/accounting"
	"github.com/openledgerhq/ledger_backend/internal/utils/money"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers entry routes under a company scope.
func registerJournalRoutes(companyGroup *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := companyGroup.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
	}
}

// isPostingValidationError reports whether the posting failed because of bad
// input rather than server state. Malformed amounts, unbalanced lines and
// account rule violations all map to a 400.
func isPostingValidationError(err error) bool {
	return errors.Is(err, money.ErrInvalidAmount) ||
		errors.Is(err, apperrors.ErrValidation) ||
		accounting.IsValidationError(err)
}

// createEntry godoc
// @Summary Post a new journal entry
// @Description Validates and atomically posts a balanced entry, updating account balances
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   entry body dto.CreateEntryRequest true "Entry header and lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Entry number already exists"
// @Failure 500 {object} map[string]string "Failed to post entry"
// @Router /companies/{companyID}/entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to post entry", slog.String("entry_number", req.EntryNumber), slog.Int("line_count", len(req.Lines)))

	entry, err := h.journalService.CreateEntry(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		if isPostingValidationError(err) {
			logger.Warn("Validation error posting entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate entry number", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to post entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post entry"})
		}
		return
	}

	logger.Info("Entry posted successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a journal entry
// @Description Replaces an entry's header and line set, reversing the old balance effects and applying the new ones atomically
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Replacement header and lines"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry number already exists"
// @Failure 500 {object} map[string]string "Failed to update entry"
// @Router /companies/{companyID}/entries/{entryID} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requesting user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("entry_id", entryID), slog.String("updater_user_id", requestingUserID))
	logger.Info("Received request to update entry", slog.Int("line_count", len(req.Lines)))

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), companyID, entryID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Entry not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else if isPostingValidationError(err) {
			logger.Warn("Validation error updating entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate entry number", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry"})
		}
		return
	}

	logger.Info("Entry updated successfully")
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its lines by ID
// @Tags entries
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Router /companies/{companyID}/entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	logger = logger.With(slog.String("company_id", companyID), slog.String("entry_id", entryID))

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Entry not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			logger.Error("Failed to get entry from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		}
		return
	}

	logger.Debug("Entry retrieved successfully")
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries for a company
// @Description Retrieves a page of entries ordered by entry date descending
// @Tags entries
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Opaque pagination token from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Router /companies/{companyID}/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	logger = logger.With(slog.String("company_id", companyID))

	params := dto.ListEntriesParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			logger.Warn("Invalid limit query parameter", slog.String("limit", limitStr))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nextToken parameter"})
			return
		}
		logger.Error("Failed to list entries from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	logger.Info("Entries listed successfully", slog.Int("count", len(resp.Entries)))
	c.JSON(http.StatusOK, resp)
}
