package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oskaros/reminder-engine/internal/app"
)

type ReminderHandler struct {
	useCase app.ReminderUseCase
}

func NewReminderHandler(useCase app.ReminderUseCase) *ReminderHandler {
	return &ReminderHandler{
		useCase: useCase,
	}
}

// Submit accepts a free-text reminder request and routes it through the
// classification pipeline.
func (h *ReminderHandler) Submit(c *gin.Context) {
	slog.Info("handling submit request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})

		return
	}

	input := app.SubmitInput{
		UserID:  req.UserID,
		RawText: req.Text,
		Now:     time.Now().UTC(),
	}

	output, err := h.useCase.Submit(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("submission processed",
		"user_id", req.UserID,
		"result", string(output.Kind),
	)

	status := http.StatusOK
	if output.Kind == app.SubmitCreated {
		status = http.StatusCreated
	}

	c.JSON(status, FromSubmitDTO(output))
}

func (h *ReminderHandler) ListPending(c *gin.Context) {
	var req ListPendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})

		return
	}

	output, err := h.useCase.ListPending(c.Request.Context(), app.ListPendingInput{
		UserID: req.UserID,
		Limit:  req.Limit,
		Now:    time.Now().UTC(),
	})
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromDTOs(output))
}

func (h *ReminderHandler) Rename(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})

		return
	}

	output, err := h.useCase.Rename(c.Request.Context(), app.RenameInput{
		UserID:        req.UserID,
		TargetPattern: req.Target,
		NewText:       req.Text,
	})
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("reminders renamed",
		"user_id", req.UserID,
		"count", output.Count,
	)
	c.JSON(http.StatusOK, FromDTOs(output))
}

func (h *ReminderHandler) handleError(c *gin.Context, err error) {
	var validationErr *app.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})

		return
	}

	switch {
	case errors.Is(err, app.ErrPastDateRejected):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "past_date_rejected",
			Message: "that date has already passed",
		})
	case errors.Is(err, app.ErrNoFutureOccurrences):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "no_future_occurrences",
			Message: "the recurrence produced no future occurrences",
		})
	case errors.Is(err, app.ErrAmbiguousIntent):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "ambiguous_intent",
			Message: "could not determine a time from the request; please rephrase",
		})
	case errors.Is(err, app.ErrExternalLookupFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "external_lookup_failed",
			Message: "temporal interpretation is unavailable; please try again",
		})
	case errors.Is(err, app.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "resource not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "an internal error occurred",
		})
	}
}

func (h *ReminderHandler) RegisterRoutes(router *gin.RouterGroup) {
	reminders := router.Group("/reminders")
	{
		reminders.POST("/submit", h.Submit)
		reminders.GET("", h.ListPending)
		reminders.POST("/rename", h.Rename)
	}
}
