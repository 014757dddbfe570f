package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/sourcefab/rfq-hub-go/internal/errors"
	"github.com/sourcefab/rfq-hub-go/internal/middleware"
	"github.com/sourcefab/rfq-hub-go/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Put("/{id}/read", h.MarkRead)
	r.Put("/read-all", h.MarkAllRead)

	return r
}

// GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	pagination := ParsePagination(r)

	notifications, total, err := h.notificationService.List(r.Context(), user.Claims(), pagination.Limit, pagination.Offset)
	if err != nil {
		log.Error().Err(err).Int64("userId", user.ID).Msg("failed to list notifications")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"limit":         pagination.Limit,
		"offset":        pagination.Offset,
	})
}

// PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("id", "must be a number"))
		return
	}

	affected, err := h.notificationService.MarkRead(r.Context(), user.Claims(), id)
	if err != nil {
		log.Error().Err(err).Int64("userId", user.ID).Msg("failed to mark notification read")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Notification marked as read",
		"affected": affected,
	})
}

// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	affected, err := h.notificationService.MarkAllRead(r.Context(), user.Claims())
	if err != nil {
		log.Error().Err(err).Int64("userId", user.ID).Msg("failed to mark all notifications read")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "All notifications marked as read",
		"affected": affected,
	})
}
