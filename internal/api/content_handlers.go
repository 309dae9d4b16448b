/**
 * @description
 * Public and authenticated content handlers: news articles with comments,
 * supported locations, and per-user notifications.
 */

package api

import (
	"net/http"
	"strings"
)

// ListNewsHandler handles GET /news.
func (h *Handlers) ListNewsHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.ListNews(r.Context(), queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"news": articles})
}

// GetNewsHandler handles GET /news/{newsID}.
func (h *Handlers) GetNewsHandler(w http.ResponseWriter, r *http.Request) {
	newsID, ok := h.urlUUID(w, r, "newsID")
	if !ok {
		return
	}
	detail, err := h.service.GetNewsDetail(r.Context(), newsID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

// AddCommentHandler handles POST /news/{newsID}/comments.
func (h *Handlers) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	newsID, ok := h.urlUUID(w, r, "newsID")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	comment, err := h.service.AddComment(r.Context(), userID, newsID, strings.TrimSpace(req.Content))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, comment)
}

// ListLocationsHandler handles GET /locations.
func (h *Handlers) ListLocationsHandler(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.ListLocations(r.Context(), true)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
}

// ListNotificationsHandler handles GET /notifications.
func (h *Handlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	notifications, err := h.service.ListNotifications(r.Context(), userID, queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkNotificationReadHandler handles POST /notifications/{notificationID}/read.
func (h *Handlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	notificationID, ok := h.urlUUID(w, r, "notificationID")
	if !ok {
		return
	}
	updated, err := h.service.MarkNotificationRead(r.Context(), userID, notificationID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !updated {
		h.writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// UnreadNotificationCountHandler handles GET /notifications/unread-count.
func (h *Handlers) UnreadNotificationCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	count, err := h.service.CountUnreadNotifications(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}
