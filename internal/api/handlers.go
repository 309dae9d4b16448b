/**
 * @description
 * This file defines the HTTP handler set and its shared helpers: JSON
 * encoding, request decoding, and the mapping from typed service errors to
 * HTTP status codes. Account, campaign, and donation handlers live here;
 * webhook, admin, and content handlers live in sibling files.
 *
 * @dependencies
 * - net/http, encoding/json: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app: The application service layer.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/helpinghands/crowdfund/internal/app"
	"github.com/helpinghands/crowdfund/internal/domain"
	"github.com/helpinghands/crowdfund/internal/store"
)

// Handlers holds the dependencies for the HTTP handlers.
type Handlers struct {
	service        *app.Service
	uploadDir      string
	maxUploadBytes int64
}

// NewHandlers creates a new set of HTTP handlers.
func NewHandlers(service *app.Service, uploadDir string, maxUploadBytes int64) *Handlers {
	return &Handlers{
		service:        service,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps typed service and store errors onto HTTP statuses.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *app.ValidationError
	var gatewayErr *app.GatewayError

	switch {
	case errors.As(err, &validationErr):
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, app.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrNotAuthorized):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrKYCRequired):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrCampaignNotPublished),
		errors.Is(err, app.ErrMethodDisabled):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrRateLimited):
		h.writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, app.ErrInvalidSignature):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrKYCNotFound),
		errors.Is(err, store.ErrCampaignNotFound),
		errors.Is(err, store.ErrDonationNotFound),
		errors.Is(err, store.ErrPaymentMethodNotFound),
		errors.Is(err, store.ErrNewsNotFound),
		errors.Is(err, store.ErrLocationNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidStateChange):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &gatewayErr):
		log.Printf("level=error component=api msg=\"gateway failure\" err=%v", err)
		h.writeError(w, http.StatusBadGateway, "payment provider error")
	default:
		log.Printf("level=error component=api msg=\"internal error\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handlers) urlUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

// RegisterHandler handles POST /auth/register.
func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// LoginHandler handles POST /auth/login.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// MeHandler handles GET /auth/me.
func (h *Handlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler handles PUT /auth/profile. Accepts either JSON or a
// multipart form with an optional profile image.
func (h *Handlers) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req domain.UpdateProfileRequest
	if isMultipart(r) {
		if name := r.FormValue("name"); name != "" {
			req.Name = &name
		}
		path, err := h.saveUpload(r, "image", uploadCategoryProfiles)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if path != "" {
			req.ProfileImagePath = &path
		}
	} else if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// SubmitKYCHandler handles POST /auth/kyc with a multipart document upload.
func (h *Handlers) SubmitKYCHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	documentPath, err := h.saveUpload(r, "document", uploadCategoryKYC)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	idType := r.FormValue("id_type")

	sub, err := h.service.SubmitKYC(r.Context(), userID, documentPath, idType)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, sub)
}

// CreateCampaignHandler handles POST /campaigns. Accepts JSON or a multipart
// form with an optional campaign image.
func (h *Handlers) CreateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req domain.CreateCampaignRequest
	if isMultipart(r) {
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		req.Category = r.FormValue("category")
		req.Location = r.FormValue("location")
		if raw := r.FormValue("goal_amount"); raw != "" {
			if amount, err := strconv.ParseInt(raw, 10, 64); err == nil {
				req.GoalAmount = amount
			}
		}
		path, err := h.saveUpload(r, "image", uploadCategoryCampaigns)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if path != "" {
			req.ImagePath = &path
		}
	} else if !h.decode(w, r, &req) {
		return
	}

	campaign, err := h.service.CreateCampaign(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, campaign)
}

// SubmitCampaignHandler handles POST /campaigns/{campaignID}/submit.
func (h *Handlers) SubmitCampaignHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	campaignID, ok := h.urlUUID(w, r, "campaignID")
	if !ok {
		return
	}
	campaign, err := h.service.SubmitCampaign(r.Context(), userID, campaignID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaign)
}

// ListCampaignsHandler handles GET /campaigns.
func (h *Handlers) ListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	opts := domain.CampaignListOptions{
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
		Limit:    queryInt(r, "limit", 12),
		Offset:   queryInt(r, "offset", 0),
	}
	campaigns, err := h.service.ListPublishedCampaigns(r.Context(), opts)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"campaigns": campaigns})
}

// GetCampaignHandler handles GET /campaigns/{campaignID}.
func (h *Handlers) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campaignID")
	if !ok {
		return
	}

	var viewerID *uuid.UUID
	if id, ok := GetUserID(r.Context()); ok {
		viewerID = &id
	}
	detail, err := h.service.GetCampaignDetail(r.Context(), campaignID, viewerID, IsAdmin(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

// CreateDonationHandler handles POST /campaigns/{campaignID}/donations.
func (h *Handlers) CreateDonationHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campaignID")
	if !ok {
		return
	}
	var req domain.CreateDonationRequest
	if !h.decode(w, r, &req) {
		return
	}
	initiation, err := h.service.CreateDonation(r.Context(), campaignID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, initiation)
}

// PayPalReturnHandler handles GET /donations/paypal/return, where PayPal
// sends the donor after checkout approval.
func (h *Handlers) PayPalReturnHandler(w http.ResponseWriter, r *http.Request) {
	donationID, err := uuid.Parse(r.URL.Query().Get("donation_id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid donation_id")
		return
	}
	orderID := r.URL.Query().Get("token")

	settled, err := h.service.ConfirmPayPalReturn(r.Context(), donationID, orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"settled": settled})
}

// PaystackCallbackHandler handles GET /donations/paystack/callback.
func (h *Handlers) PaystackCallbackHandler(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		h.writeError(w, http.StatusBadRequest, "reference is required")
		return
	}
	settled, err := h.service.ConfirmPaystackCallback(r.Context(), reference)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"settled": settled})
}

// CancelDonationHandler handles POST /donations/{donationID}/cancel.
func (h *Handlers) CancelDonationHandler(w http.ResponseWriter, r *http.Request) {
	donationID, ok := h.urlUUID(w, r, "donationID")
	if !ok {
		return
	}
	cancelled, err := h.service.FailDonation(r.Context(), donationID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"cancelled": cancelled})
}
