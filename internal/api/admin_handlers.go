/**
 * @description
 * Admin back office handlers: dashboard, KYC review, campaign moderation,
 * donation management (including bank transfer confirmation), payment method
 * configuration, user administration, and content management. All routes are
 * mounted behind AuthMiddleware + RequireAdmin.
 */

package api

import (
	"net/http"

	"github.com/helpinghands/crowdfund/internal/domain"
)

// DashboardHandler handles GET /admin/dashboard.
func (h *Handlers) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// ListKYCHandler handles GET /admin/kyc.
func (h *Handlers) ListKYCHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.ListKYCQueue(r.Context(),
		r.URL.Query().Get("status"), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

// ReviewKYCHandler handles POST /admin/kyc/{kycID}/review.
func (h *Handlers) ReviewKYCHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	kycID, ok := h.urlUUID(w, r, "kycID")
	if !ok {
		return
	}
	var req struct {
		Decision string `json:"decision"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	sub, err := h.service.ReviewKYC(r.Context(), adminID, kycID, req.Decision)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sub)
}

// AdminListCampaignsHandler handles GET /admin/campaigns.
func (h *Handlers) AdminListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.ListCampaignsForReview(r.Context(),
		r.URL.Query().Get("state"), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"campaigns": campaigns})
}

// ModerateCampaignHandler handles POST /admin/campaigns/{campaignID}/moderate.
func (h *Handlers) ModerateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	campaignID, ok := h.urlUUID(w, r, "campaignID")
	if !ok {
		return
	}
	var req struct {
		Decision string `json:"decision"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	campaign, err := h.service.ModerateCampaign(r.Context(), adminID, campaignID, req.Decision)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaign)
}

// DeleteCampaignHandler handles DELETE /admin/campaigns/{campaignID}.
func (h *Handlers) DeleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	campaignID, ok := h.urlUUID(w, r, "campaignID")
	if !ok {
		return
	}
	if err := h.service.DeleteCampaign(r.Context(), adminID, campaignID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

// AdminListDonationsHandler handles GET /admin/donations.
func (h *Handlers) AdminListDonationsHandler(w http.ResponseWriter, r *http.Request) {
	donations, err := h.service.ListDonationsAdmin(r.Context(), domain.DonationListOptions{
		Status: r.URL.Query().Get("status"),
		Method: r.URL.Query().Get("method"),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"donations": donations})
}

// ConfirmDonationHandler handles POST /admin/donations/{donationID}/confirm,
// the manual settlement path for bank transfers.
func (h *Handlers) ConfirmDonationHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	donationID, ok := h.urlUUID(w, r, "donationID")
	if !ok {
		return
	}
	settled, err := h.service.ConfirmBankDonation(r.Context(), adminID, donationID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"settled": settled})
}

// CreatePaymentMethodHandler handles POST /admin/payment-methods.
func (h *Handlers) CreatePaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	var req domain.CreatePaymentMethodRequest
	if !h.decode(w, r, &req) {
		return
	}
	pm, err := h.service.CreatePaymentMethod(r.Context(), adminID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, pm)
}

// ListPaymentMethodsHandler handles GET /admin/payment-methods.
func (h *Handlers) ListPaymentMethodsHandler(w http.ResponseWriter, r *http.Request) {
	methods, err := h.service.ListPaymentMethods(r.Context(), false)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"payment_methods": methods})
}

// TogglePaymentMethodHandler handles POST /admin/payment-methods/{methodID}/toggle.
func (h *Handlers) TogglePaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	methodID, ok := h.urlUUID(w, r, "methodID")
	if !ok {
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.SetPaymentMethodEnabled(r.Context(), adminID, methodID, req.Enabled); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": req.Enabled})
}

// DeletePaymentMethodHandler handles DELETE /admin/payment-methods/{methodID}.
func (h *Handlers) DeletePaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	methodID, ok := h.urlUUID(w, r, "methodID")
	if !ok {
		return
	}
	if err := h.service.DeletePaymentMethod(r.Context(), adminID, methodID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

// ListUsersHandler handles GET /admin/users.
func (h *Handlers) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// ToggleAdminHandler handles POST /admin/users/{userID}/toggle-admin.
func (h *Handlers) ToggleAdminHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	userID, ok := h.urlUUID(w, r, "userID")
	if !ok {
		return
	}
	user, err := h.service.ToggleUserAdmin(r.Context(), adminID, userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// AppreciateUserHandler handles POST /admin/users/{userID}/appreciate.
func (h *Handlers) AppreciateUserHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	userID, ok := h.urlUUID(w, r, "userID")
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.AppreciateUser(r.Context(), adminID, userID, req.Message); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// CreateNewsHandler handles POST /admin/news. Accepts JSON or a multipart
// form with an optional article image.
func (h *Handlers) CreateNewsHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())

	var req domain.CreateNewsRequest
	if isMultipart(r) {
		req.Title = r.FormValue("title")
		req.Content = r.FormValue("content")
		path, err := h.saveUpload(r, "image", uploadCategoryNews)
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

	article, err := h.service.CreateNews(r.Context(), adminID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, article)
}

// DeleteNewsHandler handles DELETE /admin/news/{newsID}.
func (h *Handlers) DeleteNewsHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	newsID, ok := h.urlUUID(w, r, "newsID")
	if !ok {
		return
	}
	if err := h.service.DeleteNews(r.Context(), adminID, newsID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

// CreateLocationHandler handles POST /admin/locations.
func (h *Handlers) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	var req struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	location, err := h.service.CreateLocation(r.Context(), adminID, req.Name, req.Country)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, location)
}

// DeleteLocationHandler handles DELETE /admin/locations/{locationID}.
func (h *Handlers) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	adminID, _ := GetUserID(r.Context())
	locationID, ok := h.urlUUID(w, r, "locationID")
	if !ok {
		return
	}
	if err := h.service.DeleteLocation(r.Context(), adminID, locationID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}
