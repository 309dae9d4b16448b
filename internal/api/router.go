/**
 * @description
 * This file sets up the HTTP router for the crowdfunding service. It defines
 * the API endpoints, associates them with their corresponding handlers, and
 * applies middleware for logging, panic recovery, CORS, and authentication.
 *
 * Routes are split into four groups: public endpoints, webhook endpoints
 * (authenticated by provider signatures rather than bearer tokens),
 * authenticated user endpoints, and the admin back office.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for browser clients.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions carries the router-level configuration.
type RouterOptions struct {
	JWTSecret      string
	AllowedOrigins []string
	UploadDir      string
}

// Routes creates and returns the router for the crowdfunding service.
func Routes(h *Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint, also the self-ping target.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public endpoints.
	r.Post("/auth/register", h.RegisterHandler)
	r.Post("/auth/login", h.LoginHandler)
	r.Get("/campaigns", h.ListCampaignsHandler)
	r.Get("/news", h.ListNewsHandler)
	r.Get("/news/{newsID}", h.GetNewsHandler)
	r.Get("/locations", h.ListLocationsHandler)

	// Campaign detail carries owner-only extras when a valid token is sent.
	r.Group(func(r chi.Router) {
		r.Use(OptionalAuthMiddleware(opts.JWTSecret))
		r.Get("/campaigns/{campaignID}", h.GetCampaignHandler)
		r.Post("/campaigns/{campaignID}/donations", h.CreateDonationHandler)
	})

	// Payment provider callbacks and webhooks. Webhooks are authenticated by
	// HMAC signature inside the handler, not by bearer token.
	r.Get("/donations/paypal/return", h.PayPalReturnHandler)
	r.Get("/donations/paystack/callback", h.PaystackCallbackHandler)
	r.Get("/donations/{donationID}/cancel", h.CancelDonationHandler)
	r.Post("/webhooks/paystack", h.PaystackWebhookHandler)
	r.Post("/webhooks/coinbase", h.CoinbaseWebhookHandler)

	// Serve uploaded files (campaign images, news images, profile photos).
	if opts.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	// Authenticated user endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.JWTSecret))

		r.Get("/auth/me", h.MeHandler)
		r.Put("/auth/me", h.UpdateProfileHandler)
		r.Post("/kyc", h.SubmitKYCHandler)

		r.Post("/campaigns", h.CreateCampaignHandler)
		r.Post("/campaigns/{campaignID}/submit", h.SubmitCampaignHandler)

		r.Post("/news/{newsID}/comments", h.AddCommentHandler)

		r.Get("/notifications", h.ListNotificationsHandler)
		r.Get("/notifications/unread-count", h.UnreadNotificationCountHandler)
		r.Post("/notifications/{notificationID}/read", h.MarkNotificationReadHandler)
	})

	// Admin back office.
	r.Route("/admin", func(r chi.Router) {
		r.Use(AuthMiddleware(opts.JWTSecret))
		r.Use(RequireAdmin)

		r.Get("/dashboard", h.DashboardHandler)

		r.Get("/kyc", h.ListKYCHandler)
		r.Post("/kyc/{kycID}/review", h.ReviewKYCHandler)

		r.Get("/campaigns", h.AdminListCampaignsHandler)
		r.Post("/campaigns/{campaignID}/moderate", h.ModerateCampaignHandler)
		r.Delete("/campaigns/{campaignID}", h.DeleteCampaignHandler)

		r.Get("/donations", h.AdminListDonationsHandler)
		r.Post("/donations/{donationID}/confirm", h.ConfirmDonationHandler)

		r.Post("/payment-methods", h.CreatePaymentMethodHandler)
		r.Get("/payment-methods", h.ListPaymentMethodsHandler)
		r.Post("/payment-methods/{methodID}/toggle", h.TogglePaymentMethodHandler)
		r.Delete("/payment-methods/{methodID}", h.DeletePaymentMethodHandler)

		r.Get("/users", h.ListUsersHandler)
		r.Post("/users/{userID}/toggle-admin", h.ToggleAdminHandler)
		r.Post("/users/{userID}/appreciate", h.AppreciateUserHandler)

		r.Post("/news", h.CreateNewsHandler)
		r.Delete("/news/{newsID}", h.DeleteNewsHandler)

		r.Post("/locations", h.CreateLocationHandler)
		r.Delete("/locations/{locationID}", h.DeleteLocationHandler)
	})

	return r
}
