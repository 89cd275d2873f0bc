package handlers

import (
	authmw "github.com/shaneclick1-cyber/Kinddraw/internal/http/middleware"
	"github.com/shaneclick1-cyber/Kinddraw/internal/rate"

	"github.com/go-chi/chi/v5"
)

// Limits holds the per-client limiters for the public write endpoints. A nil
// limiter disables limiting for that route.
type Limits struct {
	Checkout rate.Limiter
	Comments rate.Limiter
}

// Mount registers the /api routes on r.
func (h *Handler) Mount(r chi.Router, limits Limits) {
	jwtSecret := ""
	if h.cfg != nil {
		jwtSecret = h.cfg.JWTSecret
	}

	r.Route("/api", func(r chi.Router) {
		r.With(authmw.RateLimit(limits.Checkout, h.logger)).Post("/create-checkout-session", h.CreateCheckoutSession)

		r.Post("/webhooks/stripe", h.StripeWebhook)
		r.Get("/webhooks/stripe", h.StripeWebhookPing)

		r.Post("/leads", h.CreateLead)
		r.Get("/leads", h.LeadsHealth)

		r.Route("/campaigns/{id}", func(r chi.Router) {
			r.Get("/", h.GetCampaign)
			r.Get("/totals", h.CampaignTotals)
			r.Get("/qr.png", h.CampaignQR)
			r.Get("/comments", h.ListComments)
			r.With(authmw.RateLimit(limits.Comments, h.logger)).Post("/comments", h.AddComment)
		})

		r.Post("/upload", h.Upload)
		r.Post("/auth/admin", h.AuthAdmin)

		r.Group(func(r chi.Router) {
			r.Use(authmw.AdminOnly(jwtSecret))
			r.Post("/admin/orders/manual", h.CreateManualOrder)
			r.Post("/admin/sessions/{id}/reconcile", h.ReconcileSession)
			r.Get("/admin/env", h.Env)
		})
	})
}
