package payments

import (
	"context"
	"log/slog"

	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
	"github.com/stripe/stripe-go/v82"
)

const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	EventChargeRefunded        = "charge.refunded"
	EventRefundCreated         = "refund.created"
)

// Provider is the subset of the Stripe API the payment flow needs.
type Provider interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
	Session(ctx context.Context, id string, params *stripe.CheckoutSessionRetrieveParams) (*stripe.CheckoutSession, error)
	FindPromotionCode(ctx context.Context, code string) (*stripe.PromotionCode, bool, error)
	FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.CheckoutSession, bool, error)
}

// OrderStore persists ledger rows keyed on the checkout session id.
type OrderStore interface {
	UpsertOrder(ctx context.Context, o models.Order) (models.Order, error)
	MarkOrderRefunded(ctx context.Context, sessionID string) (bool, error)
}

type Config struct {
	WebhookSecret string
	Currency      string
	ProductName   string
}

type Service struct {
	provider Provider
	store    OrderStore
	cfg      Config
	logger   *slog.Logger
}

// NewService wires the payment flow. A nil provider means no Stripe secret key
// is configured; operations that need Stripe then fail with ErrConfiguration.
func NewService(provider Provider, store OrderStore, cfg Config, logger *slog.Logger) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.ProductName == "" {
		cfg.ProductName = "KindDraw"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, store: store, cfg: cfg, logger: logger}
}

// Configured reports whether checkout and webhook handling have the secrets
// they need.
func (s *Service) Configured() (checkout bool, webhook bool) {
	checkout = s.provider != nil
	webhook = checkout && s.cfg.WebhookSecret != ""
	return checkout, webhook
}
