package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// VerifyEvent authenticates a webhook delivery. payload must be the request
// body exactly as received.
func (s *Service) VerifyEvent(payload []byte, signature string) (stripe.Event, error) {
	if s.provider == nil || s.cfg.WebhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("%w: STRIPE_SECRET_KEY or STRIPE_WEBHOOK_SECRET is not set", ErrConfiguration)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	return event, nil
}
