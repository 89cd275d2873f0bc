package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

// refundObject covers the payment_intent reference shared by charge and
// refund objects.
type refundObject struct {
	ID            string                `json:"id"`
	PaymentIntent *stripe.PaymentIntent `json:"payment_intent"`
}

// handleRefund marks the order behind a refunded payment intent. A refund that
// arrives before its order is visible is dropped, not retried.
func (s *Service) handleRefund(ctx context.Context, event stripe.Event, res Result) Result {
	if event.Data == nil {
		res.Outcome = OutcomeIgnored
		return res
	}
	obj, err := parseStripeEventData[refundObject](event.Data.Raw)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("decode refund object: %w", err)
		return res
	}
	if obj.PaymentIntent == nil || obj.PaymentIntent.ID == "" {
		res.Outcome = OutcomeIgnored
		return res
	}
	if s.provider == nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: STRIPE_SECRET_KEY is not set", ErrConfiguration)
		return res
	}

	sess, ok, err := s.provider.FindSessionByPaymentIntent(ctx, obj.PaymentIntent.ID)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: payment_intent=%s: %v", ErrRefundLinkageMiss, obj.PaymentIntent.ID, err)
		return res
	}
	if !ok || sess == nil || sess.ID == "" {
		res.Outcome = OutcomeRefundUnmatched
		res.Err = fmt.Errorf("%w: payment_intent=%s", ErrRefundLinkageMiss, obj.PaymentIntent.ID)
		return res
	}
	res.SessionID = sess.ID

	matched, err := s.store.MarkOrderRefunded(ctx, sess.ID)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: %v", ErrPersistence, err)
		return res
	}
	if !matched {
		res.Outcome = OutcomeRefundUnmatched
		return res
	}

	res.Outcome = OutcomeRefunded
	return res
}
