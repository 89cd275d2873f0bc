package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shaneclick1-cyber/Kinddraw/internal/integrations/xstripe"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
	"github.com/stripe/stripe-go/v82"
)

const discountRefetchTimeout = 3 * time.Second

type Outcome string

const (
	OutcomeRecorded        Outcome = "recorded"
	OutcomePending         Outcome = "pending"
	OutcomeSkipped         Outcome = "skipped"
	OutcomeIgnored         Outcome = "ignored"
	OutcomeRefunded        Outcome = "refunded"
	OutcomeRefundUnmatched Outcome = "refund_unmatched"
	OutcomeFailed          Outcome = "failed"
)

// Result describes what handling one event did to the ledger. Err carries a
// failure that was deliberately not surfaced to Stripe.
type Result struct {
	EventID   string
	EventType string
	Outcome   Outcome
	SessionID string
	Order     *models.Order
	Err       error
}

// HandleEvent applies a verified event to the ledger. It never fails the
// delivery: every failure is reported in the returned Result.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) Result {
	res := Result{EventID: event.ID, EventType: string(event.Type)}

	switch res.EventType {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded:
		res = s.handleCheckoutEvent(ctx, event, res)
	case EventChargeRefunded, EventRefundCreated:
		res = s.handleRefund(ctx, event, res)
	default:
		res.Outcome = OutcomeIgnored
	}

	s.observe(res)
	return res
}

func (s *Service) handleCheckoutEvent(ctx context.Context, event stripe.Event, res Result) Result {
	if event.Data == nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: event has no data", ErrUnusableOrder)
		return res
	}
	sess, err := parseStripeEventData[stripe.CheckoutSession](event.Data.Raw)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("decode checkout session: %w", err)
		return res
	}
	res.SessionID = sess.ID

	// Async wallets report completion before funds settle; a later
	// async_payment_succeeded confirms them.
	if res.EventType == EventCheckoutCompleted && !isPaidStatus(sess.PaymentStatus) {
		res.Outcome = OutcomePending
		return res
	}

	return s.reconcileSession(ctx, sess, res)
}

// ReconcileSession fetches a session from Stripe and records it when it is
// paid. It repairs ledger rows for deliveries that never arrived.
func (s *Service) ReconcileSession(ctx context.Context, sessionID string) (Result, error) {
	res := Result{EventType: "manual.reconcile", SessionID: sessionID}
	if s.provider == nil {
		return res, fmt.Errorf("%w: STRIPE_SECRET_KEY is not set", ErrConfiguration)
	}

	params := &stripe.CheckoutSessionRetrieveParams{}
	params.AddExpand("total_details.breakdown")
	sess, err := s.provider.Session(ctx, sessionID, params)
	if err != nil {
		return res, fmt.Errorf("retrieve checkout session: %w", err)
	}

	if !isPaidStatus(sess.PaymentStatus) {
		res.Outcome = OutcomePending
	} else {
		res = s.reconcileSession(ctx, sess, res)
	}

	s.observe(res)
	return res, nil
}

func (s *Service) reconcileSession(ctx context.Context, sess *stripe.CheckoutSession, res Result) Result {
	if sess.TotalDetails != nil && sess.TotalDetails.AmountDiscount > 0 && !xstripe.HasDiscountBreakdown(sess) {
		sess = s.expandDiscounts(ctx, sess)
	}

	order, err := OrderFromSession(sess)
	if err != nil {
		res.Outcome = OutcomeSkipped
		res.Err = err
		return res
	}

	stored, err := s.store.UpsertOrder(ctx, order)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: %v", ErrPersistence, err)
		return res
	}

	res.Outcome = OutcomeRecorded
	res.Order = &stored
	return res
}

// expandDiscounts re-fetches sess with its discount breakdown. On failure the
// original session is returned and the row is written without a promo id.
func (s *Service) expandDiscounts(ctx context.Context, sess *stripe.CheckoutSession) *stripe.CheckoutSession {
	if s.provider == nil {
		return sess
	}

	ctx, cancel := context.WithTimeout(ctx, discountRefetchTimeout)
	defer cancel()

	params := &stripe.CheckoutSessionRetrieveParams{}
	params.AddExpand("total_details.breakdown")
	full, err := s.provider.Session(ctx, sess.ID, params)
	if err != nil || full == nil {
		s.logger.Warn("reconcile", "status", "discount_refetch_failed", "session_id", sess.ID, "error", err)
		return sess
	}
	return full
}

// OrderFromSession derives the ledger row for a paid checkout session.
func OrderFromSession(sess *stripe.CheckoutSession) (models.Order, error) {
	var out models.Order
	if sess == nil || sess.ID == "" {
		return out, fmt.Errorf("%w: session id missing", ErrUnusableOrder)
	}
	meta := sess.Metadata

	out.StripeSessionID = sess.ID
	out.CampaignID = firstNonEmpty(meta["campaign"], meta["campaignId"], models.DefaultCampaignID)
	if pageID := firstNonEmpty(meta["page_id"], meta["campaignId"]); pageID != "" {
		out.PageID = &pageID
	}

	out.AmountCents = sess.AmountTotal
	if out.AmountCents < 0 {
		out.AmountCents = 0
	}
	out.Entries = entriesFromMetadata(meta["packEntries"])
	if out.Entries <= 0 {
		out.Entries = out.AmountCents / 100
	}

	out.Currency = strings.ToLower(strings.TrimSpace(string(sess.Currency)))
	if out.Currency == "" {
		out.Currency = "usd"
	}

	out.Status = string(sess.PaymentStatus)
	if out.Status == "" {
		out.Status = models.OrderStatusCompleted
	}

	if sess.TotalDetails != nil && sess.TotalDetails.AmountDiscount > 0 {
		discount := sess.TotalDetails.AmountDiscount
		out.DiscountCents = &discount
	}
	if promoID := xstripe.PromotionCodeIDFromSession(sess); promoID != "" {
		out.PromoCodeID = &promoID
	}

	if out.CampaignID == "" {
		return out, fmt.Errorf("%w: campaign missing", ErrUnusableOrder)
	}
	if out.Entries <= 0 {
		return out, fmt.Errorf("%w: no entries (amount_total=%d)", ErrUnusableOrder, sess.AmountTotal)
	}
	if out.Entries > math.MaxInt32 {
		return out, fmt.Errorf("%w: entries %d out of range", ErrUnusableOrder, out.Entries)
	}

	return out, nil
}

func (s *Service) observe(res Result) {
	webhookEventsTotal.WithLabelValues(res.EventType, string(res.Outcome)).Inc()

	logger := s.logger.With("event_id", res.EventID, "event_type", res.EventType, "session_id", res.SessionID)
	switch {
	case res.Outcome == OutcomeFailed:
		logger.Error("webhook", "status", string(res.Outcome), "persistence", errors.Is(res.Err, ErrPersistence), "error", res.Err)
	case res.Outcome == OutcomeSkipped, res.Outcome == OutcomeRefundUnmatched:
		logger.Warn("webhook", "status", string(res.Outcome), "error", res.Err)
	case res.Outcome == OutcomeRecorded && res.Order != nil:
		logger.Info("webhook", "status", string(res.Outcome), "campaign_id", res.Order.CampaignID, "entries", res.Order.Entries, "amount_cents", res.Order.AmountCents, "order_status", res.Order.Status)
	default:
		logger.Info("webhook", "status", string(res.Outcome))
	}
}

func isPaidStatus(status stripe.CheckoutSessionPaymentStatus) bool {
	return status == stripe.CheckoutSessionPaymentStatusPaid || status == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
}

func entriesFromMetadata(raw string) int64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Floor(v)
	if v <= 0 {
		return 0
	}
	// Anything past the column range is rejected by the caller.
	if v > math.MaxInt32 {
		return math.MaxInt32 + 1
	}
	return int64(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func parseStripeEventData[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
