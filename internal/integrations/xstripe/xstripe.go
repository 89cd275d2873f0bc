package xstripe

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

type Client struct {
	cl *stripe.Client
}

func NewClient(cl *stripe.Client) *Client {
	return &Client{cl: cl}
}

// New builds a client for secretKey, or returns nil when no key is configured.
func New(secretKey string) *Client {
	if secretKey == "" {
		return nil
	}

	return NewClient(stripe.NewClient(secretKey))
}

func (c *Client) CreateSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	return c.cl.V1CheckoutSessions.Create(ctx, params)
}

func (c *Client) Session(ctx context.Context, id string, params *stripe.CheckoutSessionRetrieveParams) (*stripe.CheckoutSession, error) {
	return c.cl.V1CheckoutSessions.Retrieve(ctx, id, params)
}

// FindPromotionCode returns the first active promotion code matching code.
func (c *Client) FindPromotionCode(ctx context.Context, code string) (*stripe.PromotionCode, bool, error) {
	params := &stripe.PromotionCodeListParams{
		Code:   stripe.String(code),
		Active: stripe.Bool(true),
	}
	params.Limit = stripe.Int64(1)

	for pc, err := range c.cl.V1PromotionCodes.List(ctx, params) {
		if err != nil {
			return nil, false, err
		}

		return pc, true, nil
	}

	return nil, false, nil
}

// FindSessionByPaymentIntent returns the most recent checkout session created
// for the payment intent.
func (c *Client) FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.CheckoutSession, bool, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Limit = stripe.Int64(1)

	for sess, err := range c.cl.V1CheckoutSessions.List(ctx, params) {
		if err != nil {
			return nil, false, err
		}

		return sess, true, nil
	}

	return nil, false, nil
}

// PromotionCodeIDFromSession returns the promotion code applied to the first
// discount in the session breakdown, falling back to that discount's id.
func PromotionCodeIDFromSession(sess *stripe.CheckoutSession) string {
	if sess == nil || sess.TotalDetails == nil || sess.TotalDetails.Breakdown == nil {
		return ""
	}

	for _, item := range sess.TotalDetails.Breakdown.Discounts {
		if item == nil || item.Discount == nil {
			continue
		}

		if item.Discount.PromotionCode != nil && item.Discount.PromotionCode.ID != "" {
			return item.Discount.PromotionCode.ID
		}

		return item.Discount.ID
	}

	return ""
}

// HasDiscountBreakdown reports whether the session carries its expanded
// discount breakdown.
func HasDiscountBreakdown(sess *stripe.CheckoutSession) bool {
	return sess != nil && sess.TotalDetails != nil && sess.TotalDetails.Breakdown != nil
}
