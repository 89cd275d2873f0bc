package xstripe

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

type MockClient struct {
	FnCreateSession              func(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
	FnSession                    func(ctx context.Context, id string, params *stripe.CheckoutSessionRetrieveParams) (*stripe.CheckoutSession, error)
	FnFindPromotionCode          func(ctx context.Context, code string) (*stripe.PromotionCode, bool, error)
	FnFindSessionByPaymentIntent func(ctx context.Context, paymentIntentID string) (*stripe.CheckoutSession, bool, error)
}

func (c *MockClient) CreateSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error) {
	if c.FnCreateSession == nil {
		result := &stripe.CheckoutSession{
			ID:         "cs_test_id",
			URL:        "https://checkout.stripe.com/c/pay/cs_test_id",
			Mode:       stripe.CheckoutSessionModePayment,
			SuccessURL: stripe.StringValue(params.SuccessURL),
			CancelURL:  stripe.StringValue(params.CancelURL),
			Metadata:   params.Metadata,
		}

		return result, nil
	}

	return c.FnCreateSession(ctx, params)
}

func (c *MockClient) Session(ctx context.Context, id string, params *stripe.CheckoutSessionRetrieveParams) (*stripe.CheckoutSession, error) {
	if c.FnSession == nil {
		result := &stripe.CheckoutSession{
			ID: id,
		}

		return result, nil
	}

	return c.FnSession(ctx, id, params)
}

func (c *MockClient) FindPromotionCode(ctx context.Context, code string) (*stripe.PromotionCode, bool, error) {
	if c.FnFindPromotionCode == nil {
		return nil, false, nil
	}

	return c.FnFindPromotionCode(ctx, code)
}

func (c *MockClient) FindSessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.CheckoutSession, bool, error) {
	if c.FnFindSessionByPaymentIntent == nil {
		return nil, false, nil
	}

	return c.FnFindSessionByPaymentIntent(ctx, paymentIntentID)
}
