package payments

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

type CheckoutRequest struct {
	CampaignID  string
	PackPrice   float64
	PackEntries float64
	Promo       string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type checkoutInput struct {
	campaignID string
	priceCents int64
	price      string
	entries    int64
	promo      string
}

// CreateCheckout opens a hosted Checkout session for one entry pack. origin is
// the scheme and host the buyer returns to.
func (s *Service) CreateCheckout(ctx context.Context, origin string, req CheckoutRequest) (*CheckoutSession, error) {
	in, err := validateCheckout(req)
	if err != nil {
		checkoutSessionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if s.provider == nil {
		checkoutSessionsTotal.WithLabelValues("misconfigured").Inc()
		return nil, fmt.Errorf("%w: STRIPE_SECRET_KEY is not set", ErrConfiguration)
	}

	params := s.sessionParams(origin, in)

	discounted := false
	if in.promo != "" {
		promotionID, err := s.lookupPromotion(ctx, in.promo)
		switch {
		case err != nil:
			s.logger.Warn("checkout", "status", "promo_lookup_failed", "promo", in.promo, "error", err)
		case promotionID != "":
			params.Discounts = []*stripe.CheckoutSessionCreateDiscountParams{
				{PromotionCode: stripe.String(promotionID)},
			}
			discounted = true
		}
	}
	// Stripe rejects allow_promotion_codes alongside discounts.
	if !discounted {
		params.AllowPromotionCodes = stripe.Bool(true)
	}

	sess, err := s.provider.CreateSession(ctx, params)
	if err != nil {
		checkoutSessionsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	checkoutSessionsTotal.WithLabelValues("created").Inc()
	s.logger.Info("checkout", "status", "created", "session_id", sess.ID, "campaign_id", in.campaignID, "entries", in.entries, "amount_cents", in.priceCents, "discounted", discounted)
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *Service) sessionParams(origin string, in checkoutInput) *stripe.CheckoutSessionCreateParams {
	origin = strings.TrimRight(origin, "/")
	pagePath := origin + "/c/" + url.PathEscape(in.campaignID)
	entries := strconv.FormatInt(in.entries, 10)

	metadata := map[string]string{
		"campaign":    in.campaignID,
		"page_id":     in.campaignID,
		"campaignId":  in.campaignID,
		"packEntries": entries,
		"packPrice":   in.price,
	}
	if in.promo != "" {
		metadata["promo"] = in.promo
	}

	return &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(pagePath + "?checkout=success"),
		CancelURL:  stripe.String(pagePath + "?canceled=1"),
		Metadata:   metadata,
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(s.cfg.Currency),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("%s: %s entries", s.cfg.ProductName, entries)),
					Metadata: map[string]string{
						"campaignId":  in.campaignID,
						"packEntries": entries,
						"packPrice":   in.price,
					},
				},
				UnitAmount: stripe.Int64(in.priceCents),
			},
			Quantity: stripe.Int64(1),
		}},
	}
}

// lookupPromotion returns the id of an active promotion code, or "" when
// none matches.
func (s *Service) lookupPromotion(ctx context.Context, code string) (string, error) {
	pc, ok, err := s.provider.FindPromotionCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPromotionLookup, err)
	}
	if !ok || pc == nil {
		return "", nil
	}
	return pc.ID, nil
}

func validateCheckout(req CheckoutRequest) (checkoutInput, error) {
	in := checkoutInput{
		campaignID: strings.TrimSpace(req.CampaignID),
		promo:      strings.TrimSpace(req.Promo),
	}
	if in.campaignID == "" {
		return in, fmt.Errorf("%w: campaignId is required", ErrInvalidInput)
	}

	if math.IsNaN(req.PackPrice) || math.IsInf(req.PackPrice, 0) || req.PackPrice <= 0 {
		return in, fmt.Errorf("%w: packPrice must be a positive number", ErrInvalidInput)
	}
	price := decimal.NewFromFloat(req.PackPrice)
	in.priceCents = price.Shift(2).Round(0).IntPart()
	if in.priceCents <= 0 {
		return in, fmt.Errorf("%w: packPrice must be at least one cent", ErrInvalidInput)
	}
	in.price = price.String()

	if math.IsNaN(req.PackEntries) || math.IsInf(req.PackEntries, 0) {
		return in, fmt.Errorf("%w: packEntries must be a positive integer", ErrInvalidInput)
	}
	entries := math.Floor(req.PackEntries)
	if entries <= 0 || entries > math.MaxInt32 {
		return in, fmt.Errorf("%w: packEntries must be a positive integer", ErrInvalidInput)
	}
	in.entries = int64(entries)

	return in, nil
}
