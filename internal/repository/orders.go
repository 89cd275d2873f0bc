package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
)

// UpsertOrder writes o keyed on its session id. A redelivered event replaces
// the row's fields, except that a refunded row keeps its status and optional
// columns are only replaced by non-null values.
func (r *Repository) UpsertOrder(ctx context.Context, o models.Order) (models.Order, error) {
	query := `
INSERT INTO orders (stripe_session_id, campaign_id, entries, amount_cents, currency, status, discount_cents, promo_code_id, page_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (stripe_session_id) DO UPDATE SET
	campaign_id = EXCLUDED.campaign_id,
	entries = EXCLUDED.entries,
	amount_cents = EXCLUDED.amount_cents,
	currency = EXCLUDED.currency,
	status = CASE WHEN orders.status = 'refunded' THEN orders.status ELSE EXCLUDED.status END,
	discount_cents = COALESCE(EXCLUDED.discount_cents, orders.discount_cents),
	promo_code_id = COALESCE(EXCLUDED.promo_code_id, orders.promo_code_id),
	page_id = COALESCE(EXCLUDED.page_id, orders.page_id),
	updated_at = now()
RETURNING id, stripe_session_id, campaign_id, entries, amount_cents, currency, status, discount_cents, promo_code_id, page_id, created_at, updated_at;`

	row := r.pool.QueryRow(ctx, query,
		o.StripeSessionID, o.CampaignID, o.Entries, o.AmountCents, o.Currency, o.Status,
		o.DiscountCents, o.PromoCodeID, o.PageID,
	)
	return scanOrder(row)
}

// MarkOrderRefunded flips the status of the session's row to refunded and
// reports whether a row matched.
func (r *Repository) MarkOrderRefunded(ctx context.Context, sessionID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = 'refunded',
	updated_at = now()
WHERE stripe_session_id = $1;`, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) GetOrderBySession(ctx context.Context, sessionID string) (models.Order, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, stripe_session_id, campaign_id, entries, amount_cents, currency, status, discount_cents, promo_code_id, page_id, created_at, updated_at
FROM orders
WHERE stripe_session_id = $1`, sessionID)
	return scanOrder(row)
}

// CampaignTotals evaluates the campaign_totals aggregate on the read pool. A
// campaign without confirmed orders yields zero totals.
func (r *Repository) CampaignTotals(ctx context.Context, campaignID string) (models.Totals, error) {
	var out models.Totals
	row := r.readPool.QueryRow(ctx, `SELECT entries, amount_cents FROM campaign_totals($1)`, campaignID)
	var entries, amount *int64
	if err := row.Scan(&entries, &amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, nil
		}
		return out, err
	}
	if entries != nil && *entries > 0 {
		out.Entries = *entries
	}
	if amount != nil && *amount > 0 {
		out.AmountCents = *amount
	}
	return out, nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var out models.Order
	var entries int32
	err := row.Scan(
		&out.ID, &out.StripeSessionID, &out.CampaignID, &entries, &out.AmountCents, &out.Currency, &out.Status,
		&out.DiscountCents, &out.PromoCodeID, &out.PageID, &out.CreatedAt, &out.UpdatedAt,
	)
	out.Entries = int64(entries)
	return out, err
}
