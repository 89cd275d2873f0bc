package models

import "time"

const (
	OrderStatusPaid              = "paid"
	OrderStatusNoPaymentRequired = "no_payment_required"
	OrderStatusRefunded          = "refunded"
	OrderStatusCompleted         = "completed"
)

// DefaultCampaignID is recorded when a session carries no campaign metadata.
const DefaultCampaignID = "default"

// Pack is one purchasable entry bundle shown on a campaign page.
type Pack struct {
	Price   float64 `json:"price"`
	Entries int     `json:"entries"`
}

// Campaign is an organizer submission (a "lead"). Rows are written once and
// never updated.
type Campaign struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Purpose         string    `json:"purpose,omitempty"`
	CampaignName    string    `json:"campaign_name"`
	Beneficiary     string    `json:"beneficiary"`
	GoalUSD         *float64  `json:"goal_usd,omitempty"`
	StartET         string    `json:"start_et,omitempty"`
	EndET           string    `json:"end_et,omitempty"`
	StateExclusions string    `json:"state_exclusions,omitempty"`
	WinnerSharePct  float64   `json:"winner_share_pct"`
	PricePerEntry   float64   `json:"price_per_entry"`
	PacksDisplayed  []Pack    `json:"packs_displayed,omitempty"`
	EntryCapTotal   int       `json:"entry_cap_total"`
	AMOEAddress     string    `json:"amoe_address"`
	AMOEPacing      string    `json:"amoe_pacing,omitempty"`
	StoryShort      string    `json:"story_short,omitempty"`
	PhotoURL        string    `json:"photo_url,omitempty"`
	Source          string    `json:"source,omitempty"`
	UserAgent       string    `json:"-"`
	IP              string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// Order is one ledger row. StripeSessionID is the idempotency key.
type Order struct {
	ID              int64     `json:"id,omitempty"`
	StripeSessionID string    `json:"stripeSessionId"`
	CampaignID      string    `json:"campaignId"`
	Entries         int64     `json:"entries"`
	AmountCents     int64     `json:"amountCents"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	DiscountCents   *int64    `json:"discountCents,omitempty"`
	PromoCodeID     *string   `json:"promoCodeId,omitempty"`
	PageID          *string   `json:"pageId,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

type Comment struct {
	ID          int64     `json:"id"`
	CampaignID  string    `json:"campaignId"`
	DisplayName string    `json:"displayName"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Totals is the confirmed (non-refunded) sum of a campaign's ledger.
type Totals struct {
	Entries     int64 `json:"entries"`
	AmountCents int64 `json:"amountCents"`
}
