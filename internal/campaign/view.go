package campaign

import (
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultWinnerSharePct = 50
	DefaultPricePerEntry  = 1
	DefaultEntryCap       = 700
	DefaultAMOEAddress    = "KindDraw\n384 Dorset Street\nBroadway VA, 22815"
	DefaultAMOEPacing     = "200/day up to cap"
)

// DefaultPacks is shown when a campaign was submitted without its own packs.
func DefaultPacks() []models.Pack {
	return []models.Pack{
		{Price: 10, Entries: 10},
		{Price: 20, Entries: 25},
		{Price: 50, Entries: 62},
		{Price: 100, Entries: 130},
		{Price: 500, Entries: 700},
	}
}

// View is what a campaign page renders: the submission with defaults applied
// plus the confirmed ledger totals.
type View struct {
	Campaign       models.Campaign `json:"campaign"`
	Packs          []models.Pack   `json:"packs"`
	Totals         models.Totals   `json:"totals"`
	GoalUSD        float64         `json:"goalUsd"`
	WinnerSharePct float64         `json:"winnerSharePct"`
	PricePerEntry  float64         `json:"pricePerEntry"`
	EntryCap       int             `json:"entryCap"`
	EstPrizeCents  int64           `json:"estPrizeCents"`
	ProgressPct    int             `json:"progressPct"`
	AMOEAddress    string          `json:"amoeAddress"`
	AMOEPacing     string          `json:"amoePacing"`
}

func BuildView(c models.Campaign, totals models.Totals) View {
	v := View{
		Campaign:       c,
		Packs:          c.PacksDisplayed,
		Totals:         totals,
		WinnerSharePct: c.WinnerSharePct,
		PricePerEntry:  c.PricePerEntry,
		EntryCap:       c.EntryCapTotal,
		AMOEAddress:    c.AMOEAddress,
		AMOEPacing:     c.AMOEPacing,
	}
	if c.GoalUSD != nil && *c.GoalUSD > 0 {
		v.GoalUSD = *c.GoalUSD
	}
	if v.WinnerSharePct <= 0 {
		v.WinnerSharePct = DefaultWinnerSharePct
	}
	if v.PricePerEntry <= 0 {
		v.PricePerEntry = DefaultPricePerEntry
	}
	if v.EntryCap <= 0 {
		v.EntryCap = DefaultEntryCap
	}
	if len(v.Packs) == 0 {
		v.Packs = DefaultPacks()
	}
	if v.AMOEAddress == "" {
		v.AMOEAddress = DefaultAMOEAddress
	}
	if v.AMOEPacing == "" {
		v.AMOEPacing = DefaultAMOEPacing
	}

	v.EstPrizeCents = EstimatedPrizeCents(v.WinnerSharePct, totals.AmountCents)
	v.ProgressPct = ProgressPct(totals.AmountCents, v.GoalUSD)
	return v
}

// EstimatedPrizeCents is the winner's share of the amount raised, rounded
// down to a whole dollar as the campaign page advertises it.
func EstimatedPrizeCents(sharePct float64, amountCents int64) int64 {
	if sharePct <= 0 || amountCents <= 0 {
		return 0
	}
	dollars := decimal.NewFromFloat(sharePct).
		Mul(decimal.NewFromInt(amountCents)).
		Div(decimal.NewFromInt(100 * 100)).
		Floor()
	return dollars.IntPart() * 100
}

// ProgressPct is the whole percentage of goalUSD raised, capped at 100. A
// campaign without a goal reports 0.
func ProgressPct(amountCents int64, goalUSD float64) int {
	if goalUSD <= 0 || amountCents <= 0 {
		return 0
	}
	// cents / (dollars*100) * 100
	pct := decimal.NewFromInt(amountCents).Div(decimal.NewFromFloat(goalUSD)).Round(0)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return int(pct.IntPart())
}
