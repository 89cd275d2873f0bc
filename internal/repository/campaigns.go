package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
)

func (r *Repository) CreateLead(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	var packs interface{}
	if len(c.PacksDisplayed) > 0 {
		raw, err := json.Marshal(c.PacksDisplayed)
		if err != nil {
			return c, err
		}
		packs = raw
	}

	query := `
INSERT INTO leads (
	full_name, email, phone, purpose, campaign_name, beneficiary, goal_usd, start_et, end_et, state_exclusions,
	winner_share_pct, price_per_entry, packs_displayed, entry_cap_total, amoe_address, amoe_pacing,
	story_short, photo_url, source, user_agent, ip
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING id::text, created_at;`

	row := r.pool.QueryRow(ctx, query,
		c.FullName, c.Email, nullString(c.Phone), nullString(c.Purpose), c.CampaignName, c.Beneficiary,
		c.GoalUSD, nullString(c.StartET), nullString(c.EndET), nullString(c.StateExclusions),
		c.WinnerSharePct, c.PricePerEntry, packs, c.EntryCapTotal, c.AMOEAddress, nullString(c.AMOEPacing),
		nullString(c.StoryShort), nullString(c.PhotoURL), nullString(c.Source), nullString(c.UserAgent), nullString(c.IP),
	)
	err := row.Scan(&c.ID, &c.CreatedAt)
	return c, err
}

// GetCampaign loads a lead through the read pool.
func (r *Repository) GetCampaign(ctx context.Context, id string) (models.Campaign, error) {
	var out models.Campaign
	leadID, err := uuid.Parse(id)
	if err != nil {
		return out, ErrCampaignNotFound
	}
	row := r.readPool.QueryRow(ctx, `
SELECT id::text, full_name, email, COALESCE(phone, ''), COALESCE(purpose, ''), campaign_name, beneficiary,
	goal_usd::float8, COALESCE(start_et, ''), COALESCE(end_et, ''), COALESCE(state_exclusions, ''),
	winner_share_pct::float8, price_per_entry::float8, packs_displayed, entry_cap_total, amoe_address,
	COALESCE(amoe_pacing, ''), COALESCE(story_short, ''), COALESCE(photo_url, ''), COALESCE(source, ''), created_at
FROM leads
WHERE id = $1`, leadID)

	var packs []byte
	err = row.Scan(
		&out.ID, &out.FullName, &out.Email, &out.Phone, &out.Purpose, &out.CampaignName, &out.Beneficiary,
		&out.GoalUSD, &out.StartET, &out.EndET, &out.StateExclusions,
		&out.WinnerSharePct, &out.PricePerEntry, &packs, &out.EntryCapTotal, &out.AMOEAddress,
		&out.AMOEPacing, &out.StoryShort, &out.PhotoURL, &out.Source, &out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, ErrCampaignNotFound
		}
		return out, err
	}
	// Older rows may hold non-array JSON; those fall back to default packs.
	if len(packs) > 0 {
		var parsed []models.Pack
		if json.Unmarshal(packs, &parsed) == nil {
			out.PacksDisplayed = parsed
		}
	}
	return out, nil
}
