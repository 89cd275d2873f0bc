package repository

import (
	"context"

	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
)

// ListComments returns the newest comments for a campaign first.
func (r *Repository) ListComments(ctx context.Context, campaignID string, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.readPool.Query(ctx, `
SELECT id, campaign_id, display_name, body, created_at
FROM comments
WHERE campaign_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.DisplayName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) AddComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO comments (campaign_id, display_name, body)
VALUES ($1, $2, $3)
RETURNING id, created_at;`, c.CampaignID, c.DisplayName, c.Body)
	err := row.Scan(&c.ID, &c.CreatedAt)
	return c, err
}
