package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// Repository owns two pools: pool carries the service credential used for
// writes, readPool the public read credential used by campaign pages. Both may
// point at the same pool.
type Repository struct {
	pool     *pgxpool.Pool
	readPool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, readPool: pool}
}

// WithReadPool returns a copy that serves read-side queries from readPool.
func (r *Repository) WithReadPool(readPool *pgxpool.Pool) *Repository {
	if readPool == nil {
		return r
	}
	return &Repository{pool: r.pool, readPool: readPool}
}

// Ping checks that the leads table is reachable with the service credential.
func (r *Repository) Ping(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `SELECT 1 FROM leads LIMIT 1`)
	return err
}

func nullString(val string) interface{} {
	if val == "" {
		return nil
	}
	return val
}
