package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaneclick1-cyber/Kinddraw/internal/db"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func openTestRepository(t *testing.T) (*Repository, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	if err := db.Migrate(dsn, nil); err != nil {
		t.Skipf("migrate failed: %v", err)
	}

	pool, err := db.NewPool(context.Background(), dsn)
	if err != nil {
		t.Skipf("db connection failed: %v", err)
	}
	t.Cleanup(pool.Close)
	return New(pool), pool
}

func testCampaignID(t *testing.T) string {
	return fmt.Sprintf("repo-test-%s-%d", t.Name(), time.Now().UnixNano())
}

func cleanupOrders(t *testing.T, pool *pgxpool.Pool, campaignID string) {
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM orders WHERE campaign_id = $1`, campaignID)
	})
}

func TestUpsertOrderKeepsOneRowPerSession(t *testing.T) {
	repo, pool := openTestRepository(t)
	ctx := context.Background()
	campaignID := testCampaignID(t)
	cleanupOrders(t, pool, campaignID)
	sessionID := "cs_test_" + campaignID

	order := models.Order{
		StripeSessionID: sessionID,
		CampaignID:      campaignID,
		Entries:         130,
		AmountCents:     10000,
		Currency:        "usd",
		Status:          models.OrderStatusPaid,
	}
	_, err := repo.UpsertOrder(ctx, order)
	must.NoError(t, err)

	order.AmountCents = 9000
	promo := "promo_123"
	order.PromoCodeID = &promo
	_, err = repo.UpsertOrder(ctx, order)
	must.NoError(t, err)

	var count int
	must.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE stripe_session_id = $1`, sessionID).Scan(&count))
	should.Equal(t, 1, count)

	stored, err := repo.GetOrderBySession(ctx, sessionID)
	must.NoError(t, err)
	should.Equal(t, int64(9000), stored.AmountCents)
	must.NotNil(t, stored.PromoCodeID)
	should.Equal(t, promo, *stored.PromoCodeID)
}

func TestUpsertOrderConcurrentDeliveries(t *testing.T) {
	repo, pool := openTestRepository(t)
	ctx := context.Background()
	campaignID := testCampaignID(t)
	cleanupOrders(t, pool, campaignID)
	sessionID := "cs_test_" + campaignID

	const deliveries = 12
	sent := make(map[int64]bool, deliveries)
	errs := make(chan error, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		cents := int64(1000 + i*100)
		sent[cents] = true
		wg.Add(1)
		go func(cents int64) {
			defer wg.Done()
			_, err := repo.UpsertOrder(ctx, models.Order{
				StripeSessionID: sessionID,
				CampaignID:      campaignID,
				Entries:         cents / 100,
				AmountCents:     cents,
				Currency:        "usd",
				Status:          models.OrderStatusPaid,
			})
			errs <- err
		}(cents)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		must.NoError(t, err)
	}

	var count int
	must.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE stripe_session_id = $1`, sessionID).Scan(&count))
	should.Equal(t, 1, count)

	stored, err := repo.GetOrderBySession(ctx, sessionID)
	must.NoError(t, err)
	should.True(t, sent[stored.AmountCents], "stored amount %d was never sent", stored.AmountCents)
	should.Equal(t, stored.AmountCents/100, stored.Entries)
}

func TestRefundedStatusSurvivesRedelivery(t *testing.T) {
	repo, pool := openTestRepository(t)
	ctx := context.Background()
	campaignID := testCampaignID(t)
	cleanupOrders(t, pool, campaignID)
	sessionID := "cs_test_" + campaignID

	order := models.Order{
		StripeSessionID: sessionID,
		CampaignID:      campaignID,
		Entries:         10,
		AmountCents:     1000,
		Currency:        "usd",
		Status:          models.OrderStatusPaid,
	}
	_, err := repo.UpsertOrder(ctx, order)
	must.NoError(t, err)

	matched, err := repo.MarkOrderRefunded(ctx, sessionID)
	must.NoError(t, err)
	should.True(t, matched)

	stored, err := repo.UpsertOrder(ctx, order)
	must.NoError(t, err)
	should.Equal(t, models.OrderStatusRefunded, stored.Status)

	matched, err = repo.MarkOrderRefunded(ctx, "cs_test_missing_"+campaignID)
	must.NoError(t, err)
	should.False(t, matched)
}

func TestCampaignTotalsExcludeRefunds(t *testing.T) {
	repo, pool := openTestRepository(t)
	ctx := context.Background()
	campaignID := testCampaignID(t)
	cleanupOrders(t, pool, campaignID)

	totals, err := repo.CampaignTotals(ctx, campaignID)
	must.NoError(t, err)
	should.Equal(t, models.Totals{}, totals)

	for i, cents := range []int64{10000, 2500, 1000} {
		_, err := repo.UpsertOrder(ctx, models.Order{
			StripeSessionID: fmt.Sprintf("cs_test_%s_%d", campaignID, i),
			CampaignID:      campaignID,
			Entries:         cents / 100,
			AmountCents:     cents,
			Currency:        "usd",
			Status:          models.OrderStatusPaid,
		})
		must.NoError(t, err)
	}
	_, err = repo.MarkOrderRefunded(ctx, fmt.Sprintf("cs_test_%s_%d", campaignID, 2))
	must.NoError(t, err)

	totals, err = repo.CampaignTotals(ctx, campaignID)
	must.NoError(t, err)
	should.Equal(t, models.Totals{Entries: 125, AmountCents: 12500}, totals)
}
