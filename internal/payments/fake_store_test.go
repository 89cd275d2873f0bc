package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
)

// memStore mirrors the orders upsert: one row per session id, sticky refunded
// status, optional columns only replaced by non-null values.
type memStore struct {
	mu       sync.Mutex
	rows     map[string]models.Order
	writes   int
	upsertFn func(models.Order) error
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]models.Order)}
}

func (m *memStore) UpsertOrder(_ context.Context, o models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertFn != nil {
		if err := m.upsertFn(o); err != nil {
			return models.Order{}, err
		}
	}
	if o.Entries <= 0 {
		return models.Order{}, errors.New("entries check violated")
	}

	m.writes++
	if prev, ok := m.rows[o.StripeSessionID]; ok {
		if prev.Status == models.OrderStatusRefunded {
			o.Status = prev.Status
		}
		if o.DiscountCents == nil {
			o.DiscountCents = prev.DiscountCents
		}
		if o.PromoCodeID == nil {
			o.PromoCodeID = prev.PromoCodeID
		}
		if o.PageID == nil {
			o.PageID = prev.PageID
		}
		o.ID = prev.ID
	} else {
		o.ID = int64(len(m.rows) + 1)
	}
	m.rows[o.StripeSessionID] = o
	return o, nil
}

func (m *memStore) MarkOrderRefunded(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[sessionID]
	if !ok {
		return false, nil
	}
	row.Status = models.OrderStatusRefunded
	m.rows[sessionID] = row
	return true, nil
}

func (m *memStore) get(sessionID string) (models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[sessionID]
	return row, ok
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
