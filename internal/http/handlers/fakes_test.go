package handlers

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shaneclick1-cyber/Kinddraw/internal/config"
	"github.com/shaneclick1-cyber/Kinddraw/internal/integrations/xstripe"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
	"github.com/shaneclick1-cyber/Kinddraw/internal/payments"
	"github.com/shaneclick1-cyber/Kinddraw/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_handlers"

type fakeStore struct {
	mu        sync.Mutex
	orders    map[string]models.Order
	campaigns map[string]models.Campaign
	comments  []models.Comment
	leads     []models.Campaign
	pingErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:    make(map[string]models.Order),
		campaigns: make(map[string]models.Campaign),
	}
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) CreateLead(_ context.Context, c models.Campaign) (models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", len(s.leads)+1)
	c.CreatedAt = time.Now()
	s.leads = append(s.leads, c)
	s.campaigns[c.ID] = c
	return c, nil
}

func (s *fakeStore) GetCampaign(_ context.Context, id string) (models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return models.Campaign{}, repository.ErrCampaignNotFound
	}
	return c, nil
}

func (s *fakeStore) CampaignTotals(_ context.Context, campaignID string) (models.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out models.Totals
	for _, o := range s.orders {
		if o.CampaignID != campaignID || o.Status == models.OrderStatusRefunded {
			continue
		}
		out.Entries += o.Entries
		out.AmountCents += o.AmountCents
	}
	return out, nil
}

func (s *fakeStore) ListComments(_ context.Context, campaignID string, _ int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.CampaignID == campaignID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeStore) AddComment(_ context.Context, c models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = int64(len(s.comments) + 1)
	c.CreatedAt = time.Now()
	s.comments = append(s.comments, c)
	return c, nil
}

func (s *fakeStore) UpsertOrder(_ context.Context, o models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Entries <= 0 {
		return models.Order{}, errors.New("entries check violated")
	}
	if prev, ok := s.orders[o.StripeSessionID]; ok && prev.Status == models.OrderStatusRefunded {
		o.Status = prev.Status
	}
	s.orders[o.StripeSessionID] = o
	return o, nil
}

func (s *fakeStore) MarkOrderRefunded(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[sessionID]
	if !ok {
		return false, nil
	}
	o.Status = models.OrderStatusRefunded
	s.orders[sessionID] = o
	return true, nil
}

type fakeMedia struct {
	fileName    string
	contentType string
	body        []byte
}

func (m *fakeMedia) UploadObject(_ context.Context, fileName, contentType string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.fileName, m.contentType, m.body = fileName, contentType, data
	return "https://cdn.example/campaign-photos/uploads/1-abc.jpg", nil
}

type testEnv struct {
	store  *fakeStore
	stripe *xstripe.MockClient
	media  *fakeMedia
	cfg    *config.Config
	router http.Handler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Env:         "test",
		DatabaseURL: "postgres://svc:pw@db.internal:5432/kinddraw",
		JWTSecret:   "jwt-test-secret",
		Stripe: config.StripeConfig{
			SecretKey:     "sk_test_123",
			WebhookSecret: testWebhookSecret,
			Currency:      "usd",
			ProductName:   "KindDraw",
		},
	}
}

// newTestEnv wires a router over in-memory fakes. A nil stripe mock leaves the
// payment service without a provider.
func newTestEnv(t *testing.T, cfg *config.Config, mock *xstripe.MockClient) *testEnv {
	t.Helper()
	store := newFakeStore()
	media := &fakeMedia{}

	var provider payments.Provider
	if mock != nil {
		provider = mock
	}
	svc := payments.NewService(provider, store, payments.Config{
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
		ProductName:   cfg.Stripe.ProductName,
	}, discardLogger())

	h := New(store, svc, media, cfg, discardLogger())
	r := chi.NewRouter()
	h.Mount(r, Limits{})
	return &testEnv{store: store, stripe: mock, media: media, cfg: cfg, router: r}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func signedWebhook(payload []byte, secret string) *http.Request {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig)))
	return req
}
