package handlers

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shaneclick1-cyber/Kinddraw/internal/campaign"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func TestGetCampaign(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	goal := 200.0
	env.store.campaigns["lead-1"] = models.Campaign{ID: "lead-1", CampaignName: "Roof Fund", GoalUSD: &goal}
	env.store.orders["cs_1"] = models.Order{StripeSessionID: "cs_1", CampaignID: "lead-1", Entries: 130, AmountCents: 10000, Status: models.OrderStatusPaid}
	env.store.orders["cs_2"] = models.Order{StripeSessionID: "cs_2", CampaignID: "lead-1", Entries: 10, AmountCents: 1000, Status: models.OrderStatusRefunded}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/campaigns/lead-1", nil))
	must.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view campaign.View
	must.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	should.Equal(t, "Roof Fund", view.Campaign.CampaignName)
	should.Equal(t, models.Totals{Entries: 130, AmountCents: 10000}, view.Totals)
	should.Equal(t, campaign.DefaultPacks(), view.Packs)
	should.Equal(t, float64(campaign.DefaultWinnerSharePct), view.WinnerSharePct)
	should.Equal(t, int64(5000), view.EstPrizeCents)
	should.Equal(t, 50, view.ProgressPct)
}

func TestGetCampaignNotFound(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/campaigns/missing", nil))
	should.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCampaignTotalsForUnknownCampaign(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	should.Equal(t, models.Totals{}, totalsFor(t, env, "never-sold"))
}

func TestCampaignQR(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/campaigns/abc123/qr.png?size=128", nil))
	must.Equal(t, http.StatusOK, rec.Code)
	should.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	must.NoError(t, err)
	should.Equal(t, 128, img.Bounds().Dx())
}
