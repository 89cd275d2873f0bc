package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

const validLead = `{
  "full_name": "Dana Organizer",
  "email": "dana@example.com",
  "campaign_name": "Roof Fund",
  "beneficiary": "Broadway Fire Co.",
  "goal_usd": "5000",
  "winner_share_pct": 0,
  "price_per_entry": "1",
  "entry_cap_total": 700,
  "amoe_address": "KindDraw\n384 Dorset Street",
  "packs_displayed": [{"price": 10, "entries": 10}]
}`

func TestCreateLead(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	req := jsonRequest(http.MethodPost, "/api/leads", validLead)
	req.Header.Set("User-Agent", "lead-test/1.0")
	rec := env.do(req)

	must.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]interface{}
	must.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	should.Equal(t, true, body["ok"])
	should.NotEmpty(t, body["id"])

	must.Len(t, env.store.leads, 1)
	lead := env.store.leads[0]
	should.Equal(t, "Roof Fund", lead.CampaignName)
	should.Equal(t, float64(0), lead.WinnerSharePct)
	should.Equal(t, float64(1), lead.PricePerEntry)
	should.Equal(t, 700, lead.EntryCapTotal)
	must.NotNil(t, lead.GoalUSD)
	should.Equal(t, float64(5000), *lead.GoalUSD)
	should.Len(t, lead.PacksDisplayed, 1)
	should.Equal(t, "lead-test/1.0", lead.UserAgent)
	should.Equal(t, "192.0.2.1", lead.IP)
}

func TestCreateLeadMissingField(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	rec := env.do(jsonRequest(http.MethodPost, "/api/leads", `{"full_name":"Dana","email":"dana@example.com","campaign_name":"Roof","beneficiary":"Fire Co.","winner_share_pct":50,"price_per_entry":1,"amoe_address":"x"}`))
	should.Equal(t, http.StatusBadRequest, rec.Code)
	should.JSONEq(t, `{"error":"Missing field: entry_cap_total"}`, rec.Body.String())

	rec = env.do(jsonRequest(http.MethodPost, "/api/leads", `{"full_name":"  ","email":"dana@example.com"}`))
	should.Equal(t, http.StatusBadRequest, rec.Code)
	should.JSONEq(t, `{"error":"Missing field: full_name"}`, rec.Body.String())
	should.Empty(t, env.store.leads)
}

func TestCreateLeadDryRun(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	rec := env.do(jsonRequest(http.MethodPost, "/api/leads?dry=1", validLead))
	must.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		OK   bool                   `json:"ok"`
		Mode string                 `json:"mode"`
		Echo map[string]interface{} `json:"echo"`
	}
	must.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	should.True(t, body.OK)
	should.Equal(t, "dry", body.Mode)
	should.Equal(t, "Roof Fund", body.Echo["campaign_name"])
	should.Empty(t, env.store.leads)
}

func TestLeadsHealth(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/leads", nil))
	must.Equal(t, http.StatusOK, rec.Code)
	should.JSONEq(t, `{"ok":true,"env_ok":true,"missing":[],"host":"db.internal:5432"}`, rec.Body.String())
	should.NotContains(t, rec.Body.String(), "pw")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/leads?ping=1", nil))
	should.JSONEq(t, `{"ok":true,"stage":"ping"}`, rec.Body.String())

	env.store.pingErr = errors.New("connection refused")
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/leads?ping=1", nil))
	should.Equal(t, http.StatusInternalServerError, rec.Code)
}
