package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	authmw "github.com/shaneclick1-cyber/Kinddraw/internal/http/middleware"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxLeadBody = 1 << 20

// leadRequest is the campaign submission form. Numeric fields are pointers so
// that an explicit zero passes the required check.
type leadRequest struct {
	FullName        string        `json:"full_name" validate:"required"`
	Email           string        `json:"email" validate:"required"`
	CampaignName    string        `json:"campaign_name" validate:"required"`
	Beneficiary     string        `json:"beneficiary" validate:"required"`
	WinnerSharePct  *json.Number  `json:"winner_share_pct" validate:"required"`
	PricePerEntry   *json.Number  `json:"price_per_entry" validate:"required"`
	EntryCapTotal   *json.Number  `json:"entry_cap_total" validate:"required"`
	AMOEAddress     string        `json:"amoe_address" validate:"required"`
	Phone           string        `json:"phone"`
	Purpose         string        `json:"purpose"`
	GoalUSD         *json.Number  `json:"goal_usd"`
	StartET         string        `json:"start_et"`
	EndET           string        `json:"end_et"`
	StateExclusions string        `json:"state_exclusions"`
	PacksDisplayed  []models.Pack `json:"packs_displayed"`
	AMOEPacing      string        `json:"amoe_pacing"`
	StoryShort      string        `json:"story_short"`
	PhotoURL        string        `json:"photo_url"`
	Source          string        `json:"source"`
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxLeadBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	var req leadRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Warn("action", "action", "create_lead", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.CampaignName = strings.TrimSpace(req.CampaignName)
	req.Beneficiary = strings.TrimSpace(req.Beneficiary)
	req.AMOEAddress = strings.TrimSpace(req.AMOEAddress)

	if err := h.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			logger.Warn("action", "action", "create_lead", "status", "missing_field", "field", verrs[0].Field())
			writeError(w, http.StatusBadRequest, "Missing field: "+verrs[0].Field())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if r.URL.Query().Get("dry") == "1" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":   true,
			"mode": "dry",
			"echo": json.RawMessage(raw),
		})
		return
	}

	lead, err := req.toCampaign()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lead.UserAgent = r.UserAgent()
	lead.IP = authmw.ClientIP(r)

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	created, err := h.store.CreateLead(ctx, lead)
	if err != nil {
		logger.Error("action", "action", "create_lead", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	logger.Info("action", "action", "create_lead", "status", "created", "campaign_id", created.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": created.ID})
}

// LeadsHealth reports whether the lead store is configured and, with ?ping=1,
// reachable.
func (h *Handler) LeadsHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("ping") == "1" {
		ctx, cancel := h.withTimeout(r.Context())
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.loggerForRequest(r).Error("action", "action", "leads_ping", "status", "db_error", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"ok": false, "stage": "ping", "error": "database unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "stage": "ping"})
		return
	}

	missing := make([]string, 0)
	var host string
	if h.cfg == nil || h.cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	} else if u, err := url.Parse(h.cfg.DatabaseURL); err == nil {
		host = u.Host
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"env_ok":  len(missing) == 0,
		"missing": missing,
		"host":    host,
	})
}

func (req leadRequest) toCampaign() (models.Campaign, error) {
	share, err := req.WinnerSharePct.Float64()
	if err != nil {
		return models.Campaign{}, errors.New("winner_share_pct must be a number")
	}
	price, err := req.PricePerEntry.Float64()
	if err != nil {
		return models.Campaign{}, errors.New("price_per_entry must be a number")
	}
	capTotal, err := req.EntryCapTotal.Float64()
	if err != nil {
		return models.Campaign{}, errors.New("entry_cap_total must be a number")
	}

	c := models.Campaign{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           strings.TrimSpace(req.Phone),
		Purpose:         strings.TrimSpace(req.Purpose),
		CampaignName:    req.CampaignName,
		Beneficiary:     req.Beneficiary,
		StartET:         strings.TrimSpace(req.StartET),
		EndET:           strings.TrimSpace(req.EndET),
		StateExclusions: strings.TrimSpace(req.StateExclusions),
		WinnerSharePct:  share,
		PricePerEntry:   price,
		PacksDisplayed:  req.PacksDisplayed,
		EntryCapTotal:   int(capTotal),
		AMOEAddress:     req.AMOEAddress,
		AMOEPacing:      strings.TrimSpace(req.AMOEPacing),
		StoryShort:      strings.TrimSpace(req.StoryShort),
		PhotoURL:        strings.TrimSpace(req.PhotoURL),
		Source:          strings.TrimSpace(req.Source),
	}
	if req.GoalUSD != nil && req.GoalUSD.String() != "" {
		goal, err := req.GoalUSD.Float64()
		if err != nil {
			return models.Campaign{}, errors.New("goal_usd must be a number")
		}
		c.GoalUSD = &goal
	}
	return c, nil
}
