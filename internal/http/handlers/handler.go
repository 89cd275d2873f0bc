package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/shaneclick1-cyber/Kinddraw/internal/config"
	authmw "github.com/shaneclick1-cyber/Kinddraw/internal/http/middleware"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
	"github.com/shaneclick1-cyber/Kinddraw/internal/payments"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Store is the persistence the HTTP layer reads and writes directly. The
// payment path writes the ledger through payments.Service instead.
type Store interface {
	Ping(ctx context.Context) error
	CreateLead(ctx context.Context, c models.Campaign) (models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (models.Campaign, error)
	CampaignTotals(ctx context.Context, campaignID string) (models.Totals, error)
	ListComments(ctx context.Context, campaignID string, limit int) ([]models.Comment, error)
	AddComment(ctx context.Context, c models.Comment) (models.Comment, error)
	UpsertOrder(ctx context.Context, o models.Order) (models.Order, error)
}

// MediaStore uploads campaign photos and returns their public URL.
type MediaStore interface {
	UploadObject(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error)
}

type Handler struct {
	store     Store
	payments  *payments.Service
	media     MediaStore
	cfg       *config.Config
	logger    *slog.Logger
	validator *validator.Validate
	now       func() time.Time
}

// New builds the handler set. media may be nil when object storage is not
// configured; uploads then fail with 500.
func New(store Store, paymentService *payments.Service, media MediaStore, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &Handler{
		store:     store,
		payments:  paymentService,
		media:     media,
		cfg:       cfg,
		logger:    logger,
		validator: v,
		now:       time.Now,
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (h *Handler) loggerForRequest(r *http.Request) *slog.Logger {
	logger := h.logger
	if logger == nil {
		return slog.Default()
	}
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if authmw.IsAdminFromContext(r.Context()) {
		logger = logger.With("admin", true)
	}
	return logger
}

// requestOrigin is the scheme and host the caller reached us on, honouring
// the proxy headers set by the hosting platform.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstHeaderValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(proto)
	}
	host := r.Host
	if fwd := firstHeaderValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}

func firstHeaderValue(val string) string {
	if idx := strings.Index(val, ","); idx >= 0 {
		val = val[:idx]
	}
	return strings.TrimSpace(val)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
