package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shaneclick1-cyber/Kinddraw/internal/config"
	"github.com/shaneclick1-cyber/Kinddraw/internal/db"
	"github.com/shaneclick1-cyber/Kinddraw/internal/integrations/xstripe"
	"github.com/shaneclick1-cyber/Kinddraw/internal/logging"
	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
	"github.com/shaneclick1-cyber/Kinddraw/internal/payments"
	"github.com/shaneclick1-cyber/Kinddraw/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	cleanup logging.Cleanup
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger, cleanup, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return &env{cfg: cfg, logger: logger.With("service", "kinddrawctl"), cleanup: cleanup}, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.cleanup() }()

			if err := db.Migrate(e.cfg.DatabaseURL, e.logger); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func totalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals <campaign-id>",
		Short: "Print confirmed entries and amount for a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.cleanup() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			pool, err := db.NewPool(ctx, e.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			defer pool.Close()

			totals, err := repository.New(pool).CampaignTotals(ctx, args[0])
			if err != nil {
				return fmt.Errorf("totals: %w", err)
			}
			writeTotals(cmd.OutOrStdout(), args[0], totals)
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <session-id>...",
		Short: "Fetch Checkout sessions from Stripe and record the paid ones",
		Long: `Replays Checkout sessions through the same reconciler the webhook uses.
Use it when webhook deliveries were missed; recording a session twice is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.cleanup() }()

			provider := xstripe.New(e.cfg.Stripe.SecretKey)
			if provider == nil {
				return fmt.Errorf("STRIPE_SECRET_KEY is not set")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			pool, err := db.NewPool(ctx, e.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			defer pool.Close()

			svc := payments.NewService(provider, repository.New(pool), payments.Config{
				Currency:    e.cfg.Stripe.Currency,
				ProductName: e.cfg.Stripe.ProductName,
			}, e.logger)

			failed := 0
			for _, sessionID := range args {
				res, err := svc.ReconcileSession(ctx, sessionID)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s\terror\t%v\n", sessionID, err)
					continue
				}
				if res.Err != nil {
					failed++
				}
				writeResult(cmd.OutOrStdout(), res)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sessions not recorded", failed, len(args))
			}
			return nil
		},
	}
}

func writeTotals(w io.Writer, campaignID string, totals models.Totals) {
	amount := decimal.New(totals.AmountCents, -2).StringFixed(2)
	fmt.Fprintf(w, "campaign\t%s\nentries\t%d\namount\t%s\n", campaignID, totals.Entries, amount)
}

func writeResult(w io.Writer, res payments.Result) {
	line := fmt.Sprintf("%s\t%s", res.SessionID, res.Outcome)
	if res.Order != nil {
		line += fmt.Sprintf("\tcampaign=%s entries=%d amount_cents=%d", res.Order.CampaignID, res.Order.Entries, res.Order.AmountCents)
	}
	if res.Err != nil {
		line += "\t" + res.Err.Error()
	}
	fmt.Fprintln(w, line)
}
