package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rostersync/internal/pipeline"
	"rostersync/internal/platform/config"
	"rostersync/internal/platform/logger"
	"rostersync/internal/platform/metrics"
)

var onboardCSV string

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create and tag subscribers from a CSV file",
	Long: `Reads contacts from a CSV file (columns Nome, Telefone, Email, Empresa,
optionally CPF and CRM) and creates a subscriber for each, records the
creation in the created-users ledger, tags the subscriber with the contact's
company and, when a CPF is present, sets the identity custom fields.

Records are processed one at a time with a fixed delay between them to
respect the platform's rate limits.`,
	RunE: runOnboard,
}

func init() {
	onboardCmd.Flags().StringVar(&onboardCSV, "csv", "", "path to the contacts CSV file")
	_ = onboardCmd.MarkFlagRequired("csv")
}

func runOnboard(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	if err := cfg.RequireChat(); err != nil {
		return err
	}

	contacts, err := pipeline.ReadContacts(onboardCSV)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "contacts loaded", "path", onboardCSV, "count", len(contacts))

	m := metrics.New()
	p, cleanup, err := buildPipeline(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer cleanup()

	summary := p.Onboard(ctx, contacts)
	return report(ctx, cfg, log, m, "rostersync_onboard", summary)
}
