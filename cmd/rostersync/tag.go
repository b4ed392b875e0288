package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rostersync/internal/platform/config"
	"rostersync/internal/platform/logger"
	"rostersync/internal/platform/metrics"
	"rostersync/internal/roster"
	"rostersync/internal/schedule"
)

var (
	tagFrom         string
	tagTo           string
	tagFromSnapshot bool
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Reconcile the monthly shift roster against the chat platform",
	Long: `Fetches the shift window from the scheduling source, aggregates it to the
unique professionals working at permitted locations, writes the roster
snapshot, then tags each professional's subscriber with "Onboarding".
Professionals with no subscriber are recorded in the not-found ledger.

With --from-snapshot the fetch is skipped and the existing snapshot is
reconciled as-is, so tagging can be re-run without repeating the expensive
window fetch.`,
	RunE: runTag,
}

func init() {
	tagCmd.Flags().StringVar(&tagFrom, "from", "", "window start date (YYYY-MM-DD, default: first day of current month)")
	tagCmd.Flags().StringVar(&tagTo, "to", "", "window end date (YYYY-MM-DD, default: last day of current month)")
	tagCmd.Flags().BoolVar(&tagFromSnapshot, "from-snapshot", false, "skip the shift fetch and reconcile the existing snapshot")
}

func runTag(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	if err := cfg.RequireChat(); err != nil {
		return err
	}

	var professionals []roster.Professional
	if tagFromSnapshot {
		loaded, err := schedule.ReadSnapshot(ctx, cfg.SnapshotFile, log)
		if err != nil {
			return err
		}
		professionals = loaded
	} else {
		if err := cfg.RequireSchedule(); err != nil {
			return err
		}
		from, to, err := window(tagFrom, tagTo)
		if err != nil {
			return err
		}

		shifts, err := schedule.NewClient(cfg.ScheduleAPIURL, cfg.ScheduleAPIToken, cfg.HTTPTimeout).
			FetchShifts(ctx, from, to)
		if err != nil {
			return err
		}

		professionals = schedule.NewAggregator(cfg.AllowedLocations).Aggregate(shifts)
		if err := schedule.WriteSnapshot(cfg.SnapshotFile, professionals); err != nil {
			return err
		}
		log.InfoContext(ctx, "snapshot written", "path", cfg.SnapshotFile, "professionals", len(professionals))
	}

	m := metrics.New()
	p, cleanup, err := buildPipeline(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer cleanup()

	summary := p.Reconcile(ctx, professionals)
	return report(ctx, cfg, log, m, "rostersync_tag", summary)
}

// window parses the --from/--to pair, defaulting to the current month's
// boundaries when both are omitted.
func window(fromFlag, toFlag string) (time.Time, time.Time, error) {
	if fromFlag == "" && toFlag == "" {
		now := time.Now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return first, last, nil
	}
	if fromFlag == "" || toFlag == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from and --to must be given together")
	}

	from, err := time.Parse("2006-01-02", fromFlag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", toFlag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return from, to, nil
}
