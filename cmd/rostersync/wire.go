package main

import (
	"context"
	"fmt"
	"log/slog"

	"rostersync/internal/directory"
	"rostersync/internal/directory/cache"
	"rostersync/internal/ledger"
	"rostersync/internal/pipeline"
	"rostersync/internal/platform/config"
	"rostersync/internal/platform/metrics"
	platformredis "rostersync/internal/platform/redis"
)

// buildPipeline assembles the pipeline from configuration: file or postgres
// ledgers, redis or in-memory lookup cache, and the platform client. The
// returned cleanup closes whatever connections were opened.
func buildPipeline(ctx context.Context, cfg config.Config, log *slog.Logger, m *metrics.Metrics) (*pipeline.Pipeline, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var notFound, created ledger.Store
	if cfg.LedgerDSN != "" {
		db, err := ledger.Open(ctx, cfg.LedgerDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("ledger database: %w", err)
		}
		cleanups = append(cleanups, func() { _ = db.Close() })
		notFound = ledger.NewPostgresStore(db, "cpfs_not_found")
		created = ledger.NewPostgresStore(db, "created_users")
	} else {
		notFound = ledger.NewFileStore(cfg.NotFoundFile, log)
		created = ledger.NewFileStore(cfg.CreatedFile, log)
	}

	var lookupCache cache.Cache = cache.NewMemoryCache(cfg.CacheTTL)
	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.WarnContext(ctx, "redis unavailable, using in-memory lookup cache", "error", err)
	} else if rdb != nil {
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		lookupCache = cache.NewRedisCache(rdb.Client, cfg.CacheTTL)
	}

	p := pipeline.New(pipeline.Config{
		Directory:   directory.NewClient(cfg.ChatAPIURL, cfg.ChatAPIToken, cfg.HTTPTimeout, log),
		Cache:       lookupCache,
		NotFound:    notFound,
		Created:     created,
		Metrics:     m,
		Logger:      log,
		Concurrency: cfg.Concurrency,
		Pace:        cfg.Pace,
	})
	return p, cleanup, nil
}

// report logs the run outcome, pushes metrics when a gateway is configured
// and converts partial failure into a non-zero exit. The original job always
// exited zero; surfacing failed records in the exit status is a deliberate
// improvement.
func report(ctx context.Context, cfg config.Config, log *slog.Logger, m *metrics.Metrics, job string, summary pipeline.Summary) error {
	log.InfoContext(ctx, "run complete",
		"flow", job,
		"processed", summary.Processed,
		"tagged", summary.Tagged,
		"not_found", summary.NotFound,
		"created", summary.Created,
		"failed", summary.Failed,
	)

	if err := m.Push(cfg.PushgatewayURL, job); err != nil {
		log.WarnContext(ctx, "metrics push failed", "error", err)
	}

	if !summary.OK() {
		return fmt.Errorf("%d of %d records failed", summary.Failed, summary.Processed)
	}
	return nil
}
