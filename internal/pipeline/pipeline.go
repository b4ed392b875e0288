package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"rostersync/internal/directory"
	"rostersync/internal/directory/cache"
	"rostersync/internal/ledger"
	"rostersync/internal/platform/metrics"
	"rostersync/internal/roster"
	"rostersync/pkg/platform/sentinel"
)

// OnboardingTag is attached to every professional found during shift
// reconciliation.
const OnboardingTag = "Onboarding"

// DirectoryClient is the chat-platform capability surface the pipeline
// needs. Satisfied by *directory.Client.
type DirectoryClient interface {
	FindByCPF(ctx context.Context, cpf string) (json.Number, error)
	CreateSubscriber(ctx context.Context, contact roster.Contact) (directory.Subscriber, json.RawMessage, error)
	AddTag(ctx context.Context, subscriberID json.Number, tag string) error
	SetCustomFields(ctx context.Context, subscriberID json.Number, cpf, company, crm string) error
}

// Config wires the pipeline's collaborators. Cache and Metrics are optional.
type Config struct {
	Directory   DirectoryClient
	Cache       cache.Cache
	NotFound    ledger.Store
	Created     ledger.Store
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Concurrency int
	Pace        time.Duration
}

// Pipeline drives the two synchronization flows. Each record is processed in
// isolation: one record's failure never aborts its siblings, and the batch
// always runs to completion.
type Pipeline struct {
	directory   DirectoryClient
	cache       cache.Cache
	notFound    ledger.Store
	created     ledger.Store
	metrics     *metrics.Metrics
	logger      *slog.Logger
	concurrency int
	pace        time.Duration
}

// New creates a pipeline from cfg.
func New(cfg Config) *Pipeline {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pipeline{
		directory:   cfg.Directory,
		cache:       cfg.Cache,
		notFound:    cfg.NotFound,
		created:     cfg.Created,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		concurrency: concurrency,
		pace:        cfg.Pace,
	}
}

// Summary aggregates per-record outcomes of one flow run. The process exit
// status is derived from Failed.
type Summary struct {
	Processed int
	Tagged    int
	NotFound  int
	Created   int
	Failed    int
}

// OK reports whether every record completed without failure.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Reconcile runs the shift-tag flow: for every professional in the snapshot,
// resolve the subscriber by CPF and tag it, or record the miss in the
// not-found ledger. Lookups fan out concurrently, bounded by the configured
// concurrency; outcomes are unordered across records.
func (p *Pipeline) Reconcile(ctx context.Context, professionals []roster.Professional) Summary {
	var tagged, notFound, failed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for _, prof := range professionals {
		g.Go(func() error {
			switch outcome := p.reconcileOne(ctx, prof); outcome {
			case outcomeTagged:
				tagged.Add(1)
			case outcomeNotFound:
				notFound.Add(1)
			case outcomeFailed:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Summary{
		Processed: len(professionals),
		Tagged:    int(tagged.Load()),
		NotFound:  int(notFound.Load()),
		Failed:    int(failed.Load()),
	}
}

type outcome int

const (
	outcomeTagged outcome = iota
	outcomeNotFound
	outcomeFailed
)

func (p *Pipeline) reconcileOne(ctx context.Context, prof roster.Professional) outcome {
	subscriberID, err := p.lookup(ctx, prof.CPF)
	if errors.Is(err, sentinel.ErrNotFound) {
		p.logger.InfoContext(ctx, "subscriber not found", "name", prof.Name, "cpf", prof.CPF)
		if err := p.notFound.Append(ctx, prof.CPF); err != nil {
			p.logger.ErrorContext(ctx, "not-found ledger append failed", "cpf", prof.CPF, "error", err)
			return outcomeFailed
		}
		if p.metrics != nil {
			p.metrics.NotFound.Inc()
		}
		return outcomeNotFound
	}
	if err != nil {
		p.logger.ErrorContext(ctx, "subscriber lookup failed", "name", prof.Name, "cpf", prof.CPF, "error", err)
		if p.metrics != nil {
			p.metrics.Failures.WithLabelValues("reconcile").Inc()
		}
		return outcomeFailed
	}

	if err := p.directory.AddTag(ctx, subscriberID, OnboardingTag); err != nil {
		p.logger.ErrorContext(ctx, "tagging failed", "name", prof.Name, "subscriber_id", subscriberID, "error", err)
		if p.metrics != nil {
			p.metrics.Failures.WithLabelValues("reconcile").Inc()
		}
		return outcomeFailed
	}
	if p.metrics != nil {
		p.metrics.Tagged.Inc()
	}
	return outcomeTagged
}

// lookup resolves a CPF to a subscriber ID, consulting the cache first.
// Cache failures degrade to an uncached remote lookup.
func (p *Pipeline) lookup(ctx context.Context, cpf string) (json.Number, error) {
	if p.cache != nil {
		id, err := p.cache.Find(ctx, cpf)
		if err == nil {
			if p.metrics != nil {
				p.metrics.CacheHits.Inc()
			}
			return json.Number(id), nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			p.logger.WarnContext(ctx, "lookup cache unavailable", "error", err)
		}
	}

	if p.metrics != nil {
		p.metrics.Lookups.Inc()
	}
	subscriberID, err := p.directory.FindByCPF(ctx, cpf)
	if err != nil {
		return "", err
	}

	if p.cache != nil {
		if err := p.cache.Save(ctx, cpf, subscriberID.String()); err != nil {
			p.logger.WarnContext(ctx, "lookup cache save failed", "error", err)
		}
	}
	return subscriberID, nil
}

// Onboard runs the CSV flow: create each contact's subscriber, ledger the
// creation payload, tag with the contact's company and set the identity
// custom fields. Records are processed strictly in input order with a fixed
// pace between them to respect the platform's rate limits.
func (p *Pipeline) Onboard(ctx context.Context, contacts []roster.Contact) Summary {
	summary := Summary{Processed: len(contacts)}

	for i, contact := range contacts {
		if i > 0 && !p.sleep(ctx) {
			p.logger.WarnContext(ctx, "onboarding interrupted", "remaining", len(contacts)-i)
			summary.Failed += len(contacts) - i
			break
		}
		p.onboardOne(ctx, contact, &summary)
	}
	return summary
}

func (p *Pipeline) onboardOne(ctx context.Context, contact roster.Contact, summary *Summary) {
	recordFailed := false
	fail := func() {
		if !recordFailed {
			recordFailed = true
			summary.Failed++
			if p.metrics != nil {
				p.metrics.Failures.WithLabelValues("onboard").Inc()
			}
		}
	}

	sub, raw, err := p.directory.CreateSubscriber(ctx, contact)
	if err != nil {
		p.logger.ErrorContext(ctx, "subscriber creation failed", "name", contact.Name, "error", err)
		fail()
		return
	}
	p.logger.InfoContext(ctx, "subscriber created", "name", contact.Name, "subscriber_id", sub.ID)
	summary.Created++
	if p.metrics != nil {
		p.metrics.Created.Inc()
	}

	if err := p.created.Append(ctx, json.RawMessage(raw)); err != nil {
		p.logger.ErrorContext(ctx, "created ledger append failed", "name", contact.Name, "error", err)
		fail()
	}

	if err := p.directory.AddTag(ctx, sub.ID, contact.Company); err != nil {
		p.logger.ErrorContext(ctx, "tagging failed", "name", contact.Name, "tag", contact.Company, "error", err)
		fail()
	} else {
		summary.Tagged++
	}

	if contact.CPF != "" {
		cpf := roster.FormatCPF(contact.CPF)
		if err := p.directory.SetCustomFields(ctx, sub.ID, cpf, contact.Company, contact.CRM); err != nil {
			p.logger.ErrorContext(ctx, "custom field update failed", "name", contact.Name, "error", err)
			fail()
		}
		if p.cache != nil {
			if err := p.cache.Save(ctx, cpf, sub.ID.String()); err != nil {
				p.logger.WarnContext(ctx, "lookup cache save failed", "error", err)
			}
		}
	}
}

// sleep waits one pace interval, returning false if the context ended first.
func (p *Pipeline) sleep(ctx context.Context) bool {
	if p.pace <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(p.pace):
		return true
	}
}
