// Package pipeline orchestrates one lead search: concurrent source
// fan-out, dedup, sequential website analysis, and event emission.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscout/internal/dedupe"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/source"
)

// Analyzer scores one candidate website. Failures are folded into the
// returned analysis, never propagated.
type Analyzer interface {
	Analyze(ctx context.Context, url string) model.WebsiteAnalysis
}

// Options tune a single orchestrator. Zero values fall back to defaults.
type Options struct {
	// Deadline bounds the whole search; exceeding it terminates the
	// stream with an error event rather than silently truncating.
	Deadline time.Duration
	// RecordDelay is the pause after each emitted lead, a politeness
	// measure toward consumers and live targets.
	RecordDelay time.Duration
}

const (
	defaultDeadline    = 5 * time.Minute
	defaultRecordDelay = 100 * time.Millisecond
)

// Orchestrator drives searches end to end and owns the partial-failure
// policy: provider errors shrink the candidate set, analyzer errors
// settle single records, and only orchestration-level failures abort the
// stream.
type Orchestrator struct {
	registry *source.Registry
	analyzer Analyzer
	opts     Options
}

// New creates an Orchestrator over the given provider roster and analyzer.
func New(registry *source.Registry, analyzer Analyzer, opts Options) *Orchestrator {
	if opts.Deadline <= 0 {
		opts.Deadline = defaultDeadline
	}
	if opts.RecordDelay <= 0 {
		opts.RecordDelay = defaultRecordDelay
	}
	return &Orchestrator{
		registry: registry,
		analyzer: analyzer,
		opts:     opts,
	}
}

// Run starts one search and returns its event stream. The channel closes
// after exactly one terminal event. Cancelling ctx stops the search; the
// caller must drain the channel until it closes.
func (o *Orchestrator) Run(ctx context.Context, query model.SearchQuery) <-chan Event {
	events := make(chan Event, 16)
	go o.run(ctx, query, events)
	return events
}

func (o *Orchestrator) run(ctx context.Context, query model.SearchQuery, events chan<- Event) {
	defer close(events)

	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	// emit aborts when the consumer's context ends, so a disconnected
	// consumer never wedges the pipeline.
	emit := func(evt Event) bool {
		select {
		case events <- evt:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if err := query.Validate(); err != nil {
		emit(Event{Type: EventError, Message: err.Error()})
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, o.opts.Deadline)
	defer cancel()

	// fail sends the terminal error event. Uses the parent ctx so a
	// deadline-driven failure can still reach a connected consumer.
	fail := func(msg string) {
		log.Warn("pipeline: search failed", zap.String("reason", msg))
		emit(Event{Type: EventError, Message: msg})
	}

	roster := o.registry.Roster()
	if len(roster) == 0 {
		fail("no source providers configured")
		return
	}
	perProvider := source.PerProviderLimit(query.LeadCount, len(roster))

	if !emit(Event{Type: EventProgress, Message: fmt.Sprintf(
		"Searching %d sources for %s in %s...", len(roster), query.Category, query.Location())}) {
		return
	}

	log.Info("pipeline: search started",
		zap.String("category", query.Category),
		zap.String("location", query.Location()),
		zap.Int("lead_count", query.LeadCount),
		zap.Int("per_provider_limit", perProvider),
	)

	// Fan out to every provider. Results land in fixed slots so the
	// concatenation order matches the declared roster order regardless
	// of completion order. A failing provider contributes an empty slot.
	results := make([][]model.BusinessRecord, len(roster))
	g, gctx := errgroup.WithContext(runCtx)
	for i, p := range roster {
		g.Go(func() error {
			recs, err := p.Fetch(gctx, query, perProvider)
			if err != nil {
				log.Warn("pipeline: provider failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
				emit(Event{Type: EventProgress, Message: fmt.Sprintf(
					"Source %s unavailable, continuing without it", p.Name())})
				return nil
			}
			results[i] = recs
			emit(Event{Type: EventProgress, Message: fmt.Sprintf(
				"Source %s returned %d businesses", p.Name(), len(recs))})
			return nil
		})
	}
	_ = g.Wait()

	if runCtx.Err() != nil {
		fail("search deadline exceeded while querying sources")
		return
	}

	var combined []model.BusinessRecord
	for _, recs := range results {
		combined = append(combined, recs...)
	}

	candidates := dedupe.Dedupe(combined)
	if len(candidates) > query.LeadCount {
		candidates = candidates[:query.LeadCount]
	}

	if !emit(Event{Type: EventProgress, Message: fmt.Sprintf(
		"Found %d unique businesses, analyzing websites...", len(candidates))}) {
		return
	}

	// Analysis is strictly sequential so the stream reflects true
	// completion order and no third-party site sees parallel requests
	// from one search.
	emitted := 0
	for i, rec := range candidates {
		if runCtx.Err() != nil {
			fail(fmt.Sprintf("search deadline exceeded after %d of %d leads", emitted, len(candidates)))
			return
		}

		if !emit(Event{Type: EventProgress, Message: fmt.Sprintf(
			"Analyzing website (%d/%d): %s", i+1, len(candidates), rec.BusinessName)}) {
			return
		}

		analysis := o.analyzer.Analyze(runCtx, rec.Website)
		lead := model.Lead{BusinessRecord: rec, Analysis: analysis}
		if !emit(Event{Type: EventResult, Lead: &lead}) {
			return
		}
		emitted++

		select {
		case <-time.After(o.opts.RecordDelay):
		case <-runCtx.Done():
		}
	}

	log.Info("pipeline: search complete",
		zap.Int("leads", emitted),
		zap.Int("candidates", len(combined)),
	)
	emit(Event{Type: EventComplete, Message: fmt.Sprintf(
		"Search complete: %d leads found", emitted)})
}
