package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/source"
)

type stubProvider struct {
	name  string
	recs  []model.BusinessRecord
	err   error
	delay time.Duration
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context, _ model.SearchQuery, limit int) ([]model.BusinessRecord, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	if len(p.recs) > limit {
		return p.recs[:limit], nil
	}
	return p.recs, nil
}

type analyzeFunc func(ctx context.Context, url string) model.WebsiteAnalysis

func (f analyzeFunc) Analyze(ctx context.Context, url string) model.WebsiteAnalysis {
	return f(ctx, url)
}

var goodAnalysis = model.WebsiteAnalysis{
	Status: model.StatusGoodQuality,
	Score:  100,
	Issues: []string{"No major issues detected"},
}

func fixedAnalyzer(a model.WebsiteAnalysis) Analyzer {
	return analyzeFunc(func(context.Context, string) model.WebsiteAnalysis { return a })
}

func rec(name, phone string) model.BusinessRecord {
	return model.BusinessRecord{BusinessName: name, Phone: phone}
}

func query(count int) model.SearchQuery {
	return model.SearchQuery{
		City:      "Portland",
		Country:   "USA",
		Category:  "Plumber",
		LeadCount: count,
	}
}

func registryOf(providers ...source.Provider) *source.Registry {
	r := source.NewRegistry()
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// fastOpts keeps test runtime low.
var fastOpts = Options{Deadline: 5 * time.Second, RecordDelay: time.Millisecond}

func collect(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	deadline := time.After(10 * time.Second)
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, evt)
		case <-deadline:
			t.Fatal("timed out draining event stream")
		}
	}
}

func resultsOf(events []Event) []model.Lead {
	var leads []model.Lead
	for _, e := range events {
		if e.Type == EventResult {
			leads = append(leads, *e.Lead)
		}
	}
	return leads
}

func terminalsOf(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if e.Terminal() {
			out = append(out, e)
		}
	}
	return out
}

func TestRun_HappyPath(t *testing.T) {
	reg := registryOf(
		&stubProvider{name: "a", recs: []model.BusinessRecord{
			rec("Alpha Plumbing", "1"), rec("Beta Plumbing", "2"),
		}},
		&stubProvider{name: "b", recs: []model.BusinessRecord{
			rec("ALPHA PLUMBING", "1"), // duplicate of a's first record
			rec("Gamma Plumbing", "3"),
		}},
	)
	o := New(reg, fixedAnalyzer(goodAnalysis), fastOpts)

	events := collect(t, o.Run(context.Background(), query(10)))

	terminals := terminalsOf(events)
	require.Len(t, terminals, 1, "exactly one terminal event")
	assert.Equal(t, EventComplete, terminals[0].Type)
	assert.Equal(t, terminals[0], events[len(events)-1], "terminal event must be last")

	leads := resultsOf(events)
	require.Len(t, leads, 3, "duplicate must be dropped")
	assert.Equal(t, "Alpha Plumbing", leads[0].BusinessName)
	assert.Equal(t, "Beta Plumbing", leads[1].BusinessName)
	assert.Equal(t, "Gamma Plumbing", leads[2].BusinessName)
	for _, lead := range leads {
		assert.Equal(t, goodAnalysis, lead.Analysis)
		assert.NotEmpty(t, lead.Analysis.Issues)
	}
}

func TestRun_TruncatesToRequestedCount(t *testing.T) {
	var recs []model.BusinessRecord
	for i := 0; i < 10; i++ {
		recs = append(recs, rec(fmt.Sprintf("Biz %d", i), fmt.Sprintf("%d", i)))
	}
	o := New(registryOf(&stubProvider{name: "a", recs: recs}), fixedAnalyzer(goodAnalysis), fastOpts)

	events := collect(t, o.Run(context.Background(), query(3)))
	assert.Len(t, resultsOf(events), 3)
	assert.Equal(t, EventComplete, events[len(events)-1].Type)
}

func TestRun_EmptyProvidersComplete(t *testing.T) {
	reg := registryOf(
		&stubProvider{name: "a"},
		&stubProvider{name: "b"},
	)
	o := New(reg, fixedAnalyzer(goodAnalysis), fastOpts)

	events := collect(t, o.Run(context.Background(), query(5)))

	assert.Empty(t, resultsOf(events))
	require.NotEmpty(t, events)
	assert.Equal(t, EventComplete, events[len(events)-1].Type, "zero records is a success, not an error")
}

func TestRun_ProviderFailureIsIsolated(t *testing.T) {
	reg := registryOf(
		&stubProvider{name: "broken", err: fmt.Errorf("upstream 503")},
		&stubProvider{name: "ok", recs: []model.BusinessRecord{rec("Solo Biz", "9")}},
	)
	o := New(reg, fixedAnalyzer(goodAnalysis), fastOpts)

	events := collect(t, o.Run(context.Background(), query(5)))

	leads := resultsOf(events)
	require.Len(t, leads, 1)
	assert.Equal(t, "Solo Biz", leads[0].BusinessName)
	assert.Equal(t, EventComplete, events[len(events)-1].Type,
		"a failing provider must not fail the search")
}

func TestRun_AnalyzerFailureSettlesOneRecord(t *testing.T) {
	timeoutAnalysis := model.WebsiteAnalysis{
		Status: model.StatusLowQuality,
		Score:  15,
		Issues: []string{"Unable to analyze website", "context deadline exceeded"},
	}
	a := analyzeFunc(func(_ context.Context, url string) model.WebsiteAnalysis {
		if url == "https://slow.example.com" {
			return timeoutAnalysis
		}
		return goodAnalysis
	})

	reg := registryOf(&stubProvider{name: "a", recs: []model.BusinessRecord{
		{BusinessName: "First", Phone: "1", Website: "https://first.example.com"},
		{BusinessName: "Slow", Phone: "2", Website: "https://slow.example.com"},
		{BusinessName: "Third", Phone: "3", Website: "https://third.example.com"},
	}})
	o := New(reg, a, fastOpts)

	events := collect(t, o.Run(context.Background(), query(5)))

	leads := resultsOf(events)
	require.Len(t, leads, 3, "a timed-out analysis must not stop later candidates")
	assert.Equal(t, timeoutAnalysis, leads[1].Analysis)
	assert.Equal(t, goodAnalysis, leads[2].Analysis)
	assert.Equal(t, EventComplete, events[len(events)-1].Type)
}

func TestRun_DeadlineProducesErrorEvent(t *testing.T) {
	reg := registryOf(&stubProvider{name: "slow", delay: time.Second})
	o := New(reg, fixedAnalyzer(goodAnalysis), Options{
		Deadline:    50 * time.Millisecond,
		RecordDelay: time.Millisecond,
	})

	events := collect(t, o.Run(context.Background(), query(5)))

	terminals := terminalsOf(events)
	require.Len(t, terminals, 1)
	assert.Equal(t, EventError, terminals[0].Type)
	assert.Contains(t, terminals[0].Message, "deadline")
}

func TestRun_InvalidQuery(t *testing.T) {
	o := New(registryOf(&stubProvider{name: "a"}), fixedAnalyzer(goodAnalysis), fastOpts)

	events := collect(t, o.Run(context.Background(), model.SearchQuery{}))

	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Type)
}

func TestRun_ConsumerCancellationClosesStream(t *testing.T) {
	var recs []model.BusinessRecord
	for i := 0; i < 20; i++ {
		recs = append(recs, rec(fmt.Sprintf("Biz %d", i), fmt.Sprintf("%d", i)))
	}
	slow := analyzeFunc(func(ctx context.Context, _ string) model.WebsiteAnalysis {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
		}
		return goodAnalysis
	})
	o := New(registryOf(&stubProvider{name: "a", recs: recs}), slow, fastOpts)

	ctx, cancel := context.WithCancel(context.Background())
	ch := o.Run(ctx, query(20))

	// Read a couple of events then walk away.
	<-ch
	<-ch
	cancel()

	select {
	case _, ok := <-ch:
		_ = ok // drained or closed, both fine
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not react to cancellation")
	}
	// The channel must close without the consumer draining everything.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream never closed after cancellation")
		}
	}
}
