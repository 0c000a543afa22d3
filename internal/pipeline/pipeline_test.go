package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/parade-odds/internal/domain"
	"github.com/couchcryptid/parade-odds/internal/observability"
	"github.com/couchcryptid/parade-odds/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	mu      sync.Mutex
	batches [][]domain.RawEvent
	errs    []error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	m.mu.Lock()
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		m.mu.Unlock()
		return nil, err
	}
	if len(m.batches) > 0 {
		b := m.batches[0]
		m.batches = m.batches[1:]
		m.mu.Unlock()
		return b, nil
	}
	m.mu.Unlock()
	// block until context cancelled to simulate waiting for messages
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.err != nil {
		return domain.OutputEvent{}, m.err
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu       sync.Mutex
	loaded   []domain.OutputEvent
	failures int
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func (m *mockLoader) snapshot() []domain.OutputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OutputEvent(nil), m.loaded...)
}

type fakeAnalyzer struct {
	err error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if f.err != nil {
		return domain.AnalysisResult{}, f.err
	}
	return domain.AnalysisResult{
		SampleSize:    30,
		Probabilities: map[domain.Condition]float64{domain.VeryHot: req.Thresholds.HotC / 100},
	}, nil
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeRawEvent(t, "req-1")

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), newTestMetrics(), pipeline.Options{BatchSize: 10})

	runFor(t, p, 300*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 1)
	assert.Equal(t, raw.Value, loaded[0].Value)
	assert.True(t, p.Ready())
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), newTestMetrics(), pipeline.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.snapshot())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_MalformedSkippedAndCommitted(t *testing.T) {
	var commits atomic.Int32
	raw := makeRawEvent(t, "req-2")
	raw.Commit = func(context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{err: errors.New("bad json")}, ldr, discardLogger(), newTestMetrics(), pipeline.Options{BatchSize: 10})

	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.snapshot())
	assert.False(t, p.Ready())
	assert.Equal(t, int32(1), commits.Load())
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var order []string
	var mu sync.Mutex
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	raw := makeRawEvent(t, "req-3")
	raw.Topic = "analysis-requests"
	raw.Commit = func(context.Context) error {
		record("commit")
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &orderedLoader{record: record}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), newTestMetrics(), pipeline.Options{BatchSize: 10})

	runFor(t, p, 300*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"load", "commit"}, order)
}

type orderedLoader struct {
	record func(string)
}

func (o *orderedLoader) LoadBatch(context.Context, []domain.OutputEvent) error {
	o.record("load")
	return nil
}

func TestPipeline_Run_RetriesAfterLoadFailure(t *testing.T) {
	var commits atomic.Int32
	raw := makeRawEvent(t, "req-4")
	raw.Commit = func(context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{
		errs:    []error{errors.New("fetch failed")},
		batches: [][]domain.RawEvent{{raw}, {raw}},
	}
	ldr := &mockLoader{failures: 1}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), newTestMetrics(), pipeline.Options{BatchSize: 10})

	runFor(t, p, 1500*time.Millisecond)

	assert.Len(t, ldr.snapshot(), 1)
	assert.Equal(t, int32(1), commits.Load(), "failed load must not commit")
}

func TestPipeline_Run_PreservesOrderWithConcurrency(t *testing.T) {
	batch := make([]domain.RawEvent, 8)
	for i := range batch {
		batch[i] = makeRawEvent(t, string(rune('a'+i)))
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{batch}}
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), newTestMetrics(), pipeline.Options{BatchSize: 8, Concurrency: 4})

	runFor(t, p, 300*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 8)
	for i := range batch {
		assert.Equal(t, batch[i].Key, loaded[i].Key)
	}
}

func TestAnalysisTransformer_Transform(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	tfm := pipeline.NewTransformer(&fakeAnalyzer{}, discardLogger())
	out, err := tfm.Transform(context.Background(), makeRawEvent(t, "req-5"))
	require.NoError(t, err)

	assert.Equal(t, []byte("req-5"), out.Key)
	assert.Equal(t, domain.StatusOK, out.Headers["status"])

	var resp domain.AnalysisResponse
	require.NoError(t, json.Unmarshal(out.Value, &resp))

	type summary struct {
		RequestID string
		Status    string
		Size      int
		Hot       float64
	}
	want := summary{RequestID: "req-5", Status: domain.StatusOK, Size: 30, Hot: 0.3}
	got := summary{RequestID: resp.RequestID, Status: resp.Status, Size: resp.Result.SampleSize, Hot: resp.Result.Probabilities[domain.VeryHot]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalysisTransformer_AnalysisFailureIsPublished(t *testing.T) {
	tfm := pipeline.NewTransformer(&fakeAnalyzer{err: domain.ErrDataUnavailable}, discardLogger())
	out, err := tfm.Transform(context.Background(), makeRawEvent(t, "req-6"))
	require.NoError(t, err)

	var resp domain.AnalysisResponse
	require.NoError(t, json.Unmarshal(out.Value, &resp))
	assert.Equal(t, domain.StatusFailed, resp.Status)
	assert.Equal(t, domain.CodeDataUnavailable, resp.Error)
	assert.Nil(t, resp.Result)
}

func TestAnalysisTransformer_Malformed(t *testing.T) {
	tfm := pipeline.NewTransformer(&fakeAnalyzer{}, discardLogger())
	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	assert.Error(t, err)
}

// --- helpers ---

func makeRawEvent(t *testing.T, id string) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(domain.AnalysisRequest{
		ID:         id,
		Lat:        35.0,
		Lon:        -97.0,
		Month:      5,
		Day:        20,
		Thresholds: domain.DefaultThresholds(),
	})
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(id),
		Value: data,
	}
}
