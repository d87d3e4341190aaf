package usecase

import (
	"context"
	"errors"
	"testing"

	"Backcast/internal/domain/models"
)

type fakeStore struct {
	stored []*models.BacktestRun
	err    error
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }
func (f *fakeStore) Store(ctx context.Context, run *models.BacktestRun) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, run)
	return nil
}
func (f *fakeStore) Get(ctx context.Context, id string) (*models.BacktestRun, error) {
	return nil, nil
}
func (f *fakeStore) List(ctx context.Context, symbol string, limit int) ([]*models.BacktestRun, error) {
	return nil, nil
}
func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

type fakePublisher struct {
	published []*models.BacktestRun
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, run *models.BacktestRun) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, run)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	errors    map[string]int
	latencies map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: map[string]int{}, latencies: map[string]int{}}
}

func (f *fakeMetrics) RecordRun(symbol, preset string)          {}
func (f *fakeMetrics) RecordTrades(symbol string, n int)        {}
func (f *fakeMetrics) RecordRejected(symbol string, n int)      {}
func (f *fakeMetrics) RecordError(kind string)                  { f.errors[kind]++ }
func (f *fakeMetrics) RecordLatency(op string, seconds float64) { f.latencies[op]++ }
func (f *fakeMetrics) RecordWinRate(symbol string, pct float64) {}

func sampleRun() *models.BacktestRun {
	return &models.BacktestRun{ID: "BTC-1", Symbol: "BTC", Preset: "default", Days: 365}
}

func TestProcessRoutesToStore(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	p := NewRunProcessor(store, pub, newFakeMetrics(), "clickhouse")

	if err := p.Process(context.Background(), sampleRun()); err != nil {
		t.Fatalf("err %v", err)
	}
	if len(store.stored) != 1 || len(pub.published) != 0 {
		t.Fatalf("stored %d published %d want store only", len(store.stored), len(pub.published))
	}
}

func TestProcessRoutesToPublisher(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	p := NewRunProcessor(store, pub, newFakeMetrics(), "kafka")

	if err := p.Process(context.Background(), sampleRun()); err != nil {
		t.Fatalf("err %v", err)
	}
	if len(store.stored) != 0 || len(pub.published) != 1 {
		t.Fatalf("stored %d published %d want publish only", len(store.stored), len(pub.published))
	}
}

func TestProcessBothSkipsPublishOnStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("insert failed")}
	pub := &fakePublisher{}
	metrics := newFakeMetrics()
	p := NewRunProcessor(store, pub, metrics, "both")

	if err := p.Process(context.Background(), sampleRun()); err == nil {
		t.Fatalf("expected store error")
	}
	if len(pub.published) != 0 {
		t.Fatalf("publish must not run after a failed store")
	}
	if metrics.errors["process_run"] != 1 {
		t.Fatalf("error counter %v", metrics.errors)
	}
}

func TestProcessBoth(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	metrics := newFakeMetrics()
	p := NewRunProcessor(store, pub, metrics, "both")

	if err := p.Process(context.Background(), sampleRun()); err != nil {
		t.Fatalf("err %v", err)
	}
	if len(store.stored) != 1 || len(pub.published) != 1 {
		t.Fatalf("stored %d published %d want both", len(store.stored), len(pub.published))
	}
	if metrics.latencies["process_run"] != 1 {
		t.Fatalf("latency not recorded")
	}
}

func TestProcessUnknownBackend(t *testing.T) {
	p := NewRunProcessor(&fakeStore{}, &fakePublisher{}, newFakeMetrics(), "s3")
	if err := p.Process(context.Background(), sampleRun()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestProcessNilRun(t *testing.T) {
	p := NewRunProcessor(&fakeStore{}, &fakePublisher{}, newFakeMetrics(), "clickhouse")
	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil run")
	}
}
