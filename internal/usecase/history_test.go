package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"Backcast/internal/domain/models"
	pkgcache "Backcast/pkg/cache"
	applogger "Backcast/pkg/logger"
)

type fakeHistoryProvider struct {
	name  string
	snaps []models.PriceSnapshot
	err   error
	calls int
}

func (f *fakeHistoryProvider) DailyHistory(ctx context.Context, symbol string, days int) ([]models.PriceSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snaps, nil
}

func (f *fakeHistoryProvider) Name() string { return f.name }

type fakeSentimentProvider struct {
	index map[string]float64
	err   error
}

func (f *fakeSentimentProvider) DailyIndex(ctx context.Context, days int) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.index, nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func historySnaps(n int) []models.PriceSnapshot {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PriceSnapshot, n)
	for i := range out {
		day := base.AddDate(0, 0, i)
		out[i] = models.PriceSnapshot{
			Date:           day.Format("2006-01-02"),
			Timestamp:      day,
			Price:          100 + float64(i),
			Volume:         1000,
			SentimentIndex: models.NeutralSentiment,
		}
	}
	return out
}

func TestSeriesMergesSentiment(t *testing.T) {
	primary := &fakeHistoryProvider{name: "primary", snaps: historySnaps(40)}
	sentiment := &fakeSentimentProvider{index: map[string]float64{"2024-01-03": 22}}
	uc := NewHistoryUseCase(primary, nil, sentiment, nil, 0, newFakeMetrics(), testLogger(t))

	series, err := uc.Series(context.Background(), "BTC", 40)
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if series.Len() != 40 {
		t.Fatalf("len %d", series.Len())
	}
	if got := series.Snapshots[2].SentimentIndex; got != 22 {
		t.Fatalf("sentiment %v want 22 for 2024-01-03", got)
	}
	if got := series.Snapshots[5].SentimentIndex; got != models.NeutralSentiment {
		t.Fatalf("uncovered day %v want neutral", got)
	}
}

func TestSeriesFallsBackOnPrimaryError(t *testing.T) {
	primary := &fakeHistoryProvider{name: "primary", err: errors.New("rate limited")}
	fallback := &fakeHistoryProvider{name: "fallback", snaps: historySnaps(40)}
	metrics := newFakeMetrics()
	uc := NewHistoryUseCase(primary, fallback, nil, nil, 0, metrics, testLogger(t))

	series, err := uc.Series(context.Background(), "BTC", 40)
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if series.Len() != 40 {
		t.Fatalf("len %d", series.Len())
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback calls %d", fallback.calls)
	}
	if metrics.errors["history_primary"] != 1 {
		t.Fatalf("primary failure not counted: %v", metrics.errors)
	}
}

func TestSeriesErrorsWhenBothProvidersFail(t *testing.T) {
	primary := &fakeHistoryProvider{name: "primary", err: errors.New("down")}
	fallback := &fakeHistoryProvider{name: "fallback", err: errors.New("also down")}
	uc := NewHistoryUseCase(primary, fallback, nil, nil, 0, newFakeMetrics(), testLogger(t))

	if _, err := uc.Series(context.Background(), "BTC", 40); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSeriesRejectsShortHistory(t *testing.T) {
	primary := &fakeHistoryProvider{name: "primary", snaps: historySnaps(10)}
	uc := NewHistoryUseCase(primary, nil, nil, nil, 0, newFakeMetrics(), testLogger(t))

	_, err := uc.Series(context.Background(), "BTC", 10)
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("err %v want ErrInsufficientHistory", err)
	}
}

func TestSeriesServedFromCache(t *testing.T) {
	primary := &fakeHistoryProvider{name: "primary", snaps: historySnaps(40)}
	cache := pkgcache.NewMemoryCache()
	uc := NewHistoryUseCase(primary, nil, nil, cache, time.Minute, newFakeMetrics(), testLogger(t))

	if _, err := uc.Series(context.Background(), "BTC", 40); err != nil {
		t.Fatalf("err %v", err)
	}
	if _, err := uc.Series(context.Background(), "BTC", 40); err != nil {
		t.Fatalf("err %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("provider calls %d want 1, second read should hit the cache", primary.calls)
	}
}

func TestSeriesSentimentFailureKeepsNeutral(t *testing.T) {
	primary := &fakeHistoryProvider{name: "primary", snaps: historySnaps(40)}
	sentiment := &fakeSentimentProvider{err: errors.New("feed down")}
	metrics := newFakeMetrics()
	uc := NewHistoryUseCase(primary, nil, sentiment, nil, 0, metrics, testLogger(t))

	series, err := uc.Series(context.Background(), "BTC", 40)
	if err != nil {
		t.Fatalf("sentiment outage must not fail the series: %v", err)
	}
	for i, s := range series.Snapshots {
		if s.SentimentIndex != models.NeutralSentiment {
			t.Fatalf("snapshot %d sentiment %v want neutral", i, s.SentimentIndex)
		}
	}
	if metrics.errors["sentiment_fetch"] != 1 {
		t.Fatalf("sentiment failure not counted: %v", metrics.errors)
	}
}
