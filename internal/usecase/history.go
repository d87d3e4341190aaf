package usecase

import (
	"context"
	"fmt"
	"time"

	"Backcast/internal/domain/models"
	domrepo "Backcast/internal/domain/repository"
	domsvc "Backcast/internal/domain/service"
	pkgcache "Backcast/pkg/cache"
	applogger "Backcast/pkg/logger"
)

// HistoryUseCase materializes the immutable series a backtest runs on: daily
// prices from the primary provider (falling back to the secondary transport
// on failure) merged with the sentiment index by date. The finished series is
// cached so repeated runs against the same symbol don't re-fetch.
type HistoryUseCase struct {
	primary   domsvc.HistoryProvider
	fallback  domsvc.HistoryProvider
	sentiment domsvc.SentimentProvider
	cache     pkgcache.Service
	ttl       time.Duration
	metrics   domrepo.Metrics
	logger    *applogger.Logger
}

func NewHistoryUseCase(
	primary, fallback domsvc.HistoryProvider,
	sentiment domsvc.SentimentProvider,
	cache pkgcache.Service,
	ttl time.Duration,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
) *HistoryUseCase {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &HistoryUseCase{
		primary:   primary,
		fallback:  fallback,
		sentiment: sentiment,
		cache:     cache,
		ttl:       ttl,
		metrics:   metrics,
		logger:    logger,
	}
}

// Series returns a validated series of `days` daily snapshots for symbol.
func (uc *HistoryUseCase) Series(ctx context.Context, symbol string, days int) (models.HistoricalSeries, error) {
	key := fmt.Sprintf("series:%s:%d", symbol, days)
	if uc.cache != nil {
		var cached models.HistoricalSeries
		if err := uc.cache.Get(ctx, key, &cached); err == nil && cached.Len() >= models.MinHistory {
			return cached, nil
		}
	}

	snaps, err := uc.fetch(ctx, symbol, days)
	if err != nil {
		return models.HistoricalSeries{}, err
	}

	uc.mergeSentiment(ctx, snaps, days)

	series := models.HistoricalSeries{Symbol: symbol, Snapshots: snaps}
	if err := series.Validate(); err != nil {
		return models.HistoricalSeries{}, fmt.Errorf("history: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, series, uc.ttl); err != nil {
			uc.logger.Warn("series cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
	}
	return series, nil
}

func (uc *HistoryUseCase) fetch(ctx context.Context, symbol string, days int) ([]models.PriceSnapshot, error) {
	snaps, err := uc.primary.DailyHistory(ctx, symbol, days)
	if err == nil {
		return snaps, nil
	}

	uc.metrics.RecordError("history_primary")
	uc.logger.Warn("primary history provider failed",
		applogger.String("provider", uc.primary.Name()),
		applogger.String("symbol", symbol),
		applogger.Error(err),
	)
	if uc.fallback == nil {
		return nil, fmt.Errorf("history: fetch %s: %w", symbol, err)
	}

	snaps, err = uc.fallback.DailyHistory(ctx, symbol, days)
	if err != nil {
		uc.metrics.RecordError("history_fallback")
		return nil, fmt.Errorf("history: fallback fetch %s: %w", symbol, err)
	}
	return snaps, nil
}

// mergeSentiment fills SentimentIndex per date; days the index feed does not
// cover keep the neutral default.
func (uc *HistoryUseCase) mergeSentiment(ctx context.Context, snaps []models.PriceSnapshot, days int) {
	if uc.sentiment == nil {
		return
	}
	idx, err := uc.sentiment.DailyIndex(ctx, days)
	if err != nil {
		uc.metrics.RecordError("sentiment_fetch")
		uc.logger.Warn("sentiment provider failed, using neutral index", applogger.Error(err))
		return
	}
	for i := range snaps {
		if v, ok := idx[snaps[i].Date]; ok {
			snaps[i].SentimentIndex = v
		}
	}
}
