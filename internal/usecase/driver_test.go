package usecase

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"Backcast/internal/domain/models"
	"Backcast/internal/services/engine"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func trendSeries(n int) models.HistoricalSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snaps := make([]models.PriceSnapshot, n)
	for i := range snaps {
		day := base.AddDate(0, 0, i)
		snaps[i] = models.PriceSnapshot{
			Date:           day.Format("2006-01-02"),
			Timestamp:      day,
			Price:          100 + float64(i),
			Volume:         1000,
			SentimentIndex: models.NeutralSentiment,
		}
	}
	return models.HistoricalSeries{Symbol: "BTC", Snapshots: snaps}
}

// looseScoring admits any directional signal so driver mechanics can be
// observed without hand-tuning a high-confluence series.
func looseScoring() engine.ScoringConfig {
	cfg := engine.Presets()["default"]
	cfg.MinimumScore = 1
	return cfg
}

func TestRunBacktestRejectsShortSeries(t *testing.T) {
	_, _, err := RunBacktest(RunParams{Series: trendSeries(10)})
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("err %v want ErrInsufficientHistory", err)
	}
}

func TestRunBacktestFlatSeriesNoTrades(t *testing.T) {
	series := trendSeries(60)
	for i := range series.Snapshots {
		series.Snapshots[i].Price = 100
	}

	res, trades, err := RunBacktest(RunParams{Series: series, Scoring: looseScoring()})
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if len(trades) != 0 || res.TotalTrades != 0 || res.RejectedSignals != 0 {
		t.Fatalf("flat series must be silent, got %+v", res)
	}
}

func TestRunBacktestTakesTrendTrades(t *testing.T) {
	res, trades, err := RunBacktest(RunParams{Series: trendSeries(100), Scoring: looseScoring()})
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if len(trades) == 0 {
		t.Fatalf("expected trades on a steady uptrend")
	}
	if res.TotalTrades != len(trades) {
		t.Fatalf("total %d vs %d trades", res.TotalTrades, len(trades))
	}
	for k, tr := range trades {
		if tr.Direction != models.DirectionLong {
			t.Fatalf("trade %d direction %v want LONG", k, tr.Direction)
		}
		if tr.Outcome != models.OutcomeWin {
			t.Fatalf("trade %d outcome %v want WIN on a rising series", k, tr.Outcome)
		}
		if tr.ExitDay < 1 {
			t.Fatalf("trade %d exit day %d", k, tr.ExitDay)
		}
	}
	if res.Wins != len(trades) || res.Losses != 0 {
		t.Fatalf("got %d/%d wins/losses", res.Wins, res.Losses)
	}
	if res.WinRate != 100 {
		t.Fatalf("win rate %v want 100", res.WinRate)
	}
}

func TestRunBacktestPositionsNeverOverlap(t *testing.T) {
	series := trendSeries(100)
	_, trades, err := RunBacktest(RunParams{Series: series, Scoring: looseScoring()})
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if len(trades) < 2 {
		t.Fatalf("need at least two trades, got %d", len(trades))
	}

	idx := make(map[string]int, len(series.Snapshots))
	for i, s := range series.Snapshots {
		idx[s.Date] = i
	}
	for k := 1; k < len(trades); k++ {
		prev, cur := trades[k-1], trades[k]
		gap := idx[cur.EntryDate] - idx[prev.EntryDate]
		if gap < prev.ExitDay {
			t.Fatalf("trade %d entered %d days after trade %d, inside its %d-day hold", k, gap, k-1, prev.ExitDay)
		}
		if gap < 1 {
			t.Fatalf("trade %d did not advance the cursor", k)
		}
	}
}

func TestRunBacktestDeterministic(t *testing.T) {
	params := RunParams{Series: trendSeries(100), Scoring: looseScoring()}

	res1, trades1, err := RunBacktest(params)
	if err != nil {
		t.Fatalf("err %v", err)
	}
	res2, trades2, err := RunBacktest(params)
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if !reflect.DeepEqual(res1, res2) {
		t.Fatalf("results differ:\n%+v\n%+v", res1, res2)
	}
	if !reflect.DeepEqual(trades1, trades2) {
		t.Fatalf("trades differ between identical runs")
	}
}

func TestRunBacktestMaxTradesCap(t *testing.T) {
	res, trades, err := RunBacktest(RunParams{Series: trendSeries(100), Scoring: looseScoring(), MaxTrades: 2})
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if len(trades) != 2 || res.TotalTrades != 2 {
		t.Fatalf("got %d trades want cap of 2", len(trades))
	}
}

func TestRunBacktestCountsRejections(t *testing.T) {
	cfg := engine.Presets()["default"]
	cfg.MinimumScore = 10

	res, trades, err := RunBacktest(RunParams{Series: trendSeries(100), Scoring: cfg})
	if err != nil {
		t.Fatalf("err %v", err)
	}
	if len(trades) != 0 {
		t.Fatalf("gate 10 should reject everything, got %d trades", len(trades))
	}
	if res.RejectedSignals == 0 {
		t.Fatalf("directional windows below the gate must be counted")
	}
}

func TestAggregate(t *testing.T) {
	trades := []models.TradeRecord{
		{Outcome: models.OutcomeWin, ProfitPct: 4},
		{Outcome: models.OutcomeWin, ProfitPct: 6},
		{Outcome: models.OutcomeLoss, ProfitPct: -3},
	}
	res := Aggregate(trades)

	if res.TotalTrades != 3 || res.Wins != 2 || res.Losses != 1 {
		t.Fatalf("counts %+v", res)
	}
	if !almostEqual(res.WinRate, 200.0/3, 1e-9) {
		t.Fatalf("win rate %v", res.WinRate)
	}
	if res.AvgWin != 5 || res.AvgLoss != -3 {
		t.Fatalf("avg win %v avg loss %v", res.AvgWin, res.AvgLoss)
	}
	if !almostEqual(res.TotalReturn, 7, 1e-12) {
		t.Fatalf("total return %v want plain sum 7", res.TotalReturn)
	}
	if res.BestTrade != 6 || res.WorstTrade != -3 {
		t.Fatalf("best %v worst %v", res.BestTrade, res.WorstTrade)
	}
}

func TestAggregateEmpty(t *testing.T) {
	res := Aggregate(nil)
	if res != (models.BacktestResult{}) {
		t.Fatalf("empty run must aggregate to zeros, got %+v", res)
	}
}
