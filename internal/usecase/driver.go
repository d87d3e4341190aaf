package usecase

import (
	"fmt"

	"Backcast/internal/domain/models"
	"Backcast/internal/services/engine"
)

// RunParams fully determines a backtest: an explicit series value plus engine
// configuration. Nothing is read from shared state, so concurrent runs are
// independent.
type RunParams struct {
	Series     models.HistoricalSeries
	Indicators engine.IndicatorConfig
	Scoring    engine.ScoringConfig
	Levels     engine.LevelConfig

	WindowSize     int
	MaxHoldingDays int
	MinSkip        int
	MaxTrades      int
}

func (p *RunParams) setDefaults() {
	if p.Indicators.SlowPeriod == 0 {
		p.Indicators = engine.DefaultIndicatorConfig()
	}
	if p.WindowSize <= 0 {
		p.WindowSize = 30
	}
	// The window must cover the slowest indicator or every position skips.
	if p.WindowSize < p.Indicators.SlowPeriod+1 {
		p.WindowSize = p.Indicators.SlowPeriod + 1
	}
	if p.MaxHoldingDays <= 0 {
		p.MaxHoldingDays = 10
	}
	if p.MinSkip <= 0 {
		p.MinSkip = 1
	}
	if p.MaxTrades <= 0 {
		p.MaxTrades = 100
	}
}

// RunBacktest slides the scoring window across the series, simulates every
// accepted signal, and skips the cursor past closed trades so positions never
// overlap. Deterministic: two runs over the same series and params produce
// identical trades and result.
func RunBacktest(p RunParams) (models.BacktestResult, []models.TradeRecord, error) {
	p.setDefaults()
	if err := p.Series.Validate(); err != nil {
		return models.BacktestResult{}, nil, fmt.Errorf("run backtest: %w", err)
	}

	scorer := engine.NewScorer(p.Scoring)
	snaps := p.Series.Snapshots
	trades := make([]models.TradeRecord, 0, 16)
	rejected := 0

	i := p.WindowSize - 1
	for i < len(snaps)-1 && len(trades) < p.MaxTrades {
		window := snaps[i-p.WindowSize+1 : i+1]
		ind, ok := engine.ComputeIndicators(window, p.Indicators)
		if !ok {
			i++
			continue
		}

		closes := make([]float64, len(window))
		for j, s := range window {
			closes[j] = s.Price
		}
		sr := engine.DetectSupportResistance(closes, ind.CurrentPrice, p.Scoring.SRProximityPct)
		in := engine.Inputs{Ind: ind, SR: sr, Sentiment: snaps[i].SentimentIndex, Closes: closes}

		score := scorer.Score(in)
		if score.Direction == models.DirectionNone {
			i++
			continue
		}
		if !scorer.Accepted(score) {
			rejected++
			i++
			continue
		}

		levels := engine.ComputeTradeLevels(ind.CurrentPrice, score.Direction, ind.Volatility, sr, p.Levels)
		out := engine.SimulateOutcome(snaps, i, score.Direction, levels, p.MaxHoldingDays)
		trades = append(trades, models.TradeRecord{
			EntryDate: snaps[i].Date,
			Direction: score.Direction,
			Score:     score,
			Levels:    levels,
			ExitPrice: out.ExitPrice,
			ExitDay:   out.ExitDay,
			Outcome:   out.Outcome,
			ProfitPct: out.ProfitPct,
		})

		skip := p.MinSkip
		if out.ExitDay > skip {
			skip = out.ExitDay
		}
		i += skip
	}

	res := Aggregate(trades)
	res.RejectedSignals = rejected
	return res, trades, nil
}

// Aggregate folds trade records into the run summary. TotalReturn is the
// exact sum of per-trade profit percentages; win rate is wins/total*100 and
// zero for an empty run.
func Aggregate(trades []models.TradeRecord) models.BacktestResult {
	res := models.BacktestResult{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return res
	}

	var winSum, lossSum float64
	res.BestTrade = trades[0].ProfitPct
	res.WorstTrade = trades[0].ProfitPct
	for _, t := range trades {
		res.TotalReturn += t.ProfitPct
		if t.Outcome == models.OutcomeWin {
			res.Wins++
			winSum += t.ProfitPct
		} else {
			res.Losses++
			lossSum += t.ProfitPct
		}
		if t.ProfitPct > res.BestTrade {
			res.BestTrade = t.ProfitPct
		}
		if t.ProfitPct < res.WorstTrade {
			res.WorstTrade = t.ProfitPct
		}
	}

	res.WinRate = float64(res.Wins) / float64(res.TotalTrades) * 100
	if res.Wins > 0 {
		res.AvgWin = winSum / float64(res.Wins)
	}
	if res.Losses > 0 {
		res.AvgLoss = lossSum / float64(res.Losses)
	}
	return res
}
