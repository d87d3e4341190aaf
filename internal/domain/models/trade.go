package models

import "time"

// Direction is the side of a trade signal.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionNone  Direction = ""
)

// ConfluenceScore is the output of the scoring engine for one window.
// Total is always the sum of Breakdown; DirectionNone implies Total == 0.
type ConfluenceScore struct {
	Total     int
	Breakdown map[string]int
	Direction Direction
	Setup     string // name of the setup rule that fixed the direction
}

// TradeLevels are the stop and take-profit prices for an entry.
// SLPercent is the stop distance as a percentage of entry (4.0 means 4%).
// Invariant for LONG: StopLoss < EntryPrice < TP1 < TP2 < TP3; mirrored for SHORT.
type TradeLevels struct {
	EntryPrice float64
	StopLoss   float64
	TP1        float64
	TP2        float64
	TP3        float64
	SLPercent  float64
	RiskReward float64
}

// Outcome is a terminal trade state. There is no third state: a timeout
// resolves to WIN or LOSS by profit sign.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
)

// TradeOutcome is the simulator's result for one entry.
// ExitDay counts days after entry; ProfitPct is signed and direction-aware.
type TradeOutcome struct {
	Outcome   Outcome
	ExitPrice float64
	ExitDay   int
	ProfitPct float64
}

// TradeRecord is one accepted and fully simulated signal. Created once,
// appended to the run's trade list, never revisited.
type TradeRecord struct {
	EntryDate string
	Direction Direction
	Score     ConfluenceScore
	Levels    TradeLevels
	ExitPrice float64
	ExitDay   int
	Outcome   Outcome
	ProfitPct float64
}

// BacktestResult aggregates all trade records of a run. Built once at the end,
// read-only afterwards. TotalReturn is the plain sum of per-trade profit
// percentages, not compounded.
type BacktestResult struct {
	TotalTrades     int
	Wins            int
	Losses          int
	WinRate         float64
	AvgWin          float64
	AvgLoss         float64
	TotalReturn     float64
	BestTrade       float64
	WorstTrade      float64
	RejectedSignals int
}

// BacktestRun is the persisted unit: one invocation of the driver.
type BacktestRun struct {
	ID        string
	Symbol    string
	Preset    string
	Days      int
	CreatedAt time.Time
	Result    BacktestResult
	Trades    []TradeRecord
}
