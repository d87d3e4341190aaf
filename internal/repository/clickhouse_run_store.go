package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"Backcast/internal/domain/models"
	domrepo "Backcast/internal/domain/repository"
	pkgch "Backcast/pkg/clickhouse"
	applogger "Backcast/pkg/logger"
)

// CHRunStore persists backtest runs in ClickHouse. Summary fields get their
// own columns for aggregation queries; the trade list is stored as a JSON
// string column since it is only ever read back whole.
type CHRunStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHRunStore(ch *pkgch.Client, l *applogger.Logger) *CHRunStore {
	return &CHRunStore{db: ch.DB(), l: l}
}

const runsTable = "backcast.backtest_runs"

const runsDDL = `
CREATE TABLE IF NOT EXISTS ` + runsTable + ` (
    id String,
    symbol LowCardinality(String),
    preset LowCardinality(String),
    days Int32,
    created_at DateTime,
    total_trades Int32,
    wins Int32,
    losses Int32,
    win_rate Float64,
    avg_win Float64,
    avg_loss Float64,
    total_return Float64,
    best_trade Float64,
    worst_trade Float64,
    rejected_signals Int32,
    trades String
) ENGINE = MergeTree
ORDER BY (symbol, created_at)
`

func (s *CHRunStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS backcast"); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, runsDDL); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}

func (s *CHRunStore) Store(ctx context.Context, run *models.BacktestRun) error {
	start := time.Now()
	trades, err := json.Marshal(run.Trades)
	if err != nil {
		return fmt.Errorf("marshal trades: %w", err)
	}

	const q = `INSERT INTO ` + runsTable + ` (
        id, symbol, preset, days, created_at,
        total_trades, wins, losses, win_rate, avg_win, avg_loss,
        total_return, best_trade, worst_trade, rejected_signals, trades
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	r := run.Result
	_, err = s.db.ExecContext(ctx, q,
		run.ID, run.Symbol, run.Preset, int32(run.Days), run.CreatedAt,
		int32(r.TotalTrades), int32(r.Wins), int32(r.Losses), r.WinRate, r.AvgWin, r.AvgLoss,
		r.TotalReturn, r.BestTrade, r.WorstTrade, int32(r.RejectedSignals), string(trades),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store run error",
				applogger.String("run_id", run.ID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store run: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse store run ok",
			applogger.String("run_id", run.ID),
			applogger.String("symbol", run.Symbol),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

const runColumns = `id, symbol, preset, days, created_at,
        total_trades, wins, losses, win_rate, avg_win, avg_loss,
        total_return, best_trade, worst_trade, rejected_signals, trades`

func (s *CHRunStore) Get(ctx context.Context, id string) (*models.BacktestRun, error) {
	const q = `SELECT ` + runColumns + ` FROM ` + runsTable + ` WHERE id = ? ORDER BY created_at DESC LIMIT 1`
	row := s.db.QueryRowContext(ctx, q, id)
	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, domrepo.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (s *CHRunStore) List(ctx context.Context, symbol string, limit int) ([]*models.BacktestRun, error) {
	if limit <= 0 {
		limit = 20
	}

	q := `SELECT ` + runColumns + ` FROM ` + runsTable
	args := make([]interface{}, 0, 2)
	if symbol != "" {
		q += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]*models.BacktestRun, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanRun(scan func(dest ...interface{}) error) (*models.BacktestRun, error) {
	var (
		run    models.BacktestRun
		days   int32
		ints   [4]int32
		trades string
	)
	err := scan(
		&run.ID, &run.Symbol, &run.Preset, &days, &run.CreatedAt,
		&ints[0], &ints[1], &ints[2], &run.Result.WinRate, &run.Result.AvgWin, &run.Result.AvgLoss,
		&run.Result.TotalReturn, &run.Result.BestTrade, &run.Result.WorstTrade, &ints[3], &trades,
	)
	if err != nil {
		return nil, err
	}
	run.Days = int(days)
	run.Result.TotalTrades = int(ints[0])
	run.Result.Wins = int(ints[1])
	run.Result.Losses = int(ints[2])
	run.Result.RejectedSignals = int(ints[3])
	if trades != "" {
		if err := json.Unmarshal([]byte(trades), &run.Trades); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
	}
	return &run, nil
}

func (s *CHRunStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHRunStore) Close() error {
	return nil // connection owned by pkg client
}

var _ domrepo.RunStore = (*CHRunStore)(nil)
