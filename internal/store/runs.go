package store

import (
	"context"
	"fmt"
	"time"

	"strategy-tester/internal/backtest"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol        TEXT NOT NULL,
	strategy      TEXT NOT NULL,
	ran_at        TIMESTAMP NOT NULL,
	start_at      TIMESTAMP NOT NULL,
	end_at        TIMESTAMP NOT NULL,
	bars          INTEGER NOT NULL,
	total_pnl     REAL NOT NULL,
	sharpe_ratio  REAL NOT NULL,
	win_rate      REAL NOT NULL,
	max_drawdown  REAL NOT NULL,
	trade_count   INTEGER NOT NULL,
	final_equity  REAL NOT NULL,
	quality_flags INTEGER NOT NULL,
	commentary    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_backtest_runs_symbol_strategy
	ON backtest_runs (symbol, strategy, ran_at);
`

func (s *Store) migrate() error {
	if _, err := s.db.Exec(runsSchema); err != nil {
		return fmt.Errorf("初始化回测结果表失败: %w", err)
	}
	return nil
}

// RunRecord 为一条归档的回测记录。
type RunRecord struct {
	ID           int64
	Symbol       string
	Strategy     string
	RanAt        time.Time
	Start        time.Time
	End          time.Time
	Bars         int
	TotalPnL     float64
	SharpeRatio  float64
	WinRate      float64
	MaxDrawdown  float64
	TradeCount   int
	FinalEquity  float64
	QualityFlags int
	Commentary   string
}

// SaveRun 归档一次回测结果。
func (s *Store) SaveRun(ctx context.Context, report backtest.Report) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO backtest_runs (
			symbol, strategy, ran_at, start_at, end_at, bars,
			total_pnl, sharpe_ratio, win_rate, max_drawdown,
			trade_count, final_equity, quality_flags, commentary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Symbol,
		report.Strategy,
		report.RanAt,
		report.Start,
		report.End,
		report.Bars,
		report.Metrics.TotalPnL,
		report.Metrics.SharpeRatio,
		report.Metrics.WinRate,
		report.Metrics.MaxDrawdown,
		report.Metrics.TradeCount,
		report.FinalEquity,
		report.Warnings.DataQuality,
		report.Commentary,
	)
	if err != nil {
		return 0, fmt.Errorf("写入回测记录失败: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("读取回测记录ID失败: %w", err)
	}

	return id, nil
}

// ListRuns 按时间倒序返回指定交易对的最近回测记录。
func (s *Store) ListRuns(ctx context.Context, symbol string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, strategy, ran_at, start_at, end_at, bars,
			total_pnl, sharpe_ratio, win_rate, max_drawdown,
			trade_count, final_equity, quality_flags, commentary
		FROM backtest_runs
		WHERE symbol = ?
		ORDER BY ran_at DESC
		LIMIT ?`,
		symbol, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("查询回测记录失败: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.ID, &rec.Symbol, &rec.Strategy, &rec.RanAt, &rec.Start, &rec.End,
			&rec.Bars, &rec.TotalPnL, &rec.SharpeRatio, &rec.WinRate,
			&rec.MaxDrawdown, &rec.TradeCount, &rec.FinalEquity,
			&rec.QualityFlags, &rec.Commentary,
		); err != nil {
			return nil, fmt.Errorf("解析回测记录失败: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历回测记录失败: %w", err)
	}

	return records, nil
}
