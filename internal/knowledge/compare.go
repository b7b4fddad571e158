package knowledge

import (
	"github.com/camuig/trader-analyst/internal/domain"
)

// Comparison holds two resolved traders and the first minus the second.
type Comparison struct {
	First       domain.Entry `json:"trader1"`
	Second      domain.Entry `json:"trader2"`
	WinRateDiff float64      `json:"win_rate_diff"`
	SharpeDiff  float64      `json:"sharpe_diff"`
	PnLDiff     float64      `json:"pnl_diff"`
}

// CompareTraders resolves both queries with SearchByTrader.
func (b *Base) CompareTraders(query1, query2 string) (Comparison, error) {
	first, err := b.SearchByTrader(query1)
	if err != nil {
		return Comparison{}, ErrNotComparable
	}
	second, err := b.SearchByTrader(query2)
	if err != nil {
		return Comparison{}, ErrNotComparable
	}
	return Compare(first, second), nil
}

// Compare builds the pairwise differences of two already resolved entries.
func Compare(first, second domain.Entry) Comparison {
	return Comparison{
		First:       first,
		Second:      second,
		WinRateDiff: first.Performance.WinRate - second.Performance.WinRate,
		SharpeDiff:  first.Performance.SharpeRatio - second.Performance.SharpeRatio,
		PnLDiff:     first.Performance.TotalPnL - second.Performance.TotalPnL,
	}
}
