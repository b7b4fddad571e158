package analyzer

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/camuig/trader-analyst/internal/domain"
)

const (
	// tradingDays annualizes the per-trade Sharpe ratio.
	tradingDays = 252
	// varianceEpsilon absorbs float noise when every return is identical.
	varianceEpsilon = 1e-9
)

// ErrInsufficientData is returned for traders without a single matched trade.
var ErrInsufficientData = errors.New("insufficient data")

// ComputePerformance aggregates trades, which must be ordered by sell time.
func ComputePerformance(traderID string, trades []domain.Trade) (domain.Performance, error) {
	if len(trades) == 0 {
		return domain.Performance{}, ErrInsufficientData
	}

	var winCount, lossCount int
	var sumWin, sumLoss, totalPnL, totalHold float64
	returns := make([]float64, 0, len(trades))
	pnls := make([]float64, 0, len(trades))
	symbols := make(map[string]int)

	for _, t := range trades {
		switch {
		case t.PnL > 0:
			winCount++
			sumWin += t.PnL
		case t.PnL < 0:
			lossCount++
			sumLoss += t.PnL
		}
		totalPnL += t.PnL
		totalHold += float64(t.HoldDays)
		returns = append(returns, t.PnLPct)
		pnls = append(pnls, t.PnL)
		symbols[t.Symbol]++
	}

	total := len(trades)
	avgWin := safeDivide(sumWin, float64(winCount))
	avgLoss := math.Abs(safeDivide(sumLoss, float64(lossCount)))
	maxDD, maxDDPct := maxDrawdown(pnls)

	return domain.Performance{
		TraderID:       traderID,
		TotalTrades:    total,
		WinRate:        round(float64(winCount)/float64(total)*100, 2),
		WinningTrades:  winCount,
		LosingTrades:   lossCount,
		TotalPnL:       round(totalPnL, 2),
		AvgReturnPct:   round(average(returns), 2),
		AvgWin:         round(avgWin, 2),
		AvgLoss:        round(avgLoss, 2),
		ProfitFactor:   round(safeDivide(avgWin, avgLoss), 2),
		SharpeRatio:    round(sharpeRatio(returns), 2),
		MaxDrawdown:    round(maxDD, 2),
		MaxDrawdownPct: round(maxDDPct, 2),
		AvgHoldDays:    round(totalHold/float64(total), 1),
		TopSymbols:     symbols,
	}, nil
}

// sharpeRatio is mean over sample standard deviation, scaled by √252.
// Fewer than two returns or zero variance yield 0.
func sharpeRatio(returns []float64) float64 {
	mean := average(returns)
	std := sampleStdDev(returns, mean)
	if std < varianceEpsilon {
		return 0
	}
	return mean / std * math.Sqrt(tradingDays)
}

// maxDrawdown walks the cumulative P&L curve and returns the deepest
// trough below its running peak, both absolute and relative to the
// final (highest) peak. Both values are <= 0.
func maxDrawdown(pnls []float64) (float64, float64) {
	var cum, worst float64
	peak := math.Inf(-1)

	for _, p := range pnls {
		cum += p
		if cum > peak {
			peak = cum
		}
		if dd := cum - peak; dd < worst {
			worst = dd
		}
	}

	if len(pnls) == 0 || peak == 0 {
		return worst, 0
	}
	return worst, worst / math.Abs(peak) * 100
}

func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
