package analyzer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trader-analyst/internal/domain"
	"github.com/camuig/trader-analyst/internal/logger"
)

var base = time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC) // Monday

func leg(trader, symbol, side string, day int, total float64) domain.Transaction {
	return domain.Transaction{
		TraderID:    trader,
		Timestamp:   base.AddDate(0, 0, day),
		Symbol:      symbol,
		Side:        side,
		Quantity:    10,
		Price:       total / 10,
		TotalAmount: total,
	}
}

func TestMatchTrades_MinOfBuysAndSells(t *testing.T) {
	txs := []domain.Transaction{
		leg("T001", "AAPL", domain.SideBuy, 0, 1000),
		leg("T001", "AAPL", domain.SideBuy, 1, 1000),
		leg("T001", "AAPL", domain.SideBuy, 2, 1000),
		leg("T001", "AAPL", domain.SideSell, 5, 1100),
		leg("T001", "MSFT", domain.SideSell, 3, 900),
		leg("T001", "MSFT", domain.SideSell, 4, 900),
		leg("T001", "MSFT", domain.SideBuy, 1, 1000),
		leg("T001", "NVDA", domain.SideBuy, 1, 1000),
	}

	trades := MatchTrades(txs)
	require.Len(t, trades, 2) // AAPL min(3,1) + MSFT min(1,2) + NVDA min(1,0)

	// ordered by sell date: MSFT (day 3) before AAPL (day 5)
	assert.Equal(t, "MSFT", trades[0].Symbol)
	assert.Equal(t, "AAPL", trades[1].Symbol)
	assert.InDelta(t, -100, trades[0].PnL, 1e-9)
	assert.InDelta(t, -10, trades[0].PnLPct, 1e-9)
	assert.Equal(t, 2, trades[0].HoldDays)
	assert.Equal(t, 5, trades[1].HoldDays)
}

func TestMatchTrades_PairsByArrivalOrder(t *testing.T) {
	// legs given out of order; earliest buy must pair with earliest sell
	txs := []domain.Transaction{
		leg("T001", "AAPL", domain.SideSell, 9, 1300),
		leg("T001", "AAPL", domain.SideBuy, 4, 1200),
		leg("T001", "AAPL", domain.SideSell, 2, 1050),
		leg("T001", "AAPL", domain.SideBuy, 0, 1000),
	}

	trades := MatchTrades(txs)
	require.Len(t, trades, 2)
	assert.InDelta(t, 50, trades[0].PnL, 1e-9)
	assert.InDelta(t, 100, trades[1].PnL, 1e-9)
}

func TestMatchTrades_SellBeforeBuyFloorsHoldDays(t *testing.T) {
	buy := leg("T001", "AAPL", domain.SideBuy, 1, 1000)
	sell := leg("T001", "AAPL", domain.SideSell, 0, 1000)
	sell.Timestamp = sell.Timestamp.Add(time.Hour)

	trades := MatchTrades([]domain.Transaction{buy, sell})
	require.Len(t, trades, 1)
	assert.Equal(t, -1, trades[0].HoldDays)
}

func tradesFromPnL(pnls ...float64) []domain.Trade {
	trades := make([]domain.Trade, 0, len(pnls))
	for i, p := range pnls {
		trades = append(trades, domain.Trade{
			Symbol:   "AAPL",
			BuyDate:  base.AddDate(0, 0, i),
			SellDate: base.AddDate(0, 0, i+1),
			PnL:      p,
			PnLPct:   p / 1000 * 100,
			HoldDays: 1,
		})
	}
	return trades
}

func TestComputePerformance_DrawdownExample(t *testing.T) {
	perf, err := ComputePerformance("T001", tradesFromPnL(100, -40, 60))
	require.NoError(t, err)

	assert.Equal(t, 3, perf.TotalTrades)
	assert.Equal(t, 2, perf.WinningTrades)
	assert.Equal(t, 1, perf.LosingTrades)
	assert.Equal(t, 66.67, perf.WinRate)
	assert.Equal(t, 120.0, perf.TotalPnL)
	assert.Equal(t, -40.0, perf.MaxDrawdown)
	assert.Equal(t, -33.33, perf.MaxDrawdownPct)
	assert.Equal(t, 80.0, perf.AvgWin)
	assert.Equal(t, 40.0, perf.AvgLoss)
	assert.Equal(t, 2.0, perf.ProfitFactor)
	assert.Equal(t, 4.0, perf.AvgReturnPct)
	assert.Equal(t, 1.0, perf.AvgHoldDays)
	assert.Equal(t, map[string]int{"AAPL": 3}, perf.TopSymbols)
	assert.Greater(t, perf.SharpeRatio, 0.0)
}

func TestComputePerformance_ZeroVarianceSharpe(t *testing.T) {
	perf, err := ComputePerformance("T001", tradesFromPnL(1, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, perf.SharpeRatio)

	single, err := ComputePerformance("T001", tradesFromPnL(50))
	require.NoError(t, err)
	assert.Equal(t, 0.0, single.SharpeRatio)
	assert.Equal(t, 0.0, single.MaxDrawdown)
	assert.Equal(t, 0.0, single.MaxDrawdownPct)
}

func TestComputePerformance_AllLosses(t *testing.T) {
	perf, err := ComputePerformance("T001", tradesFromPnL(-10, -20))
	require.NoError(t, err)

	assert.Equal(t, 0.0, perf.WinRate)
	assert.Equal(t, 0.0, perf.AvgWin)
	assert.Equal(t, 0.0, perf.ProfitFactor)
	assert.Equal(t, -20.0, perf.MaxDrawdown)
	assert.LessOrEqual(t, perf.MaxDrawdownPct, 0.0)
	assert.Equal(t, -200.0, perf.MaxDrawdownPct)
}

func TestComputePerformance_InvariantsOverManyCurves(t *testing.T) {
	curves := [][]float64{
		{5, -3, 8, -12, 4},
		{-1, -1, -1},
		{0, 0, 0},
		{100},
		{10, 20, 30, -100, 50},
	}
	for _, c := range curves {
		perf, err := ComputePerformance("T001", tradesFromPnL(c...))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, perf.WinRate, 0.0)
		assert.LessOrEqual(t, perf.WinRate, 100.0)
		assert.LessOrEqual(t, perf.MaxDrawdown, 0.0)
		assert.LessOrEqual(t, perf.MaxDrawdownPct, 0.0)
	}
}

func TestComputePerformance_NoTrades(t *testing.T) {
	_, err := ComputePerformance("T001", nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnalyzePatterns(t *testing.T) {
	txs := []domain.Transaction{
		leg("T001", "AAPL", domain.SideBuy, 3, 100),  // Thursday 09h
		leg("T001", "AAPL", domain.SideSell, 3, 300), // Thursday 09h
		leg("T001", "MSFT", domain.SideBuy, 0, 200),  // Monday 09h
	}
	txs[2].Timestamp = txs[2].Timestamp.Add(5 * time.Hour) // 14h

	p := AnalyzePatterns("T001", txs)
	assert.Equal(t, map[int]int{9: 2, 14: 1}, p.HourlyDistribution)
	assert.Equal(t, map[string]int{"Thursday": 2, "Monday": 1}, p.WeeklyDistribution)
	assert.Equal(t, 9, p.MostActiveHour)
	assert.Equal(t, "Thursday", p.MostActiveDay)
	assert.Equal(t, 200.0, p.AvgPositionSize)
}

func TestAnalyzePatterns_TiesGoToEarliest(t *testing.T) {
	a := leg("T001", "AAPL", domain.SideBuy, 2, 100) // Wednesday 09h
	b := leg("T001", "AAPL", domain.SideBuy, 1, 100) // Tuesday
	b.Timestamp = b.Timestamp.Add(2 * time.Hour)     // 11h

	p := AnalyzePatterns("T001", []domain.Transaction{a, b})
	assert.Equal(t, 9, p.MostActiveHour)
	assert.Equal(t, "Tuesday", p.MostActiveDay)
}

const transactionsCSV = "\ufefftrader_id,date,time,symbol,side,quantity,price,commission,total_amount\n" +
	"T001,2025-03-03,09:15:00,AAPL,Buy,10,100.00,1.00,1001.00\n" +
	"T001,2025-03-06,10:05:00,AAPL,Sell,10,110.00,1.00,1099.00\n" +
	"T002,2025-03-04,13:00:00,MSFT,Buy,5,200.00,1.00,1001.00\n" +
	"T001,2025-03-07,11:00:00,TSLA,Buy,10,50.00,0.50,500.50\n"

const profilesCSV = "trader_id,name,join_date,trading_style,risk_tolerance,preferred_sectors,years_experience,education,certifications,account_size,performance_goal\n" +
	"T001,김민준,2020-01-01,단기매매,중위험,기술/반도체,5,KAIST,None,250000,15% annual return\n" +
	"T002,이서연,2022-01-01,스윙트레이딩,고위험,금융/은행,2,연세대,CFA Level 1,120000,20% annual return\n"

func TestParseTransactions(t *testing.T) {
	txs, err := ParseTransactions(strings.NewReader(transactionsCSV))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	assert.Equal(t, "T001", txs[0].TraderID)
	assert.Equal(t, domain.SideBuy, txs[0].Side)
	assert.Equal(t, int64(10), txs[0].Quantity)
	assert.Equal(t, 1001.0, txs[0].TotalAmount)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 15, 0, 0, time.UTC), txs[0].Timestamp)
}

func TestParseTransactions_MissingColumn(t *testing.T) {
	_, err := ParseTransactions(strings.NewReader("trader_id,date\nT001,2025-01-01\n"))
	assert.ErrorContains(t, err, "missing column")
}

func TestParseProfiles(t *testing.T) {
	profiles, err := ParseProfiles(strings.NewReader(profilesCSV))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	p := profiles["T001"]
	assert.Equal(t, "김민준", p.Name)
	assert.Equal(t, "단기매매", p.TradingStyle)
	assert.Equal(t, 5, p.YearsExperience)
	assert.Equal(t, 250000.0, p.AccountSize)
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	txs, err := ParseTransactions(strings.NewReader(transactionsCSV))
	require.NoError(t, err)
	profiles, err := ParseProfiles(strings.NewReader(profilesCSV))
	require.NoError(t, err)
	return NewAnalyzer(txs, profiles, logger.Discard())
}

func TestGenerateReport_SkipsUnmatchedTraders(t *testing.T) {
	a := newTestAnalyzer(t)

	records, summary, err := a.GenerateReport()
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, []string{"T002"}, summary.Skipped)
	assert.Equal(t, 1, summary.TradesMatched)

	rec := records["T001"]
	assert.Equal(t, "김민준", rec.Profile.Name)
	assert.Equal(t, 98.0, rec.Performance.TotalPnL)
	assert.Equal(t, 100.0, rec.Performance.WinRate)
	assert.Equal(t, 3.0, rec.Performance.AvgHoldDays)
	// pattern counts the unmatched TSLA buy too
	assert.Equal(t, 3, rec.Pattern.HourlyDistribution[9]+rec.Pattern.HourlyDistribution[10]+rec.Pattern.HourlyDistribution[11])
}

func TestGenerateReport_MissingProfile(t *testing.T) {
	txs, err := ParseTransactions(strings.NewReader(transactionsCSV))
	require.NoError(t, err)
	a := NewAnalyzer(txs, map[string]domain.Profile{}, logger.Discard())

	_, _, err = a.GenerateReport()
	assert.ErrorContains(t, err, "no profile for trader T001")
}

func TestWriteStore_RoundTrip(t *testing.T) {
	a := newTestAnalyzer(t)
	records, _, err := a.GenerateReport()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "analysis.json")
	require.NoError(t, WriteStore(path, records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "김민준", "non-ASCII names must not be escaped")

	var decoded map[string]domain.Record
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, records, decoded)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"), "x.csv", logger.Discard())
	assert.Error(t, err)
}

func TestEncodeStore_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeStore(&buf, map[string]domain.Record{}))
	assert.Equal(t, "{}\n", buf.String())
}
