package analyzer

import (
	"math"
	"sort"

	"github.com/camuig/trader-analyst/internal/domain"
)

// MatchTrades reconstructs round trips for one trader's legs. Within each
// symbol the i-th buy (by time) is paired with the i-th sell; quantities are
// not reconciled and unmatched legs are dropped. The result is ordered by
// sell time.
func MatchTrades(txs []domain.Transaction) []domain.Trade {
	var symbols []string
	seen := make(map[string]bool)
	buys := make(map[string][]domain.Transaction)
	sells := make(map[string][]domain.Transaction)

	for _, tx := range txs {
		if !seen[tx.Symbol] {
			seen[tx.Symbol] = true
			symbols = append(symbols, tx.Symbol)
		}
		switch tx.Side {
		case domain.SideBuy:
			buys[tx.Symbol] = append(buys[tx.Symbol], tx)
		case domain.SideSell:
			sells[tx.Symbol] = append(sells[tx.Symbol], tx)
		}
	}

	var trades []domain.Trade
	for _, sym := range symbols {
		b, s := buys[sym], sells[sym]
		byTime(b)
		byTime(s)

		n := min(len(b), len(s))
		for i := 0; i < n; i++ {
			trades = append(trades, newTrade(b[i], s[i]))
		}
	}

	sort.SliceStable(trades, func(i, j int) bool {
		a, b := trades[i], trades[j]
		if !a.SellDate.Equal(b.SellDate) {
			return a.SellDate.Before(b.SellDate)
		}
		if !a.BuyDate.Equal(b.BuyDate) {
			return a.BuyDate.Before(b.BuyDate)
		}
		return a.Symbol < b.Symbol
	})
	return trades
}

func byTime(legs []domain.Transaction) {
	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].Timestamp.Before(legs[j].Timestamp)
	})
}

func newTrade(buy, sell domain.Transaction) domain.Trade {
	pnl := sell.TotalAmount - buy.TotalAmount
	return domain.Trade{
		Symbol:    buy.Symbol,
		BuyDate:   buy.Timestamp,
		SellDate:  sell.Timestamp,
		BuyPrice:  buy.Price,
		SellPrice: sell.Price,
		Quantity:  buy.Quantity,
		PnL:       pnl,
		PnLPct:    safeDivide(pnl, buy.TotalAmount) * 100,
		HoldDays:  int(math.Floor(sell.Timestamp.Sub(buy.Timestamp).Hours() / 24)),
	}
}
