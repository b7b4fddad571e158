package knowledge

import (
	"github.com/camuig/trader-analyst/internal/domain"
)

type TraderContext struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Style       string             `json:"style"`
	Performance PerformanceContext `json:"performance"`
	Pattern     PatternContext     `json:"pattern"`
}

type PerformanceContext struct {
	WinRate        float64 `json:"win_rate"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	TotalPnL       float64 `json:"total_pnl"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}

type PatternContext struct {
	MostActiveHour int    `json:"most_active_hour"`
	MostActiveDay  string `json:"most_active_day"`
}

// Context is the reduced view of a result set handed to the completion service.
type Context struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Traders []TraderContext `json:"traders"`
}

func BuildContext(query string, entries []domain.Entry) Context {
	ctx := Context{Query: query, Count: len(entries), Traders: []TraderContext{}}
	for _, e := range entries {
		ctx.Traders = append(ctx.Traders, TraderContext{
			ID:    e.TraderID,
			Name:  e.Profile.Name,
			Style: e.Profile.TradingStyle,
			Performance: PerformanceContext{
				WinRate:        e.Performance.WinRate,
				SharpeRatio:    e.Performance.SharpeRatio,
				TotalPnL:       e.Performance.TotalPnL,
				MaxDrawdownPct: e.Performance.MaxDrawdownPct,
			},
			Pattern: PatternContext{
				MostActiveHour: e.Pattern.MostActiveHour,
				MostActiveDay:  e.Pattern.MostActiveDay,
			},
		})
	}
	return ctx
}
