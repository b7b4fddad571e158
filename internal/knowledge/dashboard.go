package knowledge

import (
	"github.com/camuig/trader-analyst/internal/domain"
)

// Criteria filters entries for the dashboard. Zero values match everything.
type Criteria struct {
	Style         string
	Risk          string
	MinExperience int
	MaxExperience int // 0 means unbounded
}

func (c Criteria) matches(e domain.Entry) bool {
	if c.Style != "" && e.Profile.TradingStyle != c.Style {
		return false
	}
	if c.Risk != "" && e.Profile.RiskTolerance != c.Risk {
		return false
	}
	years := e.Profile.YearsExperience
	if years < c.MinExperience {
		return false
	}
	if c.MaxExperience > 0 && years > c.MaxExperience {
		return false
	}
	return true
}

func (b *Base) Filter(c Criteria) []domain.Entry {
	var out []domain.Entry
	for _, e := range b.entries {
		if c.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Styles lists distinct trading styles in first-seen order.
func (b *Base) Styles() []string {
	return distinct(b.entries, func(e domain.Entry) string { return e.Profile.TradingStyle })
}

// RiskLevels lists distinct risk tolerances in first-seen order.
func (b *Base) RiskLevels() []string {
	return distinct(b.entries, func(e domain.Entry) string { return e.Profile.RiskTolerance })
}

func distinct(entries []domain.Entry, key func(domain.Entry) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		k := key(e)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Summary is the headline block shown above the dashboard table.
type Summary struct {
	Traders    int     `json:"traders"`
	AvgWinRate float64 `json:"avg_win_rate"`
	AvgSharpe  float64 `json:"avg_sharpe"`
	TotalPnL   float64 `json:"total_pnl"`
}

func Summarize(entries []domain.Entry) Summary {
	s := Summary{Traders: len(entries)}
	if len(entries) == 0 {
		return s
	}
	for _, e := range entries {
		s.AvgWinRate += e.Performance.WinRate
		s.AvgSharpe += e.Performance.SharpeRatio
		s.TotalPnL += e.Performance.TotalPnL
	}
	s.AvgWinRate /= float64(len(entries))
	s.AvgSharpe /= float64(len(entries))
	return s
}
