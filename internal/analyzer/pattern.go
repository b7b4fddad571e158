package analyzer

import (
	"time"

	"github.com/camuig/trader-analyst/internal/domain"
)

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// AnalyzePatterns summarizes activity over every leg, matched or not.
// Ties for the most active hour or day go to the earliest one.
func AnalyzePatterns(traderID string, txs []domain.Transaction) domain.Pattern {
	hourly := make(map[int]int)
	weekly := make(map[string]int)
	var totalAmount float64

	for _, tx := range txs {
		hourly[tx.Timestamp.Hour()]++
		weekly[tx.Timestamp.Weekday().String()]++
		totalAmount += tx.TotalAmount
	}

	p := domain.Pattern{
		TraderID:           traderID,
		HourlyDistribution: hourly,
		WeeklyDistribution: weekly,
		AvgPositionSize:    round(safeDivide(totalAmount, float64(len(txs))), 2),
	}

	best := 0
	for h := 0; h < 24; h++ {
		if hourly[h] > best {
			best = hourly[h]
			p.MostActiveHour = h
		}
	}

	best = 0
	for _, d := range weekOrder {
		if n := weekly[d.String()]; n > best {
			best = n
			p.MostActiveDay = d.String()
		}
	}

	return p
}
