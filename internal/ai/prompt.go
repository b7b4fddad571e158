package ai

import (
	"fmt"
	"strings"

	"github.com/camuig/trader-analyst/internal/domain"
)

const systemPrompt = `You are a trading analyst reviewing historical performance of individual traders.
Base every statement on the supplied data only. Never invent traders or numbers.`

// BuildPrompt renders the outbound prompt: a fixed header, one block per
// selected trader, the user's question verbatim and the answer rules.
func BuildPrompt(question string, entries []domain.Entry) string {
	var sb strings.Builder

	sb.WriteString("You are a trading analyst. Answer in Korean.\n\n")
	sb.WriteString("[DATA]\n")
	for _, e := range entries {
		id := e.TraderID
		if id == "" {
			id = "N/A"
		}
		sb.WriteString(fmt.Sprintf("\nTrader: %s (%s)\n", e.Profile.Name, id))
		sb.WriteString(fmt.Sprintf("- Style: %s\n", e.Profile.TradingStyle))
		sb.WriteString(fmt.Sprintf("- Win Rate: %g%%\n", e.Performance.WinRate))
		sb.WriteString(fmt.Sprintf("- Sharpe: %g\n", e.Performance.SharpeRatio))
		sb.WriteString(fmt.Sprintf("- P&L: $%g\n", e.Performance.TotalPnL))
		sb.WriteString(fmt.Sprintf("- MDD: %g%%\n", e.Performance.MaxDrawdownPct))
		sb.WriteString(fmt.Sprintf("- Active: %dh, %s\n", e.Pattern.MostActiveHour, e.Pattern.MostActiveDay))
	}

	sb.WriteString("\n[QUESTION]\n")
	sb.WriteString(question)
	sb.WriteString("\n\n[INSTRUCTIONS]\n")
	sb.WriteString("1. Answer in Korean\n")
	sb.WriteString("2. Use specific numbers\n")
	sb.WriteString("3. Provide insights\n")
	sb.WriteString("4. Be professional\n")

	return sb.String()
}
