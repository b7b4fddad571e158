package domain

// Profile holds static per-trader attributes from the profile table.
type Profile struct {
	TraderID         string  `json:"trader_id"`
	Name             string  `json:"name"`
	JoinDate         string  `json:"join_date,omitempty"`
	TradingStyle     string  `json:"trading_style"`
	RiskTolerance    string  `json:"risk_tolerance"`
	PreferredSectors string  `json:"preferred_sectors,omitempty"`
	YearsExperience  int     `json:"years_experience"`
	Education        string  `json:"education,omitempty"`
	Certifications   string  `json:"certifications,omitempty"`
	AccountSize      float64 `json:"account_size,omitempty"`
	PerformanceGoal  string  `json:"performance_goal,omitempty"`
}

// Performance aggregates one trader's matched round-trip trades.
type Performance struct {
	TraderID       string         `json:"trader_id"`
	TotalTrades    int            `json:"total_trades"`
	WinRate        float64        `json:"win_rate"`
	WinningTrades  int            `json:"winning_trades"`
	LosingTrades   int            `json:"losing_trades"`
	TotalPnL       float64        `json:"total_pnl"`
	AvgReturnPct   float64        `json:"avg_return_pct"`
	AvgWin         float64        `json:"avg_win"`
	AvgLoss        float64        `json:"avg_loss"`
	ProfitFactor   float64        `json:"profit_factor"`
	SharpeRatio    float64        `json:"sharpe_ratio"`
	MaxDrawdown    float64        `json:"max_drawdown"`
	MaxDrawdownPct float64        `json:"max_drawdown_pct"`
	AvgHoldDays    float64        `json:"avg_hold_days"`
	TopSymbols     map[string]int `json:"top_symbols"`
}

// Pattern describes when and how large a trader trades, over all legs.
type Pattern struct {
	TraderID           string         `json:"trader_id"`
	HourlyDistribution map[int]int    `json:"hourly_distribution"`
	WeeklyDistribution map[string]int `json:"weekly_distribution"`
	AvgPositionSize    float64        `json:"avg_position_size"`
	MostActiveHour     int            `json:"most_active_hour"`
	MostActiveDay      string         `json:"most_active_day"`
}

// Record is the persisted value stored under a trader ID in the knowledge store.
type Record struct {
	Profile     Profile     `json:"profile"`
	Performance Performance `json:"performance"`
	Pattern     Pattern     `json:"pattern"`
}

// Entry is a Record together with its key.
type Entry struct {
	TraderID string `json:"trader_id"`
	Record
}

// Metric names accepted by the knowledge base lookups.
const (
	MetricTotalTrades    = "total_trades"
	MetricWinRate        = "win_rate"
	MetricWinningTrades  = "winning_trades"
	MetricLosingTrades   = "losing_trades"
	MetricTotalPnL       = "total_pnl"
	MetricAvgReturnPct   = "avg_return_pct"
	MetricAvgWin         = "avg_win"
	MetricAvgLoss        = "avg_loss"
	MetricProfitFactor   = "profit_factor"
	MetricSharpeRatio    = "sharpe_ratio"
	MetricMaxDrawdown    = "max_drawdown"
	MetricMaxDrawdownPct = "max_drawdown_pct"
	MetricAvgHoldDays    = "avg_hold_days"
)

// Metric returns the named performance value. ok is false for unknown names.
func (p Performance) Metric(name string) (value float64, ok bool) {
	switch name {
	case MetricTotalTrades:
		return float64(p.TotalTrades), true
	case MetricWinRate:
		return p.WinRate, true
	case MetricWinningTrades:
		return float64(p.WinningTrades), true
	case MetricLosingTrades:
		return float64(p.LosingTrades), true
	case MetricTotalPnL:
		return p.TotalPnL, true
	case MetricAvgReturnPct:
		return p.AvgReturnPct, true
	case MetricAvgWin:
		return p.AvgWin, true
	case MetricAvgLoss:
		return p.AvgLoss, true
	case MetricProfitFactor:
		return p.ProfitFactor, true
	case MetricSharpeRatio:
		return p.SharpeRatio, true
	case MetricMaxDrawdown:
		return p.MaxDrawdown, true
	case MetricMaxDrawdownPct:
		return p.MaxDrawdownPct, true
	case MetricAvgHoldDays:
		return p.AvgHoldDays, true
	default:
		return 0, false
	}
}
