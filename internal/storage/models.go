package storage

import "time"

// QueryLog records one answered question.
type QueryLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RequestID   string `gorm:"uniqueIndex;not null" json:"request_id"`
	Source      string `gorm:"index" json:"source"` // shell, web, telegram
	Query       string `gorm:"type:text;not null" json:"query"`
	IntentType  string `gorm:"index" json:"intent_type"`
	Metric      string `json:"metric"`
	Filter      string `json:"filter"`
	Outcome     string `json:"outcome"` // resolved, degraded, not_found
	ResultCount int    `json:"result_count"`
	TraderIDs   string `json:"trader_ids"` // comma-separated
	Response    string `gorm:"type:text" json:"response"`
	Error       string `json:"error"`
	LatencyMs   int64  `json:"latency_ms"`
}

// AnalysisRun records one batch run of the metrics engine.
type AnalysisRun struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TransactionsFile string `json:"transactions_file"`
	ProfilesFile     string `json:"profiles_file"`
	OutputFile       string `json:"output_file"`
	TradersAnalyzed  int    `json:"traders_analyzed"`
	TradersSkipped   int    `json:"traders_skipped"`
	TradesMatched    int    `json:"trades_matched"`
	Error            string `json:"error"`
}
