package storage

import (
	"context"
	"strings"

	"github.com/camuig/trader-analyst/internal/chatbot"
	"github.com/camuig/trader-analyst/internal/logger"
)

// QueryObserver writes every chatbot exchange to the query log. A failed
// write is logged and otherwise ignored, the answer has already been produced.
type QueryObserver struct {
	repo   *Repository
	logger *logger.Logger
}

func NewQueryObserver(repo *Repository, log *logger.Logger) *QueryObserver {
	return &QueryObserver{repo: repo, logger: log}
}

func (o *QueryObserver) Observe(_ context.Context, ex chatbot.Exchange) {
	entry := &QueryLog{
		CreatedAt:   ex.At,
		RequestID:   ex.ID,
		Source:      ex.Source,
		Query:       ex.Query,
		IntentType:  string(ex.Intent.Type),
		Metric:      ex.Intent.Metric,
		Filter:      string(ex.Intent.Filter),
		Outcome:     string(ex.Outcome),
		ResultCount: len(ex.TraderIDs),
		TraderIDs:   strings.Join(ex.TraderIDs, ","),
		Response:    ex.Response,
		LatencyMs:   ex.Latency.Milliseconds(),
	}
	if ex.Err != nil {
		entry.Error = ex.Err.Error()
	}

	if err := o.repo.SaveQueryLog(entry); err != nil {
		o.logger.Error("failed to save query log", "request_id", ex.ID, "error", err)
	}
}
