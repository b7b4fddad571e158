package chatbot

import (
	"context"

	"github.com/camuig/trader-analyst/internal/logger"
)

// Observer is told about every finished exchange.
type Observer interface {
	Observe(ctx context.Context, ex Exchange)
}

// Observers fans an exchange out to each observer in order.
type Observers []Observer

func (o Observers) Observe(ctx context.Context, ex Exchange) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(ctx, ex)
		}
	}
}

type LogObserver struct {
	logger *logger.Logger
}

func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{logger: log}
}

func (l *LogObserver) Observe(_ context.Context, ex Exchange) {
	args := []any{
		"request_id", ex.ID,
		"source", ex.Source,
		"type", ex.Intent.Type,
		"metric", ex.Intent.Metric,
		"filter", ex.Intent.Filter,
		"outcome", ex.Outcome,
		"traders", len(ex.TraderIDs),
		"latency", ex.Latency,
	}
	if ex.Err != nil {
		l.logger.Error("query failed", append(args, "error", ex.Err)...)
		return
	}
	l.logger.Info("query answered", args...)
}
