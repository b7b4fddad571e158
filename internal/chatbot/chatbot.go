// Package chatbot answers free-text questions about traders: it classifies
// the question, selects traders from the knowledge base, and forwards them
// with the question to a completion service.
package chatbot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/camuig/trader-analyst/internal/ai"
	"github.com/camuig/trader-analyst/internal/intent"
	"github.com/camuig/trader-analyst/internal/knowledge"
	"github.com/camuig/trader-analyst/internal/logger"
)

const NoMatchAnswer = "[INFO] No matching traders."

// Completer turns a prompt into an answer. ai.Client and ai.Mock satisfy it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Exchange is one question and what was done with it.
type Exchange struct {
	ID          string
	Source      string
	Query       string
	Intent      intent.Intent
	Outcome     Outcome
	TraderIDs   []string
	Suggestions []string
	Comparison  *knowledge.Comparison
	Response    string
	Err         error
	At          time.Time
	Latency     time.Duration
}

type Bot struct {
	kb        *knowledge.Base
	completer Completer
	observer  Observer
	logger    *logger.Logger

	mu      sync.Mutex
	history []Exchange
}

func New(kb *knowledge.Base, completer Completer, observer Observer, log *logger.Logger) *Bot {
	if observer == nil {
		observer = Observers{}
	}
	return &Bot{
		kb:        kb,
		completer: completer,
		observer:  observer,
		logger:    log,
	}
}

// ProcessQuery answers q and returns only the text.
func (b *Bot) ProcessQuery(ctx context.Context, q string) string {
	return b.Ask(ctx, q).Response
}

// Ask runs the full pipeline. Completion failures are folded into the
// response as "[ERROR] ..." and also kept in Exchange.Err.
func (b *Bot) Ask(ctx context.Context, q string) Exchange {
	start := time.Now()
	ex := Exchange{
		ID:     uuid.NewString(),
		Source: SourceFrom(ctx),
		Query:  q,
		At:     start,
	}

	in := intent.Classify(q)
	res := Search(b.kb, q, in)
	ex.Intent = res.Intent
	ex.Outcome = res.Outcome
	ex.Suggestions = res.Suggestions
	ex.Comparison = res.Comparison
	for _, e := range res.Entries {
		ex.TraderIDs = append(ex.TraderIDs, e.TraderID)
	}

	b.logger.Debug("query classified",
		"request_id", ex.ID,
		"type", in.Type,
		"metric", in.Metric,
		"filter", in.Filter,
		"outcome", res.Outcome,
		"traders", len(res.Entries),
	)

	if res.Outcome == OutcomeNotFound {
		ex.Response = notFoundAnswer(res.Suggestions)
	} else {
		answer, err := b.completer.Complete(ctx, ai.BuildPrompt(q, res.Entries))
		if err != nil {
			ex.Err = err
			answer = fmt.Sprintf("[ERROR] %v", err)
		}
		ex.Response = answer
	}
	ex.Latency = time.Since(start)

	b.mu.Lock()
	b.history = append(b.history, ex)
	b.mu.Unlock()

	b.observer.Observe(ctx, ex)
	return ex
}

func notFoundAnswer(suggestions []string) string {
	if len(suggestions) == 0 {
		return NoMatchAnswer
	}
	return NoMatchAnswer + "\nDid you mean: " + strings.Join(suggestions, ", ") + "?"
}

// History returns a copy of the exchanges so far, oldest first.
func (b *Bot) History() []Exchange {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Exchange, len(b.history))
	copy(out, b.history)
	return out
}

func (b *Bot) Knowledge() *knowledge.Base {
	return b.kb
}

type sourceKey struct{}

// WithSource labels queries made with ctx, e.g. "shell" or "telegram".
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func SourceFrom(ctx context.Context) string {
	s, _ := ctx.Value(sourceKey{}).(string)
	return s
}
