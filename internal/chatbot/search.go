package chatbot

import (
	"regexp"
	"strings"

	"github.com/camuig/trader-analyst/internal/domain"
	"github.com/camuig/trader-analyst/internal/intent"
	"github.com/camuig/trader-analyst/internal/knowledge"
)

// Outcome tells callers how a result set was obtained.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	// OutcomeDegraded means the query did not resolve as asked and a filter
	// or default selection was substituted.
	OutcomeDegraded Outcome = "degraded"
	OutcomeNotFound Outcome = "not_found"
)

const (
	rankingSize   = 3
	stableSize    = 3
	suggestions   = 3
	morningFrom   = 9
	morningTo     = 11
	activeWeekday = "Thursday"
)

var (
	traderIDPattern = regexp.MustCompile(`T\d{3}`)
	particlePattern = regexp.MustCompile(`([가-힣]{2,4})(와|과|을|를|이|가|은|는)`)
	namePattern     = regexp.MustCompile(`[가-힣]{2,4}`)
)

var nonNameWords = map[string]bool{
	"비교": true,
	"해줘": true,
	"알려": true,
	"분석": true,
	"차이": true,
	"어때": true,
}

// Result is the traders selected for one query.
type Result struct {
	Intent      intent.Intent
	Outcome     Outcome
	Entries     []domain.Entry
	Suggestions []string
	Comparison  *knowledge.Comparison
}

// Search selects the traders a classified query refers to.
func Search(kb *knowledge.Base, query string, in intent.Intent) Result {
	res := Result{Intent: in, Outcome: OutcomeResolved}

	switch in.Type {
	case intent.TypeRanking:
		metric := in.Metric
		if metric == intent.MetricNone {
			metric = domain.MetricTotalPnL
		}
		res.Entries = kb.TopPerformers(metric, rankingSize, in.Filter == intent.FilterLowest)

	case intent.TypePattern:
		switch in.Filter {
		case intent.FilterMorning:
			res.Entries = kb.SearchByTimePattern(morningFrom, morningTo)
		case intent.FilterThursday:
			res.Entries = kb.SearchByWeekday(activeWeekday)
		default:
			res.Entries = kb.All()
		}

	case intent.TypeComparison:
		searchComparison(kb, query, &res)

	case intent.TypeLookup:
		searchLookup(kb, query, in.Filter, &res)

	default:
		res.Entries = kb.All()
	}

	if len(res.Entries) == 0 {
		res.Outcome = OutcomeNotFound
	}
	return res
}

func searchComparison(kb *knowledge.Base, query string, res *Result) {
	names := ExtractNames(query)
	if len(names) >= 2 {
		if cmp, err := kb.CompareTraders(names[0], names[1]); err == nil {
			res.Entries = []domain.Entry{cmp.First, cmp.Second}
			res.Comparison = &cmp
			return
		}
	}

	all := kb.All()
	res.Entries = all[:min(2, len(all))]
	res.Outcome = OutcomeDegraded
}

func searchLookup(kb *knowledge.Base, query string, filter intent.Filter, res *Result) {
	if id := traderIDPattern.FindString(strings.ToUpper(query)); id != "" {
		if e, err := kb.SearchByTrader(id); err == nil {
			res.Entries = []domain.Entry{e}
			return
		}
	}
	if e, err := kb.SearchByTrader(query); err == nil {
		res.Entries = []domain.Entry{e}
		return
	}

	switch filter {
	case intent.FilterMorning:
		res.Entries = kb.SearchByTimePattern(morningFrom, morningTo)
	case intent.FilterThursday:
		res.Entries = kb.SearchByWeekday(activeWeekday)
	case intent.FilterStable:
		// drawdown pct is never positive, so descending puts the smallest loss first
		res.Entries = kb.TopPerformers(domain.MetricMaxDrawdownPct, stableSize, false)
	}
	if len(res.Entries) > 0 {
		res.Outcome = OutcomeDegraded
		return
	}

	target := query
	if names := ExtractNames(query); len(names) > 0 {
		target = names[0]
	}
	res.Suggestions = kb.FindSimilarNames(target, suggestions)
}

// ExtractNames pulls candidate Korean names out of a query: a trailing
// particle is split off every two to four syllable run, then helper verbs
// are dropped.
func ExtractNames(query string) []string {
	cleaned := particlePattern.ReplaceAllString(query, "$1 ")
	var names []string
	for _, token := range namePattern.FindAllString(cleaned, -1) {
		if !nonNameWords[token] {
			names = append(names, token)
		}
	}
	return names
}
