// Package intent classifies a free-text question into a query type, an
// optional metric and an optional filter.
//
// Classification runs three passes in a fixed order: metric, then filter,
// then type. Type rules read the first two results, so the order is part of
// the contract. Within a pass the first matching rule wins.
package intent

import (
	"strings"

	"github.com/camuig/trader-analyst/internal/domain"
)

type Type string

const (
	TypeComparison Type = "comparison"
	TypeAdvice     Type = "advice"
	TypePattern    Type = "pattern"
	TypeRanking    Type = "ranking"
	TypeLookup     Type = "trader_query"
)

type Filter string

const (
	FilterNone     Filter = ""
	FilterHighest  Filter = "highest"
	FilterLowest   Filter = "lowest"
	FilterMorning  Filter = "morning"
	FilterThursday Filter = "thursday"
	FilterStable   Filter = "stable"
)

// MetricNone marks a query that named no metric.
const MetricNone = ""

// Intent is the classified form of a query.
type Intent struct {
	Type   Type   `json:"type"`
	Metric string `json:"metric,omitempty"`
	Filter Filter `json:"filter,omitempty"`
}

// Rule maps a predicate over the lower-cased query (and, for type rules, the
// already decided fields) to a value.
type Rule[T any] struct {
	Value T
	Match func(q string, partial Intent) bool
}

func containsAny(words ...string) func(string, Intent) bool {
	return func(q string, _ Intent) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}

// MetricRules are checked in order; win rate keywords shadow P&L keywords and so on.
var MetricRules = []Rule[string]{
	{domain.MetricWinRate, containsAny("승률", "win", "rate")},
	{domain.MetricTotalPnL, containsAny("수익", "profit", "pnl", "손익")},
	{domain.MetricMaxDrawdownPct, containsAny("mdd", "손실", "drawdown", "낙폭")},
	{domain.MetricSharpeRatio, containsAny("샤프", "sharpe")},
	{domain.MetricAvgHoldDays, containsAny("보유", "hold", "기간")},
}

var FilterRules = []Rule[Filter]{
	{FilterHighest, containsAny("높은", "high", "best", "많은", "긴", "큰")},
	{FilterLowest, containsAny("낮은", "low", "least", "적은", "짧은", "작은")},
	{FilterMorning, containsAny("아침", "morning", "9시", "10시")},
	{FilterThursday, containsAny("목요일", "thursday")},
	{FilterStable, containsAny("안정", "stable", "일관", "consistent")},
}

var (
	patternWords = containsAny("패턴", "스타일", "pattern", "style", "trend", "시간", "요일")
	rankingWords = containsAny("상위", "순위", "랭킹", "top", "rank", "best", "가장")
)

// TypeRules fall through to TypeLookup when none match.
var TypeRules = []Rule[Type]{
	{TypeComparison, containsAny("비교", "차이", "compare", "vs", "difference")},
	{TypeAdvice, containsAny("조언", "제안", "개선", "advice", "suggest", "improve", "배워야", "학습")},
	{TypePattern, func(q string, in Intent) bool {
		if in.Filter == FilterMorning || in.Filter == FilterThursday {
			return true
		}
		return in.Metric == MetricNone && patternWords(q, in)
	}},
	{TypeRanking, func(q string, in Intent) bool {
		return rankingWords(q, in) || (in.Metric != MetricNone && in.Filter != FilterNone)
	}},
}

func firstMatch[T any](rules []Rule[T], q string, partial Intent, fallback T) T {
	for _, r := range rules {
		if r.Match(q, partial) {
			return r.Value
		}
	}
	return fallback
}

// Classify is deterministic: the same query always yields the same Intent.
func Classify(query string) Intent {
	q := strings.ToLower(query)

	var in Intent
	in.Metric = firstMatch(MetricRules, q, in, MetricNone)
	in.Filter = firstMatch(FilterRules, q, in, FilterNone)
	in.Type = firstMatch(TypeRules, q, in, TypeLookup)
	return in
}
