// Package knowledge serves read-only lookups over the precomputed per-trader
// records. A Base is built once and never mutated, so concurrent readers may
// share it without locking.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/camuig/trader-analyst/internal/domain"
)

var (
	ErrNotFound      = errors.New("trader not found")
	ErrNotComparable = errors.New("traders not comparable")
)

// Base is an immutable snapshot over the knowledge store. Entries are kept
// in ascending trader-ID order, which fixes the result order of every scan.
type Base struct {
	entries []domain.Entry
	byID    map[string]int
}

// Load reads the knowledge store written by the analyzer.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge store: %w", err)
	}
	var records map[string]domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse knowledge store: %w", err)
	}
	return New(records), nil
}

func New(records map[string]domain.Record) *Base {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b := &Base{
		entries: make([]domain.Entry, 0, len(ids)),
		byID:    make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		b.entries = append(b.entries, domain.Entry{TraderID: id, Record: records[id]})
		b.byID[id] = i
	}
	return b
}

func (b *Base) Len() int {
	return len(b.entries)
}

// All returns every entry in trader-ID order. The slice is a copy.
func (b *Base) All() []domain.Entry {
	out := make([]domain.Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Get returns the entry stored under an exact trader ID.
func (b *Base) Get(traderID string) (domain.Entry, bool) {
	i, ok := b.byID[traderID]
	if !ok {
		return domain.Entry{}, false
	}
	return b.entries[i], true
}

// SearchByTrader resolves a trader ID or, failing that, the first trader
// whose name contains the query.
func (b *Base) SearchByTrader(query string) (domain.Entry, error) {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return domain.Entry{}, ErrNotFound
	}
	if e, ok := b.Get(q); ok {
		return e, nil
	}
	for _, e := range b.entries {
		if strings.Contains(strings.ToUpper(e.Profile.Name), q) {
			return e, nil
		}
	}
	return domain.Entry{}, ErrNotFound
}

// SearchByMetric keeps entries whose metric compares to threshold under op
// (">", "<" or "=="). Unknown metrics and operators match nothing.
func (b *Base) SearchByMetric(metric string, threshold float64, op string) []domain.Entry {
	var out []domain.Entry
	for _, e := range b.entries {
		v, ok := e.Performance.Metric(metric)
		if !ok {
			continue
		}
		var keep bool
		switch op {
		case ">":
			keep = v > threshold
		case "<":
			keep = v < threshold
		case "==":
			keep = v == threshold
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// TopPerformers sorts by metric, descending unless ascending is set, and
// returns the first n. Ties keep trader-ID order.
func (b *Base) TopPerformers(metric string, n int, ascending bool) []domain.Entry {
	type ranked struct {
		entry domain.Entry
		value float64
	}
	var all []ranked
	for _, e := range b.entries {
		if v, ok := e.Performance.Metric(metric); ok {
			all = append(all, ranked{entry: e, value: v})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if ascending {
			return all[i].value < all[j].value
		}
		return all[i].value > all[j].value
	})

	if n < 0 {
		n = 0
	}
	if n > len(all) {
		n = len(all)
	}
	out := make([]domain.Entry, 0, n)
	for _, r := range all[:n] {
		out = append(out, r.entry)
	}
	return out
}

// SearchByMetricComplex is TopPerformers with a textual order, "asc" or "desc".
func (b *Base) SearchByMetricComplex(metric, order string, n int) []domain.Entry {
	return b.TopPerformers(metric, n, order == "asc")
}

// SearchByTimePattern keeps entries whose most active hour is in [from, to].
func (b *Base) SearchByTimePattern(from, to int) []domain.Entry {
	var out []domain.Entry
	for _, e := range b.entries {
		if h := e.Pattern.MostActiveHour; h >= from && h <= to {
			out = append(out, e)
		}
	}
	return out
}

// SearchByWeekday keeps entries whose most active day contains day, ignoring case.
func (b *Base) SearchByWeekday(day string) []domain.Entry {
	d := strings.ToLower(day)
	var out []domain.Entry
	for _, e := range b.entries {
		active := e.Pattern.MostActiveDay
		if active != "" && strings.Contains(strings.ToLower(active), d) {
			out = append(out, e)
		}
	}
	return out
}

// SearchByPattern matches a pattern field by its string form.
func (b *Base) SearchByPattern(key, value string) []domain.Entry {
	var out []domain.Entry
	for _, e := range b.entries {
		var got string
		switch key {
		case "most_active_hour":
			got = fmt.Sprint(e.Pattern.MostActiveHour)
		case "most_active_day":
			got = e.Pattern.MostActiveDay
		case "avg_position_size":
			got = fmt.Sprint(e.Pattern.AvgPositionSize)
		default:
			continue
		}
		if got == value {
			out = append(out, e)
		}
	}
	return out
}
