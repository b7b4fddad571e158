package knowledge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trader-analyst/internal/domain"
)

func record(id, name, style, risk string, years int, winRate, sharpe, pnl, mdd float64, hour int, day string) domain.Record {
	return domain.Record{
		Profile: domain.Profile{
			TraderID: id, Name: name, TradingStyle: style, RiskTolerance: risk, YearsExperience: years,
		},
		Performance: domain.Performance{
			TraderID: id, TotalTrades: 10, WinRate: winRate, SharpeRatio: sharpe,
			TotalPnL: pnl, MaxDrawdownPct: mdd,
		},
		Pattern: domain.Pattern{TraderID: id, MostActiveHour: hour, MostActiveDay: day},
	}
}

func fixture() *Base {
	return New(map[string]domain.Record{
		"T003": record("T003", "박지훈", "장기투자", "저위험", 8, 70, 2.1, 5000, -5, 14, "Friday"),
		"T001": record("T001", "김민준", "단기매매", "중위험", 3, 55, 1.2, 1200, -12, 9, "Thursday"),
		"T002": record("T002", "이서연", "스윙트레이딩", "고위험", 5, 70, 0.4, -800, -30, 10, "Monday"),
		"T004": record("T004", "김T001", "단기매매", "중위험", 1, 40, -0.5, -2000, -45, 0, "thursday"),
	})
}

func ids(entries []domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.TraderID)
	}
	return out
}

func TestNew_SortsByTraderID(t *testing.T) {
	kb := fixture()
	assert.Equal(t, 4, kb.Len())
	assert.Equal(t, []string{"T001", "T002", "T003", "T004"}, ids(kb.All()))
}

func TestSearchByTrader(t *testing.T) {
	kb := fixture()

	e, err := kb.SearchByTrader("  t002 ")
	require.NoError(t, err)
	assert.Equal(t, "이서연", e.Profile.Name)

	e, err = kb.SearchByTrader("지훈")
	require.NoError(t, err)
	assert.Equal(t, "T003", e.TraderID)

	// first name match in ID order wins
	e, err = kb.SearchByTrader("김")
	require.NoError(t, err)
	assert.Equal(t, "T001", e.TraderID)

	_, err = kb.SearchByTrader("없는사람")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = kb.SearchByTrader("   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchByTrader_IDBeatsNameSubstring(t *testing.T) {
	kb := fixture()
	// "T001" is also a substring of T004's name
	e, err := kb.SearchByTrader("T001")
	require.NoError(t, err)
	assert.Equal(t, "T001", e.TraderID)
}

func TestSearchByTrader_Idempotent(t *testing.T) {
	kb := fixture()
	first, err1 := kb.SearchByTrader("서연")
	second, err2 := kb.SearchByTrader("서연")
	assert.Equal(t, err1, err2)
	assert.Equal(t, first, second)
}

func TestSearchByMetric(t *testing.T) {
	kb := fixture()

	assert.Equal(t, []string{"T002", "T003"}, ids(kb.SearchByMetric(domain.MetricWinRate, 60, ">")))
	assert.Equal(t, []string{"T004"}, ids(kb.SearchByMetric(domain.MetricWinRate, 50, "<")))
	assert.Equal(t, []string{"T002", "T003"}, ids(kb.SearchByMetric(domain.MetricWinRate, 70, "==")))
	assert.Empty(t, kb.SearchByMetric("no_such_metric", 0, ">"))
	assert.Empty(t, kb.SearchByMetric(domain.MetricWinRate, 0, ">="))
}

func TestTopPerformers(t *testing.T) {
	kb := fixture()

	desc := kb.TopPerformers(domain.MetricTotalPnL, 3, false)
	assert.Equal(t, []string{"T003", "T001", "T002"}, ids(desc))

	asc := kb.TopPerformers(domain.MetricTotalPnL, 4, true)
	assert.Equal(t, []string{"T004", "T002", "T001", "T003"}, ids(asc))

	full := kb.TopPerformers(domain.MetricTotalPnL, 4, false)
	for i, j := 0, len(full)-1; i < j; i, j = i+1, j-1 {
		full[i], full[j] = full[j], full[i]
	}
	assert.Equal(t, ids(asc), ids(full))
}

func TestTopPerformers_NonIncreasingAndExcludesNext(t *testing.T) {
	kb := fixture()
	top := kb.TopPerformers(domain.MetricSharpeRatio, 2, false)
	require.Len(t, top, 2)
	assert.GreaterOrEqual(t, top[0].Performance.SharpeRatio, top[1].Performance.SharpeRatio)

	third := kb.TopPerformers(domain.MetricSharpeRatio, 3, false)[2]
	assert.NotContains(t, ids(top), third.TraderID)
}

func TestTopPerformers_TiesKeepIDOrder(t *testing.T) {
	kb := fixture()
	top := kb.TopPerformers(domain.MetricWinRate, 2, false)
	assert.Equal(t, []string{"T002", "T003"}, ids(top))
}

func TestTopPerformers_Bounds(t *testing.T) {
	kb := fixture()
	assert.Len(t, kb.TopPerformers(domain.MetricWinRate, 10, false), 4)
	assert.Empty(t, kb.TopPerformers(domain.MetricWinRate, 0, false))
	assert.Empty(t, kb.TopPerformers(domain.MetricWinRate, -1, false))
	assert.Empty(t, kb.TopPerformers("bogus", 3, false))
}

func TestSearchByMetricComplex(t *testing.T) {
	kb := fixture()
	assert.Equal(t, []string{"T004"}, ids(kb.SearchByMetricComplex(domain.MetricMaxDrawdownPct, "asc", 1)))
	assert.Equal(t, []string{"T003"}, ids(kb.SearchByMetricComplex(domain.MetricMaxDrawdownPct, "desc", 1)))
}

func TestSearchByTimePattern(t *testing.T) {
	kb := fixture()
	assert.Equal(t, []string{"T001", "T002"}, ids(kb.SearchByTimePattern(9, 11)))
	assert.Equal(t, []string{"T004"}, ids(kb.SearchByTimePattern(0, 0)))
}

func TestSearchByWeekday(t *testing.T) {
	kb := fixture()
	assert.Equal(t, []string{"T001", "T004"}, ids(kb.SearchByWeekday("Thursday")))
	assert.Equal(t, []string{"T002"}, ids(kb.SearchByWeekday("mon")))
}

func TestSearchByPattern(t *testing.T) {
	kb := fixture()
	assert.Equal(t, []string{"T003"}, ids(kb.SearchByPattern("most_active_hour", "14")))
	assert.Equal(t, []string{"T002"}, ids(kb.SearchByPattern("most_active_day", "Monday")))
	assert.Empty(t, kb.SearchByPattern("unknown", "x"))
}

func TestFindSimilarNames(t *testing.T) {
	kb := fixture()

	// "김민수": 김 and 민 overlap with 김민준 (score 2), 김 with 김T001 (1 - 1 = 0)
	assert.Equal(t, []string{"김민준"}, kb.FindSimilarNames("김민수", 3))

	assert.Empty(t, kb.FindSimilarNames("ZZZ", 3))
	assert.Empty(t, kb.FindSimilarNames("김민수", 0))
}

func TestFindSimilarNames_OrderAndLimit(t *testing.T) {
	kb := New(map[string]domain.Record{
		"T001": record("T001", "abc", "", "", 0, 0, 0, 0, 0, 0, ""),
		"T002": record("T002", "abd", "", "", 0, 0, 0, 0, 0, 0, ""),
		"T003": record("T003", "xyz", "", "", 0, 0, 0, 0, 0, 0, ""),
		"T004": record("T004", "abcd", "", "", 0, 0, 0, 0, 0, 0, ""),
	})
	// abc: 3, abd: 2, abcd: 3 - 0.5 = 2.5, xyz: 0
	assert.Equal(t, []string{"abc", "abcd", "abd"}, kb.FindSimilarNames("abc", 5))
	assert.Equal(t, []string{"abc", "abcd"}, kb.FindSimilarNames("abc", 2))
}

func TestCompareTraders(t *testing.T) {
	kb := fixture()

	cmp, err := kb.CompareTraders("T003", "이서연")
	require.NoError(t, err)
	assert.Equal(t, "T003", cmp.First.TraderID)
	assert.Equal(t, "T002", cmp.Second.TraderID)
	assert.InDelta(t, 0, cmp.WinRateDiff, 1e-9)
	assert.InDelta(t, 1.7, cmp.SharpeDiff, 1e-9)
	assert.InDelta(t, 5800, cmp.PnLDiff, 1e-9)

	_, err = kb.CompareTraders("T003", "nobody")
	assert.ErrorIs(t, err, ErrNotComparable)
}

func TestFilterAndSummary(t *testing.T) {
	kb := fixture()

	assert.Equal(t, []string{"T001", "T004"}, ids(kb.Filter(Criteria{Style: "단기매매"})))
	assert.Equal(t, []string{"T002", "T003"}, ids(kb.Filter(Criteria{MinExperience: 4})))
	assert.Equal(t, []string{"T001", "T002"}, ids(kb.Filter(Criteria{MinExperience: 2, MaxExperience: 5})))
	assert.Len(t, kb.Filter(Criteria{}), 4)

	s := Summarize(kb.Filter(Criteria{Risk: "중위험"}))
	assert.Equal(t, 2, s.Traders)
	assert.InDelta(t, 47.5, s.AvgWinRate, 1e-9)
	assert.InDelta(t, 0.35, s.AvgSharpe, 1e-9)
	assert.InDelta(t, -800, s.TotalPnL, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, []string{"단기매매", "스윙트레이딩", "장기투자"}, kb.Styles())
	assert.Equal(t, []string{"중위험", "고위험", "저위험"}, kb.RiskLevels())
}

func TestBuildContext(t *testing.T) {
	kb := fixture()
	e, err := kb.SearchByTrader("T001")
	require.NoError(t, err)

	ctx := BuildContext("q", []domain.Entry{e})
	require.Equal(t, 1, ctx.Count)
	assert.Equal(t, "김민준", ctx.Traders[0].Name)
	assert.Equal(t, 9, ctx.Traders[0].Pattern.MostActiveHour)

	empty := BuildContext("q", nil)
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Traders)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	data, err := json.Marshal(map[string]domain.Record{
		"T010": record("T010", "정지아", "중기투자", "저위험", 4, 61.5, 1.1, 300, -8, 11, "Tuesday"),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	kb, err := Load(path)
	require.NoError(t, err)
	e, ok := kb.Get("T010")
	require.True(t, ok)
	assert.Equal(t, "정지아", e.Profile.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
