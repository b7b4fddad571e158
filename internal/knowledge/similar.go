package knowledge

import (
	"sort"
	"strings"
)

// FindSimilarNames suggests up to n stored names for a query that did not
// resolve. The score is a character-bag overlap, not an edit distance:
// each query rune present anywhere in the name counts 1, and every rune of
// length difference costs 0.5. Only positive scores are returned.
func (b *Base) FindSimilarNames(query string, n int) []string {
	q := []rune(strings.TrimSpace(query))

	type scored struct {
		name  string
		score float64
	}
	all := make([]scored, 0, len(b.entries))
	for _, e := range b.entries {
		name := e.Profile.Name
		common := 0
		for _, c := range q {
			if strings.ContainsRune(name, c) {
				common++
			}
		}
		diff := len([]rune(name)) - len(q)
		if diff < 0 {
			diff = -diff
		}
		all = append(all, scored{name: name, score: float64(common) - float64(diff)*0.5})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	if n > len(all) {
		n = len(all)
	}
	var out []string
	for _, s := range all[:max(n, 0)] {
		if s.score > 0 {
			out = append(out, s.name)
		}
	}
	return out
}
