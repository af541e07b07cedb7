package aggregate

import (
	"sort"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

// tally counts values while remembering first-seen order for tie-breaks.
type tally struct {
	order  []string
	counts map[string]int
	total  int
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(v string) {
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
	t.total++
}

// entries returns counts sorted by descending count, ties in first-seen
// order. Percentages use denom (total when denom <= 0).
func (t *tally) entries(denom int) []domain.FrequencyEntry {
	if denom <= 0 {
		denom = t.total
	}
	out := make([]domain.FrequencyEntry, 0, len(t.order))
	for _, v := range t.order {
		c := t.counts[v]
		out = append(out, domain.FrequencyEntry{
			Value:      v,
			Label:      normalize.Title(v),
			Count:      c,
			Percentage: percent(c, denom),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}
