// Package aggregate builds frequency tables over single fields and over
// combinations of condition flags.
package aggregate

import (
	"sort"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

// Frequencies counts normalized values of field. Rows with an empty value
// are left out of both counts and the percentage denominator.
func Frequencies(records []domain.Record, field domain.Field) []domain.FrequencyEntry {
	t := newTally()
	for _, r := range records {
		if v := normalize.Field(field, r.Value(field)); v != "" {
			t.add(v)
		}
	}
	return t.entries(0)
}

// CrossTab breaks each value of field down by secondary. A row with a
// value for field but none for secondary counts toward the row total only.
func CrossTab(records []domain.Record, field, secondary domain.Field) []domain.CrossTabRow {
	primary := newTally()
	sub := map[string]*tally{}
	for _, r := range records {
		v := normalize.Field(field, r.Value(field))
		if v == "" {
			continue
		}
		primary.add(v)
		if sub[v] == nil {
			sub[v] = newTally()
		}
		if s := normalize.Field(secondary, r.Value(secondary)); s != "" {
			sub[v].add(s)
		}
	}

	rows := make([]domain.CrossTabRow, 0, len(primary.order))
	for _, v := range primary.order {
		total := primary.counts[v]
		rows = append(rows, domain.CrossTabRow{
			Value:     v,
			Label:     normalize.Title(v),
			Total:     total,
			Breakdown: sub[v].entries(total),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows
}
