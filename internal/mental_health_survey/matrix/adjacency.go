// Package matrix builds the symmetric age x condition co-occurrence matrix
// consumed by circular relationship diagrams.
package matrix

import (
	"fmt"
	"strconv"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

const (
	MinAge = 18
	MaxAge = 24
)

var DefaultConditions = []domain.Field{domain.FieldDepression, domain.FieldAnxiety, domain.FieldPanicAttack}

// AgeRange returns lo..hi inclusive.
func AgeRange(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for a := lo; a <= hi; a++ {
		out = append(out, a)
	}
	return out
}

// Build lays out ages first, then conditions. For each record whose age is
// in the set, every condition answered "yes" increments the age/condition
// cell and its mirror, so the result is symmetric with a zero diagonal.
// Ages outside the set contribute nothing.
func Build(records []domain.Record, ages []int, conditions []domain.Field) (*domain.Matrix, error) {
	if len(ages) == 0 || len(conditions) == 0 {
		return nil, fmt.Errorf("build matrix (%d ages, %d conditions): %w", len(ages), len(conditions), domain.ErrEmptyNodeSet)
	}

	ageIndex := make(map[int]int, len(ages))
	names := make([]string, 0, len(ages)+len(conditions))
	for i, a := range ages {
		ageIndex[a] = i
		names = append(names, strconv.Itoa(a))
	}
	for _, c := range conditions {
		names = append(names, c.Label())
	}

	n := len(names)
	cells := make([][]int, n)
	for i := range cells {
		cells[i] = make([]int, n)
	}

	offset := len(ages)
	for _, r := range records {
		age, ok := normalize.Age(r.Age)
		if !ok {
			continue
		}
		ai, ok := ageIndex[age]
		if !ok {
			continue
		}
		for ci, c := range conditions {
			if normalize.Flag(r.Value(c)) {
				cells[ai][offset+ci]++
				cells[offset+ci][ai]++
			}
		}
	}

	return &domain.Matrix{Names: names, Cells: cells}, nil
}

// BuildDefault covers ages 18-24 and the three condition flags.
func BuildDefault(records []domain.Record) *domain.Matrix {
	m, _ := Build(records, AgeRange(MinAge, MaxAge), DefaultConditions)
	return m
}
