package validator

import (
	"fmt"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

// Audit lists row-level problems. None of them is fatal: a missing value
// drops the row from aggregates over that field, an unrecognized value is
// aggregated under its raw form.
func Audit(records []domain.Record) []domain.RowIssue {
	issues := []domain.RowIssue{}
	for _, r := range records {
		for _, f := range domain.Fields {
			v := r.Value(f)
			if strings.TrimSpace(v) == "" {
				issues = append(issues, domain.RowIssue{Row: r.Row, Field: f, Kind: domain.IssueFieldMissing})
				continue
			}
			if !normalize.Recognized(f, v) {
				issues = append(issues, domain.RowIssue{
					Row:    r.Row,
					Field:  f,
					Kind:   domain.IssueUnrecognizedValue,
					Detail: fmt.Sprintf("%q", v),
				})
			}
		}
	}
	return issues
}

// Summary counts issues per kind.
func Summary(issues []domain.RowIssue) map[string]int {
	out := map[string]int{}
	for _, i := range issues {
		out[i.Kind]++
	}
	return out
}
