package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

func complete() domain.Record {
	return domain.Record{
		Row: 1, Gender: "Female", Age: "19", Course: "BIT", YearOfStudy: "year 1", CGPA: "3.00 - 3.49",
		MaritalStatus: "No", Depression: "Yes", Anxiety: "No", PanicAttack: "No", Treatment: "No",
	}
}

func TestAuditCleanRecord(t *testing.T) {
	assert.Empty(t, Audit([]domain.Record{complete()}))
}

func TestAuditFindsMissingAndUnrecognized(t *testing.T) {
	r := complete()
	r.Row = 7
	r.Age = ""
	r.Depression = "sometimes"

	issues := Audit([]domain.Record{r})
	assert.Len(t, issues, 2)
	assert.Contains(t, issues, domain.RowIssue{Row: 7, Field: domain.FieldAge, Kind: domain.IssueFieldMissing})
	assert.Contains(t, issues, domain.RowIssue{Row: 7, Field: domain.FieldDepression, Kind: domain.IssueUnrecognizedValue, Detail: `"sometimes"`})

	sum := Summary(issues)
	assert.Equal(t, 1, sum[domain.IssueFieldMissing])
	assert.Equal(t, 1, sum[domain.IssueUnrecognizedValue])
}
