package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

// Column binds one dataset header to a Record field.
type Column struct {
	Headers  []string // accepted header texts, first is canonical
	Required bool
	Set      func(r *domain.Record, v string)
}

// Schema is a versioned header-to-field mapping table.
type Schema struct {
	Version string
	Columns []Column
}

// SchemaV1 matches the student mental health survey export.
var SchemaV1 = Schema{
	Version: "v1",
	Columns: []Column{
		{Headers: []string{"Timestamp"}, Set: func(r *domain.Record, v string) { r.Timestamp = v }},
		{Headers: []string{"Choose your gender", "Gender"}, Required: true, Set: func(r *domain.Record, v string) { r.Gender = v }},
		{Headers: []string{"Age"}, Required: true, Set: func(r *domain.Record, v string) { r.Age = v }},
		{Headers: []string{"What is your course?", "Course"}, Required: true, Set: func(r *domain.Record, v string) { r.Course = v }},
		{Headers: []string{"Your current year of Study", "Year of Study"}, Required: true, Set: func(r *domain.Record, v string) { r.YearOfStudy = v }},
		{Headers: []string{"What is your CGPA?", "CGPA"}, Required: true, Set: func(r *domain.Record, v string) { r.CGPA = v }},
		{Headers: []string{"Marital status"}, Required: true, Set: func(r *domain.Record, v string) { r.MaritalStatus = v }},
		{Headers: []string{"Do you have Depression?"}, Required: true, Set: func(r *domain.Record, v string) { r.Depression = v }},
		{Headers: []string{"Do you have Anxiety?"}, Required: true, Set: func(r *domain.Record, v string) { r.Anxiety = v }},
		{Headers: []string{"Do you have Panic attack?"}, Required: true, Set: func(r *domain.Record, v string) { r.PanicAttack = v }},
		{Headers: []string{"Did you seek any specialist for a treatment?", "Treatment"}, Required: true, Set: func(r *domain.Record, v string) { r.Treatment = v }},
	},
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// bind resolves each schema column to its position in header, or -1.
func (s Schema) bind(source string, header []string) ([]int, error) {
	pos := map[string]int{}
	for i, h := range header {
		k := headerKey(h)
		if _, dup := pos[k]; !dup {
			pos[k] = i
		}
	}

	idx := make([]int, len(s.Columns))
	var missing []string
	for ci, col := range s.Columns {
		idx[ci] = -1
		for _, h := range col.Headers {
			if p, ok := pos[headerKey(h)]; ok {
				idx[ci] = p
				break
			}
		}
		if idx[ci] < 0 && col.Required {
			missing = append(missing, col.Headers[0])
		}
	}
	if len(missing) > 0 {
		return nil, &domain.LoadError{
			Source: source,
			Reason: fmt.Sprintf("missing required header(s): %s", strings.Join(missing, ", ")),
		}
	}
	return idx, nil
}

// Records maps a header row plus data rows onto typed records. Rows that
// are entirely blank are skipped. padShort tolerates rows that lost their
// trailing empty cells (spreadsheet readers drop them).
func (s Schema) Records(ctx context.Context, source string, rows [][]string, padShort bool) ([]domain.Record, error) {
	if len(rows) == 0 {
		return nil, &domain.LoadError{Source: source, Reason: "missing header row"}
	}
	header := rows[0]
	idx, err := s.bind(source, header)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, &domain.LoadError{Source: source, Reason: "cancelled", Err: err}
		}
		rowNum := i + 1
		if blank(row) {
			continue
		}
		if len(row) != len(header) && !(padShort && len(row) < len(header)) {
			return nil, &domain.LoadError{
				Source: source,
				Row:    rowNum,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(header), len(row)),
			}
		}

		rec := domain.Record{Row: rowNum}
		for ci, col := range s.Columns {
			p := idx[ci]
			if p < 0 || p >= len(row) {
				continue
			}
			col.Set(&rec, strings.TrimSpace(row[p]))
		}
		out = append(out, rec)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
