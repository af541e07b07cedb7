package flow

import (
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

// Stage derives one dimension of a flow path. Assign returns false when
// the record has no valid value for it.
type Stage struct {
	Name   string
	Kind   domain.StageKind
	Assign func(r domain.Record) (string, bool)
}

const (
	SoughtTreatment = "Sought Treatment"
	NoTreatment     = "No Treatment"
	PanicAttack     = "Panic Attack"
)

type ageBracket struct {
	lo, hi int
	label  string
}

var ageBrackets = []ageBracket{
	{18, 20, "18-20"},
	{21, 22, "21-22"},
	{23, 24, "23-24"},
}

var YearStage = Stage{Name: "year", Kind: domain.StageYear, Assign: assignYear}

var AgeBracketStage = Stage{Name: "age", Kind: domain.StageAge, Assign: func(r domain.Record) (string, bool) {
	age, ok := normalize.Age(r.Age)
	if !ok {
		return "", false
	}
	for _, b := range ageBrackets {
		if age >= b.lo && age <= b.hi {
			return b.label, true
		}
	}
	return "", false
}}

// ConditionStage collapses the condition flags into No Conditions, one
// named condition, or Multiple Conditions.
var ConditionStage = Stage{Name: "condition", Kind: domain.StageCondition, Assign: func(r domain.Record) (string, bool) {
	flags := []struct {
		raw  string
		name string
	}{
		{r.Depression, "Depression"},
		{r.Anxiety, "Anxiety"},
		{r.PanicAttack, PanicAttack},
	}
	set := []string{}
	for _, f := range flags {
		if strings.TrimSpace(f.raw) == "" {
			return "", false
		}
		if normalize.Flag(f.raw) {
			set = append(set, f.name)
		}
	}
	switch len(set) {
	case 0:
		return domain.NoConditions, true
	case 1:
		return set[0], true
	default:
		return domain.MultipleConditions, true
	}
}}

var TreatmentStage = Stage{Name: "treatment", Kind: domain.StageTreatment, Assign: func(r domain.Record) (string, bool) {
	if strings.TrimSpace(r.Treatment) == "" {
		return "", false
	}
	if normalize.Flag(r.Treatment) {
		return SoughtTreatment, true
	}
	return NoTreatment, true
}}

var CourseStage = Stage{Name: "course", Kind: domain.StageCourse, Assign: titled(domain.FieldCourse)}

var GenderStage = Stage{Name: "gender", Kind: domain.StageGender, Assign: titled(domain.FieldGender)}

var stagesByName = map[string]Stage{
	YearStage.Name:       YearStage,
	AgeBracketStage.Name: AgeBracketStage,
	ConditionStage.Name:  ConditionStage,
	TreatmentStage.Name:  TreatmentStage,
	CourseStage.Name:     CourseStage,
	GenderStage.Name:     GenderStage,
}

// DefaultStages is study year -> age bracket -> condition -> treatment.
func DefaultStages() []Stage {
	return []Stage{YearStage, AgeBracketStage, ConditionStage, TreatmentStage}
}

func StageByName(name string) (Stage, error) {
	s, ok := stagesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Stage{}, &domain.UnknownError{Kind: "stage", Value: name, Err: domain.ErrUnknownStage}
	}
	return s, nil
}

// ParseStages resolves a comma separated list; empty means DefaultStages.
func ParseStages(list string) ([]Stage, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultStages(), nil
	}
	var out []Stage
	for _, name := range strings.Split(list, ",") {
		s, err := StageByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// StageNames lists the registered stage names.
func StageNames() []string {
	return []string{YearStage.Name, AgeBracketStage.Name, ConditionStage.Name, TreatmentStage.Name, CourseStage.Name, GenderStage.Name}
}

// assignYear accepts Year 1 through Year 4 only.
func assignYear(r domain.Record) (string, bool) {
	y := normalize.Year(r.YearOfStudy)
	if !strings.HasPrefix(y, "Year ") {
		return "", false
	}
	n, ok := normalize.YearNumber(y)
	if !ok || n < 1 || n > 4 {
		return "", false
	}
	return y, true
}

func titled(f domain.Field) func(domain.Record) (string, bool) {
	return func(r domain.Record) (string, bool) {
		v := normalize.Field(f, r.Value(f))
		if v == "" {
			return "", false
		}
		return normalize.Title(v), true
	}
}
