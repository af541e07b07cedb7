package domain

import "strings"

type Field string

const (
	FieldGender        Field = "gender"
	FieldAge           Field = "age"
	FieldCourse        Field = "course"
	FieldYear          Field = "year"
	FieldCGPA          Field = "cgpa"
	FieldMaritalStatus Field = "marital_status"
	FieldDepression    Field = "depression"
	FieldAnxiety       Field = "anxiety"
	FieldPanicAttack   Field = "panic_attack"
	FieldTreatment     Field = "treatment"
)

// Fields lists every selectable field in dashboard order.
var Fields = []Field{
	FieldGender,
	FieldYear,
	FieldCGPA,
	FieldDepression,
	FieldAnxiety,
	FieldPanicAttack,
	FieldMaritalStatus,
	FieldTreatment,
	FieldAge,
	FieldCourse,
}

var fieldLabels = map[Field]string{
	FieldGender:        "Gender",
	FieldAge:           "Age",
	FieldCourse:        "Course",
	FieldYear:          "Year of Study",
	FieldCGPA:          "CGPA",
	FieldMaritalStatus: "Marital status",
	FieldDepression:    "Depression",
	FieldAnxiety:       "Anxiety",
	FieldPanicAttack:   "Panic attack",
	FieldTreatment:     "Treatment",
}

// Label is the human-facing name used by the dashboard selectors.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// IsFlag reports whether the field holds a Yes/No answer.
func (f Field) IsFlag() bool {
	switch f {
	case FieldDepression, FieldAnxiety, FieldPanicAttack, FieldTreatment:
		return true
	}
	return false
}

// ParseField accepts a selector name ("cgpa") or a dashboard label ("Year of Study").
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if key == string(f) || key == strings.ToLower(f.Label()) {
			return f, nil
		}
	}
	return "", &UnknownError{Kind: "field", Value: s, Err: ErrUnknownField}
}

type StageKind string

const (
	StageYear      StageKind = "year"
	StageAge       StageKind = "age"
	StageCondition StageKind = "condition"
	StageTreatment StageKind = "treatment"
	StageCourse    StageKind = "course"
	StageGender    StageKind = "gender"
)

const (
	NoConditions       = "No Conditions"
	MultipleConditions = "Multiple Conditions"
	CombinationJoiner  = " + "
)
