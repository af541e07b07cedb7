package aggregate

import (
	"sort"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

var DefaultConditionFlags = []domain.Field{domain.FieldDepression, domain.FieldAnxiety, domain.FieldPanicAttack}

var conditionNames = map[domain.Field]string{
	domain.FieldDepression:  "Depression",
	domain.FieldAnxiety:     "Anxiety",
	domain.FieldPanicAttack: "Panic",
	domain.FieldTreatment:   "Treatment",
}

// ConditionName is the display name a flag contributes to a combination key.
func ConditionName(f domain.Field) string {
	if n, ok := conditionNames[f]; ok {
		return n
	}
	return f.Label()
}

// CombinationKey names the set of flags answered "yes": "No Conditions"
// when none are, otherwise the names sorted alphabetically and joined by
// " + ", so one combination never yields two keys.
func CombinationKey(r domain.Record, flags []domain.Field) string {
	var names []string
	for _, f := range flags {
		if normalize.Flag(r.Value(f)) {
			names = append(names, ConditionName(f))
		}
	}
	if len(names) == 0 {
		return domain.NoConditions
	}
	sort.Strings(names)
	return strings.Join(names, domain.CombinationJoiner)
}

// Combinations counts records per combination key with a per-gender
// breakdown. Every record has a key, so percentages are of all records.
func Combinations(records []domain.Record, flags []domain.Field) []domain.CombinationEntry {
	keys := newTally()
	genders := map[string]*tally{}
	for _, r := range records {
		k := CombinationKey(r, flags)
		keys.add(k)
		if genders[k] == nil {
			genders[k] = newTally()
		}
		if g := genderLabel(r); g != "" {
			genders[k].add(g)
		}
	}

	freq := keys.entries(len(records))
	out := make([]domain.CombinationEntry, 0, len(freq))
	for _, e := range freq {
		e.Label = e.Value
		out = append(out, domain.CombinationEntry{
			FrequencyEntry: e,
			Gender:         genders[e.Value].entries(e.Count),
		})
	}
	return out
}

// CombinationDetail is the gender breakdown behind a single key. An
// unknown key yields an empty slice.
func CombinationDetail(records []domain.Record, flags []domain.Field, key string) []domain.FrequencyEntry {
	for _, e := range Combinations(records, flags) {
		if e.Value == key {
			return e.Gender
		}
	}
	return []domain.FrequencyEntry{}
}

func genderLabel(r domain.Record) string {
	return normalize.Title(normalize.Case(r.Gender))
}
