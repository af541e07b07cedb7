// Package normalize turns raw survey answers into stable comparison keys.
// Every function here is total: input it cannot interpret is passed through.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

var (
	yearPrefix  = regexp.MustCompile(`^year\s*`)
	bareInteger = regexp.MustCompile(`^\d+$`)
	rangeExpr   = regexp.MustCompile(`(\d+\.?\d*)-(\d+\.?\d*)`)
	whitespace  = regexp.MustCompile(`\s+`)
	digits      = regexp.MustCompile(`\d+`)
)

// Case trims and lower-cases.
func Case(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Year maps "year 1", "Year1", "YEAR 1" and "1" to "Year 1". Anything whose
// remainder is not a bare integer is returned verbatim.
func Year(raw string) string {
	rest := yearPrefix.ReplaceAllString(Case(raw), "")
	if !bareInteger.MatchString(rest) {
		return raw
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("Year %d", n)
}

// YearNumber extracts the digits of a year label ("Year 3" -> 3).
func YearNumber(label string) (int, bool) {
	d := digits.FindString(label)
	if d == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Range rewrites "3.00 -3.49" style text as "3.00 - 3.49".
func Range(raw string) string {
	m := rangeExpr.FindStringSubmatch(whitespace.ReplaceAllString(raw, ""))
	if m == nil {
		return raw
	}
	lo, err1 := strconv.ParseFloat(m[1], 64)
	hi, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return raw
	}
	return fmt.Sprintf("%.2f - %.2f", lo, hi)
}

func Age(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Flag reports a case-insensitive "yes".
func Flag(raw string) bool {
	return Case(raw) == "yes"
}

// Title capitalises the first rune of each space-separated word.
func Title(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Field applies the normalization policy of f to raw. Empty stays empty.
func Field(f domain.Field, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch f {
	case domain.FieldCGPA:
		return Range(Case(raw))
	case domain.FieldYear:
		return Year(raw)
	case domain.FieldAge:
		return raw
	default:
		return Case(raw)
	}
}

// Recognized reports whether raw matched one of the patterns its field
// expects. Unrecognized values are still aggregated under their raw form.
func Recognized(f domain.Field, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	switch f {
	case domain.FieldCGPA:
		return rangeExpr.MatchString(whitespace.ReplaceAllString(raw, ""))
	case domain.FieldYear:
		return bareInteger.MatchString(yearPrefix.ReplaceAllString(Case(raw), ""))
	case domain.FieldAge:
		_, ok := Age(raw)
		return ok
	case domain.FieldDepression, domain.FieldAnxiety, domain.FieldPanicAttack, domain.FieldTreatment:
		c := Case(raw)
		return c == "yes" || c == "no"
	}
	return true
}
