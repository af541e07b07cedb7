package hierarchy

import (
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

// Category groups courses whose name contains one of Keywords
// (case-insensitive).
type Category struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

const ViewAll = "All"

func DefaultCategories() []Category {
	return []Category{
		{Name: "STEM", Keywords: []string{"Engineering", "BIT", "BCS", "Mathematics", "Biomedical science", "KOE", "IT"}},
		{Name: "Social Sciences", Keywords: []string{"Psychology", "Human Resources", "Human Sciences", "Communication"}},
		{Name: "Business", Keywords: []string{"Business Administration", "Accounting", "Banking Studies", "KENMS", "ENM"}},
		{Name: "Religious Studies", Keywords: []string{"Islamic education", "Pendidikan islam", "KIRKHS", "Usuluddin", "Fiqh", "Fiqh fatwa"}},
		{Name: "Law & Humanities", Keywords: []string{"Laws", "Law", "BENL", "ALA", "TAASL"}},
		{Name: "Healthcare", Keywords: []string{"Nursing", "Radiography", "MHSC"}},
	}
}

// Match picks the category for course. When keywords from several
// categories occur in the course name, the longest keyword wins and equal
// lengths go to the earlier category. Returns -1 when nothing matches.
func Match(categories []Category, course string) int {
	c := strings.ToLower(strings.TrimSpace(course))
	if c == "" {
		return -1
	}
	best, bestLen := -1, 0
	for i, cat := range categories {
		for _, k := range cat.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" || !strings.Contains(c, k) {
				continue
			}
			if len(k) > bestLen {
				best, bestLen = i, len(k)
			}
		}
	}
	return best
}

// Find looks a category up by name, case-insensitively.
func Find(categories []Category, name string) (Category, error) {
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return Category{}, &domain.UnknownError{Kind: "category", Value: name, Err: domain.ErrUnknownCategory}
}
