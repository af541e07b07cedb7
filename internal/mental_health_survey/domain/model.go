package domain

// Record is one respondent's row. Values are raw strings as read from the
// dataset, trimmed of surrounding whitespace only.
type Record struct {
	Row           int    `json:"row"`
	Timestamp     string `json:"timestamp,omitempty"`
	Gender        string `json:"gender"`
	Age           string `json:"age"`
	Course        string `json:"course"`
	YearOfStudy   string `json:"year_of_study"`
	CGPA          string `json:"cgpa"`
	MaritalStatus string `json:"marital_status"`
	Depression    string `json:"depression"`
	Anxiety       string `json:"anxiety"`
	PanicAttack   string `json:"panic_attack"`
	Treatment     string `json:"treatment"`
}

// Value returns the raw value held for f, or "" for an unknown field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldGender:
		return r.Gender
	case FieldAge:
		return r.Age
	case FieldCourse:
		return r.Course
	case FieldYear:
		return r.YearOfStudy
	case FieldCGPA:
		return r.CGPA
	case FieldMaritalStatus:
		return r.MaritalStatus
	case FieldDepression:
		return r.Depression
	case FieldAnxiety:
		return r.Anxiety
	case FieldPanicAttack:
		return r.PanicAttack
	case FieldTreatment:
		return r.Treatment
	}
	return ""
}

type FrequencyEntry struct {
	Value      string  `json:"value" yaml:"value"`
	Label      string  `json:"label" yaml:"label"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

type CrossTabRow struct {
	Value     string           `json:"value" yaml:"value"`
	Label     string           `json:"label" yaml:"label"`
	Total     int              `json:"total" yaml:"total"`
	Breakdown []FrequencyEntry `json:"breakdown" yaml:"breakdown"`
}

type CombinationEntry struct {
	FrequencyEntry `yaml:",inline"`
	Gender         []FrequencyEntry `json:"gender_breakdown" yaml:"gender_breakdown"`
}

type Node struct {
	ID    int       `json:"id" yaml:"id"`
	Label string    `json:"name" yaml:"name"`
	Stage StageKind `json:"category" yaml:"category"`
}

type Edge struct {
	Source int `json:"source" yaml:"source"`
	Target int `json:"target" yaml:"target"`
	Weight int `json:"value" yaml:"value"`
}

type FlowGraph struct {
	Stages  []StageKind `json:"stages" yaml:"stages"`
	Nodes   []Node      `json:"nodes" yaml:"nodes"`
	Edges   []Edge      `json:"links" yaml:"links"`
	Placed  int         `json:"placed" yaml:"placed"`
	Skipped int         `json:"skipped" yaml:"skipped"`
}

// OutWeight sums the weight of edges leaving node id.
func (g *FlowGraph) OutWeight(id int) int {
	total := 0
	for _, e := range g.Edges {
		if e.Source == id {
			total += e.Weight
		}
	}
	return total
}

// Matrix is a square co-occurrence matrix; Names[i] labels row and column i.
type Matrix struct {
	Names []string `json:"names" yaml:"names"`
	Cells [][]int  `json:"matrix" yaml:"matrix"`
}

func (m *Matrix) Index(name string) int {
	for i, n := range m.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Get returns the cell at (row, col) by name; unknown names read as 0.
func (m *Matrix) Get(row, col string) int {
	i, j := m.Index(row), m.Index(col)
	if i < 0 || j < 0 {
		return 0
	}
	return m.Cells[i][j]
}

// Symmetric reports whether the matrix is symmetric with a zero diagonal.
func (m *Matrix) Symmetric() bool {
	for i := range m.Cells {
		if m.Cells[i][i] != 0 {
			return false
		}
		for j := range m.Cells[i] {
			if m.Cells[i][j] != m.Cells[j][i] {
				return false
			}
		}
	}
	return true
}

type Metadata struct {
	Depression int `json:"depression" yaml:"depression"`
	Anxiety    int `json:"anxiety" yaml:"anxiety"`
	Panic      int `json:"panic" yaml:"panic"`
	Treatment  int `json:"treatment" yaml:"treatment"`
	Total      int `json:"total" yaml:"total"`
}

func (m *Metadata) Add(o Metadata) {
	m.Depression += o.Depression
	m.Anxiety += o.Anxiety
	m.Panic += o.Panic
	m.Treatment += o.Treatment
	m.Total += o.Total
}

type TreeNode struct {
	Name     string      `json:"name" yaml:"name"`
	Metadata Metadata    `json:"metadata" yaml:"metadata"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Child finds a direct child by name.
func (n *TreeNode) Child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// RowIssue records a row-level data problem absorbed during aggregation.
type RowIssue struct {
	Row    int    `json:"row" yaml:"row"`
	Field  Field  `json:"field" yaml:"field"`
	Kind   string `json:"kind" yaml:"kind"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

const (
	IssueFieldMissing      = "field_missing"
	IssueUnrecognizedValue = "unrecognized_value"
)
