// Package hierarchy groups records into a course-category -> study-year
// tree with condition counters rolled up to every ancestor.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

const RootName = "All Students"

// Build returns the "All Students" root. A record is placed under at most
// one category; records matching none, or lacking a study year, are left
// out of every counter. Categories without records are omitted.
func Build(records []domain.Record, categories []Category) *domain.TreeNode {
	groups := group(records, categories)

	root := &domain.TreeNode{Name: RootName, Children: []*domain.TreeNode{}}
	for i, cat := range categories {
		n := categoryNode(cat, groups[i])
		if n.Metadata.Total == 0 {
			continue
		}
		root.Children = append(root.Children, n)
	}
	rollUp(root)
	return root
}

// BuildView returns the full tree for "All", or one category node.
func BuildView(records []domain.Record, categories []Category, view string) (*domain.TreeNode, error) {
	if view == "" || strings.EqualFold(view, ViewAll) {
		return Build(records, categories), nil
	}
	cat, err := Find(categories, view)
	if err != nil {
		return nil, err
	}
	// group against every category so the tie-break matches the full tree
	for i, c := range categories {
		if c.Name == cat.Name {
			return categoryNode(cat, group(records, categories)[i]), nil
		}
	}
	return nil, &domain.UnknownError{Kind: "category", Value: view, Err: domain.ErrUnknownCategory}
}

// yearGroups keeps study-year leaves in first-seen order.
type yearGroups struct {
	order []string
	nodes map[string]*domain.TreeNode
}

func group(records []domain.Record, categories []Category) []*yearGroups {
	out := make([]*yearGroups, len(categories))
	for i := range out {
		out[i] = &yearGroups{nodes: map[string]*domain.TreeNode{}}
	}
	for _, r := range records {
		year := normalize.Year(strings.TrimSpace(r.YearOfStudy))
		if year == "" {
			continue
		}
		ci := Match(categories, r.Course)
		if ci < 0 {
			continue
		}
		g := out[ci]
		leaf, ok := g.nodes[year]
		if !ok {
			leaf = &domain.TreeNode{Name: year}
			g.nodes[year] = leaf
			g.order = append(g.order, year)
		}
		leaf.Metadata.Add(counters(r))
	}
	return out
}

func counters(r domain.Record) domain.Metadata {
	m := domain.Metadata{Total: 1}
	if normalize.Flag(r.Depression) {
		m.Depression = 1
	}
	if normalize.Flag(r.Anxiety) {
		m.Anxiety = 1
	}
	if normalize.Flag(r.PanicAttack) {
		m.Panic = 1
	}
	if normalize.Flag(r.Treatment) {
		m.Treatment = 1
	}
	return m
}

func categoryNode(cat Category, g *yearGroups) *domain.TreeNode {
	n := &domain.TreeNode{Name: cat.Name, Children: make([]*domain.TreeNode, 0, len(g.order))}
	for _, y := range g.order {
		n.Children = append(n.Children, g.nodes[y])
	}
	sortYears(n.Children)
	rollUp(n)
	return n
}

// sortYears orders by the number in the label; labels without digits go
// last, alphabetically.
func sortYears(nodes []*domain.TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, aok := normalize.YearNumber(nodes[i].Name)
		b, bok := normalize.YearNumber(nodes[j].Name)
		switch {
		case aok && bok:
			if a != b {
				return a < b
			}
			return nodes[i].Name < nodes[j].Name
		case aok != bok:
			return aok
		default:
			return nodes[i].Name < nodes[j].Name
		}
	})
}

// rollUp sets every non-leaf counter to the sum over its children.
func rollUp(n *domain.TreeNode) domain.Metadata {
	if len(n.Children) == 0 {
		return n.Metadata
	}
	var sum domain.Metadata
	for _, c := range n.Children {
		sum.Add(rollUp(c))
	}
	n.Metadata = sum
	return sum
}
