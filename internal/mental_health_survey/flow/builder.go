// Package flow builds multi-stage weighted flow graphs: nodes are the
// distinct stage values, edges the observed transitions between
// consecutive stages.
package flow

import (
	"fmt"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/normalize"
)

// Build places every record on exactly one path through stages, or skips
// it entirely when any stage cannot be assigned. Partial paths are never
// emitted.
func Build(records []domain.Record, stages []Stage) (*domain.FlowGraph, error) {
	if len(stages) < 2 {
		return nil, fmt.Errorf("build flow with %d stage(s): %w", len(stages), domain.ErrTooFewStages)
	}

	reg := NewRegistry()
	edges := newEdgeSet()
	g := &domain.FlowGraph{Stages: make([]domain.StageKind, len(stages))}
	for i, s := range stages {
		g.Stages[i] = s.Kind
	}

	path := make([]string, len(stages))
	for _, r := range records {
		if !assignPath(r, stages, path) {
			g.Skipped++
			continue
		}
		prev := reg.Ensure(path[0], stages[0].Kind)
		for i := 1; i < len(stages); i++ {
			cur := reg.Ensure(path[i], stages[i].Kind)
			edges.add(prev, cur)
			prev = cur
		}
		g.Placed++
	}

	g.Nodes = reg.Nodes()
	g.Edges = edges.edges
	if g.Edges == nil {
		g.Edges = []domain.Edge{}
	}
	return g, nil
}

func assignPath(r domain.Record, stages []Stage, path []string) bool {
	for i, s := range stages {
		v, ok := s.Assign(r)
		if !ok {
			return false
		}
		path[i] = v
	}
	return true
}

// BuildConditionStatus links each study year to "<Condition> - Yes" or
// "<Condition> - No" for every condition a record answered. Records
// without a valid study year are skipped.
func BuildConditionStatus(records []domain.Record) *domain.FlowGraph {
	conditions := []struct {
		name string
		get  func(domain.Record) string
	}{
		{"Depression", func(r domain.Record) string { return r.Depression }},
		{"Anxiety", func(r domain.Record) string { return r.Anxiety }},
		{PanicAttack, func(r domain.Record) string { return r.PanicAttack }},
	}

	reg := NewRegistry()
	edges := newEdgeSet()
	g := &domain.FlowGraph{Stages: []domain.StageKind{domain.StageYear, domain.StageCondition}}
	for _, r := range records {
		year, ok := assignYear(r)
		if !ok {
			g.Skipped++
			continue
		}
		from := reg.Ensure(year, domain.StageYear)
		for _, c := range conditions {
			raw := c.get(r)
			if strings.TrimSpace(raw) == "" {
				continue
			}
			status := "No"
			if normalize.Flag(raw) {
				status = "Yes"
			}
			to := reg.Ensure(c.name+" - "+status, domain.StageCondition)
			edges.add(from, to)
		}
		g.Placed++
	}
	g.Nodes = reg.Nodes()
	g.Edges = edges.edges
	if g.Edges == nil {
		g.Edges = []domain.Edge{}
	}
	return g
}
