package flow

import "github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"

// Registry hands out node ids by label in first-seen order.
type Registry struct {
	ids   map[string]int
	nodes []domain.Node
}

func NewRegistry() *Registry {
	return &Registry{ids: map[string]int{}}
}

// Ensure returns the id for label, registering it under stage if new.
func (r *Registry) Ensure(label string, stage domain.StageKind) int {
	if id, ok := r.ids[label]; ok {
		return id
	}
	id := len(r.nodes)
	r.ids[label] = id
	r.nodes = append(r.nodes, domain.Node{ID: id, Label: label, Stage: stage})
	return id
}

func (r *Registry) Lookup(label string) (int, bool) {
	id, ok := r.ids[label]
	return id, ok
}

func (r *Registry) Nodes() []domain.Node {
	out := make([]domain.Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// edgeSet keeps one edge per ordered pair, in first-observed order.
type edgeSet struct {
	index map[[2]int]int
	edges []domain.Edge
}

func newEdgeSet() *edgeSet {
	return &edgeSet{index: map[[2]int]int{}}
}

func (s *edgeSet) add(from, to int) {
	k := [2]int{from, to}
	if i, ok := s.index[k]; ok {
		s.edges[i].Weight++
		return
	}
	s.index[k] = len(s.edges)
	s.edges = append(s.edges, domain.Edge{Source: from, Target: to, Weight: 1})
}

// NewRegistryFrom rebuilds a lookup registry over an existing graph.
func NewRegistryFrom(g *domain.FlowGraph) *Registry {
	r := NewRegistry()
	for _, n := range g.Nodes {
		r.Ensure(n.Label, n.Stage)
	}
	return r
}
