package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

var stageColors = map[domain.StageKind]string{
	domain.StageYear:      "#eef6ff",
	domain.StageAge:       "#e8f5e9",
	domain.StageCondition: "#fff3cd",
	domain.StageTreatment: "#f3e5f5",
	domain.StageCourse:    "#e0f7fa",
	domain.StageGender:    "#fce4ec",
}

// ToDOT renders a flow graph left to right, one rank per stage.
func ToDOT(g *domain.FlowGraph, title string) string {
	var b strings.Builder
	b.WriteString("digraph G {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label=%q; fontname="Helvetica";`, title))
		b.WriteString("\n")
	}

	byStage := map[domain.StageKind][]domain.Node{}
	for _, n := range g.Nodes {
		byStage[n.Stage] = append(byStage[n.Stage], n)
	}
	for _, st := range g.Stages {
		nodes := byStage[st]
		if len(nodes) == 0 {
			continue
		}
		b.WriteString("  { rank=same;\n")
		for _, n := range nodes {
			fill := stageColors[n.Stage]
			if fill == "" {
				fill = "#ffffff"
			}
			b.WriteString(fmt.Sprintf(`    n%d [label=%q, style="rounded,filled", fillcolor=%q];`+"\n", n.ID, n.Label, fill))
		}
		delete(byStage, st)
		b.WriteString("  }\n")
	}

	for _, e := range g.Edges {
		b.WriteString(fmt.Sprintf(`  n%d -> n%d [label="%d", penwidth=%.1f];`+"\n",
			e.Source, e.Target, e.Weight, penWidth(e.Weight)))
	}

	b.WriteString("}\n")
	return b.String()
}

func WriteDOT(path string, g *domain.FlowGraph, title string) error {
	return os.WriteFile(path, []byte(ToDOT(g, title)), 0o644)
}

func penWidth(w int) float64 {
	p := 1 + float64(w)/10
	if p > 8 {
		return 8
	}
	return p
}
