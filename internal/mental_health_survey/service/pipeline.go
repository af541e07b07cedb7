package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/aggregate"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/flow"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/graph/export"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/hierarchy"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/ingest/parser"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/ingest/validator"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/matrix"
)

// Selection picks the parameterised parts of a run. Zero values mean
// gender frequencies, no cross-tab, default flow stages and the All view.
type Selection struct {
	Field  domain.Field `json:"field" yaml:"field"`
	By     domain.Field `json:"by,omitempty" yaml:"by,omitempty"`
	Stages []string     `json:"stages,omitempty" yaml:"stages,omitempty"`
	View   string       `json:"view,omitempty" yaml:"view,omitempty"`
}

type Result struct {
	RunID          string                    `json:"run_id" yaml:"run_id"`
	DatasetVersion string                    `json:"dataset_version,omitempty" yaml:"dataset_version,omitempty"`
	RecordCount    int                       `json:"record_count" yaml:"record_count"`
	Selection      Selection                 `json:"selection" yaml:"selection"`
	Frequencies    []domain.FrequencyEntry   `json:"frequencies" yaml:"frequencies"`
	CrossTab       []domain.CrossTabRow      `json:"cross_tab,omitempty" yaml:"cross_tab,omitempty"`
	Combinations   []domain.CombinationEntry `json:"combinations" yaml:"combinations"`
	Flow           *domain.FlowGraph         `json:"flow" yaml:"flow"`
	ConditionFlow  *domain.FlowGraph         `json:"condition_flow" yaml:"condition_flow"`
	Matrix         *domain.Matrix            `json:"matrix" yaml:"matrix"`
	Tree           *domain.TreeNode          `json:"tree" yaml:"tree"`
	Issues         []domain.RowIssue         `json:"issues" yaml:"issues"`
	IssueSummary   map[string]int            `json:"issue_summary" yaml:"issue_summary"`

	DOTPath string `json:"dot_path,omitempty" yaml:"dot_path,omitempty"`
}

// Analyze runs every builder over the same record slice.
func Analyze(ctx context.Context, records []domain.Record, sel Selection) (*Result, error) {
	if sel.Field == "" {
		sel.Field = domain.FieldGender
	}
	stages, err := flow.ParseStages(strings.Join(sel.Stages, ","))
	if err != nil {
		return nil, err
	}
	categories := hierarchy.DefaultCategories()
	view := sel.View
	if view == "" {
		view = hierarchy.ViewAll
	}
	tree, err := hierarchy.BuildView(records, categories, view)
	if err != nil {
		return nil, err
	}
	g, err := flow.Build(records, stages)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:         uuid.NewString(),
		RecordCount:   len(records),
		Selection:     sel,
		Frequencies:   aggregate.Frequencies(records, sel.Field),
		Combinations:  aggregate.Combinations(records, aggregate.DefaultConditionFlags),
		Flow:          g,
		ConditionFlow: flow.BuildConditionStatus(records),
		Matrix:        matrix.BuildDefault(records),
		Tree:          tree,
	}
	if sel.By != "" {
		res.CrossTab = aggregate.CrossTab(records, sel.Field, sel.By)
	}
	res.Issues = validator.Audit(records)
	res.IssueSummary = validator.Summary(res.Issues)

	// empty slices keep the JSON shape stable for clients
	if res.Frequencies == nil {
		res.Frequencies = []domain.FrequencyEntry{}
	}
	if res.Combinations == nil {
		res.Combinations = []domain.CombinationEntry{}
	}
	if res.Issues == nil {
		res.Issues = []domain.RowIssue{}
	}
	recordPipelineRun()
	NewLogger(ctx).LogInfof("analyze", "run_id=%s records=%d issues=%d", res.RunID, res.RecordCount, len(res.Issues))
	return res, nil
}

// AnalyzeFile loads path and writes analysis.json, analysis.yaml and
// flow.dot into outBaseDir/runs/<run id>.
func AnalyzeFile(ctx context.Context, path, outBaseDir string, sel Selection) (*Result, error) {
	log := NewLogger(ctx)
	records, err := parser.Parse(ctx, path)
	if err != nil {
		recordLoadFailure()
		log.LogError("analyze_file", err)
		return nil, err
	}
	res, err := Analyze(ctx, records, sel)
	if err != nil {
		return nil, err
	}
	if outBaseDir == "" {
		outBaseDir = "out"
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := WriteRun(filepath.Join(outBaseDir, "runs", res.RunID), title, res); err != nil {
		return nil, err
	}
	log.LogInfof("analyze_file", "run_id=%s records=%d placed=%d skipped=%d", res.RunID, res.RecordCount, res.Flow.Placed, res.Flow.Skipped)
	return res, nil
}

// WriteRun persists res into outDir.
func WriteRun(outDir, title string, res *Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	res.DOTPath = filepath.Join(outDir, "flow.dot")
	if err := export.WriteDOT(res.DOTPath, res.Flow, title); err != nil {
		return err
	}
	if err := export.WriteJSON(filepath.Join(outDir, "analysis.json"), res); err != nil {
		return err
	}
	return export.WriteYAML(filepath.Join(outDir, "analysis.yaml"), res)
}
