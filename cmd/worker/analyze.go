package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/config"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/service"
)

type analyzeArgs struct {
	path   string
	outDir string
	sel    service.Selection
}

// parseAnalyzeArgs reads "<datasetPath> [outDir] [flags]". defaultOutDir is
// used when no outDir is given.
func parseAnalyzeArgs(args []string, defaultOutDir string) (*analyzeArgs, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	field := fs.String("field", "", "field for the frequency table")
	by := fs.String("by", "", "secondary field for a cross-tab")
	stages := fs.String("stages", "", "comma separated flow stages")
	view := fs.String("view", "", "hierarchy view")

	// positional arguments come first
	var positional []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		positional = append(positional, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positional = append(positional, fs.Args()...)
	if len(positional) < 1 {
		return nil, fmt.Errorf("missing dataset path")
	}

	out := &analyzeArgs{path: positional[0], outDir: defaultOutDir}
	if len(positional) > 1 {
		out.outDir = positional[1]
	}
	if *field != "" {
		f, err := domain.ParseField(*field)
		if err != nil {
			return nil, err
		}
		out.sel.Field = f
	}
	if *by != "" {
		f, err := domain.ParseField(*by)
		if err != nil {
			return nil, err
		}
		out.sel.By = f
	}
	if *stages != "" {
		out.sel.Stages = strings.Split(*stages, ",")
	}
	out.sel.View = *view
	return out, nil
}

// RunAnalyze writes run artifacts and prints a short JSON summary.
func RunAnalyze(args []string) {
	outDir := "out"
	if cfg, err := config.Load(); err != nil {
		log.Printf("[warn] operation=analyze config error=%v", err)
	} else {
		outDir = cfg.Dataset.OutDir
		service.SetLogLevel(cfg.App.LogLevel)
	}

	a, err := parseAnalyzeArgs(args, outDir)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}
	res, err := service.AnalyzeFile(context.Background(), a.path, a.outDir, a.sel)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(struct {
		RunID        string         `json:"run_id"`
		Records      int            `json:"records"`
		FlowPlaced   int            `json:"flow_placed"`
		FlowSkipped  int            `json:"flow_skipped"`
		IssueSummary map[string]int `json:"issue_summary"`
		DOTPath      string         `json:"dot_path"`
	}{res.RunID, res.RecordCount, res.Flow.Placed, res.Flow.Skipped, res.IssueSummary, res.DOTPath})
}
