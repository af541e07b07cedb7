package parser

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

// Parse loads a dataset, choosing the reader by file extension.
func Parse(ctx context.Context, path string) ([]domain.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(ctx, path)
	case ".csv", ".tsv", ".txt", "":
		return ParseCSV(ctx, path)
	default:
		return nil, &domain.LoadError{Source: path, Reason: "unsupported dataset format " + filepath.Ext(path)}
	}
}

// SupportedFormats lists the extensions Parse accepts.
func SupportedFormats() []string { return []string{"csv", "tsv", "txt", "xlsx", "xlsm"} }
