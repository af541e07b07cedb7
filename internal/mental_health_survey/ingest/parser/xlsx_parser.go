package parser

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

// ParseXLSX reads the first non-empty sheet of a workbook.
func ParseXLSX(ctx context.Context, path string) ([]domain.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &domain.LoadError{Source: path, Reason: "opening XLSX", Err: err}
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, &domain.LoadError{Source: path, Reason: "reading sheet " + sheet, Err: err}
		}
		if len(rows) == 0 {
			continue
		}
		return SchemaV1.Records(ctx, path+"#"+sheet, rows, true)
	}
	return nil, &domain.LoadError{Source: path, Reason: "no data found in XLSX"}
}
