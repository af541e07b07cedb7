package parser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

func ParseCSV(ctx context.Context, path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.LoadError{Source: path, Reason: "open", Err: err}
	}
	defer f.Close()
	return ParseCSVReader(ctx, path, f)
}

func ParseCSVBytes(ctx context.Context, source string, b []byte) ([]domain.Record, error) {
	return ParseCSVReader(ctx, source, bytes.NewReader(b))
}

// ParseCSVReader reads delimited text with a header row. The delimiter is
// detected from the header line among ',', ';' and '\t'.
func ParseCSVReader(ctx context.Context, source string, r io.Reader) ([]domain.Record, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, &domain.LoadError{Source: source, Reason: "read", Err: err}
	}

	cr := csv.NewReader(br)
	cr.Comma = detectDelimiter(first)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &domain.LoadError{Source: source, Reason: "malformed delimited text", Err: err}
	}
	return SchemaV1.Records(ctx, source, rows, false)
}

func detectDelimiter(sample []byte) rune {
	line := string(sample)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
