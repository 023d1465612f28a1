package app

import (
	"context"
	"time"

	"mapmerge/domain/hierarchy"
	"mapmerge/domain/merge"
	"mapmerge/domain/table"
	"mapmerge/internal"
	"mapmerge/internal/errors"
	"mapmerge/ports"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// MergeService runs the full reconciliation pipeline: read both workbooks,
// normalize, build hierarchy paths, merge, assemble the output workbook.
type MergeService struct {
	reader ports.WorkbookReader
	writer ports.WorkbookWriter
	logger *internal.Logger
}

// NewMergeService creates a merge service wired to workbook adapters.
func NewMergeService(reader ports.WorkbookReader, writer ports.WorkbookWriter, logger *internal.Logger) *MergeService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MergeService{reader: reader, writer: writer, logger: logger}
}

// MergeRequest names the two input workbooks and the output artifact.
type MergeRequest struct {
	SourcePath string
	TestPath   string
	OutputPath string
}

// MergeReport is the accounting for one completed run.
type MergeReport struct {
	RunID           string
	SourceSheets    int
	TestSheets      int
	SourceRows      int
	TestRows        int
	MatchedRows     int
	PrimaryFills    int
	FallbackRows    int
	FallbackFills   int
	Differences     int
	MeanFillsPerRow float64
	MaxFillsPerRow  float64
	OutputPath      string
	Duration        time.Duration
}

// Run executes one merge. Any error aborts the whole run before the output
// file is touched; there is no partial output.
func (s *MergeService) Run(ctx context.Context, req MergeRequest) (*MergeReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	s.logger.Info("[MergeService] run %s: merging %s into %s", runID, req.SourcePath, req.TestPath)

	sourceWB, err := s.reader.ReadWorkbook(req.SourcePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIOError, errors.Wrapf(err, "failed to read source workbook %s", req.SourcePath))
	}
	testWB, err := s.reader.ReadWorkbook(req.TestPath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIOError, errors.Wrapf(err, "failed to read test workbook %s", req.TestPath))
	}

	sourceTable := table.Normalize(concatWorkbook(sourceWB))
	testTable := table.Normalize(concatWorkbook(testWB))

	if err := sourceTable.Validate("source"); err != nil {
		return nil, errors.WithCode(errors.CodeInputShape, err)
	}
	if err := testTable.Validate("test"); err != nil {
		return nil, errors.WithCode(errors.CodeInputShape, err)
	}

	if _, err := hierarchy.BuildPaths(sourceTable); err != nil {
		return nil, errors.WithCode(errors.CodeInputShape, errors.Wrap(err, "source table"))
	}
	if _, err := hierarchy.BuildPaths(testTable); err != nil {
		return nil, errors.WithCode(errors.CodeInputShape, errors.Wrap(err, "test table"))
	}

	result, err := merge.Merge(sourceTable, testTable)
	if err != nil {
		return nil, errors.Wrap(err, "merge failed")
	}

	out := &ports.OutputWorkbook{
		PassThrough: sourceWB.Sheets,
		Stripped:    merge.StrippedSource(sourceTable),
		Merged:      &table.Table{Headers: result.Columns, Rows: result.Rows},
		Differences: differencesTable(result.Differences),
	}
	if err := s.writer.WriteWorkbook(req.OutputPath, out); err != nil {
		return nil, errors.WithCode(errors.CodeIOError, errors.Wrapf(err, "failed to write output workbook %s", req.OutputPath))
	}

	report := s.buildReport(runID, req, sourceWB, testWB, result, time.Since(start))
	s.logger.Info("[MergeService] run %s: %d/%d test rows matched, %d primary fills, %d fallback fills, %d differences (%.2fms)",
		runID, report.MatchedRows, report.TestRows, report.PrimaryFills, report.FallbackFills,
		report.Differences, float64(report.Duration.Nanoseconds())/1e6)
	return report, nil
}

func (s *MergeService) buildReport(runID string, req MergeRequest, sourceWB, testWB *ports.Workbook, result *merge.Result, elapsed time.Duration) *MergeReport {
	report := &MergeReport{
		RunID:         runID,
		SourceSheets:  len(sourceWB.Sheets),
		TestSheets:    len(testWB.Sheets),
		SourceRows:    result.Stats.SourceRows,
		TestRows:      result.Stats.TestRows,
		MatchedRows:   result.Stats.MatchedRows,
		PrimaryFills:  result.Stats.PrimaryFills,
		FallbackRows:  result.Stats.FallbackRows,
		FallbackFills: result.Stats.FallbackFills,
		Differences:   len(result.Differences),
		OutputPath:    req.OutputPath,
		Duration:      elapsed,
	}
	if len(result.Stats.FillsPerRow) > 0 {
		if mean, err := stats.Mean(result.Stats.FillsPerRow); err == nil {
			report.MeanFillsPerRow = mean
		}
		if max, err := stats.Max(result.Stats.FillsPerRow); err == nil {
			report.MaxFillsPerRow = max
		}
	}
	return report
}

// concatWorkbook stacks every sheet of a workbook into one logical table,
// order-preserving.
func concatWorkbook(wb *ports.Workbook) *table.Table {
	tables := make([]*table.Table, len(wb.Sheets))
	for i, sheet := range wb.Sheets {
		tables[i] = table.FromCells(sheet.Cells)
	}
	return table.Concat(tables...)
}

// differencesTable renders the per-cell reconciliation report as a sheet-shaped
// table, one record per disagreeing cell in merge order.
func differencesTable(diffs []merge.Difference) *table.Table {
	t := &table.Table{
		Headers: []string{table.ColPath, table.ColXMLTag, "Column", "Test Value", "Source Value"},
	}
	for _, d := range diffs {
		t.Rows = append(t.Rows, table.Row{
			table.ColPath:   d.Path,
			table.ColXMLTag: d.Tag,
			"Column":        d.Column,
			"Test Value":    d.TestValue,
			"Source Value":  d.SourceValue,
		})
	}
	return t
}
