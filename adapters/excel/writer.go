package excel

import (
	"fmt"

	"mapmerge/domain/table"
	"mapmerge/ports"

	"github.com/xuri/excelize/v2"
)

// Sheet names for the derived output sheets.
const (
	SheetStrippedSource = "Stripped Source"
	SheetMergedOutput   = "Merged Output"
	SheetDifferences    = "Differences"
)

// maxSheetNameLen is the hard limit the xlsx format puts on sheet names.
const maxSheetNameLen = 31

// Writer assembles and saves the output workbook.
type Writer struct{}

// NewWriter creates a workbook writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteWorkbook saves the assembled result: pass-through Source sheets first,
// then Stripped Source, Merged Output, and (when non-empty) Differences.
func (w *Writer) WriteWorkbook(path string, out *ports.OutputWorkbook) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	addSheet := func(name string, cells [][]string) error {
		name = TruncateSheetName(name)
		if first {
			// A new excelize file starts with a default Sheet1; reuse it
			// for the first output sheet so no empty sheet is left behind.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		for i, row := range cells {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return fmt.Errorf("failed to address row %d of sheet %q: %w", i+1, name, err)
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of sheet %q: %w", i+1, name, err)
			}
		}
		return nil
	}

	for _, sheet := range out.PassThrough {
		if err := addSheet(sheet.Name, sheet.Cells); err != nil {
			return err
		}
	}
	if out.Stripped != nil {
		if err := addSheet(SheetStrippedSource, tableCells(out.Stripped)); err != nil {
			return err
		}
	}
	if out.Merged != nil {
		if err := addSheet(SheetMergedOutput, tableCells(out.Merged)); err != nil {
			return err
		}
	}
	if out.Differences != nil && len(out.Differences.Rows) > 0 {
		if err := addSheet(SheetDifferences, tableCells(out.Differences)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// TruncateSheetName clips a sheet name to the xlsx 31-character limit.
func TruncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxSheetNameLen {
		return name
	}
	return string(runes[:maxSheetNameLen])
}

// tableCells renders a table as raw rows in header order for writing.
func tableCells(t *table.Table) [][]string {
	if t == nil {
		return nil
	}
	cells := make([][]string, 0, len(t.Rows)+1)
	cells = append(cells, t.Headers)
	for _, row := range t.Rows {
		line := make([]string, len(t.Headers))
		for j, h := range t.Headers {
			line[j] = row[h]
		}
		cells = append(cells, line)
	}
	return cells
}
