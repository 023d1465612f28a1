package excel

import (
	"fmt"
	"os"

	"mapmerge/ports"

	"github.com/xuri/excelize/v2"
)

// Reader loads .xlsx workbooks into raw sheet data.
type Reader struct{}

// NewReader creates a workbook reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadWorkbook reads every sheet of the workbook at path, in workbook order.
// Cells come back as display strings; empty sheets are kept so the caller can
// still pass them through to the output.
func (r *Reader) ReadWorkbook(path string) (*ports.Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("workbook not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &ports.Workbook{}
	for _, name := range f.GetSheetList() {
		cells, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q of %s: %w", name, path, err)
		}
		wb.Sheets = append(wb.Sheets, ports.Sheet{Name: name, Cells: cells})
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	return wb, nil
}
