package ports

import "mapmerge/domain/table"

// Sheet is one worksheet as raw text cells, first row being the header.
type Sheet struct {
	Name  string
	Cells [][]string
}

// Workbook is every sheet of one uploaded file, in workbook order.
type Workbook struct {
	Sheets []Sheet
}

// OutputWorkbook is the assembled result of one merge run: the original
// Source sheets passed through verbatim, followed by the derived sheets.
type OutputWorkbook struct {
	PassThrough []Sheet      // original Source sheets, in order
	Stripped    *table.Table // "Stripped Source"
	Merged      *table.Table // "Merged Output"
	Differences *table.Table // "Differences"; omitted when it has no rows
}

// WorkbookReader loads a workbook from disk.
type WorkbookReader interface {
	ReadWorkbook(path string) (*Workbook, error)
}

// WorkbookWriter persists an assembled output workbook.
type WorkbookWriter interface {
	WriteWorkbook(path string, out *OutputWorkbook) error
}
