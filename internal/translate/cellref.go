package translate

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerRows is the number of rows above the first data row: row 1 holds
// column names, data starts at row 2.
const headerRows = 1

// cellName renders 1-based coordinates as an A1 reference.
func cellName(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

// absCellName renders 1-based coordinates as an anchored reference such as
// $A$2. Indexed references export anchored so the importer can tell a fixed
// row apart from the formula's own row.
func absCellName(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row, true)
}

// splitRef splits an optionally sheet-qualified reference into its sheet
// (possibly empty) and cell part, stripping absolute-reference markers.
func splitRef(ref string) (sheetName, cellPart string) {
	cellPart = ref
	if i := strings.IndexByte(ref, '!'); i >= 0 {
		sheetName = strings.Trim(ref[:i], "'")
		cellPart = ref[i+1:]
	}
	return sheetName, strings.ReplaceAll(cellPart, "$", "")
}

// parseCell returns the 1-based column and row of an A1 cell reference.
func parseCell(cellPart string) (col, row int, err error) {
	colName, row, err := excelize.SplitCellName(cellPart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q: %w", cellPart, err)
	}
	col, err = excelize.ColumnNameToNumber(colName)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q: %w", cellPart, err)
	}
	return col, row, nil
}

// parseRange returns the corners of an A1 range such as C2:C4.
func parseRange(cellPart string) (c1, r1, c2, r2 int, err error) {
	start, end, ok := strings.Cut(cellPart, ":")
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("invalid range %q", cellPart)
	}
	c1, r1, err = parseCell(start)
	if err != nil {
		return
	}
	c2, r2, err = parseCell(end)
	return
}
