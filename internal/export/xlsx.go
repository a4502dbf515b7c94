package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alertops/socstats/internal/stats"
)

// tabMapSheet maps truncated sheet names back to full table names.
const tabMapSheet = "Tab Name Map"

// WriteXLSX writes tables to a workbook, one sheet per table. Sheet
// names are sanitized and bounded to the spreadsheet limit; the first
// sheet maps each tab back to its full table name. Colliding sanitized
// names get a timestamp suffix so no table is silently dropped.
func WriteXLSX(w io.Writer, tables []*stats.StatTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", tabMapSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(tabMapSheet, "A1", &[]interface{}{"tab", "table"}); err != nil {
		return err
	}

	used := map[string]bool{tabMapSheet: true}
	for i, table := range tables {
		sheet := table.SafeName()
		if used[sheet] {
			suffix := fmt.Sprintf("-%d", time.Now().UnixMilli()%100000)
			if len(sheet)+len(suffix) > 31 {
				sheet = sheet[:31-len(suffix)]
			}
			sheet += suffix
		}
		used[sheet] = true

		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, table); err != nil {
			return err
		}

		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(tabMapSheet, cell, &[]interface{}{sheet, table.Name}); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, table *stats.StatTable) error {
	header := make([]interface{}, 0, len(table.Columns)+1)
	header = append(header, "month")
	for _, c := range table.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, m := range table.Months {
		row := make([]interface{}, 0, len(table.Columns)+1)
		row = append(row, string(m))
		for _, c := range table.Columns {
			row = append(row, table.Value(m, c))
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
