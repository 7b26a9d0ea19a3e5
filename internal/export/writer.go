// Package export writes extracted claim rows to XLSX workbooks and a
// JSON dump, and regroups previously exported workbooks.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/lossrun/internal/model"
)

// lobDir returns the per-LOB output subdirectory. The auto directory is
// lowercase; the others use the short key.
func lobDir(lob model.LOB) string {
	if lob == model.LOBAuto {
		return "auto"
	}
	return lob.Key()
}

// WriteAll writes the per-LOB consolidated workbooks and the combined
// result.xlsx under dir. Groups without rows emit nothing; when every
// group is empty no workbook is written at all. A failure on one
// workbook is reported but does not stop the others.
func WriteAll(dir string, rows map[model.LOB][]model.OutputRow) error {
	any := false
	for _, lob := range model.AllLOBs {
		if len(rows[lob]) == 0 {
			continue
		}
		any = true

		sub := filepath.Join(dir, lobDir(lob))
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", sub, err)
		}
		path := filepath.Join(sub, lob.Key()+"_consolidated.xlsx")
		if err := writeWorkbook(path, map[model.LOB][]model.OutputRow{lob: rows[lob]}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed writing %s output: %v\n", lob.Key(), err)
		}
	}

	if !any {
		fmt.Fprintln(os.Stderr, "No claims found for any line of business, skipping result.xlsx")
		return nil
	}

	if err := writeWorkbook(filepath.Join(dir, "result.xlsx"), rows); err != nil {
		return fmt.Errorf("write combined workbook: %w", err)
	}
	return nil
}

// writeWorkbook writes one sheet per non-empty LOB group, in
// enumeration order, with the group's column header in row 1.
func writeWorkbook(path string, rows map[model.LOB][]model.OutputRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for _, lob := range model.AllLOBs {
		group := rows[lob]
		if len(group) == 0 {
			continue
		}
		sheet := lob.SheetName()
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		for col, h := range model.Columns(lob) {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
		}
		for i, row := range group {
			for col, v := range row.Values() {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("write row %d: %w", i+1, err)
				}
			}
		}
	}

	// The default sheet stays only if nothing else was created.
	if len(f.GetSheetList()) > 1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// jsonRow is the flattened envelope for the rows.json dump.
type jsonRow struct {
	LOB        string            `json:"lob"`
	SourceFile string            `json:"source_file"`
	Fields     map[string]string `json:"fields"`
}

// WriteJSON dumps every row to dir/rows.json, grouped in enumeration
// order. The dump is for diffing between runs; an all-empty batch still
// produces a file with an empty list.
func WriteJSON(dir string, rows map[model.LOB][]model.OutputRow) error {
	out := []jsonRow{}
	for _, lob := range model.AllLOBs {
		for _, row := range rows[lob] {
			fields := make(map[string]string)
			cols := model.Columns(lob)
			for i, v := range row.Values() {
				fields[cols[i]] = v
			}
			out = append(out, jsonRow{
				LOB:        string(lob),
				SourceFile: row.SourceFile,
				Fields:     fields,
			})
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, "rows.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
