package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/lossrun/internal/extract"
	"github.com/ppiankov/lossrun/internal/model"
)

// evalDateRe matches the evaluation-date labels seen across carrier
// workbook exports, with slashed, dashed, ISO or month-name values.
var evalDateRe = regexp.MustCompile(`(?i)\b(?:evaluation\s*date|as\s*of|report\s*date|run\s*date|valuation\s*date)\s*[:\-]?\s*([A-Za-z]{3,9}\s+\d{1,2},\s*\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2})`)

// columnSynonyms maps schema fields to the header labels carriers use
// for them. Lookup is exact-match first, then substring.
var columnSynonyms = map[string][]string{
	"claim_number":        {"claim number", "claim no", "claim#", "reference", "ref"},
	"loss_date":           {"loss date", "date of loss", "dol", "accident date"},
	"carrier":             {"carrier", "company", "insurer", "provider"},
	"paid_loss":           {"paid loss", "paid", "indemnity paid", "total paid"},
	"reserve":             {"reserve", "reserves", "loss reserve", "remaining reserve"},
	"alae":                {"alae", "allocated loss adjustment expense", "expense", "total expense"},
	"bi_paid_loss":        {"bodily injury paid loss", "bi paid", "paid bodily injury"},
	"pd_paid_loss":        {"property damage paid loss", "pd paid", "paid property damage"},
	"bi_reserve":          {"bodily injury reserves", "bi reserve", "bodily injury reserve"},
	"pd_reserve":          {"property damage reserves", "pd reserve", "property damage reserve"},
	"Indemnity_paid_loss": {"indemnity paid", "indemnity paid loss", "ind paid"},
	"Medical_paid_loss":   {"medical paid", "medical paid loss", "med paid"},
	"Indemnity_reserve":   {"indemnity reserve", "ind reserve"},
	"Medical_reserve":     {"medical reserve", "med reserve"},
	"ALAE":                {"alae", "allocated loss adjustment expense", "expense", "total expense"},
}

// DetectLOB guesses a workbook's line of business from its file name.
// Returns false when no LOB marker is present.
func DetectLOB(name string) (model.LOB, bool) {
	s := strings.ToUpper(name)
	switch {
	case strings.Contains(s, "AUTO") || strings.Contains(s, "AUTOMOBILE") || strings.Contains(s, "VEHICLE"):
		return model.LOBAuto, true
	case strings.Contains(s, "GENERAL LIABILITY") || strings.Contains(s, "GL") || strings.Contains(s, "CGL"):
		return model.LOBGeneralLiability, true
	case strings.Contains(s, "WORKERS COMP") || strings.Contains(s, "WORKERS COMPENSATION") || strings.Contains(s, "WC"):
		return model.LOBWorkersComp, true
	}
	return "", false
}

// Consolidate reads every .xlsx workbook in inputDir, regroups their
// rows by line of business and writes the standard output artifacts to
// outDir. Workbooks whose file name carries no LOB marker are skipped
// with a warning, as are unreadable ones.
func Consolidate(inputDir, outDir string) (map[model.LOB][]model.OutputRow, error) {
	paths, err := filepath.Glob(filepath.Join(inputDir, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", inputDir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .xlsx workbooks in %s", inputDir)
	}

	rows := make(map[model.LOB][]model.OutputRow)
	for _, path := range paths {
		name := filepath.Base(path)
		lob, ok := DetectLOB(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: cannot tell line of business from %s, skipping\n", name)
			continue
		}

		fileRows, err := readWorkbook(path, lob)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v, skipping\n", err)
			continue
		}
		rows[lob] = append(rows[lob], fileRows...)
	}

	if err := WriteAll(outDir, rows); err != nil {
		return nil, err
	}
	if err := WriteJSON(outDir, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// readWorkbook maps the first sheet of one workbook onto the LOB's
// schema. The first row is the header; rows where nothing maps are
// dropped.
func readWorkbook(path string, lob model.LOB) ([]model.OutputRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", filepath.Base(path))
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(cells) < 2 {
		return nil, nil
	}

	header := cells[0]
	fields := model.SchemaFor(lob).ClaimFields
	positions := make(map[string]int, len(fields)+1)
	for _, field := range append([]string{"carrier"}, fields...) {
		if i, ok := findColumn(header, columnSynonyms[field]); ok {
			positions[field] = i
		}
	}

	// Scalars hide in the cells, not the header, on most carrier exports.
	var all strings.Builder
	for _, row := range cells {
		all.WriteString(strings.Join(row, "\n"))
		all.WriteString("\n")
	}
	evalDate := ""
	if m := evalDateRe.FindStringSubmatch(all.String()); m != nil {
		evalDate = strings.TrimSpace(m[1])
	}
	sheetCarrier := extract.CarrierFromText(all.String())

	var rows []model.OutputRow
	for _, row := range cells[1:] {
		claim := make(model.ClaimRecord, len(fields))
		filled := false
		for _, field := range fields {
			i, ok := positions[field]
			if !ok || i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			claim[field] = v
			if v != "" {
				filled = true
			}
		}
		if !filled {
			continue
		}

		carrier := ""
		if i, ok := positions["carrier"]; ok && i < len(row) {
			carrier = strings.TrimSpace(row[i])
		}
		if carrier == "" {
			carrier = sheetCarrier
		}

		rows = append(rows, model.OutputRow{
			LOB:            lob,
			EvaluationDate: evalDate,
			Carrier:        carrier,
			Claim:          claim,
			SourceFile:     filepath.Base(path),
		})
	}
	return rows, nil
}

// findColumn locates a header cell by synonym: an exact match anywhere
// beats a substring match on the leftmost column.
func findColumn(header []string, candidates []string) (int, bool) {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, cand := range candidates {
		for i, h := range lower {
			if h == cand {
				return i, true
			}
		}
	}
	for i, h := range lower {
		for _, cand := range candidates {
			if strings.Contains(h, cand) {
				return i, true
			}
		}
	}
	return 0, false
}
