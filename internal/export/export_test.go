package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/lossrun/internal/model"
)

func autoRow(claimNumber, paid string) model.OutputRow {
	return model.OutputRow{
		LOB:            model.LOBAuto,
		EvaluationDate: "2021-06-30",
		Carrier:        "Acme Insurance",
		Claim: model.ClaimRecord{
			"claim_number": claimNumber,
			"loss_date":    "2021-01-02",
			"paid_loss":    paid,
		},
		SourceFile: "acme.txt",
	}
}

func TestWriteAllCreatesWorkbooks(t *testing.T) {
	dir := t.TempDir()
	rows := map[model.LOB][]model.OutputRow{
		model.LOBAuto: {autoRow("00012345", "1,200.00"), autoRow("00012346", "")},
		model.LOBWorkersComp: {{
			LOB:        model.LOBWorkersComp,
			Carrier:    "Acme Insurance",
			Claim:      model.ClaimRecord{"claim_number": "W9000", "Indemnity_paid_loss": "500"},
			SourceFile: "acme.txt",
		}},
	}

	if err := WriteAll(dir, rows); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}

	// Per-LOB workbooks for non-empty groups only.
	if _, err := os.Stat(filepath.Join(dir, "auto", "AUTO_consolidated.xlsx")); err != nil {
		t.Errorf("missing AUTO workbook: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "WC", "WC_consolidated.xlsx")); err != nil {
		t.Errorf("missing WC workbook: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "GL")); !os.IsNotExist(err) {
		t.Error("GL directory created for an empty group")
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "result.xlsx"))
	if err != nil {
		t.Fatalf("open result.xlsx: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "auto_claims" || sheets[1] != "wc_claims" {
		t.Fatalf("result.xlsx sheets = %v, want [auto_claims wc_claims]", sheets)
	}

	got, err := f.GetRows("auto_claims")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("auto_claims has %d rows, want header + 2", len(got))
	}
	wantHeader := []string{"evaluation_date", "carrier", "claim_number", "loss_date", "paid_loss", "reserve", "alae", "source_file"}
	for i, h := range wantHeader {
		if i >= len(got[0]) || got[0][i] != h {
			t.Fatalf("header = %v, want %v", got[0], wantHeader)
		}
	}
	if got[1][2] != "00012345" || got[1][4] != "1,200.00" {
		t.Errorf("first data row = %v", got[1])
	}
}

func TestWriteAllSkipsEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	if err := WriteAll(dir, map[model.LOB][]model.OutputRow{}); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "result.xlsx")); !os.IsNotExist(err) {
		t.Error("result.xlsx written for an empty batch")
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	rows := map[model.LOB][]model.OutputRow{
		model.LOBAuto: {autoRow("00012345", "1,200.00")},
	}

	if err := WriteJSON(dir, rows); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rows.json"))
	if err != nil {
		t.Fatal(err)
	}
	var out []struct {
		LOB        string            `json:"lob"`
		SourceFile string            `json:"source_file"`
		Fields     map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("rows.json not valid JSON: %v", err)
	}
	if len(out) != 1 || out[0].LOB != "AUTO" || out[0].Fields["claim_number"] != "00012345" {
		t.Fatalf("rows.json = %+v", out)
	}
}

func TestDetectLOB(t *testing.T) {
	tests := []struct {
		name string
		want model.LOB
		ok   bool
	}{
		{"AUTO_consolidated.xlsx", model.LOBAuto, true},
		{"fleet vehicle losses.xlsx", model.LOBAuto, true},
		{"CGL loss run 2021.xlsx", model.LOBGeneralLiability, true},
		{"workers comp claims.xlsx", model.LOBWorkersComp, true},
		{"WC_2020.xlsx", model.LOBWorkersComp, true},
		{"property schedule.xlsx", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectLOB(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DetectLOB(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestConsolidateRoundTrip(t *testing.T) {
	inputDir := t.TempDir()
	outDir := t.TempDir()

	// Build a source workbook with carrier-style headers.
	f := excelize.NewFile()
	const sheet = "Sheet1"
	cells := [][]string{
		{"Claim No", "Date of Loss", "Total Paid", "Reserve", "ALAE"},
		{"00012345", "01/02/2021", "1,200.00", "300.00", "50.00"},
		{"", "", "", "", ""},
	}
	for r, row := range cells {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(filepath.Join(inputDir, "auto losses 2021.xlsx")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rows, err := Consolidate(inputDir, outDir)
	if err != nil {
		t.Fatalf("Consolidate() error: %v", err)
	}

	got := rows[model.LOBAuto]
	if len(got) != 1 {
		t.Fatalf("AUTO rows = %d, want 1 (blank row dropped)", len(got))
	}
	if got[0].Claim.Get("claim_number") != "00012345" {
		t.Errorf("claim_number = %q", got[0].Claim.Get("claim_number"))
	}
	if got[0].Claim.Get("paid_loss") != "1,200.00" {
		t.Errorf("paid_loss = %q", got[0].Claim.Get("paid_loss"))
	}
	if got[0].SourceFile != "auto losses 2021.xlsx" {
		t.Errorf("SourceFile = %q", got[0].SourceFile)
	}

	if _, err := os.Stat(filepath.Join(outDir, "auto", "AUTO_consolidated.xlsx")); err != nil {
		t.Errorf("missing consolidated output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "result.xlsx")); err != nil {
		t.Errorf("missing combined output: %v", err)
	}
}
