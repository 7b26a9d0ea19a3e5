package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/lossrun/internal/llm"
	"github.com/ppiankov/lossrun/internal/model"
)

type fakeOracle struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeOracle) Name() string { return "fake" }

func (f *fakeOracle) IsAvailable(ctx context.Context) bool { return f.err == nil }

func (f *fakeOracle) Complete(ctx context.Context, req llm.CompleteRequest) (*llm.CompleteResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	reply := f.replies[len(f.replies)-1]
	if f.calls <= len(f.replies) {
		reply = f.replies[f.calls-1]
	}
	return &llm.CompleteResponse{Text: reply, Model: "fake-model"}, nil
}

func testConfig() model.Config {
	cfg := *model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Pacing.CallsPerSecond = 0
	cfg.Pacing.CallDelay = 0
	return cfg
}

func TestProcessDocumentCarrierPrecedence(t *testing.T) {
	oracle := &fakeOracle{replies: []string{
		`{"lobs": ["AUTO"]}`,
		`{"evaluation_date": "2021-06-30", "carrier": "", "claims": [
			{"claim_number": "A1000", "carrier": "Override Mutual Insurance"},
			{"claim_number": "A2000"}
		]}`,
	}}
	p := newPipeline(testConfig(), oracle)

	doc := model.Document{
		Path: "northwind_loss_run.txt",
		Text: "Carrier: Acme Insurance\nsome auto claims follow\n",
	}
	rows, err := p.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}

	auto := rows[model.LOBAuto]
	if len(auto) != 2 {
		t.Fatalf("AUTO rows = %d, want 2", len(auto))
	}
	// Per-claim carrier wins; otherwise the document text's label.
	if auto[0].Carrier != "Override Mutual Insurance" {
		t.Errorf("row 0 carrier = %q", auto[0].Carrier)
	}
	if auto[1].Carrier != "Acme Insurance" {
		t.Errorf("row 1 carrier = %q", auto[1].Carrier)
	}
	if auto[0].EvaluationDate != "2021-06-30" || auto[1].EvaluationDate != "2021-06-30" {
		t.Errorf("evaluation dates = %q, %q", auto[0].EvaluationDate, auto[1].EvaluationDate)
	}
	if auto[0].SourceFile != doc.Path {
		t.Errorf("SourceFile = %q", auto[0].SourceFile)
	}
}

func TestProcessDocumentWCHeuristicFallback(t *testing.T) {
	// A dead oracle forces keyword classification and the tabular parser.
	p := newPipeline(testConfig(), &fakeOracle{err: errors.New("unreachable")})

	doc := model.Document{
		Path: "northwind_wc.txt",
		Text: "Workers Comp loss history\n" +
			"Evaluation Date: 06/30/2021\n" +
			"Claim Number   Loss Date   Indemnity Paid   Medical Paid\n" +
			"00012345   01/02/2021   $1,200.00   $300.50\n",
	}
	rows, err := p.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}

	wc := rows[model.LOBWorkersComp]
	if len(wc) != 1 {
		t.Fatalf("WC rows = %v, want 1", wc)
	}
	row := wc[0]
	if row.EvaluationDate != "06/30/2021" {
		t.Errorf("EvaluationDate = %q", row.EvaluationDate)
	}
	if got := row.Claim.Get("Indemnity_paid_loss"); got != "1,200.00" {
		t.Errorf("Indemnity_paid_loss = %q, want 1,200.00", got)
	}
	if got := row.Claim.Get("Medical_paid_loss"); got != "300.50" {
		t.Errorf("Medical_paid_loss = %q, want 300.50", got)
	}
	// Nothing in text or per-claim, so the file name is the last resort.
	if row.Carrier != "northwind wc" {
		t.Errorf("Carrier = %q, want filename inference", row.Carrier)
	}
}

func TestProcessDocumentWCOracleClaimsKeepHeuristicOut(t *testing.T) {
	oracle := &fakeOracle{replies: []string{
		`{"lobs": ["WC"]}`,
		`{"evaluation_date": "", "carrier": "Acme", "claims": [{"claim_number": "W1", "Indemnity_paid_loss": "10"}]}`,
	}}
	p := newPipeline(testConfig(), oracle)

	// Text with a parseable table that must NOT be used: the oracle found claims.
	doc := model.Document{
		Path: "wc.txt",
		Text: "Claim Number   Loss Date   Indemnity Paid\n99999   01/01/2020   $5.00\n",
	}
	rows, err := p.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	wc := rows[model.LOBWorkersComp]
	if len(wc) != 1 || wc[0].Claim.Get("claim_number") != "W1" {
		t.Fatalf("WC rows = %v, want only the oracle's claim", wc)
	}
}

func TestProcessBatchSkipsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "vehicle_claims.txt")
	content := "Vehicle collision report\nCarrier: Acme Insurance\n"
	if err := os.WriteFile(good, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newPipeline(testConfig(), nil)

	batch, err := p.ProcessBatch(context.Background(), []string{
		good,
		filepath.Join(dir, "missing.txt"),
	})
	if err != nil {
		t.Fatalf("ProcessBatch() error: %v", err)
	}
	if batch.Processed != 1 {
		t.Errorf("Processed = %d, want 1", batch.Processed)
	}
	if batch.Failed != 1 {
		t.Errorf("Failed = %d, want 1", batch.Failed)
	}
}

func TestProcessBatchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPipeline(testConfig(), nil)
	if _, err := p.ProcessBatch(ctx, []string{"whatever.txt"}); err == nil {
		t.Fatal("ProcessBatch() = nil error after cancellation")
	}
}

func TestNewPipelineRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Oracle.Provider = "bedrock"
	if _, err := NewPipeline(cfg); err == nil {
		t.Fatal("NewPipeline() = nil error for unknown provider")
	}
}
