// Package pipeline orchestrates the loss-run extraction flow: classify
// the document's lines of business, extract claims per LOB, patch WC
// gaps with the heuristic parser and flatten everything to output rows.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/lossrun/internal/cache"
	"github.com/ppiankov/lossrun/internal/extract"
	"github.com/ppiankov/lossrun/internal/llm"
	"github.com/ppiankov/lossrun/internal/model"
	"github.com/ppiankov/lossrun/internal/textsource"
	"github.com/ppiankov/lossrun/internal/worker"
)

// Pipeline runs the extraction flow for documents, one at a time.
type Pipeline struct {
	classifier *llm.Classifier
	extractor  *llm.FieldExtractor
	cfg        model.Config
}

// BatchResult accumulates rows across a batch run.
type BatchResult struct {
	Rows      map[model.LOB][]model.OutputRow
	Processed int
	Failed    int
}

// NewPipeline builds a pipeline from configuration. Provider
// misconfiguration is fatal here, before any document is touched.
func NewPipeline(cfg model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.Oracle))
	if err != nil {
		return nil, fmt.Errorf("configure oracle provider: %w", err)
	}
	return newPipeline(cfg, provider), nil
}

func newPipeline(cfg model.Config, provider llm.Provider) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
	}
	pacer := worker.NewPacer(cfg.Pacing.CallsPerSecond, cfg.Pacing.CallDelay)

	return &Pipeline{
		classifier: llm.NewClassifier(provider, c, pacer, cfg.Cache.TTL),
		extractor:  llm.NewFieldExtractor(provider, c, pacer, cfg.Cache.TTL, cfg.Chunk.MaxChars, cfg.Chunk.MinCut),
		cfg:        cfg,
	}
}

// ProcessDocument extracts all claim rows from one document, grouped by
// line of business. The row set may be empty; that is a valid outcome
// for a document with no recognizable claims.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc model.Document) (map[model.LOB][]model.OutputRow, error) {
	lobs := p.classifier.ClassifyLOBs(ctx, doc.Text)
	p.progressf("  detected lines of business: %v", lobs)

	rows := make(map[model.LOB][]model.OutputRow)
	for _, lob := range lobs {
		result := p.extractor.ExtractChunked(ctx, doc.Text, lob)

		// The WC heuristic only steps in when the oracle produced no
		// claims at all. Its scalars fill gaps, never overwrite.
		if lob == model.LOBWorkersComp && len(result.Claims) == 0 {
			heuristic := extract.HeuristicWC(doc.Text)
			if result.EvaluationDate == "" {
				result.EvaluationDate = heuristic.EvaluationDate
			}
			if result.Carrier == "" {
				result.Carrier = heuristic.Carrier
			}
			result.Claims = heuristic.Claims
		}

		docCarrier := result.Carrier
		if docCarrier == "" {
			docCarrier = extract.CarrierFromText(doc.Text)
		}
		if docCarrier == "" {
			docCarrier = extract.CarrierFromFilename(doc.Path)
		}
		p.progressf("  %s: %d claims, carrier %q", lob.Key(), len(result.Claims), docCarrier)

		for _, claim := range result.Claims {
			carrier := claim.Get("carrier")
			if carrier == "" {
				carrier = docCarrier
			}
			rows[lob] = append(rows[lob], model.OutputRow{
				LOB:            lob,
				EvaluationDate: result.EvaluationDate,
				Carrier:        carrier,
				Claim:          claim,
				SourceFile:     doc.Path,
			})
		}
	}
	return rows, nil
}

// ProcessFile loads one file and runs it through the pipeline.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (map[model.LOB][]model.OutputRow, error) {
	doc, err := textsource.Load(path)
	if err != nil {
		return nil, err
	}
	if doc.UsedOCR {
		fmt.Fprintf(os.Stderr, "Warning: %s has a thin PDF text layer, extraction quality will suffer\n", path)
	}
	p.progressf("Processing %s (%d chars)", path, len(doc.Text))
	return p.ProcessDocument(ctx, doc)
}

// ProcessBatch runs every file sequentially. A file that fails to load
// or process is logged and skipped; the batch carries on.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) (*BatchResult, error) {
	batch := &BatchResult{Rows: make(map[model.LOB][]model.OutputRow)}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		rows, err := p.ProcessFile(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			batch.Failed++
			continue
		}
		for lob, group := range rows {
			batch.Rows[lob] = append(batch.Rows[lob], group...)
		}
		batch.Processed++
	}
	return batch, nil
}

func (p *Pipeline) progressf(format string, args ...any) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
