package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/lossrun/internal/cache"
	"github.com/ppiankov/lossrun/internal/chunk"
	"github.com/ppiankov/lossrun/internal/model"
	"github.com/ppiankov/lossrun/internal/worker"
)

// FieldExtractor pulls structured claim records out of document text for
// one line of business at a time. Extraction degrades to a zero-value
// result on any oracle failure; the orchestrator's heuristics take over
// from there.
type FieldExtractor struct {
	provider  Provider
	cache     cache.Cache
	pacer     *worker.Pacer
	cacheTTL  time.Duration
	maxChars  int
	minCut    int
	maxTokens int
}

// NewFieldExtractor creates a field extractor. Provider may be nil;
// extraction then always yields the zero-value result. maxChars and
// minCut of 0 take the chunker defaults.
func NewFieldExtractor(provider Provider, c cache.Cache, pacer *worker.Pacer, cacheTTL time.Duration, maxChars, minCut int) *FieldExtractor {
	if maxChars <= 0 {
		maxChars = chunk.DefaultMaxChars
	}
	if minCut <= 0 {
		minCut = chunk.DefaultMinCut
	}
	return &FieldExtractor{
		provider:  provider,
		cache:     c,
		pacer:     pacer,
		cacheTTL:  cacheTTL,
		maxChars:  maxChars,
		minCut:    minCut,
		maxTokens: 4000,
	}
}

// extractionPrompt renders the per-LOB schema skeleton with fields in
// declaration order. encoding/json would sort map keys, so the skeleton
// is built by hand.
func extractionPrompt(lob model.LOB, text string) string {
	schema := model.SchemaFor(lob)

	var b strings.Builder
	b.WriteString("Extract structured fields from the content for LoB=")
	b.WriteString(lob.Key())
	b.WriteString(".\nReturn STRICT JSON ONLY matching this schema:\n")
	b.WriteString("{\n  \"evaluation_date\": \"string\",\n  \"carrier\": \"string\",\n  \"claims\": [{\n")
	for i, field := range schema.ClaimFields {
		fmt.Fprintf(&b, "    %q: \"string\"", field)
		if i < len(schema.ClaimFields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  }]\n}\n")
	b.WriteString("Rules: ISO dates if possible; keep amounts/strings as-is; empty string if missing; preserve row order.\n")
	b.WriteString("IMPORTANT: Extract the carrier/company name from the content. This is critical.\n\nContent:\n")
	b.WriteString(text)
	return b.String()
}

// Extract runs a single-shot extraction over one piece of text. The
// result is never nil; any failure yields the zero-value result.
func (e *FieldExtractor) Extract(ctx context.Context, text string, lob model.LOB) *model.ExtractionResult {
	empty := &model.ExtractionResult{Claims: []model.ClaimRecord{}}
	if e.provider == nil {
		return empty
	}

	reply, err := e.complete(ctx, extractionPrompt(lob, text))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s extraction call failed: %v\n", lob.Key(), err)
		return empty
	}

	result, err := decodeExtraction(reply)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s extraction response rejected: %v\n", lob.Key(), err)
		return empty
	}
	if result.Claims == nil {
		result.Claims = []model.ClaimRecord{}
	}
	return result
}

// ExtractChunked splits the text, extracts each chunk independently and
// merges: first non-empty evaluation date and carrier win, claims append
// in chunk order. Claims repeated across a chunk boundary stay repeated.
func (e *FieldExtractor) ExtractChunked(ctx context.Context, text string, lob model.LOB) *model.ExtractionResult {
	parts := chunk.Split(text, e.maxChars, e.minCut)

	merged := &model.ExtractionResult{Claims: []model.ClaimRecord{}}
	for _, part := range parts {
		merged.Merge(*e.Extract(ctx, part, lob))
	}
	return merged
}

func (e *FieldExtractor) complete(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(e.provider.Name(), "", prompt)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return string(cached), nil
		}
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := e.provider.Complete(ctx, CompleteRequest{
		Prompt:    prompt,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return "", err
	}

	if e.cache != nil {
		if err := e.cache.Set(key, []byte(resp.Text), e.cacheTTL); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cache store failed: %v\n", err)
		}
	}
	return resp.Text, nil
}
