package model

// Document is one input file: raw text plus extraction metadata.
// UsedOCR is informational only; nothing downstream branches on it.
type Document struct {
	Path    string
	Text    string
	UsedOCR bool
}

// ClaimRecord is one claim row keyed by schema field name. The oracle's
// output is trusted verbatim; fields absent from the record read as "".
type ClaimRecord map[string]string

// Get returns the value for field, or "" when the field is missing.
func (c ClaimRecord) Get(field string) string {
	return c[field]
}

// ExtractionResult is the per-(document, LOB) extraction output.
type ExtractionResult struct {
	EvaluationDate string        `json:"evaluation_date"`
	Carrier        string        `json:"carrier"`
	Claims         []ClaimRecord `json:"claims"`
}

// Merge folds another chunk's result into r. Scalars are first-known-wins:
// a later chunk never overwrites a populated value, but fills an empty one.
// Claims are appended in chunk order with no deduplication.
func (r *ExtractionResult) Merge(other ExtractionResult) {
	if r.EvaluationDate == "" && other.EvaluationDate != "" {
		r.EvaluationDate = other.EvaluationDate
	}
	if r.Carrier == "" && other.Carrier != "" {
		r.Carrier = other.Carrier
	}
	r.Claims = append(r.Claims, other.Claims...)
}

// OutputRow is one flattened claim tagged with its owning LOB and source.
type OutputRow struct {
	LOB            LOB
	EvaluationDate string
	Carrier        string
	Claim          ClaimRecord
	SourceFile     string
}

// Columns returns the output column order for a LOB's table.
func Columns(lob LOB) []string {
	cols := []string{"evaluation_date", "carrier"}
	cols = append(cols, SchemaFor(lob).ClaimFields...)
	return append(cols, "source_file")
}

// Values renders the row in Columns order.
func (r OutputRow) Values() []string {
	vals := []string{r.EvaluationDate, r.Carrier}
	for _, f := range SchemaFor(r.LOB).ClaimFields {
		vals = append(vals, r.Claim.Get(f))
	}
	return append(vals, r.SourceFile)
}
