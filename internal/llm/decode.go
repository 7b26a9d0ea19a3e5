package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ppiankov/lossrun/internal/model"
)

// extractionSchema validates the shape of a field extraction reply
// before any claim data is accepted from the model.
var extractionSchema = jsonschema.MustCompileString("extraction.json", `{
	"type": "object",
	"required": ["claims"],
	"properties": {
		"claims": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`)

// jsonObject pulls a JSON object out of a model reply. Models often wrap
// JSON in prose or markdown fences, so after a strict parse fails we
// retry on the substring between the first '{' and the last '}'.
func jsonObject(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return []byte(text), nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("malformed JSON object in response")
	}
	return []byte(candidate), nil
}

// decodeLOB parses a single line-of-business classification reply of
// the form {"lob": "..."}. Values outside the known set are rejected.
func decodeLOB(text string) (model.LOB, error) {
	raw, err := jsonObject(text)
	if err != nil {
		return "", err
	}

	var reply struct {
		LOB string `json:"lob"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("unmarshal classification: %w", err)
	}

	lob, ok := model.ParseLOB(reply.LOB)
	if !ok {
		return "", fmt.Errorf("unrecognized line of business: %q", reply.LOB)
	}
	return lob, nil
}

// decodeLOBs parses a multi-label classification reply of the form
// {"lobs": ["...", ...]}. Unknown entries are skipped, duplicates are
// collapsed, and insertion order is preserved.
func decodeLOBs(text string) ([]model.LOB, error) {
	raw, err := jsonObject(text)
	if err != nil {
		return nil, err
	}

	var reply struct {
		LOBs []string `json:"lobs"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("unmarshal classification: %w", err)
	}

	seen := make(map[model.LOB]bool, len(reply.LOBs))
	var lobs []model.LOB
	for _, s := range reply.LOBs {
		lob, ok := model.ParseLOB(s)
		if !ok || seen[lob] {
			continue
		}
		seen[lob] = true
		lobs = append(lobs, lob)
	}
	if len(lobs) == 0 {
		return nil, fmt.Errorf("no recognized lines of business in response")
	}
	return lobs, nil
}

// decodeExtraction parses and validates a field extraction reply,
// returning the claims alongside the document-level scalars. Numeric
// field values are preserved verbatim rather than re-rendered as
// floats.
func decodeExtraction(text string) (*model.ExtractionResult, error) {
	raw, err := jsonObject(text)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}
	if err := extractionSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("extraction does not match schema: %w", err)
	}

	var reply struct {
		EvaluationDate string           `json:"evaluation_date"`
		Carrier        string           `json:"carrier"`
		Claims         []map[string]any `json:"claims"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}

	result := &model.ExtractionResult{
		EvaluationDate: strings.TrimSpace(reply.EvaluationDate),
		Carrier:        strings.TrimSpace(reply.Carrier),
	}
	for _, rawClaim := range reply.Claims {
		claim := make(model.ClaimRecord, len(rawClaim))
		for k, val := range rawClaim {
			claim[k] = stringify(val)
		}
		result.Claims = append(result.Claims, claim)
	}
	return result, nil
}

// stringify renders a decoded JSON value as the string form the rest
// of the pipeline operates on.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
