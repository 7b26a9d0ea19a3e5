package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/lossrun/internal/model"
)

var (
	claimNumberRe = regexp.MustCompile(`\b\d{5,}\b|[A-Za-z]\d{4,}`)
	lossDateRe    = regexp.MustCompile(`\b\d{1,2}[\-/]\d{1,2}[\-/]\d{2,4}\b`)
	rowSplitRe    = regexp.MustCompile(`\s{2,}|\t|\|`)

	evalDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Evaluation\s*Date\s*[:\-]\s*([0-9]{1,2}[\-/][0-9]{1,2}[\-/][0-9]{2,4})`),
		regexp.MustCompile(`(?i)As\s*of\s*Date\s*[:\-]\s*([A-Za-z]{3,9}\s+\d{1,2},\s*\d{4})`),
	}
)

var (
	claimHeaderKeys    = []string{"claim number", "claim no", "claim #", "claim id"}
	lossDateHeaderKeys = []string{"loss date", "date of loss", "accident date"}
)

// moneySlots are the value columns of a WC loss-run table, in the fixed
// assignment order. Token clues include the bare "indemnity"/"medical"
// shorthands, so a token matching several groups lands in the first
// declared slot.
var moneySlots = []struct {
	field  string
	header []string // column header synonyms
	token  []string // per-token clues
}{
	{
		field:  "Indemnity_paid_loss",
		header: []string{"indemnity paid", "indemnity paid loss", "ind paid"},
		token:  []string{"indemnity paid", "indemnity paid loss", "ind paid", "indemnity"},
	},
	{
		field:  "Medical_paid_loss",
		header: []string{"medical paid", "medical paid loss", "med paid"},
		token:  []string{"medical paid", "medical paid loss", "med paid", "medical"},
	},
	{
		field:  "Indemnity_reserve",
		header: []string{"indemnity reserve", "ind reserve"},
		token:  []string{"indemnity reserve", "ind reserve"},
	},
	{
		field:  "Medical_reserve",
		header: []string{"medical reserve", "med reserve"},
		token:  []string{"medical reserve", "med reserve"},
	},
	{
		field:  "ALAE",
		header: []string{"alae", "allocated loss adjustment expense", "expense"},
		token:  []string{"alae", "allocated loss adjustment expense", "expense"},
	},
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// isHeader reports whether a line hits at least two distinct column keyword
// groups.
func isHeader(line string) bool {
	lower := strings.ToLower(line)
	hits := 0
	if containsAny(lower, claimHeaderKeys) {
		hits++
	}
	if containsAny(lower, lossDateHeaderKeys) {
		hits++
	}
	for _, slot := range moneySlots {
		if containsAny(lower, slot.header) {
			hits++
		}
	}
	return hits >= 2
}

// HeuristicWC attempts a deterministic parse of tabular WC claim data. It is
// the fallback for documents where the oracle produced no claims: precision
// over recall, so rows without a recognizable claim number are dropped.
func HeuristicWC(text string) model.ExtractionResult {
	result := model.ExtractionResult{Carrier: CarrierFromText(text)}

	for _, re := range evalDateRes {
		if m := re.FindStringSubmatch(text); m != nil {
			result.EvaluationDate = strings.TrimSpace(m[1])
			break
		}
	}

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(ln); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	headerIdx := -1
	for i, ln := range lines {
		if isHeader(ln) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return result
	}

	// Map header column positions onto money slots, so bare numeric tokens
	// that carry no keyword of their own still land in the right column.
	positions := map[int]int{}
	for i, cell := range splitRow(lines[headerIdx]) {
		lower := strings.ToLower(cell)
		for slot := range moneySlots {
			if containsAny(lower, moneySlots[slot].header) {
				positions[i] = slot
				break
			}
		}
	}

	for _, ln := range lines[headerIdx+1:] {
		parts := splitRow(ln)
		if len(parts) < 3 {
			continue
		}

		row := model.ClaimRecord{}
		for i, p := range parts {
			lower := strings.ToLower(p)
			switch {
			case row["claim_number"] == "" && claimNumberRe.MatchString(p):
				row["claim_number"] = p
			case row["loss_date"] == "" && lossDateRe.MatchString(p):
				row["loss_date"] = p
			default:
				slot := -1
				for s := range moneySlots {
					if containsAny(lower, moneySlots[s].token) {
						slot = s
						break
					}
				}
				if slot == -1 {
					if s, ok := positions[i]; ok {
						slot = s
					}
				}
				if slot >= 0 && row[moneySlots[slot].field] == "" {
					row[moneySlots[slot].field] = NormalizeMoney(p)
				}
			}
		}

		if row["claim_number"] != "" {
			result.Claims = append(result.Claims, row)
		}
	}

	return result
}

func splitRow(line string) []string {
	var parts []string
	for _, p := range rowSplitRe.Split(line, -1) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
