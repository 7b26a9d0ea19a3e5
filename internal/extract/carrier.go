// Package extract holds the deterministic, non-oracle extraction rules:
// carrier inference, money normalization and the tabular WC fallback parser.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	carrierLabelRe    = regexp.MustCompile(`(?i)\b(?:carrier|company|insurer|provider)\s*[:\-]\s*([A-Za-z0-9 &'.\-/]+)`)
	corporateSuffixRe = regexp.MustCompile(`(?i)\b([A-Z][A-Za-z0-9 &'.\-/]+(?:Insurance|Ins|Corp|Corporation|Company|Co|LLC|Inc))\b`)
	insuredLabelRe    = regexp.MustCompile(`(?i)\b(?:Policy\s*holder|Insured)\s*[:\-]\s*([A-Za-z0-9 &'.\-/]+)`)
)

// filename tokens that mark the end of a carrier name prefix
var filenameStopWords = map[string]bool{
	"loss": true, "run": true, "report": true, "claims": true, "claim": true,
	"extract": true, "extracted": true, "output": true, "input": true, "file": true,
}

// CarrierFromText guesses the insurer name from document text. Patterns are
// tried in order; the first capture longer than two characters after trimming
// wins. Returns "" when nothing matches; an empty carrier means unknown,
// never an error.
func CarrierFromText(text string) string {
	for _, re := range []*regexp.Regexp{carrierLabelRe, corporateSuffixRe, insuredLabelRe} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if candidate := strings.TrimSpace(m[1]); len(candidate) > 2 {
			return candidate
		}
	}
	return ""
}

// CarrierFromFilename infers a carrier from the file name stem when the text
// itself gives nothing away. The stem is normalized (underscores, dashes and
// dots become spaces), checked against the corporate suffix pattern, and
// otherwise reduced to up to three leading tokens before the first generic
// descriptor (loss, run, report, ...).
func CarrierFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)

	if m := corporateSuffixRe.FindStringSubmatch(stem); m != nil {
		return strings.TrimSpace(m[1])
	}

	var name []string
	for _, tok := range strings.Fields(stem) {
		if filenameStopWords[strings.ToLower(tok)] {
			break
		}
		name = append(name, tok)
		if len(name) >= 3 {
			break
		}
	}
	return strings.Join(name, " ")
}
