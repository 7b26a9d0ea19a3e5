package extract

import (
	"regexp"
	"strings"
)

var moneyRe = regexp.MustCompile(`[-$]?\d{1,3}(?:,\d{3})*(?:\.\d+)?|[-$]?\d+(?:\.\d+)?`)

// NormalizeMoney pulls the first currency-looking token out of a noisy value
// and strips the currency symbol, keeping sign, digit grouping and decimals.
// When nothing matches, the trimmed input comes back unchanged.
func NormalizeMoney(value string) string {
	if m := moneyRe.FindString(value); m != "" {
		return strings.ReplaceAll(m, "$", "")
	}
	return strings.TrimSpace(value)
}
