package model

import "strings"

// LOB identifies a line of business in a loss-run document.
type LOB string

const (
	LOBAuto             LOB = "AUTO"
	LOBGeneralLiability LOB = "GENERAL LIABILITY"
	LOBWorkersComp      LOB = "WC"
)

// AllLOBs is the closed label set in enumeration order. Tie-breaks and
// fallback ordering throughout the pipeline follow this order.
var AllLOBs = []LOB{LOBAuto, LOBGeneralLiability, LOBWorkersComp}

// ParseLOB maps a raw label from the oracle onto the closed set.
// Out-of-set values are rejected, never coerced.
func ParseLOB(s string) (LOB, bool) {
	switch LOB(strings.ToUpper(strings.TrimSpace(s))) {
	case LOBAuto:
		return LOBAuto, true
	case LOBGeneralLiability:
		return LOBGeneralLiability, true
	case LOBWorkersComp:
		return LOBWorkersComp, true
	}
	return "", false
}

// Key returns the short identifier used for output directories and sheet
// prefixes: AUTO, GL, WC.
func (l LOB) Key() string {
	if l == LOBGeneralLiability {
		return "GL"
	}
	return string(l)
}

// SheetName returns the worksheet name for this LOB's claim table.
func (l LOB) SheetName() string {
	return strings.ToLower(l.Key()) + "_claims"
}

// Schema describes the per-LOB field set requested from the oracle.
// Claim field names are part of the output contract and are preserved
// exactly, including the WC capitalization quirks.
type Schema struct {
	LOB         LOB
	ClaimFields []string
}

var schemas = map[LOB]Schema{
	LOBAuto: {
		LOB:         LOBAuto,
		ClaimFields: []string{"claim_number", "loss_date", "paid_loss", "reserve", "alae"},
	},
	LOBGeneralLiability: {
		LOB:         LOBGeneralLiability,
		ClaimFields: []string{"claim_number", "loss_date", "bi_paid_loss", "pd_paid_loss", "bi_reserve", "pd_reserve", "alae"},
	},
	LOBWorkersComp: {
		LOB:         LOBWorkersComp,
		ClaimFields: []string{"claim_number", "loss_date", "Indemnity_paid_loss", "Medical_paid_loss", "Indemnity_reserve", "Medical_reserve", "ALAE"},
	},
}

// SchemaFor returns the extraction schema for a LOB.
func SchemaFor(lob LOB) Schema {
	return schemas[lob]
}
