package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/lossrun/internal/cache"
	"github.com/ppiankov/lossrun/internal/model"
	"github.com/ppiankov/lossrun/internal/worker"
)

// Keyword signals for the deterministic fallback. Entries are
// space-padded where the bare term is too short or too common to
// match on its own.
var lobSignals = map[model.LOB][]string{
	model.LOBAuto: {
		" AUTO ", " AUTOMOBILE", " VEHICLE", " VIN ", " COLLISION",
		" COMPREHENSIVE", " LICENSE PLATE", " TOW ", " RENTAL", " SUBROGATION",
	},
	model.LOBGeneralLiability: {
		" GENERAL LIABILITY", " GL ", " PREMISES", " PRODUCTS LIABILITY",
		" CGL ", " COVERAGE A", " COVERAGE B", " COVERAGE C", " AGGREGATE LIMIT",
	},
	model.LOBWorkersComp: {
		" WORKERS' COMP", " WORKERS COMP", " WC ", " TTD", " TPD",
		" INDEMNITY", " MEDICAL ONLY", " LOST TIME", " OSHA ",
		" EMPLOYEE ", " EMPLOYER ",
	},
}

// Classifier determines which lines of business a document covers. It
// asks the oracle first and falls back to keyword scoring whenever the
// oracle is absent, unreachable, or off-contract. Classification never
// fails: there is always at least one label.
type Classifier struct {
	provider Provider
	cache    cache.Cache
	pacer    *worker.Pacer
	cacheTTL time.Duration
}

// NewClassifier creates a classifier. Provider may be nil, in which
// case only the keyword fallback runs. Cache and pacer may be nil.
func NewClassifier(provider Provider, c cache.Cache, pacer *worker.Pacer, cacheTTL time.Duration) *Classifier {
	return &Classifier{
		provider: provider,
		cache:    c,
		pacer:    pacer,
		cacheTTL: cacheTTL,
	}
}

const classifySystemPrompt = "You are an insurance domain expert analyzing loss-run documents."

func singleLOBPrompt(text string) string {
	return `Determine the Line of Business (LoB) present in the content.
You MUST choose exactly one of these values: AUTO, GENERAL LIABILITY, WC.

Decision rules and strong signals:
- AUTO: Auto/Automobile/vehicle, VIN, collision/comprehensive, driver/passenger, license plate, rental, tow, subrogation with other driver, BI/PD typical to auto.
- GENERAL LIABILITY: General Liability/GL, premises/products liability, CGL, Coverage A/B/C, occurrence/aggregate limits, third-party injury/damage at premises.
- WC: Workers' Compensation/WC, employee injury, TTD/TPD, indemnity, medical only, lost time, OSHA, wage statements, employer/employee terminology.

Return STRICT JSON ONLY with no commentary: {"lob": "AUTO" | "GENERAL LIABILITY" | "WC"}
If uncertain, pick the most probable, but NEVER return empty.

Content:
` + text
}

func multiLOBPrompt(text string) string {
	return `Determine ALL Lines of Business (LoBs) present in the content.
Choose any that apply from exactly these values: AUTO, GENERAL LIABILITY, WC.

Decision rules and strong signals:
- AUTO: Auto/Automobile/vehicle, VIN, collision/comprehensive, driver/passenger, license plate, rental, tow, subrogation with other driver, BI/PD typical to auto.
- GENERAL LIABILITY: General Liability/GL, premises/products liability, CGL, Coverage A/B/C, occurrence/aggregate limits, third-party injury/damage at premises.
- WC: Workers' Compensation/WC, employee injury, TTD/TPD, indemnity, medical only, lost time, OSHA, wage statements, employer/employee terminology.

Return STRICT JSON ONLY with no commentary: {"lobs": ["AUTO" | "GENERAL LIABILITY" | "WC", ...]}
If uncertain, include the most probable, but NEVER return an empty list.

Content:
` + text
}

// ClassifyLOB returns the single most likely line of business.
func (c *Classifier) ClassifyLOB(ctx context.Context, text string) model.LOB {
	if c.provider != nil {
		reply, err := c.complete(ctx, singleLOBPrompt(text), 300)
		if err == nil {
			lob, derr := decodeLOB(reply)
			if derr == nil {
				return lob
			}
			c.warnf("classification response rejected: %v", derr)
		} else {
			c.warnf("classification call failed: %v", err)
		}
	}
	return scoreLOB(text)
}

// ClassifyLOBs returns every line of business present in the document,
// deduplicated, never empty. This is the primary classification entry.
func (c *Classifier) ClassifyLOBs(ctx context.Context, text string) []model.LOB {
	if c.provider != nil {
		reply, err := c.complete(ctx, multiLOBPrompt(text), 400)
		if err == nil {
			lobs, derr := decodeLOBs(reply)
			if derr == nil {
				return lobs
			}
			c.warnf("multi-classification response rejected: %v", derr)
		} else {
			c.warnf("multi-classification call failed: %v", err)
		}
	}

	upper := " " + strings.ToUpper(text) + " "
	var found []model.LOB
	for _, lob := range model.AllLOBs {
		for _, k := range lobSignals[lob] {
			if strings.Contains(upper, k) {
				found = append(found, lob)
				break
			}
		}
	}
	if len(found) > 0 {
		return found
	}
	return []model.LOB{c.ClassifyLOB(ctx, text)}
}

// scoreLOB is the keyword fallback for single-label classification.
// Ties resolve in enumeration order; no hits at all defaults to AUTO.
func scoreLOB(text string) model.LOB {
	upper := " " + strings.ToUpper(text) + " "
	best := model.LOBAuto
	bestScore := 0
	for _, lob := range model.AllLOBs {
		score := 0
		for _, k := range lobSignals[lob] {
			if strings.Contains(upper, k) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = lob, score
		}
	}
	return best
}

// complete runs one paced, cached oracle call.
func (c *Classifier) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	key := cache.Key(c.provider.Name(), "", prompt)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return string(cached), nil
		}
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.provider.Complete(ctx, CompleteRequest{
		System:    classifySystemPrompt,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Set(key, []byte(resp.Text), c.cacheTTL); err != nil {
			c.warnf("cache store failed: %v", err)
		}
	}
	return resp.Text, nil
}

func (c *Classifier) warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
