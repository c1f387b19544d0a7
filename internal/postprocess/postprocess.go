// Package postprocess cleans generated answers before they reach the user.
package postprocess

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/hyperjump/hotelrag/internal/models"
)

// DefaultFillerPhrases are stripped when they open a response, checked in order.
var DefaultFillerPhrases = []string{
	"Based on the context provided,",
	"According to the information,",
	"As per the context,",
	"From the context, I can tell you that",
	"I can answer that",
}

var tokenPattern = regexp.MustCompile(`\S+`)

// Postprocessor normalizes generated responses.
type Postprocessor struct {
	fillers []string
}

// New returns a postprocessor using fillers, or DefaultFillerPhrases when none are given.
func New(fillers ...string) *Postprocessor {
	if len(fillers) == 0 {
		fillers = DefaultFillerPhrases
	}
	return &Postprocessor{fillers: fillers}
}

// Process trims response, strips leading filler phrases, and ensures terminal punctuation.
// When info asks for a numeric answer about a rate or percentage, fractions in [0, 1] are
// rewritten as percentages. info may be nil.
func (p *Postprocessor) Process(response string, info *models.QueryInfo) string {
	out := strings.TrimSpace(response)
	for _, f := range p.fillers {
		if strings.HasPrefix(out, f) {
			out = strings.TrimSpace(out[len(f):])
		}
	}
	if out != "" && !strings.ContainsAny(out[len(out)-1:], ".!?") {
		out += "."
	}
	if info != nil && info.RequiresNumericalAnswer && mentionsRate(info.NormalizedQuery) {
		out = tokenPattern.ReplaceAllStringFunc(out, formatFraction)
	}
	return out
}

func mentionsRate(normalized string) bool {
	return strings.Contains(normalized, "rate") || strings.Contains(normalized, "percentage")
}

// formatFraction rewrites a token such as "0.42." to "42.00%.", keeping surrounding punctuation.
// Tokens without digits, tokens already holding "%", and unparsable tokens are returned unchanged.
func formatFraction(tok string) string {
	if strings.Contains(tok, "%") || !strings.ContainsFunc(tok, unicode.IsDigit) {
		return tok
	}
	core := strings.TrimRight(tok, ".,;:!?)")
	prefix := ""
	if trimmed := strings.TrimLeft(core, "("); trimmed != core {
		prefix = core[:len(core)-len(trimmed)]
		core = trimmed
	}
	suffix := tok[len(prefix)+len(core):]

	v, err := strconv.ParseFloat(core, 64)
	if err != nil || v < 0 || v > 1 {
		return tok
	}
	return prefix + fmt.Sprintf("%.2f%%", v*100) + suffix
}
