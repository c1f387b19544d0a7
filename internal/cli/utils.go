// Package cli formats answers, interaction history and corpus hits for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/hotelrag/internal/keyword"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates s as an output format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q (use text or json)", s)
	}
}

const separator = "─────────────────────────────────────────────────────────\n"

// WriteAnswer writes a processed message. showRaw includes the extracted answer before
// post-processing; in JSON the raw response is omitted unless showRaw is set.
func WriteAnswer(w io.Writer, result *models.Result, format OutputFormat, showRaw bool) error {
	if format == OutputJSON {
		out := *result
		if !showRaw {
			out.RawResponse = ""
		}
		return writeJSON(w, &out)
	}
	fmt.Fprintf(w, "\n%s\n\n", result.Response)
	if result.Degraded {
		fmt.Fprintln(w, "(generation failed; fallback answer shown)")
	}
	info := result.QueryInfo
	fmt.Fprintf(w, "Intent: %s | Question: %t | Numeric: %t\n",
		info.DetectedIntent, info.IsQuestion, info.RequiresNumericalAnswer)
	if len(result.RetrievedDocs) > 0 {
		fmt.Fprint(w, separator)
		for i, d := range result.RetrievedDocs {
			fmt.Fprintf(w, "[%d] #%d (%.4f) %s\n", i+1, d.Position, d.Score, utils.Truncate(d.Text, 120))
		}
	}
	if showRaw {
		fmt.Fprint(w, separator)
		fmt.Fprintf(w, "Raw: %s\n", result.RawResponse)
	}
	return nil
}

// WriteHistory writes interaction records in append order.
func WriteHistory(w io.Writer, records []models.InteractionRecord, format OutputFormat) error {
	if format == OutputJSON {
		if records == nil {
			records = []models.InteractionRecord{}
		}
		return writeJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No interactions recorded.")
		return nil
	}
	for _, r := range records {
		fmt.Fprint(w, separator)
		fmt.Fprintf(w, "%s  [%s]\n", r.Timestamp.Format("2006-01-02 15:04:05"), r.QueryInfo.DetectedIntent)
		fmt.Fprintf(w, "Q: %s\n", r.Query)
		fmt.Fprintf(w, "A: %s\n", utils.Truncate(r.Response, 200))
	}
	fmt.Fprintf(w, "\n%d interaction(s)\n", len(records))
	return nil
}

// WriteHits writes corpus search hits.
func WriteHits(w io.Writer, query string, hits []keyword.Hit, format OutputFormat) error {
	if format == OutputJSON {
		if hits == nil {
			hits = []keyword.Hit{}
		}
		return writeJSON(w, map[string]interface{}{"query": query, "results": hits})
	}
	fmt.Fprintf(w, "\nFound %d documents for %q\n\n", len(hits), query)
	for i, h := range hits {
		fmt.Fprint(w, separator)
		fmt.Fprintf(w, "Rank: %d | Position: %d | Score: %.4f | Category: %s\n", i+1, h.Position, h.Score, h.Category)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(h.Text, 200))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
