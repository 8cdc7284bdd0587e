package templates

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// ScenarioResult is one row of a bindbench report. Inline is nil for
// scenarios where it is not measured.
type ScenarioResult struct {
	Name      string
	Delivered int
	Inline    *int
	Avg       string
	P99       string
	Rate      float64
}

// Report is everything the summary template renders.
type Report struct {
	Iterations int
	Results    []ScenarioResult
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

// InlineText renders Inline for table cells.
func (r ScenarioResult) InlineText() string {
	if r.Inline == nil {
		return "-"
	}
	return count(*r.Inline)
}

func rate(perSecond float64) string {
	return humanize.SIWithDigits(perSecond, 2, "sets/s")
}

func names(results []ScenarioResult) string {
	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(r.Name)
		if i < len(results)-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
