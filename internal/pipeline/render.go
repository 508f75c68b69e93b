package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/rotisserie/eris"
)

// maxSummaryRows caps the rows printed per table; the JSON report has all
const maxSummaryRows = 20

// Renderer writes reports
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer printing summaries to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// RenderJSON writes the full report to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal report")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

// RenderSummary prints run counts and each aggregate table
func (r *Renderer) RenderSummary(report *model.Report) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(r.out, "  Run %s\n", report.RunID)
	fmt.Fprintln(r.out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(r.out, "  Records:    %d\n", len(report.Records))
	fmt.Fprintf(r.out, "  Documents:  %d fetched, %d failed\n",
		report.FetchedCount(), len(report.Documents)-report.FetchedCount())
	fmt.Fprintf(r.out, "  Facts:      %d filings\n", len(report.Facts))

	for _, t := range report.Tables {
		fmt.Fprintf(r.out, "\n%s\n", t.Name)
		if len(t.Rows) == 0 {
			fmt.Fprintln(r.out, "  (no rows)")
			continue
		}

		tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
		for i, row := range t.Rows {
			if i == maxSummaryRows {
				fmt.Fprintf(tw, "  …\t%d more\t\n", len(t.Rows)-maxSummaryRows)
				break
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", row.GroupKey, row.Metric, formatValue(row.Value))
		}
		if err := tw.Flush(); err != nil {
			return eris.Wrap(err, "write summary")
		}
	}
	fmt.Fprintln(r.out)
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
