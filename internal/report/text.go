package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"aicheck/internal/finding"
)

const (
	errorMarker = "✗ ERROR"
	warnMarker  = "! WARN "
	passMarker  = "✓"
	failMarker  = "✗"
)

type textRenderer struct {
	red    *color.Color
	yellow *color.Color
	green  *color.Color
	faint  *color.Color
}

func newTextRenderer(opts Options) *textRenderer {
	t := &textRenderer{
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen, color.Bold),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{t.red, t.yellow, t.green, t.faint} {
		switch opts.Color {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		}
	}
	return t
}

// render prints errors, then warnings, then a per-check table, then the
// verdict.
func (t *textRenderer) render(w io.Writer, r *Report) error {
	var b strings.Builder

	errs, warns := r.Findings()
	for _, f := range errs {
		t.writeFinding(&b, t.red.Sprint(errorMarker), f)
	}
	for _, f := range warns {
		t.writeFinding(&b, t.yellow.Sprint(warnMarker), f)
	}
	if len(errs)+len(warns) > 0 {
		b.WriteString("\n")
	}

	if len(r.Checks) > 0 {
		b.WriteString(t.summaryTable(r))
		b.WriteString("\n\n")
	}

	b.WriteString(t.verdict(r))
	b.WriteString("\n")
	if r.Artifact != "" {
		fmt.Fprintf(&b, "Deployment manifest written to %s\n", r.Artifact)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (t *textRenderer) writeFinding(b *strings.Builder, marker string, f finding.Finding) {
	fmt.Fprintf(b, "%s [%s] %s\n", marker, f.Check, f.Message)
	for _, ev := range f.Evidence {
		fmt.Fprintf(b, "    %s\n", t.faint.Sprint(ev.String()))
	}
	if f.Hint != "" {
		fmt.Fprintf(b, "    hint: %s\n", f.Hint)
	}
}

func (t *textRenderer) summaryTable(r *Report) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Check", "Status", "Errors", "Warnings", "Note"})
	for _, res := range r.Checks {
		errs, warns := finding.Partition(res.Findings)
		status := "pass"
		switch {
		case !res.Passed:
			status = "FAIL"
		case res.Skipped:
			status = "skip"
		}
		tbl.AppendRow(table.Row{res.Name, status, len(errs), len(warns), res.Reason})
	}
	return tbl.Render()
}

func (t *textRenderer) verdict(r *Report) string {
	counts := fmt.Sprintf("%s, %s", plural(r.Errors, "error"), plural(r.Warnings, "warning"))
	if r.Passed {
		return t.green.Sprintf("%s %s passed (%s)", passMarker, r.Suite, counts)
	}
	return t.red.Sprintf("%s %s failed (%s)", failMarker, r.Suite, counts)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
