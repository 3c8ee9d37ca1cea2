package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/onclick/pkg/scenario"
	"github.com/muesli/termenv"
)

// ReportMarkdown renders a scenario report as markdown.
func ReportMarkdown(r *scenario.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", r.Description)
	}
	fmt.Fprintf(&sb, "Ran **%d** ticks.\n\n", r.Ticks)

	sb.WriteString("## Objects\n\n")
	sb.WriteString("| Name | Id | Alive | Disabled | Queue |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, o := range r.Objects {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d |\n", o.Name, o.ID, yesNo(o.Alive), yesNo(o.Disabled), o.QueueLen)
	}

	if len(r.Vars) > 0 {
		sb.WriteString("\n## Vars\n\n")
		sb.WriteString("| Key | Value |\n|---|---|\n")
		keys := make([]string, 0, len(r.Vars))
		for k := range r.Vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "| %s | %v |\n", k, r.Vars[k])
		}
	}

	if len(r.Errors) > 0 {
		sb.WriteString("\n## Tick errors\n\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "- `%s`\n", e)
		}
	}

	if len(r.Failures) > 0 {
		sb.WriteString("\n## Failed expectations\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}
	return sb.String()
}

// PrintReport writes the report to w. With render set, markdown goes through
// glamour; the final status line is always colored by termenv.
func PrintReport(w io.Writer, r *scenario.Report, render func(string) (string, error)) error {
	md := ReportMarkdown(r)
	if render != nil {
		out, err := render(md)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		md = out
	}
	if _, err := io.WriteString(w, md); err != nil {
		return err
	}

	p := termenv.ColorProfile()
	status := termenv.String("PASS").Foreground(p.Color("#22c55e")).Bold()
	if !r.Passed() {
		status = termenv.String(fmt.Sprintf("FAIL (%d)", len(r.Failures))).Foreground(p.Color("#ef4444")).Bold()
	}
	_, err := fmt.Fprintf(w, "%s %s\n", status, r.Name)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
