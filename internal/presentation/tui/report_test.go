package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/onclick/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *scenario.Report {
	return &scenario.Report{
		Name:        "menu",
		Description: "Main menu",
		Ticks:       3,
		Vars:        map[string]any{"b": int64(2), "a": "x"},
		Objects: []scenario.ObjectReport{
			{Name: "play", ID: 1, Alive: true, QueueLen: 2},
			{Name: "quit", ID: 2},
		},
	}
}

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown(sampleReport())

	assert.Contains(t, md, "# menu\n")
	assert.Contains(t, md, "Ran **3** ticks.")
	assert.Contains(t, md, "| play | obj#1 | yes | no | 2 |")
	assert.Contains(t, md, "| quit | obj#2 | no | no | 0 |")
	assert.Regexp(t, `(?s)\| a \| x \|.*\| b \| 2 \|`, md, "vars are sorted")
	assert.NotContains(t, md, "Failed expectations")
}

func TestPrintReport(t *testing.T) {
	r := sampleReport()
	r.Failures = []string{"var a: got x, want y"}
	r.Errors = []string{"boom"}

	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, r, nil))
	out := buf.String()
	assert.Contains(t, out, "## Failed expectations")
	assert.Contains(t, out, "- var a: got x, want y")
	assert.Contains(t, out, "`boom`")
	assert.Contains(t, out, "FAIL (1)")

	buf.Reset()
	err := PrintReport(&buf, r, func(string) (string, error) { return "", errors.New("bad style") })
	assert.ErrorContains(t, err, "bad style")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), `\___/`)
}
