package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the onclick ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`                  _ _      _    `, "#818cf8"},
		{`   ___  _ __   ___| (_) ___| | __`, "#a78bfa"},
		{`  / _ \| '_ \ / __| | |/ __| |/ /`, "#c084fc"},
		{` | (_) | | | | (__| | | (__|   < `, "#e879f9"},
		{`  \___/|_| |_|\___|_|_|\___|_|\_\`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
