package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the canopy banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ___ __ _ _ __   ___  _ __  _   _ `, "#4ade80"},
		{`  / __/ _' | '_ \ / _ \| '_ \| | | |`, "#34d399"},
		{` | (_| (_| | | | | (_) | |_) | |_| |`, "#2dd4bf"},
		{`  \___\__,_|_| |_|\___/| .__/ \__, |`, "#22d3ee"},
		{`                       |_|    |___/ `, "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
