package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tristate ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text, color string
	}{
		{"  _        _     _        _       ", "#818cf8"},
		{" | |_ _ __(_)___| |_ __ _| |_ ___ ", "#a78bfa"},
		{" | __| '__| / __| __/ _` | __/ _ \\", "#c084fc"},
		{" | |_| |  | \\__ \\ || (_| | ||  __/", "#e879f9"},
		{"  \\__|_|  |_|___/\\__\\__,_|\\__\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
