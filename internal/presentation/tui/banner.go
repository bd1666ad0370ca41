package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner shown when an interactive session starts.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text  string
		color string
	}{
		{"   __", "#818cf8"},
		{"  / _|___ _ __ ___", "#a78bfa"},
		{" | |_/ __| '_ ` _ \\", "#c084fc"},
		{" |  _\\__ \\ | | | | |", "#e879f9"},
		{" |_| |___/_| |_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)+"  type 'help' for commands").Faint())
	fmt.Fprintln(w)
}
