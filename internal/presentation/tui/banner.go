package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"                  _   _             ", "#818cf8"},
	{"  _ __ ___   ___ | |_(_) ___  _ __  ", "#a78bfa"},
	{" | '_ ` _ \\ / _ \\| __| |/ _ \\| '_ \\ ", "#c084fc"},
	{" | | | | | | (_) | |_| | (_) | | | |", "#e879f9"},
	{" |_| |_| |_|\\___/ \\__|_|\\___/|_| |_|", "#f472b6"},
}

// PrintBanner writes the motion banner followed by the version line.
// Colors degrade to the profile of w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}

// Status formats a short status line such as "listening on :8080" in the
// accent color of the banner.
func Status(w io.Writer, format string, args ...any) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String("▸ "+fmt.Sprintf(format, args...)).Foreground(out.Color("#a78bfa")))
}
