package report

import (
	"os"

	"golang.org/x/term"
)

const (
	// NarrowWidth is the width below which layouts switch to their compact form.
	NarrowWidth = 80

	terminalWidthBackup = 80
)

// TerminalWidth returns the stdout width, or 80 when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// IsNarrow reports whether width calls for the compact layout.
func IsNarrow(width int) bool {
	return width > 0 && width < NarrowWidth
}
