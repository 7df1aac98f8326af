//go:build !windows

package colors

import "fmt"

// enabled tracks whether ANSI output is wanted. Unix terminals support escape codes, so only DisableColor turns it off.
var enabled = true

// EnableColor turns ANSI coloring back on.
func EnableColor() {
	enabled = true
}

// DisableColor makes Colorize return its input unchanged.
func DisableColor() {
	enabled = false
}

// Colorize returns the string s wrapped in ANSI code c.
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
