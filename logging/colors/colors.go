package colors

import "fmt"

// Color is an ANSI SGR code.
type Color int

// ANSI codes as used by zerolog's console writer.
// Source: https://github.com/rs/zerolog/blob/4fff5db29c3403bc26dee9895e12a108aacc0203/console.go
const (
	RED    Color = 31
	GREEN  Color = 32
	YELLOW Color = 33
	BLUE   Color = 34
	CYAN   Color = 36
	BOLD   Color = 1
	GRAY   Color = 90
)

// LEFT_ARROW is the glyph printed in place of the "info" level on console output.
const LEFT_ARROW = "⇾"

// ColorFunc is an alias type for a coloring function that accepts anything and returns a colorized string. Passing a
// ColorFunc to a logging call switches the color of every argument that follows it.
type ColorFunc = func(s any) string

// Reset returns the input as a plain string and is used to leave a color context.
func Reset(s any) string {
	return fmt.Sprintf("%v", s)
}

// Bold returns a bold string of the provided input
func Bold(s any) string {
	return Colorize(s, BOLD)
}

// Red returns a red-colorized string of the provided input
func Red(s any) string {
	return Colorize(s, RED)
}

// RedBold returns a red-bold-colorized string of the provided input
func RedBold(s any) string {
	return Colorize(Colorize(s, RED), BOLD)
}

// Green returns a green-colorized string of the provided input
func Green(s any) string {
	return Colorize(s, GREEN)
}

// GreenBold returns a green-bold-colorized string of the provided input
func GreenBold(s any) string {
	return Colorize(Colorize(s, GREEN), BOLD)
}

// YellowBold returns a yellow-bold-colorized string of the provided input
func YellowBold(s any) string {
	return Colorize(Colorize(s, YELLOW), BOLD)
}

// BlueBold returns a blue-bold-colorized string of the provided input
func BlueBold(s any) string {
	return Colorize(Colorize(s, BLUE), BOLD)
}

// Cyan returns a cyan-colorized string of the provided input
func Cyan(s any) string {
	return Colorize(s, CYAN)
}

// CyanBold returns a cyan-bold-colorized string of the provided input
func CyanBold(s any) string {
	return Colorize(Colorize(s, CYAN), BOLD)
}

// Gray returns a dark gray string of the provided input
func Gray(s any) string {
	return Colorize(s, GRAY)
}
