package console

import (
	"fmt"

	"github.com/fatih/color"
)

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Axis colors a signed reading: red above the threshold magnitude, green otherwise.
func Axis(v float64, threshold float64) string {
	if v > threshold || v < -threshold {
		return Red(fmt.Sprintf("%+9.4f", v))
	}
	return Green(fmt.Sprintf("%+9.4f", v))
}
