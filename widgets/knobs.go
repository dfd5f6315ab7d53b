package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderKnob renders one control cell: a ring glyph colored by brightness
// plus the raw value, the cursor cell boxed.
func RenderKnob(value uint8, selected bool) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(brightnessHex(value)))
	cell := fmt.Sprintf("%s %3d", style.Render("●"), value)
	if selected {
		return "[" + cell + "]"
	}
	return " " + cell + " "
}

// RenderGrid renders the 4x4 control surface, control 0 top-left.
func RenderGrid(values [16]uint8, cursor int) string {
	var lines []string
	for row := 0; row < 4; row++ {
		var line strings.Builder
		for col := 0; col < 4; col++ {
			c := row*4 + col
			line.WriteString(RenderKnob(values[c], c == cursor))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(keys []KeyBinding) string {
	var lines []string
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
	}
	return strings.Join(lines, "\n")
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// brightnessHex maps a 0-127 ring brightness onto an amber ramp.
func brightnessHex(v uint8) string {
	if v > 127 {
		v = 127
	}
	r := 40 + int(v)*215/127
	g := 24 + int(v)*145/127
	b := 8
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
