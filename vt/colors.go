package vt

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

const (
	BASIC = iota
	ANSI256
	RGB
)

type color struct {
	colType int
	data    []int
}

func (c color) equal(other color) bool {
	return c.colType == other.colType && slices.Equal(c.data, other.data)
}

func newDefaultColor() color {
	return color{colType: BASIC, data: []int{FG_DEF}}
}

func newColor(col int) color {
	return color{colType: BASIC, data: []int{col}}
}

func newAnsiColor(col int) color {
	return color{colType: ANSI256, data: []int{col}}
}

func newRGBColor(cols []int) color {
	return color{colType: RGB, data: cols}
}

// ansiIndex maps a basic SGR color parameter (30-37, 90-97 and the
// background equivalents) to its 16 color palette index.
func ansiIndex(col int) (int, bool) {
	switch {
	case col >= FG_BLACK && col <= FG_WHITE:
		return col - FG_BLACK, true
	case col >= BG_BLACK && col <= BG_WHITE:
		return col - BG_BLACK, true
	case col >= FG_BRIGHT_BLACK && col <= FG_BRIGHT_WHITE:
		return col - FG_BRIGHT_BLACK + 8, true
	case col >= BG_BRIGHT_BLACK && col <= BG_BRIGHT_WHITE:
		return col - BG_BRIGHT_BLACK + 8, true
	}
	return 0, false
}

// rgb resolves the color to a concrete RGB value for render-side
// consumers. Default colors have no fixed value and report false.
func (c color) rgb() (colorful.Color, bool) {
	switch c.colType {
	case BASIC:
		if n, ok := ansiIndex(c.data[0]); ok {
			return termenv.ConvertToRGB(termenv.ANSIColor(n)), true
		}
		return colorful.Color{}, false
	case ANSI256:
		return termenv.ConvertToRGB(termenv.ANSI256Color(c.data[0])), true
	case RGB:
		return colorful.Color{
			R: float64(c.data[0]) / 255.0,
			G: float64(c.data[1]) / 255.0,
			B: float64(c.data[2]) / 255.0,
		}, true
	}
	return colorful.Color{}, false
}

func (c color) String() string {
	switch c.colType {
	case BASIC:
		return fmt.Sprintf("basic(%d)", c.data[0])
	case ANSI256:
		return fmt.Sprintf("256(%d)", c.data[0])
	case RGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.data[0], c.data[1], c.data[2])
	}
	return "invalid"
}

// ColorView is the render-facing answer for one color slot: the
// terminal default, or a concrete RGB value resolved through the
// palette.
type ColorView struct {
	Default bool
	RGB     colorful.Color
}

func (c color) view() ColorView {
	rgb, ok := c.rgb()
	return ColorView{Default: !ok, RGB: rgb}
}

// colorFromParams interprets the parameters following a SET_FG,
// SET_BG or SET_UNDERCOLOR item as an extended color selection
// (";5;n" or ";2;r;g;b"). It consumes what it uses and returns def
// when the selector is missing or unknown; components missing after a
// known selector read as 0.
func colorFromParams(params *parameters, def color) color {
	cm, ok := params.consumeItem()
	if !ok {
		slog.Debug("extended color selection with no parameters")
		return def
	}

	switch cm {
	case 2: // 24 bit true color
		cols := []int{0, 0, 0}
		for i := 0; i < len(cols); i++ {
			c, ok := params.consumeItem()
			if !ok {
				break
			}
			cols[i] = clampInt(c, 0, 255)
		}
		return newRGBColor(cols)
	case 5: // 256 color selection
		item, ok := params.consumeItem()
		if !ok {
			return newAnsiColor(0)
		}
		return newAnsiColor(clampInt(item, 0, 255))
	}

	slog.Debug("invalid extended color selector", "selector", cm)
	return def
}
