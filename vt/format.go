package vt

import (
	"fmt"
	"log/slog"
	"strings"
)

var defFmt = format{fg: newDefaultColor(), bg: color{colType: BASIC, data: []int{BG_DEF}}, uc: newDefaultColor()}

// Attribute bits. Underline is carried separately as a style so the
// double/curly variants stay representable.
const (
	BOLD      = 1 << 0
	FAINT     = 1 << 1
	ITALIC    = 1 << 2
	BLINK     = 1 << 3
	REVERSED  = 1 << 4
	INVISIBLE = 1 << 5
	STRIKEOUT = 1 << 6
	FRAMED    = 1 << 7
	ENCIRCLED = 1 << 8
	OVERLINED = 1 << 9
)

// UnderlineStyle distinguishes the SGR 4:n underline variants.
type UnderlineStyle uint8

const (
	UNDERLINE_NONE UnderlineStyle = iota
	UNDERLINE_SINGLE
	UNDERLINE_DOUBLE
	UNDERLINE_CURLY
	UNDERLINE_DOTTED
	UNDERLINE_DASHED
)

// format is the graphics rendition applied to newly written cells:
// foreground, background and underline colors, an underline style
// and the attribute bitmap above.
type format struct {
	fg, bg, uc color
	under      UnderlineStyle
	attrs      uint16
}

func (f *format) setAttr(attr uint16, val bool) {
	if val {
		f.attrs |= attr
	} else {
		f.attrs &^= attr
	}
}

func (f format) attrIsSet(attr uint16) bool {
	return (f.attrs & attr) != 0
}

func (f format) equal(other format) bool {
	return f.fg.equal(other.fg) &&
		f.bg.equal(other.bg) &&
		f.uc.equal(other.uc) &&
		f.under == other.under &&
		f.attrs == other.attrs
}

func (f format) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fg: %s; bg: %s", f.fg, f.bg)
	if f.under != UNDERLINE_NONE {
		fmt.Fprintf(&sb, "; under: %d (%s)", f.under, f.uc)
	}
	if f.attrs != 0 {
		fmt.Fprintf(&sb, "; attrs: %#x", f.attrs)
	}
	return sb.String()
}

// underlineFromSub maps a "4:n" sub-parameter to a style.
func underlineFromSub(n int) UnderlineStyle {
	switch n {
	case 0:
		return UNDERLINE_NONE
	case 2:
		return UNDERLINE_DOUBLE
	case 3:
		return UNDERLINE_CURLY
	case 4:
		return UNDERLINE_DOTTED
	case 5:
		return UNDERLINE_DASHED
	default:
		return UNDERLINE_SINGLE
	}
}

// FormatView is the exported rendition of a pen, ready for a
// renderer: resolved colors plus the attribute flags.
type FormatView struct {
	Foreground     ColorView
	Background     ColorView
	UnderlineColor ColorView
	Underline      UnderlineStyle

	Bold      bool
	Faint     bool
	Italic    bool
	Blink     bool
	Reverse   bool
	Invisible bool
	Strikeout bool
	Framed    bool
	Encircled bool
	Overlined bool
}

func (f format) view() FormatView {
	return FormatView{
		Foreground:     f.fg.view(),
		Background:     f.bg.view(),
		UnderlineColor: f.uc.view(),
		Underline:      f.under,
		Bold:           f.attrIsSet(BOLD),
		Faint:          f.attrIsSet(FAINT),
		Italic:         f.attrIsSet(ITALIC),
		Blink:          f.attrIsSet(BLINK),
		Reverse:        f.attrIsSet(REVERSED),
		Invisible:      f.attrIsSet(INVISIBLE),
		Strikeout:      f.attrIsSet(STRIKEOUT),
		Framed:         f.attrIsSet(FRAMED),
		Encircled:      f.attrIsSet(ENCIRCLED),
		Overlined:      f.attrIsSet(OVERLINED),
	}
}

// applyFormat folds a run of SGR parameters into the current pen. An
// empty parameter list means reset, per the standard.
func applyFormat(curF format, params *parameters) format {
	if params.numItems() == 0 {
		return defFmt
	}

	f := curF
	for {
		item, ok := params.consumeItem()
		if !ok {
			break
		}

		switch {
		case item == RESET:
			f = defFmt
		case item == INTENSITY_BOLD:
			f.setAttr(BOLD, true)
		case item == INTENSITY_FAINT:
			f.setAttr(FAINT, true)
		case item == INTENSITY_NORMAL:
			f.setAttr(BOLD|FAINT, false)
		case item == ITALIC_ON || item == ITALIC_OFF:
			f.setAttr(ITALIC, item < 10)
		case item == UNDERLINE_ON:
			f.under = UNDERLINE_SINGLE
			if params.nextIsSub() {
				sub, _ := params.consumeItem()
				f.under = underlineFromSub(sub)
			}
		case item == DBL_UNDERLINE_ON:
			f.under = UNDERLINE_DOUBLE
		case item == UNDERLINE_OFF:
			f.under = UNDERLINE_NONE
		case item == BLINK_ON || item == RAPID_BLINK_ON || item == BLINK_OFF:
			f.setAttr(BLINK, item < 10)
		case item == REVERSED_ON || item == REVERSED_OFF:
			f.setAttr(REVERSED, item < 10)
		case item == INVISIBLE_ON || item == INVISIBLE_OFF:
			f.setAttr(INVISIBLE, item < 10)
		case item == STRIKEOUT_ON || item == STRIKEOUT_OFF:
			f.setAttr(STRIKEOUT, item < 10)
		case item == FRAMED_ON:
			f.setAttr(FRAMED, true)
		case item == ENCIRCLED_ON:
			f.setAttr(ENCIRCLED, true)
		case item == FRAMED_OFF:
			f.setAttr(FRAMED|ENCIRCLED, false)
		case item == OVERLINED_ON || item == OVERLINED_OFF:
			f.setAttr(OVERLINED, item == OVERLINED_ON)
		case (item >= FG_BLACK && item <= FG_WHITE) || (item >= FG_BRIGHT_BLACK && item <= FG_BRIGHT_WHITE) || item == FG_DEF:
			f.fg = newColor(item)
		case item == SET_FG:
			f.fg = colorFromParams(params, f.fg)
		case (item >= BG_BLACK && item <= BG_WHITE) || (item >= BG_BRIGHT_BLACK && item <= BG_BRIGHT_WHITE) || item == BG_DEF:
			f.bg = newColor(item)
		case item == SET_BG:
			f.bg = colorFromParams(params, f.bg)
		case item == SET_UNDERCOLOR:
			f.uc = colorFromParams(params, f.uc)
		case item == DEF_UNDERCOLOR:
			f.uc = newDefaultColor()
		default:
			slog.Debug("unimplemented SGR parameter", "param", item)
		}
	}

	return f
}
