package vt

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// hyperlinkID is an opaque handle into the screen's hyperlink table.
// Zero means no hyperlink.
type hyperlinkID uint32

// Wide characters occupy a primary cell and one continuation cell.
const (
	FRAG_NONE uint8 = iota
	FRAG_PRIMARY
	FRAG_SECONDARY
)

// cell is one grid position: a grapheme cluster (or nothing), its
// display width, the pen it was written with and an optional
// hyperlink. Clusters are kept compact: a combining mark that
// composes with the base under NFC is fused into the single rune
// (the teacher did the same in its print path); only clusters that
// cannot compose spill into the extra slice.
type cell struct {
	r     rune // primary codepoint; 0 means empty
	extra []rune
	w     uint8
	frag  uint8
	f     format
	link  hyperlinkID
}

func defaultCell() cell {
	return cell{f: defFmt, w: 1}
}

func fillCell(f format) cell {
	return cell{f: f, w: 1}
}

func newCell(r rune, f format) cell {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return cell{r: r, f: f, w: uint8(w)}
}

// contCell is the continuation filler behind a wide character.
func contCell(f format, link hyperlinkID) cell {
	return cell{f: f, frag: FRAG_SECONDARY, link: link}
}

func (c cell) empty() bool {
	return c.r == 0
}

func (c cell) width() int {
	return int(c.w)
}

func (c cell) getFormat() format {
	return c.f
}

// write replaces the cell's content wholesale.
func (c *cell) write(f format, r rune, w int) {
	c.r = r
	c.extra = nil
	c.f = f
	c.w = uint8(w)
	c.frag = FRAG_NONE
	if w > 1 {
		c.frag = FRAG_PRIMARY
	}
}

// appendCharacter extends the cell's grapheme cluster with a
// combining codepoint and returns the cluster's resulting display
// width, which may exceed the previous one (a variation selector can
// turn a narrow glyph wide).
func (c *cell) appendCharacter(r rune) int {
	if c.empty() {
		c.r = r
		c.w = 1
		return 1
	}

	if len(c.extra) == 0 {
		if fused := []rune(norm.NFC.String(string(c.r) + string(r))); len(fused) == 1 {
			c.r = fused[0]
		} else {
			c.extra = append(c.extra, r)
		}
	} else {
		c.extra = append(c.extra, r)
	}

	if w := runewidth.StringWidth(c.toUtf8()); w > c.width() {
		c.w = uint8(w)
		c.frag = FRAG_PRIMARY
	}
	return c.width()
}

// toUtf8 renders the cluster. Empty cells render as nothing; line
// level rendering substitutes the space.
func (c cell) toUtf8() string {
	if c.empty() {
		return ""
	}
	if len(c.extra) == 0 {
		return string(c.r)
	}
	var sb strings.Builder
	sb.WriteRune(c.r)
	for _, r := range c.extra {
		sb.WriteRune(r)
	}
	return sb.String()
}

func (c cell) equal(other cell) bool {
	if c.r != other.r || c.w != other.w || c.frag != other.frag || c.link != other.link {
		return false
	}
	if len(c.extra) != len(other.extra) {
		return false
	}
	for i := range c.extra {
		if c.extra[i] != other.extra[i] {
			return false
		}
	}
	return c.f.equal(other.f)
}

func (c cell) String() string {
	return fmt.Sprintf("%q (w=%d, %s)", c.toUtf8(), c.w, c.f)
}
