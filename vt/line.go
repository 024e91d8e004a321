package vt

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// line is one grid row. A row written once, left to right, at a
// single pen starts out trivial: raw UTF-8 text plus fill attributes
// for the gap. Any richer mutation inflates it into an explicit cell
// sequence. Inflation is deterministic, so the trivial form is purely
// an optimization.
type line struct {
	// trivial representation
	text  []byte
	used  ColumnCount // columns covered by text
	textF format
	fillF format
	link  hyperlinkID

	// inflated representation
	cells []cell

	display   ColumnCount
	inflated  bool
	wrappable bool
	wrapped   bool // continuation of the previous line
	marked    bool
}

func newLine(cols ColumnCount, fill format, wrappable bool) line {
	return line{
		display:   cols,
		textF:     fill,
		fillF:     fill,
		wrappable: wrappable,
	}
}

func newInflatedLine(cells []cell, cols ColumnCount, fill format) line {
	l := line{
		display:  cols,
		textF:    fill,
		fillF:    fill,
		inflated: true,
		cells:    cells,
	}
	l.pad()
	return l
}

func (l *line) Len() ColumnCount {
	return l.display
}

func (l *line) isTrivial() bool {
	return !l.inflated
}

// appendTrivial is the fast path for the parser's printable runs: a
// plain ASCII byte landing exactly at the end of the written prefix
// with the same pen keeps the line trivial. Anything else reports
// false and the caller goes through cells.
func (l *line) appendTrivial(col ColumnOffset, b byte, f format, link hyperlinkID) bool {
	if l.inflated || ColumnCount(col) != l.used || l.used >= l.display {
		return false
	}
	if link != l.link && l.used > 0 {
		return false
	}
	if l.used == 0 {
		l.textF = f
		l.link = link
	} else if !f.equal(l.textF) {
		return false
	}
	l.text = append(l.text, b)
	l.used++
	return true
}

// ensureInflated converts to the cell representation in place.
func (l *line) ensureInflated() {
	if l.inflated {
		return
	}
	l.cells = inflateTrivial(l)
	l.inflated = true
	l.text = nil
	l.used = 0
}

// inflateTrivial builds the cell sequence for a trivial buffer:
// grapheme clusters become one primary cell plus continuation cells
// for their width, and the trailing gap is padded with the fill pen.
func inflateTrivial(l *line) []cell {
	cells := make([]cell, 0, l.display)

	gr := uniseg.NewGraphemes(string(l.text))
	for gr.Next() && ColumnCount(len(cells)) < l.display {
		runes := gr.Runes()
		w := runewidth.StringWidth(gr.Str())
		if w < 1 {
			w = 1
		}

		var c cell
		c.write(l.textF, runes[0], w)
		c.link = l.link
		for _, r := range runes[1:] {
			c.appendCharacter(r)
		}
		if c.width() > w {
			w = c.width()
		}

		cells = append(cells, c)
		for i := 1; i < w && ColumnCount(len(cells)) < l.display; i++ {
			cells = append(cells, contCell(l.textF, l.link))
		}
	}

	for ColumnCount(len(cells)) < l.display {
		cells = append(cells, fillCell(l.fillF))
	}
	return cells[:l.display]
}

func (l *line) pad() {
	for ColumnCount(len(l.cells)) < l.display {
		l.cells = append(l.cells, fillCell(l.fillF))
	}
	l.cells = l.cells[:l.display]
}

func (l *line) cellAt(col ColumnOffset) cell {
	if col < 0 || ColumnCount(col) >= l.display {
		return defaultCell()
	}
	if !l.inflated {
		// Peek without converting: the written prefix is ASCII.
		if ColumnCount(col) < l.used {
			c := newCell(rune(l.text[col]), l.textF)
			c.link = l.link
			return c
		}
		return fillCell(l.fillF)
	}
	return l.cells[col]
}

func (l *line) setCell(col ColumnOffset, c cell) {
	if col < 0 || ColumnCount(col) >= l.display {
		return
	}
	l.ensureInflated()
	l.cells[col] = c
}

// resetRange erases [from, to] inclusive with the given fill pen.
func (l *line) resetRange(from, to ColumnOffset, f format) {
	l.ensureInflated()
	from = ColumnOffset(clampInt(int(from), 0, int(l.display)-1))
	to = ColumnOffset(clampInt(int(to), 0, int(l.display)-1))
	for i := from; i <= to; i++ {
		l.cells[i] = fillCell(f)
	}
}

// insertCells shifts cells right within [at, right] and fills the gap.
func (l *line) insertCells(at ColumnOffset, n int, right ColumnOffset, f format) {
	l.ensureInflated()
	if at < 0 || at > right || ColumnCount(right) >= l.display {
		return
	}
	span := int(right-at) + 1
	if n > span {
		n = span
	}
	copy(l.cells[int(at)+n:int(right)+1], l.cells[at:int(right)+1-n])
	for i := 0; i < n; i++ {
		l.cells[int(at)+i] = fillCell(f)
	}
}

// deleteCells shifts cells left within [at, right] and fills the tail.
func (l *line) deleteCells(at ColumnOffset, n int, right ColumnOffset, f format) {
	l.ensureInflated()
	if at < 0 || at > right || ColumnCount(right) >= l.display {
		return
	}
	span := int(right-at) + 1
	if n > span {
		n = span
	}
	copy(l.cells[at:], l.cells[int(at)+n:int(right)+1])
	for i := int(right) - n + 1; i <= int(right); i++ {
		l.cells[i] = fillCell(f)
	}
}

// reflow reshapes the line to a new column count. Shrinking a
// wrappable line returns the overflow cells (trailing blanks
// trimmed) for the grid to carry into the next row; every other case
// returns nil. A cut through the middle of a wide character moves
// the whole character into the overflow and pads the line.
func (l *line) reflow(newCols ColumnCount) []cell {
	if newCols < 1 {
		newCols = 1
	}

	if !l.inflated {
		switch {
		case newCols >= l.used:
			l.display = newCols
			return nil
		}
		l.ensureInflated()
	}

	switch {
	case newCols == l.display:
		return nil
	case newCols > l.display:
		l.display = newCols
		l.pad()
		return nil
	}

	if !l.wrappable {
		l.display = newCols
		l.cells = l.cells[:newCols]
		// A wide character cut at the edge loses its continuation.
		if last := &l.cells[newCols-1]; last.frag == FRAG_PRIMARY {
			*last = fillCell(l.fillF)
		}
		return nil
	}

	cut := int(newCols)
	for cut > 0 && l.cells[cut].frag == FRAG_SECONDARY {
		cut--
	}

	removed := slices.Clone(l.cells[cut:])
	for len(removed) > 0 {
		last := removed[len(removed)-1]
		if !last.empty() || last.frag != FRAG_NONE {
			break
		}
		removed = removed[:len(removed)-1]
	}

	l.cells = l.cells[:cut]
	l.display = newCols
	l.pad()
	return removed
}

// trimBlankRight is a view of the cells with the trailing run of
// empties removed.
func (l *line) trimBlankRight() []cell {
	l.ensureInflated()
	e := len(l.cells)
	for e > 0 && l.cells[e-1].empty() && l.cells[e-1].frag == FRAG_NONE {
		e--
	}
	return l.cells[:e]
}

// usedColumns is the written prefix length: the column count up to
// and including the last non-empty cell.
func (l *line) usedColumns() ColumnCount {
	if !l.inflated {
		return l.used
	}
	return ColumnCount(len(l.trimBlankRight()))
}

func (l *line) toUtf8() string {
	if !l.inflated {
		var sb strings.Builder
		sb.Write(l.text)
		for i := l.used; i < l.display; i++ {
			sb.WriteByte(' ')
		}
		return sb.String()
	}

	var sb strings.Builder
	for _, c := range l.cells {
		if c.frag == FRAG_SECONDARY {
			continue
		}
		if c.empty() {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(c.toUtf8())
		}
	}
	return sb.String()
}

func (l *line) toUtf8Trimmed() string {
	return strings.TrimSpace(l.toUtf8())
}

func (l *line) copy() line {
	nl := *l
	nl.text = slices.Clone(l.text)
	nl.cells = slices.Clone(l.cells)
	return nl
}
