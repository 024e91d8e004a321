package vt

import (
	"errors"
	"fmt"
)

var gridInvalidCell = errors.New("invalid grid cell")

// grid owns the visible page and the scrollback ring. Visible rows
// live at offsets [0, rows); history is addressed with negative
// offsets, -1 being the newest evicted line.
type grid struct {
	size       PageSize
	lines      []line
	history    []line
	maxHistory int
	fill       format
}

func newGrid(size PageSize, maxHistory int) *grid {
	g := &grid{
		size:       size,
		maxHistory: maxHistory,
		fill:       defFmt,
	}
	g.lines = make([]line, size.Lines)
	for i := range g.lines {
		g.lines[i] = newLine(size.Columns, defFmt, true)
	}
	return g
}

func (g *grid) rows() int {
	return int(g.size.Lines)
}

func (g *grid) cols() int {
	return int(g.size.Columns)
}

func (g *grid) historySize() int {
	return len(g.history)
}

// zeroIndex is the number of lines above screen row 1, ie the offset
// of the visible window into the whole buffer.
func (g *grid) zeroIndex() int {
	return len(g.history)
}

func (g *grid) validLine(o LineOffset) bool {
	return int(o) >= -len(g.history) && int(o) < g.rows()
}

func (g *grid) lineAt(o LineOffset) *line {
	if !g.validLine(o) {
		panic(fmt.Sprintf("line offset %d outside [-%d, %d)", o, len(g.history), g.rows()))
	}
	if o < 0 {
		return &g.history[len(g.history)+int(o)]
	}
	return &g.lines[o]
}

// historyLine addresses scrollback oldest first.
func (g *grid) historyLine(i int) (*line, error) {
	if i < 0 || i >= len(g.history) {
		return nil, fmt.Errorf("history index %d of %d: %w", i, len(g.history), gridInvalidCell)
	}
	return &g.history[i], nil
}

func (g *grid) cellAt(loc CellLocation) (cell, error) {
	if !g.validLine(loc.Line) || loc.Column < 0 || int(loc.Column) >= g.cols() {
		return defaultCell(), fmt.Errorf("invalid coordinates %s: %w", loc, gridInvalidCell)
	}
	return g.lineAt(loc.Line).cellAt(loc.Column), nil
}

func (g *grid) lineText(o LineOffset) string {
	return g.lineAt(o).toUtf8()
}

func (g *grid) pushHistory(l line) {
	if g.maxHistory <= 0 {
		return
	}
	g.history = append(g.history, l)
	if len(g.history) > g.maxHistory {
		drop := len(g.history) - g.maxHistory
		g.history = g.history[drop:]
	}
}

// resetRows replaces whole rows with fresh fill lines.
func (g *grid) resetRows(from, to int, f format) {
	if from > to {
		return
	}
	from = clampInt(from, 0, g.rows()-1)
	to = clampInt(to, 0, g.rows()-1)
	for i := from; i <= to; i++ {
		g.lines[i] = newLine(g.size.Columns, f, true)
	}
}

// scrollUp removes n rows from the top of [top, bottom] and feeds n
// blank rows in at the bottom. When the region spans the full page
// and no horizontal margin restricts it, the evicted rows move to
// scrollback; a restricted region discards them. With a horizontal
// margin only the cells inside [left, right] take part.
func (g *grid) scrollUp(n, top, bottom int, horiz margin, f format) {
	height := bottom - top + 1
	if n < 1 || height < 1 {
		return
	}
	if n > height {
		n = height
	}

	if horiz.isSet() {
		g.scrollUpHoriz(n, top, bottom, horiz, f)
		return
	}

	toHistory := top == 0 && bottom == g.rows()-1
	for i := 0; i < n; i++ {
		if toHistory {
			g.pushHistory(g.lines[top+i])
		}
	}

	copy(g.lines[top:], g.lines[top+n:bottom+1])
	for i := bottom - n + 1; i <= bottom; i++ {
		g.lines[i] = newLine(g.size.Columns, f, true)
	}
}

func (g *grid) scrollUpHoriz(n, top, bottom int, horiz margin, f format) {
	left := ColumnOffset(horiz.lowOr(0))
	right := ColumnOffset(horiz.highOr(g.cols() - 1))

	for i := top; i <= bottom-n; i++ {
		dst, src := &g.lines[i], &g.lines[i+n]
		dst.ensureInflated()
		src.ensureInflated()
		copy(dst.cells[left:right+1], src.cells[left:right+1])
	}
	for i := bottom - n + 1; i <= bottom; i++ {
		g.lines[i].resetRange(left, right, f)
	}
}

// scrollDown mirrors scrollUp; nothing ever enters scrollback.
func (g *grid) scrollDown(n, top, bottom int, horiz margin, f format) {
	height := bottom - top + 1
	if n < 1 || height < 1 {
		return
	}
	if n > height {
		n = height
	}

	if horiz.isSet() {
		left := ColumnOffset(horiz.lowOr(0))
		right := ColumnOffset(horiz.highOr(g.cols() - 1))
		for i := bottom; i >= top+n; i-- {
			dst, src := &g.lines[i], &g.lines[i-n]
			dst.ensureInflated()
			src.ensureInflated()
			copy(dst.cells[left:right+1], src.cells[left:right+1])
		}
		for i := top; i < top+n; i++ {
			g.lines[i].resetRange(left, right, f)
		}
		return
	}

	copy(g.lines[top+n:bottom+1], g.lines[top:bottom+1-n])
	for i := top; i < top+n; i++ {
		g.lines[i] = newLine(g.size.Columns, f, true)
	}
}

// insertLines shifts rows [at, bottom] down by n inside the vertical
// region, dropping the overflow.
func (g *grid) insertLines(n, at, bottom int, horiz margin, f format) {
	g.scrollDown(n, at, bottom, horiz, f)
}

// deleteLines shifts rows below the deleted ones up; evicted rows
// are discarded, never pushed to scrollback.
func (g *grid) deleteLines(n, at, bottom int, horiz margin, f format) {
	height := bottom - at + 1
	if n < 1 || height < 1 {
		return
	}
	if n > height {
		n = height
	}

	if horiz.isSet() {
		g.scrollUpHoriz(n, at, bottom, horiz, f)
		return
	}

	copy(g.lines[at:], g.lines[at+n:bottom+1])
	for i := bottom - n + 1; i <= bottom; i++ {
		g.lines[i] = newLine(g.size.Columns, f, true)
	}
}

// wrapCells rewraps one logical line's cells at the given width,
// producing the physical lines. Every line after the first carries
// the wrapped flag.
func wrapCells(cells []cell, cols ColumnCount, fill format) []line {
	var out []line
	for first := true; ; first = false {
		display := ColumnCount(len(cells))
		if display < cols {
			display = cols
		}
		l := newInflatedLine(cells, display, fill)
		l.wrappable = true
		over := l.reflow(cols)
		l.wrapped = !first
		out = append(out, l)
		if len(over) == 0 {
			return out
		}
		cells = over
	}
}

// resize reshapes the grid to a new page size, reflowing wrapped
// lines across the new width and redistributing rows between page
// and scrollback. It returns the cursor's new position.
func (g *grid) resize(size PageSize, cur cursor) cursor {
	if size.Lines < 1 {
		size.Lines = 1
	}
	if size.Columns < 1 {
		size.Columns = 1
	}
	if size == g.size {
		return cur
	}

	all := make([]line, 0, len(g.history)+len(g.lines))
	all = append(all, g.history...)
	all = append(all, g.lines...)
	curIdx := len(g.history) + cur.row
	curCol := cur.col

	if size.Columns != g.size.Columns {
		all, curIdx, curCol = reflowLines(all, size.Columns, curIdx, curCol, g.fill)
	}

	// Drop the fully blank tail below the content and the cursor so
	// shrinking the page does not stuff empty rows into scrollback.
	content := curIdx + 1
	for i := len(all) - 1; i >= content; i-- {
		if all[i].usedColumns() > 0 {
			content = i + 1
			break
		}
	}
	all = all[:content]

	screenStart := maxInt(0, content-int(size.Lines))
	g.history = all[:screenStart]
	g.lines = append([]line{}, all[screenStart:]...)
	for len(g.lines) < int(size.Lines) {
		g.lines = append(g.lines, newLine(size.Columns, g.fill, true))
	}
	g.size = size
	if keep := maxInt(g.maxHistory, 0); len(g.history) > keep {
		g.history = g.history[len(g.history)-keep:]
	}

	cur.row = clampInt(curIdx-screenStart, 0, int(size.Lines)-1)
	cur.col = clampInt(curCol, 0, int(size.Columns)-1)
	cur.wrapNext = false
	return cur
}

// reflowLines joins wrapped runs back into logical lines and rewraps
// them at the new width, tracking one cell position through the
// process.
func reflowLines(all []line, cols ColumnCount, curIdx, curCol int, fill format) ([]line, int, int) {
	out := make([]line, 0, len(all))
	newCurIdx, newCurCol := -1, curCol

	for i := 0; i < len(all); {
		// Collect one logical line: a non-wrapped head plus its
		// wrapped continuations.
		j := i + 1
		for j < len(all) && all[j].wrapped {
			j++
		}

		head := all[i]
		if !head.wrappable && j == i+1 {
			// Unwrappable lines truncate or extend in place.
			onCursor := i == curIdx
			head.reflow(cols)
			if onCursor {
				newCurIdx = len(out)
			}
			out = append(out, head)
			i = j
			continue
		}

		var cells []cell
		curOffset := -1
		for k := i; k < j; k++ {
			if k == curIdx {
				curOffset = len(cells) + curCol
			}
			l := all[k]
			cells = append(cells, l.trimBlankRight()...)
		}

		wrapped := wrapCells(cells, cols, fill)
		if curOffset >= 0 {
			newCurIdx = len(out) + minInt(curOffset/int(cols), len(wrapped)-1)
			newCurCol = curOffset % int(cols)
		}
		out = append(out, wrapped...)
		i = j
	}

	if newCurIdx < 0 {
		newCurIdx = clampInt(curIdx, 0, maxInt(0, len(out)-1))
	}
	return out, newCurIdx, newCurCol
}
