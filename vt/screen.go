package vt

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Notifier receives human readable diagnostics: window titles,
// protocol errors, unhandled strings. It must not re-enter the
// screen.
type Notifier func(msg string)

const maxStringBuf = 4096
const maxSavedCursors = 10

// Screen applies the parser's events against the grid: cursor
// motion, SGR state, modes, margins, erasure, scrolling and reports.
// It is single threaded; the host serializes access.
type Screen struct {
	p *parser
	g *grid

	cur     cursor
	saved   []savedCursor
	curF    format
	curLink hyperlinkID
	cs      charset
	tabs    tabstops

	vertMargin, horizMargin margin

	modes map[string]*mode
	links *hyperlinks

	reply  io.Writer
	notify Notifier

	title, icon           string
	savedTitle, savedIcon string

	oscTemp []byte
	dcsTemp []byte
	strTemp []byte

	// lastPrint points at the cell the previous printable landed in,
	// so the next codepoint can join its grapheme cluster.
	lastPrint    CellLocation
	lastPrintSet bool
}

// NewScreen builds a screen with the given page geometry and
// scrollback capacity. Replies are discarded and notifications
// dropped until a sink is attached.
func NewScreen(cols, rows, history int) *Screen {
	if cols < 1 {
		cols = DEF_COLS
	}
	if rows < 1 {
		rows = DEF_ROWS
	}
	if history < 0 {
		history = DEF_HISTORY
	}

	s := &Screen{
		g:     newGrid(PageSize{Lines: LineCount(rows), Columns: ColumnCount(cols)}, history),
		curF:  defFmt,
		tabs:  makeTabs(cols),
		modes: defaultModes(),
		links: newHyperlinks(),
	}
	s.p = newParser(s)
	return s
}

func (s *Screen) SetReplySink(w io.Writer) {
	s.reply = w
}

func (s *Screen) SetNotifier(n Notifier) {
	s.notify = n
}

// SetInitialFormat seeds the pen from a run of SGR parameters, as if
// they had arrived in a CSI m sequence.
func (s *Screen) SetInitialFormat(sgr ...int) {
	params := newParams()
	for _, p := range sgr {
		params.addItem(p, false)
	}
	s.curF = applyFormat(s.curF, params)
}

// Write feeds bytes through the parser. It never fails; malformed
// input degrades to ground state. Implements io.Writer so a pty can
// be copied straight into the screen.
func (s *Screen) Write(p []byte) (int, error) {
	s.p.Parse(p)
	return len(p), nil
}

func (s *Screen) PageSize() PageSize {
	return s.g.size
}

func (s *Screen) HistorySize() int {
	return s.g.historySize()
}

// CursorPosition reports the cursor in 1 based screen coordinates.
func (s *Screen) CursorPosition() (row, col int) {
	return screenRow(LineOffset(s.cur.row)), screenColumn(ColumnOffset(s.cur.col))
}

// Resize reshapes the page, reflowing wrapped lines to the new
// width.
func (s *Screen) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		slog.Error("ignoring invalid resize", "cols", cols, "rows", rows)
		return
	}

	s.cur = s.g.resize(PageSize{Lines: LineCount(rows), Columns: ColumnCount(cols)}, s.cur)
	s.tabs.resize(cols)
	s.vertMargin = margin{}
	s.horizMargin = margin{}
	s.lastPrintSet = false
	slog.Debug("resized screen", "cols", cols, "rows", rows)
}

// Reset is RIS: grid, scrollback, cursor, margins, tab stops, pen,
// charsets and modes all return to their initial state.
func (s *Screen) Reset() {
	size := s.g.size
	history := s.g.maxHistory
	s.g = newGrid(size, history)
	s.cur = cursor{}
	s.saved = nil
	s.curF = defFmt
	s.curLink = 0
	s.cs = charset{}
	s.tabs = makeTabs(int(size.Columns))
	s.vertMargin = margin{}
	s.horizMargin = margin{}
	s.modes = defaultModes()
	s.links = newHyperlinks()
	s.title, s.icon = "", ""
	s.lastPrintSet = false
}

func (s *Screen) Title() string {
	return s.title
}

func (s *Screen) Icon() string {
	return s.icon
}

// mode helpers

func (s *Screen) getMode(code int, private bool) bool {
	if m, ok := lookupMode(s.modes, code, private); ok {
		return m.get()
	}
	return false
}

func (s *Screen) autowrap() bool {
	return s.getMode(PRIV_DECAWM, true)
}

func (s *Screen) originMode() bool {
	return s.getMode(PRIV_DECOM, true)
}

func (s *Screen) insertMode() bool {
	return s.getMode(MODE_IRM, false)
}

// margin helpers, all 0 based

func (s *Screen) topMargin() int {
	return s.vertMargin.lowOr(0)
}

func (s *Screen) bottomMargin() int {
	return s.vertMargin.highOr(s.g.rows() - 1)
}

func (s *Screen) leftMargin() int {
	return s.horizMargin.lowOr(0)
}

func (s *Screen) rightMargin() int {
	return s.horizMargin.highOr(s.g.cols() - 1)
}

// printLeftEdge and printRightEdge are the wrap boundaries for the
// cursor's current position: the horizontal margins when the cursor
// is inside them, the page edges otherwise.
func (s *Screen) printLeftEdge() int {
	if s.horizMargin.isSet() && s.cur.col >= s.leftMargin() {
		return s.leftMargin()
	}
	return 0
}

func (s *Screen) printRightEdge() int {
	if s.horizMargin.isSet() && s.cur.col <= s.rightMargin() {
		return s.rightMargin()
	}
	return s.g.cols() - 1
}

// print path

func (s *Screen) print(r rune) {
	s.printRune(s.cs.runeFor(r))
}

// printRun is the parser's batched ASCII path. Bytes that can extend
// a trivial line do so without inflating anything; the rest fall
// back to the general path.
func (s *Screen) printRun(str string) {
	plain := s.cs.g[s.cs.set] == csUSASCII && !s.insertMode() && !s.horizMargin.isSet()

	for i := 0; i < len(str); i++ {
		b := str[i]
		if plain && !s.cur.wrapNext {
			l := s.g.lineAt(LineOffset(s.cur.row))
			if l.appendTrivial(ColumnOffset(s.cur.col), b, s.curF, s.curLink) {
				l.wrappable = s.autowrap()
				s.recordPrint()
				s.advanceAfterPrint(1)
				continue
			}
		}
		s.print(rune(b))
	}
}

func (s *Screen) printRune(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 || s.joinsPrevious(r) {
		s.combine(r)
		return
	}
	if w > 2 {
		w = 2
	}

	if s.cur.wrapNext {
		if s.autowrap() {
			s.wrap()
		} else {
			s.cur.wrapNext = false
		}
	}

	right := s.printRightEdge()
	if s.cur.col+w-1 > right {
		// A wide character that no longer fits wraps whole.
		if s.autowrap() {
			s.wrap()
			right = s.printRightEdge()
		} else {
			s.cur.col = maxInt(right-w+1, s.printLeftEdge())
		}
	}

	l := s.g.lineAt(LineOffset(s.cur.row))
	l.wrappable = s.autowrap()

	if s.insertMode() {
		l.insertCells(ColumnOffset(s.cur.col), w, ColumnOffset(right), s.curF)
	}

	s.clearFrags(s.cur.row, s.cur.col)
	if w > 1 {
		s.clearFrags(s.cur.row, s.cur.col+1)
	}

	var c cell
	c.write(s.curF, r, w)
	c.link = s.curLink
	l.setCell(ColumnOffset(s.cur.col), c)
	if w > 1 {
		l.setCell(ColumnOffset(s.cur.col+1), contCell(s.curF, s.curLink))
	}

	s.recordPrint()
	s.advanceAfterPrint(w)
}

// advanceAfterPrint moves the cursor past a w column glyph, raising
// the pending-wrap latch at the right edge.
func (s *Screen) advanceAfterPrint(w int) {
	right := s.printRightEdge()
	if s.cur.col+w-1 >= right {
		// At the edge: with autowrap the latch defers the wrap to
		// the next glyph, without it the edge column gets overwritten.
		s.cur.col = right
		s.cur.wrapNext = s.autowrap()
	} else {
		s.cur.col += w
	}
}

func (s *Screen) recordPrint() {
	s.lastPrint = CellLocation{Line: LineOffset(s.cur.row), Column: ColumnOffset(s.cur.col)}
	s.lastPrintSet = true
}

// joinsPrevious reports whether r belongs to the grapheme cluster of
// the previously printed cell.
func (s *Screen) joinsPrevious(r rune) bool {
	if !s.lastPrintSet {
		return false
	}
	c, err := s.g.cellAt(s.lastPrint)
	if err != nil || c.empty() {
		return false
	}
	return uniseg.GraphemeClusterCount(c.toUtf8()+string(r)) == 1
}

// combine appends a combining codepoint to the previously printed
// cell, extending its continuation when the cluster grows wide.
func (s *Screen) combine(r rune) {
	if !s.lastPrintSet {
		slog.Debug("dropping combining mark with no base", "r", r)
		return
	}

	l := s.g.lineAt(s.lastPrint.Line)
	l.ensureInflated()
	c := l.cells[s.lastPrint.Column]
	oldW := c.width()
	newW := c.appendCharacter(r)
	l.cells[s.lastPrint.Column] = c

	if newW > oldW {
		// The cluster grew (eg a variation selector); stamp the
		// continuation and push the cursor along.
		next := int(s.lastPrint.Column) + newW - 1
		if next < s.g.cols() {
			l.setCell(ColumnOffset(next), contCell(c.f, c.link))
			if s.cur.row == int(s.lastPrint.Line) && !s.cur.wrapNext {
				s.advanceAfterPrint(newW - oldW)
			}
		}
	}
}

// clearFrags prevents dangling halves of wide characters: writing
// over either half of one blanks the other half.
func (s *Screen) clearFrags(row, col int) {
	c, err := s.g.cellAt(CellLocation{Line: LineOffset(row), Column: ColumnOffset(col)})
	if err != nil {
		return
	}
	l := s.g.lineAt(LineOffset(row))
	switch c.frag {
	case FRAG_PRIMARY:
		l.setCell(ColumnOffset(col+1), fillCell(s.curF))
	case FRAG_SECONDARY:
		l.setCell(ColumnOffset(col-1), fillCell(s.curF))
	}
}

// wrap performs the deferred autowrap: down one line (scrolling at
// the bottom margin) and back to the left edge. The continuation
// line is flagged wrapped.
func (s *Screen) wrap() {
	s.cur.wrapNext = false
	s.cur.col = s.printLeftEdge()
	if s.cur.row == s.bottomMargin() {
		s.scrollUp(1)
	} else if s.cur.row < s.g.rows()-1 {
		s.cur.row++
	}
	s.g.lineAt(LineOffset(s.cur.row)).wrapped = true
}

// execute handles C0 controls.

func (s *Screen) execute(b byte) {
	switch b {
	case CTRL_BEL:
		// swallowed; nothing is sent to the notifier
	case CTRL_BS:
		s.cur.wrapNext = false
		left := s.leftMargin()
		if s.cur.col < left {
			left = 0
		}
		s.cur.col = maxInt(s.cur.col-1, left)
	case CTRL_CR:
		s.carriageReturn()
	case CTRL_LF, CTRL_VT, CTRL_FF:
		s.linefeed()
	case CTRL_TAB:
		s.nextTab(1)
	case CTRL_SO:
		s.cs.shiftOut()
	case CTRL_SI:
		s.cs.shiftIn()
	case CTRL_CAN, CTRL_SUB:
		// sequence aborted; parser already returned to ground
	default:
		slog.Debug("unhandled C0 control", "b", b)
	}
}

func (s *Screen) carriageReturn() {
	s.cur.wrapNext = false
	if s.horizMargin.isSet() && s.cur.col >= s.leftMargin() {
		s.cur.col = s.leftMargin()
		return
	}
	s.cur.col = 0
}

// linefeed moves down one line, scrolling at the bottom margin, and
// returns the column to the left margin.
func (s *Screen) linefeed() {
	s.index()
	s.cur.col = s.printLeftEdge()
}

// index moves down one line without touching the column, scrolling
// when the cursor sits on the bottom margin.
func (s *Screen) index() {
	s.cur.wrapNext = false
	switch {
	case s.cur.row == s.bottomMargin():
		s.scrollUp(1)
	case s.cur.row < s.g.rows()-1:
		s.cur.row++
	}
}

// reverseIndex moves up one line, scrolling down at the top margin.
func (s *Screen) reverseIndex() {
	s.cur.wrapNext = false
	switch {
	case s.cur.row == s.topMargin():
		s.scrollDown(1)
	case s.cur.row > 0:
		s.cur.row--
	}
}

func (s *Screen) scrollUp(n int) {
	s.g.scrollUp(n, s.topMargin(), s.bottomMargin(), s.horizMargin, s.curF)
}

func (s *Screen) scrollDown(n int) {
	s.g.scrollDown(n, s.topMargin(), s.bottomMargin(), s.horizMargin, s.curF)
}

func (s *Screen) nextTab(n int) {
	s.cur.wrapNext = false
	right := s.printRightEdge()
	s.cur.col = s.tabs.next(s.cur.col, n, s.printLeftEdge(), right)
}

// string handlers (OSC, DCS, APC, PM)

func (s *Screen) oscStart() {
	s.oscTemp = s.oscTemp[:0]
}

func (s *Screen) oscPut(b byte) {
	if len(s.oscTemp) < maxStringBuf {
		s.oscTemp = append(s.oscTemp, b)
	}
}

func (s *Screen) oscEnd() {
	if len(s.oscTemp) == 0 {
		return
	}

	body := string(s.oscTemp)
	s.oscTemp = s.oscTemp[:0]

	cmd, data, _ := strings.Cut(body, ";")
	switch cmd {
	case OSC_ICON_TITLE:
		s.title, s.icon = data, data
		s.notifyf("title: %s", data)
	case OSC_ICON:
		s.icon = data
		s.notifyf("icon: %s", data)
	case OSC_TITLE:
		s.title = data
		s.notifyf("title: %s", data)
	case OSC_HYPERLINK:
		s.curLink = s.links.intern(data)
	default:
		slog.Debug("unhandled OSC", "cmd", cmd, "data", data)
	}
}

func (s *Screen) dcsHook(params *parameters, intermediate []byte, final byte) {
	s.dcsTemp = s.dcsTemp[:0]
	slog.Debug("DCS hook", "final", string(final), "intermediate", string(intermediate))
}

func (s *Screen) dcsPut(b byte) {
	if len(s.dcsTemp) < maxStringBuf {
		s.dcsTemp = append(s.dcsTemp, b)
	}
}

func (s *Screen) dcsUnhook() {
	if len(s.dcsTemp) > 0 {
		slog.Debug("discarding DCS string", "len", len(s.dcsTemp))
	}
	s.dcsTemp = s.dcsTemp[:0]
}

func (s *Screen) apcStart() {
	s.strTemp = s.strTemp[:0]
}

func (s *Screen) apcPut(b byte) {
	if len(s.strTemp) < maxStringBuf {
		s.strTemp = append(s.strTemp, b)
	}
}

func (s *Screen) apcDispatch() {
	if len(s.strTemp) > 0 {
		s.notifyf("APC: %s", string(s.strTemp))
	}
	s.strTemp = s.strTemp[:0]
}

func (s *Screen) pmStart() {
	s.strTemp = s.strTemp[:0]
}

func (s *Screen) pmPut(b byte) {
	if len(s.strTemp) < maxStringBuf {
		s.strTemp = append(s.strTemp, b)
	}
}

func (s *Screen) pmDispatch() {
	if len(s.strTemp) > 0 {
		s.notifyf("PM: %s", string(s.strTemp))
	}
	s.strTemp = s.strTemp[:0]
}

func (s *Screen) parseError(msg string) {
	slog.Debug("parse error", "msg", msg)
	s.notifyf("parse error: %s", msg)
}

func (s *Screen) notifyf(f string, args ...any) {
	if s.notify != nil {
		s.notify(fmt.Sprintf(f, args...))
	}
}

func (s *Screen) sendReply(f string, args ...any) {
	if s.reply == nil {
		return
	}
	if _, err := fmt.Fprintf(s.reply, f, args...); err != nil {
		slog.Error("reply sink write failed", "err", err)
	}
}

// render queries

// RenderText renders every page row, newline terminated. Empty cells
// render as spaces.
func (s *Screen) RenderText() string {
	var sb strings.Builder
	for i := 0; i < s.g.rows(); i++ {
		sb.WriteString(s.g.lineText(LineOffset(i)))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderTextLine renders one row, 1 based.
func (s *Screen) RenderTextLine(row int) string {
	if row < 1 || row > s.g.rows() {
		return ""
	}
	return s.g.lineText(lineOffset(row))
}

// RenderHistoryTextLine renders one scrollback row, oldest first.
func (s *Screen) RenderHistoryTextLine(i int) (string, error) {
	l, err := s.g.historyLine(i)
	if err != nil {
		return "", err
	}
	return l.toUtf8(), nil
}

// CellView is the read-only answer to At: what a UI needs to draw
// one cell, rendition included.
type CellView struct {
	Text      string
	Width     int
	Empty     bool
	Hyperlink string
	Format    FormatView
}

// At returns the cell at a grid location; negative lines address
// scrollback.
func (s *Screen) At(loc CellLocation) (CellView, error) {
	c, err := s.g.cellAt(loc)
	if err != nil {
		return CellView{}, err
	}
	return CellView{
		Text:      c.toUtf8(),
		Width:     c.width(),
		Empty:     c.empty(),
		Hyperlink: s.links.uri(c.link),
		Format:    c.getFormat().view(),
	}, nil
}

// IsLineWrapped reports whether the line continues the one above it.
func (s *Screen) IsLineWrapped(o LineOffset) bool {
	if !s.g.validLine(o) {
		return false
	}
	return s.g.lineAt(o).wrapped
}

// MarkLine flags a line for the host's selection bookkeeping.
func (s *Screen) MarkLine(o LineOffset, marked bool) {
	if s.g.validLine(o) {
		s.g.lineAt(o).marked = marked
	}
}

func (s *Screen) IsLineMarked(o LineOffset) bool {
	if !s.g.validLine(o) {
		return false
	}
	return s.g.lineAt(o).marked
}
