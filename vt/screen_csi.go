package vt

import (
	"log/slog"
	"slices"
)

func (s *Screen) isPrivate(intermediate []byte) bool {
	return slices.Contains(intermediate, '?')
}

func (s *Screen) escDispatch(intermediate []byte, final byte) {
	if len(intermediate) > 0 {
		switch intermediate[0] {
		case '(', ')':
			s.cs.designate(intermediate[0], final)
		case '#':
			if final == ESC_DECALN {
				s.alignmentPattern()
			} else {
				slog.Debug("unhandled ESC # sequence", "final", string(final))
			}
		default:
			slog.Debug("unhandled ESC intermediate", "intermediate", string(intermediate), "final", string(final))
		}
		return
	}

	switch final {
	case ESC_DECSC:
		s.saveCursor()
	case ESC_DECRC:
		s.restoreCursor()
	case ESC_IND:
		s.index()
	case ESC_NEL:
		s.index()
		s.cur.col = s.printLeftEdge()
	case ESC_HTS:
		s.tabs.set(s.cur.col)
	case ESC_RI:
		s.reverseIndex()
	case ESC_RIS:
		s.Reset()
	case ESC_ST:
		// string terminator; the string state already dispatched
	case '=', '>':
		slog.Debug("swallowing keypad mode", "final", string(final))
	default:
		slog.Debug("ignoring ESC", "final", string(final))
	}
}

func (s *Screen) csiDispatch(params *parameters, intermediate []byte, final byte) {
	private := s.isPrivate(intermediate)

	switch final {
	case CSI_ICH:
		s.insertCharacters(params.getItemDefault(0, 1))
	case CSI_CUU:
		s.cursorUp(params.getItemDefault(0, 1))
	case CSI_CUD:
		s.cursorDown(params.getItemDefault(0, 1))
	case CSI_CUF:
		s.cursorForward(params.getItemDefault(0, 1))
	case CSI_CUB:
		s.cursorBack(params.getItemDefault(0, 1))
	case CSI_CNL:
		s.cursorDown(params.getItemDefault(0, 1))
		s.cur.col = s.printLeftEdge()
	case CSI_CPL:
		s.cursorUp(params.getItemDefault(0, 1))
		s.cur.col = s.printLeftEdge()
	case CSI_CHA, CSI_HPA:
		s.moveCursorToColumn(params.getItemDefault(0, 1))
	case CSI_CUP, CSI_HVP:
		s.moveCursorTo(params.getItemDefault(0, 1), params.getItemDefault(1, 1))
	case CSI_CHT:
		s.nextTab(params.getItemDefault(0, 1))
	case CSI_CBT:
		s.nextTab(-params.getItemDefault(0, 1))
	case CSI_ED:
		s.eraseInDisplay(params)
	case CSI_EL:
		s.eraseInLine(params)
	case CSI_IL:
		s.insertLines(params.getItemDefault(0, 1))
	case CSI_DL:
		s.deleteLines(params.getItemDefault(0, 1))
	case CSI_DCH:
		s.deleteCharacters(params.getItemDefault(0, 1))
	case CSI_ECH:
		s.eraseCharacters(params.getItemDefault(0, 1))
	case CSI_SU:
		s.scrollUp(params.getItemDefault(0, 1))
	case CSI_SD:
		s.scrollDown(params.getItemDefault(0, 1))
	case CSI_DECST8C:
		s.resetTabs(params, private)
	case CSI_VPA:
		s.moveCursorToLine(params.getItemDefault(0, 1))
	case CSI_VPR:
		s.cursorMoveAbs(s.cur.row+params.getItemDefault(0, 1), s.cur.col)
	case CSI_HPR:
		s.cursorMoveAbs(s.cur.row, s.cur.col+params.getItemDefault(0, 1))
	case CSI_TBC:
		s.clearTabs(params)
	case CSI_MODE_SET:
		s.setModes(params, private, true)
	case CSI_MODE_RESET:
		s.setModes(params, private, false)
	case CSI_SGR:
		if len(intermediate) > 0 {
			slog.Debug("swallowing xterm key modifier sequence", "intermediate", string(intermediate))
		} else {
			s.curF = applyFormat(s.curF, params)
		}
	case CSI_DSR:
		s.deviceStatusReport(params, private)
	case CSI_DA:
		s.replyDeviceAttributes(intermediate)
	case CSI_DECSTBM:
		s.setTopBottomMargin(params)
	case CSI_DECSLRM:
		if s.getMode(PRIV_DECLRMM, true) {
			s.setLeftRightMargin(params)
		} else {
			// ANSI SCOSC shares the final byte
			s.saveCursor()
		}
	case 'u': // ANSI SCORC
		s.restoreCursor()
	case 'p':
		if slices.Contains(intermediate, '!') {
			s.softReset()
		} else {
			slog.Debug("unhandled CSI p variant", "intermediate", string(intermediate))
		}
	case CSI_XTWINOPS:
		s.xtwinops(params)
	default:
		slog.Debug("unimplemented CSI code", "final", string(final), "intermediate", string(intermediate))
	}
}

// cursor movement

// cursorMoveAbs clamps a raw 0 based target into the page. Explicit
// movement always drops the pending-wrap latch.
func (s *Screen) cursorMoveAbs(row, col int) {
	s.cur.wrapNext = false
	s.cur.row = clampInt(row, 0, s.g.rows()-1)
	s.cur.col = clampInt(col, 0, s.g.cols()-1)
}

// moveCursorTo is CUP/HVP with 1 based arguments. Under origin mode
// addressing is relative to the margins and clamped inside them.
func (s *Screen) moveCursorTo(row, col int) {
	r := int(lineOffset(row))
	c := int(columnOffset(col))

	if s.originMode() {
		r = clampInt(r+s.topMargin(), s.topMargin(), s.bottomMargin())
		c = clampInt(c+s.leftMargin(), s.leftMargin(), s.rightMargin())
	}
	s.cursorMoveAbs(r, c)
}

func (s *Screen) moveCursorToLine(row int) {
	r := int(lineOffset(row))
	if s.originMode() {
		r = clampInt(r+s.topMargin(), s.topMargin(), s.bottomMargin())
	}
	s.cursorMoveAbs(r, s.cur.col)
}

func (s *Screen) moveCursorToColumn(col int) {
	c := int(columnOffset(col))
	if s.originMode() {
		c = clampInt(c+s.leftMargin(), s.leftMargin(), s.rightMargin())
	}
	s.cursorMoveAbs(s.cur.row, c)
}

// Relative moves never cross a margin the cursor is inside of.

func (s *Screen) cursorUp(n int) {
	top := s.topMargin()
	if s.cur.row < top {
		top = 0
	}
	s.cursorMoveAbs(maxInt(s.cur.row-n, top), s.cur.col)
}

func (s *Screen) cursorDown(n int) {
	bottom := s.bottomMargin()
	if s.cur.row > bottom {
		bottom = s.g.rows() - 1
	}
	s.cursorMoveAbs(minInt(s.cur.row+n, bottom), s.cur.col)
}

func (s *Screen) cursorForward(n int) {
	right := s.rightMargin()
	if s.cur.col > right {
		right = s.g.cols() - 1
	}
	s.cursorMoveAbs(s.cur.row, minInt(s.cur.col+n, right))
}

func (s *Screen) cursorBack(n int) {
	left := s.leftMargin()
	if s.cur.col < left {
		left = 0
	}
	s.cursorMoveAbs(s.cur.row, maxInt(s.cur.col-n, left))
}

// save/restore

func (s *Screen) saveCursor() {
	sc := savedCursor{
		cur:    s.cur.Copy(),
		f:      s.curF,
		origin: s.originMode(),
		cs:     s.cs.copy(),
		link:   s.curLink,
	}
	s.saved = append(s.saved, sc)
	if len(s.saved) > maxSavedCursors {
		s.saved = s.saved[1:]
	}
}

func (s *Screen) restoreCursor() {
	if len(s.saved) == 0 {
		// Nothing saved restores the defaults, like DECRC after RIS.
		s.cur = cursor{}
		s.curF = defFmt
		s.cs = charset{}
		s.curLink = 0
		return
	}

	sc := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.cur = sc.cur.Copy()
	s.curF = sc.f
	s.cs = sc.cs
	s.curLink = sc.link
	if m, ok := lookupMode(s.modes, PRIV_DECOM, true); ok {
		m.set(sc.origin)
	}
	s.cur.row = clampInt(s.cur.row, 0, s.g.rows()-1)
	s.cur.col = clampInt(s.cur.col, 0, s.g.cols()-1)
}

// character edits

func (s *Screen) insertCharacters(n int) {
	if s.horizMargin.isSet() && !s.horizMargin.contains(s.cur.col) {
		return
	}
	l := s.g.lineAt(LineOffset(s.cur.row))
	l.insertCells(ColumnOffset(s.cur.col), n, ColumnOffset(s.rightMargin()), s.curF)
}

func (s *Screen) deleteCharacters(n int) {
	if s.horizMargin.isSet() && !s.horizMargin.contains(s.cur.col) {
		return
	}
	l := s.g.lineAt(LineOffset(s.cur.row))
	l.deleteCells(ColumnOffset(s.cur.col), n, ColumnOffset(s.rightMargin()), s.curF)
}

// eraseCharacters overwrites n cells in place; nothing shifts.
func (s *Screen) eraseCharacters(n int) {
	if n < 1 {
		n = 1
	}
	to := minInt(s.cur.col+n-1, s.g.cols()-1)
	l := s.g.lineAt(LineOffset(s.cur.row))
	l.resetRange(ColumnOffset(s.cur.col), ColumnOffset(to), s.curF)
}

// line edits

func (s *Screen) insertLines(n int) {
	if !s.vertMargin.contains(s.cur.row) {
		return
	}
	if s.horizMargin.isSet() && !s.horizMargin.contains(s.cur.col) {
		return
	}
	s.g.insertLines(n, s.cur.row, s.bottomMargin(), s.horizMargin, s.curF)
	s.cur.col = s.printLeftEdge()
	s.cur.wrapNext = false
}

func (s *Screen) deleteLines(n int) {
	if !s.vertMargin.contains(s.cur.row) {
		return
	}
	if s.horizMargin.isSet() && !s.horizMargin.contains(s.cur.col) {
		return
	}
	s.g.deleteLines(n, s.cur.row, s.bottomMargin(), s.horizMargin, s.curF)
	s.cur.col = s.printLeftEdge()
	s.cur.wrapNext = false
}

// erase

func (s *Screen) eraseInLine(params *parameters) {
	m, _ := params.getItem(0, 0)
	l := s.g.lineAt(LineOffset(s.cur.row))
	last := ColumnOffset(s.g.cols() - 1)

	switch m {
	case 0: // to end of line
		l.resetRange(ColumnOffset(s.cur.col), last, s.curF)
	case 1: // to start of line, inclusive
		l.resetRange(0, ColumnOffset(s.cur.col), s.curF)
	case 2: // entire line
		l.resetRange(0, last, s.curF)
	}
}

func (s *Screen) eraseInDisplay(params *parameters) {
	m, _ := params.getItem(0, 0)
	nr := s.g.rows()

	switch m {
	case 0: // cursor to end of screen
		s.g.resetRows(s.cur.row+1, nr-1, s.curF)
		s.eraseInLine(params)
	case 1: // start of screen to cursor
		if s.cur.row > 0 {
			s.g.resetRows(0, s.cur.row-1, s.curF)
		}
		s.eraseInLine(params)
	case 2: // entire screen
		s.g.resetRows(0, nr-1, s.curF)
	case 3: // entire screen plus scrollback
		s.g.resetRows(0, nr-1, s.curF)
		s.g.history = nil
	}
}

// alignmentPattern is DECALN: fill the page with E at default
// attributes, reset the margins and home the cursor.
func (s *Screen) alignmentPattern() {
	s.vertMargin = margin{}
	s.horizMargin = margin{}
	cols := s.g.size.Columns

	for r := 0; r < s.g.rows(); r++ {
		l := newLine(cols, defFmt, true)
		for c := ColumnCount(0); c < cols; c++ {
			l.appendTrivial(ColumnOffset(c), 'E', defFmt, 0)
		}
		s.g.lines[r] = l
	}
	s.cursorMoveAbs(0, 0)
}

// margins

func (s *Screen) setTopBottomMargin(params *parameters) {
	nr := s.g.rows()
	top := params.getItemDefault(0, 1)
	bottom := params.getItemDefault(1, nr)

	m, ok := marginFromScreen(top, bottom, nr)
	if !ok {
		return // matches xterm
	}
	s.vertMargin = m
	slog.Debug("set top/bottom margin", "margin", s.vertMargin)
	s.moveCursorTo(1, 1)
}

func (s *Screen) setLeftRightMargin(params *parameters) {
	nc := s.g.cols()
	left := params.getItemDefault(0, 1)
	right := params.getItemDefault(1, nc)

	m, ok := marginFromScreen(left, right, nc)
	if !ok {
		return // matches xterm
	}
	s.horizMargin = m
	slog.Debug("set left/right margin", "margin", s.horizMargin)
	s.moveCursorTo(1, 1)
}

// modes

func (s *Screen) setModes(params *parameters, private bool, val bool) {
	for {
		code, ok := params.consumeItem()
		if !ok {
			break
		}
		s.setMode(code, private, val)
	}
}

func (s *Screen) setMode(code int, private bool, val bool) {
	m, ok := lookupMode(s.modes, code, private)
	if !ok {
		return
	}
	m.set(val)

	if !private {
		return
	}

	switch code {
	case PRIV_DECOM:
		// Entering or leaving origin mode homes the cursor.
		s.moveCursorTo(1, 1)
	case PRIV_DECLRMM:
		if !val {
			s.horizMargin = margin{}
		}
	case PRIV_DECCOLM:
		cols := DEF_COLS
		if val {
			cols = 132
		}
		s.Resize(cols, s.g.rows())
		s.g.resetRows(0, s.g.rows()-1, s.curF)
		s.vertMargin = margin{}
		s.horizMargin = margin{}
		s.moveCursorTo(1, 1)
	}
}

// softReset is DECSTR: margins, pen, charsets and saved cursors return
// to their defaults and the modes below take the listed values (which
// turns autowrap off, although it defaults on), while the grid
// contents, cursor position, tab stops and title stay put.
func (s *Screen) softReset() {
	resets := []struct {
		code    int
		private bool
		val     bool
	}{
		{PRIV_DECTCEM, true, true},
		{PRIV_DECOM, true, false},
		{PRIV_DECAWM, true, false},
		{PRIV_DECCKM, true, false},
		{MODE_IRM, false, false},
	}
	for _, r := range resets {
		if m, ok := lookupMode(s.modes, r.code, r.private); ok {
			m.set(r.val)
		}
	}

	s.vertMargin = margin{}
	s.horizMargin = margin{}
	s.curF = defFmt
	s.curLink = 0
	s.cs = charset{}
	s.saved = nil
	s.cur.wrapNext = false
}

// tabs

func (s *Screen) resetTabs(params *parameters, private bool) {
	n, ok := params.getItem(0, 0)
	if !private || !ok || n != 5 {
		slog.Debug("DECST8C without ? 5", "params", params.items, "private", private)
		return
	}
	s.tabs = makeTabs(s.g.cols())
}

func (s *Screen) clearTabs(params *parameters) {
	m, _ := params.getItem(0, 0)
	switch m {
	case TBC_CUR:
		s.tabs.clear(s.cur.col)
	case TBC_ALL:
		s.tabs.clearAll()
	}
}

// reports

func (s *Screen) deviceStatusReport(params *parameters, private bool) {
	n, _ := params.getItem(0, 0)

	if private {
		switch n {
		case DSR_CPR:
			// DECXCPR: cursor position with the page number
			row, col := s.reportedCursor()
			s.sendReply("%c%c%d;%d;1R", ESC, ESC_CSI, row, col)
		default:
			slog.Debug("swallowing private DSR", "n", n)
		}
		return
	}

	switch n {
	case DSR_STATUS: // we are always OK
		s.sendReply("%c%c0%c", ESC, ESC_CSI, CSI_DSR)
	case DSR_CPR:
		row, col := s.reportedCursor()
		s.sendReply("%c%c%d;%dR", ESC, ESC_CSI, row, col)
	default:
		slog.Debug("unknown DSR", "n", n)
	}
}

// reportedCursor is the 1 based position, margin relative under
// origin mode.
func (s *Screen) reportedCursor() (int, int) {
	row, col := s.cur.row, s.cur.col
	if s.originMode() {
		row -= s.topMargin()
		col -= s.leftMargin()
	}
	return screenRow(LineOffset(row)), screenColumn(ColumnOffset(col))
}

func (s *Screen) replyDeviceAttributes(intermediate []byte) {
	switch {
	case len(intermediate) == 0: // primary: vt220
		s.sendReply("\x1b[?62c")
	case intermediate[0] == '>': // secondary: vt220
		s.sendReply("\x1b[>1;10;0c")
	case intermediate[0] == '=':
		slog.Debug("ignoring request for tertiary device attributes")
	default:
		slog.Debug("unexpected device attributes request", "intermediate", string(intermediate))
	}
}

func (s *Screen) xtwinops(params *parameters) {
	cmd, _ := params.getItem(0, 0)
	switch cmd {
	case 22: // save title and icon
		s.savedTitle = s.title
		s.savedIcon = s.icon
	case 23: // restore title and icon
		s.title = s.savedTitle
		s.icon = s.savedIcon
	default:
		slog.Debug("unhandled xtwinops", "cmd", cmd)
	}
}
