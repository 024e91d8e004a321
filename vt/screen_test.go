package vt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScreen(cols, rows int) *Screen {
	return NewScreen(cols, rows, DEF_HISTORY)
}

func write(s *Screen, data string) {
	s.Write([]byte(data))
}

func rows(s *Screen) []string {
	return strings.Split(strings.TrimSuffix(s.RenderText(), "\n"), "\n")
}

func TestScreenAutowrapToggle(t *testing.T) {
	s := testScreen(3, 1)
	write(s, "\x1b[?7l")
	write(s, "ABCD")
	require.Equal(t, []string{"ABD"}, rows(s))

	write(s, "\x1b[?7h")
	write(s, "EF")
	require.Equal(t, []string{"F  "}, rows(s))
}

func TestScreenAutowrapScrolls(t *testing.T) {
	s := testScreen(3, 2)
	write(s, "ABCDEFG")
	require.Equal(t, []string{"DEF", "G  "}, rows(s))
	assert.Equal(t, 1, s.HistorySize())
}

func TestScreenIndexInMargins(t *testing.T) {
	s := testScreen(5, 5)
	write(s, "12345\n67890\nABCDE\nFGHIJ\nKLMNO")
	write(s, "\x1b[2;4r")
	write(s, "\x1b[4;2H")
	write(s, "\x1bD")
	require.Equal(t, []string{"12345", "ABCDE", "FGHIJ", "     ", "KLMNO"}, rows(s))
}

func TestScreenIndexInLRMargins(t *testing.T) {
	s := testScreen(5, 5)
	write(s, "12345\n67890\nABCDE\nFGHIJ\nKLMNO")
	write(s, "\x1b[?69h")
	write(s, "\x1b[2;4s")
	write(s, "\x1b[2;4r")
	write(s, "\x1b[4;2H")
	write(s, "\x1bD")
	require.Equal(t, []string{"12345", "6BCD0", "AGHIE", "F   J", "KLMNO"}, rows(s))
}

func TestScreenScrollIntoHistory(t *testing.T) {
	s := testScreen(5, 5)
	write(s, "12345\n67890\nABCDE\nFGHIJ\nKLMNO")
	write(s, "PQRST")
	write(s, "\x1b[H")

	require.Equal(t, 1, s.HistorySize())
	h, err := s.RenderHistoryTextLine(0)
	require.NoError(t, err)
	assert.Equal(t, "12345", h)
	require.Equal(t, []string{"67890", "ABCDE", "FGHIJ", "KLMNO", "PQRST"}, rows(s))
}

func TestScreenTabStops(t *testing.T) {
	s := testScreen(20, 3)

	write(s, "\t")
	_, col := s.CursorPosition()
	assert.Equal(t, 9, col)

	write(s, "\t")
	_, col = s.CursorPosition()
	assert.Equal(t, 17, col)

	write(s, "\t")
	_, col = s.CursorPosition()
	assert.Equal(t, 20, col)

	write(s, "AB")
	assert.Equal(t, "B", s.RenderTextLine(2)[:1])

	write(s, "\t")
	row, col := s.CursorPosition()
	assert.Equal(t, 2, row)
	assert.Equal(t, 9, col)
}

func TestScreenPendingWrapLatch(t *testing.T) {
	s := testScreen(3, 2)
	write(s, "ABC")

	// The latch holds the cursor on the edge column.
	row, col := s.CursorPosition()
	assert.Equal(t, 1, row)
	assert.Equal(t, 3, col)

	// Explicit movement clears the latch without wrapping.
	write(s, "\x1b[1;1H")
	write(s, "X")
	require.Equal(t, []string{"XBC", "   "}, rows(s))
}

func TestScreenCarriageReturnAndBackspace(t *testing.T) {
	s := testScreen(10, 2)
	write(s, "hello\rHE")
	assert.Equal(t, "HEllo     ", s.RenderTextLine(1))

	write(s, "\x08\x08X")
	assert.Equal(t, "XEllo", s.RenderTextLine(1)[:5])

	// BS at the left edge stays put.
	write(s, "\r\x08\x08Y")
	assert.Equal(t, "YEllo", s.RenderTextLine(1)[:5])
}

func TestScreenEraseInLine(t *testing.T) {
	s := testScreen(5, 1)
	write(s, "abcde")
	write(s, "\x1b[1;3H")

	write(s, "\x1b[K") // to end
	require.Equal(t, []string{"ab   "}, rows(s))

	// ClearLine twice equals once.
	write(s, "\x1b[2K")
	once := s.RenderText()
	write(s, "\x1b[2K")
	assert.Equal(t, once, s.RenderText())
	require.Equal(t, []string{"     "}, rows(s))
}

func TestScreenEraseInDisplay(t *testing.T) {
	s := testScreen(3, 3)
	write(s, "abc\ndef\nghi")
	write(s, "\x1b[2;2H")

	write(s, "\x1b[J")
	require.Equal(t, []string{"abc", "d  ", "   "}, rows(s))

	write(s, "\x1b[1J")
	require.Equal(t, []string{"   ", "   ", "   "}, rows(s))
}

func TestScreenEraseCharacters(t *testing.T) {
	s := testScreen(6, 1)
	write(s, "abcdef")
	write(s, "\x1b[1;2H\x1b[3X")
	require.Equal(t, []string{"a   ef"}, rows(s))
}

func TestScreenInsertDeleteCharacters(t *testing.T) {
	s := testScreen(6, 1)
	write(s, "abcdef")
	write(s, "\x1b[1;2H\x1b[2@")
	require.Equal(t, []string{"a  bcd"}, rows(s))

	write(s, "\x1b[2P")
	require.Equal(t, []string{"abcd  "}, rows(s))
}

func TestScreenInsertDeleteLines(t *testing.T) {
	s := testScreen(3, 4)
	write(s, "aaa\nbbb\nccc\nddd")
	write(s, "\x1b[2;1H\x1b[L")
	require.Equal(t, []string{"aaa", "   ", "bbb", "ccc"}, rows(s))

	write(s, "\x1b[M")
	require.Equal(t, []string{"aaa", "bbb", "ccc", "   "}, rows(s))
}

func TestScreenInsertMode(t *testing.T) {
	s := testScreen(6, 1)
	write(s, "abcd")
	write(s, "\x1b[1;2H\x1b[4h")
	write(s, "XY")
	write(s, "\x1b[4l")
	require.Equal(t, []string{"aXYbcd"}, rows(s))
}

func TestScreenReverseIndexScrollsDown(t *testing.T) {
	s := testScreen(3, 3)
	write(s, "aaa\nbbb\nccc")
	write(s, "\x1b[1;1H\x1bM")
	require.Equal(t, []string{"   ", "aaa", "bbb"}, rows(s))
}

func TestScreenOriginMode(t *testing.T) {
	s := testScreen(10, 10)
	write(s, "\x1b[3;8r\x1b[?6h")

	// Home is the margin's corner under origin mode.
	write(s, "X")
	assert.Equal(t, "X", strings.TrimSpace(s.RenderTextLine(3)))

	// Addressing clamps inside the margins.
	write(s, "\x1b[99;1HY")
	assert.Equal(t, "Y", strings.TrimSpace(s.RenderTextLine(8)))
}

func TestScreenSaveRestoreCursor(t *testing.T) {
	s := testScreen(10, 5)
	write(s, "\x1b[3;4H\x1b[1m")
	write(s, "\x1b7")
	write(s, "\x1b[1;1H\x1b[m")
	write(s, "\x1b8")

	row, col := s.CursorPosition()
	assert.Equal(t, 3, row)
	assert.Equal(t, 4, col)
	assert.True(t, s.curF.attrIsSet(BOLD))

	// Save then restore with nothing in between is the identity.
	before := s.cur
	write(s, "\x1b7\x1b8")
	assert.Equal(t, before, s.cur)
}

func TestScreenAlignmentPattern(t *testing.T) {
	s := testScreen(4, 3)
	write(s, "\x1b[2;3r")
	write(s, "\x1b#8")

	require.Equal(t, []string{"EEEE", "EEEE", "EEEE"}, rows(s))
	row, col := s.CursorPosition()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)

	// Margins were reset: index from the last row scrolls everything.
	write(s, "\x1b[3;1H\x1bD")
	assert.Equal(t, "EEEE", s.RenderTextLine(2))
	assert.Equal(t, "    ", s.RenderTextLine(3))
}

func TestScreenCursorReports(t *testing.T) {
	var reply bytes.Buffer
	s := testScreen(10, 5)
	s.SetReplySink(&reply)

	write(s, "\x1b[3;4H\x1b[6n")
	assert.Equal(t, "\x1b[3;4R", reply.String())

	reply.Reset()
	write(s, "\x1b[?6n")
	assert.Equal(t, "\x1b[3;4;1R", reply.String())

	// Origin mode makes the report margin relative.
	reply.Reset()
	write(s, "\x1b[2;5r\x1b[?6h\x1b[6n")
	assert.Equal(t, "\x1b[1;1R", reply.String())
}

func TestScreenStatusReports(t *testing.T) {
	var reply bytes.Buffer
	s := testScreen(10, 5)
	s.SetReplySink(&reply)

	write(s, "\x1b[5n")
	assert.Equal(t, "\x1b[0n", reply.String())

	reply.Reset()
	write(s, "\x1b[c")
	assert.Equal(t, "\x1b[?62c", reply.String())

	reply.Reset()
	write(s, "\x1b[>c")
	assert.Equal(t, "\x1b[>1;10;0c", reply.String())
}

func TestScreenMarginValidation(t *testing.T) {
	s := testScreen(10, 5)
	write(s, "\x1b[4;2r") // top >= bottom: ignored
	assert.False(t, s.vertMargin.isSet())

	write(s, "\x1b[2;4s") // DECLRMM off: behaves as save cursor
	assert.False(t, s.horizMargin.isSet())

	write(s, "\x1b[?69h\x1b[4;2s") // left >= right: ignored
	assert.False(t, s.horizMargin.isSet())
}

func TestScreenWideCharacters(t *testing.T) {
	s := testScreen(4, 1)
	write(s, "世a")
	require.Equal(t, []string{"世a "}, rows(s))

	v, err := s.At(CellLocation{Line: 0, Column: 0})
	require.NoError(t, err)
	assert.Equal(t, 2, v.Width)
	assert.Equal(t, "世", v.Text)

	// Overwriting either half clears the partner cell.
	write(s, "\x1b[1;2Hx")
	require.Equal(t, []string{" xa "}, rows(s))
}

func TestScreenWideCharWrapsWhole(t *testing.T) {
	s := testScreen(3, 2)
	write(s, "ab世")
	require.Equal(t, []string{"ab ", "世 "}, rows(s))
}

func TestScreenCombiningMark(t *testing.T) {
	s := testScreen(5, 1)
	write(s, "e\u0301x")

	// The mark fuses into the base cell; the composed form renders.
	require.Equal(t, []string{"\u00e9x   "}, rows(s))
	_, col := s.CursorPosition()
	assert.Equal(t, 3, col)

	v, err := s.At(CellLocation{Line: 0, Column: 0})
	require.NoError(t, err)
	assert.Equal(t, "\u00e9", v.Text)
}

func TestScreenTitleAndIcon(t *testing.T) {
	var notes []string
	s := testScreen(10, 2)
	s.SetNotifier(func(m string) { notes = append(notes, m) })

	write(s, "\x1b]2;my title\x07")
	assert.Equal(t, "my title", s.Title())

	write(s, "\x1b]1;my icon\x1b\\")
	assert.Equal(t, "my icon", s.Icon())
	assert.NotEmpty(t, notes)

	// xtwinops save/restore
	write(s, "\x1b[22t")
	write(s, "\x1b]2;other\x07")
	write(s, "\x1b[23t")
	assert.Equal(t, "my title", s.Title())
}

func TestScreenHyperlinks(t *testing.T) {
	s := testScreen(10, 1)
	write(s, "\x1b]8;;https://example.com\x07link\x1b]8;;\x07no")

	v, err := s.At(CellLocation{Line: 0, Column: 0})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", v.Hyperlink)

	v, err = s.At(CellLocation{Line: 0, Column: 4})
	require.NoError(t, err)
	assert.Equal(t, "", v.Hyperlink)
}

func TestScreenReset(t *testing.T) {
	s := testScreen(5, 3)
	write(s, "abc\ndef\x1b[1m\x1b[2;3r\x1b]2;t\x07")
	write(s, "\x1bc")

	require.Equal(t, []string{"     ", "     ", "     "}, rows(s))
	row, col := s.CursorPosition()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
	assert.False(t, s.vertMargin.isSet())
	assert.Equal(t, "", s.Title())
	assert.True(t, s.curF.equal(defFmt))
	assert.Equal(t, 0, s.HistorySize())
}

func TestScreenSoftReset(t *testing.T) {
	s := testScreen(10, 5)
	write(s, "abc")
	write(s, "\x1b[2;4r\x1b[?6h\x1b[1m\x1b(0\x1b7")
	write(s, "\x1b[!p")

	// Margins, pen, charsets, origin mode and saved cursors reset.
	assert.False(t, s.vertMargin.isSet())
	assert.False(t, s.getMode(PRIV_DECOM, true))
	assert.True(t, s.curF.equal(defFmt))
	assert.Empty(t, s.saved)
	assert.Equal(t, "q", string(s.cs.runeFor('q')))

	// Grid contents and the cursor survive, unlike RIS.
	assert.Equal(t, "abc", strings.TrimRight(s.RenderTextLine(1), " "))
	row, col := s.CursorPosition()
	assert.Equal(t, 2, row) // homed by the origin-mode toggle, not by DECSTR
	assert.Equal(t, 1, col)
}

func TestScreenAtReportsFormat(t *testing.T) {
	s := testScreen(5, 1)
	write(s, "\x1b[1;4;31;48;2;10;20;30mX")

	v, err := s.At(CellLocation{Line: 0, Column: 0})
	require.NoError(t, err)
	assert.True(t, v.Format.Bold)
	assert.Equal(t, UNDERLINE_SINGLE, v.Format.Underline)

	require.False(t, v.Format.Foreground.Default)
	assert.Greater(t, v.Format.Foreground.RGB.R, v.Format.Foreground.RGB.G)

	require.False(t, v.Format.Background.Default)
	assert.InDelta(t, 30.0/255.0, v.Format.Background.RGB.B, 0.001)

	// Untouched cells render with the default pen.
	v, err = s.At(CellLocation{Line: 0, Column: 3})
	require.NoError(t, err)
	assert.True(t, v.Format.Foreground.Default)
	assert.True(t, v.Format.Background.Default)
	assert.False(t, v.Format.Bold)
}

func TestScreenResizeReflow(t *testing.T) {
	s := testScreen(6, 3)
	write(s, "abcdef")
	s.Resize(4, 3)

	require.Equal(t, []string{"abcd", "ef  ", "    "}, rows(s))
	assert.True(t, s.IsLineWrapped(1))

	s.Resize(6, 3)
	assert.Equal(t, "abcdef", s.RenderTextLine(1))
}

func TestScreenInvariantsAfterEdits(t *testing.T) {
	// Every line keeps exactly pageSize.columns cells whatever we
	// throw at the screen.
	s := testScreen(8, 4)
	write(s, "one two three four\x1b[2;2H\x1b[3@\x1b[2P\x1b[1;8r\x1b[5S世世世\x1b[2;3s")

	for r := 0; r < 4; r++ {
		l := s.g.lineAt(LineOffset(r))
		l.ensureInflated()
		assert.Equal(t, 8, len(l.cells), "row %d", r)
	}

	row, col := s.CursorPosition()
	assert.GreaterOrEqual(t, row, 1)
	assert.LessOrEqual(t, row, 4)
	assert.GreaterOrEqual(t, col, 1)
	assert.LessOrEqual(t, col, 8)
}

func TestScreenDECCOLM(t *testing.T) {
	s := testScreen(80, 5)
	write(s, "hello")
	write(s, "\x1b[?3h")

	assert.Equal(t, ColumnCount(132), s.PageSize().Columns)
	require.Equal(t, strings.Repeat(" ", 132), s.RenderTextLine(1))
	row, col := s.CursorPosition()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
}

func TestScreenNotifierOnParseError(t *testing.T) {
	var notes []string
	s := testScreen(5, 2)
	s.SetNotifier(func(m string) { notes = append(notes, m) })

	write(s, "ab\x80cd")
	require.NotEmpty(t, notes)
	assert.Contains(t, notes[0], "parse error")
	// The screen keeps accepting input afterwards.
	assert.Equal(t, "ab�cd", strings.TrimRight(s.RenderTextLine(1), " "))
}
