package vt

const (
	// Like it's 1975 baby!
	DEF_ROWS = 24
	DEF_COLS = 80

	// Default scrollback capacity in lines.
	DEF_HISTORY = 1000
)

// C0 control bytes
const (
	CTRL_NUL = 0x00
	CTRL_BEL = 0x07 // ^G Bell
	CTRL_BS  = 0x08 // ^H Backspace
	CTRL_TAB = 0x09 // ^I Tab \t
	CTRL_LF  = 0x0a // ^J Line feed \n
	CTRL_VT  = 0x0b // ^K Vertical tab \v
	CTRL_FF  = 0x0c // ^L Form feed \f
	CTRL_CR  = 0x0d // ^M Carriage return \r
	CTRL_SO  = 0x0e // ^N Switch to G1 charset
	CTRL_SI  = 0x0f // ^O Switch to G0 charset
	CTRL_CAN = 0x18
	CTRL_SUB = 0x1a
	ESC      = 0x1b
	CTRL_DEL = 0x7f
)

// ESC introducers and final bytes
const (
	ESC_CSI = '[' // control sequence introducer
	ESC_OSC = ']' // operating system command
	ESC_DCS = 'P' // device control string
	ESC_APC = '_' // application program command
	ESC_PM  = '^' // privacy message
	ESC_SOS = 'X' // start of string
	ESC_ST  = '\\'

	ESC_DECSC  = '7' // save cursor
	ESC_DECRC  = '8' // restore cursor
	ESC_IND    = 'D' // index
	ESC_NEL    = 'E' // next line
	ESC_HTS    = 'H' // horizontal tab set
	ESC_RI     = 'M' // reverse index
	ESC_RIS    = 'c' // full reset
	ESC_DECALN = '8' // with '#' intermediate: screen alignment pattern
)

// C1 controls (8 bit forms; only meaningful outside UTF-8 text)
const (
	C1_IND = 0x84
	C1_NEL = 0x85
	C1_HTS = 0x88
	C1_DCS = 0x90
	C1_CSI = 0x9b
	C1_ST  = 0x9c
	C1_OSC = 0x9d
	C1_PM  = 0x9e
	C1_APC = 0x9f
)

// CSI final bytes
const (
	CSI_ICH        = '@' // insert blank characters
	CSI_CUU        = 'A' // cursor up
	CSI_CUD        = 'B' // cursor down
	CSI_CUF        = 'C' // cursor forward
	CSI_CUB        = 'D' // cursor back
	CSI_CNL        = 'E' // cursor next line
	CSI_CPL        = 'F' // cursor previous line
	CSI_CHA        = 'G' // cursor horizontal absolute
	CSI_CUP        = 'H' // cursor position
	CSI_CHT        = 'I' // cursor forward tabulation
	CSI_ED         = 'J' // erase in display
	CSI_EL         = 'K' // erase in line
	CSI_IL         = 'L' // insert line(s)
	CSI_DL         = 'M' // delete line(s)
	CSI_DCH        = 'P' // delete character(s)
	CSI_SU         = 'S' // scroll up
	CSI_SD         = 'T' // scroll down
	CSI_DECST8C    = 'W' // reset tab stops every 8 columns
	CSI_ECH        = 'X' // erase characters
	CSI_CBT        = 'Z' // cursor backward tabulation
	CSI_HPA        = '`' // character position absolute
	CSI_HPR        = 'a' // character position relative
	CSI_DA         = 'c' // device attributes
	CSI_VPA        = 'd' // line position absolute
	CSI_VPR        = 'e' // line position relative
	CSI_HVP        = 'f' // horizontal vertical position
	CSI_TBC        = 'g' // tab stop clear
	CSI_MODE_SET   = 'h' // set mode
	CSI_MODE_RESET = 'l' // reset mode
	CSI_SGR        = 'm' // select graphic rendition
	CSI_DSR        = 'n' // device status report
	CSI_DECSTBM    = 'r' // set top and bottom margin
	CSI_DECSLRM    = 's' // set left and right margin
	CSI_XTWINOPS   = 't' // window manipulation
)

// CSI SGR attribute codes
const (
	RESET            = 0
	INTENSITY_BOLD   = 1
	INTENSITY_FAINT  = 2
	ITALIC_ON        = 3
	UNDERLINE_ON     = 4
	BLINK_ON         = 5
	RAPID_BLINK_ON   = 6
	REVERSED_ON      = 7
	INVISIBLE_ON     = 8
	STRIKEOUT_ON     = 9
	DBL_UNDERLINE_ON = 21
	INTENSITY_NORMAL = 22
	ITALIC_OFF       = 23
	UNDERLINE_OFF    = 24
	BLINK_OFF        = 25
	REVERSED_OFF     = 27
	INVISIBLE_OFF    = 28
	STRIKEOUT_OFF    = 29
	FRAMED_ON        = 51
	ENCIRCLED_ON     = 52
	OVERLINED_ON     = 53
	FRAMED_OFF       = 54
	OVERLINED_OFF    = 55
	SET_UNDERCOLOR   = 58
	DEF_UNDERCOLOR   = 59
)

// CSI SGR color codes
const (
	FG_BLACK          = 30
	FG_RED            = 31
	FG_GREEN          = 32
	FG_YELLOW         = 33
	FG_BLUE           = 34
	FG_MAGENTA        = 35
	FG_CYAN           = 36
	FG_WHITE          = 37
	SET_FG            = 38
	FG_DEF            = 39
	BG_BLACK          = 40
	BG_RED            = 41
	BG_GREEN          = 42
	BG_YELLOW         = 43
	BG_BLUE           = 44
	BG_MAGENTA        = 45
	BG_CYAN           = 46
	BG_WHITE          = 47
	SET_BG            = 48
	BG_DEF            = 49
	FG_BRIGHT_BLACK   = 90
	FG_BRIGHT_RED     = 91
	FG_BRIGHT_GREEN   = 92
	FG_BRIGHT_YELLOW  = 93
	FG_BRIGHT_BLUE    = 94
	FG_BRIGHT_MAGENTA = 95
	FG_BRIGHT_CYAN    = 96
	FG_BRIGHT_WHITE   = 97
	BG_BRIGHT_BLACK   = 100
	BG_BRIGHT_RED     = 101
	BG_BRIGHT_GREEN   = 102
	BG_BRIGHT_YELLOW  = 103
	BG_BRIGHT_BLUE    = 104
	BG_BRIGHT_MAGENTA = 105
	BG_BRIGHT_CYAN    = 106
	BG_BRIGHT_WHITE   = 107
)

// Mode parameter codes. ANSI modes carry no prefix, DEC private modes
// are prefixed with '?' on the wire.
const (
	MODE_IRM = 4  // insert/replace mode
	MODE_LNM = 20 // linefeed/newline mode

	PRIV_DECCKM        = 1    // application cursor keys
	PRIV_DECCOLM       = 3    // 80/132 column toggle
	PRIV_DECSCLM       = 4    // smooth scroll
	PRIV_DECSCNM       = 5    // reverse video
	PRIV_DECOM         = 6    // origin mode
	PRIV_DECAWM        = 7    // autowrap mode
	PRIV_DECARM        = 8    // auto-repeat keys
	PRIV_BLINK_CURSOR  = 12   // blinking cursor
	PRIV_DECTCEM       = 25   // show cursor
	PRIV_DECLRMM       = 69   // left/right margin mode
	PRIV_MOUSE_XY      = 1000 // mouse X/Y on press/release
	PRIV_MOUSE_MOTION  = 1002 // cell motion mouse tracking
	PRIV_MOUSE_ALL     = 1003 // all motion mouse tracking
	PRIV_MOUSE_FOCUS   = 1004 // focus in/out events
	PRIV_MOUSE_SGR     = 1006 // SGR mouse mode
	PRIV_BRACKET_PASTE = 2004 // bracketed paste
)

// OSC identifiers
const (
	OSC_ICON_TITLE = "0"
	OSC_ICON       = "1"
	OSC_TITLE      = "2"
	OSC_HYPERLINK  = "8"
)

// Modes for CSI TBC
const (
	TBC_CUR = 0 // clear current tab stop
	TBC_ALL = 3 // clear all tab stops
)

// DSR parameters
const (
	DSR_STATUS = 5
	DSR_CPR    = 6
)
