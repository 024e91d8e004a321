package vt

// Parser states and actions follow the VT500-series state machine
// (DEC STD 070). The transition table is generated at init time; each
// entry packs an action in the high nibble and a target state in the
// low nibble.

type pState uint8

const (
	VTPARSE_STATE_NONE pState = iota // no state change
	VTPARSE_STATE_GROUND
	VTPARSE_STATE_ESCAPE
	VTPARSE_STATE_ESCAPE_INTERMEDIATE
	VTPARSE_STATE_CSI_ENTRY
	VTPARSE_STATE_CSI_PARAM
	VTPARSE_STATE_CSI_INTERMEDIATE
	VTPARSE_STATE_CSI_IGNORE
	VTPARSE_STATE_DCS_ENTRY
	VTPARSE_STATE_DCS_PARAM
	VTPARSE_STATE_DCS_INTERMEDIATE
	VTPARSE_STATE_DCS_PASSTHROUGH
	VTPARSE_STATE_DCS_IGNORE
	VTPARSE_STATE_OSC_STRING
	VTPARSE_STATE_SOS_PM_APC_STRING

	VTPARSE_NUM_STATES
)

type pAction uint8

const (
	VTPARSE_ACTION_NOP pAction = iota
	VTPARSE_ACTION_IGNORE
	VTPARSE_ACTION_PRINT
	VTPARSE_ACTION_EXECUTE
	VTPARSE_ACTION_CLEAR
	VTPARSE_ACTION_COLLECT
	VTPARSE_ACTION_PARAM
	VTPARSE_ACTION_ESC_DISPATCH
	VTPARSE_ACTION_CSI_DISPATCH
	VTPARSE_ACTION_HOOK
	VTPARSE_ACTION_PUT
	VTPARSE_ACTION_UNHOOK
	VTPARSE_ACTION_OSC_START
	VTPARSE_ACTION_OSC_PUT
	VTPARSE_ACTION_OSC_END

	VTPARSE_NUM_ACTIONS
)

var STATE_NAMES = map[pState]string{
	VTPARSE_STATE_NONE:                "none",
	VTPARSE_STATE_GROUND:              "ground",
	VTPARSE_STATE_ESCAPE:              "escape",
	VTPARSE_STATE_ESCAPE_INTERMEDIATE: "escape-intermediate",
	VTPARSE_STATE_CSI_ENTRY:           "csi-entry",
	VTPARSE_STATE_CSI_PARAM:           "csi-param",
	VTPARSE_STATE_CSI_INTERMEDIATE:    "csi-intermediate",
	VTPARSE_STATE_CSI_IGNORE:          "csi-ignore",
	VTPARSE_STATE_DCS_ENTRY:           "dcs-entry",
	VTPARSE_STATE_DCS_PARAM:           "dcs-param",
	VTPARSE_STATE_DCS_INTERMEDIATE:    "dcs-intermediate",
	VTPARSE_STATE_DCS_PASSTHROUGH:     "dcs-passthrough",
	VTPARSE_STATE_DCS_IGNORE:          "dcs-ignore",
	VTPARSE_STATE_OSC_STRING:          "osc-string",
	VTPARSE_STATE_SOS_PM_APC_STRING:   "sos-pm-apc-string",
}

var ACTION_NAMES = map[pAction]string{
	VTPARSE_ACTION_NOP:          "nop",
	VTPARSE_ACTION_IGNORE:       "ignore",
	VTPARSE_ACTION_PRINT:        "print",
	VTPARSE_ACTION_EXECUTE:      "execute",
	VTPARSE_ACTION_CLEAR:        "clear",
	VTPARSE_ACTION_COLLECT:      "collect",
	VTPARSE_ACTION_PARAM:        "param",
	VTPARSE_ACTION_ESC_DISPATCH: "esc-dispatch",
	VTPARSE_ACTION_CSI_DISPATCH: "csi-dispatch",
	VTPARSE_ACTION_HOOK:         "hook",
	VTPARSE_ACTION_PUT:          "put",
	VTPARSE_ACTION_UNHOOK:       "unhook",
	VTPARSE_ACTION_OSC_START:    "osc-start",
	VTPARSE_ACTION_OSC_PUT:      "osc-put",
	VTPARSE_ACTION_OSC_END:      "osc-end",
}

// ENTRY_ACTIONS run when a state is entered, EXIT_ACTIONS when it is
// left. The SOS/PM/APC string state borrows the hook/put/unhook trio;
// the parser routes those by introducer.
var ENTRY_ACTIONS = [VTPARSE_NUM_STATES]pAction{
	VTPARSE_STATE_ESCAPE:            VTPARSE_ACTION_CLEAR,
	VTPARSE_STATE_CSI_ENTRY:         VTPARSE_ACTION_CLEAR,
	VTPARSE_STATE_DCS_ENTRY:         VTPARSE_ACTION_CLEAR,
	VTPARSE_STATE_DCS_PASSTHROUGH:   VTPARSE_ACTION_HOOK,
	VTPARSE_STATE_OSC_STRING:        VTPARSE_ACTION_OSC_START,
	VTPARSE_STATE_SOS_PM_APC_STRING: VTPARSE_ACTION_HOOK,
}

var EXIT_ACTIONS = [VTPARSE_NUM_STATES]pAction{
	VTPARSE_STATE_DCS_PASSTHROUGH:   VTPARSE_ACTION_UNHOOK,
	VTPARSE_STATE_OSC_STRING:        VTPARSE_ACTION_OSC_END,
	VTPARSE_STATE_SOS_PM_APC_STRING: VTPARSE_ACTION_UNHOOK,
}

type transition uint8

func newTransition(a pAction, s pState) transition {
	return transition(uint8(a)<<4 | uint8(s))
}

func (t transition) state() pState {
	return pState(t & 0x0f)
}

func (t transition) action() pAction {
	return pAction(t >> 4)
}

var STATE_TABLE [VTPARSE_NUM_STATES][256]transition

func tableSet(s pState, from, to int, a pAction, next pState) {
	for b := from; b <= to; b++ {
		STATE_TABLE[s][b] = newTransition(a, next)
	}
}

func tableSetOne(s pState, b int, a pAction, next pState) {
	tableSet(s, b, b, a, next)
}

// executeCtrl wires the C0 bytes a state executes in place. CAN, SUB
// and ESC are handled by the anywhere rules afterwards.
func executeCtrl(s pState) {
	tableSet(s, 0x00, 0x17, VTPARSE_ACTION_EXECUTE, VTPARSE_STATE_NONE)
	tableSetOne(s, 0x19, VTPARSE_ACTION_EXECUTE, VTPARSE_STATE_NONE)
	tableSet(s, 0x1c, 0x1f, VTPARSE_ACTION_EXECUTE, VTPARSE_STATE_NONE)
}

func ignoreCtrl(s pState) {
	tableSet(s, 0x00, 0x17, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSetOne(s, 0x19, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSet(s, 0x1c, 0x1f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
}

func init() {
	// Ground. The parser UTF-8 decodes every byte >= 0x80 in ground
	// before consulting the table; the 0xa0-0xff print entries are a
	// fallback that decoding leaves unused.
	executeCtrl(VTPARSE_STATE_GROUND)
	tableSet(VTPARSE_STATE_GROUND, 0x20, 0x7e, VTPARSE_ACTION_PRINT, VTPARSE_STATE_NONE)
	tableSetOne(VTPARSE_STATE_GROUND, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_GROUND, 0xa0, 0xff, VTPARSE_ACTION_PRINT, VTPARSE_STATE_NONE)

	// Escape
	executeCtrl(VTPARSE_STATE_ESCAPE)
	tableSet(VTPARSE_STATE_ESCAPE, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_ESCAPE_INTERMEDIATE)
	tableSet(VTPARSE_STATE_ESCAPE, 0x30, 0x7e, VTPARSE_ACTION_ESC_DISPATCH, VTPARSE_STATE_GROUND)
	tableSetOne(VTPARSE_STATE_ESCAPE, int(ESC_DCS), VTPARSE_ACTION_NOP, VTPARSE_STATE_DCS_ENTRY)
	tableSetOne(VTPARSE_STATE_ESCAPE, int(ESC_SOS), VTPARSE_ACTION_NOP, VTPARSE_STATE_SOS_PM_APC_STRING)
	tableSetOne(VTPARSE_STATE_ESCAPE, int(ESC_CSI), VTPARSE_ACTION_NOP, VTPARSE_STATE_CSI_ENTRY)
	tableSetOne(VTPARSE_STATE_ESCAPE, int(ESC_OSC), VTPARSE_ACTION_NOP, VTPARSE_STATE_OSC_STRING)
	tableSetOne(VTPARSE_STATE_ESCAPE, int(ESC_PM), VTPARSE_ACTION_NOP, VTPARSE_STATE_SOS_PM_APC_STRING)
	tableSetOne(VTPARSE_STATE_ESCAPE, int(ESC_APC), VTPARSE_ACTION_NOP, VTPARSE_STATE_SOS_PM_APC_STRING)
	tableSetOne(VTPARSE_STATE_ESCAPE, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// Escape intermediate
	executeCtrl(VTPARSE_STATE_ESCAPE_INTERMEDIATE)
	tableSet(VTPARSE_STATE_ESCAPE_INTERMEDIATE, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_ESCAPE_INTERMEDIATE, 0x30, 0x7e, VTPARSE_ACTION_ESC_DISPATCH, VTPARSE_STATE_GROUND)
	tableSetOne(VTPARSE_STATE_ESCAPE_INTERMEDIATE, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// CSI entry. ':' is accepted as a sub-parameter separator, a
	// departure from the original table that modern SGR needs.
	executeCtrl(VTPARSE_STATE_CSI_ENTRY)
	tableSet(VTPARSE_STATE_CSI_ENTRY, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_CSI_INTERMEDIATE)
	tableSet(VTPARSE_STATE_CSI_ENTRY, 0x30, 0x3b, VTPARSE_ACTION_PARAM, VTPARSE_STATE_CSI_PARAM)
	tableSet(VTPARSE_STATE_CSI_ENTRY, 0x3c, 0x3f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_CSI_PARAM)
	tableSet(VTPARSE_STATE_CSI_ENTRY, 0x40, 0x7e, VTPARSE_ACTION_CSI_DISPATCH, VTPARSE_STATE_GROUND)
	tableSetOne(VTPARSE_STATE_CSI_ENTRY, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// CSI param
	executeCtrl(VTPARSE_STATE_CSI_PARAM)
	tableSet(VTPARSE_STATE_CSI_PARAM, 0x30, 0x3b, VTPARSE_ACTION_PARAM, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_CSI_PARAM, 0x3c, 0x3f, VTPARSE_ACTION_NOP, VTPARSE_STATE_CSI_IGNORE)
	tableSet(VTPARSE_STATE_CSI_PARAM, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_CSI_INTERMEDIATE)
	tableSet(VTPARSE_STATE_CSI_PARAM, 0x40, 0x7e, VTPARSE_ACTION_CSI_DISPATCH, VTPARSE_STATE_GROUND)
	tableSetOne(VTPARSE_STATE_CSI_PARAM, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// CSI intermediate
	executeCtrl(VTPARSE_STATE_CSI_INTERMEDIATE)
	tableSet(VTPARSE_STATE_CSI_INTERMEDIATE, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_CSI_INTERMEDIATE, 0x30, 0x3f, VTPARSE_ACTION_NOP, VTPARSE_STATE_CSI_IGNORE)
	tableSet(VTPARSE_STATE_CSI_INTERMEDIATE, 0x40, 0x7e, VTPARSE_ACTION_CSI_DISPATCH, VTPARSE_STATE_GROUND)
	tableSetOne(VTPARSE_STATE_CSI_INTERMEDIATE, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// CSI ignore: swallow until the final byte
	executeCtrl(VTPARSE_STATE_CSI_IGNORE)
	tableSet(VTPARSE_STATE_CSI_IGNORE, 0x20, 0x3f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_CSI_IGNORE, 0x40, 0x7e, VTPARSE_ACTION_NOP, VTPARSE_STATE_GROUND)
	tableSetOne(VTPARSE_STATE_CSI_IGNORE, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// DCS entry
	ignoreCtrl(VTPARSE_STATE_DCS_ENTRY)
	tableSet(VTPARSE_STATE_DCS_ENTRY, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_DCS_INTERMEDIATE)
	tableSet(VTPARSE_STATE_DCS_ENTRY, 0x30, 0x3b, VTPARSE_ACTION_PARAM, VTPARSE_STATE_DCS_PARAM)
	tableSet(VTPARSE_STATE_DCS_ENTRY, 0x3c, 0x3f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_DCS_PARAM)
	tableSet(VTPARSE_STATE_DCS_ENTRY, 0x40, 0x7e, VTPARSE_ACTION_NOP, VTPARSE_STATE_DCS_PASSTHROUGH)
	tableSetOne(VTPARSE_STATE_DCS_ENTRY, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// DCS param
	ignoreCtrl(VTPARSE_STATE_DCS_PARAM)
	tableSet(VTPARSE_STATE_DCS_PARAM, 0x30, 0x3b, VTPARSE_ACTION_PARAM, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_DCS_PARAM, 0x3c, 0x3f, VTPARSE_ACTION_NOP, VTPARSE_STATE_DCS_IGNORE)
	tableSet(VTPARSE_STATE_DCS_PARAM, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_DCS_INTERMEDIATE)
	tableSet(VTPARSE_STATE_DCS_PARAM, 0x40, 0x7e, VTPARSE_ACTION_NOP, VTPARSE_STATE_DCS_PASSTHROUGH)
	tableSetOne(VTPARSE_STATE_DCS_PARAM, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// DCS intermediate
	ignoreCtrl(VTPARSE_STATE_DCS_INTERMEDIATE)
	tableSet(VTPARSE_STATE_DCS_INTERMEDIATE, 0x20, 0x2f, VTPARSE_ACTION_COLLECT, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_DCS_INTERMEDIATE, 0x30, 0x3f, VTPARSE_ACTION_NOP, VTPARSE_STATE_DCS_IGNORE)
	tableSet(VTPARSE_STATE_DCS_INTERMEDIATE, 0x40, 0x7e, VTPARSE_ACTION_NOP, VTPARSE_STATE_DCS_PASSTHROUGH)
	tableSetOne(VTPARSE_STATE_DCS_INTERMEDIATE, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// DCS passthrough
	tableSet(VTPARSE_STATE_DCS_PASSTHROUGH, 0x00, 0x17, VTPARSE_ACTION_PUT, VTPARSE_STATE_NONE)
	tableSetOne(VTPARSE_STATE_DCS_PASSTHROUGH, 0x19, VTPARSE_ACTION_PUT, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_DCS_PASSTHROUGH, 0x1c, 0x1f, VTPARSE_ACTION_PUT, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_DCS_PASSTHROUGH, 0x20, 0x7e, VTPARSE_ACTION_PUT, VTPARSE_STATE_NONE)
	tableSetOne(VTPARSE_STATE_DCS_PASSTHROUGH, 0x7f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_DCS_PASSTHROUGH, 0x80, 0xff, VTPARSE_ACTION_PUT, VTPARSE_STATE_NONE)

	// DCS ignore
	ignoreCtrl(VTPARSE_STATE_DCS_IGNORE)
	tableSet(VTPARSE_STATE_DCS_IGNORE, 0x20, 0xff, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)

	// OSC string: BEL and ST both terminate; data may be UTF-8.
	tableSet(VTPARSE_STATE_OSC_STRING, 0x00, 0x06, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSetOne(VTPARSE_STATE_OSC_STRING, CTRL_BEL, VTPARSE_ACTION_NOP, VTPARSE_STATE_GROUND)
	tableSet(VTPARSE_STATE_OSC_STRING, 0x08, 0x17, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSetOne(VTPARSE_STATE_OSC_STRING, 0x19, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_OSC_STRING, 0x1c, 0x1f, VTPARSE_ACTION_IGNORE, VTPARSE_STATE_NONE)
	tableSet(VTPARSE_STATE_OSC_STRING, 0x20, 0xff, VTPARSE_ACTION_OSC_PUT, VTPARSE_STATE_NONE)

	// SOS/PM/APC string: body bytes reuse the put action, the
	// parser decides apc vs pm from the introducer.
	ignoreCtrl(VTPARSE_STATE_SOS_PM_APC_STRING)
	tableSet(VTPARSE_STATE_SOS_PM_APC_STRING, 0x20, 0xff, VTPARSE_ACTION_PUT, VTPARSE_STATE_NONE)

	// Anywhere rules, applied last so they override the per-state
	// entries above.
	for s := VTPARSE_STATE_GROUND; s < VTPARSE_NUM_STATES; s++ {
		tableSetOne(s, CTRL_CAN, VTPARSE_ACTION_EXECUTE, VTPARSE_STATE_GROUND)
		tableSetOne(s, CTRL_SUB, VTPARSE_ACTION_EXECUTE, VTPARSE_STATE_GROUND)
		tableSetOne(s, ESC, VTPARSE_ACTION_NOP, VTPARSE_STATE_ESCAPE)
		tableSetOne(s, C1_DCS, VTPARSE_ACTION_NOP, VTPARSE_STATE_DCS_ENTRY)
		tableSetOne(s, C1_CSI, VTPARSE_ACTION_NOP, VTPARSE_STATE_CSI_ENTRY)
		tableSetOne(s, C1_OSC, VTPARSE_ACTION_NOP, VTPARSE_STATE_OSC_STRING)
		tableSetOne(s, C1_ST, VTPARSE_ACTION_NOP, VTPARSE_STATE_GROUND)
	}

	// The 8 bit string terminator must not re-enter a string state
	// from inside one; it only ever returns to ground (set above).
	// OSC keeps its UTF-8 put entries for the C1 introducers since
	// titles may legitimately contain those bytes.
	tableSetOne(VTPARSE_STATE_OSC_STRING, C1_DCS, VTPARSE_ACTION_OSC_PUT, VTPARSE_STATE_NONE)
	tableSetOne(VTPARSE_STATE_OSC_STRING, C1_CSI, VTPARSE_ACTION_OSC_PUT, VTPARSE_STATE_NONE)
	tableSetOne(VTPARSE_STATE_OSC_STRING, C1_OSC, VTPARSE_ACTION_OSC_PUT, VTPARSE_STATE_NONE)
}
