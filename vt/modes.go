package vt

import (
	"fmt"
	"log/slog"
)

// mode is one ANSI or DEC private mode. Keys in the registry are the
// wire form: the parameter number, prefixed with "?" for private
// modes (eg "?7" for DECAWM).
type mode struct {
	name    string
	code    int
	private bool
	enabled bool
	def     bool
}

func newMode(name string, code int, private, def bool) *mode {
	return &mode{name: name, code: code, private: private, enabled: def, def: def}
}

func (m *mode) key() string {
	if m.private {
		return fmt.Sprintf("?%d", m.code)
	}
	return fmt.Sprintf("%d", m.code)
}

func (m *mode) copy() *mode {
	c := *m
	return &c
}

func (m *mode) set(v bool) {
	m.enabled = v
}

func (m *mode) get() bool {
	return m.enabled
}

// modeDefaults is the template for fresh screens; RIS copies it
// again. Autowrap and cursor visibility default on, matching xterm.
var modeDefaults = []*mode{
	newMode("IRM", MODE_IRM, false, false),
	newMode("LNM", MODE_LNM, false, false),
	newMode("DECCKM", PRIV_DECCKM, true, false),
	newMode("DECCOLM", PRIV_DECCOLM, true, false),
	newMode("DECSCLM", PRIV_DECSCLM, true, false),
	newMode("DECSCNM", PRIV_DECSCNM, true, false),
	newMode("DECOM", PRIV_DECOM, true, false),
	newMode("DECAWM", PRIV_DECAWM, true, true),
	newMode("DECARM", PRIV_DECARM, true, true),
	newMode("BLINK_CURSOR", PRIV_BLINK_CURSOR, true, false),
	newMode("DECTCEM", PRIV_DECTCEM, true, true),
	newMode("DECLRMM", PRIV_DECLRMM, true, false),
	newMode("MOUSE_XY", PRIV_MOUSE_XY, true, false),
	newMode("MOUSE_MOTION", PRIV_MOUSE_MOTION, true, false),
	newMode("MOUSE_ALL", PRIV_MOUSE_ALL, true, false),
	newMode("MOUSE_FOCUS", PRIV_MOUSE_FOCUS, true, false),
	newMode("MOUSE_SGR", PRIV_MOUSE_SGR, true, false),
	newMode("BRACKET_PASTE", PRIV_BRACKET_PASTE, true, false),
}

func defaultModes() map[string]*mode {
	m := make(map[string]*mode, len(modeDefaults))
	for _, d := range modeDefaults {
		m[d.key()] = d.copy()
	}
	return m
}

func modeKey(code int, private bool) string {
	if private {
		return fmt.Sprintf("?%d", code)
	}
	return fmt.Sprintf("%d", code)
}

func lookupMode(modes map[string]*mode, code int, private bool) (*mode, bool) {
	m, ok := modes[modeKey(code, private)]
	if !ok {
		slog.Debug("unimplemented mode", "code", code, "private", private)
	}
	return m, ok
}
