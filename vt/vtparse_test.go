package vt

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

// recorder captures parser events as compact strings so tables stay
// readable.
type recorder struct {
	events []string
}

func (r *recorder) log(f string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(f, args...))
}

func (r *recorder) print(ru rune) { r.log("print(%s)", string(ru)) }
func (r *recorder) printRun(s string) { r.log("run(%s)", s) }
func (r *recorder) execute(b byte) { r.log("exec(%#x)", b) }
func (r *recorder) oscStart() { r.log("osc-start") }
func (r *recorder) oscPut(b byte) { r.log("osc-put(%c)", b) }
func (r *recorder) oscEnd() { r.log("osc-end") }
func (r *recorder) dcsPut(b byte) { r.log("dcs-put(%c)", b) }
func (r *recorder) dcsUnhook() { r.log("dcs-unhook") }
func (r *recorder) apcStart() { r.log("apc-start") }
func (r *recorder) apcPut(b byte) { r.log("apc-put(%c)", b) }
func (r *recorder) apcDispatch() { r.log("apc-dispatch") }
func (r *recorder) pmStart() { r.log("pm-start") }
func (r *recorder) pmPut(b byte) { r.log("pm-put(%c)", b) }
func (r *recorder) pmDispatch() { r.log("pm-dispatch") }
func (r *recorder) parseError(m string) { r.log("error(%s)", m) }

func (r *recorder) csiDispatch(params *parameters, intermediate []byte, final byte) {
	r.log("csi(%v, %q, %c)", slices.Clone(params.items), string(intermediate), final)
}

func (r *recorder) escDispatch(intermediate []byte, final byte) {
	r.log("esc(%q, %c)", string(intermediate), final)
}

func (r *recorder) dcsHook(params *parameters, intermediate []byte, final byte) {
	r.log("dcs-hook(%v, %q, %c)", slices.Clone(params.items), string(intermediate), final)
}

func parseAll(input string) *recorder {
	r := &recorder{}
	p := newParser(r)
	p.Parse([]byte(input))
	return r
}

func TestParserPrintRuns(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"hello", []string{"run(hello)"}},
		{"ab\ncd", []string{"run(ab)", "exec(0xa)", "run(cd)"}},
		{"a\x1b[mb", []string{"run(a)", "csi([], \"\", m)", "run(b)"}},
	}

	for i, c := range cases {
		if got := parseAll(c.input).events; !slices.Equal(got, c.want) {
			t.Errorf("%d: got %v, wanted %v", i, got, c.want)
		}
	}
}

func TestParserCSI(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"\x1b[H", "csi([], \"\", H)"},
		{"\x1b[2;4r", "csi([2 4], \"\", r)"},
		{"\x1b[?7l", "csi([7], \"?\", l)"},
		{"\x1b[38;5;196m", "csi([38 5 196], \"\", m)"},
		// ':' is a sub-parameter separator, not a new sequence
		{"\x1b[4:3m", "csi([4 3], \"\", m)"},
		{"\x1b[;5H", "csi([0 5], \"\", H)"},
	}

	for i, c := range cases {
		got := parseAll(c.input).events
		if len(got) != 1 || got[0] != c.want {
			t.Errorf("%d: got %v, wanted [%s]", i, got, c.want)
		}
	}
}

func TestParserCSIIgnore(t *testing.T) {
	// A malformed parameter section swallows the sequence through
	// the ignore state; parsing resumes cleanly after the final.
	r := parseAll("\x1b[12;3?4mok")
	for _, ev := range r.events {
		if strings.HasPrefix(ev, "csi") {
			t.Errorf("malformed CSI still dispatched: %v", r.events)
		}
	}
	if want := "run(ok)"; r.events[len(r.events)-1] != want {
		t.Errorf("got %v, wanted trailing %s", r.events, want)
	}
}

func TestParserOSC(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"\x1b]2;hi\x07", []string{"osc-start", "osc-put(2)", "osc-put(;)", "osc-put(h)", "osc-put(i)", "osc-end"}},
		{"\x1b]2;hi\x1b\\", []string{"osc-start", "osc-put(2)", "osc-put(;)", "osc-put(h)", "osc-put(i)", "osc-end", "esc(\"\", \\)"}},
	}

	for i, c := range cases {
		if got := parseAll(c.input).events; !slices.Equal(got, c.want) {
			t.Errorf("%d: got %v, wanted %v", i, got, c.want)
		}
	}
}

func TestParserDCS(t *testing.T) {
	want := []string{"dcs-hook([1], \"\", q)", "dcs-put(x)", "dcs-put(y)", "dcs-unhook", "esc(\"\", \\)"}
	if got := parseAll("\x1bP1qxy\x1b\\").events; !slices.Equal(got, want) {
		t.Errorf("got %v, wanted %v", got, want)
	}
}

func TestParserAPCAndPM(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"\x1b_ab\x1b\\", []string{"apc-start", "apc-put(a)", "apc-put(b)", "apc-dispatch", "esc(\"\", \\)"}},
		{"\x1b^cd\x1b\\", []string{"pm-start", "pm-put(c)", "pm-put(d)", "pm-dispatch", "esc(\"\", \\)"}},
		// SOS bodies are discarded without events
		{"\x1bXef\x1b\\", []string{"esc(\"\", \\)"}},
	}

	for i, c := range cases {
		if got := parseAll(c.input).events; !slices.Equal(got, c.want) {
			t.Errorf("%d: got %v, wanted %v", i, got, c.want)
		}
	}
}

func TestParserUTF8(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"héllo", []string{"run(h)", "print(é)", "run(llo)"}},
		{"世界", []string{"print(世)", "print(界)"}},
		// An interrupted sequence resyncs with a replacement rune.
		{"a\xc3(", []string{"run(a)", "error(truncated UTF-8 sequence)", "print(�)", "run(()"}},
		// A stray continuation byte does the same.
		{"\x80x", []string{"error(invalid UTF-8 lead byte)", "print(�)", "run(x)"}},
	}

	for i, c := range cases {
		if got := parseAll(c.input).events; !slices.Equal(got, c.want) {
			t.Errorf("%d: got %v, wanted %v", i, got, c.want)
		}
	}
}

func TestParserCANAbortsSequence(t *testing.T) {
	// CAN mid-CSI returns to ground; the sequence never dispatches.
	r := parseAll("\x1b[12\x18ok")
	for _, ev := range r.events {
		if strings.HasPrefix(ev, "csi") {
			t.Errorf("aborted CSI still dispatched: %v", r.events)
		}
	}
	if want := "run(ok)"; r.events[len(r.events)-1] != want {
		t.Errorf("got %v, wanted trailing %s", r.events, want)
	}
}

func TestParamsDefaults(t *testing.T) {
	p := newParams()
	if got, ok := p.getItem(0, 7); got != 7 || ok {
		t.Errorf("empty params: got (%d, %t), wanted (7, false)", got, ok)
	}

	p.addItem(0, false)
	if got := p.getItemDefault(0, 5); got != 5 {
		t.Errorf("explicit 0: got %d, wanted default 5", got)
	}

	p.addItem(9, false)
	if got := p.getItemDefault(1, 5); got != 9 {
		t.Errorf("explicit 9: got %d, wanted 9", got)
	}
}
