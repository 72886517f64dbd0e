package term

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/termevents/termevents/pkg/ui"
)

// Interpretation is a decoded span together with the fields used to show it.
type Interpretation struct {
	Event Event
	// Key is the key as displayed, like 'a', Up or F5.
	Key string
	// Code is the key code name, like Char('a'), Up or F(5).
	Code string
	// Mods lists the modifiers, or "None".
	Mods string
	// Kind is one of Press, Release, Paste and Unknown.
	Kind string
	// Info is a short description of the form the event was encoded in.
	Info string
}

// Values for Interpretation.Kind.
const (
	KindPress   = "Press"
	KindRelease = "Release"
	KindPaste   = "Paste"
	KindUnknown = "Unknown"
)

// Decode maps a span produced by Segmenter to an event. Spans that cannot be
// decoded yield Unrecognized.
func Decode(span []byte) Event {
	return Interpret(span).Event
}

// Interpret decodes a span. CSI, SS3, Alt-prefixed, single-byte and UTF-8
// interpretations are tried in turn; the first one that fits the shape of the
// span wins.
func Interpret(span []byte) Interpretation {
	for _, f := range interpreters {
		if in, ok := f(span); ok {
			return in
		}
	}
	return Interpretation{
		Event: Unrecognized(span),
		Key:   "Unknown",
		Code:  "Unknown",
		Mods:  ui.Mod(0).String(),
		Kind:  KindUnknown,
	}
}

var interpreters = []func([]byte) (Interpretation, bool){
	interpretCSI, interpretSS3, interpretAlt, interpretSingleByte, interpretUTF8,
}

func keyInterpretation(k ui.Key, info string) Interpretation {
	return Interpretation{
		Event: KeyEvent(k),
		Key:   k.Display(),
		Code:  k.Code(),
		Mods:  k.Mod.String(),
		Kind:  KindPress,
		Info:  info,
	}
}

// Single bytes with a meaning of their own. Other bytes in 0x01 to 0x1f are
// Ctrl-modified letters or symbols.
var singleByteKeys = map[byte]ui.Key{
	0x00: ui.K(ui.Null),
	'\r': ui.K(ui.Enter),
	'\n': ui.K(ui.Enter),
	'\t': ui.K(ui.Tab),
	0x7f: ui.K(ui.Backspace),
	0x08: ui.K(ui.Backspace, ui.Ctrl),
	esc:  ui.K(ui.Esc),
}

// singleByteKey decodes a single byte, reporting false for bytes outside the
// ASCII range.
func singleByteKey(b byte) (ui.Key, bool) {
	if k, ok := singleByteKeys[b]; ok {
		return k, true
	}
	switch {
	case b < 0x20:
		// Ctrl-A sends 0x01, and so on.
		return ui.K(rune(b)+0x60, ui.Ctrl), true
	case b < 0x7f:
		return ui.K(rune(b)), true
	}
	return ui.Key{}, false
}

func singleByteInfo(b byte, k ui.Key) string {
	switch {
	case b == 0x08:
		return "Backspace (Ctrl+H)"
	case b == '\n':
		return "Line feed"
	}
	switch k.Rune {
	case ui.Enter:
		return "Carriage return"
	case ui.Tab:
		return "Horizontal tab"
	case ui.Esc:
		return "Escape"
	case ui.Backspace:
		return "Backspace"
	case ui.Null:
		return "NULL"
	}
	if k.Mod&ui.Ctrl != 0 {
		return "Control-modified character"
	}
	return "Printable character"
}

func interpretSingleByte(span []byte) (Interpretation, bool) {
	if len(span) != 1 {
		return Interpretation{}, false
	}
	k, ok := singleByteKey(span[0])
	if !ok {
		return Interpretation{}, false
	}
	return keyInterpretation(k, singleByteInfo(span[0], k)), true
}

func interpretUTF8(span []byte) (Interpretation, bool) {
	if len(span) == 0 || utf8Width(span[0]) != len(span) {
		return Interpretation{}, false
	}
	if !utf8.Valid(span) {
		return Interpretation{}, false
	}
	r, _ := utf8.DecodeRune(span)
	return keyInterpretation(ui.K(r), "UTF-8 character"), true
}

// interpretAlt decodes ESC followed by one character. The character is
// decoded as if it were sent alone, so ESC ESC is Alt-Esc and ESC ^A is
// Ctrl-Alt-a.
func interpretAlt(span []byte) (Interpretation, bool) {
	if len(span) < 2 || span[0] != esc {
		return Interpretation{}, false
	}
	rest := span[1:]
	var k ui.Key
	if len(rest) == 1 {
		var ok bool
		k, ok = singleByteKey(rest[0])
		if !ok {
			return Interpretation{}, false
		}
	} else {
		r, size := utf8.DecodeRune(rest)
		if !utf8.Valid(rest) || size != len(rest) {
			return Interpretation{}, false
		}
		k = ui.K(r)
	}
	k.Mod |= ui.Alt
	return keyInterpretation(k, "Alt-modified character"), true
}

// SS3 sequences: ESC O followed by exactly one byte. They never carry
// modifiers.
var ss3Keys = map[byte]ui.Key{
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
}

func interpretSS3(span []byte) (Interpretation, bool) {
	if len(span) != 3 || span[0] != esc || span[1] != 'O' {
		return Interpretation{}, false
	}
	k, ok := ss3Keys[span[2]]
	if !ok {
		return Interpretation{}, false
	}
	info := "SS3 function key"
	switch k.Rune {
	case ui.Up, ui.Down, ui.Right, ui.Left:
		info = "SS3 arrow key"
	case ui.Home:
		info = "SS3 home key"
	case ui.End:
		info = "SS3 end key"
	}
	return keyInterpretation(k, info), true
}

// CSI sequences identified by the final byte. Modifiers are encoded in the
// last parameter, as in \e[1;5A for Ctrl-Up.
var csiKeysByFinal = map[byte]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
}

// CSI sequences ending with '~', identified by the first parameter. For
// instance, \e[3~ is Delete and \e[3;5~ is Ctrl-Delete. 16 and 22 are unused.
var csiTildeKeys = map[int]rune{
	1: ui.Home, 7: ui.Home,
	2: ui.Insert,
	3: ui.Delete,
	4: ui.End, 8: ui.End,
	5: ui.PageUp, 6: ui.PageDown,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4, 15: ui.F5,
	17: ui.F6, 18: ui.F7, 19: ui.F8, 20: ui.F9, 21: ui.F10,
	23: ui.F11, 24: ui.F12,
}

// Bracketed paste markers.
var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")
)

func interpretCSI(span []byte) (Interpretation, bool) {
	if len(span) < 3 || span[0] != esc || span[1] != '[' {
		return Interpretation{}, false
	}
	final := span[len(span)-1]
	if !isCSIFinal(final) {
		return Interpretation{}, false
	}
	switch {
	case bytes.Equal(span, pasteStart):
		return pasteInterpretation(true), true
	case bytes.Equal(span, pasteEnd):
		return pasteInterpretation(false), true
	case span[2] == '<' && (final == 'M' || final == 'm'):
		return interpretSGRMouse(span[3:len(span)-1], final == 'M')
	}

	params, ok := parseCSIParams(span[2 : len(span)-1])
	if !ok {
		return Interpretation{}, false
	}
	base, mod := splitModifier(params)

	if k, ok := csiKeysByFinal[final]; ok {
		k.Mod = mod
		return keyInterpretation(k, "CSI arrow/navigation sequence"), true
	}
	switch final {
	case 'Z':
		return keyInterpretation(ui.K(ui.BackTab, ui.Shift), "CSI BackTab sequence"), true
	case '~':
		if len(base) == 0 {
			return Interpretation{}, false
		}
		r, ok := csiTildeKeys[base[0]]
		if !ok {
			return Interpretation{}, false
		}
		k := ui.K(r, mod)
		info := "CSI ~ function key"
		if _, isF := ui.FunctionKeyNumber(r); !isF {
			info = "CSI ~ (" + ui.NamedKeyName(r) + ")"
		}
		return keyInterpretation(k, info), true
	}
	return Interpretation{}, false
}

func pasteInterpretation(start bool) Interpretation {
	key, info := "PasteStart", "Bracketed paste start"
	if !start {
		key, info = "PasteEnd", "Bracketed paste end"
	}
	return Interpretation{
		Event: PasteSetting(start),
		Key:   key,
		Code:  key,
		Mods:  ui.Mod(0).String(),
		Kind:  KindPaste,
		Info:  info,
	}
}

// interpretSGRMouse decodes the parameters of \e[<b;x;yM (press) or
// \e[<b;x;ym (release).
func interpretSGRMouse(params []byte, pressed bool) (Interpretation, bool) {
	nums, ok := parseCSIParams(params)
	if !ok || len(nums) != 3 {
		return Interpretation{}, false
	}
	b := nums[0]
	ev := MouseEvent{
		Pressed: pressed,
		X:       nums[1],
		Y:       nums[2],
		Button:  b & 7,
		Mod:     decodeModifierCode((b >> 3) & 7),
	}
	kind := KindPress
	if !pressed {
		kind = KindRelease
	}
	return Interpretation{
		Event: ev,
		Key:   fmt.Sprintf("Mouse(%d)", ev.Button),
		Code:  fmt.Sprintf("Mouse(%d, %d, %d)", ev.Button, ev.X, ev.Y),
		Mods:  ev.Mod.String(),
		Kind:  kind,
		Info:  "SGR mouse report",
	}, true
}

// parseCSIParams parses ;-separated parameters, each an unsigned 16-bit
// integer. Leading '?' are skipped and empty parameters are ignored.
func parseCSIParams(p []byte) ([]int, bool) {
	p = bytes.TrimLeft(p, "?")
	if len(p) == 0 {
		return nil, true
	}
	var nums []int
	for _, part := range strings.Split(string(p), ";") {
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return nil, false
		}
		nums = append(nums, int(n))
	}
	return nums, true
}

// splitModifier separates the modifier parameter, which is the last one when
// there are at least two.
func splitModifier(params []int) ([]int, ui.Mod) {
	if len(params) < 2 {
		return params, 0
	}
	last := len(params) - 1
	return params[:last], decodeModifierCode(params[last])
}

// decodeModifierCode decodes the xterm modifier parameter, which is 1 plus a
// bitmask of Shift (1), Alt (2) and Ctrl (4).
func decodeModifierCode(code int) ui.Mod {
	switch code {
	case 2:
		return ui.Shift
	case 3:
		return ui.Alt
	case 4:
		return ui.Shift | ui.Alt
	case 5:
		return ui.Ctrl
	case 6:
		return ui.Shift | ui.Ctrl
	case 7:
		return ui.Alt | ui.Ctrl
	case 8:
		return ui.Shift | ui.Alt | ui.Ctrl
	}
	return 0
}

// HexBytes formats bytes as space-separated uppercase hex, like "1B 5B 41".
func HexBytes(p []byte) string {
	var sb strings.Builder
	for i, b := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// EscapeBytes formats bytes as text with escapes. Printable ASCII and complete
// UTF-8 sequences are written as they are; ESC and bytes that are neither are
// written as \xNN.
func EscapeBytes(p []byte) string {
	var sb strings.Builder
	for i := 0; i < len(p); {
		b := p[i]
		switch {
		case b == esc:
			sb.WriteString(`\x1B`)
		case b == '\n':
			sb.WriteString(`\n`)
		case b == '\r':
			sb.WriteString(`\r`)
		case b == '\t':
			sb.WriteString(`\t`)
		case 0x20 <= b && b <= 0x7e:
			sb.WriteByte(b)
		default:
			if w := utf8Width(b); w > 1 && i+w <= len(p) && utf8.Valid(p[i:i+w]) {
				sb.Write(p[i : i+w])
				i += w
				continue
			}
			fmt.Fprintf(&sb, `\x%02X`, b)
		}
		i++
	}
	return sb.String()
}
