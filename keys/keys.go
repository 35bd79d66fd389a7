// Package keys translates a scenario's declarative key vocabulary into
// the exact byte sequences a raw-mode terminal would deliver, grounded in
// the canonical key-name-to-sequence table used across the pack's PTY
// test harnesses.
package keys

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSequence is returned for a Ctrl or function key that has no
// legal encoding.
var ErrInvalidSequence = errors.New("keys: invalid sequence")

// SpecialKey names a non-literal key.
type SpecialKey int

const (
	Enter SpecialKey = iota
	Tab
	Backspace
	Escape
	Up
	Down
	Right
	Left
	Home
	End
	PageUp
	PageDown
	Insert
	Delete
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
)

var specialEncoding = map[SpecialKey]string{
	Enter:     "\r",
	Tab:       "\t",
	Backspace: "\x7f",
	Escape:    "\x1b",
	Up:        "\x1b[A",
	Down:      "\x1b[B",
	Right:     "\x1b[C",
	Left:      "\x1b[D",
	Home:      "\x1b[H",
	End:       "\x1b[F",
	PageUp:    "\x1b[5~",
	PageDown:  "\x1b[6~",
	Insert:    "\x1b[2~",
	Delete:    "\x1b[3~",
	F1:        "\x1bOP",
	F2:        "\x1bOQ",
	F3:        "\x1bOR",
	F4:        "\x1bOS",
	F5:        "\x1b[15~",
	F6:        "\x1b[17~",
	F7:        "\x1b[18~",
	F8:        "\x1b[19~",
	F9:        "\x1b[20~",
	F10:       "\x1b[21~",
	F11:       "\x1b[23~",
	F12:       "\x1b[24~",
}

// ctrlLegal is the set of ASCII characters Ctrl(c) accepts beyond plain
// letters: the punctuation with a well-defined C0 mapping.
var ctrlLegal = map[byte]byte{
	'@':  0x00,
	'[':  0x1b,
	'\\': 0x1c,
	']':  0x1d,
	'^':  0x1e,
	'_':  0x1f,
	'?':  0x7f,
}

// Ctrl encodes Ctrl(c): lowercase ASCII letters map to c-'a'+1; a small
// legal set of punctuation maps to its conventional C0 byte. Anything
// else is InvalidSequence.
func Ctrl(c byte) (byte, error) {
	lower := c
	if lower >= 'A' && lower <= 'Z' {
		lower += 'a' - 'A'
	}
	if lower >= 'a' && lower <= 'z' {
		return lower - 'a' + 1, nil
	}
	if b, ok := ctrlLegal[c]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("%w: ctrl(%q)", ErrInvalidSequence, c)
}

// Alt encodes Alt(c) as ESC followed by the literal character.
func Alt(c rune) string {
	return "\x1b" + string(c)
}

// Encode returns the canonical byte encoding for a SpecialKey.
func Encode(k SpecialKey) ([]byte, error) {
	s, ok := specialEncoding[k]
	if !ok {
		return nil, fmt.Errorf("%w: unknown special key %d", ErrInvalidSequence, k)
	}
	return []byte(s), nil
}

// Sequence is either literal text or an ordered list of SpecialKeys; the
// zero value is an empty literal sequence.
type Sequence struct {
	Text  string
	Keys  []SpecialKey
	Ctrls []byte // ASCII letters/punctuation passed to Ctrl
	Alts  []rune
}

// Text builds a literal-text Sequence.
func Text(s string) Sequence { return Sequence{Text: s} }

// Special builds a Sequence of one or more SpecialKeys.
func Special(keys ...SpecialKey) Sequence { return Sequence{Keys: keys} }

// Bytes renders the sequence to its canonical byte encoding, in order:
// Ctrl keys, then Alt keys, then SpecialKeys, then literal text. Scenario
// authors normally populate exactly one of these fields; the ordering
// only matters when more than one is set on a single Sequence.
func (s Sequence) Bytes() ([]byte, error) {
	var out []byte
	for _, c := range s.Ctrls {
		b, err := Ctrl(c)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	for _, c := range s.Alts {
		out = append(out, []byte(Alt(c))...)
	}
	for _, k := range s.Keys {
		b, err := Encode(k)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	out = append(out, []byte(s.Text)...)
	return out, nil
}

// ParseSpecialName maps a lowercase friendly name (as used in a scenario
// file) to its SpecialKey constant.
func ParseSpecialName(name string) (SpecialKey, error) {
	switch strings.ToLower(name) {
	case "enter":
		return Enter, nil
	case "tab":
		return Tab, nil
	case "backspace":
		return Backspace, nil
	case "escape", "esc":
		return Escape, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "right":
		return Right, nil
	case "left":
		return Left, nil
	case "home":
		return Home, nil
	case "end":
		return End, nil
	case "pageup":
		return PageUp, nil
	case "pagedown":
		return PageDown, nil
	case "insert":
		return Insert, nil
	case "delete":
		return Delete, nil
	case "f1":
		return F1, nil
	case "f2":
		return F2, nil
	case "f3":
		return F3, nil
	case "f4":
		return F4, nil
	case "f5":
		return F5, nil
	case "f6":
		return F6, nil
	case "f7":
		return F7, nil
	case "f8":
		return F8, nil
	case "f9":
		return F9, nil
	case "f10":
		return F10, nil
	case "f11":
		return F11, nil
	case "f12":
		return F12, nil
	default:
		return 0, fmt.Errorf("%w: unknown key name %q", ErrInvalidSequence, name)
	}
}
