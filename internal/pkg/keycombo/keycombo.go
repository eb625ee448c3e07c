// Package keycombo normalizes keyboard shortcut strings such as "ctrl+shift+u"
// into a single comparable form ("Ctrl+Shift+U").
package keycombo

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Combo is a normalized key combination: modifiers in the order
// Ctrl, Shift, Alt followed by the key, joined with "+".
type Combo string

var ErrEmptyCombo = errors.New("empty key combination")

// New builds a Combo from a key name and modifier flags. Meta/Cmd callers
// pass ctrl=true.
func New(key string, ctrl, shift, alt bool) Combo {
	parts := make([]string, 0, 4)
	if ctrl {
		parts = append(parts, "Ctrl")
	}
	if shift {
		parts = append(parts, "Shift")
	}
	if alt {
		parts = append(parts, "Alt")
	}
	parts = append(parts, normalizeKey(key))
	return Combo(strings.Join(parts, "+"))
}

// Parse normalizes a user-entered combination. Modifier names are case
// insensitive; "cmd", "meta" and "control" all map to Ctrl and "option" maps
// to Alt.
func Parse(s string) (Combo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyCombo
	}

	var key string
	rest := s
	// "ctrl++" binds the plus key itself.
	if strings.HasSuffix(s, "++") || s == "+" {
		key = "+"
		rest = strings.TrimSuffix(strings.TrimSuffix(s, "+"), "+")
	} else {
		idx := strings.LastIndex(s, "+")
		key = s[idx+1:]
		if idx >= 0 {
			rest = s[:idx]
		} else {
			rest = ""
		}
	}
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyCombo
	}

	var ctrl, shift, alt bool
	if rest != "" {
		for _, m := range strings.Split(rest, "+") {
			switch strings.ToLower(strings.TrimSpace(m)) {
			case "ctrl", "control", "cmd", "meta", "super":
				ctrl = true
			case "shift":
				shift = true
			case "alt", "option":
				alt = true
			case "":
			default:
				return "", errors.New("unknown modifier " + m)
			}
		}
	}
	return New(key, ctrl, shift, alt), nil
}

// MustParse is Parse for static tables.
func MustParse(s string) Combo {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Combo) String() string { return string(c) }

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if utf8.RuneCountInString(key) == 1 {
		return strings.ToUpper(key)
	}
	lower := strings.ToLower(key)
	switch lower {
	case "esc":
		return "Escape"
	case "del":
		return "Delete"
	case "return":
		return "Enter"
	}
	r, size := utf8.DecodeRuneInString(lower)
	return strings.ToUpper(string(r)) + lower[size:]
}
