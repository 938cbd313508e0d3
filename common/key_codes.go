package common

import (
	"fmt"
	"strings"
)

// Key is a keyboard key code. Values match GLFW key codes, which use ASCII values for
// printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key int

const (
	KeySpace Key = 32
	KeyA     Key = 65
	KeyD     Key = 68
	KeyE     Key = 69
	KeyQ     Key = 81
	KeyS     Key = 83
	KeyT     Key = 84
	KeyW     Key = 87
	KeyEsc   Key = 256
	KeyF1    Key = 290
	KeyF8    Key = 297
	KeyF9    Key = 298
	KeyF12   Key = 301

	KeyLeftShift Key = 340
)

// keyNames maps config key names to key codes.
var keyNames = map[string]Key{
	"space":  KeySpace,
	"escape": KeyEsc,
	"esc":    KeyEsc,
	"lshift": KeyLeftShift,
}

// ParseKey resolves a key name as written in the config file: a single letter or digit
// ("w", "T", "0"), a function key ("F8") or one of space, escape, lshift.
//
// Parameters:
//   - name: the key name, case-insensitive
//
// Returns:
//   - Key: the key code
//   - error: error if the name does not name a supported key
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNames[n]; ok {
		return k, nil
	}
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Key(c - 'a' + 'A'), nil
		case c >= '0' && c <= '9':
			return Key(c), nil
		}
	}
	var fn int
	if _, err := fmt.Sscanf(n, "f%d", &fn); err == nil && fn >= 1 && fn <= 12 {
		return KeyF1 + Key(fn-1), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}
