package common

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// KeyNames lists the canonical names of the keys the harness can dispatch.
var KeyNames = []string{
	"Enter", "Escape", "Tab", "Backspace", "Delete",
	"ArrowUp", "ArrowDown", "Home", "End",
	"Shift", "Control", "Alt",
	"PageUp", "PageDown", "Insert", "NumLock", "ScrollLock",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
}

// lower-case spellings accepted on top of the canonical names
var keyAliases = map[string]string{
	"return":    "Enter",
	"esc":       "Escape",
	"del":       "Delete",
	"up":        "ArrowUp",
	"uparrow":   "ArrowUp",
	"down":      "ArrowDown",
	"downarrow": "ArrowDown",
	"ctrl":      "Control",
	"option":    "Alt",
}

func init() {
	for _, name := range KeyNames {
		keyAliases[strings.ToLower(name)] = name
	}
}

// CanonicalKey resolves a key name in any case, optionally wrapped in braces ("{enter}",
// "Esc", "ArrowDown"), or a single character, to the name the harness dispatches.
func CanonicalKey(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	if trimmed == "" {
		return "", fmt.Errorf("empty key signal")
	}
	if name, ok := keyAliases[strings.ToLower(trimmed)]; ok {
		return name, nil
	}
	if utf8.RuneCountInString(trimmed) == 1 {
		return trimmed, nil
	}
	return "", fmt.Errorf("unknown key signal %q", s)
}

// validateKey backs the "key" validation tag.
func validateKey(fl validator.FieldLevel) bool {
	_, err := CanonicalKey(fl.Field().String())
	return err == nil
}
