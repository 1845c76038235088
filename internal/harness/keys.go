package harness

import (
	"github.com/chromedp/chromedp/kb"

	"github.com/ternarybob/todo-e2e/internal/common"
)

// KeySignal names a keyboard event: either a named key ("Enter", "Escape") or a single
// printable character.
type KeySignal string

const (
	KeyEnter     KeySignal = "Enter"
	KeyEscape    KeySignal = "Escape"
	KeyTab       KeySignal = "Tab"
	KeyBackspace KeySignal = "Backspace"
	KeyDelete    KeySignal = "Delete"
	KeyArrowUp   KeySignal = "ArrowUp"
	KeyArrowDown KeySignal = "ArrowDown"
	KeyHome      KeySignal = "Home"
	KeyEnd       KeySignal = "End"
	KeyShift     KeySignal = "Shift"
	KeyControl   KeySignal = "Control"
	KeyAlt       KeySignal = "Alt"
	KeyPageUp    KeySignal = "PageUp"
	KeyPageDown  KeySignal = "PageDown"
	KeyInsert    KeySignal = "Insert"
	KeyNumLock   KeySignal = "NumLock"
	KeyScroll    KeySignal = "ScrollLock"
	KeyF1        KeySignal = "F1"
	KeyF2        KeySignal = "F2"
	KeyF3        KeySignal = "F3"
	KeyF4        KeySignal = "F4"
	KeyF5        KeySignal = "F5"
	KeyF6        KeySignal = "F6"
	KeyF7        KeySignal = "F7"
	KeyF8        KeySignal = "F8"
	KeyF9        KeySignal = "F9"
	KeyF10       KeySignal = "F10"
	KeyF11       KeySignal = "F11"
	KeyF12       KeySignal = "F12"
)

// namedKeys maps named signals to the runes chromedp dispatches for them.
var namedKeys = map[KeySignal]string{
	KeyEnter:     kb.Enter,
	KeyEscape:    kb.Escape,
	KeyTab:       kb.Tab,
	KeyBackspace: kb.Backspace,
	KeyDelete:    kb.Delete,
	KeyArrowUp:   kb.ArrowUp,
	KeyArrowDown: kb.ArrowDown,
	KeyHome:      kb.Home,
	KeyEnd:       kb.End,
	KeyShift:     kb.Shift,
	KeyControl:   kb.Control,
	KeyAlt:       kb.Alt,
	KeyPageUp:    kb.PageUp,
	KeyPageDown:  kb.PageDown,
	KeyInsert:    kb.Insert,
	KeyNumLock:   kb.NumLock,
	KeyScroll:    kb.ScrollLock,
	KeyF1:        kb.F1,
	KeyF2:        kb.F2,
	KeyF3:        kb.F3,
	KeyF4:        kb.F4,
	KeyF5:        kb.F5,
	KeyF6:        kb.F6,
	KeyF7:        kb.F7,
	KeyF8:        kb.F8,
	KeyF9:        kb.F9,
	KeyF10:       kb.F10,
	KeyF11:       kb.F11,
	KeyF12:       kb.F12,
}

// ParseKeySignal accepts a key name in any case, optionally wrapped in braces ("{enter}",
// "Esc", "ArrowDown"), or a single character.
func ParseKeySignal(s string) (KeySignal, error) {
	name, err := common.CanonicalKey(s)
	if err != nil {
		return "", err
	}
	return KeySignal(name), nil
}

// Keys returns the key sequence chromedp dispatches for the signal.
func (k KeySignal) Keys() string {
	if keys, ok := namedKeys[k]; ok {
		return keys
	}
	return string(k)
}

// DOMKey returns the KeyboardEvent.key value for the signal.
func (k KeySignal) DOMKey() string {
	return string(k)
}

// IsCommit reports whether the signal submits the new-item input.
func (k KeySignal) IsCommit() bool {
	return k == KeyEnter
}

func (k KeySignal) String() string {
	return string(k)
}
