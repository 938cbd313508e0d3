package window

import "github.com/Carmen-Shannon/oxy-walk/common"

type keyAction int

const (
	keyReleased keyAction = iota
	keyPress
	keyRepeat
)

// keyStates tracks the last action seen for each key plus presses not yet reported.
type keyStates struct {
	actions map[common.Key]keyAction
	pressed map[common.Key]bool
}

func newKeyStates() *keyStates {
	return &keyStates{
		actions: make(map[common.Key]keyAction),
		pressed: make(map[common.Key]bool),
	}
}

func (k *keyStates) record(key common.Key, action keyAction) {
	k.actions[key] = action
	if action == keyPress {
		k.pressed[key] = true
	}
}

func (k *keyStates) down(key common.Key) bool {
	a := k.actions[key]
	return a == keyPress || a == keyRepeat
}

func (k *keyStates) consumePress(key common.Key) bool {
	if !k.pressed[key] {
		return false
	}
	delete(k.pressed, key)
	return true
}
