package tty

import (
	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
)

var tcellToKey = map[tcell.Key]core.Key{
	tcell.KeyPgUp:  core.KeyPageUp,
	tcell.KeyPgDn:  core.KeyPageDown,
	tcell.KeyUp:    core.KeyUp,
	tcell.KeyDown:  core.KeyDown,
	tcell.KeyLeft:  core.KeyLeft,
	tcell.KeyRight: core.KeyRight,
}

// Terminals do not report a bare Shift press, so 'o' stands in for it.
var runeToKey = map[rune]core.Key{
	'q': core.KeyQ,
	'a': core.KeyA,
	'w': core.KeyW,
	's': core.KeyS,
	'i': core.KeyI,
	'0': core.Key0,
	'9': core.Key9,
	'+': core.KeyPlus,
	'=': core.KeyPlus,
	'-': core.KeyMinus,
	'o': core.KeyShift,
	'O': core.KeyShift,
}

func TranslateKey(ev *tcell.EventKey) (core.KeyEvent, bool) {
	shift := ev.Modifiers()&tcell.ModShift != 0
	if ev.Key() == tcell.KeyRune {
		k, ok := runeToKey[ev.Rune()]
		return core.KeyEvent{Key: k, Shift: shift}, ok
	}
	k, ok := tcellToKey[ev.Key()]
	return core.KeyEvent{Key: k, Shift: shift}, ok
}
