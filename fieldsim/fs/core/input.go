package core

// Key is a front-end independent key code. Front-ends translate their native
// events (glfw, tcell) into these.
type Key int

const (
	KeyUnknown Key = iota
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyQ
	KeyA
	KeyW
	KeyS
	KeyI
	Key0
	Key9
	KeyPlus
	KeyMinus
	KeyShift
	KeyEscape
)

var keyNames = map[Key]string{
	KeyPageUp:   "PageUp",
	KeyPageDown: "PageDown",
	KeyUp:       "ArrowUp",
	KeyDown:     "ArrowDown",
	KeyLeft:     "ArrowLeft",
	KeyRight:    "ArrowRight",
	KeyQ:        "q",
	KeyA:        "a",
	KeyW:        "w",
	KeyS:        "s",
	KeyI:        "i",
	Key0:        "0",
	Key9:        "9",
	KeyPlus:     "+",
	KeyMinus:    "-",
	KeyShift:    "Shift",
	KeyEscape:   "Escape",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "Unknown"
}

type KeyEvent struct {
	Key   Key
	Shift bool
}
