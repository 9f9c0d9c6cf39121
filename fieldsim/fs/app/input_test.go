package app

import (
	"testing"

	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		key    glfw.Key
		action glfw.Action
		mods   glfw.ModifierKey
		want   core.KeyEvent
		ok     bool
	}{
		{glfw.KeyPageUp, glfw.Press, 0, core.KeyEvent{Key: core.KeyPageUp}, true},
		{glfw.KeyPageUp, glfw.Press, glfw.ModShift, core.KeyEvent{Key: core.KeyPageUp, Shift: true}, true},
		{glfw.KeyLeft, glfw.Repeat, 0, core.KeyEvent{Key: core.KeyLeft}, true},
		{glfw.KeyKPAdd, glfw.Press, 0, core.KeyEvent{Key: core.KeyPlus}, true},
		{glfw.KeyEqual, glfw.Press, glfw.ModShift, core.KeyEvent{Key: core.KeyPlus, Shift: true}, true},
		{glfw.KeyKP0, glfw.Press, 0, core.KeyEvent{Key: core.Key0}, true},
		{glfw.KeyLeftShift, glfw.Press, glfw.ModShift, core.KeyEvent{Key: core.KeyShift, Shift: true}, true},
		{glfw.KeyLeftShift, glfw.Repeat, glfw.ModShift, core.KeyEvent{}, false},
		{glfw.KeyQ, glfw.Release, 0, core.KeyEvent{}, false},
		{glfw.KeyF12, glfw.Press, 0, core.KeyEvent{}, false},
	}
	for _, tc := range cases {
		got, ok := TranslateKey(tc.key, tc.action, tc.mods)
		assert.Equal(t, tc.ok, ok, "key %v action %v", tc.key, tc.action)
		assert.Equal(t, tc.want, got, "key %v action %v", tc.key, tc.action)
	}
}
