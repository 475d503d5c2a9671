// Package uictl defines the small control interfaces shared between session
// logic and the frontends that display it.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Knob is a simple on/off toggle control.
type Knob interface {
	Read() bool
	On()
	Off()
	Toggle()
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// CappedDial is a Dial with a maximum cap value.
type CappedDial[N Number] interface {
	Dial[N]
	Cap() (num, max N)
}

// Levels is a control that can read multiple levels.
type Levels[N Number] interface {
	Read() []N
}

// Label is a text display owned by the UI layer.
type Label interface {
	Set(text string)
}

// LevelsFunc adapts a plain function to Levels.
type LevelsFunc[N Number] func() []N

func (f LevelsFunc[N]) Read() []N { return f() }

// Slider is a numeric control owned by the UI layer.
type Slider[N Number] interface {
	Set(value N)
}

// LabelFunc adapts a plain function to a Label.
type LabelFunc func(text string)

func (f LabelFunc) Set(text string) { f(text) }

// SliderFunc adapts a plain function to a Slider.
type SliderFunc[N Number] func(value N)

func (f SliderFunc[N]) Set(value N) { f(value) }

// SetLabel sets text on l, ignoring nil labels.
func SetLabel(l Label, text string) {
	if l != nil {
		l.Set(text)
	}
}

// SetSlider sets value on s, ignoring nil sliders.
func SetSlider[N Number](s Slider[N], value N) {
	if s != nil {
		s.Set(value)
	}
}
