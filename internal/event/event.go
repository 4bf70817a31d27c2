// Package event merges periodic ticks and decoded terminal input into one
// ordered stream.
package event

import "time"

// Event is one of Tick, Key, Mouse or Resize.
type Event interface {
	isEvent()
}

// Tick fires every tick interval.
type Tick struct {
	At time.Time
}

// Key is a key press. Name uses bubbletea's notation ("q", "ctrl+c",
// "right", " "), so a Key can be matched against bubbles/key bindings.
type Key struct {
	Name  string
	Runes []rune
}

func (k Key) String() string { return k.Name }

type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonWheelUp
	MouseButtonWheelDown
)

type MouseAction int

const (
	MouseActionPress MouseAction = iota
	MouseActionRelease
	MouseActionMotion
)

// Mouse is a mouse event in zero-based cell coordinates.
type Mouse struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
}

// IsPress reports whether the event is a button going down. Wheel
// movement is not a press.
func (m Mouse) IsPress() bool {
	if m.Action != MouseActionPress {
		return false
	}
	switch m.Button {
	case MouseButtonLeft, MouseButtonMiddle, MouseButtonRight:
		return true
	default:
		return false
	}
}

// Resize reports new terminal dimensions.
type Resize struct {
	Width, Height int
}

func (Tick) isEvent()   {}
func (Key) isEvent()    {}
func (Mouse) isEvent()  {}
func (Resize) isEvent() {}
