package input

// Key is a keyboard key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyP
	KeyEscape
	KeyF12
)

var keyNames = [...]string{
	KeyUnknown: "unknown",
	KeyW:       "W",
	KeyA:       "A",
	KeyS:       "S",
	KeyD:       "D",
	KeyUp:      "Up",
	KeyDown:    "Down",
	KeyP:       "P",
	KeyEscape:  "Escape",
	KeyF12:     "F12",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// Frame is the input gathered during one poll.
type Frame struct {
	Quit bool

	Resized       bool
	Width, Height int

	// Pressed lists key-down events in arrival order, repeats included.
	Pressed []Key

	// MouseDX and MouseDY accumulate relative motion; DY grows downward.
	MouseDX, MouseDY float32

	held map[Key]bool
}

// Reset clears the frame for reuse.
func (f *Frame) Reset() {
	f.Quit = false
	f.Resized = false
	f.Width, f.Height = 0, 0
	f.Pressed = f.Pressed[:0]
	f.MouseDX, f.MouseDY = 0, 0
	clear(f.held)
}

// SetHeld records whether k is down at the end of the poll.
func (f *Frame) SetHeld(k Key, down bool) {
	if f.held == nil {
		f.held = make(map[Key]bool)
	}
	f.held[k] = down
}

// Held reports whether k is down.
func (f *Frame) Held(k Key) bool { return f.held[k] }

// PressCount returns how many key-down events for k arrived this frame.
func (f *Frame) PressCount(k Key) int {
	n := 0
	for _, p := range f.Pressed {
		if p == k {
			n++
		}
	}
	return n
}

// WasPressed reports whether k went down at least once this frame.
func (f *Frame) WasPressed(k Key) bool { return f.PressCount(k) > 0 }
