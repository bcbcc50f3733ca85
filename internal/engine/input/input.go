// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

var scancodes = map[sdl.Scancode]Key{
	sdl.SCANCODE_W:      KeyW,
	sdl.SCANCODE_A:      KeyA,
	sdl.SCANCODE_S:      KeyS,
	sdl.SCANCODE_D:      KeyD,
	sdl.SCANCODE_UP:     KeyUp,
	sdl.SCANCODE_DOWN:   KeyDown,
	sdl.SCANCODE_P:      KeyP,
	sdl.SCANCODE_ESCAPE: KeyEscape,
	sdl.SCANCODE_F12:    KeyF12,
}

// Input polls SDL once per frame.
type Input struct {
	frame Frame
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		frame: Frame{Pressed: make([]Key, 0, 8), held: make(map[Key]bool)},
	}
}

// Update drains the SDL event queue into the current frame.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	f := &i.frame
	f.Reset()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			f.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				f.Resized = true
				f.Width = int(e.Data1)
				f.Height = int(e.Data2)
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if k, ok := scancodes[e.Keysym.Scancode]; ok {
				// Only the shininess keys auto-repeat.
				if e.Repeat != 0 && k != KeyUp && k != KeyDown {
					continue
				}
				f.Pressed = append(f.Pressed, k)
				if k == KeyEscape {
					f.Quit = true
				}
			}

		case *sdl.MouseMotionEvent:
			f.MouseDX += float32(e.XRel)
			f.MouseDY += float32(e.YRel)
		}
	}

	state := sdl.GetKeyboardState()
	for sc, k := range scancodes {
		f.SetHeld(k, int(sc) < len(state) && state[sc] != 0)
	}

	return f.Quit
}

// Frame returns the input gathered by the last Update.
func (i *Input) Frame() *Frame {
	return &i.frame
}
