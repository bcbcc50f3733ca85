// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/phongview/pkg/math"
)

// FlyCamera is a first-person camera steered by yaw and pitch.
type FlyCamera struct {
	Position math.Vec3
	Front    math.Vec3
	Up       math.Vec3

	// Orientation in degrees. Yaw -90 looks down -Z.
	Yaw   float32
	Pitch float32

	// Constraints
	PitchLimit float32

	// Sensitivity
	Speed       float32 // world units per movement step
	Sensitivity float32 // degrees per pixel of mouse motion

	// Projection
	FOV  float32 // vertical, degrees
	Near float32
	Far  float32
}

// NewFlyCamera creates a camera at (0,0,15) looking down -Z.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Position:    math.Vec3{Z: 15},
		Front:       math.Vec3{Z: -1},
		Up:          math.Vec3{Y: 1},
		Yaw:         -90,
		PitchLimit:  90,
		Speed:       0.05,
		Sensitivity: 0.3,
		FOV:         45,
		Near:        0.1,
		Far:         1000,
	}
}

// Right returns the strafe direction, normalize(front x up).
func (c *FlyCamera) Right() math.Vec3 {
	return c.Front.Cross(c.Up).Normalize()
}

// Move steps the camera forward along Front and sideways along Right.
// Each unit of forward or right moves Speed world units.
func (c *FlyCamera) Move(forward, right float32) {
	c.Position = c.Position.
		Add(c.Front.Scale(forward * c.Speed)).
		Add(c.Right().Scale(right * c.Speed))
}

// Look turns the camera by a mouse delta in pixels. dy grows downward,
// so moving the mouse up raises the pitch.
func (c *FlyCamera) Look(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity

	if c.Pitch > c.PitchLimit {
		c.Pitch = c.PitchLimit
	}
	if c.Pitch < -c.PitchLimit {
		c.Pitch = -c.PitchLimit
	}

	c.updateFront()
}

func (c *FlyCamera) updateFront() {
	yaw, pitch := math.Radians(c.Yaw), math.Radians(c.Pitch)
	c.Front = math.Vec3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
}

// ViewMatrix returns the view matrix looking along Front.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProjectionMatrix returns the perspective projection for aspect (width/height).
func (c *FlyCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(math.Radians(c.FOV), aspect, c.Near, c.Far)
}
