// Package viewer drives a loaded scene frame by frame: it turns input into
// camera motion and lighting changes, animates the light sources, and issues
// the per-frame uniforms and draws.
package viewer

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/config"
	"github.com/Faultbox/phongview/internal/engine/camera"
	"github.com/Faultbox/phongview/internal/engine/input"
	"github.com/Faultbox/phongview/internal/engine/scene"
	"github.com/Faultbox/phongview/pkg/math"
)

// Specular exponent bounds for the Up/Down keys.
const (
	MinShininess = 1
	MaxShininess = 4096
)

// Viewer owns the scene registry, the camera and the interactive state.
type Viewer struct {
	log *zap.Logger
	dev scene.Device

	registry *scene.Registry
	camera   *camera.FlyCamera

	material   scene.Material
	orbit      config.LightOrbitConfig
	lightAngle float32
	wireframe  bool
	screenshot bool
}

// New loads every configured model through dev and uploads the scene.
func New(cfg *config.Config, dev scene.Device, log *zap.Logger) (*Viewer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	reg := scene.New(dev, scene.Options{
		Root:        cfg.Scene.ModelsDir,
		MaxTextures: cfg.Scene.MaxTextures,
		Logger:      log.Named("scene"),
	})
	for _, spec := range ModelSpecs(cfg.Scene.Models) {
		if err := reg.LoadModel(spec); err != nil {
			return nil, fmt.Errorf("loading scene: %w", err)
		}
	}
	if err := reg.Upload(); err != nil {
		return nil, fmt.Errorf("uploading scene: %w", err)
	}

	m := cfg.Scene.Material
	v := &Viewer{
		log:        log,
		dev:        dev,
		registry:   reg,
		camera:     NewCamera(cfg.Camera),
		material:   scene.Material{Ka: m.Ka, Kd: m.Kd, Ks: m.Ks, Ns: m.Ns},
		orbit:      cfg.Scene.Light,
		lightAngle: cfg.Scene.Light.StartAngle,
	}
	v.placeLights()
	return v, nil
}

// ModelSpecs converts configured models into registry load requests.
func ModelSpecs(models []config.ModelConfig) []scene.ModelSpec {
	specs := make([]scene.ModelSpec, 0, len(models))
	for _, m := range models {
		kind := scene.KindStandard
		if m.Light {
			kind = scene.KindLightSource
		}
		specs = append(specs, scene.ModelSpec{
			Name: m.Name,
			Kind: kind,
			Transform: scene.Transform{
				Rotation:    scene.Rotation{Angle: m.Angle, Axis: math.V3(m.Axis)},
				Translation: math.V3(m.Translation),
				Scale:       math.V3(m.Scale),
			},
		})
	}
	return specs
}

// NewCamera builds a fly camera from its configuration.
func NewCamera(cfg config.CameraConfig) *camera.FlyCamera {
	return &camera.FlyCamera{
		Position:    math.V3(cfg.Position),
		Front:       math.V3(cfg.Front).Normalize(),
		Up:          math.V3(cfg.Up),
		Yaw:         cfg.Yaw,
		Pitch:       cfg.Pitch,
		PitchLimit:  cfg.PitchLimit,
		Speed:       cfg.Speed,
		Sensitivity: cfg.Sensitivity,
		FOV:         cfg.FOV,
		Near:        cfg.Near,
		Far:         cfg.Far,
	}
}

// HandleInput applies one frame of input: held WASD moves the camera,
// mouse motion turns it, Up/Down double or halve the specular exponent
// once per key event, P toggles wireframe and F12 requests a screenshot.
func (v *Viewer) HandleInput(f *input.Frame) {
	var forward, right float32
	if f.Held(input.KeyW) {
		forward++
	}
	if f.Held(input.KeyS) {
		forward--
	}
	if f.Held(input.KeyD) {
		right++
	}
	if f.Held(input.KeyA) {
		right--
	}
	if forward != 0 || right != 0 {
		v.camera.Move(forward, right)
	}

	v.camera.Look(f.MouseDX, f.MouseDY)

	for _, k := range f.Pressed {
		switch k {
		case input.KeyUp:
			v.setShininess(v.material.Ns * 2)
		case input.KeyDown:
			v.setShininess(v.material.Ns / 2)
		case input.KeyP:
			v.wireframe = !v.wireframe
			v.log.Debug("polygon mode", zap.Bool("wireframe", v.wireframe))
		case input.KeyF12:
			v.screenshot = true
		}
	}
}

func (v *Viewer) setShininess(ns float32) {
	ns = math32.Max(MinShininess, math32.Min(MaxShininess, ns))
	if ns != v.material.Ns {
		v.material.Ns = ns
		v.log.Debug("specular exponent", zap.Float32("ns", ns))
	}
}

// Advance moves the orbit angle one step and repositions every light source.
func (v *Viewer) Advance() {
	v.lightAngle += v.orbit.Step
	v.placeLights()
}

func (v *Viewer) placeLights() {
	pos := LightPosition(v.lightAngle, v.orbit)
	for _, l := range v.registry.Lights() {
		l.SetTranslation(pos)
	}
}

// LightPosition returns the point on the orbit at angle (radians).
func LightPosition(angle float32, orbit config.LightOrbitConfig) math.Vec3 {
	return math.Vec3{
		X: math32.Cos(angle) * orbit.Radius,
		Y: math32.Sin(angle) * orbit.Radius,
		Z: orbit.Height,
	}
}

// Draw sends the camera uniforms and draws every model.
func (v *Viewer) Draw(aspect float32) error {
	v.dev.SetMat4(scene.UniformView, v.camera.ViewMatrix())
	v.dev.SetMat4(scene.UniformProjection, v.camera.ProjectionMatrix(aspect))
	v.dev.SetVec3(scene.UniformViewPos, v.camera.Position)
	return v.registry.DrawAll(v.material)
}

// Step runs one frame without clearing or presenting.
func (v *Viewer) Step(f *input.Frame, aspect float32) error {
	v.HandleInput(f)
	v.Advance()
	return v.Draw(aspect)
}

// Registry returns the loaded scene.
func (v *Viewer) Registry() *scene.Registry { return v.registry }

// Camera returns the fly camera.
func (v *Viewer) Camera() *camera.FlyCamera { return v.camera }

// Material returns the coefficients used for the next draw.
func (v *Viewer) Material() scene.Material { return v.material }

// TakeScreenshotRequest reports and clears a pending screenshot request.
func (v *Viewer) TakeScreenshotRequest() bool {
	req := v.screenshot
	v.screenshot = false
	return req
}

// Wireframe reports whether line rasterization was requested.
func (v *Viewer) Wireframe() bool { return v.wireframe }
