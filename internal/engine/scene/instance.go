package scene

import (
	"fmt"

	"github.com/Faultbox/phongview/pkg/math"
)

// Kind tags how an instance takes part in lighting.
type Kind int

const (
	// KindStandard is ordinary lit geometry.
	KindStandard Kind = iota
	// KindLightSource is geometry whose translation is the scene light position.
	KindLightSource
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindLightSource:
		return "light"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rotation is an axis-angle rotation. Angle is in degrees.
type Rotation struct {
	Angle float32
	Axis  math.Vec3
}

// Transform places an instance in world space.
type Transform struct {
	Rotation    Rotation
	Translation math.Vec3
	Scale       math.Vec3
}

// DefaultTransform returns an unrotated, untranslated, unit-scale transform
// whose rotation axis is +Y.
func DefaultTransform() Transform {
	return Transform{
		Rotation: Rotation{Axis: math.Vec3{Y: 1}},
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// TransformUpdate is a partial transform change; nil fields are left as they are.
type TransformUpdate struct {
	Rotation    *Rotation
	Translation *math.Vec3
	Scale       *math.Vec3
}

// Instance is one loaded model placed in the scene. Its vertex range in the
// registry's pools is fixed at load time; its transform may change every frame.
type Instance struct {
	name        string
	kind        Kind
	startVertex int32
	vertexCount int32
	textures    []uint32
	transform   Transform
}

// Name returns the registry key of the instance.
func (in *Instance) Name() string { return in.name }

// Kind returns whether the instance is standard geometry or a light source.
func (in *Instance) Kind() Kind { return in.kind }

// StartVertex returns the first vertex of the instance in the global pools.
func (in *Instance) StartVertex() int32 { return in.startVertex }

// VertexCount returns the number of vertices the instance draws.
func (in *Instance) VertexCount() int32 { return in.vertexCount }

// Textures returns a copy of the texture slots assigned to the instance.
func (in *Instance) Textures() []uint32 {
	return append([]uint32(nil), in.textures...)
}

// Transform returns the current transform.
func (in *Instance) Transform() Transform { return in.transform }

// SetTransform applies the non-nil parts of u.
func (in *Instance) SetTransform(u TransformUpdate) {
	if u.Rotation != nil {
		in.transform.Rotation = *u.Rotation
	}
	if u.Translation != nil {
		in.transform.Translation = *u.Translation
	}
	if u.Scale != nil {
		in.transform.Scale = *u.Scale
	}
}

// SetTranslation moves the instance.
func (in *Instance) SetTranslation(t math.Vec3) {
	in.transform.Translation = t
}

// ModelMatrix returns Translate * Rotate * Scale for the current transform.
// A zero angle or a degenerate axis adds no rotation.
func (in *Instance) ModelMatrix() math.Mat4 {
	t := in.transform
	m := math.Translate(t.Translation)

	if t.Rotation.Angle != 0 {
		if axisLen := t.Rotation.Axis.Length(); axisLen > 1e-6 {
			axis := t.Rotation.Axis.Scale(1 / axisLen)
			m = m.Mul(math.RotateAxis(axis, math.Radians(t.Rotation.Angle)))
		}
	}

	return m.Mul(math.Scale(t.Scale))
}

// draw uploads the per-instance uniforms and issues the range draw.
// Light sources also publish their translation as the scene light position.
func (in *Instance) draw(dev Device, mat Material) {
	dev.SetMat4(UniformModel, in.ModelMatrix())
	dev.SetFloat(UniformKa, mat.Ka)
	dev.SetFloat(UniformKd, mat.Kd)
	dev.SetFloat(UniformKs, mat.Ks)
	dev.SetFloat(UniformNs, mat.Ns)

	if in.kind == KindLightSource {
		dev.SetVec3(UniformLightPos, in.transform.Translation)
	}

	if len(in.textures) > 0 {
		dev.BindTexture(in.textures[0])
	}

	dev.DrawTriangles(in.startVertex, in.vertexCount)
}
