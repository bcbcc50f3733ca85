// Package scene owns the loaded models of a scene: their shared vertex pools,
// texture slots, transforms, and draw calls.
package scene

import (
	"image"

	"github.com/Faultbox/phongview/pkg/math"
)

// Vertex attribute names in the Phong program.
const (
	AttribPosition = "position"
	AttribTexCoord = "texture_coord"
	AttribNormal   = "normals"
)

// Uniform names in the Phong program.
const (
	UniformModel      = "model"
	UniformView       = "view"
	UniformProjection = "projection"
	UniformLightPos   = "lightPos"
	UniformViewPos    = "viewPos"
	UniformKa         = "ka"
	UniformKd         = "kd"
	UniformKs         = "ks"
	UniformNs         = "ns"
	UniformSampler    = "samplerTexture"
)

// Device is the GPU surface a scene uploads to and draws through.
// All calls happen on the thread that owns the graphics context.
type Device interface {
	// UploadAttribute copies data into a static buffer and binds it to the
	// named vertex attribute with size floats per vertex.
	UploadAttribute(name string, size int32, data []float32) error
	// LoadTexture uploads img into texture slot.
	LoadTexture(slot uint32, img *image.RGBA) error
	BindTexture(slot uint32)

	SetMat4(name string, m math.Mat4)
	SetVec3(name string, v math.Vec3)
	SetFloat(name string, v float32)

	// DrawTriangles draws count vertices as a triangle list starting at first.
	DrawTriangles(first, count int32)
}

// Material holds the Phong reflection coefficients sent with each draw.
type Material struct {
	Ka float32 // ambient
	Kd float32 // diffuse
	Ks float32 // specular
	Ns float32 // specular exponent
}
