// Package renderer provides the OpenGL implementation of scene.Device.
package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/scene"
	"github.com/Faultbox/phongview/internal/engine/shader"
	"github.com/Faultbox/phongview/pkg/math"
)

// ErrUnknownAttribute is returned when the program has no active attribute
// with the requested name.
var ErrUnknownAttribute = errors.New("attribute not active in program")

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [3]float32
	Logger     *zap.Logger
}

// Renderer owns the Phong program and every GL object a scene uploads.
type Renderer struct {
	config Config
	log    *zap.Logger

	program uint32
	vao     uint32

	buffers  map[string]uint32
	textures map[uint32]uint32 // slot -> GL texture name
	uniforms map[string]int32

	wireframe bool
}

var _ scene.Device = (*Renderer)(nil)

// New creates a new renderer and makes the Phong program current.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	program, err := shader.CompilePhong()
	if err != nil {
		return nil, fmt.Errorf("building phong program: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		log:      log,
		program:  program,
		buffers:  make(map[string]uint32),
		textures: make(map[uint32]uint32),
		uniforms: make(map[string]int32),
	}

	gl.UseProgram(program)
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	// All draws sample from unit 0.
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.uniform(scene.UniformSampler), 0)

	log.Debug("phong program ready", zap.Uint32("program", program), zap.Uint32("vao", r.vao))
	return r, nil
}

// Close releases every GL object the renderer created.
func (r *Renderer) Close() {
	r.log.Info("closing renderer",
		zap.Int("buffers", len(r.buffers)),
		zap.Int("textures", len(r.textures)),
	)
	for name, buf := range r.buffers {
		gl.DeleteBuffers(1, &buf)
		delete(r.buffers, name)
	}
	for slot, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, slot)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the current viewport width over height.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin clears the color and depth buffers.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetWireframe switches between line and fill rasterization.
func (r *Renderer) SetWireframe(on bool) {
	r.wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports whether line rasterization is on.
func (r *Renderer) Wireframe() bool { return r.wireframe }

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// UploadAttribute copies data into a static buffer bound to the named attribute.
func (r *Renderer) UploadAttribute(name string, size int32, data []float32) error {
	loc := shader.GetAttrib(r.program, name)
	if loc < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}

	buf, ok := r.buffers[name]
	if !ok {
		gl.GenBuffers(1, &buf)
		r.buffers[name] = buf
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, size*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.log.Debug("attribute uploaded",
		zap.String("name", name),
		zap.Int32("location", loc),
		zap.Int("vertices", len(data)/int(size)),
	)
	return nil
}

// LoadTexture uploads img into slot with repeat wrapping and linear filtering.
func (r *Renderer) LoadTexture(slot uint32, img *image.RGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("texture slot %d: empty image", slot)
	}

	tex, ok := r.textures[slot]
	if !ok {
		gl.GenTextures(1, &tex)
		r.textures[slot] = tex
	}

	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	r.log.Debug("texture uploaded", zap.Uint32("slot", slot), zap.Int("width", w), zap.Int("height", h))
	return nil
}

// BindTexture makes the texture in slot current on unit 0. Unknown slots are ignored.
func (r *Renderer) BindTexture(slot uint32) {
	if tex, ok := r.textures[slot]; ok {
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}
}

// SetMat4 uploads a column-major matrix uniform.
func (r *Renderer) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(r.uniform(name), 1, false, m.Ptr())
}

// SetVec3 uploads a vec3 uniform.
func (r *Renderer) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(r.uniform(name), v.X, v.Y, v.Z)
}

// SetFloat uploads a float uniform.
func (r *Renderer) SetFloat(name string, v float32) {
	gl.Uniform1f(r.uniform(name), v)
}

// DrawTriangles draws count vertices from the shared buffers starting at first.
func (r *Renderer) DrawTriangles(first, count int32) {
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

// uniform returns the cached location of name. Missing uniforms resolve to
// -1, which GL ignores on upload.
func (r *Renderer) uniform(name string) int32 {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	loc := shader.GetUniform(r.program, name)
	if loc < 0 {
		r.log.Warn("uniform not active", zap.String("name", name))
	}
	r.uniforms[name] = loc
	return loc
}
