package scene

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/model"
	"github.com/Faultbox/phongview/internal/engine/texture"
)

// Registry errors.
var (
	ErrNotFound        = errors.New("model directory not found")
	ErrNoMeshFound     = errors.New("no .obj mesh in model directory")
	ErrMultipleMeshes  = errors.New("more than one .obj mesh in model directory")
	ErrDuplicateModel  = errors.New("model already loaded")
	ErrTextureLimit    = errors.New("texture slots exhausted")
	ErrAlreadyUploaded = errors.New("scene already uploaded to GPU")
	ErrNotUploaded     = errors.New("scene not uploaded to GPU")
	ErrUnknownModel    = errors.New("unknown model")
)

// DefaultMaxTextures is the number of texture slots a registry hands out by default.
const DefaultMaxTextures = 10

// Options configures a Registry.
type Options struct {
	// Root is the directory holding one subdirectory per model.
	Root string
	// MaxTextures caps the texture slots handed out. Zero means DefaultMaxTextures.
	MaxTextures int
	// Logger receives load and upload progress. Nil disables logging.
	Logger *zap.Logger
	// LoadTexture decodes a texture file. Nil means texture.Load.
	LoadTexture func(path string) (*image.RGBA, error)
}

// ModelSpec describes a model to load: its directory name under Options.Root,
// its kind, and its initial placement.
type ModelSpec struct {
	Name      string
	Kind      Kind
	Transform Transform
}

// Pools is a read-only view of the registry's global vertex streams.
type Pools struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
}

type phase int

const (
	phaseLoading phase = iota
	phaseUploaded
)

// Registry loads models into shared global vertex pools and hands out
// texture slots. Loading happens in one phase and drawing in the next:
// every LoadModel call must come before Upload, and every draw after it.
type Registry struct {
	dev  Device
	opts Options
	log  *zap.Logger

	models []*Instance
	byName map[string]*Instance

	pools Pools

	vertexCursor  int32
	textureCursor uint32

	phase phase
}

// New creates an empty registry that uploads and draws through dev.
func New(dev Device, opts Options) *Registry {
	if opts.MaxTextures <= 0 {
		opts.MaxTextures = DefaultMaxTextures
	}
	if opts.LoadTexture == nil {
		opts.LoadTexture = texture.Load
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		dev:    dev,
		opts:   opts,
		log:    log,
		byName: make(map[string]*Instance),
	}
}

// LoadModel loads the model directory named by spec.Name: exactly one .obj
// mesh and any .jpg/.png textures. The mesh is appended to the global pools
// and each texture gets the next free slot. On error nothing is recorded.
func (r *Registry) LoadModel(spec ModelSpec) error {
	if r.phase != phaseLoading {
		return fmt.Errorf("loading %q: %w", spec.Name, ErrAlreadyUploaded)
	}
	if spec.Name == "" {
		return fmt.Errorf("loading model: %w: empty name", ErrNotFound)
	}
	if _, ok := r.byName[spec.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, spec.Name)
	}

	dir := filepath.Join(r.opts.Root, spec.Name)
	r.log.Info("loading model", zap.String("name", spec.Name), zap.String("dir", dir))

	meshPath, texPaths, err := scanModelDir(dir)
	if err != nil {
		return err
	}

	if int(r.textureCursor)+len(texPaths) > r.opts.MaxTextures {
		return fmt.Errorf("%w: %s needs %d, %d of %d in use",
			ErrTextureLimit, spec.Name, len(texPaths), r.textureCursor, r.opts.MaxTextures)
	}

	r.log.Debug("loading mesh", zap.String("file", meshPath))
	mesh, err := model.Load(meshPath)
	if err != nil {
		return fmt.Errorf("loading %q: %w", spec.Name, err)
	}

	images := make([]*image.RGBA, 0, len(texPaths))
	for _, p := range texPaths {
		r.log.Debug("loading texture", zap.String("file", p))
		img, err := r.opts.LoadTexture(p)
		if err != nil {
			return fmt.Errorf("loading %q: %w", spec.Name, err)
		}
		images = append(images, img)
	}

	slots := make([]uint32, 0, len(images))
	for i, img := range images {
		slot := r.textureCursor + uint32(i)
		if err := r.dev.LoadTexture(slot, img); err != nil {
			return fmt.Errorf("loading %q: texture slot %d: %w", spec.Name, slot, err)
		}
		slots = append(slots, slot)
	}

	inst := &Instance{
		name:        spec.Name,
		kind:        spec.Kind,
		startVertex: r.vertexCursor,
		vertexCount: int32(mesh.VertexCount()),
		textures:    slots,
		transform:   spec.Transform,
	}

	r.pools.Positions = append(r.pools.Positions, mesh.Positions...)
	r.pools.TexCoords = append(r.pools.TexCoords, mesh.TexCoords...)
	r.pools.Normals = append(r.pools.Normals, mesh.Normals...)
	r.vertexCursor += inst.vertexCount
	r.textureCursor += uint32(len(slots))

	r.models = append(r.models, inst)
	r.byName[inst.name] = inst

	r.log.Info("model loaded",
		zap.String("name", inst.name),
		zap.Stringer("kind", inst.kind),
		zap.Int32("start_vertex", inst.startVertex),
		zap.Int32("vertex_count", inst.vertexCount),
		zap.Uint32s("textures", slots),
	)
	return nil
}

// scanModelDir finds the single mesh and the texture files in dir, in name order.
func scanModelDir(dir string) (mesh string, textures []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return "", nil, fmt.Errorf("reading model directory: %w", err)
	}

	var meshes []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch {
		case strings.EqualFold(filepath.Ext(e.Name()), ".obj"):
			meshes = append(meshes, path)
		case texture.IsTextureFile(e.Name()):
			textures = append(textures, path)
		}
	}

	switch len(meshes) {
	case 0:
		return "", nil, fmt.Errorf("%w: %s", ErrNoMeshFound, dir)
	case 1:
		return meshes[0], textures, nil
	default:
		return "", nil, fmt.Errorf("%w: %s has %d", ErrMultipleMeshes, dir, len(meshes))
	}
}

// Upload sends the three global pools to the GPU in one transfer each and
// binds them to the position, texture_coord and normals attributes.
// It may be called once; afterwards the registry only draws.
func (r *Registry) Upload() error {
	if r.phase == phaseUploaded {
		return ErrAlreadyUploaded
	}

	if err := r.dev.UploadAttribute(AttribPosition, 3, flatten3(r.pools.Positions)); err != nil {
		return fmt.Errorf("uploading positions: %w", err)
	}
	if err := r.dev.UploadAttribute(AttribTexCoord, 2, flatten2(r.pools.TexCoords)); err != nil {
		return fmt.Errorf("uploading texture coordinates: %w", err)
	}
	if err := r.dev.UploadAttribute(AttribNormal, 3, flatten3(r.pools.Normals)); err != nil {
		return fmt.Errorf("uploading normals: %w", err)
	}

	r.phase = phaseUploaded
	r.log.Info("scene uploaded",
		zap.Int("models", len(r.models)),
		zap.Int32("vertices", r.vertexCursor),
		zap.Uint32("textures", r.textureCursor),
	)
	return nil
}

// Draw draws the named model with the given coefficients.
func (r *Registry) Draw(name string, mat Material) error {
	if r.phase != phaseUploaded {
		return ErrNotUploaded
	}
	inst, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	inst.draw(r.dev, mat)
	return nil
}

// DrawAll draws every model in load order with the same coefficients.
func (r *Registry) DrawAll(mat Material) error {
	if r.phase != phaseUploaded {
		return ErrNotUploaded
	}
	for _, inst := range r.models {
		inst.draw(r.dev, mat)
	}
	return nil
}

// Model returns the instance loaded under name.
func (r *Registry) Model(name string) (*Instance, bool) {
	inst, ok := r.byName[name]
	return inst, ok
}

// Models returns the instances in load order.
func (r *Registry) Models() []*Instance {
	return append([]*Instance(nil), r.models...)
}

// Lights returns the light-source instances in load order.
func (r *Registry) Lights() []*Instance {
	var lights []*Instance
	for _, inst := range r.models {
		if inst.kind == KindLightSource {
			lights = append(lights, inst)
		}
	}
	return lights
}

// VertexCount returns the total vertices loaded, which is also the start
// offset the next model will get.
func (r *Registry) VertexCount() int32 { return r.vertexCursor }

// TextureCount returns the number of texture slots handed out.
func (r *Registry) TextureCount() uint32 { return r.textureCursor }

// Uploaded reports whether Upload has succeeded.
func (r *Registry) Uploaded() bool { return r.phase == phaseUploaded }

// Pools returns the global vertex streams. Callers must not modify them.
func (r *Registry) Pools() Pools { return r.pools }

func flatten3(v [][3]float32) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}

func flatten2(v [][2]float32) []float32 {
	out := make([]float32, 0, len(v)*2)
	for _, e := range v {
		out = append(out, e[0], e[1])
	}
	return out
}
