package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/phongview/pkg/math"
)

// drawCall is one DrawTriangles invocation.
type drawCall struct {
	First, Count int32
}

// fakeDevice records everything the scene sends to the GPU.
type fakeDevice struct {
	attributes map[string][]float32
	sizes      map[string]int32
	uploads    int

	textures map[uint32]*image.RGBA
	bound    []uint32

	mat4s  map[string][]math.Mat4
	vec3s  map[string][]math.Vec3
	floats map[string][]float32

	draws []drawCall

	failUpload  error
	failTexture error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		attributes: make(map[string][]float32),
		sizes:      make(map[string]int32),
		textures:   make(map[uint32]*image.RGBA),
		mat4s:      make(map[string][]math.Mat4),
		vec3s:      make(map[string][]math.Vec3),
		floats:     make(map[string][]float32),
	}
}

func (d *fakeDevice) UploadAttribute(name string, size int32, data []float32) error {
	if d.failUpload != nil {
		return d.failUpload
	}
	d.uploads++
	d.attributes[name] = append([]float32(nil), data...)
	d.sizes[name] = size
	return nil
}

func (d *fakeDevice) LoadTexture(slot uint32, img *image.RGBA) error {
	if d.failTexture != nil {
		return d.failTexture
	}
	d.textures[slot] = img
	return nil
}

func (d *fakeDevice) BindTexture(slot uint32) { d.bound = append(d.bound, slot) }

func (d *fakeDevice) SetMat4(name string, m math.Mat4) { d.mat4s[name] = append(d.mat4s[name], m) }

func (d *fakeDevice) SetVec3(name string, v math.Vec3) { d.vec3s[name] = append(d.vec3s[name], v) }

func (d *fakeDevice) SetFloat(name string, v float32) { d.floats[name] = append(d.floats[name], v) }

func (d *fakeDevice) DrawTriangles(first, count int32) {
	d.draws = append(d.draws, drawCall{first, count})
}

// boxOBJ is a 12-triangle cube.
const boxOBJ = `# box
v -1 -1  1
v  1 -1  1
v  1  1  1
v -1  1  1
v -1 -1 -1
v  1 -1 -1
v  1  1 -1
v -1  1 -1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn  0  0  1
vn  0  0 -1
vn  1  0  0
vn -1  0  0
vn  0  1  0
vn  0 -1  0
usemtl Wood
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
f 6/1/2 5/2/2 8/3/2
f 6/1/2 8/3/2 7/4/2
f 2/1/3 6/2/3 7/3/3
f 2/1/3 7/3/3 3/4/3
f 5/1/4 1/2/4 4/3/4
f 5/1/4 4/3/4 8/4/4
f 4/1/5 3/2/5 7/3/5
f 4/1/5 7/3/5 8/4/5
f 5/1/6 6/2/6 2/3/6
f 5/1/6 2/3/6 1/4/6
`

// quadOBJ is two triangles without texture coordinates.
const quadOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`

// writeModel creates root/name with the given files. Entries ending in
// .png get a generated image; everything else gets the string content.
func writeModel(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for file, content := range files {
		data := []byte(content)
		if filepath.Ext(file) == ".png" {
			data = pngBytes(t)
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), data, 0o644))
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// sceneRoot builds the caixa (box, one texture) and luz (light quad, one
// texture) model directories.
func sceneRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeModel(t, root, "caixa", map[string]string{
		"caixa2.obj":        boxOBJ,
		"caixa_madeira.png": "",
		"notes.txt":         "ignored",
	})
	writeModel(t, root, "luz", map[string]string{
		"luz.obj": quadOBJ,
		"luz.png": "",
	})
	return root
}
