// Package model turns parsed OBJ data into flat vertex streams ready for GPU upload.
package model

// MissingTexCoord is emitted for face corners that carry no texture coordinate.
var MissingTexCoord = [2]float32{0, 0}

// FlatMesh is a non-indexed triangle-list mesh: three parallel streams with
// one entry per face corner, in face order then corner order.
type FlatMesh struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
}

// VertexCount returns the number of corners in the mesh.
func (m *FlatMesh) VertexCount() int {
	return len(m.Positions)
}
