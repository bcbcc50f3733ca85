package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/phongview/pkg/formats"
)

// ErrIndexOutOfRange is returned when a face references a pool entry that does not exist.
var ErrIndexOutOfRange = errors.New("face index out of range")

// Flatten expands every face corner of obj into its own vertex. Shared
// vertices are duplicated per corner, never merged.
func Flatten(obj *formats.OBJ) (*FlatMesh, error) {
	n := obj.CornerCount()
	mesh := &FlatMesh{
		Positions: make([][3]float32, 0, n),
		TexCoords: make([][2]float32, 0, n),
		Normals:   make([][3]float32, 0, n),
	}

	for fi := range obj.Faces {
		face := &obj.Faces[fi]
		if len(face.TexCoordIDs) != face.Corners() || len(face.NormalIDs) != face.Corners() {
			return nil, fmt.Errorf("face %d: index lists differ in length", fi)
		}

		for c := 0; c < face.Corners(); c++ {
			vi, err := resolve(face.VertexIDs[c], len(obj.Vertices))
			if err != nil {
				return nil, fmt.Errorf("face %d corner %d vertex: %w", fi, c, err)
			}
			ni, err := resolve(face.NormalIDs[c], len(obj.Normals))
			if err != nil {
				return nil, fmt.Errorf("face %d corner %d normal: %w", fi, c, err)
			}

			uv := MissingTexCoord
			if t := face.TexCoordIDs[c]; t != formats.NoTexCoord {
				ti, err := resolve(t, len(obj.TexCoords))
				if err != nil {
					return nil, fmt.Errorf("face %d corner %d texcoord: %w", fi, c, err)
				}
				uv = obj.TexCoords[ti]
			}

			mesh.Positions = append(mesh.Positions, obj.Vertices[vi])
			mesh.TexCoords = append(mesh.TexCoords, uv)
			mesh.Normals = append(mesh.Normals, obj.Normals[ni])
		}
	}

	return mesh, nil
}

// resolve converts a 1-based OBJ index into a 0-based pool index.
func resolve(idx, poolLen int) (int, error) {
	if idx <= 0 || idx > poolLen {
		return 0, fmt.Errorf("%w: index %d, pool has %d entries", ErrIndexOutOfRange, idx, poolLen)
	}
	return idx - 1, nil
}

// Load parses the OBJ file at path and flattens it.
func Load(path string) (*FlatMesh, error) {
	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	mesh, err := Flatten(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}
