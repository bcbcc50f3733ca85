// OBJ (Wavefront) mesh parser for the subset used by scene models:
// v, vn, vt, usemtl/usemat and f. Other statements are ignored.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrNotFound       = errors.New("file not found")
	ErrMalformedFace  = errors.New("malformed OBJ face")
	ErrMalformedField = errors.New("malformed OBJ field")
)

// NoTexCoord is the texture index recorded for a face corner without a
// texture coordinate (e.g. "1//1"). OBJ indices are 1-based, so 0 never
// refers to a real entry.
const NoTexCoord = 0

// OBJFace is a polygon referencing the OBJ pools by 1-based index.
// The three index slices are parallel, one entry per corner.
type OBJFace struct {
	VertexIDs   []int
	TexCoordIDs []int // NoTexCoord where the corner had none
	NormalIDs   []int
	Material    string // material active when the face was read, "" if none
}

// Corners returns the number of corners in the face.
func (f *OBJFace) Corners() int {
	return len(f.VertexIDs)
}

// OBJ holds the raw pools and faces of a parsed OBJ file.
// Indices in Faces are stored as written and are not validated against the pools.
type OBJ struct {
	Vertices  [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Faces     []OBJFace
}

// CornerCount returns the total number of face corners across all faces.
func (o *OBJ) CornerCount() int {
	n := 0
	for i := range o.Faces {
		n += o.Faces[i].Corners()
	}
	return n
}

// LoadOBJ reads and parses an OBJ file from disk.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	obj, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// ParseOBJ parses OBJ text. Any malformed line fails the whole parse.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := objParser{obj: &OBJ{}}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}

	return p.obj, nil
}

type objParser struct {
	obj      *OBJ
	material string
	line     int
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		p.obj.Vertices = append(p.obj.Vertices, v)
	case "vn":
		n, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, n)
	case "vt":
		// A third (w) component is allowed and dropped.
		if len(fields) < 3 {
			return fmt.Errorf("%w: vt needs 2 components, got %d", ErrMalformedField, len(fields)-1)
		}
		var uv [2]float32
		for i := range uv {
			f, err := parseFloat(fields[1+i])
			if err != nil {
				return err
			}
			uv[i] = f
		}
		p.obj.TexCoords = append(p.obj.TexCoords, uv)
	case "usemtl", "usemat":
		if len(fields) < 2 {
			return fmt.Errorf("%w: %s without a material name", ErrMalformedField, fields[0])
		}
		p.material = fields[1]
	case "f":
		face, err := p.parseFace(fields[1:])
		if err != nil {
			return err
		}
		p.obj.Faces = append(p.obj.Faces, face)
	}
	return nil
}

// parseFace parses corner tokens of the form v/[t]/n.
func (p *objParser) parseFace(tokens []string) (OBJFace, error) {
	if len(tokens) == 0 {
		return OBJFace{}, fmt.Errorf("%w: face has no corners", ErrMalformedFace)
	}

	face := OBJFace{
		VertexIDs:   make([]int, 0, len(tokens)),
		TexCoordIDs: make([]int, 0, len(tokens)),
		NormalIDs:   make([]int, 0, len(tokens)),
		Material:    p.material,
	}

	for _, tok := range tokens {
		parts := strings.Split(tok, "/")
		if len(parts) < 3 {
			return OBJFace{}, fmt.Errorf("%w: corner %q has no normal index", ErrMalformedFace, tok)
		}

		v, err := strconv.Atoi(parts[0])
		if err != nil {
			return OBJFace{}, fmt.Errorf("%w: corner %q: bad vertex index", ErrMalformedFace, tok)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return OBJFace{}, fmt.Errorf("%w: corner %q: bad normal index", ErrMalformedFace, tok)
		}

		t := NoTexCoord
		if parts[1] != "" {
			t, err = strconv.Atoi(parts[1])
			if err != nil {
				return OBJFace{}, fmt.Errorf("%w: corner %q: bad texture index", ErrMalformedField, tok)
			}
		}

		face.VertexIDs = append(face.VertexIDs, v)
		face.TexCoordIDs = append(face.TexCoordIDs, t)
		face.NormalIDs = append(face.NormalIDs, n)
	}

	return face, nil
}

func parseVec3(fields []string) ([3]float32, error) {
	var v [3]float32
	if len(fields) < 3 {
		return v, fmt.Errorf("%w: need 3 components, got %d", ErrMalformedField, len(fields))
	}
	for i := range v {
		f, err := parseFloat(fields[i])
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedField, s)
	}
	return float32(f), nil
}
