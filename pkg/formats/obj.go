// Package formats provides parsers for text mesh formats.
// OBJ (Wavefront) format parser producing interleaved, indexed meshes.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/objmesh/pkg/mesh"
)

// OBJ format errors.
var (
	ErrNumericParse        = errors.New("invalid numeric value")
	ErrWrongParameterCount = errors.New("wrong parameter count")
	ErrInvalidIndex        = errors.New("invalid index")
	ErrMissingPosition     = errors.New("missing position")
	ErrInconsistentLayout  = errors.New("multiple index layouts in one mesh")
	ErrDegenerateFace      = errors.New("faces must have at least 3 vertices")
	ErrIndexOutOfRange     = errors.New("index refers to undefined attribute")
)

// OBJ record keywords.
const (
	objPosition = "v"
	objTexCoord = "vt"
	objNormal   = "vn"
	objFace     = "f"
	objMaterial = "usemtl"
)

// ParseError describes where an OBJ document failed to parse.
type ParseError struct {
	Line    int    // 1-based line number
	Keyword string // Record keyword, e.g. "f"
	Token   string // Offending token, empty if the record as a whole failed
	Err     error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("obj line %d: %s %q: %v", e.Line, e.Keyword, e.Token, e.Err)
	}
	return fmt.Sprintf("obj line %d: %s: %v", e.Line, e.Keyword, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// objParser holds the state of one parse call.
type objParser struct {
	mode      mesh.PrimitiveMode
	positions []float32
	texcoords []float32
	normals   []float32
	seen      map[indexTriple]uint32
	material  int
	out       *mesh.MeshData
}

// ParseOBJ parses OBJ text into a mesh flattened for the given primitive
// mode. Only v, vt, vn, f and usemtl records are interpreted; other lines
// are skipped.
func ParseOBJ(text string, mode mesh.PrimitiveMode) (*mesh.MeshData, error) {
	return ParseOBJReader(strings.NewReader(text), mode)
}

// ParseOBJReader is ParseOBJ over a stream.
func ParseOBJReader(r io.Reader, mode mesh.PrimitiveMode) (*mesh.MeshData, error) {
	p := &objParser{
		mode:     mode,
		seen:     make(map[indexTriple]uint32),
		material: -1,
		out: &mesh.MeshData{
			Layout:    mesh.LayoutNone,
			Primitive: mode,
		},
	}

	br := bufio.NewReader(r)
	lineNum := 0
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("reading obj: %w", readErr)
		}
		if len(line) > 0 {
			lineNum++
			if err := p.parseLine(strings.TrimRight(line, " \t\r\n"), lineNum); err != nil {
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	return p.out, nil
}

func (p *objParser) parseLine(line string, lineNum int) error {
	keyword, loc := nextToken(line, 0)
	switch keyword {
	case objPosition, objTexCoord, objNormal:
		return p.parseAttribute(keyword, line, loc, lineNum)
	case objFace:
		return p.parseFace(line, loc, lineNum)
	case objMaterial:
		name, _ := nextToken(line, loc)
		if name != "" {
			p.useMaterial(name)
		}
	}
	return nil
}

func (p *objParser) parseAttribute(keyword, line string, loc, lineNum int) error {
	want := 3
	pool := &p.positions
	switch keyword {
	case objTexCoord:
		want = 2
		pool = &p.texcoords
	case objNormal:
		pool = &p.normals
	}

	found := 0
	for loc < len(line) {
		var param string
		param, loc = nextToken(line, loc)
		if param == "" {
			continue
		}
		value, err := strconv.ParseFloat(param, 32)
		if err != nil {
			return &ParseError{
				Line:    lineNum,
				Keyword: keyword,
				Token:   param,
				Err:     fmt.Errorf("%w: %v", ErrNumericParse, err),
			}
		}
		*pool = append(*pool, float32(value))
		found++
	}

	if found != want {
		return &ParseError{
			Line:    lineNum,
			Keyword: keyword,
			Err:     fmt.Errorf("%w: %s needs %d parameters, got %d", ErrWrongParameterCount, keyword, want, found),
		}
	}
	return nil
}

func (p *objParser) parseFace(line string, loc, lineNum int) error {
	count := 0
	var first, prev uint32

	for loc < len(line) {
		var param string
		param, loc = nextToken(line, loc)
		if param == "" {
			continue
		}

		idx, err := parseFaceIndex(param)
		if err != nil {
			return &ParseError{Line: lineNum, Keyword: objFace, Token: param, Err: err}
		}
		layout, err := layoutFromIndices(idx)
		if err != nil {
			return &ParseError{Line: lineNum, Keyword: objFace, Token: param, Err: err}
		}
		if p.out.Layout != mesh.LayoutNone && p.out.Layout != layout {
			return &ParseError{
				Line:    lineNum,
				Keyword: objFace,
				Token:   param,
				Err:     fmt.Errorf("%w: mesh is %s, reference is %s", ErrInconsistentLayout, p.out.Layout, layout),
			}
		}
		p.out.Layout = layout

		cur, err := p.vertexIndex(idx)
		if err != nil {
			return &ParseError{Line: lineNum, Keyword: objFace, Token: param, Err: err}
		}

		count++
		p.emit(count, cur, &first, &prev)
	}

	if count < 3 {
		return &ParseError{
			Line:    lineNum,
			Keyword: objFace,
			Err:     fmt.Errorf("%w: got %d", ErrDegenerateFace, count),
		}
	}
	if p.mode == mesh.LineSegments {
		p.out.Indices = append(p.out.Indices, prev, first)
	}
	p.out.FaceMaterials = append(p.out.FaceMaterials, p.material)
	return nil
}

// emit appends the count-th reference of the current face to the index
// buffer according to the primitive mode.
func (p *objParser) emit(count int, cur uint32, first, prev *uint32) {
	out := p.out
	switch p.mode {
	case mesh.LineSegments:
		if count == 1 {
			*first = cur
		} else {
			out.Indices = append(out.Indices, *prev, cur)
		}
	default:
		if count <= 3 {
			out.Indices = append(out.Indices, cur)
		} else {
			// Continue the triangle fan
			n := len(out.Indices)
			out.Indices = append(out.Indices, out.Indices[n-3], out.Indices[n-1], cur)
		}
	}
	*prev = cur
}

// vertexIndex returns the output vertex for idx, appending a new
// interleaved record the first time a triple is seen.
func (p *objParser) vertexIndex(idx indexTriple) (uint32, error) {
	if v, ok := p.seen[idx]; ok {
		return v, nil
	}

	// OBJ indices start at 1
	pi, ti, ni := idx[0]-1, idx[1]-1, idx[2]-1
	if (pi+1)*mesh.PositionSize > len(p.positions) {
		return 0, fmt.Errorf("%w: position %d of %d", ErrIndexOutOfRange, idx[0], len(p.positions)/mesh.PositionSize)
	}
	if idx[1] != 0 && (ti+1)*mesh.TexCoordSize > len(p.texcoords) {
		return 0, fmt.Errorf("%w: texcoord %d of %d", ErrIndexOutOfRange, idx[1], len(p.texcoords)/mesh.TexCoordSize)
	}
	if idx[2] != 0 && (ni+1)*mesh.NormalSize > len(p.normals) {
		return 0, fmt.Errorf("%w: normal %d of %d", ErrIndexOutOfRange, idx[2], len(p.normals)/mesh.NormalSize)
	}

	out := p.out
	out.Vertices = append(out.Vertices, p.positions[3*pi:3*pi+3]...)
	if idx[1] != 0 {
		// Flip V to match OpenGL texture coordinates
		out.Vertices = append(out.Vertices, p.texcoords[2*ti], 1-p.texcoords[2*ti+1])
	}
	if idx[2] != 0 {
		out.Vertices = append(out.Vertices, p.normals[3*ni:3*ni+3]...)
	}

	v := uint32(len(p.seen))
	p.seen[idx] = v
	return v, nil
}

func (p *objParser) useMaterial(name string) {
	for i, m := range p.out.Materials {
		if m == name {
			p.material = i
			return
		}
	}
	p.out.Materials = append(p.out.Materials, name)
	p.material = len(p.out.Materials) - 1
}
