// Package mesh provides the flattened, interleaved mesh representation
// produced by the OBJ parser along with read-only geometry queries over it.
package mesh

import (
	"fmt"
	"io"
	"strings"
)

// AttributeLayout is a bitset of the per-vertex attributes a mesh carries.
type AttributeLayout uint8

const (
	LayoutNone     AttributeLayout = 0
	LayoutPosition AttributeLayout = 1 << 0
	LayoutTexCoord AttributeLayout = 1 << 1
	LayoutNormal   AttributeLayout = 1 << 2
)

// Component counts of each attribute.
const (
	PositionSize = 3
	TexCoordSize = 2
	NormalSize   = 3
)

// Has reports whether every bit in attr is set.
func (l AttributeLayout) Has(attr AttributeLayout) bool {
	return l&attr == attr
}

// Stride returns the number of floats per interleaved vertex record:
// 3, 5, 6 or 8. LayoutNone has stride 0.
func (l AttributeLayout) Stride() int {
	if l == LayoutNone {
		return 0
	}
	if !l.Has(LayoutPosition) {
		panic(fmt.Sprintf("mesh: layout %s without position", l))
	}
	size := PositionSize
	if l.Has(LayoutTexCoord) {
		size += TexCoordSize
	}
	if l.Has(LayoutNormal) {
		size += NormalSize
	}
	return size
}

// TexCoordOffset returns the float offset of the texcoord inside a record.
func (l AttributeLayout) TexCoordOffset() int {
	return PositionSize
}

// NormalOffset returns the float offset of the normal inside a record.
func (l AttributeLayout) NormalOffset() int {
	if l.Has(LayoutTexCoord) {
		return PositionSize + TexCoordSize
	}
	return PositionSize
}

// String returns e.g. "Position|TexCoord|Normal".
func (l AttributeLayout) String() string {
	if l == LayoutNone {
		return "None"
	}
	var parts []string
	if l.Has(LayoutPosition) {
		parts = append(parts, "Position")
	}
	if l.Has(LayoutTexCoord) {
		parts = append(parts, "TexCoord")
	}
	if l.Has(LayoutNormal) {
		parts = append(parts, "Normal")
	}
	if rest := l &^ (LayoutPosition | LayoutTexCoord | LayoutNormal); rest != 0 {
		parts = append(parts, fmt.Sprintf("Unknown(%d)", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// PrimitiveMode selects how face index lists are flattened.
type PrimitiveMode int

const (
	Triangles    PrimitiveMode = iota // Triangle-fan decomposition of each face
	LineSegments                      // Closed outline of each face
)

// String returns a human-readable primitive mode name.
func (p PrimitiveMode) String() string {
	switch p {
	case Triangles:
		return "Triangles"
	case LineSegments:
		return "LineSegments"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParsePrimitiveMode converts a config/flag value to a PrimitiveMode.
func ParsePrimitiveMode(s string) (PrimitiveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "triangles", "tris", "":
		return Triangles, nil
	case "lines", "line_segments", "linesegments":
		return LineSegments, nil
	default:
		return Triangles, fmt.Errorf("mesh: unknown primitive mode %q", s)
	}
}

// VerticesPerFace returns how many index slots one source face occupies:
// 3 for triangles, 6 for line segments built from a triangle outline.
func (p PrimitiveMode) VerticesPerFace() int {
	if p == LineSegments {
		return 6
	}
	return 3
}

// IndicesPerPrimitive returns 3 for triangles and 2 for segments.
func (p PrimitiveMode) IndicesPerPrimitive() int {
	if p == LineSegments {
		return 2
	}
	return 3
}

// MeshData is an interleaved vertex buffer plus a flattened index buffer.
type MeshData struct {
	Vertices  []float32       // Interleaved records, Layout.Stride() floats each
	Indices   []uint32        // Flattened per Primitive
	Layout    AttributeLayout // Attributes present in every record
	Primitive PrimitiveMode   // Draw topology

	Materials     []string // Distinct material names in first-use order
	FaceMaterials []int    // Per source face: index into Materials, -1 if none
}

// VertexCount returns the number of interleaved vertex records.
func (m *MeshData) VertexCount() int {
	stride := m.Layout.Stride()
	if stride == 0 {
		return 0
	}
	return len(m.Vertices) / stride
}

// FaceCount returns the number of faces addressable by the face queries.
func (m *MeshData) FaceCount() int {
	return len(m.Indices) / m.Primitive.VerticesPerFace()
}

// Clone returns a deep copy.
func (m *MeshData) Clone() *MeshData {
	c := &MeshData{
		Vertices:  append([]float32(nil), m.Vertices...),
		Indices:   append([]uint32(nil), m.Indices...),
		Layout:    m.Layout,
		Primitive: m.Primitive,
	}
	if m.Materials != nil {
		c.Materials = append([]string(nil), m.Materials...)
	}
	if m.FaceMaterials != nil {
		c.FaceMaterials = append([]int(nil), m.FaceMaterials...)
	}
	return c
}

// Dump writes the vertex records separated by " | " followed by the index
// list. Intended for debugging small meshes.
func (m *MeshData) Dump(w io.Writer) error {
	stride := m.Layout.Stride()
	var sb strings.Builder
	fmt.Fprintf(&sb, "layout=%s primitive=%s vertices=%d indices=%d\n",
		m.Layout, m.Primitive, m.VertexCount(), len(m.Indices))
	cur := 0
	for _, v := range m.Vertices {
		fmt.Fprintf(&sb, "%g ", v)
		cur++
		if cur == stride {
			sb.WriteString(" | ")
			cur = 0
		}
	}
	sb.WriteByte('\n')
	for _, i := range m.Indices {
		fmt.Fprintf(&sb, "%d ", i)
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
