package mesh

import "fmt"

// quadVertices is a unit quad centered on the origin in the XY plane.
// Texture V runs top-down, matching the parser's flipped convention.
var quadVertices = [...]float32{
	-0.5, -0.5, 0, 0, 1,
	0.5, -0.5, 0, 1, 1,
	0.5, 0.5, 0, 1, 0,
	-0.5, 0.5, 0, 0, 0,
}

var quadIndices = [...]uint32{0, 1, 2, 2, 3, 0}

// Quad returns a new unit quad mesh with positions and texcoords.
func Quad() *MeshData {
	return &MeshData{
		Vertices:  append([]float32(nil), quadVertices[:]...),
		Indices:   append([]uint32(nil), quadIndices[:]...),
		Layout:    LayoutPosition | LayoutTexCoord,
		Primitive: Triangles,
	}
}

// BuildNormalsVisualization returns a line mesh with one segment per face
// of m, from the face centroid to centroid plus the face's averaged normal.
func BuildNormalsVisualization(m *MeshData) (*MeshData, error) {
	if !m.Layout.Has(LayoutNormal) {
		return nil, ErrNoNormals
	}
	faces := m.FaceCount()
	out := &MeshData{
		Vertices:  make([]float32, 0, faces*2*PositionSize),
		Indices:   make([]uint32, 0, faces*2),
		Layout:    LayoutPosition,
		Primitive: LineSegments,
	}
	for f := 0; f < faces; f++ {
		c, err := m.FaceCentroid(f)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", f, err)
		}
		n, err := m.FaceAverageNormal(f)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", f, err)
		}
		tip := c.Add(n)
		out.Vertices = append(out.Vertices, c[0], c[1], c[2], tip[0], tip[1], tip[2])
		base := uint32(2 * f)
		out.Indices = append(out.Indices, base, base+1)
	}
	return out, nil
}
