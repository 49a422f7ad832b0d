package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Path mesh errors.
var (
	ErrNotPathMesh         = errors.New("mesh is not a triangle-outline line mesh")
	ErrOverConstrainedEdge = errors.New("edge shared by more than two faces")
)

// NoFace marks an unused adjacency slot.
const NoFace = -1

// EdgeFaces records the faces bordering one edge of a path mesh.
type EdgeFaces struct {
	A, B  uint32 // Vertex indices of the first segment seen for this edge
	Faces [2]int // Adjacent faces, NoFace when unset
}

// Boundary reports whether only one face borders the edge.
func (e EdgeFaces) Boundary() bool {
	return e.Faces[1] == NoFace
}

// PathMesh is a line-segment mesh derived from triangular faces together
// with its edge-to-face adjacency.
type PathMesh struct {
	Data  *MeshData
	Edges []EdgeFaces
}

type edgeKey [2]mgl32.Vec3

func lessVec3(a, b mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func makeEdgeKey(a, b mgl32.Vec3) edgeKey {
	if lessVec3(b, a) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// NewPathMesh builds edge adjacency for data, which must be a LineSegments
// mesh produced from triangular faces (six index slots per face, two per
// edge). Edges are identified by their endpoint positions, so segments of
// neighbouring faces match even when their vertices were split by
// differing texcoords or normals. The input ordering is trusted.
func NewPathMesh(data *MeshData) (*PathMesh, error) {
	per := LineSegments.VerticesPerFace()
	if data.Primitive != LineSegments || len(data.Indices)%per != 0 {
		return nil, fmt.Errorf("%w: primitive=%s indices=%d", ErrNotPathMesh, data.Primitive, len(data.Indices))
	}

	p := &PathMesh{Data: data}
	lookup := make(map[edgeKey]int)

	for f := 0; f < len(data.Indices)/per; f++ {
		for e := 0; e < 3; e++ {
			slot := f*per + 2*e
			va, err := data.VertexAt(slot)
			if err != nil {
				return nil, err
			}
			vb, err := data.VertexAt(slot + 1)
			if err != nil {
				return nil, err
			}
			key := makeEdgeKey(va.Position, vb.Position)

			idx, ok := lookup[key]
			if !ok {
				idx = len(p.Edges)
				lookup[key] = idx
				p.Edges = append(p.Edges, EdgeFaces{
					A:     data.Indices[slot],
					B:     data.Indices[slot+1],
					Faces: [2]int{NoFace, NoFace},
				})
			}

			edge := &p.Edges[idx]
			switch {
			case edge.Faces[0] == NoFace:
				edge.Faces[0] = f
			case edge.Faces[1] == NoFace:
				edge.Faces[1] = f
			default:
				return nil, fmt.Errorf("%w: edge %d already borders faces %d and %d, face %d",
					ErrOverConstrainedEdge, idx, edge.Faces[0], edge.Faces[1], f)
			}
		}
	}
	return p, nil
}

// Neighbor returns the face across edge from face f, or NoFace.
func (p *PathMesh) Neighbor(edge, f int) int {
	e := p.Edges[edge]
	switch f {
	case e.Faces[0]:
		return e.Faces[1]
	case e.Faces[1]:
		return e.Faces[0]
	}
	return NoFace
}

// Translate adds offset to every vertex position of the path mesh in
// place. The caller must hold exclusive access to p.Data while it runs.
func (p *PathMesh) Translate(offset mgl32.Vec3) {
	stride := p.Data.Layout.Stride()
	if stride == 0 {
		return
	}
	v := p.Data.Vertices
	for base := 0; base+stride <= len(v); base += stride {
		v[base] += offset[0]
		v[base+1] += offset[1]
		v[base+2] += offset[2]
	}
}
