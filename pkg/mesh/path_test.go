package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// squareOutline is a unit square split into two triangles sharing the
// 1-2 diagonal, flattened as line loops.
func squareOutline() *MeshData {
	return &MeshData{
		Vertices: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			1, 1, 0,
		},
		Indices: []uint32{
			0, 1, 1, 2, 2, 0,
			1, 3, 3, 2, 2, 1,
		},
		Layout:    LayoutPosition,
		Primitive: LineSegments,
	}
}

func TestNewPathMesh(t *testing.T) {
	p, err := NewPathMesh(squareOutline())
	if err != nil {
		t.Fatalf("NewPathMesh failed: %v", err)
	}

	if len(p.Edges) != 5 {
		t.Fatalf("expected 5 distinct edges, got %d", len(p.Edges))
	}

	shared := 0
	for i, e := range p.Edges {
		if e.Faces[0] == NoFace {
			t.Errorf("edge %d has no faces", i)
		}
		if !e.Boundary() {
			shared++
			if e.Faces != [2]int{0, 1} {
				t.Errorf("expected shared edge faces [0 1], got %v", e.Faces)
			}
		}
	}
	if shared != 1 {
		t.Errorf("expected 1 shared edge, got %d", shared)
	}

	// Edge 1 is the 1-2 diagonal, first seen on face 0
	if p.Neighbor(1, 0) != 1 || p.Neighbor(1, 1) != 0 {
		t.Errorf("expected faces 0 and 1 to neighbour across edge 1")
	}
	if p.Neighbor(0, 0) != NoFace {
		t.Errorf("expected boundary edge to have no neighbour")
	}
}

func TestNewPathMesh_SplitVertices(t *testing.T) {
	// Shared edge endpoints duplicated with distinct normals still match
	m := &MeshData{
		Vertices: []float32{
			0, 0, 0, 0, 0, 1,
			1, 0, 0, 0, 0, 1,
			0, 1, 0, 0, 0, 1,
			1, 0, 0, 1, 0, 0,
			1, 1, 0, 1, 0, 0,
			0, 1, 0, 1, 0, 0,
		},
		Indices: []uint32{
			0, 1, 1, 2, 2, 0,
			3, 4, 4, 5, 5, 3,
		},
		Layout:    LayoutPosition | LayoutNormal,
		Primitive: LineSegments,
	}

	p, err := NewPathMesh(m)
	if err != nil {
		t.Fatalf("NewPathMesh failed: %v", err)
	}
	if len(p.Edges) != 5 {
		t.Errorf("expected 5 distinct edges, got %d", len(p.Edges))
	}
}

func TestNewPathMesh_OverConstrained(t *testing.T) {
	m := squareOutline()
	// Third triangle reusing the 1-2 diagonal
	m.Vertices = append(m.Vertices, -1, -1, 0)
	m.Indices = append(m.Indices, 2, 4, 4, 1, 1, 2)

	_, err := NewPathMesh(m)
	if !errors.Is(err, ErrOverConstrainedEdge) {
		t.Errorf("expected ErrOverConstrainedEdge, got %v", err)
	}
}

func TestNewPathMesh_Rejects(t *testing.T) {
	tests := []struct {
		name string
		mesh *MeshData
	}{
		{"triangles", fullTriangle()},
		{"partial face", &MeshData{
			Vertices:  []float32{0, 0, 0, 1, 0, 0},
			Indices:   []uint32{0, 1},
			Layout:    LayoutPosition,
			Primitive: LineSegments,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPathMesh(tt.mesh); !errors.Is(err, ErrNotPathMesh) {
				t.Errorf("expected ErrNotPathMesh, got %v", err)
			}
		})
	}
}

func TestPathMesh_Translate(t *testing.T) {
	m := triangleOutline()
	p, err := NewPathMesh(m)
	if err != nil {
		t.Fatalf("NewPathMesh failed: %v", err)
	}

	p.Translate(mgl32.Vec3{1, -2, 0.5})

	v, _ := m.Record(1)
	if v.Position != (mgl32.Vec3{4, -2, 0.5}) {
		t.Errorf("expected translated position (4,-2,0.5), got %v", v.Position)
	}
	if v.TexCoord != (mgl32.Vec2{1, 1}) {
		t.Errorf("expected texcoord untouched, got %v", v.TexCoord)
	}
	if v.Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("expected normal untouched, got %v", v.Normal)
	}
}
