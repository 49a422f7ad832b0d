package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuad(t *testing.T) {
	q := Quad()

	if q.Layout != LayoutPosition|LayoutTexCoord {
		t.Errorf("expected Position|TexCoord, got %s", q.Layout)
	}
	if q.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", q.VertexCount())
	}
	if q.FaceCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", q.FaceCount())
	}

	// Each call returns independent storage
	q.Vertices[0] = 100
	if Quad().Vertices[0] == 100 {
		t.Error("Quad shares storage between calls")
	}
}

func TestBuildNormalsVisualization(t *testing.T) {
	src := triangleOutline()
	n, err := BuildNormalsVisualization(src)
	if err != nil {
		t.Fatalf("BuildNormalsVisualization failed: %v", err)
	}

	if n.Layout != LayoutPosition {
		t.Errorf("expected Position layout, got %s", n.Layout)
	}
	if n.Primitive != LineSegments {
		t.Errorf("expected LineSegments, got %s", n.Primitive)
	}
	if len(n.Indices) != 2 {
		t.Fatalf("expected 2 indices, got %d", len(n.Indices))
	}

	base, _ := n.VertexAt(0)
	tip, _ := n.VertexAt(1)
	if !base.Position.ApproxEqual(mgl32.Vec3{1, 1, 0}) {
		t.Errorf("expected base at centroid (1,1,0), got %v", base.Position)
	}
	if !tip.Position.ApproxEqual(mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected tip at (1,1,1), got %v", tip.Position)
	}
}

func TestBuildNormalsVisualization_Triangles(t *testing.T) {
	m := fullTriangle()
	m.Vertices = append(m.Vertices, 3, 3, 0, 1, 0, 0, 0, 1)
	m.Indices = append(m.Indices, 1, 3, 2)

	n, err := BuildNormalsVisualization(m)
	if err != nil {
		t.Fatalf("BuildNormalsVisualization failed: %v", err)
	}
	if len(n.Indices) != 4 {
		t.Errorf("expected one segment per face, got %d indices", len(n.Indices))
	}
	if n.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", n.VertexCount())
	}
}

func TestBuildNormalsVisualization_NoNormals(t *testing.T) {
	if _, err := BuildNormalsVisualization(Quad()); !errors.Is(err, ErrNoNormals) {
		t.Errorf("expected ErrNoNormals, got %v", err)
	}
}
