package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry query errors.
var (
	ErrVertexOutOfRange = errors.New("vertex ordinal out of range")
	ErrFaceOutOfRange   = errors.New("face ordinal out of range")
	ErrNoNormals        = errors.New("mesh layout has no normals")
	ErrNoPosition       = errors.New("mesh layout has no position")
)

// Vertex is a decoded view of one interleaved record.
type Vertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2 // Valid if Layout has LayoutTexCoord
	Normal   mgl32.Vec3 // Valid if Layout has LayoutNormal
	Layout   AttributeLayout
}

// Record decodes the interleaved record at vertex index idx.
func (m *MeshData) Record(idx int) (Vertex, error) {
	if !m.Layout.Has(LayoutPosition) {
		return Vertex{}, ErrNoPosition
	}
	stride := m.Layout.Stride()
	base := idx * stride
	if idx < 0 || base+stride > len(m.Vertices) {
		return Vertex{}, fmt.Errorf("%w: record %d of %d", ErrVertexOutOfRange, idx, m.VertexCount())
	}
	rec := m.Vertices[base : base+stride]

	v := Vertex{Layout: m.Layout}
	copy(v.Position[:], rec[:PositionSize])
	if m.Layout.Has(LayoutTexCoord) {
		off := m.Layout.TexCoordOffset()
		copy(v.TexCoord[:], rec[off:off+TexCoordSize])
	}
	if m.Layout.Has(LayoutNormal) {
		off := m.Layout.NormalOffset()
		copy(v.Normal[:], rec[off:off+NormalSize])
	}
	return v, nil
}

// VertexAt decodes the vertex referenced by index-buffer slot ordinal.
func (m *MeshData) VertexAt(ordinal int) (Vertex, error) {
	if ordinal < 0 || ordinal >= len(m.Indices) {
		return Vertex{}, fmt.Errorf("%w: slot %d of %d", ErrVertexOutOfRange, ordinal, len(m.Indices))
	}
	return m.Record(int(m.Indices[ordinal]))
}

// AppendVertex re-encodes v into dst using v.Layout and returns the
// extended slice. It is the inverse of Record.
func AppendVertex(dst []float32, v Vertex) []float32 {
	dst = append(dst, v.Position[:]...)
	if v.Layout.Has(LayoutTexCoord) {
		dst = append(dst, v.TexCoord[:]...)
	}
	if v.Layout.Has(LayoutNormal) {
		dst = append(dst, v.Normal[:]...)
	}
	return dst
}

// facePoints returns the index-buffer slots making up the logical points
// of face f. Line-segment faces store each point as a segment start, so
// every second slot is taken.
func (m *MeshData) facePoints(f int) ([]int, error) {
	per := m.Primitive.VerticesPerFace()
	if f < 0 || (f+1)*per > len(m.Indices) {
		return nil, fmt.Errorf("%w: face %d of %d", ErrFaceOutOfRange, f, m.FaceCount())
	}
	step := 1
	if m.Primitive == LineSegments {
		step = 2
	}
	slots := make([]int, 0, per/step)
	for s := f * per; s < (f+1)*per; s += step {
		slots = append(slots, s)
	}
	return slots, nil
}

// FaceCentroid returns the average position of face f's points.
func (m *MeshData) FaceCentroid(f int) (mgl32.Vec3, error) {
	slots, err := m.facePoints(f)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	var sum mgl32.Vec3
	for _, s := range slots {
		v, err := m.VertexAt(s)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		sum = sum.Add(v.Position)
	}
	return sum.Mul(1 / float32(len(slots))), nil
}

// FaceAverageNormal returns the average of face f's vertex normals.
// The result is not renormalized.
func (m *MeshData) FaceAverageNormal(f int) (mgl32.Vec3, error) {
	if !m.Layout.Has(LayoutNormal) {
		return mgl32.Vec3{}, ErrNoNormals
	}
	slots, err := m.facePoints(f)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	var sum mgl32.Vec3
	for _, s := range slots {
		v, err := m.VertexAt(s)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		sum = sum.Add(v.Normal)
	}
	return sum.Mul(1 / float32(len(slots))), nil
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
// An empty mesh returns zero vectors.
func (m *MeshData) Bounds() (lo, hi mgl32.Vec3) {
	n := m.VertexCount()
	for i := 0; i < n; i++ {
		v, err := m.Record(i)
		if err != nil {
			break
		}
		if i == 0 {
			lo, hi = v.Position, v.Position
			continue
		}
		for c := 0; c < 3; c++ {
			if v.Position[c] < lo[c] {
				lo[c] = v.Position[c]
			}
			if v.Position[c] > hi[c] {
				hi[c] = v.Position[c]
			}
		}
	}
	return lo, hi
}
