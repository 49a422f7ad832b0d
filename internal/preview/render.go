// Package preview renders offline wireframe thumbnails of parsed meshes.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/objmesh/pkg/mesh"
)

// ErrEmptyMesh is returned when a mesh has no edges to draw.
var ErrEmptyMesh = errors.New("mesh has no edges")

// marginRatio is the blank border around the mesh, as a share of the size.
const marginRatio = 0.05

// Options controls thumbnail rendering.
type Options struct {
	Size        int        // Output edge length in pixels
	Supersample int        // Render at Size*Supersample then downsample
	LineWidth   float32    // Stroke width in output pixels
	Foreground  color.RGBA // Line color
	Background  color.RGBA // Fill color
}

// DefaultOptions returns 256px light-on-dark thumbnails.
func DefaultOptions() Options {
	return Options{
		Size:        256,
		Supersample: 2,
		LineWidth:   1,
		Foreground:  color.RGBA{0xe0, 0xe0, 0xe0, 0xff},
		Background:  color.RGBA{0x20, 0x20, 0x20, 0xff},
	}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}

// Render draws the edges of m projected orthographically onto the XY
// plane, fitted to the image with a small margin.
func Render(m *mesh.MeshData, opts Options) (*image.RGBA, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid preview size %d", opts.Size)
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}

	edges := uniqueEdges(m)
	if len(edges) == 0 {
		return nil, ErrEmptyMesh
	}

	size := opts.Size * ss
	lo, hi := m.Bounds()
	span := hi[0] - lo[0]
	if dy := hi[1] - lo[1]; dy > span {
		span = dy
	}
	if span == 0 {
		span = 1
	}
	margin := float32(size) * marginRatio
	scale := (float32(size) - 2*margin) / span
	offX := margin + (float32(size)-2*margin-(hi[0]-lo[0])*scale)/2
	offY := margin + (float32(size)-2*margin-(hi[1]-lo[1])*scale)/2

	project := func(idx uint32) (float32, float32, error) {
		v, err := m.Record(int(idx))
		if err != nil {
			return 0, 0, err
		}
		x := offX + (v.Position[0]-lo[0])*scale
		y := float32(size) - (offY + (v.Position[1]-lo[1])*scale)
		return x, y, nil
	}

	r := vector.NewRasterizer(size, size)
	half := opts.LineWidth * float32(ss) / 2
	for _, e := range edges {
		x0, y0, err := project(e[0])
		if err != nil {
			return nil, err
		}
		x1, y1, err := project(e[1])
		if err != nil {
			return nil, err
		}
		strokeSegment(r, x0, y0, x1, y1, half)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	r.Draw(img, img.Bounds(), image.NewUniform(opts.Foreground), image.Point{})

	if ss == 1 {
		return img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

// strokeSegment adds a quad of half-width half around the segment. Every
// quad winds the same way so overlapping strokes never cancel coverage.
func strokeSegment(r *vector.Rasterizer, x0, y0, x1, y1, half float32) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*half, dx/l*half
	r.MoveTo(x0+nx, y0+ny)
	r.LineTo(x1+nx, y1+ny)
	r.LineTo(x1-nx, y1-ny)
	r.LineTo(x0-nx, y0-ny)
	r.ClosePath()
}

// uniqueEdges lists each undirected edge of m once, by vertex index.
func uniqueEdges(m *mesh.MeshData) [][2]uint32 {
	seen := make(map[[2]uint32]struct{})
	var edges [][2]uint32
	add := func(a, b uint32) {
		if a == b {
			return
		}
		if b < a {
			a, b = b, a
		}
		k := [2]uint32{a, b}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		edges = append(edges, k)
	}

	idx := m.Indices
	switch m.Primitive {
	case mesh.LineSegments:
		for i := 0; i+1 < len(idx); i += 2 {
			add(idx[i], idx[i+1])
		}
	default:
		for i := 0; i+2 < len(idx); i += 3 {
			add(idx[i], idx[i+1])
			add(idx[i+1], idx[i+2])
			add(idx[i+2], idx[i])
		}
	}
	return edges
}
