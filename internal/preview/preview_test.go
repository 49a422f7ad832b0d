package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/objmesh/pkg/mesh"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Size = 64
	opts.Supersample = 1
	opts.LineWidth = 2
	opts.Foreground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	opts.Background = color.RGBA{0, 0, 0, 0xff}
	return opts
}

func TestRender_Quad(t *testing.T) {
	img, err := Render(mesh.Quad(), testOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("expected 64x64, got %v", img.Bounds())
	}

	// Left edge of the quad lands at x = 3.2
	if edge := img.RGBAAt(3, 32); edge.R < 0xc0 {
		t.Errorf("expected stroke on left edge, got %v", edge)
	}
	// Inside the upper-left triangle, away from every edge
	if inside := img.RGBAAt(16, 16); inside != (color.RGBA{0, 0, 0, 0xff}) {
		t.Errorf("expected background inside face, got %v", inside)
	}
	// Outside the margin
	if corner := img.RGBAAt(0, 0); corner != (color.RGBA{0, 0, 0, 0xff}) {
		t.Errorf("expected background in margin, got %v", corner)
	}
}

func TestRender_Supersample(t *testing.T) {
	opts := testOptions()
	opts.Supersample = 3

	img, err := Render(mesh.Quad(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("expected downsampled 64x64, got %v", img.Bounds())
	}
}

func TestRender_LineMesh(t *testing.T) {
	m := &mesh.MeshData{
		Vertices:  []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 1, 2, 2, 0},
		Layout:    mesh.LayoutPosition,
		Primitive: mesh.LineSegments,
	}
	if got := len(uniqueEdges(m)); got != 3 {
		t.Errorf("expected 3 edges, got %d", got)
	}
	if _, err := Render(m, testOptions()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(&mesh.MeshData{}, testOptions()); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}

	opts := testOptions()
	opts.Size = 0
	if _, err := Render(mesh.Quad(), opts); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestUniqueEdges_SharedDiagonal(t *testing.T) {
	// Two triangles sharing one edge have five distinct edges
	if got := len(uniqueEdges(mesh.Quad())); got != 5 {
		t.Errorf("expected 5 edges, got %d", got)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff8000", color.RGBA{0xff, 0x80, 0x00, 0xff}, false},
		{"00ff00", color.RGBA{0x00, 0xff, 0x00, 0xff}, false},
		{"#ffffff00", color.RGBA{0, 0, 0, 0}, false},
		{"#fff", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error=%v, wantErr=%v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/cube.webp", FormatWebP, false},
		{"cube.PNG", FormatPNG, false},
		{"cube.tga", FormatTGA, false},
		{"cube.bmp", FormatBMP, false},
		{"cube.jpg", "", true},
		{"cube", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error=%v, wantErr=%v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	img, err := Render(mesh.Quad(), testOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG: func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatTGA: func(r *bytes.Reader) (image.Image, error) { return tga.Decode(r) },
		FormatBMP: func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			out, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 64 {
				t.Errorf("expected 64x64, got %v", out.Bounds())
			}
		})
	}

	t.Run("webp", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, img, FormatWebP); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		b := buf.Bytes()
		if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
			t.Errorf("expected RIFF/WEBP header, got % x", b[:min(12, len(b))])
		}
	})

	if err := Encode(&bytes.Buffer{}, img, Format("gif")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteFile(t *testing.T) {
	img, err := Render(mesh.Quad(), testOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "quad.png")
	if err := WriteFile(path, img, FormatPNG); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
