// objtool is a CLI utility for inspecting Wavefront OBJ meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/batch"
	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/logger"
	"github.com/Faultbox/objmesh/internal/preview"
	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/mesh"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, rest)
	case "dump":
		err = cmdDump(cfg, rest)
	case "normals":
		err = cmdNormals(cfg, rest)
	case "path":
		err = cmdPath(rest)
	case "thumb":
		err = cmdThumb(cfg, rest)
	case "batch":
		err = cmdBatch(cfg, rest)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ mesh utility

Usage:
  objtool [flags] <command> [options]

Commands:
  info <file.obj>                 Show layout, counts and materials
  dump <file.obj>                 Print interleaved vertices and indices
  normals <file.obj>              Show per-face normal segments
  path [-offset x,y,z] <file.obj> Show edge adjacency of the outline mesh
  thumb <file.obj> <out.webp>     Render a wireframe thumbnail
  batch <dir>                     Parse every .obj under dir

Flags:
  -config <path>   Config file (default ./objtool.yaml)
  -mode <mode>     triangles or lines
  -debug           Debug logging
  -workers <n>     Batch workers
  -thumbs          Write thumbnails during batch
  -size <px>       Thumbnail size
  -format <fmt>    Thumbnail format: webp, png, tga, bmp
  -out <dir>       Thumbnail output directory

Examples:
  objtool info res/models/skull.obj
  objtool -mode lines dump cube.obj
  objtool path -offset 0,1,0 cube.obj
  objtool -thumbs -format png batch res/models`)
}

// loadMesh reads and parses one OBJ file.
func loadMesh(path string, mode mesh.PrimitiveMode) (*mesh.MeshData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	m, err := formats.ParseOBJ(string(data), mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("parsed obj",
		zap.String("file", path),
		zap.Stringer("mode", mode),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)))
	return m, nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: objtool info <file.obj>")
	}
	mode, err := cfg.PrimitiveMode()
	if err != nil {
		return err
	}
	m, err := loadMesh(args[0], mode)
	if err != nil {
		return err
	}

	lo, hi := m.Bounds()
	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Layout:    %s (stride %d)\n", m.Layout, m.Layout.Stride())
	fmt.Printf("Primitive: %s\n", m.Primitive)
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Indices:   %d\n", len(m.Indices))
	fmt.Printf("Faces:     %d\n", len(m.FaceMaterials))
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])

	if len(m.Materials) > 0 {
		counts := make([]int, len(m.Materials))
		for _, mi := range m.FaceMaterials {
			if mi >= 0 {
				counts[mi]++
			}
		}
		fmt.Println()
		fmt.Println("Materials:")
		for i, name := range m.Materials {
			fmt.Printf("  %-20s %d faces\n", name, counts[i])
		}
	}
	return nil
}

func cmdDump(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: objtool dump <file.obj>")
	}
	mode, err := cfg.PrimitiveMode()
	if err != nil {
		return err
	}
	m, err := loadMesh(args[0], mode)
	if err != nil {
		return err
	}
	return m.Dump(os.Stdout)
}

func cmdNormals(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("normals", flag.ExitOnError)
	limit := fs.Int("n", 20, "Limit output to N faces (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: objtool normals [-n N] <file.obj>")
	}
	mode, err := cfg.PrimitiveMode()
	if err != nil {
		return err
	}
	m, err := loadMesh(fs.Arg(0), mode)
	if err != nil {
		return err
	}
	n, err := mesh.BuildNormalsVisualization(m)
	if err != nil {
		return err
	}

	faces := m.FaceCount()
	fmt.Printf("Faces: %d, normal segments: %d\n", faces, len(n.Indices)/2)
	for f := 0; f < faces; f++ {
		if *limit > 0 && f >= *limit {
			fmt.Printf("  ... %d more\n", faces-f)
			break
		}
		base, _ := n.VertexAt(2 * f)
		tip, _ := n.VertexAt(2*f + 1)
		fmt.Printf("  %5d  %v -> %v\n", f, base.Position, tip.Position)
	}
	return nil
}

func cmdPath(args []string) error {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	offset := fs.String("offset", "", "Translate the path mesh by x,y,z")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: objtool path [-offset x,y,z] <file.obj>")
	}
	m, err := loadMesh(fs.Arg(0), mesh.LineSegments)
	if err != nil {
		return err
	}
	p, err := mesh.NewPathMesh(m)
	if err != nil {
		return err
	}

	boundary := 0
	for _, e := range p.Edges {
		if e.Boundary() {
			boundary++
		}
	}
	fmt.Printf("Faces:    %d\n", m.FaceCount())
	fmt.Printf("Edges:    %d\n", len(p.Edges))
	fmt.Printf("Boundary: %d\n", boundary)
	fmt.Printf("Shared:   %d\n", len(p.Edges)-boundary)

	if *offset != "" {
		v, err := parseVec3(*offset)
		if err != nil {
			return err
		}
		p.Translate(v)
		lo, hi := m.Bounds()
		fmt.Printf("Translated bounds: (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
			lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	}
	return nil
}

func parseVec3(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v mgl32.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("invalid component %q: %w", p, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func previewOptions(cfg *config.Config) (preview.Options, error) {
	opts := preview.DefaultOptions()
	opts.Size = cfg.Preview.Size
	opts.Supersample = cfg.Preview.Supersample
	opts.LineWidth = cfg.Preview.LineWidth

	var err error
	if cfg.Preview.Foreground != "" {
		if opts.Foreground, err = preview.ParseHexColor(cfg.Preview.Foreground); err != nil {
			return opts, err
		}
	}
	if cfg.Preview.Background != "" {
		if opts.Background, err = preview.ParseHexColor(cfg.Preview.Background); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func cmdThumb(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: objtool thumb <file.obj> <out.webp>")
	}
	format, err := preview.FormatForPath(args[1])
	if err != nil {
		return err
	}
	opts, err := previewOptions(cfg)
	if err != nil {
		return err
	}
	mode, err := cfg.PrimitiveMode()
	if err != nil {
		return err
	}
	m, err := loadMesh(args[0], mode)
	if err != nil {
		return err
	}

	img, err := preview.Render(m, opts)
	if err != nil {
		return err
	}
	if err := preview.WriteFile(args[1], img, format); err != nil {
		return err
	}
	logger.Info("thumbnail written", zap.String("file", args[1]), zap.Int("size", opts.Size))
	return nil
}

func cmdBatch(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: objtool batch <dir>")
	}
	files, err := batch.Discover(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .obj files under %s", args[0])
	}

	mode, err := cfg.PrimitiveMode()
	if err != nil {
		return err
	}
	format, err := preview.ParseFormat(cfg.Preview.Format)
	if err != nil {
		return err
	}
	opts, err := previewOptions(cfg)
	if err != nil {
		return err
	}

	logger.Info("batch starting",
		zap.Int("files", len(files)),
		zap.Int("workers", cfg.Batch.Workers),
		zap.Bool("thumbnails", cfg.Batch.Thumbnails))

	results := batch.Run(batch.Config{
		Mode:       mode,
		Workers:    cfg.Batch.Workers,
		Thumbnails: cfg.Batch.Thumbnails,
		OutputDir:  cfg.Preview.OutputDir,
		Format:     format,
		Preview:    opts,
		Progress:   2 * time.Second,
	}, files, logger.Named("batch"))

	failed := 0
	for _, r := range results {
		if r.Success {
			fmt.Printf("  ok    %-40s %6d verts %7d idx  %s\n", r.Path, r.Vertices, r.Indices, r.Layout)
		} else {
			failed++
			fmt.Printf("  FAIL  %-40s %s\n", r.Path, r.Error)
		}
	}
	fmt.Printf("\n%d files, %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
