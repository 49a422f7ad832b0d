// Package batch parses many OBJ files concurrently and optionally writes
// a wireframe thumbnail for each.
package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/preview"
	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/mesh"
)

// Config holds shared settings for a batch run.
type Config struct {
	Mode       mesh.PrimitiveMode
	Workers    int
	Thumbnails bool
	OutputDir  string
	Format     preview.Format
	Preview    preview.Options
	Progress   time.Duration // Progress log interval, 0 disables
}

// Result holds the outcome of processing one file.
type Result struct {
	Path      string
	Layout    mesh.AttributeLayout
	Vertices  int
	Indices   int
	Faces     int
	Materials int
	Thumbnail string
	Duration  time.Duration
	Success   bool
	Error     string
}

// Discover returns every .obj file under root, sorted.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".obj") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool. Results are returned in
// the order of files. Each worker owns the meshes it parses.
func Run(cfg Config, files []string, log *zap.Logger) []Result {
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					log.Info("batch progress",
						zap.Int64("processed", p),
						zap.Int("total", total),
						zap.Duration("elapsed", time.Since(start)))
				}
			}
		}()
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processFile(cfg, files[idx], log)
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(done)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	log.Info("batch complete",
		zap.Int("total", total),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))

	return results
}

func processFile(cfg Config, path string, log *zap.Logger) Result {
	start := time.Now()
	res := Result{Path: path}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		log.Warn("obj failed", zap.String("file", path), zap.Error(err))
		return res
	}

	f, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	m, err := formats.ParseOBJReader(f, cfg.Mode)
	f.Close()
	if err != nil {
		return fail(err)
	}

	res.Layout = m.Layout
	res.Vertices = m.VertexCount()
	res.Indices = len(m.Indices)
	res.Faces = len(m.FaceMaterials)
	res.Materials = len(m.Materials)

	if cfg.Thumbnails {
		img, err := preview.Render(m, cfg.Preview)
		if err != nil {
			return fail(err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "." + string(cfg.Format)
		out := filepath.Join(cfg.OutputDir, name)
		if err := preview.WriteFile(out, img, cfg.Format); err != nil {
			return fail(err)
		}
		res.Thumbnail = out
	}

	res.Success = true
	res.Duration = time.Since(start)
	log.Debug("obj parsed",
		zap.String("file", path),
		zap.Stringer("layout", m.Layout),
		zap.Int("vertices", res.Vertices),
		zap.Int("indices", res.Indices),
		zap.Duration("took", res.Duration))
	return res
}
