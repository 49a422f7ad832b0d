// Package config handles objtool configuration loading and management.
package config

import "github.com/Faultbox/objmesh/pkg/mesh"

// Config holds all objtool settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Preview PreviewConfig `yaml:"preview"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds OBJ parsing settings.
type ParseConfig struct {
	Mode string `yaml:"mode"` // "triangles" or "lines"
}

// PreviewConfig holds wireframe thumbnail settings.
type PreviewConfig struct {
	Size        int     `yaml:"size"`        // Output edge length in pixels
	Supersample int     `yaml:"supersample"` // Render scale before downsampling
	Format      string  `yaml:"format"`      // webp, png, tga or bmp
	LineWidth   float32 `yaml:"line_width"`  // Stroke width in output pixels
	Foreground  string  `yaml:"foreground"`  // Hex RGB(A) line color
	Background  string  `yaml:"background"`  // Hex RGB(A) fill color
	OutputDir   string  `yaml:"output_dir"`  // Batch thumbnail directory
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	Workers    int  `yaml:"workers"`
	Thumbnails bool `yaml:"thumbnails"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			Mode: "triangles",
		},
		Preview: PreviewConfig{
			Size:        256,
			Supersample: 2,
			Format:      "webp",
			LineWidth:   1,
			Foreground:  "#e0e0e0",
			Background:  "#202020",
			OutputDir:   "previews",
		},
		Batch: BatchConfig{
			Workers:    4,
			Thumbnails: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// PrimitiveMode returns the configured parse mode.
func (c *Config) PrimitiveMode() (mesh.PrimitiveMode, error) {
	return mesh.ParsePrimitiveMode(c.Parse.Mode)
}
