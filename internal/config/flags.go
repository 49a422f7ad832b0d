package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagMode    = flag.String("mode", "", "Primitive mode: triangles or lines")
	flagWorkers = flag.Int("workers", 0, "Batch worker count")
	flagSize    = flag.Int("size", 0, "Thumbnail size in pixels")
	flagFormat  = flag.String("format", "", "Thumbnail format: webp, png, tga, bmp")
	flagOut     = flag.String("out", "", "Thumbnail output directory")
	flagThumbs  = flag.Bool("thumbs", false, "Write thumbnails during batch runs")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMode != "" {
		cfg.Parse.Mode = *flagMode
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagSize > 0 {
		cfg.Preview.Size = *flagSize
	}
	if *flagFormat != "" {
		cfg.Preview.Format = *flagFormat
	}
	if *flagOut != "" {
		cfg.Preview.OutputDir = *flagOut
	}
	if *flagThumbs {
		cfg.Batch.Thumbnails = true
	}
}
