package config

import "flag"

// Flags holds the command-line overrides. Zero values leave the loaded
// configuration untouched.
type Flags struct {
	Config  string
	Debug   bool
	Scene   string
	FPS     float64
	LogFile string
}

// Register adds the configuration flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Scene, "scene", "", "Scene description (YAML)")
	fs.Float64Var(&f.FPS, "fps", 0, "Sampling rate override (frames per second)")
	fs.StringVar(&f.LogFile, "log", "", "Log file path")
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Scene != "" {
		cfg.Scene.Path = f.Scene
	}
	if f.FPS > 0 {
		cfg.Export.FPS = f.FPS
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
