// rigexport exports animation channels, skeleton rigs and skin weights from
// a scene description into the runtime's .anim, .rig and glTF formats.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/rigexport/internal/config"
	"github.com/Faultbox/rigexport/internal/logger"
	"github.com/Faultbox/rigexport/internal/pipeline"
	"github.com/Faultbox/rigexport/pkg/rig"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "anim":
		err = cmdAnim(args)
	case "rig":
		err = cmdRig(args)
	case "skin":
		err = cmdSkin(args)
	case "gltf":
		err = cmdGLTF(args)
	case "inspect":
		err = cmdInspect(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Println(`rigexport - animation and rig exporter

Usage:
  rigexport <command> [options]

Commands:
  anim     -node <path> -o <file.anim>                Export a node's animation channels
  rig      -geo <path> -o <file.rig>                  Export the rig of a captured geometry
  skin     -geo <path> -o <file.geo.yaml>             Cook capture weights into skin slots
  gltf     -geo <path> [-node <path>...] -o <file>    Export rig and animations as glTF (.glb/.gltf)
  inspect  [-geo <path>] [-node <path>...]            Dump rig and animations
  config   [-o <file>]                                Write the effective configuration

Common options:
  -scene <file.yaml>   Scene description
  -config <file>       Config file (default ./rigexport.yaml or the user config dir)
  -fps <n>             Sampling rate override
  -debug               Debug logging
  -log <file>          Also log to a rotated file

Examples:
  rigexport anim -scene s.yaml -node /obj/ANIM/MOT/walk -o walk.anim
  rigexport rig -scene s.yaml -geo /obj/geo/capture1 -o body.rig
  rigexport gltf -scene s.yaml -geo /obj/geo/capture1 -node /obj/ANIM/MOT/walk -o out.glb`)
}

// pathList collects a repeatable path flag.
type pathList []string

func (p *pathList) String() string {
	return strings.Join(*p, ",")
}

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// command is the state shared by every subcommand.
type command struct {
	fs    *flag.FlagSet
	flags config.Flags
	out   string
}

func newCommand(name string) *command {
	c := &command{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	c.flags.Register(c.fs)
	c.fs.StringVar(&c.out, "o", "", "Output file")
	return c
}

// setup loads the configuration, starts logging and opens the scene.
func (c *command) setup(args []string) (*pipeline.Exporter, error) {
	cfg, err := c.load(args)
	if err != nil {
		return nil, err
	}
	return pipeline.Open(cfg, logger.Log)
}

func (c *command) load(args []string) (*config.Config, error) {
	c.fs.Parse(args)
	cfg, err := config.Load(&c.flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger.Debug("configuration loaded",
		zap.String("command", c.fs.Name()),
		zap.String("scene", cfg.Scene.Path),
		zap.Float64("fps", cfg.Export.FPS),
		zap.String("logFile", cfg.Logging.LogFile))
	return cfg, nil
}

func require(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing -%s", name)
	}
	return nil
}

func cmdAnim(args []string) error {
	c := newCommand("anim")
	node := c.fs.String("node", "", "Animation node path")
	e, err := c.setup(args)
	if err != nil {
		return err
	}
	if err := require("node", *node); err != nil {
		return err
	}
	return e.ExportAnimation(*node, c.out)
}

func cmdRig(args []string) error {
	c := newCommand("rig")
	geo := c.fs.String("geo", "", "Captured geometry node path")
	e, err := c.setup(args)
	if err != nil {
		return err
	}
	if err := require("geo", *geo); err != nil {
		return err
	}
	return e.ExportRig(*geo, c.out)
}

func cmdSkin(args []string) error {
	c := newCommand("skin")
	geo := c.fs.String("geo", "", "Captured geometry node path")
	e, err := c.setup(args)
	if err != nil {
		return err
	}
	if err := require("geo", *geo); err != nil {
		return err
	}

	stats, err := e.CookSkin(*geo, c.out)
	if errors.Is(err, rig.ErrNoCapture) {
		logger.Warn("geometry has no capture, skipped", zap.String("geometry", *geo))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Points:    %d\n", stats.Points)
	fmt.Printf("Remapped:  %d\n", stats.Remapped)
	fmt.Printf("Zeroed:    %d\n", stats.Zeroed)
	fmt.Printf("Truncated: %d\n", stats.Truncated)
	return nil
}

func cmdGLTF(args []string) error {
	c := newCommand("gltf")
	geo := c.fs.String("geo", "", "Captured geometry node path")
	var nodes pathList
	c.fs.Var(&nodes, "node", "Animation node path (repeatable)")
	e, err := c.setup(args)
	if err != nil {
		return err
	}
	if err := require("geo", *geo); err != nil {
		return err
	}
	return e.ExportGLTF(*geo, nodes, c.out)
}

func cmdInspect(args []string) error {
	c := newCommand("inspect")
	geo := c.fs.String("geo", "", "Captured geometry node path")
	var nodes pathList
	c.fs.Var(&nodes, "node", "Animation node path (repeatable)")
	e, err := c.setup(args)
	if err != nil {
		return err
	}
	return e.Inspect(os.Stdout, *geo, nodes)
}

func cmdConfig(args []string) error {
	c := newCommand("config")
	cfg, err := c.load(args)
	if err != nil {
		return err
	}
	path := c.out
	if path == "" {
		path, err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return err
	}
	logger.Info("configuration saved", zap.String("path", path))
	fmt.Printf("Saved %s\n", path)
	return nil
}
