// Package fccli is the flowcanvas command: it renders diagram snapshots,
// replays scripted input against them and serves the interactive canvas.
package fccli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"oss.terrastruct.com/flowcanvas/fcalign"
	"oss.terrastruct.com/flowcanvas/fcengine"
	"oss.terrastruct.com/flowcanvas/lib/go2"
	"oss.terrastruct.com/flowcanvas/lib/log"
	"oss.terrastruct.com/flowcanvas/lib/version"
	"oss.terrastruct.com/flowcanvas/lib/xmain"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	// These should be kept up-to-date with help below.
	configFlag := ms.Opts.String("FLOWCANVAS_CONFIG", "config", "c", "", "path to a TOML file of engine options. Flags and environment variables take precedence over it.")
	snapFlag, err := ms.Opts.Float64("FLOWCANVAS_SNAP_THRESHOLD", "snap-threshold", "", fcalign.DEFAULT_THRESHOLD, "how close in diagram units a dragged element must come to another to align with it")
	if err != nil {
		return err
	}
	gridFlag, err := ms.Opts.Float64("FLOWCANVAS_GRID", "grid", "g", fcalign.DEFAULT_GRID_SIZE, "grid that dragged elements snap to when nothing is close enough to align with")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	hostFlag := ms.Opts.String("HOST", "host", "h", "localhost", "host listening address when used with watch")
	portFlag := ms.Opts.String("PORT", "port", "p", "0", "port listening address when used with watch")
	browserFlag := ms.Opts.String("BROWSER", "browser", "", "", "browser executable that watch opens. Setting to 0 opens no browser.")
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *versionFlag {
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}
	if len(ms.Opts.Flags.Args()) == 0 {
		help(ms)
		return nil
	}

	ctx = log.Stderr(ctx, *debugFlag)
	if *debugFlag {
		ms.Env.Setenv("DEBUG", "1")
	}
	if *browserFlag != "" {
		ms.Env.Setenv("BROWSER", *browserFlag)
	}

	opts, err := loadOptions(ms, *configFlag, *snapFlag, *gridFlag)
	if err != nil {
		return err
	}

	args := ms.Opts.Flags.Args()
	switch args[0] {
	case "render":
		return renderCmd(ctx, ms, opts, args[1:])
	case "replay":
		return replayCmd(ctx, ms, opts, args[1:])
	case "watch":
		return watchCmd(ctx, ms, opts, *hostFlag, *portFlag, args[1:])
	case "version":
		if len(args) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	default:
		return xmain.UsageErrorf("unknown subcommand %q", args[0])
	}
}

// loadOptions layers the config file, then environment variables and flags,
// over the defaults. A flag only wins over the file when it was given.
func loadOptions(ms *xmain.State, configPath string, snap, grid float64) (*fcengine.Options, error) {
	opts := fcengine.DefaultOptions()
	if configPath != "" {
		var err error
		opts, err = fcengine.LoadOptionsFile(configPath, opts)
		if err != nil {
			return nil, xmain.UsageErrorf("%v", err)
		}
		ms.Log.Debug.Printf("loaded options from %s", ms.HumanPath(configPath))
	}

	if isSet(ms, "FLOWCANVAS_SNAP_THRESHOLD", "snap-threshold") {
		if snap < 0 {
			return nil, xmain.UsageErrorf("--snap-threshold must not be negative: %v", snap)
		}
		opts.SnapThreshold = snap
	}
	if isSet(ms, "FLOWCANVAS_GRID", "grid") {
		if grid <= 0 {
			return nil, xmain.UsageErrorf("--grid must be positive: %v", grid)
		}
		opts.GridSize = grid
	}
	return opts, nil
}

func isSet(ms *xmain.State, envKey, flag string) bool {
	return ms.Env.Getenv(envKey) != "" || ms.Opts.Flags.Changed(flag)
}

func renameExt(fp string, newExt string) string {
	if fp == "-" {
		return fp
	}
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	}
	return strings.TrimSuffix(fp, ext) + newExt
}
