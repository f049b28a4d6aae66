// lifecube - life in weeks, as a rotating cube of points.
//
// Each of the 4,096 points of a 16×16×16 lattice is one week. Weeks already
// lived are lit, the current one pulses and carries a callout, and the rest
// fade into the background.
//
// Commands:
//
//	run       - Animate in the terminal (q or Esc to quit)
//	snapshot  - Render frames offscreen and write a PNG
//	export    - Write the lattice as a GLB point cloud
//	inspect   - Summarize a GLB point cloud
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/lifecube/pkg/config"
	"github.com/taigrr/lifecube/pkg/field"
)

var version = "dev"

// options holds flags shared by the rendering commands.
type options struct {
	configPath string

	dob       string
	threshold int
	grid      int
	spacing   float64
	center    float64
	bg        string
	noCallout bool
	spring    bool

	logLevel  string
	logFormat string
	logFile   string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "lifecube",
		Short: "Life in weeks, as a rotating cube of points",
		Long: "lifecube draws one point per week of an eighty-year life on a rotating\n" +
			"lattice. Weeks lived are lit and the current week is highlighted.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "TOML config file")
	pf.StringVar(&o.dob, "dob", "", "birth date (YYYY-MM-DD); derives the lit week count")
	pf.IntVar(&o.threshold, "threshold", 0, "number of lit weeks, instead of --dob")
	pf.IntVar(&o.grid, "grid", 16, "points per cube edge")
	pf.Float64Var(&o.spacing, "spacing", 2.4, "distance between neighboring points")
	pf.Float64Var(&o.center, "center", 0.5, "horizontal projection center as a fraction of width")
	pf.StringVar(&o.bg, "bg", "", "background color (R,G,B or #rrggbb)")
	pf.BoolVar(&o.noCallout, "no-callout", false, "hide the current week label")
	pf.BoolVar(&o.spring, "spring", false, "move the label with a damped spring")
	pf.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&o.logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&o.logFile, "log-file", "", "write logs to this file")
	root.MarkFlagsMutuallyExclusive("dob", "threshold")

	root.AddCommand(
		newRunCmd(o),
		newSnapshotCmd(o),
		newExportCmd(o),
		newInspectCmd(o),
	)
	return root
}

// load reads the config file, if any, and applies the flags that were set.
func (o *options) load(cmd *cobra.Command) (*config.File, error) {
	f := config.Default()
	if o.configPath != "" {
		var err error
		if f, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dob") {
		f.Host.DOB = o.dob
	}
	if flags.Changed("threshold") {
		f.Field.Threshold = o.threshold
		f.Host.DOB = ""
	}
	if flags.Changed("grid") {
		f.Field.GridSize = o.grid
	}
	if flags.Changed("spacing") {
		f.Field.Spacing = o.spacing
	}
	if flags.Changed("center") {
		f.Field.CenterBias = o.center
	}
	if flags.Changed("bg") {
		c, err := config.ParseColor(o.bg)
		if err != nil {
			return nil, fmt.Errorf("%w: --bg: %w", field.ErrInvalidConfig, err)
		}
		f.Palette.Background = config.Hex(c)
	}
	if o.noCallout {
		f.Callout.Enabled = false
	}
	if o.spring {
		f.Callout.Spring = true
	}
	return f, nil
}

// logger builds the command logger. When quiet is set and no log file was
// given, logs are discarded so they do not tear the terminal picture.
func (o *options) logger(quiet bool) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }
	switch {
	case o.logFile != "":
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	case quiet:
		w = io.Discard
	}

	l, err := newLogger(w, o.logLevel, o.logFormat)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return l, closeFn, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log format %q: want text or json", format)
}
