package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/frame"
	"github.com/taigrr/lifecube/pkg/render"
)

type snapshotOptions struct {
	width, height int
	frames        int
	density       float64
}

func newSnapshotCmd(o *options) *cobra.Command {
	so := snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot <out.png>",
		Short: "Render the animation offscreen and save a frame as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.load(cmd)
			if err != nil {
				return err
			}
			now := time.Now()
			cfg, err := f.FieldConfig(now)
			if err != nil {
				return err
			}
			log, closeLog, err := o.logger(false)
			if err != nil {
				return err
			}
			defer closeLog()

			canvas, err := snapshot(cfg, so, now, field.WithLogger(log))
			if err != nil {
				return err
			}
			if err := canvas.SavePNG(args[0]); err != nil {
				return err
			}
			log.Info("snapshot written", "path", args[0], "frames", so.frames)
			return nil
		},
	}
	cmd.Flags().IntVar(&so.width, "width", 960, "viewport width")
	cmd.Flags().IntVar(&so.height, "height", 540, "viewport height")
	cmd.Flags().IntVar(&so.frames, "frames", 120, "frames to step before capturing")
	cmd.Flags().Float64Var(&so.density, "density", 1, "pixels per viewport unit")
	return cmd
}

// snapshot steps a renderer on a manual clock and returns the canvas after
// the last frame.
func snapshot(cfg field.Config, so snapshotOptions, now time.Time, opts ...field.Option) (*render.Canvas, error) {
	if so.width < 1 || so.height < 1 {
		return nil, fmt.Errorf("%w: snapshot size %dx%d", field.ErrInvalidConfig, so.width, so.height)
	}
	if so.frames < 1 {
		return nil, fmt.Errorf("%w: frames %d < 1", field.ErrInvalidConfig, so.frames)
	}

	canvas := render.NewCanvas(so.width, so.height, so.density)
	loop := frame.NewManual(now)
	r := field.New(canvas, loop, cfg, opts...)

	r.Start()
	loop.Advance(cfg.StartDelay)
	loop.Frames(so.frames - 1)
	r.Stop()
	return canvas, nil
}
