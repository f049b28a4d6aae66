package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/frame"
	"github.com/taigrr/lifecube/pkg/render"
)

func newRunCmd(o *options) *cobra.Command {
	var (
		backend string
		fps     int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate the cube in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := o.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				f.Host.Backend = backend
			}
			if cmd.Flags().Changed("fps") {
				f.Host.FPS = fps
			}
			cfg, err := f.FieldConfig(time.Now())
			if err != nil {
				return err
			}

			log, closeLog, err := o.logger(true)
			if err != nil {
				return err
			}
			defer closeLog()
			return animate(cmd.Context(), f.Host.Backend, cfg, log)
		},
	}
	cmd.Flags().StringVarP(&backend, "backend", "b", "uv", "terminal backend (uv, tcell)")
	cmd.Flags().IntVar(&fps, "fps", 60, "target frames per second")
	return cmd
}

func animate(ctx context.Context, backend string, cfg field.Config, log *slog.Logger) error {
	pres, err := render.NewPresenter(backend)
	if err != nil {
		return err
	}
	cols, rows, err := pres.Start()
	if err != nil {
		return err
	}
	defer pres.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// each terminal row holds two pixel rows as a half block
	canvas := render.NewCanvas(cols, rows*2, 1)
	canvas.Clear(cfg.Palette.Background)

	loop := frame.NewLoop(cfg.FPS, frame.WithLogger(log))
	r := field.New(canvas, loop, cfg, field.WithLogger(log))

	go func() {
		for ev := range pres.Events() {
			switch ev := ev.(type) {
			case render.ResizeEvent:
				loop.Post(func() {
					canvas.Resize(ev.Cols, ev.Rows*2, 1)
					canvas.Clear(cfg.Palette.Background)
				})
			case render.QuitEvent:
				cancel()
			}
		}
	}()

	var presentErr error
	var present func(time.Time)
	present = func(time.Time) {
		if err := pres.Present(canvas); err != nil {
			presentErr = err
			cancel()
			return
		}
		loop.RequestFrame(present)
	}

	r.Start()
	defer r.Stop()
	loop.RequestFrame(present)

	log.Info("animation started",
		"backend", backend,
		"cols", cols,
		"rows", rows,
		"threshold", r.Config().Threshold,
	)
	err = loop.Run(ctx)
	log.Info("animation stopped", "frames", r.Stats().Frames)

	if presentErr != nil {
		return fmt.Errorf("present: %w", presentErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
