package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/models"
)

func newExportCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.glb>",
		Short: "Write the lattice as a colored GLB point cloud",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.load(cmd)
			if err != nil {
				return err
			}
			cfg, err := f.FieldConfig(time.Now())
			if err != nil {
				return err
			}
			log, closeLog, err := o.logger(false)
			if err != nil {
				return err
			}
			defer closeLog()

			pc := pointCloud(cfg, strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])))
			if err := pc.SaveGLB(args[0]); err != nil {
				return err
			}
			log.Info("point cloud written", "path", args[0], "points", pc.Len(), "threshold", cfg.Threshold)
			return nil
		},
	}
}

func pointCloud(cfg field.Config, name string) *models.PointCloud {
	pts := field.NewGrid(cfg.GridSize, cfg.Spacing, cfg.Threshold)
	return models.FromField(name, pts, cfg.Threshold, cfg.Palette)
}

func newInspectCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.glb>",
		Short: "Print a summary of a GLB point cloud",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := models.LoadGLB(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), summary(pc))
			return nil
		},
	}
}

func summary(pc *models.PointCloud) string {
	lo, hi := pc.Bounds()
	var b strings.Builder
	fmt.Fprintf(&b, "name:   %s\n", pc.Name)
	fmt.Fprintf(&b, "points: %d\n", pc.Len())
	fmt.Fprintf(&b, "colors: %d\n", len(pc.Colors))
	fmt.Fprintf(&b, "bounds: (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	size := hi.Sub(lo)
	fmt.Fprintf(&b, "extent: %.3f\n", size.Len())
	return b.String()
}
