// Package models converts the point field to and from glTF point clouds.
package models

import (
	"errors"
	"image/color"

	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/math3d"
)

// ErrNoPoints is returned when a document holds no point primitive.
var ErrNoPoints = errors.New("no point primitive")

// PointCloud is a colored set of positions.
type PointCloud struct {
	Name      string
	Positions []math3d.Vec3
	Colors    []color.NRGBA // straight alpha, same length as Positions, or empty
}

// FromField colors each lattice point by category: past, the current point
// at threshold-1, or future. Future points keep their faint opacity so
// viewers that honor vertex alpha show the same contrast as the animation.
func FromField(name string, points []field.Point, threshold int, pal field.Palette) *PointCloud {
	pc := &PointCloud{
		Name:      name,
		Positions: make([]math3d.Vec3, len(points)),
		Colors:    make([]color.NRGBA, len(points)),
	}
	for i, p := range points {
		pc.Positions[i] = p.Position
		switch {
		case p.Index == threshold-1:
			pc.Colors[i] = opacity(pal.Current, 1)
		case p.Past:
			pc.Colors[i] = opacity(pal.Past, pal.PastOpacity)
		default:
			pc.Colors[i] = opacity(pal.Future, pal.FutureOpacity)
		}
	}
	return pc
}

func opacity(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{c.R, c.G, c.B, uint8(min(max(a, 0), 1)*255 + 0.5)}
}

// Len returns the number of points.
func (pc *PointCloud) Len() int { return len(pc.Positions) }

// Bounds returns the axis-aligned extent of the positions.
func (pc *PointCloud) Bounds() (lo, hi math3d.Vec3) {
	if len(pc.Positions) == 0 {
		return
	}
	lo, hi = pc.Positions[0], pc.Positions[0]
	for _, p := range pc.Positions[1:] {
		lo = math3d.V3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = math3d.V3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	return lo, hi
}
