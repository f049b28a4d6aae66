package field

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid field config")

// Palette holds the colors for each point category and the callout.
type Palette struct {
	Background color.RGBA
	Past       color.RGBA // points before the threshold
	Future     color.RGBA // points at or after the threshold
	Current    color.RGBA // the point at Threshold-1
	Glow       color.RGBA // halo around the current point
	Accent     color.RGBA // callout caption and leader line
	Text       color.RGBA // callout ratio line
	Secondary  color.RGBA // callout secondary metric

	PastOpacity   float64
	FutureOpacity float64
}

// DefaultPalette is the warm bone-on-black scheme.
func DefaultPalette() Palette {
	return Palette{
		Background:    color.RGBA{10, 10, 11, 255},
		Past:          color.RGBA{240, 237, 230, 255},
		Future:        color.RGBA{255, 255, 255, 255},
		Current:       color.RGBA{255, 60, 60, 255},
		Glow:          color.RGBA{255, 34, 34, 255},
		Accent:        color.RGBA{255, 80, 80, 255},
		Text:          color.RGBA{255, 255, 255, 255},
		Secondary:     color.RGBA{201, 169, 110, 255},
		PastOpacity:   0.7,
		FutureOpacity: 0.12,
	}
}

// Glow sizes the pulsing halo: Base + pulse*Range.
type Glow struct {
	Base  float64
	Range float64
}

// Callout configures the HUD label that tracks the current point.
type Callout struct {
	Enabled   bool
	Caption   string
	Secondary string // optional third line, e.g. "Age 34"

	CapX, CapY float64 // caps on the label ring radii
	Follow     float64 // fraction of remaining distance covered per frame
	Extension  float64 // horizontal leader length past the label anchor

	// Spring switches the label follower from exponential smoothing to a
	// damped spring.
	Spring          bool
	SpringFrequency float64
	SpringDamping   float64
}

// Config parameterizes a Renderer.
type Config struct {
	GridSize  int
	Spacing   float64
	Threshold int
	Total     int // denominator of the callout ratio

	CenterBias     float64 // projection origin as a fraction of width
	RotationSpeedX float64 // radians per frame
	RotationSpeedY float64
	InitialAngleX  float64
	InitialAngleY  float64
	RevealStep     float64 // progress added per frame
	StartDelay     time.Duration
	MinDepth       float64 // lower clamp of camera-space depth
	FPS            int     // nominal frame rate, used by the spring follower

	Palette Palette
	Glow    Glow
	Callout Callout
}

// DefaultConfig returns the 16³ cube with its stock motion and colors.
func DefaultConfig() Config {
	return Config{
		GridSize:       16,
		Spacing:        2.4,
		Total:          4160,
		CenterBias:     0.5,
		RotationSpeedX: 0.0001,
		RotationSpeedY: 0.002,
		InitialAngleX:  -0.4,
		InitialAngleY:  math.Pi / 4,
		RevealStep:     0.015,
		StartDelay:     300 * time.Millisecond,
		MinDepth:       1e-3,
		FPS:            60,
		Palette:        DefaultPalette(),
		Glow:           Glow{Base: 15, Range: 8},
		Callout: Callout{
			Enabled:         true,
			Caption:         "CURRENT WEEK",
			CapX:            340,
			CapY:            280,
			Follow:          0.08,
			Extension:       80,
			SpringFrequency: 4.0,
			SpringDamping:   1.0,
		},
	}
}

// Validate reports the first option that cannot produce a field.
func (c Config) Validate() error {
	switch {
	case c.GridSize < 1:
		return fmt.Errorf("%w: grid size %d < 1", ErrInvalidConfig, c.GridSize)
	case !(c.Spacing > 0):
		return fmt.Errorf("%w: spacing %v must be positive", ErrInvalidConfig, c.Spacing)
	case c.Threshold < 0:
		return fmt.Errorf("%w: threshold %d is negative", ErrInvalidConfig, c.Threshold)
	case !(c.RevealStep > 0):
		return fmt.Errorf("%w: reveal step %v must be positive", ErrInvalidConfig, c.RevealStep)
	case c.CenterBias < 0 || c.CenterBias > 1:
		return fmt.Errorf("%w: center bias %v outside [0,1]", ErrInvalidConfig, c.CenterBias)
	case c.Callout.Follow < 0 || c.Callout.Follow > 1:
		return fmt.Errorf("%w: callout follow %v outside [0,1]", ErrInvalidConfig, c.Callout.Follow)
	}
	return nil
}

// withDefaults fills zero-valued options from DefaultConfig. Threshold,
// angles and rotation speeds are taken as given since zero is meaningful
// for them.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.GridSize == 0 {
		c.GridSize = d.GridSize
	}
	if c.Spacing == 0 {
		c.Spacing = d.Spacing
	}
	if c.Total == 0 {
		c.Total = d.Total
	}
	if c.CenterBias == 0 {
		c.CenterBias = d.CenterBias
	}
	if c.RevealStep == 0 {
		c.RevealStep = d.RevealStep
	}
	if c.MinDepth == 0 {
		c.MinDepth = d.MinDepth
	}
	if c.FPS == 0 {
		c.FPS = d.FPS
	}
	if c.Palette == (Palette{}) {
		c.Palette = d.Palette
	}
	if c.Glow == (Glow{}) {
		c.Glow = d.Glow
	}
	if c.Callout.CapX == 0 {
		c.Callout.CapX = d.Callout.CapX
	}
	if c.Callout.CapY == 0 {
		c.Callout.CapY = d.Callout.CapY
	}
	if c.Callout.Follow == 0 {
		c.Callout.Follow = d.Callout.Follow
	}
	if c.Callout.Extension == 0 {
		c.Callout.Extension = d.Callout.Extension
	}
	if c.Callout.SpringFrequency == 0 {
		c.Callout.SpringFrequency = d.Callout.SpringFrequency
	}
	if c.Callout.SpringDamping == 0 {
		c.Callout.SpringDamping = d.Callout.SpringDamping
	}
	return c
}
