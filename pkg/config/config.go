// Package config loads lifecube settings from TOML and converts them to a
// field.Config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/weeks"
)

// File mirrors the TOML layout.
type File struct {
	Field   Field   `toml:"field"`
	Palette Palette `toml:"palette"`
	Callout Callout `toml:"callout"`
	Host    Host    `toml:"host"`
}

// Field holds lattice and motion options.
type Field struct {
	GridSize       int     `toml:"grid_size"`
	Spacing        float64 `toml:"spacing"`
	Threshold      int     `toml:"threshold"` // used when host.dob is empty
	Total          int     `toml:"total"`
	CenterBias     float64 `toml:"center_bias"`
	RotationSpeedX float64 `toml:"rotation_speed_x"`
	RotationSpeedY float64 `toml:"rotation_speed_y"`
	InitialAngleX  float64 `toml:"initial_angle_x"`
	InitialAngleY  float64 `toml:"initial_angle_y"`
	RevealStep     float64 `toml:"reveal_step"`
	StartDelay     string  `toml:"start_delay"`
}

// Palette holds colors as "#rrggbb" strings.
type Palette struct {
	Background    string  `toml:"background"`
	Past          string  `toml:"past"`
	Future        string  `toml:"future"`
	Current       string  `toml:"current"`
	Glow          string  `toml:"glow"`
	Accent        string  `toml:"accent"`
	Text          string  `toml:"text"`
	Secondary     string  `toml:"secondary"`
	PastOpacity   float64 `toml:"past_opacity"`
	FutureOpacity float64 `toml:"future_opacity"`
}

// Callout holds HUD label options.
type Callout struct {
	Enabled         bool    `toml:"enabled"`
	Caption         string  `toml:"caption"`
	ShowAge         bool    `toml:"show_age"`
	CapX            float64 `toml:"cap_x"`
	CapY            float64 `toml:"cap_y"`
	Follow          float64 `toml:"follow"`
	Extension       float64 `toml:"extension"`
	Spring          bool    `toml:"spring"`
	SpringFrequency float64 `toml:"spring_frequency"`
	SpringDamping   float64 `toml:"spring_damping"`
}

// Host holds options of the program driving the renderer.
type Host struct {
	DOB     string `toml:"dob"` // YYYY-MM-DD
	FPS     int    `toml:"fps"`
	Backend string `toml:"backend"`
}

// Default returns the stock settings, birth date included.
func Default() *File {
	d := field.DefaultConfig()
	return &File{
		Field: Field{
			GridSize:       d.GridSize,
			Spacing:        d.Spacing,
			Total:          d.Total,
			CenterBias:     d.CenterBias,
			RotationSpeedX: d.RotationSpeedX,
			RotationSpeedY: d.RotationSpeedY,
			InitialAngleX:  d.InitialAngleX,
			InitialAngleY:  d.InitialAngleY,
			RevealStep:     d.RevealStep,
			StartDelay:     d.StartDelay.String(),
		},
		Palette: Palette{
			Background:    Hex(d.Palette.Background),
			Past:          Hex(d.Palette.Past),
			Future:        Hex(d.Palette.Future),
			Current:       Hex(d.Palette.Current),
			Glow:          Hex(d.Palette.Glow),
			Accent:        Hex(d.Palette.Accent),
			Text:          Hex(d.Palette.Text),
			Secondary:     Hex(d.Palette.Secondary),
			PastOpacity:   d.Palette.PastOpacity,
			FutureOpacity: d.Palette.FutureOpacity,
		},
		Callout: Callout{
			Enabled:         d.Callout.Enabled,
			Caption:         d.Callout.Caption,
			ShowAge:         true,
			CapX:            d.Callout.CapX,
			CapY:            d.Callout.CapY,
			Follow:          d.Callout.Follow,
			Extension:       d.Callout.Extension,
			SpringFrequency: d.Callout.SpringFrequency,
			SpringDamping:   d.Callout.SpringDamping,
		},
		Host: Host{
			DOB:     "1992-04-18",
			FPS:     d.FPS,
			Backend: "uv",
		},
	}
}

// Load decodes the TOML file at path over Default. Unknown keys are errors.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses TOML bytes over Default.
func Decode(data []byte) (*File, error) {
	f := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", field.ErrInvalidConfig, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%w: %w", field.ErrInvalidConfig, err)
	}
	return f, nil
}

// Encode renders f as TOML.
func (f *File) Encode() ([]byte, error) {
	return toml.Marshal(f)
}

// FieldConfig converts f to a renderer config. With a birth date the
// threshold is the number of weeks lived at now, and the callout's
// secondary line shows the age when enabled.
func (f *File) FieldConfig(now time.Time) (field.Config, error) {
	cfg := field.DefaultConfig()

	cfg.GridSize = f.Field.GridSize
	cfg.Spacing = f.Field.Spacing
	cfg.Threshold = f.Field.Threshold
	cfg.Total = f.Field.Total
	cfg.CenterBias = f.Field.CenterBias
	cfg.RotationSpeedX = f.Field.RotationSpeedX
	cfg.RotationSpeedY = f.Field.RotationSpeedY
	cfg.InitialAngleX = f.Field.InitialAngleX
	cfg.InitialAngleY = f.Field.InitialAngleY
	cfg.RevealStep = f.Field.RevealStep
	if f.Field.StartDelay != "" {
		d, err := time.ParseDuration(f.Field.StartDelay)
		if err != nil {
			return cfg, fmt.Errorf("%w: start_delay: %w", field.ErrInvalidConfig, err)
		}
		cfg.StartDelay = d
	}
	if f.Host.FPS > 0 {
		cfg.FPS = f.Host.FPS
	}

	pal, err := f.Palette.field(cfg.Palette)
	if err != nil {
		return cfg, err
	}
	cfg.Palette = pal

	cfg.Callout.Enabled = f.Callout.Enabled
	cfg.Callout.Caption = f.Callout.Caption
	cfg.Callout.CapX = f.Callout.CapX
	cfg.Callout.CapY = f.Callout.CapY
	cfg.Callout.Follow = f.Callout.Follow
	cfg.Callout.Extension = f.Callout.Extension
	cfg.Callout.Spring = f.Callout.Spring
	cfg.Callout.SpringFrequency = f.Callout.SpringFrequency
	cfg.Callout.SpringDamping = f.Callout.SpringDamping

	if f.Host.DOB != "" {
		dob, err := weeks.Parse(f.Host.DOB)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", field.ErrInvalidConfig, err)
		}
		lived, err := weeks.Since(dob, now)
		if err != nil {
			return cfg, err
		}
		cfg.Threshold = lived
		if f.Callout.ShowAge {
			age, _ := weeks.Age(dob, now)
			cfg.Callout.Secondary = weeks.AgeLine(age)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (p Palette) field(base field.Palette) (field.Palette, error) {
	out := base
	for _, e := range []struct {
		name string
		s    string
		dst  *color.RGBA
	}{
		{"background", p.Background, &out.Background},
		{"past", p.Past, &out.Past},
		{"future", p.Future, &out.Future},
		{"current", p.Current, &out.Current},
		{"glow", p.Glow, &out.Glow},
		{"accent", p.Accent, &out.Accent},
		{"text", p.Text, &out.Text},
		{"secondary", p.Secondary, &out.Secondary},
	} {
		if e.s == "" {
			continue
		}
		c, err := ParseColor(e.s)
		if err != nil {
			return base, fmt.Errorf("%w: palette.%s: %w", field.ErrInvalidConfig, e.name, err)
		}
		*e.dst = c
	}
	if p.PastOpacity != 0 {
		out.PastOpacity = p.PastOpacity
	}
	if p.FutureOpacity != 0 {
		out.FutureOpacity = p.FutureOpacity
	}
	return out, nil
}

// ParseColor accepts "#rrggbb", "rrggbb" or "r,g,b" with 0-255 components.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return color.RGBA{}, fmt.Errorf("color %q: want r,g,b", s)
		}
		var ch [3]uint8
		for i, part := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
			}
			ch[i] = uint8(v)
		}
		return color.RGBA{ch[0], ch[1], ch[2], 255}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
