package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/lifecube/pkg/field"
)

func TestDefaultMatchesFieldDefaults(t *testing.T) {
	cfg, err := Default().FieldConfig(time.Date(2026, time.October, 14, 12, 0, 0, 0, time.Local))
	require.NoError(t, err)

	d := field.DefaultConfig()
	assert.Equal(t, d.GridSize, cfg.GridSize)
	assert.Equal(t, d.Spacing, cfg.Spacing)
	assert.Equal(t, d.StartDelay, cfg.StartDelay)
	assert.Equal(t, d.Palette, cfg.Palette)
	assert.Equal(t, "Age 34", cfg.Callout.Secondary)
	assert.Equal(t, 1799, cfg.Threshold)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	f, err := Decode([]byte(`
[field]
grid_size = 8
threshold = 100
center_bias = 0.62

[palette]
past = "#c9a96e"
future_opacity = 0.2

[callout]
enabled = false

[host]
dob = ""
backend = "tcell"
`))
	require.NoError(t, err)
	assert.Equal(t, 8, f.Field.GridSize)
	assert.Equal(t, 2.4, f.Field.Spacing, "unset keys keep defaults")
	assert.Equal(t, "tcell", f.Host.Backend)

	cfg, err := f.FieldConfig(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Threshold)
	assert.Equal(t, 0.62, cfg.CenterBias)
	assert.Equal(t, color.RGBA{201, 169, 110, 255}, cfg.Palette.Past)
	assert.Equal(t, 0.2, cfg.Palette.FutureOpacity)
	assert.Equal(t, 0.7, cfg.Palette.PastOpacity)
	assert.False(t, cfg.Callout.Enabled)
	assert.Empty(t, cfg.Callout.Secondary)
}

func TestDecodeUnknownKey(t *testing.T) {
	_, err := Decode([]byte("[field]\ngird_size = 3\n"))
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode([]byte("[field\n"))
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestFieldConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *File)
	}{
		{"negative grid", func(f *File) { f.Field.GridSize = -1 }},
		{"bad color", func(f *File) { f.Palette.Current = "#zzzzzz" }},
		{"bad delay", func(f *File) { f.Field.StartDelay = "soon" }},
		{"bad dob", func(f *File) { f.Host.DOB = "April 18" }},
		{"bias out of range", func(f *File) { f.Field.CenterBias = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Default()
			tt.modify(f)
			_, err := f.FieldConfig(time.Now())
			assert.ErrorIs(t, err, field.ErrInvalidConfig)
		})
	}
}

func TestFieldConfigFutureBirth(t *testing.T) {
	f := Default()
	f.Host.DOB = "2999-01-01"
	_, err := f.FieldConfig(time.Now())
	require.Error(t, err)
	assert.False(t, errors.Is(err, field.ErrInvalidConfig))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecube.toml")
	require.NoError(t, os.WriteFile(path, []byte("[host]\nfps = 30\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, f.Host.FPS)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Default().Encode()
	require.NoError(t, err)

	f, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#f0ede6", color.RGBA{240, 237, 230, 255}, false},
		{"ff3c3c", color.RGBA{255, 60, 60, 255}, false},
		{"10,10,11", color.RGBA{10, 10, 11, 255}, false},
		{" 1, 2, 3 ", color.RGBA{1, 2, 3, 255}, false},
		{"1,2", color.RGBA{}, true},
		{"1,2,300", color.RGBA{}, true},
		{"#12345", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#0a0a0b", Hex(color.RGBA{10, 10, 11, 255}))
	assert.Equal(t, "#ff3c3c", Hex(color.RGBA{255, 60, 60, 255}))
}
