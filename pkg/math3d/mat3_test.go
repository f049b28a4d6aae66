package math3d

import (
	"math"
	"testing"
)

func TestOrbitMatchesExplicitRotation(t *testing.T) {
	tests := []struct {
		name   string
		ax, ay float64
		p      Vec3
	}{
		{"identity", 0, 0, V3(1, 2, 3)},
		{"x only", 0.7, 0, V3(-4, 1.5, 2)},
		{"y only", 0, 1.1, V3(3, -2, 5)},
		{"initial view", -0.4, math.Pi / 4, V3(18, -18, 18)},
		{"large angles", 123.456, -78.9, V3(-0.5, 7, -3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cx, sx := math.Cos(tc.ax), math.Sin(tc.ax)
			cy, sy := math.Cos(tc.ay), math.Sin(tc.ay)

			y1 := tc.p.Y*cx - tc.p.Z*sx
			z1 := tc.p.Y*sx + tc.p.Z*cx
			x2 := tc.p.X*cy - z1*sy
			z2 := tc.p.X*sy + z1*cy
			want := V3(x2, y1, z2)

			got := Orbit(tc.ax, tc.ay).MulVec3(tc.p)
			if !got.ApproxEqual(want, 1e-9) {
				t.Errorf("Orbit(%v, %v) * %v = %v, want %v", tc.ax, tc.ay, tc.p, got, want)
			}
		})
	}
}

func TestOrbitIsComposition(t *testing.T) {
	for _, a := range []float64{0, 0.3, -1.2, 4} {
		want := RotateY(a * 1.7).Mul(RotateX(a))
		if got := Orbit(a, a*1.7); !got.ApproxEqual(want, 1e-12) {
			t.Errorf("Orbit(%v) = %v, want %v", a, got, want)
		}
	}
}

func TestOrbitOrderMatters(t *testing.T) {
	p := V3(1, 2, 3)
	xy := Orbit(0.6, 0.9).MulVec3(p)
	yx := RotateX(0.6).Mul(RotateY(0.9)).MulVec3(p)
	if xy.ApproxEqual(yx, 1e-6) {
		t.Errorf("rotation order should change the result, both gave %v", xy)
	}
}

func TestRotationPreservesLength(t *testing.T) {
	p := V3(3, -4, 12)
	for _, angle := range []float64{0, 0.1, 1, math.Pi, 42} {
		if got := Orbit(angle, angle*2).MulVec3(p).Len(); math.Abs(got-13) > 1e-9 {
			t.Errorf("angle %v: length = %v, want 13", angle, got)
		}
	}
}

func TestTransposeInverts(t *testing.T) {
	m := Orbit(-0.4, math.Pi/4)
	if got := m.Transpose().Mul(m); !got.ApproxEqual(Identity(), 1e-12) {
		t.Errorf("mᵀ * m = %v, want identity", got)
	}
}

func TestIdentityMul(t *testing.T) {
	m := RotateX(0.3)
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
	if got := m.Get(1, 2); math.Abs(got+math.Sin(0.3)) > 1e-12 {
		t.Errorf("Get(1,2) = %v, want %v", got, -math.Sin(0.3))
	}
}

func TestVec2Lerp(t *testing.T) {
	a, b := V2(0, 0), V2(100, -50)
	got := a.Lerp(b, 0.08)
	if math.Abs(got.X-8) > 1e-12 || math.Abs(got.Y+4) > 1e-12 {
		t.Errorf("Lerp = %v, want (8, -4)", got)
	}
	if d := a.Distance(V2(3, 4)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
