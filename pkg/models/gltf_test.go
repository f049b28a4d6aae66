package models

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	pts := field.NewGrid(2, 1, 3)
	pc := FromField("life", pts, 3, field.DefaultPalette())

	path := filepath.Join(t.TempDir(), "life.glb")
	if err := pc.SaveGLB(path); err != nil {
		t.Fatalf("SaveGLB: %v", err)
	}

	got, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if got.Len() != pc.Len() {
		t.Fatalf("Len = %d, want %d", got.Len(), pc.Len())
	}
	if got.Name != "life" {
		t.Errorf("Name = %q, want life", got.Name)
	}
	for i := range pc.Positions {
		if !got.Positions[i].ApproxEqual(pc.Positions[i], 1e-6) {
			t.Errorf("position %d = %v, want %v", i, got.Positions[i], pc.Positions[i])
		}
		if got.Colors[i] != pc.Colors[i] {
			t.Errorf("color %d = %v, want %v", i, got.Colors[i], pc.Colors[i])
		}
	}
}

func TestSaveGLBEmpty(t *testing.T) {
	pc := &PointCloud{Name: "empty"}
	err := pc.SaveGLB(filepath.Join(t.TempDir(), "empty.glb"))
	if !errors.Is(err, ErrNoPoints) {
		t.Errorf("err = %v, want ErrNoPoints", err)
	}
}

func TestNewDocumentColorMismatch(t *testing.T) {
	pc := &PointCloud{
		Positions: []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0)},
		Colors:    []color.NRGBA{{255, 0, 0, 255}},
	}
	if _, err := pc.NewDocument(); err == nil {
		t.Error("expected error for mismatched color count")
	}
}

func TestNewDocumentStructure(t *testing.T) {
	pc := &PointCloud{
		Name:      "one",
		Positions: []math3d.Vec3{math3d.V3(1, 2, 3)},
	}
	doc, err := pc.NewDocument()
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("expected one mesh with one primitive")
	}
	prim := doc.Meshes[0].Primitives[0]
	if prim.Mode != gltf.PrimitivePoints {
		t.Errorf("Mode = %v, want POINTS", prim.Mode)
	}
	if _, ok := prim.Attributes[gltf.COLOR_0]; ok {
		t.Error("COLOR_0 written without colors")
	}
	if len(doc.Scenes[0].Nodes) != 1 {
		t.Errorf("scene nodes = %d, want 1", len(doc.Scenes[0].Nodes))
	}

	back, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if !back.Positions[0].ApproxEqual(math3d.V3(1, 2, 3), 1e-6) {
		t.Errorf("position = %v", back.Positions[0])
	}
	if len(back.Colors) != 0 {
		t.Errorf("colors = %d, want 0", len(back.Colors))
	}
}

func TestFromDocumentNoPoints(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{Mode: gltf.PrimitiveTriangles, Attributes: map[string]int{}}},
	})
	if _, err := FromDocument(doc); !errors.Is(err, ErrNoPoints) {
		t.Errorf("err = %v, want ErrNoPoints", err)
	}
}
