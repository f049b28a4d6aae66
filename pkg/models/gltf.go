package models

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/lifecube/pkg/math3d"
)

// NewDocument builds a glTF document with one node whose mesh is a single
// POINTS primitive carrying POSITION and, when present, COLOR_0.
func (pc *PointCloud) NewDocument() (*gltf.Document, error) {
	if pc.Len() == 0 {
		return nil, ErrNoPoints
	}
	if len(pc.Colors) != 0 && len(pc.Colors) != pc.Len() {
		return nil, fmt.Errorf("color count %d does not match %d positions", len(pc.Colors), pc.Len())
	}

	doc := gltf.NewDocument()

	positions := make([][3]float32, pc.Len())
	for i, p := range pc.Positions {
		positions[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}

	if len(pc.Colors) > 0 {
		colors := make([][4]uint8, len(pc.Colors))
		for i, c := range pc.Colors {
			colors[i] = [4]uint8{c.R, c.G, c.B, c.A}
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, colors)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: pc.Name,
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitivePoints,
			Attributes: attrs,
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: pc.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return doc, nil
}

// SaveGLB writes the cloud as a binary glTF file.
func (pc *PointCloud) SaveGLB(path string) error {
	doc, err := pc.NewDocument()
	if err != nil {
		return fmt.Errorf("build gltf: %w", err)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// LoadGLB reads the first POINTS primitive of a glTF or GLB file.
func LoadGLB(path string) (*PointCloud, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	pc, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	if pc.Name == "" {
		pc.Name = filepath.Base(path)
	}
	return pc, nil
}

// FromDocument extracts the first POINTS primitive from doc.
func FromDocument(doc *gltf.Document) (*PointCloud, error) {
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitivePoints {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("read positions: %w", err)
			}
			pc := &PointCloud{Name: m.Name, Positions: positions}

			if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
				pc.Colors, err = readColorAccessor(doc, colIdx)
				if err != nil {
					return nil, fmt.Errorf("read colors: %w", err)
				}
			}
			return pc, nil
		}
	}
	return nil, ErrNoPoints
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		off := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return result, nil
}

// readColorAccessor reads COLOR_0 as normalized unsigned bytes or floats,
// with three or four components.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([]color.NRGBA, error) {
	accessor := doc.Accessors[accessorIdx]
	var n int
	switch accessor.Type {
	case gltf.AccessorVec3:
		n = 3
	case gltf.AccessorVec4:
		n = 4
	default:
		return nil, fmt.Errorf("expected VEC3 or VEC4 color, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentFloat:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported color component type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, n*size)
	if err != nil {
		return nil, err
	}

	result := make([]color.NRGBA, accessor.Count)
	for i := range result {
		off := i * stride
		var ch [4]uint8
		ch[3] = 255
		for j := range n {
			if size == 1 {
				ch[j] = data[off+j]
			} else {
				f := readFloat32(data[off+j*4:])
				ch[j] = uint8(math.Round(float64(min(max(f, 0), 1)) * 255))
			}
		}
		result[i] = color.NRGBA{ch[0], ch[1], ch[2], ch[3]}
	}
	return result, nil
}

// accessorBytes returns the bytes from the accessor's first element onward
// and the element stride, checking that count elements fit.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" && buffer.Data == nil {
		return nil, 0, fmt.Errorf("external buffers not supported yet")
	}
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bufferView.ByteOffset + accessor.ByteOffset
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, fmt.Errorf("accessor overruns buffer: %d > %d", end, len(buffer.Data))
		}
	}
	return buffer.Data[start:], stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
