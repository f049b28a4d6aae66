package field

import "github.com/taigrr/lifecube/pkg/math3d"

// Point is one node of the lattice. Points never change after construction.
type Point struct {
	Position math3d.Vec3 // model space, centered on the origin
	Index    int         // creation order
	Past     bool        // Index < threshold
}

// GridOffset is the per-axis shift that centers a lattice on the origin.
func GridOffset(gridSize int, spacing float64) float64 {
	return float64(gridSize-1) * spacing / 2
}

// NewGrid enumerates gridSize³ points. The outer loop walks Y, the middle
// loop X and the inner loop Z, so consecutive indices run along Z first.
func NewGrid(gridSize int, spacing float64, threshold int) []Point {
	if gridSize < 1 {
		return nil
	}
	offset := GridOffset(gridSize, spacing)
	points := make([]Point, 0, gridSize*gridSize*gridSize)

	for y := range gridSize {
		for x := range gridSize {
			for z := range gridSize {
				i := len(points)
				points = append(points, Point{
					Position: math3d.V3(
						float64(x)*spacing-offset,
						float64(y)*spacing-offset,
						float64(z)*spacing-offset,
					),
					Index: i,
					Past:  i < threshold,
				})
			}
		}
	}

	return points
}
