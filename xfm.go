package brainpack

import (
	"fmt"
	"strconv"
	"strings"
)

// Transform is an affine coordinate transform registering functional data to
// a subject's anatomy: a row-major 4x4 matrix plus the target volume shape.
type Transform struct {
	Matrix []float32 // row-major, 16 elements
	Shape  [3]int    // target volume dimensions
}

// NewTransform builds a Transform, checking the matrix size.
func NewTransform(matrix []float32, shape [3]int) (*Transform, error) {
	if len(matrix) != 16 {
		return nil, fmt.Errorf("%w: transform matrix must have 16 elements, got %d", ErrValidation, len(matrix))
	}
	return &Transform{Matrix: append([]float32(nil), matrix...), Shape: shape}, nil
}

// attrShape is the wire form of the shape attribute on a transform node.
func (t *Transform) attrShape() string {
	return fmt.Sprintf("%d,%d,%d", t.Shape[0], t.Shape[1], t.Shape[2])
}

func parseShapeAttr(s string) ([3]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("%w: shape attribute %q", ErrValidation, s)
	}
	var shape [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [3]int{}, fmt.Errorf("%w: shape attribute %q: %v", ErrValidation, s, err)
		}
		shape[i] = v
	}
	return shape, nil
}
