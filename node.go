package brainpack

import (
	"fmt"
	"sort"
	"strings"
)

// Array is a leaf dataset: a flat value buffer plus a row-major shape.
// Exactly one of the value slices is populated, selected by DType.
type Array struct {
	DType   DType
	Shape   []int
	Floats  []float32
	Ints    []int32
	Bytes   []byte
	Strings []string
	Attrs   map[string]string
}

// NewFloatArray builds a float32 array, checking that the value count
// matches the shape.
func NewFloatArray(shape []int, values []float32) (*Array, error) {
	if n := shapeCount(shape); n != len(values) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrValidation, shape, n, len(values))
	}
	return &Array{DType: DTypeFloat32, Shape: append([]int(nil), shape...), Floats: values}, nil
}

// NewIntArray builds an int32 array, checking that the value count matches
// the shape.
func NewIntArray(shape []int, values []int32) (*Array, error) {
	if n := shapeCount(shape); n != len(values) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrValidation, shape, n, len(values))
	}
	return &Array{DType: DTypeInt32, Shape: append([]int(nil), shape...), Ints: values}, nil
}

// NewBoolArray builds a boolean array stored as one byte per element.
func NewBoolArray(shape []int, values []byte) (*Array, error) {
	if n := shapeCount(shape); n != len(values) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrValidation, shape, n, len(values))
	}
	return &Array{DType: DTypeBool, Shape: append([]int(nil), shape...), Bytes: values}, nil
}

// NewStringArray builds a variable-length string array.
func NewStringArray(values []string) *Array {
	return &Array{DType: DTypeString, Shape: []int{len(values)}, Strings: values}
}

func shapeCount(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if len(shape) == 0 {
		return 0
	}
	return n
}

// Len returns the number of elements.
func (a *Array) Len() int { return shapeCount(a.Shape) }

// Rows returns the size of the leading dimension, or 0 for an empty shape.
func (a *Array) Rows() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

func (a *Array) elemSize() int {
	switch a.DType {
	case DTypeFloat32, DTypeInt32:
		return 4
	case DTypeUint8, DTypeBool:
		return 1
	}
	return 0
}

// SetAttr sets a string attribute on the array.
func (a *Array) SetAttr(key, value string) {
	if a.Attrs == nil {
		a.Attrs = make(map[string]string)
	}
	a.Attrs[key] = value
}

// Attr returns the attribute value and whether it was present.
func (a *Array) Attr(key string) (string, bool) {
	v, ok := a.Attrs[key]
	return v, ok
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	c := &Array{DType: a.DType, Shape: append([]int(nil), a.Shape...)}
	c.Floats = append([]float32(nil), a.Floats...)
	c.Ints = append([]int32(nil), a.Ints...)
	c.Bytes = append([]byte(nil), a.Bytes...)
	c.Strings = append([]string(nil), a.Strings...)
	if a.Attrs != nil {
		c.Attrs = make(map[string]string, len(a.Attrs))
		for k, v := range a.Attrs {
			c.Attrs[k] = v
		}
	}
	return c
}

// Group is an interior node of the tree. Children are either *Group or
// *Array, keyed by name.
type Group struct {
	Groups map[string]*Group
	Arrays map[string]*Array
	Attrs  map[string]string
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{}
}

// SetAttr sets a string attribute on the group.
func (g *Group) SetAttr(key, value string) {
	if g.Attrs == nil {
		g.Attrs = make(map[string]string)
	}
	g.Attrs[key] = value
}

// Attr returns the attribute value and whether it was present.
func (g *Group) Attr(key string) (string, bool) {
	v, ok := g.Attrs[key]
	return v, ok
}

// Names returns the sorted names of all children (groups and arrays).
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.Groups)+len(g.Arrays))
	for name := range g.Groups {
		names = append(names, name)
	}
	for name := range g.Arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Group opens a subgroup by relative path.
func (g *Group) Group(relativePath string) (*Group, error) {
	cur := g
	for _, name := range splitPath(relativePath) {
		if _, ok := cur.Arrays[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrNotGroup, name)
		}
		next, ok := cur.Groups[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		cur = next
	}
	return cur, nil
}

// Dataset opens an array by relative path. All leading components must be
// groups; the final component must be an array.
func (g *Group) Dataset(relativePath string) (*Array, error) {
	parts := splitPath(relativePath)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrNotDataset)
	}
	parent, err := g.Group(strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return nil, err
	}
	name := parts[len(parts)-1]
	if _, ok := parent.Groups[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrNotDataset, name)
	}
	arr, ok := parent.Arrays[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return arr, nil
}

// RequireGroup opens the group at relativePath, creating intermediate
// groups as needed.
func (g *Group) RequireGroup(relativePath string) (*Group, error) {
	cur := g
	for _, name := range splitPath(relativePath) {
		if _, ok := cur.Arrays[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrNotGroup, name)
		}
		next, ok := cur.Groups[name]
		if !ok {
			next = NewGroup()
			if cur.Groups == nil {
				cur.Groups = make(map[string]*Group)
			}
			cur.Groups[name] = next
		}
		cur = next
	}
	return cur, nil
}

// SetDataset stores an array under name, replacing any existing child of
// that name.
func (g *Group) SetDataset(name string, arr *Array) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: invalid dataset name %q", ErrValidation, name)
	}
	if g.Arrays == nil {
		g.Arrays = make(map[string]*Array)
	}
	delete(g.Groups, name)
	g.Arrays[name] = arr
	return nil
}

// SetGroup stores a subgroup under name, replacing any existing child of
// that name.
func (g *Group) SetGroup(name string, child *Group) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: invalid group name %q", ErrValidation, name)
	}
	if g.Groups == nil {
		g.Groups = make(map[string]*Group)
	}
	delete(g.Arrays, name)
	g.Groups[name] = child
	return nil
}

// Delete removes the named child if present.
func (g *Group) Delete(name string) {
	delete(g.Groups, name)
	delete(g.Arrays, name)
}

// normalizePath strips leading and trailing slashes.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	return path
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	path = normalizePath(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
