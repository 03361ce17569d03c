package brainpack

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// validateTree checks structural invariants of a node tree against limits:
// node-name rules, nesting depth, total node count, attribute counts, and
// per-array shape/value consistency.
func validateTree(root *Group, limits Limits) error {
	if root == nil {
		return fmt.Errorf("%w: tree is nil", ErrValidation)
	}
	count := 0
	return walkValidate(root, "/", 0, &count, limits)
}

func walkValidate(g *Group, at string, depth int, count *int, limits Limits) error {
	if depth > limits.MaxDepth {
		return fmt.Errorf("%w: group nesting at %s exceeds depth %d", ErrLimitExceeded, at, limits.MaxDepth)
	}
	if len(g.Attrs) > limits.MaxAttributesPerNode {
		return fmt.Errorf("%w: too many attributes at %s", ErrLimitExceeded, at)
	}
	for name, child := range g.Groups {
		if err := validateNodeName(name); err != nil {
			return fmt.Errorf("%w: group at %s: %v", ErrValidation, at, err)
		}
		if _, dup := g.Arrays[name]; dup {
			return fmt.Errorf("%w: %s has both group and dataset named %q", ErrValidation, at, name)
		}
		if len(name) > limits.MaxNameLen {
			return fmt.Errorf("%w: name too long at %s", ErrLimitExceeded, at)
		}
		*count++
		if *count > limits.MaxNodes {
			return fmt.Errorf("%w: too many nodes", ErrLimitExceeded)
		}
		if err := walkValidate(child, at+name+"/", depth+1, count, limits); err != nil {
			return err
		}
	}
	for name, arr := range g.Arrays {
		if err := validateNodeName(name); err != nil {
			return fmt.Errorf("%w: dataset at %s: %v", ErrValidation, at, err)
		}
		if len(name) > limits.MaxNameLen {
			return fmt.Errorf("%w: name too long at %s", ErrLimitExceeded, at)
		}
		*count++
		if *count > limits.MaxNodes {
			return fmt.Errorf("%w: too many nodes", ErrLimitExceeded)
		}
		if err := validateArray(arr, at+name, limits); err != nil {
			return err
		}
	}
	return nil
}

func validateArray(a *Array, at string, limits Limits) error {
	if a == nil {
		return fmt.Errorf("%w: nil dataset at %s", ErrValidation, at)
	}
	if len(a.Attrs) > limits.MaxAttributesPerNode {
		return fmt.Errorf("%w: too many attributes at %s", ErrLimitExceeded, at)
	}
	for _, d := range a.Shape {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension at %s", ErrValidation, at)
		}
	}
	n := shapeCount(a.Shape)
	var got int
	switch a.DType {
	case DTypeFloat32:
		got = len(a.Floats)
	case DTypeInt32:
		got = len(a.Ints)
	case DTypeUint8, DTypeBool:
		got = len(a.Bytes)
	case DTypeString:
		got = len(a.Strings)
		for i, s := range a.Strings {
			if !utf8.ValidString(s) {
				return fmt.Errorf("%w: string element %d at %s is not valid UTF-8", ErrValidation, i, at)
			}
		}
	default:
		return fmt.Errorf("%w: unknown dtype %d at %s", ErrValidation, a.DType, at)
	}
	if got != n {
		return fmt.Errorf("%w: dataset %s shape %v needs %d values, has %d", ErrValidation, at, a.Shape, n, got)
	}
	if es := a.elemSize(); es > 0 {
		if uint64(n)*uint64(es) > limits.MaxSingleArrayBytes {
			return fmt.Errorf("%w: dataset %s too large", ErrLimitExceeded, at)
		}
	}
	return nil
}

func validateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is empty")
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("name must not contain slashes: %q", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name must not be a relative path component")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("name is not valid UTF-8")
	}
	return nil
}
