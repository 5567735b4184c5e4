// Package volume provides the dense 3D array type shared by all morphology
// operations. A volume stores its voxels as a flat slice in x-fastest order,
// the same layout used for raw volume files, so Data[Index(x, y, z)] is the
// voxel at (x, y, z).
package volume

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Element enumerates the voxel types the engine operates on: fixed-width
// signed and unsigned integers plus 32/64-bit floats. The element type fixes
// the reduction identities (see MinValue/MaxValue) and whether arithmetic
// saturates (integers) or runs to infinity (floats).
type Element interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		constraints.Float
}

// Volume is a dense 3D array of voxels.
type Volume[T Element] struct {
	// Data is the voxel data as a 1D array in x-fastest order
	Data []T

	// Width, Height, Depth are the dimensions of the volume in voxels
	// along x, y and z respectively
	Width, Height, Depth int
}

// New allocates a zero-filled volume with the given dimensions.
func New[T Element](width, height, depth int) *Volume[T] {
	return &Volume[T]{
		Data:   make([]T, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
}

// NewFilled allocates a volume with every voxel set to fill.
func NewFilled[T Element](width, height, depth int, fill T) *Volume[T] {
	v := New[T](width, height, depth)
	for i := range v.Data {
		v.Data[i] = fill
	}
	return v
}

// Index returns the position of voxel (x, y, z) in Data.
func (v *Volume[T]) Index(x, y, z int) int {
	return (z*v.Height+y)*v.Width + x
}

// At returns the voxel value at (x, y, z).
func (v *Volume[T]) At(x, y, z int) T {
	return v.Data[(z*v.Height+y)*v.Width+x]
}

// Set stores val at (x, y, z).
func (v *Volume[T]) Set(x, y, z int, val T) {
	v.Data[(z*v.Height+y)*v.Width+x] = val
}

// Inside reports whether (x, y, z) lies within the volume bounds.
func (v *Volume[T]) Inside(x, y, z int) bool {
	return x >= 0 && x < v.Width && y >= 0 && y < v.Height && z >= 0 && z < v.Depth
}

// NumVoxels returns the total voxel count.
func (v *Volume[T]) NumVoxels() int {
	return v.Width * v.Height * v.Depth
}

// Clone returns a deep copy of the volume.
func (v *Volume[T]) Clone() *Volume[T] {
	c := &Volume[T]{
		Data:   make([]T, len(v.Data)),
		Width:  v.Width,
		Height: v.Height,
		Depth:  v.Depth,
	}
	copy(c.Data, v.Data)
	return c
}

// Validate checks that the dimensions are positive and match the data length.
func (v *Volume[T]) Validate() error {
	if v == nil {
		return fmt.Errorf("volume is nil")
	}
	if v.Width < 1 || v.Height < 1 || v.Depth < 1 {
		return fmt.Errorf("volume dimensions must be positive, got %dx%dx%d",
			v.Width, v.Height, v.Depth)
	}
	if len(v.Data) != v.Width*v.Height*v.Depth {
		return fmt.Errorf("volume data length %d does not match dimensions %dx%dx%d",
			len(v.Data), v.Width, v.Height, v.Depth)
	}
	return nil
}
