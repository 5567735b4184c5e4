// Package strel defines the three structuring-element kinds used by the
// morphology engine: flat boolean masks, general (grayscale) kernels and
// sets of flat line segments. It also provides the zonohedral ball
// approximation that decomposes a discrete sphere into 13 line segments.
//
// All structuring elements share one anchor convention: along an axis of
// extent d the anchor sits at index (d-1)/2, so the sampling offsets span
// [-(d-1)/2, d/2]. An output voxel p reads vol[p-o] for each offset o, for
// dilation and erosion alike. The per-axis halo a tile scheduler must read
// around an output block follows directly from that offset range and is
// exposed through HaloBefore/HaloAfter.
package strel

import (
	"fmt"

	"morpho3d/pkg/volume"
)

// Flat is a boolean neighborhood mask. True entries are included in the
// reduction, false entries are ignored. Mask is stored in x-fastest order
// like volume data.
type Flat struct {
	Mask                 []bool
	Width, Height, Depth int
}

// General is a grayscale structuring element with the same element type as
// the volume it is applied to. Weights are added before a dilation maximum
// and subtracted before an erosion minimum.
type General[T volume.Element] struct {
	Weights              []T
	Width, Height, Depth int
}

// LineSegment is a run of Length voxels along an integer step direction.
// A length of 0 (or 1) leaves the volume unchanged.
type LineSegment struct {
	// Step is the direction of the line as (x, y, z) voxel increments.
	// Documented usage is a primitive vector (component gcd 1), but any
	// non-zero integer vector is accepted.
	Step [3]int

	// Length is the number of voxels on the line.
	Length int
}

// LineSet is an ordered sequence of line segments applied as sequential
// dilation/erosion passes. The Minkowski sum of the segments is the combined
// structuring element; for shapes that are not exact unions of the step
// directions (spheres in particular) the set is an approximation.
type LineSet struct {
	Segments []LineSegment
}

// NewBox returns a solid all-true flat mask of the given dimensions.
func NewBox(width, height, depth int) *Flat {
	f := &Flat{
		Mask:   make([]bool, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	for i := range f.Mask {
		f.Mask[i] = true
	}
	return f
}

// Validate checks dimensions, data length and that the mask selects at least
// one offset. An all-false mask is rejected: the reduction would consist of
// nothing but the padding identity.
func (f *Flat) Validate() error {
	if f == nil {
		return fmt.Errorf("flat structuring element is nil")
	}
	if f.Width < 1 || f.Height < 1 || f.Depth < 1 {
		return fmt.Errorf("flat structuring element dimensions must be positive, got %dx%dx%d",
			f.Width, f.Height, f.Depth)
	}
	if len(f.Mask) != f.Width*f.Height*f.Depth {
		return fmt.Errorf("flat structuring element mask length %d does not match dimensions %dx%dx%d",
			len(f.Mask), f.Width, f.Height, f.Depth)
	}
	for _, m := range f.Mask {
		if m {
			return nil
		}
	}
	return fmt.Errorf("flat structuring element mask is all false")
}

// HaloBefore returns the halo extent needed on the low side of each axis.
func (f *Flat) HaloBefore() [3]int {
	return [3]int{f.Width / 2, f.Height / 2, f.Depth / 2}
}

// HaloAfter returns the halo extent needed on the high side of each axis.
func (f *Flat) HaloAfter() [3]int {
	return [3]int{(f.Width - 1) / 2, (f.Height - 1) / 2, (f.Depth - 1) / 2}
}

// Validate checks dimensions and data length.
func (g *General[T]) Validate() error {
	if g == nil {
		return fmt.Errorf("general structuring element is nil")
	}
	if g.Width < 1 || g.Height < 1 || g.Depth < 1 {
		return fmt.Errorf("general structuring element dimensions must be positive, got %dx%dx%d",
			g.Width, g.Height, g.Depth)
	}
	if len(g.Weights) != g.Width*g.Height*g.Depth {
		return fmt.Errorf("general structuring element weight length %d does not match dimensions %dx%dx%d",
			len(g.Weights), g.Width, g.Height, g.Depth)
	}
	return nil
}

// HaloBefore returns the halo extent needed on the low side of each axis.
func (g *General[T]) HaloBefore() [3]int {
	return [3]int{g.Width / 2, g.Height / 2, g.Depth / 2}
}

// HaloAfter returns the halo extent needed on the high side of each axis.
func (g *General[T]) HaloAfter() [3]int {
	return [3]int{(g.Width - 1) / 2, (g.Height - 1) / 2, (g.Depth - 1) / 2}
}

// anchorReach returns how far the segment samples reach from the anchor:
// a steps toward the segment end, b steps toward its start. The sampling
// offsets along the line are k*Step for k in [-a, b], read as vol[p-o].
func (s LineSegment) anchorReach() (a, b int) {
	if s.Length < 2 {
		return 0, 0
	}
	a = (s.Length - 1) / 2
	b = s.Length - 1 - a
	return a, b
}

// Validate rejects negative lengths and zero step vectors on segments that
// actually move. Duplicate or non-primitive directions are allowed.
func (s LineSegment) Validate() error {
	if s.Length < 0 {
		return fmt.Errorf("line segment length must be non-negative, got %d", s.Length)
	}
	if s.Length > 1 && s.Step == [3]int{} {
		return fmt.Errorf("line segment with length %d has zero step vector", s.Length)
	}
	return nil
}

// Validate checks every segment in the set. An empty set is legal and acts
// as the identity.
func (ls *LineSet) Validate() error {
	if ls == nil {
		return fmt.Errorf("line set is nil")
	}
	for i, s := range ls.Segments {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("segment %d: %v", i, err)
		}
	}
	return nil
}

// HaloBefore returns the summed low-side halo over all segments. Passes are
// sequential, so each segment's reach accumulates.
func (ls *LineSet) HaloBefore() [3]int {
	var h [3]int
	for _, s := range ls.Segments {
		a, b := s.anchorReach()
		for i := 0; i < 3; i++ {
			lo := a * s.Step[i]
			if hi := -b * s.Step[i]; hi < lo {
				lo = hi
			}
			if lo < 0 {
				h[i] -= lo
			}
		}
	}
	return h
}

// HaloAfter returns the summed high-side halo over all segments.
func (ls *LineSet) HaloAfter() [3]int {
	var h [3]int
	for _, s := range ls.Segments {
		a, b := s.anchorReach()
		for i := 0; i < 3; i++ {
			hi := a * s.Step[i]
			if lo := -b * s.Step[i]; lo > hi {
				hi = lo
			}
			if hi > 0 {
				h[i] += hi
			}
		}
	}
	return h
}
