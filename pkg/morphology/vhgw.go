package morphology

import (
	"morpho3d/pkg/strel"
	"morpho3d/pkg/volume"
)

// The line kernel dilates or erodes by each segment of a set in turn, with
// every pass running the van Herk/Gil-Werman sliding-extremum filter along
// the segment's step direction: per 1D line, forward and backward running
// extrema over length-L chunks answer any length-L window in O(1), so a
// pass costs O(N) regardless of segment length.
//
// Passes run strictly in the order the caller gave. For a pure min/max
// chain the order does not change the exact result, but once integer
// saturation clips an intermediate value it can, so reordering is not a
// legal optimization.

// lineScratch reuses the per-line work buffers across all lines and passes
// of one tile.
type lineScratch[T volume.Element] struct {
	idx           []int
	vals, out     []T
	buf, fwd, bwd []T
}

// lineKernel returns a tile kernel applying every segment of the set
// sequentially over the padded tile, then extracting the block region.
// Each pass consumes the previous pass's committed output; the accumulated
// halo shrinks the valid region pass by pass, ending exactly at the block.
func lineKernel[T volume.Element](ls *strel.LineSet, op Op) tileKernel[T] {
	before := ls.HaloBefore()

	return func(src, dst *volume.Volume[T]) {
		sc := &lineScratch[T]{}
		for _, seg := range ls.Segments {
			applyLineSegment(src, seg, op, sc)
		}
		for z := 0; z < dst.Depth; z++ {
			for y := 0; y < dst.Height; y++ {
				si := src.Index(before[0], before[1]+y, before[2]+z)
				di := dst.Index(0, y, z)
				copy(dst.Data[di:di+dst.Width], src.Data[si:si+dst.Width])
			}
		}
	}
}

// applyLineSegment runs one separable pass in place. It walks every grid
// line parallel to the step vector, filters it, and writes the result back.
// Length 0 and 1 segments are identity passes and return immediately.
func applyLineSegment[T volume.Element](vol *volume.Volume[T], seg strel.LineSegment, op Op, sc *lineScratch[T]) {
	if seg.Length < 2 {
		return
	}
	s := seg.Step
	id := volume.MinValue[T]()
	if op != Dilate {
		id = volume.MaxValue[T]()
	}

	for z := 0; z < vol.Depth; z++ {
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				// Line starts are voxels whose predecessor along the step
				// falls outside the tile.
				if vol.Inside(x-s[0], y-s[1], z-s[2]) {
					continue
				}
				sc.idx = sc.idx[:0]
				for px, py, pz := x, y, z; vol.Inside(px, py, pz); px, py, pz = px+s[0], py+s[1], pz+s[2] {
					sc.idx = append(sc.idx, vol.Index(px, py, pz))
				}
				sc.vals = growBuf(sc.vals, len(sc.idx))
				sc.out = growBuf(sc.out, len(sc.idx))
				for i, vi := range sc.idx {
					sc.vals[i] = vol.Data[vi]
				}
				vhgwLine(sc, seg.Length, id, op == Dilate)
				for i, vi := range sc.idx {
					vol.Data[vi] = sc.out[i]
				}
			}
		}
	}
}

// vhgwLine filters sc.vals into sc.out with a sliding window of the given
// length. The window reaches length/2 samples beyond the output toward the
// line start and (length-1)/2 toward its end (the shared anchor
// convention); positions past either end contribute the identity.
func vhgwLine[T volume.Element](sc *lineScratch[T], window int, id T, useMax bool) {
	n := len(sc.vals)
	a := (window - 1) / 2
	b := window - 1 - a
	nc := (b + n + a + window - 1) / window * window

	sc.buf = growBuf(sc.buf, nc)
	sc.fwd = growBuf(sc.fwd, nc)
	sc.bwd = growBuf(sc.bwd, nc)
	for i := range sc.buf {
		sc.buf[i] = id
	}
	copy(sc.buf[b:], sc.vals[:n])

	buf, fwd, bwd := sc.buf, sc.fwd, sc.bwd
	for c := 0; c < nc; c += window {
		fwd[c] = buf[c]
		bwd[c+window-1] = buf[c+window-1]
		if useMax {
			for i := c + 1; i < c+window; i++ {
				fwd[i] = fwd[i-1]
				if buf[i] > fwd[i] {
					fwd[i] = buf[i]
				}
			}
			for i := c + window - 2; i >= c; i-- {
				bwd[i] = bwd[i+1]
				if buf[i] > bwd[i] {
					bwd[i] = buf[i]
				}
			}
		} else {
			for i := c + 1; i < c+window; i++ {
				fwd[i] = fwd[i-1]
				if buf[i] < fwd[i] {
					fwd[i] = buf[i]
				}
			}
			for i := c + window - 2; i >= c; i-- {
				bwd[i] = bwd[i+1]
				if buf[i] < bwd[i] {
					bwd[i] = buf[i]
				}
			}
		}
	}

	// Window for output t spans buf[t : t+window-1], covered by the
	// backward extremum of its left chunk and the forward extremum of its
	// right chunk.
	if useMax {
		for t := 0; t < n; t++ {
			v := bwd[t]
			if w := fwd[t+window-1]; w > v {
				v = w
			}
			sc.out[t] = v
		}
	} else {
		for t := 0; t < n; t++ {
			v := bwd[t]
			if w := fwd[t+window-1]; w < v {
				v = w
			}
			sc.out[t] = v
		}
	}
}

func growBuf[T volume.Element](s []T, n int) []T {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]T, n)
}
