package morphology

import (
	"morpho3d/pkg/strel"
	"morpho3d/pkg/volume"
)

// The brute-force kernels compute every output voxel as a reduction over
// all offsets of the structuring element: O(|strel|) per voxel. They are
// the right tool for small and mid-sized 3D elements; long line segments
// go through the separable filter in vhgw.go instead.
//
// An output voxel p samples vol[p-o] for each offset o = index - anchor
// with the anchor at (dim-1)/2 per axis. The sample deltas are constant
// per tile, so they are flattened to linear offsets into the padded tile
// once and reused for every voxel.

// flatKernel returns a tile kernel for a boolean mask.
func flatKernel[T volume.Element](se *strel.Flat, op Op) tileKernel[T] {
	before := se.HaloBefore()
	ax, ay, az := (se.Width-1)/2, (se.Height-1)/2, (se.Depth-1)/2

	return func(src, dst *volume.Volume[T]) {
		offs := make([]int, 0, len(se.Mask))
		for k := 0; k < se.Depth; k++ {
			for j := 0; j < se.Height; j++ {
				for i := 0; i < se.Width; i++ {
					if se.Mask[(k*se.Height+j)*se.Width+i] {
						offs = append(offs, ((az-k)*src.Height+(ay-j))*src.Width+(ax-i))
					}
				}
			}
		}

		if op == Dilate {
			id := volume.MinValue[T]()
			for z := 0; z < dst.Depth; z++ {
				for y := 0; y < dst.Height; y++ {
					di := dst.Index(0, y, z)
					base := src.Index(before[0], before[1]+y, before[2]+z)
					for x := 0; x < dst.Width; x++ {
						acc := id
						for _, off := range offs {
							if v := src.Data[base+x+off]; v > acc {
								acc = v
							}
						}
						dst.Data[di+x] = acc
					}
				}
			}
			return
		}
		id := volume.MaxValue[T]()
		for z := 0; z < dst.Depth; z++ {
			for y := 0; y < dst.Height; y++ {
				di := dst.Index(0, y, z)
				base := src.Index(before[0], before[1]+y, before[2]+z)
				for x := 0; x < dst.Width; x++ {
					acc := id
					for _, off := range offs {
						if v := src.Data[base+x+off]; v < acc {
							acc = v
						}
					}
					dst.Data[di+x] = acc
				}
			}
		}
	}
}

// genKernel returns a tile kernel for a grayscale structuring element.
// Weights are added (dilation) or subtracted (erosion) in the element type
// itself; integer overflow saturates at the type bounds rather than
// wrapping, matching saturating-array semantics.
func genKernel[T volume.Element](se *strel.General[T], op Op) tileKernel[T] {
	before := se.HaloBefore()
	ax, ay, az := (se.Width-1)/2, (se.Height-1)/2, (se.Depth-1)/2

	return func(src, dst *volume.Volume[T]) {
		offs := make([]int, 0, len(se.Weights))
		wts := make([]T, 0, len(se.Weights))
		for k := 0; k < se.Depth; k++ {
			for j := 0; j < se.Height; j++ {
				for i := 0; i < se.Width; i++ {
					offs = append(offs, ((az-k)*src.Height+(ay-j))*src.Width+(ax-i))
					wts = append(wts, se.Weights[(k*se.Height+j)*se.Width+i])
				}
			}
		}

		if op == Dilate {
			id := volume.MinValue[T]()
			for z := 0; z < dst.Depth; z++ {
				for y := 0; y < dst.Height; y++ {
					di := dst.Index(0, y, z)
					base := src.Index(before[0], before[1]+y, before[2]+z)
					for x := 0; x < dst.Width; x++ {
						acc := id
						for n, off := range offs {
							if v := volume.SatAdd(src.Data[base+x+off], wts[n]); v > acc {
								acc = v
							}
						}
						dst.Data[di+x] = acc
					}
				}
			}
			return
		}
		id := volume.MaxValue[T]()
		for z := 0; z < dst.Depth; z++ {
			for y := 0; y < dst.Height; y++ {
				di := dst.Index(0, y, z)
				base := src.Index(before[0], before[1]+y, before[2]+z)
				for x := 0; x < dst.Width; x++ {
					acc := id
					for n, off := range offs {
						if v := volume.SatSub(src.Data[base+x+off], wts[n]); v < acc {
							acc = v
						}
					}
					dst.Data[di+x] = acc
				}
			}
		}
	}
}
