package morphology

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"morpho3d/pkg/volume"
)

// block3 describes one output block of the tiling: an axis-aligned region
// of the result volume. The corresponding input tile is the block enlarged
// by the structuring element's halo and padded with the operation identity
// where it leaves the volume.
type block3 struct {
	x0, y0, z0 int
	dx, dy, dz int
}

// tileKernel computes one output block. src is the padded input tile: the
// block region starts at the halo-before offset inside it. The kernel must
// write every voxel of dst, which has the block's dimensions.
type tileKernel[T volume.Element] func(src *volume.Volume[T], dst *volume.Volume[T])

// runTiled partitions the volume into output blocks, processes them on a
// bounded worker pool and stitches the results. Blocks are fully
// independent: each worker reads only the input volume (plus identity
// padding) and writes a disjoint region of the result, so no synchronization
// beyond the group wait is needed. The stitched output is bit-identical for
// every block size.
func runTiled[T volume.Element](
	vol *volume.Volume[T],
	pad T,
	before, after [3]int,
	block [3]int,
	workers int,
	log *logrus.Logger,
	kernel tileKernel[T],
) (*volume.Volume[T], error) {
	res := volume.New[T](vol.Width, vol.Height, vol.Depth)

	nx := (vol.Width + block[0] - 1) / block[0]
	ny := (vol.Height + block[1] - 1) / block[1]
	nz := (vol.Depth + block[2] - 1) / block[2]
	log.WithFields(logrus.Fields{
		"blocks":  nx * ny * nz,
		"block":   fmt.Sprintf("%dx%dx%d", block[0], block[1], block[2]),
		"halo":    fmt.Sprintf("%v+%v", before, after),
		"workers": workers,
	}).Debug("dispatching tiles")

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for z0 := 0; z0 < vol.Depth; z0 += block[2] {
		for y0 := 0; y0 < vol.Height; y0 += block[1] {
			for x0 := 0; x0 < vol.Width; x0 += block[0] {
				b := block3{
					x0: x0, y0: y0, z0: z0,
					dx: min(block[0], vol.Width-x0),
					dy: min(block[1], vol.Height-y0),
					dz: min(block[2], vol.Depth-z0),
				}
				g.Go(func() (err error) {
					defer func() {
						if r := recover(); r != nil {
							err = fmt.Errorf("%w: tile (%d,%d,%d): %v",
								ErrInternal, b.x0, b.y0, b.z0, r)
						}
					}()
					src := extractPadded(vol, b, before, after, pad)
					dst := volume.New[T](b.dx, b.dy, b.dz)
					kernel(src, dst)
					commitBlock(res, dst, b)
					return nil
				})
			}
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// extractPadded copies the input region of block b, enlarged by the halo,
// into a fresh tile. Cells outside the volume are filled with pad, the
// absorbing identity of the operation, so they never win the reduction.
func extractPadded[T volume.Element](
	vol *volume.Volume[T],
	b block3,
	before, after [3]int,
	pad T,
) *volume.Volume[T] {
	sw := b.dx + before[0] + after[0]
	sh := b.dy + before[1] + after[1]
	sd := b.dz + before[2] + after[2]
	src := volume.NewFilled(sw, sh, sd, pad)

	for sz := 0; sz < sd; sz++ {
		wz := b.z0 - before[2] + sz
		if wz < 0 || wz >= vol.Depth {
			continue
		}
		for sy := 0; sy < sh; sy++ {
			wy := b.y0 - before[1] + sy
			if wy < 0 || wy >= vol.Height {
				continue
			}
			wx := b.x0 - before[0]
			sx := 0
			n := sw
			if wx < 0 {
				sx = -wx
				n -= sx
				wx = 0
			}
			if wx+n > vol.Width {
				n = vol.Width - wx
			}
			if n <= 0 {
				continue
			}
			si := src.Index(sx, sy, sz)
			wi := vol.Index(wx, wy, wz)
			copy(src.Data[si:si+n], vol.Data[wi:wi+n])
		}
	}
	return src
}

// commitBlock copies a finished block into its region of the result.
func commitBlock[T volume.Element](res, dst *volume.Volume[T], b block3) {
	for z := 0; z < b.dz; z++ {
		for y := 0; y < b.dy; y++ {
			di := dst.Index(0, y, z)
			ri := res.Index(b.x0, b.y0+y, b.z0+z)
			copy(res.Data[ri:ri+b.dx], dst.Data[di:di+b.dx])
		}
	}
}
