package morphology

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"morpho3d/pkg/strel"
	"morpho3d/pkg/volume"
)

// FlatMorph applies op to vol with a boolean structuring element.
func FlatMorph[T volume.Element](vol *volume.Volume[T], se *strel.Flat, op Op, opts Options) (*volume.Volume[T], error) {
	return run(vol, op, opts, DefaultBlockSize, se.Validate,
		func() ([3]int, [3]int) { return se.HaloBefore(), se.HaloAfter() },
		func(p Op) tileKernel[T] { return flatKernel[T](se, p) })
}

// GenMorph applies op to vol with a grayscale structuring element. Weights
// are added or subtracted in the element type with saturation at the type
// bounds.
func GenMorph[T volume.Element](vol *volume.Volume[T], se *strel.General[T], op Op, opts Options) (*volume.Volume[T], error) {
	return run(vol, op, opts, DefaultBlockSize, se.Validate,
		func() ([3]int, [3]int) { return se.HaloBefore(), se.HaloAfter() },
		func(p Op) tileKernel[T] { return genKernel(se, p) })
}

// LineMorph applies op to vol with a set of line segments, composed as
// sequential separable passes. The result equals a flat morphology with the
// set's composite shape, computed in time independent of segment lengths.
func LineMorph[T volume.Element](vol *volume.Volume[T], ls *strel.LineSet, op Op, opts Options) (*volume.Volume[T], error) {
	return run(vol, op, opts, DefaultLineBlockSize, ls.Validate,
		func() ([3]int, [3]int) { return ls.HaloBefore(), ls.HaloAfter() },
		func(p Op) tileKernel[T] { return lineKernel[T](ls, p) })
}

// run is the shared call boundary: it validates the request, resolves the
// options, and hands the composed operation a primitive dilate/erode runner
// backed by the tiled executor.
func run[T volume.Element](
	vol *volume.Volume[T],
	op Op,
	opts Options,
	defBlock [3]int,
	validateStrel func() error,
	halos func() (before, after [3]int),
	kernelFor func(p Op) tileKernel[T],
) (res *volume.Volume[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if !op.valid() {
		return nil, fmt.Errorf("%w: %d", ErrBadOp, op)
	}
	if verr := vol.Validate(); verr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVolume, verr)
	}
	if serr := validateStrel(); serr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStrel, serr)
	}
	block, workers, log, err := opts.resolve(defBlock)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"op":     op.String(),
		"volume": fmt.Sprintf("%dx%dx%d", vol.Width, vol.Height, vol.Depth),
	}).Debug("morphology call")

	before, after := halos()
	prim := func(v *volume.Volume[T], p Op) (*volume.Volume[T], error) {
		return runTiled(v, identity[T](p), before, after, block, workers, log, kernelFor(p))
	}
	return compose(vol, op, prim)
}

// identity is the padding value absorbed by the primitive's reduction.
func identity[T volume.Element](p Op) T {
	if p == Dilate {
		return volume.MinValue[T]()
	}
	return volume.MaxValue[T]()
}

// compose expands a derived operation into its dilate/erode chain:
//
//	open   = dilate(erode(v))
//	close  = erode(dilate(v))
//	tophat = v - open(v)
//	bothat = close(v) - v
//
// Subtraction saturates at the element type's bounds.
func compose[T volume.Element](
	vol *volume.Volume[T],
	op Op,
	prim func(*volume.Volume[T], Op) (*volume.Volume[T], error),
) (*volume.Volume[T], error) {
	switch op {
	case Dilate, Erode:
		return prim(vol, op)
	case Open:
		er, err := prim(vol, Erode)
		if err != nil {
			return nil, err
		}
		return prim(er, Dilate)
	case Close:
		di, err := prim(vol, Dilate)
		if err != nil {
			return nil, err
		}
		return prim(di, Erode)
	case TopHat:
		opened, err := compose(vol, Open, prim)
		if err != nil {
			return nil, err
		}
		return subtract(vol, opened), nil
	case BotHat:
		closed, err := compose(vol, Close, prim)
		if err != nil {
			return nil, err
		}
		return subtract(closed, vol), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadOp, op)
	}
}

func subtract[T volume.Element](a, b *volume.Volume[T]) *volume.Volume[T] {
	out := volume.New[T](a.Width, a.Height, a.Depth)
	for i := range out.Data {
		out.Data[i] = volume.SatSub(a.Data[i], b.Data[i])
	}
	return out
}

// Per-operation wrappers, one set per structuring-element kind.

func FlatDilate[T volume.Element](vol *volume.Volume[T], se *strel.Flat, opts Options) (*volume.Volume[T], error) {
	return FlatMorph(vol, se, Dilate, opts)
}

func FlatErode[T volume.Element](vol *volume.Volume[T], se *strel.Flat, opts Options) (*volume.Volume[T], error) {
	return FlatMorph(vol, se, Erode, opts)
}

func FlatOpen[T volume.Element](vol *volume.Volume[T], se *strel.Flat, opts Options) (*volume.Volume[T], error) {
	return FlatMorph(vol, se, Open, opts)
}

func FlatClose[T volume.Element](vol *volume.Volume[T], se *strel.Flat, opts Options) (*volume.Volume[T], error) {
	return FlatMorph(vol, se, Close, opts)
}

func FlatTopHat[T volume.Element](vol *volume.Volume[T], se *strel.Flat, opts Options) (*volume.Volume[T], error) {
	return FlatMorph(vol, se, TopHat, opts)
}

func FlatBotHat[T volume.Element](vol *volume.Volume[T], se *strel.Flat, opts Options) (*volume.Volume[T], error) {
	return FlatMorph(vol, se, BotHat, opts)
}

func GenDilate[T volume.Element](vol *volume.Volume[T], se *strel.General[T], opts Options) (*volume.Volume[T], error) {
	return GenMorph(vol, se, Dilate, opts)
}

func GenErode[T volume.Element](vol *volume.Volume[T], se *strel.General[T], opts Options) (*volume.Volume[T], error) {
	return GenMorph(vol, se, Erode, opts)
}

func GenOpen[T volume.Element](vol *volume.Volume[T], se *strel.General[T], opts Options) (*volume.Volume[T], error) {
	return GenMorph(vol, se, Open, opts)
}

func GenClose[T volume.Element](vol *volume.Volume[T], se *strel.General[T], opts Options) (*volume.Volume[T], error) {
	return GenMorph(vol, se, Close, opts)
}

func GenTopHat[T volume.Element](vol *volume.Volume[T], se *strel.General[T], opts Options) (*volume.Volume[T], error) {
	return GenMorph(vol, se, TopHat, opts)
}

func GenBotHat[T volume.Element](vol *volume.Volume[T], se *strel.General[T], opts Options) (*volume.Volume[T], error) {
	return GenMorph(vol, se, BotHat, opts)
}

func LineDilate[T volume.Element](vol *volume.Volume[T], ls *strel.LineSet, opts Options) (*volume.Volume[T], error) {
	return LineMorph(vol, ls, Dilate, opts)
}

func LineErode[T volume.Element](vol *volume.Volume[T], ls *strel.LineSet, opts Options) (*volume.Volume[T], error) {
	return LineMorph(vol, ls, Erode, opts)
}

func LineOpen[T volume.Element](vol *volume.Volume[T], ls *strel.LineSet, opts Options) (*volume.Volume[T], error) {
	return LineMorph(vol, ls, Open, opts)
}

func LineClose[T volume.Element](vol *volume.Volume[T], ls *strel.LineSet, opts Options) (*volume.Volume[T], error) {
	return LineMorph(vol, ls, Close, opts)
}

func LineTopHat[T volume.Element](vol *volume.Volume[T], ls *strel.LineSet, opts Options) (*volume.Volume[T], error) {
	return LineMorph(vol, ls, TopHat, opts)
}

func LineBotHat[T volume.Element](vol *volume.Volume[T], ls *strel.LineSet, opts Options) (*volume.Volume[T], error) {
	return LineMorph(vol, ls, BotHat, opts)
}
