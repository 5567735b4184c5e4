package morphology

import "errors"

// The engine reports failures through this closed set of sentinel errors.
// Callers match with errors.Is; the wrapped message carries the offending
// parameter. Every call either returns a result of the input's shape and
// type or one of these errors, never a partial result.
//
// There is no invalid-element-type error: the element type is a
// compile-time parameter, so that failure cannot occur.
var (
	// ErrBadOp means the operation code is outside the defined set.
	ErrBadOp = errors.New("morphology: invalid operation code")

	// ErrBadVolume means the input volume has non-positive dimensions or a
	// data length that does not match them.
	ErrBadVolume = errors.New("morphology: invalid volume")

	// ErrBadStrel means the structuring element is malformed: mismatched
	// dimensions, an all-false mask, a negative segment length or a bad
	// ball-approximation parameter.
	ErrBadStrel = errors.New("morphology: invalid structuring element")

	// ErrBadBlockSize means a block-size hint component is negative.
	ErrBadBlockSize = errors.New("morphology: invalid block size")

	// ErrBadWorkers means the worker-count option is negative.
	ErrBadWorkers = errors.New("morphology: invalid worker count")

	// ErrNoWorkers means no compute worker could be acquired. The CPU
	// engine always has at least one; the kind is reserved for accelerated
	// backends with enumerable devices.
	ErrNoWorkers = errors.New("morphology: no compute workers available")

	// ErrInternal wraps a panic caught at the call boundary. It indicates
	// an engine bug and carries the recovered message.
	ErrInternal = errors.New("morphology: internal error")
)
