package volume

import "math"

// MinValue returns the lowest representable value of T: the type minimum for
// integers and -Inf for floats. It is the identity (and halo padding value)
// for dilation, since no voxel can compare below it.
func MinValue[T Element]() T {
	var z T
	switch any(z).(type) {
	case int8:
		v := int8(math.MinInt8)
		return T(v)
	case int16:
		v := int16(math.MinInt16)
		return T(v)
	case int32:
		v := int32(math.MinInt32)
		return T(v)
	case int64:
		v := int64(math.MinInt64)
		return T(v)
	case uint8, uint16, uint32, uint64:
		return T(z)
	default:
		return T(math.Inf(-1))
	}
}

// MaxValue returns the highest representable value of T: the type maximum for
// integers and +Inf for floats. It is the identity (and halo padding value)
// for erosion.
func MaxValue[T Element]() T {
	var z T
	switch any(z).(type) {
	case int8:
		v := int8(math.MaxInt8)
		return T(v)
	case int16:
		v := int16(math.MaxInt16)
		return T(v)
	case int32:
		v := int32(math.MaxInt32)
		return T(v)
	case int64:
		v := int64(math.MaxInt64)
		return T(v)
	case uint8:
		v := uint8(math.MaxUint8)
		return T(v)
	case uint16:
		v := uint16(math.MaxUint16)
		return T(v)
	case uint32:
		v := uint32(math.MaxUint32)
		return T(v)
	case uint64:
		v := uint64(math.MaxUint64)
		return T(v)
	default:
		return T(math.Inf(1))
	}
}

// SatAdd returns a+b, clamped to the bounds of T when integer addition would
// wrap. Floats pass through unchanged: IEEE addition already saturates to
// infinity, so the overflow branches never trigger.
func SatAdd[T Element](a, b T) T {
	s := a + b
	if b > 0 && s < a {
		return MaxValue[T]()
	}
	if b < 0 && s > a {
		return MinValue[T]()
	}
	return s
}

// SatSub returns a-b with the same clamping policy as SatAdd.
func SatSub[T Element](a, b T) T {
	s := a - b
	if b > 0 && s > a {
		return MinValue[T]()
	}
	if b < 0 && s < a {
		return MaxValue[T]()
	}
	return s
}
