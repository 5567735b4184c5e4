package volume

import (
	"math"
	"testing"
)

func TestIndexing(t *testing.T) {
	v := New[float64](4, 3, 2)
	if got := v.NumVoxels(); got != 24 {
		t.Fatalf("Expected 24 voxels, got %d", got)
	}

	// Index must walk x fastest, then y, then z.
	want := 0
	for z := 0; z < v.Depth; z++ {
		for y := 0; y < v.Height; y++ {
			for x := 0; x < v.Width; x++ {
				if got := v.Index(x, y, z); got != want {
					t.Fatalf("Index(%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
				want++
			}
		}
	}

	v.Set(2, 1, 1, 7.5)
	if got := v.At(2, 1, 1); got != 7.5 {
		t.Errorf("At(2,1,1) = %v, want 7.5", got)
	}
}

func TestInside(t *testing.T) {
	v := New[uint8](4, 3, 2)
	cases := []struct {
		x, y, z int
		want    bool
	}{
		{0, 0, 0, true},
		{3, 2, 1, true},
		{4, 0, 0, false},
		{0, 3, 0, false},
		{0, 0, 2, false},
		{-1, 0, 0, false},
		{0, -1, 0, false},
		{0, 0, -1, false},
	}
	for _, c := range cases {
		if got := v.Inside(c.x, c.y, c.z); got != c.want {
			t.Errorf("Inside(%d,%d,%d) = %v, want %v", c.x, c.y, c.z, got, c.want)
		}
	}
}

func TestNewFilledAndClone(t *testing.T) {
	v := NewFilled[int16](3, 3, 3, -5)
	for i, x := range v.Data {
		if x != -5 {
			t.Fatalf("Voxel %d = %d, want -5", i, x)
		}
	}

	c := v.Clone()
	c.Data[0] = 9
	if v.Data[0] != -5 {
		t.Error("Clone shares storage with the original")
	}
}

func TestValidate(t *testing.T) {
	good := New[float32](2, 2, 2)
	if err := good.Validate(); err != nil {
		t.Fatalf("Valid volume rejected: %v", err)
	}

	bad := []*Volume[float32]{
		nil,
		{Data: make([]float32, 8), Width: 0, Height: 2, Depth: 2},
		{Data: make([]float32, 8), Width: 2, Height: -1, Depth: 2},
		{Data: make([]float32, 7), Width: 2, Height: 2, Depth: 2},
		{Data: nil, Width: 2, Height: 2, Depth: 2},
	}
	for i, v := range bad {
		if err := v.Validate(); err == nil {
			t.Errorf("Case %d: invalid volume accepted", i)
		}
	}
}

func TestLimits(t *testing.T) {
	if got := MinValue[uint8](); got != 0 {
		t.Errorf("MinValue[uint8] = %d, want 0", got)
	}
	if got := MaxValue[uint8](); got != math.MaxUint8 {
		t.Errorf("MaxValue[uint8] = %d, want %d", got, math.MaxUint8)
	}
	if got := MinValue[int16](); got != math.MinInt16 {
		t.Errorf("MinValue[int16] = %d, want %d", got, math.MinInt16)
	}
	if got := MaxValue[int64](); got != math.MaxInt64 {
		t.Errorf("MaxValue[int64] = %d, want %d", got, math.MaxInt64)
	}
	if got := MinValue[float64](); !math.IsInf(got, -1) {
		t.Errorf("MinValue[float64] = %v, want -Inf", got)
	}
	if got := float64(MaxValue[float32]()); !math.IsInf(got, 1) {
		t.Errorf("MaxValue[float32] = %v, want +Inf", got)
	}
}

func TestSaturatingAdd(t *testing.T) {
	if got := SatAdd[uint8](200, 100); got != 255 {
		t.Errorf("SatAdd(200, 100) = %d, want 255", got)
	}
	if got := SatAdd[int8](100, 50); got != 127 {
		t.Errorf("SatAdd(100, 50) = %d, want 127", got)
	}
	if got := SatAdd[int8](-100, -50); got != -128 {
		t.Errorf("SatAdd(-100, -50) = %d, want -128", got)
	}
	if got := SatAdd[int32](40, 2); got != 42 {
		t.Errorf("SatAdd(40, 2) = %d, want 42", got)
	}
	if got := SatAdd[float64](1.5, 2.25); got != 3.75 {
		t.Errorf("SatAdd(1.5, 2.25) = %v, want 3.75", got)
	}
}

func TestSaturatingSub(t *testing.T) {
	if got := SatSub[uint8](100, 200); got != 0 {
		t.Errorf("SatSub(100, 200) = %d, want 0", got)
	}
	if got := SatSub[int8](-100, 50); got != -128 {
		t.Errorf("SatSub(-100, 50) = %d, want -128", got)
	}
	if got := SatSub[int8](100, -50); got != 127 {
		t.Errorf("SatSub(100, -50) = %d, want 127", got)
	}
	if got := SatSub[int32](44, 2); got != 42 {
		t.Errorf("SatSub(44, 2) = %d, want 42", got)
	}
	if got := SatSub[float64](1.5, 2.25); got != -0.75 {
		t.Errorf("SatSub(1.5, 2.25) = %v, want -0.75", got)
	}
}
