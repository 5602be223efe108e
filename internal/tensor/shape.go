package tensor

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooManyElements is returned when the product of a shape's
// dimensions does not fit in an int64.
var ErrTooManyElements = errors.New("shape element count overflows int64")

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of elements, the product of all
// dimensions. An empty shape describes a scalar and has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// CheckedNumElements returns the total number of elements, or
// ErrTooManyElements if the product overflows.
func (s Shape) CheckedNumElements() (int64, error) {
	n := int64(1)
	for _, dim := range s {
		d := int64(dim)
		if d != 0 && n > math.MaxInt64/d {
			return 0, ErrTooManyElements
		}
		n *= d
	}
	return n, nil
}

// NumDims returns the number of dimensions.
func (s Shape) NumDims() int {
	return len(s)
}

// Validate checks that all dimensions are non-negative. Zero-sized
// dimensions are legal and describe an empty array.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("dimension %d is negative: %d", i, dim)
		}
	}
	return nil
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns a human-readable representation like "(2, 3)".
func (s Shape) String() string {
	out := "("
	for i, dim := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d", dim)
	}
	return out + ")"
}

// RowMajorStrides computes strides, in elements, for row-major
// (C-order) layout.
func (s Shape) RowMajorStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}

// ColMajorStrides computes strides, in elements, for column-major
// (Fortran-order) layout.
func (s Shape) ColMajorStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i := 0; i < len(s); i++ {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}
