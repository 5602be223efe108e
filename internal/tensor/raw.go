package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is an n-dimensional array over a flat byte buffer. The
// element type is tracked at runtime; strides are expressed in
// elements, not bytes, and may describe non-contiguous layouts
// produced by Permute or Reversed.
type RawTensor struct {
	data    []byte
	shape   Shape
	strides []int
	dtype   DataType
}

// NewRaw allocates a zero-filled tensor with row-major layout.
func NewRaw(dtype DataType, shape Shape) *RawTensor {
	return NewRawWithOrder(dtype, shape, false)
}

// NewRawWithOrder allocates a zero-filled tensor. When fortran is true
// the strides describe column-major layout.
func NewRawWithOrder(dtype DataType, shape Shape, fortran bool) *RawTensor {
	s := shape.Clone()
	strides := s.RowMajorStrides()
	if fortran {
		strides = s.ColMajorStrides()
	}
	return &RawTensor{
		data:    make([]byte, s.NumElements()*dtype.Size()),
		shape:   s,
		strides: strides,
		dtype:   dtype,
	}
}

// WrapBytes builds a tensor that aliases data without copying. The
// caller guarantees len(data) == shape.NumElements()*dtype.Size().
// When fortran is true the buffer is interpreted in column-major
// order.
func WrapBytes(data []byte, dtype DataType, shape Shape, fortran bool) *RawTensor {
	s := shape.Clone()
	strides := s.RowMajorStrides()
	if fortran {
		strides = s.ColMajorStrides()
	}
	return &RawTensor{data: data, shape: s, strides: strides, dtype: dtype}
}

// FromSlice builds a row-major tensor holding a copy of the given
// elements. It panics if the element count does not match the shape.
func FromSlice[T DType](elems []T, shape Shape) *RawTensor {
	if len(elems) != shape.NumElements() {
		panic(fmt.Sprintf("FromSlice: %d elements for shape %s", len(elems), shape))
	}
	t := NewRaw(InferDataType[T](), shape)
	copy(Elements[T](t), elems)
	return t
}

// DataType returns the element type.
func (t *RawTensor) DataType() DataType {
	return t.dtype
}

// Shape returns the tensor's dimensions. The returned slice must not
// be modified.
func (t *RawTensor) Shape() Shape {
	return t.shape
}

// Strides returns the per-dimension strides in elements. The returned
// slice must not be modified.
func (t *RawTensor) Strides() []int {
	return t.strides
}

// Bytes returns the underlying buffer. For non-contiguous views this
// is the full buffer of the tensor the view was derived from.
func (t *RawTensor) Bytes() []byte {
	return t.data
}

// NumElements returns the number of logical elements.
func (t *RawTensor) NumElements() int {
	return t.shape.NumElements()
}

// IsStandardLayout reports whether the tensor is contiguous in
// row-major order. Dimensions of extent one contribute nothing to the
// layout and their strides are ignored.
func (t *RawTensor) IsStandardLayout() bool {
	stride := 1
	for i := len(t.shape) - 1; i >= 0; i-- {
		if t.shape[i] != 1 && t.strides[i] != stride {
			return false
		}
		stride *= t.shape[i]
	}
	return true
}

// IsFortranLayout reports whether the tensor is contiguous in
// column-major order.
func (t *RawTensor) IsFortranLayout() bool {
	stride := 1
	for i := 0; i < len(t.shape); i++ {
		if t.shape[i] != 1 && t.strides[i] != stride {
			return false
		}
		stride *= t.shape[i]
	}
	return true
}

// Reversed returns a view with the axis order reversed, sharing the
// underlying buffer. The transpose of a row-major tensor is
// Fortran-contiguous and vice versa.
func (t *RawTensor) Reversed() *RawTensor {
	n := len(t.shape)
	shape := make(Shape, n)
	strides := make([]int, n)
	for i := 0; i < n; i++ {
		shape[i] = t.shape[n-1-i]
		strides[i] = t.strides[n-1-i]
	}
	return &RawTensor{data: t.data, shape: shape, strides: strides, dtype: t.dtype}
}

// Permute returns a view with axes reordered by perm, sharing the
// underlying buffer. It panics if perm is not a permutation of the
// axis indices.
func (t *RawTensor) Permute(perm []int) *RawTensor {
	if len(perm) != len(t.shape) {
		panic(fmt.Sprintf("Permute: %d indices for %d axes", len(perm), len(t.shape)))
	}
	seen := make([]bool, len(perm))
	shape := make(Shape, len(perm))
	strides := make([]int, len(perm))
	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			panic(fmt.Sprintf("Permute: invalid permutation %v", perm))
		}
		seen[p] = true
		shape[i] = t.shape[p]
		strides[i] = t.strides[p]
	}
	return &RawTensor{data: t.data, shape: shape, strides: strides, dtype: t.dtype}
}

// ElementOffset converts a linear row-major logical index into an
// element offset in the underlying buffer, honoring strides.
func (t *RawTensor) ElementOffset(linear int) int {
	offset := 0
	for i := len(t.shape) - 1; i >= 0; i-- {
		if t.shape[i] == 0 {
			return 0
		}
		offset += (linear % t.shape[i]) * t.strides[i]
		linear /= t.shape[i]
	}
	return offset
}

// Equal reports whether two tensors have the same element type, shape,
// and logical content, regardless of layout.
func (t *RawTensor) Equal(other *RawTensor) bool {
	if t.dtype != other.dtype || !t.shape.Equal(other.shape) {
		return false
	}
	size := t.dtype.Size()
	n := t.NumElements()
	for i := 0; i < n; i++ {
		a := t.ElementOffset(i) * size
		b := other.ElementOffset(i) * size
		for k := 0; k < size; k++ {
			if t.data[a+k] != other.data[b+k] {
				return false
			}
		}
	}
	return true
}

// Elements reinterprets the tensor's buffer as a typed slice without
// copying. It panics if T does not match the tensor's element type.
// For non-contiguous views the slice covers the full underlying buffer
// in storage order.
func Elements[T DType](t *RawTensor) []T {
	want := InferDataType[T]()
	if t.dtype != want {
		panic(fmt.Sprintf("Elements: tensor is %s, not %s", t.dtype, want))
	}
	if len(t.data) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&t.data[0])), len(t.data)/t.dtype.Size())
}
