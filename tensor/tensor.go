// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the shaped-array types consumed and produced
// by the npy and npz codecs.
//
// A RawTensor is an n-dimensional array over a flat byte buffer with
// runtime element-type information. Typed access is provided through
// the generic Elements function:
//
//	t := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	data := tensor.Elements[float64](t) // zero-copy
package tensor

import (
	"github.com/born-ml/npyio/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for supported array element types.
type DType = tensor.DType

// DataType represents the underlying element type of an array.
type DataType = tensor.DataType

// Data type constants.
const (
	Int8       DataType = tensor.Int8
	Int16      DataType = tensor.Int16
	Int32      DataType = tensor.Int32
	Int64      DataType = tensor.Int64
	Uint8      DataType = tensor.Uint8
	Uint16     DataType = tensor.Uint16
	Uint32     DataType = tensor.Uint32
	Uint64     DataType = tensor.Uint64
	Float32    DataType = tensor.Float32
	Float64    DataType = tensor.Float64
	Complex64  DataType = tensor.Complex64
	Complex128 DataType = tensor.Complex128
	Bool       DataType = tensor.Bool
)

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is an n-dimensional array over a flat byte buffer.
type RawTensor = tensor.RawTensor

// NewRaw allocates a zero-filled array with row-major layout.
func NewRaw(dtype DataType, shape Shape) *RawTensor {
	return tensor.NewRaw(dtype, shape)
}

// NewRawWithOrder allocates a zero-filled array; when fortran is true
// the layout is column-major.
func NewRawWithOrder(dtype DataType, shape Shape, fortran bool) *RawTensor {
	return tensor.NewRawWithOrder(dtype, shape, fortran)
}

// FromSlice builds a row-major array holding a copy of the given
// elements.
func FromSlice[T DType](elems []T, shape Shape) *RawTensor {
	return tensor.FromSlice(elems, shape)
}

// Elements reinterprets the array's buffer as a typed slice without
// copying.
func Elements[T DType](t *RawTensor) []T {
	return tensor.Elements[T](t)
}

// InferDataType returns the DataType for a generic element type T.
func InferDataType[T DType]() DataType {
	return tensor.InferDataType[T]()
}
