// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package npy reads and writes the NumPy .npy single-array binary
// format.
//
// Arrays can be decoded into freshly allocated memory with Read, or
// reinterpreted in place over an existing buffer with View and
// ViewMut — typically a memory-mapped file, for which OpenMapped and
// OpenMappedMut are provided:
//
//	m, err := npy.OpenMapped("array.npy")
//	if err != nil {
//	    ...
//	}
//	defer m.Close()
//	arr, err := m.View(tensor.Float64) // zero-copy
package npy

import (
	"os"

	"github.com/born-ml/npyio/internal/npy"
	"github.com/born-ml/npyio/internal/tensor"
)

// Type aliases for public API

// Header describes one array: element type descriptor, storage order,
// and shape.
type Header = npy.Header

// MappedFile is a memory-mapped .npy file.
type MappedFile = npy.MappedFile

// Error types.
type (
	VersionError         = npy.VersionError
	MissingKeyError      = npy.MissingKeyError
	UnknownKeyError      = npy.UnknownKeyError
	IllegalValueError    = npy.IllegalValueError
	WrongDescriptorError = npy.WrongDescriptorError
	ExtraBytesError      = npy.ExtraBytesError
	MissingBytesError    = npy.MissingBytesError
	ParseDataError       = npy.ParseDataError
	InvalidDataError     = npy.InvalidDataError
	WrongNdimError       = npy.WrongNdimError
)

// Sentinel errors.
var (
	ErrMagic           = npy.ErrMagic
	ErrNonASCII        = npy.ErrNonASCII
	ErrMissingData     = npy.ErrMissingData
	ErrNonNativeEndian = npy.ErrNonNativeEndian
	ErrMisaligned      = npy.ErrMisaligned
	ErrLengthOverflow  = npy.ErrLengthOverflow
)

// Re-exported operations.
var (
	Read          = npy.Read
	ReadRank      = npy.ReadRank
	Write         = npy.Write
	View          = npy.View
	ViewMut       = npy.ViewMut
	ViewRank      = npy.ViewRank
	WriteZeroed   = npy.WriteZeroed
	ReadHeader    = npy.ReadHeader
	OpenMapped    = npy.OpenMapped
	OpenMappedMut = npy.OpenMappedMut

	// CanonicalDescriptor returns the descriptor string written for
	// an element type, e.g. "<f8" for Float64 on little-endian hosts.
	CanonicalDescriptor = npy.CanonicalDescriptor
)

// ReadFile decodes the .npy file at the given path.
func ReadFile(path string, dt tensor.DataType) (*tensor.RawTensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return npy.Read(f, dt)
}

// WriteFile encodes the array to a .npy file at the given path,
// creating or truncating it.
func WriteFile(path string, t *tensor.RawTensor) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := npy.Write(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
