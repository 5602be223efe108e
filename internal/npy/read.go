package npy

import (
	"io"

	"github.com/born-ml/npyio/internal/tensor"
)

// Read decodes a single .npy stream into a freshly allocated array
// with elements of type dt. Foreign-endian payloads are byte-swapped
// into native order; the reader must contain exactly the data the
// header describes.
func Read(r io.Reader, dt tensor.DataType) (*tensor.RawTensor, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	count, err := checkedCount(header.Shape, dt)
	if err != nil {
		return nil, err
	}
	data, err := readElements(r, dt, header.TypeDescriptor, count)
	if err != nil {
		return nil, err
	}
	return tensor.WrapBytes(data, dt, header.Shape, header.FortranOrder), nil
}

// ReadRank is like Read but additionally requires the array to have
// exactly rank dimensions.
func ReadRank(r io.Reader, dt tensor.DataType, rank int) (*tensor.RawTensor, error) {
	t, err := Read(r, dt)
	if err != nil {
		return nil, err
	}
	if t.Shape().NumDims() != rank {
		return nil, &WrongNdimError{Expected: rank, Actual: t.Shape().NumDims()}
	}
	return t, nil
}
