package npy

import (
	"bytes"
	"unsafe"

	"github.com/born-ml/npyio/internal/tensor"
)

// addrOf returns the start address of a non-empty byte slice.
func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

// View reinterprets a buffer holding a complete .npy stream as an
// array without copying, typically over a memory-mapped file. The
// returned array aliases buf; it is valid only as long as buf is, and
// must not be written through. Views cannot byte-swap, so buffers
// whose descriptor names the foreign byte order fail with
// ErrNonNativeEndian.
func View(buf []byte, dt tensor.DataType) (*tensor.RawTensor, error) {
	return view(buf, dt)
}

// ViewMut is like View but the returned array may be mutated; writes
// land in buf itself. The caller must not construct two overlapping
// mutable views of the same region at once.
func ViewMut(buf []byte, dt tensor.DataType) (*tensor.RawTensor, error) {
	return view(buf, dt)
}

// ViewRank is like View but additionally requires the array to have
// exactly rank dimensions.
func ViewRank(buf []byte, dt tensor.DataType, rank int) (*tensor.RawTensor, error) {
	t, err := view(buf, dt)
	if err != nil {
		return nil, err
	}
	if t.Shape().NumDims() != rank {
		return nil, &WrongNdimError{Expected: rank, Actual: t.Shape().NumDims()}
	}
	return t, nil
}

func view(buf []byte, dt tensor.DataType) (*tensor.RawTensor, error) {
	br := bytes.NewReader(buf)
	header, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	count, err := checkedCount(header.Shape, dt)
	if err != nil {
		return nil, err
	}

	data := buf[len(buf)-br.Len():]
	if err := checkView(data, dt, header.TypeDescriptor, count); err != nil {
		return nil, err
	}
	return tensor.WrapBytes(data, dt, header.Shape, header.FortranOrder), nil
}
