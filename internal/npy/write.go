package npy

import (
	"io"
	"math"
	"os"

	"github.com/born-ml/npyio/internal/pyliteral"
	"github.com/born-ml/npyio/internal/tensor"
)

// checkedCount returns the element count for the shape, failing with
// ErrLengthOverflow if the count or the byte length overflows the
// addressable range.
func checkedCount(shape tensor.Shape, dt tensor.DataType) (int, error) {
	count, err := shape.CheckedNumElements()
	if err != nil {
		return 0, ErrLengthOverflow
	}
	size := int64(dt.Size())
	if count > math.MaxInt64/size || count*size > math.MaxInt {
		return 0, ErrLengthOverflow
	}
	return int(count), nil
}

// Write encodes the array as a single .npy stream. Arrays contiguous
// in row-major order are written with fortran_order=False, arrays
// contiguous in column-major order with fortran_order=True; any other
// layout falls back to a per-element copy in logical row-major order.
func Write(w io.Writer, t *tensor.RawTensor) error {
	count, err := checkedCount(t.Shape(), t.DataType())
	if err != nil {
		return err
	}

	header := &Header{
		TypeDescriptor: pyliteral.String(CanonicalDescriptor(t.DataType())),
		Shape:          t.Shape(),
	}

	switch {
	case t.IsStandardLayout():
		// Storage order is already the payload order.
	case t.IsFortranLayout():
		header.FortranOrder = true
	default:
		if err := header.WriteTo(w); err != nil {
			return err
		}
		return writeStrided(w, t, count)
	}

	if err := header.WriteTo(w); err != nil {
		return err
	}
	_, err = w.Write(t.Bytes())
	return err
}

// writeStrided copies elements one at a time in logical row-major
// order, for layouts that are contiguous in neither order.
func writeStrided(w io.Writer, t *tensor.RawTensor, count int) error {
	size := t.DataType().Size()
	data := t.Bytes()
	for i := 0; i < count; i++ {
		off := t.ElementOffset(i) * size
		if _, err := w.Write(data[off : off+size]); err != nil {
			return err
		}
	}
	return nil
}

// WriteZeroed writes a .npy file whose data section is all zero bytes,
// without materializing it in memory. The file is truncated to the
// header and then zero-extended, which produces a sparse file on
// filesystems that support it. The result can be memory-mapped and
// filled in through ViewMut.
func WriteZeroed(f *os.File, dt tensor.DataType, shape tensor.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	count, err := checkedCount(shape, dt)
	if err != nil {
		return err
	}

	header := &Header{
		TypeDescriptor: pyliteral.String(CanonicalDescriptor(dt)),
		Shape:          shape,
	}
	if err := header.WriteTo(f); err != nil {
		return err
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if err := f.Truncate(pos); err != nil {
		return err
	}
	return f.Truncate(pos + int64(count)*int64(dt.Size()))
}
