package npy

import (
	"encoding/binary"
	"io"

	"github.com/born-ml/npyio/internal/pyliteral"
	"github.com/born-ml/npyio/internal/tensor"
)

// nativeLittle reports whether the host is little-endian.
var nativeLittle = func() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 0x0102)
	return buf[0] == 0x02
}()

// descOrder classifies a descriptor's byte order.
type descOrder int

const (
	orderNA descOrder = iota // single-byte types, order irrelevant
	orderLittle
	orderBig
)

// native reports whether data in this order can be reinterpreted
// in place on the host.
func (o descOrder) native() bool {
	switch o {
	case orderNA:
		return true
	case orderLittle:
		return nativeLittle
	default:
		return !nativeLittle
	}
}

// acceptedDescriptors returns the descriptor spellings recognized on
// read for the element type, keyed by the byte order each one names.
// Single-byte signed and unsigned integers keep their legacy aliases.
func acceptedDescriptors(dt tensor.DataType) map[string]descOrder {
	switch dt {
	case tensor.Int8:
		return map[string]descOrder{"|i1": orderNA, "i1": orderNA, "b": orderNA}
	case tensor.Uint8:
		return map[string]descOrder{"|u1": orderNA, "u1": orderNA, "B": orderNA}
	case tensor.Bool:
		return map[string]descOrder{"|b1": orderNA}
	default:
		code := multiByteCode(dt)
		return map[string]descOrder{
			"<" + code: orderLittle,
			">" + code: orderBig,
		}
	}
}

// multiByteCode returns the type-code-plus-size part of a multi-byte
// descriptor, e.g. "f8" for Float64.
func multiByteCode(dt tensor.DataType) string {
	switch dt {
	case tensor.Int16:
		return "i2"
	case tensor.Int32:
		return "i4"
	case tensor.Int64:
		return "i8"
	case tensor.Uint16:
		return "u2"
	case tensor.Uint32:
		return "u4"
	case tensor.Uint64:
		return "u8"
	case tensor.Float32:
		return "f4"
	case tensor.Float64:
		return "f8"
	case tensor.Complex64:
		return "c8"
	case tensor.Complex128:
		return "c16"
	default:
		panic("not a multi-byte data type")
	}
}

// CanonicalDescriptor returns the single descriptor spelling written
// for the element type, using the host's byte order for multi-byte
// types.
func CanonicalDescriptor(dt tensor.DataType) string {
	switch dt {
	case tensor.Int8:
		return "|i1"
	case tensor.Uint8:
		return "|u1"
	case tensor.Bool:
		return "|b1"
	default:
		if nativeLittle {
			return "<" + multiByteCode(dt)
		}
		return ">" + multiByteCode(dt)
	}
}

// swapWidth returns the width of the byte groups reversed when
// converting foreign-endian data. Complex elements swap each float
// component separately.
func swapWidth(dt tensor.DataType) int {
	switch dt {
	case tensor.Complex64, tensor.Complex128:
		return dt.Size() / 2
	default:
		return dt.Size()
	}
}

// byteSwap reverses each width-sized group of data in place.
func byteSwap(data []byte, width int) {
	for i := 0; i < len(data); i += width {
		for a, b := i, i+width-1; a < b; a, b = a+1, b-1 {
			data[a], data[b] = data[b], data[a]
		}
	}
}

// matchDescriptor resolves the header's descriptor literal against the
// accepted spellings for the element type.
func matchDescriptor(dt tensor.DataType, desc *pyliteral.Value) (descOrder, error) {
	s, ok := desc.Str()
	if !ok {
		return 0, &WrongDescriptorError{Descriptor: formatLiteral(desc)}
	}
	order, ok := acceptedDescriptors(dt)[s]
	if !ok {
		return 0, &WrongDescriptorError{Descriptor: formatLiteral(desc)}
	}
	return order, nil
}

// readElements decodes exactly count elements of type dt from r into a
// freshly allocated native-order buffer, byte-swapping foreign-endian
// input. The reader must be exhausted after the last element; anything
// left over is an ExtraBytesError. EOF mid-data is normalized to
// ErrMissingData.
func readElements(r io.Reader, dt tensor.DataType, desc *pyliteral.Value, count int) ([]byte, error) {
	order, err := matchDescriptor(dt, desc)
	if err != nil {
		return nil, err
	}

	data := make([]byte, count*dt.Size())
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrMissingData
		}
		return nil, err
	}
	if err := checkForExtraBytes(r); err != nil {
		return nil, err
	}

	if !order.native() {
		byteSwap(data, swapWidth(dt))
	}
	if dt == tensor.Bool {
		if bad, ok := findInvalidBool(data); ok {
			return nil, &ParseDataError{Byte: bad}
		}
	}
	return data, nil
}

// checkForExtraBytes fails if r has any bytes left, consuming the
// remainder of the reader either way.
func checkForExtraBytes(r io.Reader) error {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return err
	}
	if n != 0 {
		return &ExtraBytesError{Count: int(n)}
	}
	return nil
}

// findInvalidBool returns the first byte that is not a valid boolean
// encoding. Only 0x00 and 0x01 may be reinterpreted as bool.
func findInvalidBool(data []byte) (byte, bool) {
	for _, b := range data {
		if b > 1 {
			return b, true
		}
	}
	return 0, false
}

// checkView validates that data can be reinterpreted in place as count
// elements of type dt described by desc. The checks run in a fixed
// order: descriptor match, native byte order, exact length, start
// alignment, and for booleans bit-pattern validity. Views never
// byte-swap, so a foreign-endian descriptor is rejected outright.
func checkView(data []byte, dt tensor.DataType, desc *pyliteral.Value, count int) error {
	order, err := matchDescriptor(dt, desc)
	if err != nil {
		return err
	}
	if !order.native() {
		return ErrNonNativeEndian
	}

	needed := count * dt.Size()
	switch {
	case len(data) < needed:
		return &MissingBytesError{Count: needed - len(data)}
	case len(data) > needed:
		return &ExtraBytesError{Count: len(data) - needed}
	}

	if len(data) > 0 && addrOf(data)%uintptr(dt.Alignment()) != 0 {
		return ErrMisaligned
	}

	if dt == tensor.Bool {
		if bad, ok := findInvalidBool(data); ok {
			return &InvalidDataError{Byte: bad}
		}
	}
	return nil
}
