// Package npy implements the NumPy .npy binary format: the aligned
// textual prologue, per-element-type encoding and decoding, and
// zero-copy views over existing buffers.
package npy

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/born-ml/npyio/internal/pyliteral"
	"github.com/born-ml/npyio/internal/tensor"
)

// Magic string to indicate npy format.
var magicString = []byte("\x93NUMPY")

// version identifies a recognized format version.
type version struct {
	major byte
	minor byte
}

var (
	version1 = version{1, 0}
	version2 = version{2, 0}
)

// lenFieldSize returns the number of bytes in the header length field.
func (v version) lenFieldSize() int {
	if v == version2 {
		return 4
	}
	return 2
}

// Header describes one array: its element type descriptor, storage
// order, and shape. It is constructed fresh per write and parsed fresh
// per read, never mutated afterwards.
type Header struct {
	TypeDescriptor *pyliteral.Value
	FortranOrder   bool
	Shape          tensor.Shape
}

// formatLiteral renders a literal for use in an error message, falling
// back to the type name if the literal has no textual form.
func formatLiteral(v *pyliteral.Value) string {
	s, err := pyliteral.Format(v)
	if err != nil {
		return v.Type().String()
	}
	return s
}

// ReadHeader reads and parses the prologue of a single-array stream:
// magic string, version, length field, and the header dict. I/O errors
// from r propagate unchanged.
func ReadHeader(r io.Reader) (*Header, error) {
	var magic [6]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if string(magic[:]) != string(magicString) {
		return nil, ErrMagic
	}

	var verBytes [2]byte
	if _, err := io.ReadFull(r, verBytes[:]); err != nil {
		return nil, err
	}
	ver := version{verBytes[0], verBytes[1]}
	if ver != version1 && ver != version2 {
		return nil, &VersionError{Major: ver.major, Minor: ver.minor}
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:ver.lenFieldSize()]); err != nil {
		return nil, err
	}
	var headerLen int
	if ver == version1 {
		headerLen = int(binary.LittleEndian.Uint16(lenBuf[:2]))
	} else {
		headerLen = int(binary.LittleEndian.Uint32(lenBuf[:4]))
	}

	text := make([]byte, headerLen)
	if _, err := io.ReadFull(r, text); err != nil {
		return nil, err
	}
	for _, b := range text {
		if b >= 0x80 {
			return nil, ErrNonASCII
		}
	}

	dict, err := pyliteral.Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("error parsing header dict: %w", err)
	}
	return headerFromDict(dict)
}

// headerFromDict interprets a parsed dict literal as an array header.
// Exactly the keys descr, fortran_order, and shape are recognized.
func headerFromDict(dict *pyliteral.Value) (*Header, error) {
	if dict.Type() != pyliteral.TypeDict {
		return nil, fmt.Errorf("header is not a dict literal: got %s", dict.Type())
	}

	var (
		descr        *pyliteral.Value
		fortranOrder *bool
		shape        tensor.Shape
		haveShape    bool
	)
	for _, pair := range dict.Pairs() {
		key, ok := pair.Key.Str()
		if !ok {
			return nil, &UnknownKeyError{Key: formatLiteral(pair.Key)}
		}
		switch key {
		case "descr":
			descr = pair.Value
		case "fortran_order":
			b, ok := pair.Value.BoolVal()
			if !ok {
				return nil, &IllegalValueError{Key: "fortran_order", Value: formatLiteral(pair.Value)}
			}
			fortranOrder = &b
		case "shape":
			if pair.Value.Type() != pyliteral.TypeTuple {
				return nil, &IllegalValueError{Key: "shape", Value: formatLiteral(pair.Value)}
			}
			dims := make(tensor.Shape, 0, len(pair.Value.Items()))
			for _, elem := range pair.Value.Items() {
				n, ok := elem.Int64()
				if !ok || n < 0 {
					return nil, &IllegalValueError{Key: "shape", Value: formatLiteral(pair.Value)}
				}
				dims = append(dims, int(n))
			}
			shape = dims
			haveShape = true
		default:
			return nil, &UnknownKeyError{Key: formatLiteral(pair.Key)}
		}
	}

	switch {
	case descr == nil:
		return nil, &MissingKeyError{Key: "descr"}
	case fortranOrder == nil:
		return nil, &MissingKeyError{Key: "fortran_order"}
	case !haveShape:
		return nil, &MissingKeyError{Key: "shape"}
	}
	return &Header{
		TypeDescriptor: descr,
		FortranOrder:   *fortranOrder,
		Shape:          shape,
	}, nil
}

// toDict builds the dict literal written into the prologue, with the
// conventional key order descr, fortran_order, shape.
func (h *Header) toDict() *pyliteral.Value {
	dims := make([]*pyliteral.Value, len(h.Shape))
	for i, dim := range h.Shape {
		dims[i] = pyliteral.Integer(int64(dim))
	}
	return pyliteral.Dict(
		pyliteral.DictItem{Key: pyliteral.String("descr"), Value: h.TypeDescriptor},
		pyliteral.DictItem{Key: pyliteral.String("fortran_order"), Value: pyliteral.Bool(h.FortranOrder)},
		pyliteral.DictItem{Key: pyliteral.String("shape"), Value: pyliteral.Tuple(dims...)},
	)
}

// paddedDictLen returns the length of the dict text after space
// padding and the final newline, such that the whole prologue is a
// multiple of 16 bytes.
func paddedDictLen(ver version, textLen int) int {
	prefix := len(magicString) + 2 + ver.lenFieldSize()
	total := prefix + textLen + 1
	return textLen + (16-total%16)%16 + 1
}

// Encode renders the full prologue: magic, version, length field, and
// the space-padded dict text ending in a newline. Version 1.0 is used
// unless the padded dict text overflows its 16-bit length field.
func (h *Header) Encode() ([]byte, error) {
	text, err := pyliteral.Format(h.toDict())
	if err != nil {
		return nil, fmt.Errorf("error formatting header dict: %w", err)
	}

	ver := version1
	if paddedDictLen(version1, len(text)) > 0xFFFF {
		ver = version2
	}
	dictLen := paddedDictLen(ver, len(text))

	out := make([]byte, 0, len(magicString)+2+ver.lenFieldSize()+dictLen)
	out = append(out, magicString...)
	out = append(out, ver.major, ver.minor)
	if ver == version1 {
		out = binary.LittleEndian.AppendUint16(out, uint16(dictLen))
	} else {
		out = binary.LittleEndian.AppendUint32(out, uint32(dictLen))
	}
	out = append(out, text...)
	for i := len(text); i < dictLen-1; i++ {
		out = append(out, ' ')
	}
	out = append(out, '\n')
	return out, nil
}

// WriteTo writes the encoded prologue to w.
func (h *Header) WriteTo(w io.Writer) error {
	b, err := h.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
