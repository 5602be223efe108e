package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npyio/internal/pyliteral"
	"github.com/born-ml/npyio/internal/tensor"
)

func TestHeaderEncodeAligned(t *testing.T) {
	shapes := []tensor.Shape{{}, {0}, {1}, {2, 3}, {2, 3, 4}, {100, 200, 300, 400}}
	for _, shape := range shapes {
		h := &Header{
			TypeDescriptor: pyliteral.String("<f8"),
			Shape:          shape,
		}
		b, err := h.Encode()
		require.NoError(t, err)

		assert.Equal(t, 0, len(b)%16, "prologue for shape %v must be 16-byte aligned", shape)
		assert.Equal(t, byte('\n'), b[len(b)-1], "prologue must end in newline")

		// The newline is preceded only by spaces back to the dict text.
		text := b[10:]
		trimmed := strings.TrimRight(string(text[:len(text)-1]), " ")
		assert.NotContains(t, trimmed, "\n")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	orig := &Header{
		TypeDescriptor: pyliteral.String("<i4"),
		FortranOrder:   true,
		Shape:          tensor.Shape{3, 5},
	}
	b, err := orig.Encode()
	require.NoError(t, err)
	assert.Equal(t, byte(1), b[6], "small header should use version 1.0")
	assert.Equal(t, byte(0), b[7])

	got, err := ReadHeader(bytes.NewReader(b))
	require.NoError(t, err)
	descr, _ := got.TypeDescriptor.Str()
	assert.Equal(t, "<i4", descr)
	assert.True(t, got.FortranOrder)
	assert.True(t, got.Shape.Equal(tensor.Shape{3, 5}))
}

func TestHeaderZeroAndOneDimShapes(t *testing.T) {
	// A 0-dim shape formats as (), a 1-dim shape as (n,).
	h := &Header{TypeDescriptor: pyliteral.String("<f8"), Shape: tensor.Shape{}}
	b, err := h.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(b), "'shape': ()")

	h.Shape = tensor.Shape{7}
	b, err = h.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(b), "'shape': (7,)")
}

func TestHeaderLargeDictForcesVersion2(t *testing.T) {
	// A descriptor long enough to overflow the 16-bit length field
	// forces version 2.0 on write.
	h := &Header{
		TypeDescriptor: pyliteral.String(strings.Repeat("x", 0x10000)),
		Shape:          tensor.Shape{2},
	}
	b, err := h.Encode()
	require.NoError(t, err)
	assert.Equal(t, byte(2), b[6])
	assert.Equal(t, byte(0), b[7])
	assert.Equal(t, 0, len(b)%16)

	got, err := ReadHeader(bytes.NewReader(b))
	require.NoError(t, err)
	descr, _ := got.TypeDescriptor.Str()
	assert.Len(t, descr, 0x10000)
	assert.True(t, got.Shape.Equal(tensor.Shape{2}))
}

func TestReadHeaderBadMagic(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte("\x93NUMPZ\x01\x00")))
	assert.ErrorIs(t, err, ErrMagic)
}

func TestReadHeaderUnknownVersion(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte("\x93NUMPY\x03\x01\x00\x00")))
	var verr *VersionError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, byte(3), verr.Major)
	assert.Equal(t, byte(1), verr.Minor)
}

// rawHeader frames arbitrary dict text as a version 1.0 prologue
// without padding, for tests that need malformed content.
func rawHeader(text string) []byte {
	var b bytes.Buffer
	b.Write(magicString)
	b.Write([]byte{1, 0})
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(text)))
	b.Write(lenBuf[:])
	b.WriteString(text)
	return b.Bytes()
}

func TestReadHeaderNonASCII(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(rawHeader("{'descr': '\xc3\xa9'}")))
	assert.ErrorIs(t, err, ErrNonASCII)
}

func TestReadHeaderKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{
			"unknown key",
			"{'descr': '<f8', 'fortran_order': False, 'shape': (2,), 'extra': 1}",
			&UnknownKeyError{},
		},
		{
			"missing descr",
			"{'fortran_order': False, 'shape': (2,)}",
			&MissingKeyError{},
		},
		{
			"missing fortran_order",
			"{'descr': '<f8', 'shape': (2,)}",
			&MissingKeyError{},
		},
		{
			"missing shape",
			"{'descr': '<f8', 'fortran_order': False}",
			&MissingKeyError{},
		},
		{
			"fortran_order not a bool",
			"{'descr': '<f8', 'fortran_order': 1, 'shape': (2,)}",
			&IllegalValueError{},
		},
		{
			"shape not a tuple",
			"{'descr': '<f8', 'fortran_order': False, 'shape': [2, 3]}",
			&IllegalValueError{},
		},
		{
			"negative shape dimension",
			"{'descr': '<f8', 'fortran_order': False, 'shape': (2, -3)}",
			&IllegalValueError{},
		},
		{
			"non-integer shape element",
			"{'descr': '<f8', 'fortran_order': False, 'shape': (2.0,)}",
			&IllegalValueError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(rawHeader(tt.text)))
			require.Error(t, err)
			switch tt.want.(type) {
			case *UnknownKeyError:
				var e *UnknownKeyError
				assert.True(t, errors.As(err, &e), "got %v", err)
			case *MissingKeyError:
				var e *MissingKeyError
				assert.True(t, errors.As(err, &e), "got %v", err)
			case *IllegalValueError:
				var e *IllegalValueError
				assert.True(t, errors.As(err, &e), "got %v", err)
			}
		})
	}
}

func TestReadHeaderTrailingComma(t *testing.T) {
	text := "{'descr': '<f8', 'fortran_order': False, 'shape': (2, 3, 4), }"
	h, err := ReadHeader(bytes.NewReader(rawHeader(text)))
	require.NoError(t, err)
	assert.True(t, h.Shape.Equal(tensor.Shape{2, 3, 4}))
}
