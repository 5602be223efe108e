package npy

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMagic           = errors.New("start does not match magic string")
	ErrNonASCII        = errors.New("non-ascii in array format string")
	ErrMissingData     = errors.New("reached EOF before reading all data")
	ErrNonNativeEndian = errors.New("descriptor does not match native endianness")
	ErrMisaligned      = errors.New("start of data is not properly aligned for the element type")
	ErrLengthOverflow  = errors.New("overflow computing length from shape")
)

// VersionError reports an unrecognized format version.
type VersionError struct {
	Major byte
	Minor byte
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unknown version number: %d.%d", e.Major, e.Minor)
}

// MissingKeyError reports a required header dict key that was absent.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing key: %s", e.Key)
}

// UnknownKeyError reports a header dict key that is not part of the
// format.
type UnknownKeyError struct {
	Key string // formatted literal form of the key
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key: %s", e.Key)
}

// IllegalValueError reports a header dict value with the wrong type or
// an out-of-range content for its key.
type IllegalValueError struct {
	Key   string
	Value string // formatted literal form of the value
}

func (e *IllegalValueError) Error() string {
	return fmt.Sprintf("illegal value for key %s: %s", e.Key, e.Value)
}

// WrongDescriptorError reports a type descriptor that does not match
// the requested element type.
type WrongDescriptorError struct {
	Descriptor string // formatted literal form of the descriptor
}

func (e *WrongDescriptorError) Error() string {
	return fmt.Sprintf("incorrect descriptor (%s) for this type", e.Descriptor)
}

// ExtraBytesError reports bytes present between the end of the array
// data and the end of the input.
type ExtraBytesError struct {
	Count int
}

func (e *ExtraBytesError) Error() string {
	return fmt.Sprintf("input had %d extra bytes before EOF", e.Count)
}

// MissingBytesError reports a view buffer shorter than the data the
// header describes.
type MissingBytesError struct {
	Count int
}

func (e *MissingBytesError) Error() string {
	return fmt.Sprintf("missing %d bytes of data specified in header", e.Count)
}

// ParseDataError reports a payload byte that is not a valid encoding
// for the element type, found during an owned decode.
type ParseDataError struct {
	Byte byte
}

func (e *ParseDataError) Error() string {
	return fmt.Sprintf("error parsing value %#04x as a bool", e.Byte)
}

// InvalidDataError reports a payload byte that is not a valid encoding
// for the element type, found while validating a zero-copy view.
type InvalidDataError struct {
	Byte byte
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid data for element type: value %#04x is not a valid bool", e.Byte)
}

// WrongNdimError reports an array whose rank does not match the rank
// the caller required.
type WrongNdimError struct {
	Expected int
	Actual   int
}

func (e *WrongNdimError) Error() string {
	return fmt.Sprintf("ndim %d of array did not match required ndim %d", e.Actual, e.Expected)
}
