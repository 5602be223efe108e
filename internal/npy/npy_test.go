package npy

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npyio/internal/pyliteral"
	"github.com/born-ml/npyio/internal/tensor"
)

func encode(t *testing.T, tr *tensor.RawTensor) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tr))
	return buf.Bytes()
}

func TestWriteReadRoundTripAllTypes(t *testing.T) {
	arrays := []*tensor.RawTensor{
		tensor.FromSlice([]int8{-1, 0, 1, 127}, tensor.Shape{4}),
		tensor.FromSlice([]int16{-300, 300}, tensor.Shape{2}),
		tensor.FromSlice([]int32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}),
		tensor.FromSlice([]int64{1 << 40, -1}, tensor.Shape{2, 1}),
		tensor.FromSlice([]uint8{0, 128, 255}, tensor.Shape{3}),
		tensor.FromSlice([]uint16{0, 65535}, tensor.Shape{2}),
		tensor.FromSlice([]uint32{1, 1 << 30}, tensor.Shape{2}),
		tensor.FromSlice([]uint64{1, 1 << 60}, tensor.Shape{2}),
		tensor.FromSlice([]float32{1.5, -2.5}, tensor.Shape{2}),
		tensor.FromSlice([]float64{3.14159, -1e300}, tensor.Shape{1, 2}),
		tensor.FromSlice([]complex64{1 + 2i, -3 - 4i}, tensor.Shape{2}),
		tensor.FromSlice([]complex128{1.5 + 2.5i}, tensor.Shape{1}),
		tensor.FromSlice([]bool{true, false, true}, tensor.Shape{3}),
	}
	for _, orig := range arrays {
		data := encode(t, orig)
		got, err := Read(bytes.NewReader(data), orig.DataType())
		require.NoError(t, err, "dtype %v", orig.DataType())
		assert.True(t, got.Equal(orig), "round trip for dtype %v", orig.DataType())
		assert.True(t, got.IsStandardLayout())
	}
}

func TestWriteRowMajorDeterministic(t *testing.T) {
	elems := make([]float64, 24)
	for i := range elems {
		elems[i] = float64(i)
	}
	arr := tensor.FromSlice(elems, tensor.Shape{2, 3, 4})

	data := encode(t, arr)

	header, err := (&Header{
		TypeDescriptor: pyliteral.String(CanonicalDescriptor(tensor.Float64)),
		Shape:          tensor.Shape{2, 3, 4},
	}).Encode()
	require.NoError(t, err)

	want := append(header, arr.Bytes()...)
	assert.Equal(t, want, data, "row-major output must be header followed by raw storage bytes")
	assert.Contains(t, string(data[:len(header)]), "'fortran_order': False")
}

func TestWriteFortranLayout(t *testing.T) {
	elems := make([]float64, 24)
	for i := range elems {
		elems[i] = float64(i)
	}
	arr := tensor.FromSlice(elems, tensor.Shape{2, 3, 4})
	rev := arr.Reversed() // shape (4, 3, 2), Fortran-contiguous

	data := encode(t, rev)
	headerEnd := bytes.IndexByte(data, '\n') + 1
	assert.Contains(t, string(data[:headerEnd]), "'fortran_order': True")
	assert.Contains(t, string(data[:headerEnd]), "'shape': (4, 3, 2)")
	// Payload is the storage bytes, i.e. column-major for the
	// transposed shape.
	assert.Equal(t, arr.Bytes(), data[headerEnd:])

	got, err := Read(bytes.NewReader(data), tensor.Float64)
	require.NoError(t, err)
	assert.True(t, got.Equal(rev))
	assert.True(t, got.IsFortranLayout())
}

func TestWriteStridedFallsBackToRowMajor(t *testing.T) {
	elems := make([]int32, 24)
	for i := range elems {
		elems[i] = int32(i)
	}
	arr := tensor.FromSlice(elems, tensor.Shape{2, 3, 4})
	perm := arr.Permute([]int{1, 0, 2}) // contiguous in neither order

	require.False(t, perm.IsStandardLayout())
	require.False(t, perm.IsFortranLayout())

	data := encode(t, perm)
	headerEnd := bytes.IndexByte(data, '\n') + 1
	assert.Contains(t, string(data[:headerEnd]), "'fortran_order': False")

	got, err := Read(bytes.NewReader(data), tensor.Int32)
	require.NoError(t, err)
	assert.True(t, got.Equal(perm), "strided write must preserve logical content")
	assert.True(t, got.IsStandardLayout())
}

func TestReadWrongDescriptor(t *testing.T) {
	data := encode(t, tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}))
	_, err := Read(bytes.NewReader(data), tensor.Int32)
	var derr *WrongDescriptorError
	require.True(t, errors.As(err, &derr))
	assert.Contains(t, derr.Descriptor, "f8")
}

func TestReadLegacyAliases(t *testing.T) {
	for _, descr := range []string{"'|i1'", "'i1'", "'b'"} {
		text := "{'descr': " + descr + ", 'fortran_order': False, 'shape': (2,)}"
		file := append(rawHeader(text), 0x01, 0xff)
		got, err := Read(bytes.NewReader(file), tensor.Int8)
		require.NoError(t, err, "descr %s", descr)
		assert.Equal(t, []int8{1, -1}, tensor.Elements[int8](got))
	}
}

func TestReadMissingAndExtraData(t *testing.T) {
	data := encode(t, tensor.FromSlice([]int64{1, 2, 3}, tensor.Shape{3}))

	_, err := Read(bytes.NewReader(data[:len(data)-4]), tensor.Int64)
	assert.ErrorIs(t, err, ErrMissingData)

	extended := append(append([]byte{}, data...), 0xAA, 0xBB)
	_, err = Read(bytes.NewReader(extended), tensor.Int64)
	var eerr *ExtraBytesError
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, 2, eerr.Count)
}

func TestReadForeignEndianByteSwaps(t *testing.T) {
	// Build a file whose payload and descriptor use the foreign byte
	// order; owned decode must byte-swap it into native order.
	foreign := ">u4"
	if !nativeLittle {
		foreign = "<u4"
	}
	native := tensor.FromSlice([]uint32{0x01020304, 0x0A0B0C0D}, tensor.Shape{2})
	payload := append([]byte{}, native.Bytes()...)
	byteSwap(payload, 4)

	text := "{'descr': '" + foreign + "', 'fortran_order': False, 'shape': (2,)}"
	file := append(rawHeader(text), payload...)

	got, err := Read(bytes.NewReader(file), tensor.Uint32)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x01020304, 0x0A0B0C0D}, tensor.Elements[uint32](got))

	// A zero-copy view of the same buffer cannot byte-swap.
	_, err = View(file, tensor.Uint32)
	assert.ErrorIs(t, err, ErrNonNativeEndian)
}

func TestComplexByteSwapPerComponent(t *testing.T) {
	foreign := ">c8"
	if !nativeLittle {
		foreign = "<c8"
	}
	native := tensor.FromSlice([]complex64{complex(1.5, -2.5)}, tensor.Shape{1})
	payload := append([]byte{}, native.Bytes()...)
	byteSwap(payload, 4) // each float component swaps separately

	text := "{'descr': '" + foreign + "', 'fortran_order': False, 'shape': (1,)}"
	file := append(rawHeader(text), payload...)

	got, err := Read(bytes.NewReader(file), tensor.Complex64)
	require.NoError(t, err)
	assert.Equal(t, []complex64{complex(1.5, -2.5)}, tensor.Elements[complex64](got))
}

func TestBoolValidation(t *testing.T) {
	data := encode(t, tensor.FromSlice([]bool{true, false, true, true}, tensor.Shape{4}))

	// Corrupt one payload byte.
	corrupt := append([]byte{}, data...)
	corrupt[len(corrupt)-2] = 0x05

	_, err := Read(bytes.NewReader(corrupt), tensor.Bool)
	var perr *ParseDataError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, byte(0x05), perr.Byte)

	_, err = View(corrupt, tensor.Bool)
	var verr *InvalidDataError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, byte(0x05), verr.Byte)

	// The intact buffer decodes 0x00 as false and 0x01 as true.
	got, err := Read(bytes.NewReader(data), tensor.Bool)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true}, tensor.Elements[bool](got))
}

func TestViewZeroCopyAliasing(t *testing.T) {
	data := encode(t, tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}))

	view, err := ViewMut(data, tensor.Float32)
	require.NoError(t, err)

	tensor.Elements[float32](view)[0] = 42
	reread, err := Read(bytes.NewReader(data), tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, float32(42), tensor.Elements[float32](reread)[0],
		"mutation through the view must be observable in the original buffer")
}

func TestViewLengthMismatch(t *testing.T) {
	data := encode(t, tensor.FromSlice([]int16{1, 2, 3}, tensor.Shape{3}))

	_, err := View(data[:len(data)-2], tensor.Int16)
	var merr *MissingBytesError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 2, merr.Count)

	extended := append(append([]byte{}, data...), 0, 0, 0)
	_, err = View(extended, tensor.Int16)
	var eerr *ExtraBytesError
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, 3, eerr.Count)
}

func TestViewMisaligned(t *testing.T) {
	data := encode(t, tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}))

	// Shift the whole stream by one byte. The prologue is a multiple
	// of 16 bytes, so the data start inherits the odd offset.
	shifted := make([]byte, len(data)+1)
	copy(shifted[1:], data)

	_, err := View(shifted[1:], tensor.Float64)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestViewChecksRunInOrder(t *testing.T) {
	// A buffer that is simultaneously foreign-endian and too short
	// must report the endianness first.
	foreign := ">i4"
	if !nativeLittle {
		foreign = "<i4"
	}
	text := "{'descr': '" + foreign + "', 'fortran_order': False, 'shape': (4,)}"
	file := append(rawHeader(text), 0x01, 0x02)

	_, err := View(file, tensor.Int32)
	assert.ErrorIs(t, err, ErrNonNativeEndian)
}

func TestReadRank(t *testing.T) {
	data := encode(t, tensor.FromSlice([]int32{1, 2, 3, 4}, tensor.Shape{2, 2}))

	got, err := ReadRank(bytes.NewReader(data), tensor.Int32, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Shape().NumDims())

	_, err = ReadRank(bytes.NewReader(data), tensor.Int32, 1)
	var nerr *WrongNdimError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, 1, nerr.Expected)
	assert.Equal(t, 2, nerr.Actual)
}

func TestLengthOverflow(t *testing.T) {
	text := "{'descr': '<f8', 'fortran_order': False, 'shape': (4611686018427387904, 4611686018427387904)}"
	_, err := Read(bytes.NewReader(rawHeader(text)), tensor.Float64)
	assert.ErrorIs(t, err, ErrLengthOverflow)
}

func TestZeroSizeArray(t *testing.T) {
	data := encode(t, tensor.NewRaw(tensor.Float64, tensor.Shape{0, 3}))
	got, err := Read(bytes.NewReader(data), tensor.Float64)
	require.NoError(t, err)
	assert.True(t, got.Shape().Equal(tensor.Shape{0, 3}))
	assert.Equal(t, 0, got.NumElements())
}

func TestScalarArray(t *testing.T) {
	data := encode(t, tensor.FromSlice([]float64{3.5}, tensor.Shape{}))
	got, err := Read(bytes.NewReader(data), tensor.Float64)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Shape().NumDims())
	assert.Equal(t, []float64{3.5}, tensor.Elements[float64](got))
}

func TestWriteZeroedSparse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zeroed.npy")
	f, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, WriteZeroed(f, tensor.Float64, tensor.Shape{100, 50}))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := Read(bytes.NewReader(raw), tensor.Float64)
	require.NoError(t, err)
	assert.True(t, got.Shape().Equal(tensor.Shape{100, 50}))
	for _, v := range tensor.Elements[float64](got) {
		assert.Equal(t, 0.0, v)
	}
}

func TestMappedFileView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "array.npy")
	orig := tensor.FromSlice([]int64{10, 20, 30, 40, 50, 60}, tensor.Shape{2, 3})

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Write(f, orig))
	require.NoError(t, f.Close())

	m, err := OpenMapped(path)
	require.NoError(t, err)
	defer m.Close()

	h, err := m.Header()
	require.NoError(t, err)
	assert.True(t, h.Shape.Equal(tensor.Shape{2, 3}))

	view, err := m.View(tensor.Int64)
	require.NoError(t, err)
	assert.True(t, view.Equal(orig))

	// Read-only mappings refuse mutable views.
	_, err = m.ViewMut(tensor.Int64)
	assert.Error(t, err)
}

func TestMappedFileMutWritesBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mut.npy")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteZeroed(f, tensor.Int32, tensor.Shape{4}))
	require.NoError(t, f.Close())

	m, err := OpenMappedMut(path)
	require.NoError(t, err)
	view, err := m.ViewMut(tensor.Int32)
	require.NoError(t, err)
	tensor.Elements[int32](view)[2] = 7
	require.NoError(t, m.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := Read(bytes.NewReader(raw), tensor.Int32)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 7, 0}, tensor.Elements[int32](got))
}
