package npy

import (
	"bytes"
	"fmt"
	"os"

	"github.com/born-ml/npyio/internal/tensor"
)

// MappedFile is a memory-mapped .npy file. The mapping is created
// eagerly; array data is paged in by the OS on access, so opening a
// large file is cheap until its elements are actually touched.
type MappedFile struct {
	file     *os.File
	data     []byte
	writable bool
	closed   bool
}

// OpenMapped memory-maps the .npy file at path read-only.
//
// Important: Always call Close() when done to unmap the file (use defer).
func OpenMapped(path string) (*MappedFile, error) {
	return openMapped(path, false)
}

// OpenMappedMut memory-maps the .npy file at path with a shared
// writable mapping, so mutations through ViewMut are written back to
// the file.
func OpenMappedMut(path string) (*MappedFile, error) {
	return openMapped(path, true)
}

func openMapped(path string, writable bool) (*MappedFile, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	// Memory map the file (platform-specific implementation)
	data, err := mmapFile(file, stat.Size(), writable)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	return &MappedFile{file: file, data: data, writable: writable}, nil
}

// Bytes returns the raw mapped contents. The slice is valid only
// while the file is open.
func (m *MappedFile) Bytes() []byte {
	return m.data
}

// Header parses and returns the file's header without touching the
// data section.
func (m *MappedFile) Header() (*Header, error) {
	return ReadHeader(bytes.NewReader(m.data))
}

// View returns a zero-copy array over the mapped data with elements
// of type dt. The array is valid only while the file is open.
func (m *MappedFile) View(dt tensor.DataType) (*tensor.RawTensor, error) {
	if m.closed {
		return nil, fmt.Errorf("mapped file is closed")
	}
	return View(m.data, dt)
}

// ViewMut is like View but returns a mutable array; the file must
// have been opened with OpenMappedMut.
func (m *MappedFile) ViewMut(dt tensor.DataType) (*tensor.RawTensor, error) {
	if m.closed {
		return nil, fmt.Errorf("mapped file is closed")
	}
	if !m.writable {
		return nil, fmt.Errorf("mapped file is read-only")
	}
	return ViewMut(m.data, dt)
}

// Close unmaps and closes the file.
func (m *MappedFile) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if m.data != nil {
		err = munmapFile(m.data)
		m.data = nil
	}

	if closeErr := m.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}
