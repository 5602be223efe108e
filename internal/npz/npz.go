// Package npz implements the .npz multi-array container: a zip
// archive whose entries are independently encoded .npy streams.
package npz

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/born-ml/npyio/internal/npy"
	"github.com/born-ml/npyio/internal/tensor"
)

// entrySuffix is appended to array names to form archive entry names.
const entrySuffix = ".npy"

// EntryNotFoundError reports a lookup for an array name the archive
// does not contain.
type EntryNotFoundError struct {
	Name string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("array %q not found in archive", e.Name)
}

// entryName appends the conventional suffix unless the caller already
// included it.
func entryName(name string) string {
	if strings.HasSuffix(name, entrySuffix) {
		return name
	}
	return name + entrySuffix
}

// matchesEntry reports whether a stored entry name satisfies a lookup
// name. The lookup may spell the suffix or omit it, but not double it.
func matchesEntry(stored, name string) bool {
	return stored == name || stored == name+entrySuffix
}

// Writer writes arrays into a .npz archive. Entries are stored
// uncompressed by default, matching the common savez convention; use
// NewCompressedWriter for deflate compression.
type Writer struct {
	zip    *zip.Writer
	method uint16
}

// NewWriter creates a .npz writer with uncompressed entries.
func NewWriter(w io.Writer) *Writer {
	return &Writer{zip: zip.NewWriter(w), method: zip.Store}
}

// NewCompressedWriter creates a .npz writer whose entries are
// deflate-compressed.
func NewCompressedWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &Writer{zip: zw, method: zip.Deflate}
}

// AddArray encodes the array as one archive entry. The conventional
// .npy suffix is appended to name unless already present. Duplicate
// names are not deduplicated.
func (w *Writer) AddArray(name string, t *tensor.RawTensor) error {
	entry, err := w.zip.CreateHeader(&zip.FileHeader{
		Name:   entryName(name),
		Method: w.method,
	})
	if err != nil {
		return fmt.Errorf("zip file error: %w", err)
	}
	if err := npy.Write(entry, t); err != nil {
		return fmt.Errorf("error writing npy file to npz archive: %w", err)
	}
	return nil
}

// Close seals the archive. No arrays can be added afterwards.
func (w *Writer) Close() error {
	return w.zip.Close()
}

// Reader reads arrays from a .npz archive.
type Reader struct {
	zip *zip.Reader
}

// NewReader opens a .npz archive of the given size.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("zip file error: %w", err)
	}
	return &Reader{zip: zr}, nil
}

// Len returns the number of entries in the archive.
func (r *Reader) Len() int {
	return len(r.zip.File)
}

// IsEmpty reports whether the archive contains no entries.
func (r *Reader) IsEmpty() bool {
	return len(r.zip.File) == 0
}

// Names returns the stored entry names in insertion order, duplicates
// included.
func (r *Reader) Names() []string {
	names := make([]string, len(r.zip.File))
	for i, f := range r.zip.File {
		names[i] = f.Name
	}
	return names
}

// ByName decodes the array stored under name, which may be given with
// or without the .npy suffix. The first matching entry wins.
func (r *Reader) ByName(name string, dt tensor.DataType) (*tensor.RawTensor, error) {
	for _, f := range r.zip.File {
		if matchesEntry(f.Name, name) {
			return readEntry(f, dt)
		}
	}
	return nil, &EntryNotFoundError{Name: name}
}

// ByIndex decodes the array stored at the given entry index.
func (r *Reader) ByIndex(index int, dt tensor.DataType) (*tensor.RawTensor, error) {
	if index < 0 || index >= len(r.zip.File) {
		return nil, fmt.Errorf("entry index %d out of range [0, %d)", index, len(r.zip.File))
	}
	return readEntry(r.zip.File[index], dt)
}

func readEntry(f *zip.File, dt tensor.DataType) (*tensor.RawTensor, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("zip file error: %w", err)
	}
	defer rc.Close()
	t, err := npy.Read(rc, dt)
	if err != nil {
		return nil, fmt.Errorf("error reading npy file in npz archive: %w", err)
	}
	return t, nil
}

// View is a zero-copy reader over a buffer holding a complete .npz
// archive, typically a memory-mapped file. Only uncompressed entries
// can be viewed; compressed entries are skipped.
type View struct {
	entries []viewEntry
}

type viewEntry struct {
	name string
	data []byte
}

// NewView indexes the uncompressed entries of the archive in buf.
func NewView(buf []byte) (*View, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("zip file error: %w", err)
	}
	v := &View{}
	for _, f := range zr.File {
		if f.Method != zip.Store {
			continue
		}
		off, err := f.DataOffset()
		if err != nil {
			return nil, fmt.Errorf("zip file error: %w", err)
		}
		end := off + int64(f.UncompressedSize64)
		if end > int64(len(buf)) {
			return nil, fmt.Errorf("entry %q extends beyond archive", f.Name)
		}
		v.entries = append(v.entries, viewEntry{name: f.Name, data: buf[off:end]})
	}
	return v, nil
}

// Names returns the viewable entry names in insertion order.
func (v *View) Names() []string {
	names := make([]string, len(v.entries))
	for i, e := range v.entries {
		names[i] = e.name
	}
	return names
}

// ByName returns a zero-copy array over the entry stored under name.
// The array aliases the archive buffer.
func (v *View) ByName(name string, dt tensor.DataType) (*tensor.RawTensor, error) {
	for _, e := range v.entries {
		if matchesEntry(e.name, name) {
			t, err := npy.View(e.data, dt)
			if err != nil {
				return nil, fmt.Errorf("error viewing npy file in npz archive: %w", err)
			}
			return t, nil
		}
	}
	return nil, &EntryNotFoundError{Name: name}
}
