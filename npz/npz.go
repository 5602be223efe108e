// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package npz reads and writes the NumPy .npz multi-array container,
// a zip archive of independently encoded .npy entries.
//
//	w := npz.NewWriter(f)
//	w.AddArray("weights", weights)
//	w.AddArray("bias", bias)
//	if err := w.Close(); err != nil {
//	    ...
//	}
package npz

import (
	"os"

	"github.com/born-ml/npyio/internal/npz"
	"github.com/born-ml/npyio/internal/tensor"
)

// Type aliases for public API

// Writer writes arrays into a .npz archive.
type Writer = npz.Writer

// Reader reads arrays from a .npz archive.
type Reader = npz.Reader

// View is a zero-copy reader over a buffer holding a .npz archive.
type View = npz.View

// EntryNotFoundError reports a lookup for an array the archive does
// not contain.
type EntryNotFoundError = npz.EntryNotFoundError

// Re-exported constructors.
var (
	NewWriter           = npz.NewWriter
	NewCompressedWriter = npz.NewCompressedWriter
	NewReader           = npz.NewReader
	NewView             = npz.NewView
)

// OpenFile opens the .npz archive at the given path for reading. The
// caller owns the returned file and must keep it open while using the
// reader.
func OpenFile(path string) (*Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	r, err := npz.NewReader(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

// ReadFile decodes every array in the .npz file at the given path,
// all with elements of type dt, keyed by stored entry name. Later
// duplicates overwrite earlier ones.
func ReadFile(path string, dt tensor.DataType) (map[string]*tensor.RawTensor, error) {
	r, f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make(map[string]*tensor.RawTensor, r.Len())
	for i, name := range r.Names() {
		t, err := r.ByIndex(i, dt)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}
