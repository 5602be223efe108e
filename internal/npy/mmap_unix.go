//go:build unix

package npy

import (
	"os"
	"syscall"
)

// mmapFile memory-maps a file (Unix implementation).
func mmapFile(f *os.File, size int64, writable bool) ([]byte, error) {
	prot := syscall.PROT_READ
	if writable {
		prot |= syscall.PROT_WRITE
	}
	return syscall.Mmap(
		int(f.Fd()),
		0,
		int(size),
		prot,
		syscall.MAP_SHARED,
	)
}

// munmapFile unmaps a memory-mapped file (Unix implementation).
func munmapFile(data []byte) error {
	return syscall.Munmap(data)
}
