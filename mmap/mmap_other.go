//go:build !unix

package mmap

import "os"

func mmap(f *os.File, size int, writable bool) ([]byte, error) {
	return nil, ErrUnsupported
}

func msync(b []byte) error {
	return ErrUnsupported
}

func munmap(b []byte) error {
	return ErrUnsupported
}
