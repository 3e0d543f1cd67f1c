// Package mmap maps files into memory so a fixed-capacity archive block can
// live directly on disk.
package mmap

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrUnsupported = errors.New("mmap is not supported on this platform")

// Region is a file mapped read-write in shared mode. Writes into Bytes reach
// the file; Sync forces them to disk.
type Region struct {
	f    *os.File
	data []byte
}

// Create creates or truncates the file at path to exactly size bytes and
// maps it.
func Create(path string, size int) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "truncate %s to %d", path, size)
	}
	return mapFile(f, size, true)
}

// Open maps an existing file read-only, in full.
func Open(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	return mapFile(f, int(st.Size()), false)
}

func mapFile(f *os.File, size int, writable bool) (*Region, error) {
	if size == 0 {
		return &Region{f: f}, nil
	}
	data, err := mmap(f, size, writable)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap %s", f.Name())
	}
	logrus.WithField("file", f.Name()).WithField("size", size).Debugf("mapped file")
	return &Region{f: f, data: data}, nil
}

// Bytes is the mapped memory. It is nil for an empty file and invalid after
// Close.
func (r *Region) Bytes() []byte { return r.data }

func (r *Region) Len() int { return len(r.data) }

func (r *Region) Sync() error {
	if r.data == nil {
		return nil
	}
	return msync(r.data)
}

func (r *Region) Close() error {
	var firstErr error
	if r.data != nil {
		if err := munmap(r.data); err != nil {
			firstErr = errors.Wrapf(err, "munmap %s", r.f.Name())
		}
		r.data = nil
	}
	if err := r.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
