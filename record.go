package archive

import (
	"bufio"
	"io"
)

// Record is implemented by every type that can be pushed through an
// Archive. Visit lists the fields in wire order using the package's pack
// functions and never looks at the mode; the same list must be visited in
// every mode.
//
// Version is written before the fields. When decoding, Visit receives the
// version found on the wire, so it can branch to read older layouts.
type Record interface {
	Version() int32
	Visit(a *Archive, version int32)
}

// RecordPtr lets generic helpers take records by value.
type RecordPtr[T any] interface {
	*T
	Record
}

// PackFn visits one value of type T; it reads or writes depending on the
// archive's mode.
type PackFn[T any] func(v *T, a *Archive)

// InitAll resets every field of r to its default value.
func InitAll(r Record) {
	a, _ := New(ModeInit)
	a.Traverse(r)
}

// SizeOf returns the exact number of bytes WriteBinary would produce for r.
// It does not modify r.
func SizeOf(r Record, opts ...Option) (int, error) {
	a, err := New(ModeComputeSize, opts...)
	if err != nil {
		return 0, err
	}
	if err := a.Traverse(r); err != nil {
		return 0, err
	}
	return a.Size(), nil
}

func WriteBinary(w io.Writer, r Record, opts ...Option) error {
	return writeStream(ModeWriteBinary, w, r, opts)
}

func WriteText(w io.Writer, r Record, opts ...Option) error {
	return writeStream(ModeWriteText, w, r, opts)
}

func ReadBinary(rd io.Reader, r Record, opts ...Option) error {
	return readStream(ModeReadBinary, rd, r, opts)
}

func ReadText(rd io.Reader, r Record, opts ...Option) error {
	return readStream(ModeReadText, rd, r, opts)
}

// writeStream buffers writers that are not already in-memory byte sinks and
// flushes once the traversal is done.
func writeStream(mode Mode, w io.Writer, r Record, opts []Option) error {
	var bw *bufio.Writer
	if _, ok := w.(io.ByteWriter); !ok && w != nil {
		bw = bufio.NewWriter(w)
		w = bw
	}
	a, err := NewWriter(mode, w, opts...)
	if err != nil {
		return err
	}
	if err := a.Traverse(r); err != nil {
		return err
	}
	if bw != nil {
		if err := bw.Flush(); err != nil {
			return &Error{Mode: mode, Shape: NestedShape, Kind: ErrStreamIO, Msg: "flush", Err: err}
		}
	}
	return nil
}

func readStream(mode Mode, rd io.Reader, r Record, opts []Option) error {
	a, err := NewReader(mode, rd, opts...)
	if err != nil {
		return err
	}
	return a.Traverse(r)
}
