package archive

import "io"

// Window exposes caller-owned memory as a fixed-capacity stream endpoint
// without copying it. Reads consume Data from the start; writes fill it from
// the start and fail with ErrWindowFull instead of truncating. A window over
// zero-length memory is valid and simply empty.
type Window struct {
	Data []byte
	RPos int
	WPos int
}

var (
	_ io.Reader     = (*Window)(nil)
	_ io.ByteReader = (*Window)(nil)
	_ io.Writer     = (*Window)(nil)
	_ io.ByteWriter = (*Window)(nil)
)

func NewWindow(data []byte) *Window {
	return &Window{Data: data}
}

// Len reports how many bytes have been written.
func (w *Window) Len() int { return w.WPos }

// Bytes is the written part of the window, aliasing the caller's memory.
func (w *Window) Bytes() []byte { return w.Data[:w.WPos] }

// Cap is the fixed capacity of the window.
func (w *Window) Cap() int { return len(w.Data) }

func (w *Window) ReadingDone() bool {
	return w.RPos >= len(w.Data)
}

func (w *Window) Read(p []byte) (int, error) {
	if w.RPos >= len(w.Data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, w.Data[w.RPos:])
	w.RPos += n
	return n, nil
}

// implements io.ByteReader
func (w *Window) ReadByte() (byte, error) {
	if w.RPos >= len(w.Data) {
		return 0, io.EOF
	}
	b := w.Data[w.RPos]
	w.RPos++
	return b, nil
}

func (w *Window) Write(p []byte) (int, error) {
	n := copy(w.Data[w.WPos:], p)
	w.WPos += n
	if n < len(p) {
		return n, ErrWindowFull
	}
	return n, nil
}

func (w *Window) WriteByte(b byte) error {
	if w.WPos >= len(w.Data) {
		return ErrWindowFull
	}
	w.Data[w.WPos] = b
	w.WPos++
	return nil
}

// EncodeBinary writes r into block and returns the number of bytes used.
// Running out of capacity is an error, never a truncation.
func EncodeBinary(block []byte, r Record, opts ...Option) (int, error) {
	w := NewWindow(block)
	err := WriteBinary(w, r, opts...)
	return w.Len(), err
}

func DecodeBinary(block []byte, r Record, opts ...Option) error {
	return ReadBinary(NewWindow(block), r, opts...)
}

// EncodeText writes r into block as text and returns the number of bytes
// used. A NUL byte is appended after them if capacity allows; it is not
// counted.
func EncodeText(block []byte, r Record, opts ...Option) (int, error) {
	w := NewWindow(block)
	if err := WriteText(w, r, opts...); err != nil {
		return w.Len(), err
	}
	n := w.Len()
	if n < len(block) {
		block[n] = 0
	}
	return n, nil
}

// DecodeText reads r from text in block. Reading stops where the record
// ends, so a NUL appended by EncodeText is never looked at.
func DecodeText(block []byte, r Record, opts ...Option) error {
	return ReadText(NewWindow(block), r, opts...)
}
