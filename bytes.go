package archive

import (
	"bytes"
	"fmt"
)

// MarshalBinary encodes r into a buffer of exactly the right size: a
// ComputeSize pass sizes the buffer, then a WriteBinary pass fills it.
func MarshalBinary(r Record, opts ...Option) ([]byte, error) {
	size, err := SizeOf(r, opts...)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	n, err := EncodeBinary(data, r, opts...)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, &Error{Mode: ModeWriteBinary, Shape: NestedShape, Kind: ErrSizeMismatch,
			Msg: fmt.Sprintf("computed %d bytes, wrote %d", size, n)}
	}
	return data, nil
}

func UnmarshalBinary(data []byte, r Record, opts ...Option) error {
	return DecodeBinary(data, r, opts...)
}

func MarshalText(r Record, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteText(&buf, r, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnmarshalText(data []byte, r Record, opts ...Option) error {
	return ReadText(bytes.NewReader(data), r, opts...)
}

// Pack serializes obj through fn, without a version tag, the way a record's
// Visit would visit it as a field.
func Pack[T any](obj *T, fn PackFn[T], opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	a, err := NewWriter(ModeWriteBinary, &buf, opts...)
	if err != nil {
		return nil, err
	}
	fn(obj, a)
	if a.err != nil {
		return nil, a.err
	}
	return buf.Bytes(), nil
}

// Unpack is the inverse of Pack.
func Unpack[T any](data []byte, obj *T, fn PackFn[T], opts ...Option) error {
	a, err := NewReader(ModeReadBinary, bytes.NewReader(data), opts...)
	if err != nil {
		return err
	}
	fn(obj, a)
	return a.err
}
