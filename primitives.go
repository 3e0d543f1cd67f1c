package archive

import (
	"encoding/binary"
	"strconv"
	"unsafe"
)

// NativeEndian is the byte order of every fixed-width value on the binary
// wire. Values move as their in-memory bytes, so the format is not portable
// across hosts of different endianness.
var NativeEndian = binary.NativeEndian

// Number is the closed set of fixed-width integer and float types. Plain int
// and uint are left out because their width depends on the platform.
// Booleans have their own pack function, Bool.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Scalar implements all six modes for a fixed-width number: zero on init,
// native-endian bytes in binary, a strconv token plus one delimiter in text.
func Scalar[T Number](v *T, a *Archive) {
	scalar(v, ScalarShape, a)
}

func scalar[T Number](v *T, shape Shape, a *Archive) {
	if a.err != nil {
		return
	}
	switch a.mode {
	case ModeInit:
		*v = 0
	case ModeComputeSize:
		a.size += int(unsafe.Sizeof(*v))
	case ModeWriteBinary:
		a.write(scalarBytes(v), shape)
	case ModeReadBinary:
		a.read(scalarBytes(v), shape)
	case ModeWriteText:
		a.tok = appendNumber(a.tok[:0], *v)
		a.tok = append(a.tok, Delimiter)
		a.write(a.tok, shape)
	case ModeReadText:
		tok, ok := a.token(shape)
		if !ok {
			return
		}
		if err := parseNumber(tok, v); err != nil {
			a.fail(shape, ErrParseFailure, err, "token %q", tok)
		}
	}
}

// Bool is the scalar shape for booleans: one byte in binary, 1 or 0 in text.
// Text reads also accept the strconv.ParseBool spellings.
func Bool[T ~bool](v *T, a *Archive) {
	if a.err != nil {
		return
	}
	switch a.mode {
	case ModeInit:
		*v = false
		return
	case ModeReadText:
		tok, ok := a.token(ScalarShape)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(string(tok))
		if err != nil {
			a.fail(ScalarShape, ErrParseFailure, err, "token %q", tok)
			return
		}
		*v = T(b)
		return
	}
	var b uint8
	if *v {
		b = 1
	}
	scalar(&b, ScalarShape, a)
	if a.mode == ModeReadBinary && a.err == nil {
		*v = T(b != 0)
	}
}

// VersionTag pushes a record version tag through the archive.
func VersionTag(v *int32, a *Archive) {
	scalar(v, NestedShape, a)
}

// scalarBytes aliases the memory of *v.
func scalarBytes[T Number](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// numberBytes aliases the backing memory of items.
func numberBytes[T Number](items []T) []byte {
	if len(items) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&items[0])), len(items)*int(unsafe.Sizeof(items[0])))
}

// isFloat and isSigned classify T by arithmetic alone; both fold to
// constants for each instantiation.
func isFloat[T Number]() bool {
	var one T = 1
	return one/2 != 0
}

func isSigned[T Number]() bool {
	var zero T
	return zero-1 < zero
}

func bitSize[T Number]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

func appendNumber[T Number](b []byte, v T) []byte {
	switch {
	case isFloat[T]():
		return strconv.AppendFloat(b, float64(v), 'g', -1, bitSize[T]())
	case isSigned[T]():
		return strconv.AppendInt(b, int64(v), 10)
	}
	return strconv.AppendUint(b, uint64(v), 10)
}

func parseNumber[T Number](tok []byte, v *T) error {
	s := string(tok)
	switch {
	case isFloat[T]():
		f, err := strconv.ParseFloat(s, bitSize[T]())
		if err != nil {
			return err
		}
		*v = T(f)
	case isSigned[T]():
		i, err := strconv.ParseInt(s, 10, bitSize[T]())
		if err != nil {
			return err
		}
		*v = T(i)
	default:
		u, err := strconv.ParseUint(s, 10, bitSize[T]())
		if err != nil {
			return err
		}
		*v = T(u)
	}
	return nil
}
