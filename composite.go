package archive

import (
	"cmp"
	"slices"
	"unsafe"

	"go.hasen.dev/generic"
)

// maxPrealloc bounds the memory reserved for a decoded container before the
// data behind its length prefix has been read. Larger containers grow as
// their elements arrive.
const maxPrealloc = 64 << 10

func preallocLen[T any](n int) int {
	var zero T
	width := max(int(unsafe.Sizeof(zero)), 1)
	return min(n, max(maxPrealloc/width, 1))
}

// readNumbers reads size contiguous values, growing *list one bounded chunk
// at a time.
func readNumbers[T Number](list *[]T, size int, shape Shape, a *Archive) {
	items := make([]T, 0, preallocLen[T](size))
	for len(items) < size && a.err == nil {
		start := len(items)
		n := preallocLen[T](size - start)
		items = slices.Grow(items, n)[:start+n]
		a.read(numberBytes(items[start:]), shape)
	}
	*list = items
}

// String writes a uint32 length followed by the raw bytes, with no
// terminator. In text the length token and the payload are each followed by
// one delimiter, so the payload itself may contain spaces.
func String(s *string, a *Archive) {
	if a.err != nil {
		return
	}
	switch a.mode {
	case ModeInit:
		*s = ""
		return
	case ModeComputeSize:
		a.size += 4 + len(*s)
		return
	}
	size, ok := a.prefix(len(*s), TextShape)
	if !ok {
		return
	}
	switch a.mode {
	case ModeWriteBinary:
		a.write(unsafe.Slice(unsafe.StringData(*s), size), TextShape)
	case ModeWriteText:
		a.writeDelimited(unsafe.Slice(unsafe.StringData(*s), size), TextShape)
	case ModeReadBinary, ModeReadText:
		var buf []byte
		readNumbers(&buf, size, TextShape, a)
		if a.err != nil {
			return
		}
		if a.mode == ModeReadText {
			a.skipDelimiter(TextShape)
		}
		*s = string(buf)
	}
}

// Slice is a sequence: the length prefix, then each item through fn. Reading
// replaces the slice; an empty sequence decodes to nil.
func Slice[T any](list *[]T, fn PackFn[T], a *Archive) {
	if a.err != nil {
		return
	}
	if a.mode == ModeInit {
		*list = nil
		return
	}
	size, ok := a.prefix(len(*list), SequenceShape)
	if !ok {
		return
	}
	if a.mode.reads() {
		if size == 0 {
			*list = nil
			return
		}
		items := make([]T, 0, preallocLen[T](size))
		for index := 0; index < size && a.err == nil; index++ {
			var zero T
			items = append(items, zero)
			fn(&items[index], a)
		}
		*list = items
		return
	}
	for index := range *list {
		fn(&(*list)[index], a)
		if a.err != nil {
			return
		}
	}
}

// Numbers is Slice for fixed-width numbers. The binary payload moves as the
// slice's own memory in one block.
func Numbers[T Number](list *[]T, a *Archive) {
	if a.mode != ModeReadBinary && a.mode != ModeWriteBinary {
		Slice(list, Scalar[T], a)
		return
	}
	size, ok := a.prefix(len(*list), SequenceShape)
	if !ok {
		return
	}
	if a.mode == ModeWriteBinary {
		a.write(numberBytes(*list), SequenceShape)
		return
	}
	if size == 0 {
		*list = nil
		return
	}
	readNumbers(list, size, SequenceShape, a)
}

// Array is a fixed-size array; pass x.Field[:]. The prefix is len(arr). A
// decoded length above len(arr) fails with ErrArraySizeExceeded before any
// element is touched, and elements past a shorter decoded length keep their
// prior value.
func Array[T any](arr []T, fn PackFn[T], a *Archive) {
	size, ok := arrayPrefix(arr, a)
	if !ok {
		return
	}
	for index := range arr[:size] {
		fn(&arr[index], a)
		if a.err != nil {
			return
		}
	}
}

// NumberArray is Array for fixed-width numbers.
func NumberArray[T Number](arr []T, a *Archive) {
	if a.mode != ModeReadBinary && a.mode != ModeWriteBinary {
		Array(arr, Scalar[T], a)
		return
	}
	size, ok := arrayPrefix(arr, a)
	if !ok {
		return
	}
	if a.mode == ModeWriteBinary {
		a.write(numberBytes(arr[:size]), FixedArrayShape)
	} else {
		a.read(numberBytes(arr[:size]), FixedArrayShape)
	}
}

func arrayPrefix[T any](arr []T, a *Archive) (int, bool) {
	if a.err != nil {
		return 0, false
	}
	if a.mode == ModeInit {
		clear(arr)
		return 0, false
	}
	return a.length(len(arr), FixedArrayShape, len(arr), ErrArraySizeExceeded)
}

// Map is an associative container, written in ascending key order. Reading
// clears the map and rebuilds it from freshly decoded pairs; an empty map
// decodes to nil.
func Map[K cmp.Ordered, V any](m *map[K]V, keyFn PackFn[K], valFn PackFn[V], a *Archive) {
	if a.err != nil {
		return
	}
	if a.mode == ModeInit {
		*m = nil
		return
	}
	size, ok := a.prefix(len(*m), AssociativeShape)
	if !ok {
		return
	}
	if a.mode.reads() {
		if size == 0 {
			*m = nil
			return
		}
		clear(*m)
		generic.InitMap(m)
		for i := 0; i < size; i++ {
			var entry Pair[K, V]
			PackPair(&entry, keyFn, valFn, a)
			if a.err != nil {
				return
			}
			(*m)[entry.First] = entry.Second
		}
		return
	}
	entries := make([]Pair[K, V], 0, len(*m))
	for key, val := range *m {
		entries = append(entries, Pair[K, V]{key, val})
	}
	slices.SortFunc(entries, func(x, y Pair[K, V]) int {
		return cmp.Compare(x.First, y.First)
	})
	for index := range entries {
		PackPair(&entries[index], keyFn, valFn, a)
		if a.err != nil {
			return
		}
	}
}

// Set is a Map without values.
func Set[K cmp.Ordered](s *map[K]struct{}, fn PackFn[K], a *Archive) {
	Map(s, fn, packNothing, a)
}

func packNothing(*struct{}, *Archive) {}

// Pair is a 2-tuple: First, then Second, each per its own shape.
type Pair[A, B any] struct {
	First  A
	Second B
}

func PackPair[A, B any](p *Pair[A, B], firstFn PackFn[A], secondFn PackFn[B], a *Archive) {
	firstFn(&p.First, a)
	secondFn(&p.Second, a)
}

// PairFn adapts PackPair for use as an element function.
func PairFn[A, B any](firstFn PackFn[A], secondFn PackFn[B]) PackFn[Pair[A, B]] {
	return func(p *Pair[A, B], a *Archive) {
		PackPair(p, firstFn, secondFn, a)
	}
}

// Versioned visits a nested record: its version tag, then its fields. On read
// the record receives the decoded tag, not its own current version. Init
// skips the tag.
func Versioned(r Record, a *Archive) {
	if a.err != nil {
		return
	}
	version := r.Version()
	if a.mode != ModeInit {
		VersionTag(&version, a)
		if a.err != nil {
			return
		}
	}
	r.Visit(a, version)
}

// Nested is Versioned as an element function, for records held by value:
//
//	archive.Slice(&x.Children, archive.Nested[Child], a)
func Nested[T any, P RecordPtr[T]](v *T, a *Archive) {
	Versioned(P(v), a)
}
