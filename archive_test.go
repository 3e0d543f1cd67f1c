package archive

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	IntField       int32
	FloatField     float32
	Text           string
	IntVector      []int32
	StringToIntMap map[string]int32
}

func (s *sample) Version() int32 { return 0 }

func (s *sample) Visit(a *Archive, version int32) {
	Scalar(&s.IntField, a)
	Scalar(&s.FloatField, a)
	String(&s.Text, a)
	Numbers(&s.IntVector, a)
	Map(&s.StringToIntMap, String, Scalar[int32], a)
}

func newSample() *sample {
	return &sample{
		IntField:       13,
		FloatField:     10.1,
		Text:           "hello",
		IntVector:      []int32{11, 12, 13},
		StringToIntMap: map[string]int32{"abc": 1, "def": 2},
	}
}

func TestSampleScenario(t *testing.T) {
	in := newSample()

	size, err := SizeOf(in)
	require.NoError(t, err)
	assert.Equal(t, 63, size)

	data, err := MarshalBinary(in)
	require.NoError(t, err)
	assert.Len(t, data, size)

	var out sample
	require.NoError(t, UnmarshalBinary(data, &out))
	assert.Equal(t, in, &out)

	text, err := MarshalText(in)
	require.NoError(t, err)
	assert.Equal(t, "0 13 10.1 5 hello 3 11 12 13 2 3 abc 1 3 def 2 ", string(text))
}

func TestBinaryLayout(t *testing.T) {
	s := &sample{IntField: 1, Text: "ab"}
	data, err := MarshalBinary(s)
	require.NoError(t, err)

	var want []byte
	want = NativeEndian.AppendUint32(want, 0) // version
	want = NativeEndian.AppendUint32(want, 1)
	want = NativeEndian.AppendUint32(want, 0) // 0.0
	want = NativeEndian.AppendUint32(want, 2)
	want = append(want, "ab"...)
	want = NativeEndian.AppendUint32(want, 0)
	want = NativeEndian.AppendUint32(want, 0)
	assert.Equal(t, want, data)
}

func TestSizeOfDoesNotModify(t *testing.T) {
	in := populated()
	_, err := SizeOf(in)
	require.NoError(t, err)
	assert.Equal(t, populated(), in)
}

func TestInitAllIdempotent(t *testing.T) {
	e := populated()
	InitAll(e)
	assert.Equal(t, &everything{}, e)
	InitAll(e)
	assert.Equal(t, &everything{}, e)
}

func TestConstructionMismatch(t *testing.T) {
	var buf bytes.Buffer
	for _, mode := range []Mode{ModeReadBinary, ModeWriteBinary, ModeReadText, ModeWriteText} {
		_, err := New(mode)
		assert.True(t, errors.Is(err, ErrConstructionMismatch), mode.String())
	}
	for _, mode := range []Mode{ModeInit, ModeComputeSize, ModeWriteBinary, ModeWriteText} {
		_, err := NewReader(mode, &buf)
		assert.True(t, errors.Is(err, ErrConstructionMismatch), mode.String())
	}
	for _, mode := range []Mode{ModeInit, ModeComputeSize, ModeReadBinary, ModeReadText} {
		_, err := NewWriter(mode, &buf)
		assert.True(t, errors.Is(err, ErrConstructionMismatch), mode.String())
	}
	_, err := NewReader(ModeReadBinary, nil)
	assert.True(t, errors.Is(err, ErrConstructionMismatch))
	_, err = NewWriter(ModeWriteText, nil)
	assert.True(t, errors.Is(err, ErrConstructionMismatch))
}

type textOnly struct {
	S string
}

func (r *textOnly) Version() int32 { return 0 }

func (r *textOnly) Visit(a *Archive, version int32) {
	String(&r.S, a)
}

func TestShortStringIsStreamIO(t *testing.T) {
	var r textOnly
	err := UnmarshalText([]byte("0 5 hel"), &r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStreamIO))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	var data []byte
	data = NativeEndian.AppendUint32(data, 0)
	data = NativeEndian.AppendUint32(data, 5)
	data = append(data, "hel"...)
	err = UnmarshalBinary(data, &r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStreamIO))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, ModeReadBinary, e.Mode)
	assert.Equal(t, TextShape, e.Shape)
	assert.Contains(t, err.Error(), "read binary: string: stream i/o")
}

func TestStringMayContainSpaces(t *testing.T) {
	in := textOnly{S: " two  words "}
	data, err := MarshalText(&in)
	require.NoError(t, err)
	var out textOnly
	require.NoError(t, UnmarshalText(data, &out))
	assert.Equal(t, in, out)
}

type fixed struct {
	Arr [4]int16
}

func (f *fixed) Version() int32 { return 0 }

func (f *fixed) Visit(a *Archive, version int32) {
	NumberArray(f.Arr[:], a)
}

type short struct {
	Arr []int16
}

func (s *short) Version() int32 { return 0 }

func (s *short) Visit(a *Archive, version int32) {
	Numbers(&s.Arr, a)
}

func TestArraySizeExceeded(t *testing.T) {
	data, err := MarshalBinary(&short{Arr: []int16{1, 2, 3, 4, 5}})
	require.NoError(t, err)

	f := fixed{Arr: [4]int16{9, 9, 9, 9}}
	err = UnmarshalBinary(data, &f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArraySizeExceeded))
	assert.Equal(t, [4]int16{9, 9, 9, 9}, f.Arr)

	text, err := MarshalText(&short{Arr: []int16{1, 2, 3, 4, 5}})
	require.NoError(t, err)
	err = UnmarshalText(text, &f)
	assert.True(t, errors.Is(err, ErrArraySizeExceeded))
}

func TestArrayShorterKeepsTail(t *testing.T) {
	data, err := MarshalBinary(&short{Arr: []int16{1, 2}})
	require.NoError(t, err)

	f := fixed{Arr: [4]int16{9, 9, 9, 9}}
	require.NoError(t, UnmarshalBinary(data, &f))
	assert.Equal(t, [4]int16{1, 2, 9, 9}, f.Arr)
}

func TestParseFailure(t *testing.T) {
	var s sample
	err := UnmarshalText([]byte("0 abc "), &s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParseFailure))

	var f fixed
	err = UnmarshalText([]byte("0 1 70000 "), &f)
	assert.True(t, errors.Is(err, ErrParseFailure))
}

func TestTextDelimiterLeniency(t *testing.T) {
	input := "0   13\n10.1\t5 hello 0 0 "
	var s sample
	require.NoError(t, UnmarshalText([]byte(input), &s))
	assert.Equal(t, int32(13), s.IntField)
	assert.Equal(t, "hello", s.Text)

	err := UnmarshalText([]byte(input), &s, WithStrictText())
	assert.True(t, errors.Is(err, ErrParseFailure))
}

func TestMaxLength(t *testing.T) {
	data, err := MarshalBinary(&textOnly{S: "hello"})
	require.NoError(t, err)
	var out textOnly
	err = UnmarshalBinary(data, &out, WithMaxLength(4))
	assert.True(t, errors.Is(err, ErrStreamIO))
	require.NoError(t, UnmarshalBinary(data, &out, WithMaxLength(5)))
}

func TestWindowFull(t *testing.T) {
	in := newSample()
	block := make([]byte, 20)
	n, err := EncodeBinary(block, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStreamIO))
	assert.True(t, errors.Is(err, ErrWindowFull))
	assert.LessOrEqual(t, n, len(block))

	_, err = EncodeText(make([]byte, 10), in)
	assert.True(t, errors.Is(err, ErrWindowFull))
}

func TestWindowEmpty(t *testing.T) {
	w := NewWindow(nil)
	n, err := w.Read(make([]byte, 1))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
	_, err = w.Write([]byte{1})
	assert.Equal(t, ErrWindowFull, err)
	assert.True(t, w.ReadingDone())
	assert.Equal(t, 0, w.Len())

	var r textOnly
	assert.True(t, errors.Is(DecodeBinary(nil, &r), ErrStreamIO))
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	in := populated()

	var out1, out2, out3 everything
	bin := filepath.Join(dir, "rec.bin")
	require.NoError(t, WriteBinaryFile(bin, in))
	require.NoError(t, ReadBinaryFile(bin, &out1))
	assert.Equal(t, in, &out1)

	txt := filepath.Join(dir, "rec.txt")
	require.NoError(t, WriteTextFile(txt, in))
	require.NoError(t, ReadTextFile(txt, &out2))
	assert.Equal(t, in, &out2)

	mapped := filepath.Join(dir, "rec.map")
	require.NoError(t, WriteMappedFile(mapped, in))
	require.NoError(t, ReadMappedFile(mapped, &out3))
	assert.Equal(t, in, &out3)

	var fromPlain everything
	require.NoError(t, ReadBinaryFile(mapped, &fromPlain))
	assert.Equal(t, in, &fromPlain)
}

func TestFileOpenFailure(t *testing.T) {
	var r textOnly
	err := ReadBinaryFile(filepath.Join(t.TempDir(), "missing.bin"), &r)
	assert.True(t, errors.Is(err, ErrOpen))

	err = WriteTextFile(filepath.Join(t.TempDir(), "no", "such", "dir.txt"), &r)
	assert.True(t, errors.Is(err, ErrOpen))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteFailureAborts(t *testing.T) {
	a, err := NewWriter(ModeWriteBinary, failingWriter{})
	require.NoError(t, err)
	err = a.Traverse(newSample())
	assert.True(t, errors.Is(err, ErrStreamIO))
	assert.True(t, errors.Is(err, io.ErrClosedPipe))

	err = WriteText(failingWriter{}, newSample())
	assert.True(t, errors.Is(err, ErrStreamIO))
}

func TestModeAndShapeStrings(t *testing.T) {
	assert.Equal(t, "compute size", ModeComputeSize.String())
	assert.Equal(t, "Mode(42)", Mode(42).String())
	assert.Equal(t, "fixed array", FixedArrayShape.String())
	assert.True(t, strings.HasPrefix(Shape(-1).String(), "Shape("))
}
