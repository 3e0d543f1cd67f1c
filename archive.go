package archive

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

type Mode int

const (
	ModeInit Mode = iota
	ModeReadBinary
	ModeWriteBinary
	ModeReadText
	ModeWriteText
	ModeComputeSize
)

var modeNames = [...]string{
	ModeInit:        "init",
	ModeReadBinary:  "read binary",
	ModeWriteBinary: "write binary",
	ModeReadText:    "read text",
	ModeWriteText:   "write text",
	ModeComputeSize: "compute size",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) reads() bool  { return m == ModeReadBinary || m == ModeReadText }
func (m Mode) writes() bool { return m == ModeWriteBinary || m == ModeWriteText }

// DefaultMaxLength caps decoded length prefixes. Below the cap, memory for a
// decoded container grows with the data actually read, not with its prefix.
const DefaultMaxLength = 64 << 20

// Delimiter separates tokens in the text encoding.
const Delimiter = ' '

type Options struct {
	// MaxLength is the largest string or container length accepted on read.
	// Zero means DefaultMaxLength.
	MaxLength int

	// StrictText rejects runs of consecutive delimiters on text reads. By
	// default they are skipped, although the writer never produces them.
	StrictText bool
}

type Option func(*Options)

func WithMaxLength(n int) Option {
	return func(o *Options) { o.MaxLength = n }
}

func WithStrictText() Option {
	return func(o *Options) { o.StrictText = true }
}

func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	return o
}

// Archive is a single-use cursor that pushes every visited field through
// one of six behaviors, selected by its Mode. The first failure is sticky:
// every operation after it is a no-op, and Err reports it.
//
// An Archive borrows its reader or writer and never closes it. It is not
// safe for concurrent use.
type Archive struct {
	mode Mode
	r    io.Reader
	br   io.ByteReader
	w    io.Writer
	size int
	err  error
	opts Options

	scratch [8]byte
	tok     []byte
}

// New creates an Archive that touches no stream: ModeInit or ModeComputeSize.
func New(mode Mode, opts ...Option) (*Archive, error) {
	if mode != ModeInit && mode != ModeComputeSize {
		return nil, mismatch(mode, "no stream bound")
	}
	return &Archive{mode: mode, opts: buildOptions(opts)}, nil
}

// NewReader creates an Archive decoding from r: ModeReadBinary or
// ModeReadText. Text decoding needs an io.ByteReader; other readers are
// wrapped in a bufio.Reader, which may read ahead of the record.
func NewReader(mode Mode, r io.Reader, opts ...Option) (*Archive, error) {
	if mode != ModeReadBinary && mode != ModeReadText {
		return nil, mismatch(mode, "reader bound")
	}
	if r == nil {
		return nil, mismatch(mode, "nil reader")
	}
	a := &Archive{mode: mode, r: r, opts: buildOptions(opts)}
	if br, ok := r.(io.ByteReader); ok {
		a.br = br
	} else if mode == ModeReadText {
		b := bufio.NewReader(r)
		a.r, a.br = b, b
	}
	return a, nil
}

// NewWriter creates an Archive encoding into w: ModeWriteBinary or
// ModeWriteText.
func NewWriter(mode Mode, w io.Writer, opts ...Option) (*Archive, error) {
	if mode != ModeWriteBinary && mode != ModeWriteText {
		return nil, mismatch(mode, "writer bound")
	}
	if w == nil {
		return nil, mismatch(mode, "nil writer")
	}
	return &Archive{mode: mode, w: w, opts: buildOptions(opts)}, nil
}

func (a *Archive) Mode() Mode { return a.mode }

// Size returns the number of bytes a binary write of everything visited so
// far would produce. Only meaningful in ModeComputeSize.
func (a *Archive) Size() int { return a.size }

func (a *Archive) Err() error { return a.err }

func (a *Archive) Reading() bool { return a.mode.reads() }
func (a *Archive) Writing() bool { return a.mode.writes() }

// Traverse visits r as the top-level record, version tag included.
func (a *Archive) Traverse(r Record) error {
	Versioned(r, a)
	return a.err
}

func (a *Archive) fail(shape Shape, kind error, cause error, format string, args ...any) {
	if a.err != nil {
		return
	}
	a.err = &Error{
		Mode:  a.mode,
		Shape: shape,
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		Err:   cause,
	}
}

func (a *Archive) read(p []byte, shape Shape) bool {
	if a.err != nil {
		return false
	}
	if _, err := io.ReadFull(a.r, p); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		a.fail(shape, ErrStreamIO, err, "short read of %d bytes", len(p))
		return false
	}
	return true
}

func (a *Archive) write(p []byte, shape Shape) bool {
	if a.err != nil {
		return false
	}
	n, err := a.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		a.fail(shape, ErrStreamIO, err, "wrote %d of %d bytes", n, len(p))
		return false
	}
	return true
}

// length pushes a uint32 length prefix through the archive. On write it
// carries n; on read it returns the decoded value, rejected with limitErr if
// it exceeds limit.
func (a *Archive) length(n int, shape Shape, limit int, limitErr error) (int, bool) {
	if a.err != nil {
		return 0, false
	}
	if !a.mode.reads() && (n < 0 || uint64(n) > math.MaxUint32) {
		a.fail(shape, ErrStreamIO, nil, "length %d does not fit in a uint32 prefix", n)
		return 0, false
	}
	u := uint32(n)
	scalar(&u, shape, a)
	if a.err != nil {
		return 0, false
	}
	if a.mode.reads() && uint64(u) > uint64(limit) {
		a.fail(shape, limitErr, nil, "length %d exceeds limit %d", u, limit)
		return 0, false
	}
	return int(u), true
}

func (a *Archive) prefix(n int, shape Shape) (int, bool) {
	return a.length(n, shape, a.opts.MaxLength, ErrStreamIO)
}

// Shape is the dispatch category of a visited field.
type Shape int

const (
	ScalarShape Shape = iota
	TextShape
	SequenceShape
	FixedArrayShape
	AssociativeShape
	PairShape
	NestedShape
)

var shapeNames = [...]string{
	ScalarShape:      "scalar",
	TextShape:        "string",
	SequenceShape:    "sequence",
	FixedArrayShape:  "fixed array",
	AssociativeShape: "associative",
	PairShape:        "pair",
	NestedShape:      "nested record",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}
