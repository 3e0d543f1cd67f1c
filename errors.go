package archive

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrConstructionMismatch means the mode does not match the bound stream.
	ErrConstructionMismatch = errors.New("mode does not match endpoint")
	// ErrStreamIO means the underlying read or write failed or was short.
	ErrStreamIO = errors.New("stream i/o")
	// ErrArraySizeExceeded means an on-wire length exceeds a fixed array's capacity.
	ErrArraySizeExceeded = errors.New("array size exceeded")
	// ErrParseFailure means a text token or an embedded msgpack payload could
	// not be read as the target type.
	ErrParseFailure = errors.New("parse failure")
	// ErrEncode means a value has no encoding, such as a channel handed to
	// Marshaled.
	ErrEncode = errors.New("cannot encode value")
	// ErrOpen means a file could not be opened or created.
	ErrOpen = errors.New("cannot open file")
	// ErrSizeMismatch means a write produced a different number of bytes than
	// the size pass computed.
	ErrSizeMismatch = errors.New("size mismatch")

	ErrWindowFull = errors.New("window capacity exceeded")
)

// Error is the single failure reported for an aborted traversal. Kind is one
// of the sentinel errors above and matches with errors.Is.
type Error struct {
	Mode  Mode
	Shape Shape
	Kind  error
	Msg   string
	Err   error
}

func mismatch(mode Mode, msg string) error {
	return &Error{Mode: mode, Kind: ErrConstructionMismatch, Msg: msg}
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	var buf strings.Builder
	buf.WriteString("archive: ")
	buf.WriteString(e.Mode.String())
	if e.Kind != ErrConstructionMismatch && e.Kind != ErrOpen {
		buf.WriteString(": ")
		buf.WriteString(e.Shape.String())
	}
	buf.WriteString(": ")
	buf.WriteString(e.Kind.Error())
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}
