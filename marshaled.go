package archive

import (
	"bytes"
	"encoding/hex"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshaled packs any msgpack-encodable value, given by pointer, as an
// opaque blob: a uint32 length and the msgpack bytes in binary, a length
// token and a hex token in text. Map keys are sorted so the size pass and
// the write pass agree.
func Marshaled(v any, a *Archive) {
	if a.err != nil {
		return
	}
	if a.mode == ModeInit {
		resetValue(v)
		return
	}
	var blob []byte
	if !a.mode.reads() {
		var err error
		blob, err = encodeMsgpack(v)
		if err != nil {
			a.fail(TextShape, ErrEncode, err, "msgpack encode %T", v)
			return
		}
	}
	packBlob(&blob, a)
	if a.err != nil || !a.mode.reads() {
		return
	}
	resetValue(v)
	if err := msgpack.Unmarshal(blob, v); err != nil {
		a.fail(TextShape, ErrParseFailure, err, "msgpack decode %T", v)
	}
}

func resetValue(v any) {
	rv := reflect.ValueOf(v).Elem()
	rv.Set(reflect.Zero(rv.Type()))
}

func encodeMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(v)
	msgpack.PutEncoder(enc)
	return buf.Bytes(), err
}

func packBlob(blob *[]byte, a *Archive) {
	switch a.mode {
	case ModeComputeSize:
		a.size += 4 + len(*blob)
		return
	case ModeReadBinary, ModeWriteBinary:
		Numbers(blob, a)
		return
	}
	size, ok := a.prefix(len(*blob), TextShape)
	if !ok || size == 0 {
		return
	}
	switch a.mode {
	case ModeWriteText:
		a.tok = hex.AppendEncode(a.tok[:0], *blob)
		a.tok = append(a.tok, Delimiter)
		a.write(a.tok, TextShape)
	case ModeReadText:
		tok, ok := a.hexToken(size)
		if !ok {
			return
		}
		*blob = make([]byte, size)
		if n, err := hex.Decode(*blob, tok); err != nil || n != size {
			a.fail(TextShape, ErrParseFailure, err, "hex blob of %d bytes", size)
		}
	}
}

// hexToken reads a token of exactly 2*size hex digits; it may be longer than
// a numeric token.
func (a *Archive) hexToken(size int) ([]byte, bool) {
	var buf []byte
	readNumbers(&buf, 2*size, TextShape, a)
	if a.err != nil {
		return nil, false
	}
	a.skipDelimiter(TextShape)
	return buf, a.err == nil
}
