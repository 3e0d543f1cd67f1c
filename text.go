package archive

import "io"

// maxTokenLen bounds a single numeric token; nothing the writer emits comes
// close to it.
const maxTokenLen = 512

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// token reads the next delimiter-terminated token and consumes the delimiter
// that ends it. Leading delimiters are skipped unless StrictText is set. The
// returned slice is only valid until the next call.
func (a *Archive) token(shape Shape) ([]byte, bool) {
	if a.err != nil {
		return nil, false
	}
	a.tok = a.tok[:0]
	for {
		c, err := a.br.ReadByte()
		if err != nil {
			if err == io.EOF && len(a.tok) > 0 {
				return a.tok, true
			}
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			a.fail(shape, ErrStreamIO, err, "reading token")
			return nil, false
		}
		if isSpace(c) {
			if len(a.tok) > 0 {
				return a.tok, true
			}
			if a.opts.StrictText {
				a.fail(shape, ErrParseFailure, nil, "unexpected delimiter %q", c)
				return nil, false
			}
			continue
		}
		if len(a.tok) >= maxTokenLen {
			a.fail(shape, ErrParseFailure, nil, "token longer than %d bytes", maxTokenLen)
			return nil, false
		}
		a.tok = append(a.tok, c)
	}
}

// skipDelimiter consumes the single delimiter that follows a raw payload.
// End of input is accepted in its place.
func (a *Archive) skipDelimiter(shape Shape) {
	if a.err != nil {
		return
	}
	c, err := a.br.ReadByte()
	if err == io.EOF {
		return
	}
	if err != nil {
		a.fail(shape, ErrStreamIO, err, "reading delimiter")
		return
	}
	if !isSpace(c) {
		a.fail(shape, ErrParseFailure, nil, "expected delimiter, got %q", c)
	}
}

func (a *Archive) writeDelimited(payload []byte, shape Shape) {
	if a.write(payload, shape) {
		a.scratch[0] = Delimiter
		a.write(a.scratch[:1], shape)
	}
}
