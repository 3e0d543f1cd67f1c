package archive

import "github.com/google/uuid"

// UUID packs a uuid as its 16 raw bytes in binary, with no length prefix,
// and as the canonical hyphenated form in text.
func UUID(id *uuid.UUID, a *Archive) {
	if a.err != nil {
		return
	}
	switch a.mode {
	case ModeInit:
		*id = uuid.Nil
	case ModeComputeSize:
		a.size += len(id)
	case ModeWriteBinary:
		a.write(id[:], ScalarShape)
	case ModeReadBinary:
		a.read(id[:], ScalarShape)
	case ModeWriteText:
		a.tok = append(a.tok[:0], id.String()...)
		a.tok = append(a.tok, Delimiter)
		a.write(a.tok, ScalarShape)
	case ModeReadText:
		tok, ok := a.token(ScalarShape)
		if !ok {
			return
		}
		parsed, err := uuid.ParseBytes(tok)
		if err != nil {
			a.fail(ScalarShape, ErrParseFailure, err, "uuid %q", tok)
			return
		}
		*id = parsed
	}
}
