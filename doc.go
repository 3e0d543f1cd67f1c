/*
Package archive implements one traversal engine for structured records that
covers six jobs: resetting a record to defaults, reading and writing a compact
binary form, reading and writing a space-delimited text form, and computing
the exact binary size without writing anything.

# Archive and Mode

The basic building block is the `Archive`: a cursor with a Mode fixed at
construction, bound to a reader (ModeReadBinary, ModeReadText), a writer
(ModeWriteBinary, ModeWriteText) or nothing (ModeInit, ModeComputeSize).
Binding a mode to the wrong kind of endpoint fails at construction.

A record lists its fields once, in order, with the pack functions of this
package. Each pack function takes a pointer to the field and the archive, and
does whatever the mode requires: write the value, read into it, zero it, or
add its size. As a user of this package you never check the mode yourself, so
the fields are guaranteed to be read back in exactly the order they were
written.

	type Struct1 struct {
	    IntValue int32
	    Float    float32
	    Text     string
	    Vector   []int32
	    Counts   map[string]int32
	}

	func (s *Struct1) Version() int32 { return 0 }

	func (s *Struct1) Visit(a *archive.Archive, version int32) {
	    archive.Scalar(&s.IntValue, a)
	    archive.Scalar(&s.Float, a)
	    archive.String(&s.Text, a)
	    archive.Numbers(&s.Vector, a)
	    archive.Map(&s.Counts, archive.String, archive.Scalar[int32], a)
	}

# Shapes

  - Scalar, Bool: fixed-width integer and float types and booleans, written
    as their native-order bytes; one strconv token in text.
  - String: a uint32 length, then the raw bytes.
  - Slice, Numbers: a uint32 length, then each element.
  - Array, NumberArray: like Slice over a fixed-size array; a longer length on
    the wire fails with ErrArraySizeExceeded.
  - Map, Set: a uint32 length, then entries in ascending key order.
  - Pair: first, then second.
  - Versioned, Nested: the record's version tag, then its fields.

The binary format is positional and carries no schema; both sides must agree
on the field order. The text format is a flat sequence of tokens, each
followed by one space, with no brackets or quoting.

# Versioning

Every record writes its Version before its fields, and Visit receives the
version that was actually found on the wire. To change a record's layout, bump
the version and keep reading the old layout under the old number:

	func (xyz *XYZ) Version() int32 { return 2 }

	func (xyz *XYZ) Visit(a *archive.Archive, version int32) {
	    archive.Scalar(&xyz.Unit, a)
	    if version < 2 {
	        var energy int32 // field that used to exist
	        archive.Scalar(&energy, a)
	        xyz.Price = energy * xyz.Unit
	    } else {
	        archive.Scalar(&xyz.Price, a)
	    }
	    archive.String(&xyz.Chapter, a)
	}

# Errors

The first failure aborts the traversal: every later pack call is a no-op and
the top-level call returns a single *Error. Fields visited before the failure
have already been changed, so the record should be discarded.

# Sized writes

MarshalBinary and WriteMappedFile run a ComputeSize pass first and then write
into memory of exactly that size. Visit must therefore not modify the record
while writing or sizing.
*/
package archive
