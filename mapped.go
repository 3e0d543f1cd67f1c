package archive

import (
	"go.hasen.dev/archive/mmap"
)

// WriteMappedFile sizes the file at name with a ComputeSize pass, maps it,
// and encodes r straight into the mapping.
func WriteMappedFile(name string, r Record, opts ...Option) error {
	size, err := SizeOf(r, opts...)
	if err != nil {
		return err
	}
	region, err := mmap.Create(name, size)
	if err != nil {
		return openErr(ModeWriteBinary, name, err)
	}
	if _, err := EncodeBinary(region.Bytes(), r, opts...); err != nil {
		region.Close()
		return err
	}
	if err := region.Sync(); err != nil {
		region.Close()
		return &Error{Mode: ModeWriteBinary, Shape: NestedShape, Kind: ErrStreamIO, Msg: "msync " + name, Err: err}
	}
	return region.Close()
}

// ReadMappedFile decodes r from the file at name through a read-only
// mapping, without copying the file into memory first.
func ReadMappedFile(name string, r Record, opts ...Option) error {
	region, err := mmap.Open(name)
	if err != nil {
		return openErr(ModeReadBinary, name, err)
	}
	defer region.Close()
	return DecodeBinary(region.Bytes(), r, opts...)
}
