package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hasen.dev/archive"
)

// inventoryV1 writes the layout Inventory had before Tags existed.
type inventoryV1 struct {
	*Inventory
}

func (v inventoryV1) Version() int32 { return 1 }

func (v inventoryV1) Visit(a *archive.Archive, version int32) {
	v.Inventory.Visit(a, 1)
}

func TestInventoryRoundTrip(t *testing.T) {
	in := Demo()

	data, err := archive.MarshalBinary(in)
	require.NoError(t, err)
	size, err := archive.SizeOf(in)
	require.NoError(t, err)
	assert.Equal(t, size, len(data))

	var out Inventory
	require.NoError(t, archive.UnmarshalBinary(data, &out))
	assert.Equal(t, in, &out)

	text, err := archive.MarshalText(in)
	require.NoError(t, err)
	var fromText Inventory
	require.NoError(t, archive.UnmarshalText(text, &fromText))
	assert.Equal(t, in, &fromText)
}

func TestInventoryReadsVersion1(t *testing.T) {
	old := Demo()
	data, err := archive.MarshalBinary(inventoryV1{old})
	require.NoError(t, err)

	out := Demo()
	require.NoError(t, archive.UnmarshalBinary(data, out))
	assert.Nil(t, out.Tags)

	old.Tags = nil
	assert.Equal(t, old, out)
}

func TestInventoryReadsVersion1Text(t *testing.T) {
	old := Demo()
	text, err := archive.MarshalText(inventoryV1{old})
	require.NoError(t, err)
	assert.Equal(t, "1 ", string(text[:2]))

	out := Demo()
	require.NoError(t, archive.UnmarshalText(text, out))
	assert.Nil(t, out.Tags)
	assert.Equal(t, old, out)
}

// crate went from whole kilograms at version 1 to a float weight at
// version 2.
type crate struct {
	Label  string
	Weight float64
}

func (c *crate) Version() int32 { return 2 }

func (c *crate) Visit(a *archive.Archive, version int32) {
	archive.String(&c.Label, a)
	if version >= 2 {
		archive.Scalar(&c.Weight, a)
	} else {
		var kg int32
		archive.Scalar(&kg, a)
		c.Weight = float64(kg)
	}
}

type crateV1 struct {
	Label string
	Kg    int32
}

func (c *crateV1) Version() int32 { return 1 }

func (c *crateV1) Visit(a *archive.Archive, version int32) {
	archive.String(&c.Label, a)
	archive.Scalar(&c.Kg, a)
}

type pallet struct {
	Crates []crate
}

func (p *pallet) Version() int32 { return 0 }

func (p *pallet) Visit(a *archive.Archive, version int32) {
	archive.Slice(&p.Crates, archive.Nested[crate], a)
}

type palletV1 struct {
	Crates []crateV1
}

func (p *palletV1) Version() int32 { return 0 }

func (p *palletV1) Visit(a *archive.Archive, version int32) {
	archive.Slice(&p.Crates, archive.Nested[crateV1], a)
}

func TestNestedReadsOlderVersion(t *testing.T) {
	old := &palletV1{Crates: []crateV1{{"nails", 12}, {"glue", 3}}}
	want := &pallet{Crates: []crate{{"nails", 12}, {"glue", 3}}}

	data, err := archive.MarshalBinary(old)
	require.NoError(t, err)
	var fromBinary pallet
	require.NoError(t, archive.UnmarshalBinary(data, &fromBinary))
	assert.Equal(t, want, &fromBinary)

	text, err := archive.MarshalText(old)
	require.NoError(t, err)
	assert.Equal(t, "0 2 1 5 nails 12 1 4 glue 3 ", string(text))
	var fromText pallet
	require.NoError(t, archive.UnmarshalText(text, &fromText))
	assert.Equal(t, want, &fromText)

	current := &pallet{Crates: []crate{{"resin", 2.25}}}
	text, err = archive.MarshalText(current)
	require.NoError(t, err)
	assert.Equal(t, "0 1 2 5 resin 2.25 ", string(text))
	var back pallet
	require.NoError(t, archive.UnmarshalText(text, &back))
	assert.Equal(t, current, &back)
}

func TestSampleText(t *testing.T) {
	text, err := archive.MarshalText(NewSample())
	require.NoError(t, err)
	assert.Equal(t, "0 13 10.1 5 hello 3 11 12 13 2 3 abc 1 3 def 2 ", string(text))
}

func TestInitAllMatchesZeroValue(t *testing.T) {
	inv := Demo()
	archive.InitAll(inv)
	assert.Equal(t, &Inventory{}, inv)

	archive.InitAll(inv)
	assert.Equal(t, &Inventory{}, inv)
}
