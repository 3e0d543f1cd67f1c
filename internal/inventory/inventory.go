// Package inventory holds the record types the archivetool command works on.
package inventory

import (
	"github.com/google/uuid"

	"go.hasen.dev/archive"
)

type Item struct {
	SKU   string
	Count int32
	Price float64
	Dims  [3]float32
}

func (it *Item) Version() int32 { return 1 }

func (it *Item) Visit(a *archive.Archive, version int32) {
	archive.String(&it.SKU, a)
	archive.Scalar(&it.Count, a)
	archive.Scalar(&it.Price, a)
	archive.NumberArray(it.Dims[:], a)
}

type Location = archive.Pair[float64, float64]

// Inventory is at version 2, which added Tags. Version 1 data still decodes
// and leaves Tags empty.
type Inventory struct {
	ID       uuid.UUID
	Name     string
	Location Location
	Items    []Item
	Stock    map[string]int32
	Tags     map[string]struct{}
	Extra    map[string]string
}

func (inv *Inventory) Version() int32 { return 2 }

func (inv *Inventory) Visit(a *archive.Archive, version int32) {
	archive.UUID(&inv.ID, a)
	archive.String(&inv.Name, a)
	archive.PackPair(&inv.Location, archive.Scalar[float64], archive.Scalar[float64], a)
	archive.Slice(&inv.Items, archive.Nested[Item], a)
	archive.Map(&inv.Stock, archive.String, archive.Scalar[int32], a)
	if version >= 2 {
		archive.Set(&inv.Tags, archive.String, a)
	} else {
		inv.Tags = nil
	}
	archive.Marshaled(&inv.Extra, a)
}

// Sample is a small record with one field of each common shape.
type Sample struct {
	IntField       int32
	FloatField     float32
	Text           string
	IntVector      []int32
	StringToIntMap map[string]int32
}

func (s *Sample) Version() int32 { return 0 }

func (s *Sample) Visit(a *archive.Archive, version int32) {
	archive.Scalar(&s.IntField, a)
	archive.Scalar(&s.FloatField, a)
	archive.String(&s.Text, a)
	archive.Numbers(&s.IntVector, a)
	archive.Map(&s.StringToIntMap, archive.String, archive.Scalar[int32], a)
}

func NewSample() *Sample {
	return &Sample{
		IntField:       13,
		FloatField:     10.1,
		Text:           "hello",
		IntVector:      []int32{11, 12, 13},
		StringToIntMap: map[string]int32{"abc": 1, "def": 2},
	}
}

// Demo returns a populated Inventory.
func Demo() *Inventory {
	return &Inventory{
		ID:       uuid.MustParse("6f1c7a52-2d7e-4b8e-9a43-0c1d5e9b7f10"),
		Name:     "north-warehouse",
		Location: Location{First: 59.3293, Second: 18.0686},
		Items: []Item{
			{SKU: "bolt-m6", Count: 1200, Price: 0.05, Dims: [3]float32{6, 6, 30}},
			{SKU: "panel oak", Count: 14, Price: 89.5, Dims: [3]float32{600, 18, 2400}},
		},
		Stock: map[string]int32{"bolt-m6": 1200, "panel oak": 14},
		Tags:  map[string]struct{}{"cold": {}, "dock-3": {}},
		Extra: map[string]string{"manager": "R. Lindqvist"},
	}
}
