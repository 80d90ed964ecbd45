package reports

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
)

// ErrBadAddress is returned for storage addresses that do not follow the
// aisle-shelf-level-position layout, e.g. A2-P1-N3-001.
var ErrBadAddress = errors.New("invalid storage address")

var addressPattern = regexp.MustCompile(`^([A-Z])(\d+)-P(\d+)-N(\d+)-(\d{3})$`)

// Address is a parsed storage address.
type Address struct {
	Aisle    string
	Block    int
	Shelf    int
	Level    int
	Position string
}

// ParseAddress parses addresses like "A2-P1-N3-001": aisle A, block 2,
// shelf 1, level 3, position 001.
func ParseAddress(s string) (Address, error) {
	m := addressPattern.FindStringSubmatch(s)
	if m == nil {
		return Address{}, fmt.Errorf("%w: %q", ErrBadAddress, s)
	}

	block, _ := strconv.Atoi(m[2])
	shelf, _ := strconv.Atoi(m[3])
	level, _ := strconv.Atoi(m[4])
	return Address{Aisle: m[1], Block: block, Shelf: shelf, Level: level, Position: m[5]}, nil
}

// Location is the address without its position, e.g. A2-P1-N3.
func (a Address) Location() string {
	return fmt.Sprintf("%s%d-P%d-N%d", a.Aisle, a.Block, a.Shelf, a.Level)
}

func (a Address) String() string {
	return a.Location() + "-" + a.Position
}

// Slot is one occupied storage position.
type Slot struct {
	Address  Address
	Code     string
	Name     string
	Quantity int
	IsPump   bool
}

// Aisle groups the occupied positions of one aisle.
type Aisle struct {
	Name  string
	Slots []Slot
}

// Locations returns the distinct shelf locations used in the aisle.
func (a Aisle) Locations() []string {
	var out []string
	for _, s := range a.Slots {
		if loc := s.Address.Location(); !slices.Contains(out, loc) {
			out = append(out, loc)
		}
	}
	return out
}

// StorageMap is the warehouse layout derived from item and pump addresses.
type StorageMap struct {
	Aisles []Aisle

	// Unplaced lists items and pumps whose address is empty or malformed.
	Unplaced []Slot
}

// BuildStorageMap groups items and stocked pumps by aisle, sorted by
// aisle and then by address. Deployed pumps are in the field and are left
// out.
func BuildStorageMap(s store.State) StorageMap {
	var m StorageMap
	byAisle := make(map[string]int)

	place := func(addr string, slot Slot) {
		a, err := ParseAddress(addr)
		if err != nil {
			m.Unplaced = append(m.Unplaced, slot)
			return
		}
		slot.Address = a
		i, ok := byAisle[a.Aisle]
		if !ok {
			i = len(m.Aisles)
			byAisle[a.Aisle] = i
			m.Aisles = append(m.Aisles, Aisle{Name: a.Aisle})
		}
		m.Aisles[i].Slots = append(m.Aisles[i].Slots, slot)
	}

	for _, item := range s.Items {
		place(item.StorageAddress, Slot{Code: item.Code, Name: item.Name, Quantity: item.CurrentQty})
	}
	for _, p := range s.Pumps {
		if p.Status() != models.PumpStatusInStock {
			continue
		}
		place(p.StorageAddress(), Slot{Code: p.ID, Name: p.Manufacturer + " " + p.Model, Quantity: 1, IsPump: true})
	}

	slices.SortFunc(m.Aisles, func(a, b Aisle) int { return cmp.Compare(a.Name, b.Name) })
	for _, a := range m.Aisles {
		slices.SortStableFunc(a.Slots, func(x, y Slot) int {
			return cmp.Or(
				cmp.Compare(x.Address.Block, y.Address.Block),
				cmp.Compare(x.Address.Shelf, y.Address.Shelf),
				cmp.Compare(x.Address.Level, y.Address.Level),
				cmp.Compare(x.Address.Position, y.Address.Position),
			)
		})
	}
	return m
}
