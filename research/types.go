package research

import "fmt"

type EntryType uint8

const (
	Scenery EntryType = iota // scenery group
	Ride
)

func (t EntryType) String() string {
	switch t {
	case Scenery:
		return "scenery"
	case Ride:
		return "ride"
	default:
		return fmt.Sprintf("EntryType(%d)", uint8(t))
	}
}

type Category uint8

const (
	Transport Category = iota
	Gentle
	RollerCoaster
	Thrill
	Water
	Shop
	SceneryGroup
	NumCategories
)

var categoryNames = [NumCategories]string{
	"New Transport Rides",
	"New Gentle Rides",
	"New Roller Coasters",
	"New Thrill Rides",
	"New Water Rides",
	"New Shops & Stalls",
	"New Scenery & Theming",
}

var categoryKeys = [NumCategories]string{
	"transport", "gentle", "coaster", "thrill", "water", "shop", "scenery",
}

func (c Category) Valid() bool {
	return c < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// Key is the short lowercase name used on the command line and in presets.
func (c Category) Key() string {
	if !c.Valid() {
		return ""
	}
	return categoryKeys[c]
}

func ParseCategory(s string) (Category, error) {
	for i, k := range categoryKeys {
		if k == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown research category %q", s)
}

// Reserved raw values. Anything at or above RawEnd never names an item.
const (
	RawInventedEnd uint32 = 0xFFFFFFFF
	RawPendingEnd  uint32 = 0xFFFFFFFE
	RawEnd         uint32 = 0xFFFFFFFD
	RawNull        uint32 = 0xFFFFFFFC
)

type Item struct {
	Type             EntryType
	EntryIndex       uint8 // index into the loaded ride or scenery group objects
	BaseRideType     uint8 // only meaningful for rides
	Category         Category
	AlwaysResearched bool // locked: cannot be dragged, shuffled or bulk-moved
}

// Equals compares identity only. Category and the locked flag are attributes.
func (it Item) Equals(other Item) bool {
	return it.Raw() == other.Raw()
}

// Raw packs the identity as entryIndex | baseRideType<<8 | type<<16.
func (it Item) Raw() uint32 {
	raw := uint32(it.EntryIndex) | uint32(it.Type)<<16
	if it.Type == Ride {
		raw |= uint32(it.BaseRideType) << 8
	}
	return raw
}

func ItemFromRaw(raw uint32) (Item, error) {
	if raw >= RawNull {
		return Item{}, fmt.Errorf("raw value %#x is a separator, not an item", raw)
	}
	if raw>>24 != 0 {
		return Item{}, fmt.Errorf("raw value %#x has unknown high bits", raw)
	}
	t := EntryType((raw >> 16) & 0xff)
	if t != Scenery && t != Ride {
		return Item{}, fmt.Errorf("raw value %#x has unknown entry type %d", raw, t)
	}
	it := Item{
		Type:       t,
		EntryIndex: uint8(raw & 0xff),
	}
	if t == Ride {
		it.BaseRideType = uint8((raw >> 8) & 0xff)
	}
	return it, nil
}

func (it Item) String() string {
	lock := ""
	if it.AlwaysResearched {
		lock = " (locked)"
	}
	if it.Type == Ride {
		return fmt.Sprintf("ride %d/%d [%s]%s", it.BaseRideType, it.EntryIndex, it.Category.Key(), lock)
	}
	return fmt.Sprintf("scenery %d [%s]%s", it.EntryIndex, it.Category.Key(), lock)
}

type ListID uint8

const (
	Invented ListID = iota
	Pending
)

func (l ListID) String() string {
	switch l {
	case Invented:
		return "invented"
	case Pending:
		return "pending"
	default:
		return fmt.Sprintf("ListID(%d)", uint8(l))
	}
}

func ParseListID(s string) (ListID, error) {
	switch s {
	case "invented":
		return Invented, nil
	case "pending":
		return Pending, nil
	}
	return 0, fmt.Errorf("unknown research list %q", s)
}
