// internal/assessment/flags.go
// Dealbreaker flags as a named bit-set. Bit positions are stable: new
// flags may only be appended, never reordered, because FlagSet values
// are persisted.

package assessment

import (
	"database/sql/driver"
	"fmt"
	"math/bits"
)

// Flag is a bit position in a FlagSet.
type Flag uint8

const (
	FlagSmoking Flag = iota
	FlagHeavyDrinking
	FlagHardDrugs
	FlagWantsChildren
	FlagNoChildren
	FlagNonMonogamy
	FlagLongDistance
	FlagReligionRequired
	FlagPetsRequired
	FlagGunOwnership
	flagCount
)

var flagNames = [flagCount]string{
	FlagSmoking:          "smoking",
	FlagHeavyDrinking:    "heavy_drinking",
	FlagHardDrugs:        "hard_drugs",
	FlagWantsChildren:    "wants_children",
	FlagNoChildren:       "no_children",
	FlagNonMonogamy:      "non_monogamy",
	FlagLongDistance:     "long_distance",
	FlagReligionRequired: "religion_required",
	FlagPetsRequired:     "pets_required",
	FlagGunOwnership:     "gun_ownership",
}

// FlagByName resolves a flag name from the question bank to its bit.
func FlagByName(name string) (Flag, bool) {
	for f, n := range flagNames {
		if n == name {
			return Flag(f), true
		}
	}
	return 0, false
}

// String returns the flag's stable name.
func (f Flag) String() string {
	if f >= flagCount {
		return fmt.Sprintf("flag(%d)", uint8(f))
	}
	return flagNames[f]
}

// FlagSet is a set of activated dealbreaker flags packed into a uint64.
type FlagSet uint64

// With returns the set with f added.
func (s FlagSet) With(f Flag) FlagSet {
	return s | (1 << f)
}

// Has reports whether f is in the set.
func (s FlagSet) Has(f Flag) bool {
	return s&(1<<f) != 0
}

// Intersect returns the flags present in both sets.
func (s FlagSet) Intersect(o FlagSet) FlagSet {
	return s & o
}

// Union returns the flags present in either set.
func (s FlagSet) Union(o FlagSet) FlagSet {
	return s | o
}

// Diff returns the flags present in exactly one of the two sets.
func (s FlagSet) Diff(o FlagSet) FlagSet {
	return s ^ o
}

// Count returns the number of flags in the set.
func (s FlagSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

// Conflicts reports whether both users activated at least one identical
// flag, which the pairwise calculator treats as a hard conflict.
func (s FlagSet) Conflicts(o FlagSet) bool {
	return s&o != 0
}

// Names lists the activated flags by name, in bit order.
func (s FlagSet) Names() []string {
	var out []string
	for f := Flag(0); f < flagCount; f++ {
		if s.Has(f) {
			out = append(out, flagNames[f])
		}
	}
	return out
}

// Value implements driver.Valuer so the set persists as a bigint.
func (s FlagSet) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan implements sql.Scanner.
func (s *FlagSet) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = 0
	case int64:
		*s = FlagSet(v)
	default:
		return fmt.Errorf("cannot scan %T into FlagSet", src)
	}
	return nil
}
