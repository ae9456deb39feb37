package shared

import (
	"fmt"
	"strings"
)

// PatchFlags are optimization hints attached to a vnode at compile time and
// read back by the runtime patcher. Positive values are a bitfield; negative
// values are special flags and are mutually exclusive with the positive bits.
type PatchFlags int16

const (
	// Indicates an element with dynamic textContent (children fast path)
	Text PatchFlags = 1
	// Indicates an element with dynamic class binding.
	Class PatchFlags = 1 << 1
	// Indicates an element with dynamic style binding.
	Style PatchFlags = 1 << 2
	// Indicates an element with non-class/style dynamic props. The keys are
	// known, so only the listed props need diffing.
	Props PatchFlags = 1 << 3
	// Indicates an element with props with dynamic keys. When keys change, a
	// full diff is always needed to remove the old key. This flag is mutually
	// exclusive with CLASS, STYLE and PROPS.
	FullProps PatchFlags = 1 << 4
	// Indicates a fragment whose children order doesn't change.
	StableFragment PatchFlags = 1 << 6
	// Indicates a fragment with keyed or partially keyed children.
	KeyedFragment PatchFlags = 1 << 7
	// Indicates a fragment with unkeyed children.
	UnkeyedFragment PatchFlags = 1 << 8
	// Indicates a fragment that was created only because the user has placed
	// comments at the root level of a template. This is a dev-only flag since
	// comments are stripped in production.
	DevRootFragment PatchFlags = 1 << 11
)

// patchFlagNames lists the positive flags in ascending bit order; the dev
// comment printed next to a flag value joins the names of every set bit.
var patchFlagNames = []struct {
	flag PatchFlags
	name string
}{
	{Text, "TEXT"},
	{Class, "CLASS"},
	{Style, "STYLE"},
	{Props, "PROPS"},
	{FullProps, "FULL_PROPS"},
	{StableFragment, "STABLE_FRAGMENT"},
	{KeyedFragment, "KEYED_FRAGMENT"},
	{UnkeyedFragment, "UNKEYED_FRAGMENT"},
	{DevRootFragment, "DEV_ROOT_FRAGMENT"},
}

// Names returns the dev labels for every bit set in f. Special (negative)
// flags have no bitwise composition and return a single name.
func (f PatchFlags) Names() string {
	if f < 0 {
		return fmt.Sprintf("SPECIAL(%d)", int16(f))
	}
	names := make([]string, 0, 2)
	for _, e := range patchFlagNames {
		if f&e.flag != 0 {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, ", ")
}

func (f PatchFlags) String() string {
	return fmt.Sprintf("%d", int16(f))
}
