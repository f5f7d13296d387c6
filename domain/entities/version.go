package entities

import "fmt"

// Version is a packed API version: major in the top 16 bits, minor in the next
// 16, patch in the low 32.
type Version uint64

// MakeVersion packs a major.minor.patch triple.
func MakeVersion(major, minor uint16, patch uint32) Version {
	return Version(uint64(major)<<48 | uint64(minor)<<32 | uint64(patch))
}

// Major returns the major component.
func (v Version) Major() uint16 { return uint16(v >> 48) }

// Minor returns the minor component.
func (v Version) Minor() uint16 { return uint16(v >> 32) }

// Patch returns the patch component.
func (v Version) Patch() uint32 { return uint32(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

const (
	// CurrentLoaderAPILayerVersion is the loader/layer interface version this layer implements.
	CurrentLoaderAPILayerVersion uint32 = 1
)

// CurrentAPIVersion is the API version this layer targets.
var CurrentAPIVersion = MakeVersion(1, 0, 34)
