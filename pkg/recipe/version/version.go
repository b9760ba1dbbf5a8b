package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by ParseVersion for malformed input.
var (
	ErrEmptyVersion      = errors.New("version: empty version string")
	ErrTooManyComponents = errors.New("version: too many components (max 3)")
	ErrNonNumeric        = errors.New("version: component is not numeric")
	ErrNegativeComponent = errors.New("version: component is negative")
)

// Version is a precision-aware semantic version.
//
// Precision records how many components were actually specified in the
// source string (1, 2, or 3); comparisons use the lower precision of the
// two operands so "1.2" acts as a wildcard over patch.
type Version struct {
	Major     int
	Minor     int
	Patch     int
	Precision int

	// Extras holds any suffix that followed the numeric components in
	// the source string (e.g. "-1028-aws"). String and the comparison
	// methods ignore it.
	Extras string
}

// NewVersion builds a fully precise (Precision 3) version.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Precision: 3}
}

// ParseVersion parses a version string with 1 to 3 dot-separated numeric
// components, with an optional leading "v". A '-' or '+' directly after a
// digit starts a suffix that is kept in Extras ("6.8.0-1028-aws").
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "v")
	s = strings.TrimPrefix(s, "V")
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	var extras string
	for i := 1; i < len(s); i++ {
		if (s[i] == '-' || s[i] == '+') && s[i-1] >= '0' && s[i-1] <= '9' {
			s, extras = s[:i], s[i:]
			break
		}
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" {
			return Version{}, ErrNonNumeric
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, ErrNonNumeric
		}
		if n < 0 {
			return Version{}, ErrNegativeComponent
		}
		nums[i] = n
	}

	return Version{
		Major:     nums[0],
		Minor:     nums[1],
		Patch:     nums[2],
		Precision: len(parts),
		Extras:    extras,
	}, nil
}

// MustParseVersion parses s and panics on error. Intended for package-level
// variable initialization with known-good literals.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("version: MustParseVersion(%q): %v", s, err))
	}
	return v
}

// IsValid reports whether v has a recognized precision and no negative
// component.
func (v Version) IsValid() bool {
	return v.Precision >= 1 && v.Precision <= 3 && v.Major >= 0 && v.Minor >= 0 && v.Patch >= 0
}

// String renders v using only its significant components.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// minPrecision returns the lower of the two precisions, defaulting to 3
// when either is unset.
func minPrecision(a, b int) int {
	if a <= 0 {
		a = 3
	}
	if b <= 0 {
		b = 3
	}
	if a < b {
		return a
	}
	return b
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, comparing only up to the lower of the two versions' precision.
func (v Version) Compare(other Version) int {
	p := minPrecision(v.Precision, other.Precision)

	if c := cmpInt(v.Major, other.Major); c != 0 || p == 1 {
		return c
	}
	if c := cmpInt(v.Minor, other.Minor); c != 0 || p == 2 {
		return c
	}
	return cmpInt(v.Patch, other.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equals reports whether v and other compare equal at the lower precision.
func (v Version) Equals(other Version) bool {
	return v.Compare(other) == 0
}

// IsNewer reports whether v is strictly greater than other.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}

// EqualsOrNewer reports whether v is greater than or equal to other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}
