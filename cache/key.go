package cache

import "strings"

// Key is a hierarchical, order-stable identifier for one cached resource or
// resource family. A key is an immutable sequence of serialized segments;
// equality is structural, and a key addresses the whole subtree of keys it is
// a prefix of, which is what powers bulk invalidation ("everything under
// screening" is the single-segment key "screening").
//
// Keys are built from arbitrary primitive segments (strings, numbers, bools,
// small filter records), and identical inputs always yield equal keys.
// Segments of kind func or chan have no deterministic serialized form and
// make NewKey panic; that is a programmer error meant to surface during
// development, not a runtime condition to handle.
type Key struct {
	segments []string
	str      string
}

// NewKey builds a key from the given segments, most general first.
func NewKey(segments ...any) Key {
	if len(segments) == 0 {
		return Key{}
	}
	segs := make([]string, len(segments))
	for i, s := range segments {
		segs[i] = serializeSegment(s)
	}
	return Key{segments: segs, str: strings.Join(segs, KeySeparator)}
}

// Child returns a new key extending k with additional segments. The receiver
// is not modified.
func (k Key) Child(segments ...any) Key {
	if len(segments) == 0 {
		return k
	}
	segs := make([]string, 0, len(k.segments)+len(segments))
	segs = append(segs, k.segments...)
	for _, s := range segments {
		segs = append(segs, serializeSegment(s))
	}
	return Key{segments: segs, str: strings.Join(segs, KeySeparator)}
}

// String returns the canonical serialized form of the key.
func (k Key) String() string { return k.str }

// Segments returns a copy of the serialized segment sequence.
func (k Key) Segments() []string {
	return append([]string(nil), k.segments...)
}

// Len reports the number of segments.
func (k Key) Len() int { return len(k.segments) }

// IsZero reports whether the key has no segments.
func (k Key) IsZero() bool { return len(k.segments) == 0 }

// Equal reports structural equality of the two keys.
func (k Key) Equal(other Key) bool {
	return len(k.segments) == len(other.segments) && k.str == other.str
}

// HasPrefix reports whether prefix's segments form a leading sub-sequence of
// k's segments. Every key is a prefix of itself; the zero key is a prefix of
// nothing (a match-everything prefix would turn a stray zero value into a
// full-cache invalidation).
func (k Key) HasPrefix(prefix Key) bool {
	if prefix.IsZero() || len(prefix.segments) > len(k.segments) {
		return false
	}
	if len(prefix.segments) == len(k.segments) {
		return k.str == prefix.str
	}
	return strings.HasPrefix(k.str, prefix.str+KeySeparator)
}

// matchesPrefix is the serialized-form variant of HasPrefix used on storage
// scans, where only the joined string is available. Segment escaping (see
// escapeSegment) guarantees the separator never occurs inside a segment, so
// the string comparison is exactly segment-wise.
func matchesPrefix(serialized, prefix string) bool {
	if prefix == "" {
		return false
	}
	return serialized == prefix || strings.HasPrefix(serialized, prefix+KeySeparator)
}
