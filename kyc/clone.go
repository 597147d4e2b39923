package kyc

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Clone deep-copies a value through a msgpack round trip, so the copy shares
// no maps, slices, or pointers with the original. Optimistic cache transforms
// use it to keep staged values from aliasing stored ones.
func Clone[T any](v T) (T, error) {
	var out T
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("clone: encode %T: %w", v, err)
	}
	if err := msgpack.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("clone: decode %T: %w", v, err)
	}
	return out, nil
}

// MustClone is Clone for values known to round-trip, such as the entity types
// in this package. It panics on encoding failure.
func MustClone[T any](v T) T {
	out, err := Clone(v)
	if err != nil {
		panic(err)
	}
	return out
}
