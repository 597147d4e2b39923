package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator delimits serialized key segments. A literal ':' inside a
// segment is escaped during serialization, so the separator can never occur
// within a segment and prefix matching stays segment-safe.
const KeySeparator = "::"

// maxSegmentLen bounds the serialized form of a single segment. Larger
// segments (big filter records, long search strings) are compacted to a
// readable head plus an xxhash digest so keys stay printable and cheap to
// compare while remaining deterministic.
const maxSegmentLen = 64

// serializeSegment renders one key segment into its canonical string form.
// Identical inputs always produce identical output: maps are walked in sorted
// key order, slices recursively, structs by exported field name. Functions,
// channels and unsafe pointers have no stable identity across runs and would
// silently break structural key equality, so they fail loudly instead.
func serializeSegment(v any) string {
	return compactSegment(serializeValue(v))
}

func serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	switch t := v.(type) {
	case string:
		return escapeSegment(t)
	case time.Time:
		// Time.String() carries a monotonic clock reading; format explicitly.
		return t.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return escapeSegment(t.String())
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		panic(fmt.Sprintf("cache: key segment of kind %s is not deterministically serializable", rt.Kind()))
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "[]"
		}
		return serializeList(rv)
	case reflect.Array:
		return serializeList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "{}"
		}
		return serializeMap(rv)
	case reflect.Struct:
		return serializeStruct(rv, rt)
	}

	if isBasicKind(rt.Kind()) {
		return escapeSegment(fmt.Sprintf("%v", v))
	}

	return jsonFallback(v)
}

func serializeList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts[i] = serializeValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// serializeMap walks entries in sorted serialized-key order for determinism.
func serializeMap(rv reflect.Value) string {
	type pair struct{ k, v string }
	pairs := make([]pair, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{
			k: serializeValue(iter.Key().Interface()),
			v: serializeValue(iter.Value().Interface()),
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.k + "=" + p.v
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// serializeStruct includes the type name so two filter records with identical
// field sets cannot collide across entity families.
func serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if !fv.CanInterface() {
			continue
		}
		parts = append(parts, field.Name+":"+serializeValue(fv.Interface()))
	}
	return rt.Name() + "{" + strings.Join(parts, ",") + "}"
}

func isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

// jsonFallback serializes types the dedicated paths cannot handle. Marshal
// failures fall back to type information so key construction stays total for
// data values; only func/chan segments are rejected outright.
func jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "opaque(" + reflect.TypeOf(v).String() + ")"
	}
	return "json(" + escapeSegment(string(data)) + ")"
}

// escapeSegment guarantees a serialized segment never contains the separator:
// backslashes are doubled and every ':' becomes '\:'.
func escapeSegment(s string) string {
	if !strings.ContainsAny(s, `:\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ':':
			b.WriteString(`\:`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// compactSegment shortens oversized segments to head~digest form. The head
// keeps keys recognizable in logs; the xxhash digest keeps them unique.
func compactSegment(s string) string {
	if len(s) <= maxSegmentLen {
		return s
	}
	head := s[:24]
	for !utf8.ValidString(head) {
		head = head[:len(head)-1]
	}
	return fmt.Sprintf("%s~%016x", head, xxhash.Sum64String(s))
}
