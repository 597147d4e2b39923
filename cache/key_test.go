package cache

import "testing"

func TestKey_ChildDoesNotMutateParent(t *testing.T) {
	parent := NewKey("screening")
	child := parent.Child("checks", "chk_1")

	if parent.Len() != 1 {
		t.Fatalf("parent grew to %d segments", parent.Len())
	}
	if child.Len() != 3 {
		t.Fatalf("child has %d segments, want 3", child.Len())
	}
	if parent.String() != NewKey("screening").String() {
		t.Errorf("parent changed: %q", parent.String())
	}

	// Two children off the same parent must not share segment storage.
	other := parent.Child("hits")
	if other.String() == child.String() {
		t.Errorf("sibling children collide: %q", other.String())
	}
}

func TestKey_Equal(t *testing.T) {
	a := NewKey("applicants", "detail", "app_1")
	b := NewKey("applicants").Child("detail").Child("app_1")
	c := NewKey("applicants", "detail", "app_2")

	if !a.Equal(b) {
		t.Errorf("%q != %q", a, b)
	}
	if a.Equal(c) {
		t.Errorf("%q == %q", a, c)
	}
	if !(Key{}).Equal(Key{}) {
		t.Error("zero keys not equal")
	}
}

func TestKey_HasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{"one segment", NewKey("applicants", "list"), NewKey("applicants"), true},
		{"two segments", NewKey("applicants", "list", 2), NewKey("applicants", "list"), true},
		{"self", NewKey("applicants", "list"), NewKey("applicants", "list"), true},
		{"sibling", NewKey("companies", "list"), NewKey("applicants"), false},
		{"partial segment text", NewKey("applicants"), NewKey("app"), false},
		{"longer than key", NewKey("applicants"), NewKey("applicants", "list"), false},
		{"zero prefix", NewKey("applicants"), Key{}, false},
		{"zero key", Key{}, NewKey("applicants"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.HasPrefix(tt.prefix); got != tt.want {
				t.Errorf("HasPrefix(%q, %q) = %v, want %v", tt.key, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestKey_HasPrefixSeparatorSafe(t *testing.T) {
	// A segment whose text embeds the separator must not fake a hierarchy.
	sneaky := NewKey("applicants::list")
	real := NewKey("applicants", "list")

	if sneaky.HasPrefix(NewKey("applicants")) {
		t.Error("embedded separator treated as segment boundary")
	}
	if real.Equal(sneaky) {
		t.Error("embedded separator collides with real two-segment key")
	}
}

func TestKey_Segments(t *testing.T) {
	k := NewKey("a", "b")
	segs := k.Segments()
	segs[0] = "mutated"
	if k.Segments()[0] == "mutated" {
		t.Error("Segments returned internal storage")
	}
}

func TestMatchesPrefix(t *testing.T) {
	p := NewKey("screening", "checks").String()
	under := NewKey("screening", "checks", "chk_1").String()
	sibling := NewKey("screening", "hits").String()

	if !matchesPrefix(under, p) {
		t.Errorf("%q should match prefix %q", under, p)
	}
	if !matchesPrefix(p, p) {
		t.Error("key should match itself as prefix")
	}
	if matchesPrefix(sibling, p) {
		t.Errorf("%q should not match prefix %q", sibling, p)
	}
	if matchesPrefix(under, "") {
		t.Error("empty prefix should match nothing")
	}
}
