package testutil

import (
	"testing"

	"github.com/arthur-debert/citeorder/sources"
	"github.com/google/go-cmp/cmp"
)

// AssertOrder checks the registry's keys, in ordinal order
func AssertOrder(t *testing.T, reg *sources.Registry, keys ...string) {
	t.Helper()
	if keys == nil {
		keys = []string{}
	}
	if diff := cmp.Diff(keys, reg.Keys()); diff != "" {
		t.Errorf("source order mismatch (-want +got):\n%s", diff)
	}
}

// AssertOrdinal checks the ordinal of one key
func AssertOrdinal(t *testing.T, reg *sources.Registry, key string, want int) {
	t.Helper()
	if got := reg.SourceOrdinal(key); got != want {
		t.Errorf("ordinal of %q = %d, want %d", key, got, want)
	}
}

// AssertSorted checks that sources ascend by the position of their first reference
func AssertSorted(t *testing.T, reg *sources.Registry) {
	t.Helper()
	prev := -1 << 31
	for i := 0; i < reg.Len(); i++ {
		src, err := reg.SourceAt(i)
		if err != nil {
			t.Fatalf("SourceAt(%d): %v", i, err)
		}
		pos := src.First().Position()
		if pos < prev {
			t.Errorf("source %q at ordinal %d has first position %d, before previous %d", src.Key(), i, pos, prev)
		}
		prev = pos
	}
}

// AssertFirstIsMinimum checks that a set's first is a minimum-position member
func AssertFirstIsMinimum(t *testing.T, src *sources.SourceReferences) {
	t.Helper()
	refs := src.List()
	if len(refs) == 0 {
		if src.First() != nil {
			t.Errorf("empty source %q has first %d", src.Key(), src.First().ID())
		}
		return
	}
	if src.First() == nil {
		t.Fatalf("source %q has %d references but no first", src.Key(), len(refs))
	}
	lowest := refs[0].Position()
	for _, ref := range refs[1:] {
		if p := ref.Position(); p < lowest {
			lowest = p
		}
	}
	if got := src.First().Position(); got != lowest {
		t.Errorf("source %q first position = %d, minimum is %d", src.Key(), got, lowest)
	}
}
