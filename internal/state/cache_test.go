package state

import (
	"testing"

	"lwcgraph/internal/bundle"
)

const jsContent = "export default class Test {}"

func primaryBundle(t *testing.T, name, script string, templates ...string) *bundle.Bundle {
	t.Helper()
	b := bundle.FromContent(name, script, templates...)
	if !b.SetPrimaryByContent(script) {
		t.Fatalf("script content did not match")
	}
	return b
}

func TestAddAndGet(t *testing.T) {
	c := NewCache(0)
	b := primaryBundle(t, "test", jsContent)

	key, ok := c.Add(b)
	if !ok {
		t.Fatal("expected Add to succeed")
	}
	want, _ := b.Key()
	if key != want {
		t.Fatalf("Add returned %q, want %q", key, want)
	}
	got, ok := c.Get(key)
	if !ok || got != b {
		t.Fatal("expected Get to return the same bundle")
	}
	if !c.Has(key) || c.Len() != 1 {
		t.Fatalf("unexpected cache state: has=%v len=%d", c.Has(key), c.Len())
	}
}

func TestAddTemplatePrimary(t *testing.T) {
	c := NewCache(0)
	b := bundle.FromContent("test", jsContent, "<template></template>")
	b.SetPrimaryByContent("<template></template>")

	key, ok := c.Add(b)
	if !ok {
		t.Fatal("expected Add to succeed")
	}
	if got, _ := c.Get(key); got != b {
		t.Fatal("expected lookup by key to find the bundle")
	}
}

func TestAddWithoutPrimary(t *testing.T) {
	c := NewCache(0)
	c.Add(primaryBundle(t, "seed", "seed"))
	before := c.Len()

	b := bundle.FromContent("test", "js content", "html content")
	key, ok := c.Add(b)
	if ok || key != "" {
		t.Fatalf("expected (\"\", false), got (%q, %v)", key, ok)
	}
	if c.Len() != before {
		t.Fatalf("cache size changed: %d -> %d", before, c.Len())
	}
}

func TestGetMissing(t *testing.T) {
	c := NewCache(0)
	if _, ok := c.Get("non-matching-key"); ok {
		t.Fatal("expected miss")
	}
}

func TestRemove(t *testing.T) {
	c := NewCache(0)
	b := primaryBundle(t, "test", jsContent)

	if c.Remove(b) {
		t.Fatal("expected false for a bundle that was never added")
	}
	key, _ := c.Add(b)
	if !c.Remove(b) {
		t.Fatal("expected true after Add")
	}
	if _, ok := c.Get(key); ok {
		t.Fatal("expected bundle to be gone")
	}

	noPrimary := bundle.FromContent("test", "js content", "html content")
	if c.Remove(noPrimary) {
		t.Fatal("expected false for a bundle without a primary file")
	}
}

func TestClear(t *testing.T) {
	c := NewCache(0)
	b := primaryBundle(t, "test", jsContent)
	key, _ := c.Add(b)
	c.Clear()
	if _, ok := c.Get(key); ok || c.Len() != 0 {
		t.Fatal("expected empty cache after Clear")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	c := NewCache(2)
	a := primaryBundle(t, "a", "a")
	b := primaryBundle(t, "b", "b")
	d := primaryBundle(t, "d", "d")
	ka, _ := c.Add(a)
	c.Add(b)
	c.Add(d)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if c.Has(ka) {
		t.Fatal("expected the oldest bundle to be evicted")
	}
}

func TestKeyFromHostFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo-123.js", "foo-123.js"},
		{"0_foo-123.js", "foo-123.js"},
		{"12_foo-123.js", "foo-123.js"},
		{"/src/foo/foo.js/0_foo-123.js", "foo-123.js"},
		{`C:\src\foo\foo.js\3_foo-123.js`, "foo-123.js"},
		{"0_2_foo-123.js", "2_foo-123.js"},
	}
	for _, tt := range tests {
		if got := KeyFromHostFilename(tt.in); got != tt.want {
			t.Errorf("KeyFromHostFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	c := NewCache(0)
	b := primaryBundle(t, "2_cmp", "x")
	key, _ := c.Add(b)

	if got, k, ok := c.Lookup(key); !ok || got != b || k != key {
		t.Fatal("expected verbatim lookup to hit")
	}
	if got, _, ok := c.Lookup("/a/b/2_cmp.js/0_" + key); !ok || got != b {
		t.Fatal("expected mangled lookup to hit")
	}
	if _, _, ok := c.Lookup("0_missing.js"); ok {
		t.Fatal("expected miss")
	}
}
