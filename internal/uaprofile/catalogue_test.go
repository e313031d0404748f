package uaprofile

import "testing"

func TestMergeOverrideWins(t *testing.T) {
	base := map[string]string{"Accept": "text/html", "X-Base": "1"}
	override := map[string]string{"Accept": "application/json"}

	got := Merge(base, override)

	if got["Accept"] != "application/json" {
		t.Fatalf("Accept = %q, want override to win", got["Accept"])
	}
	if got["X-Base"] != "1" {
		t.Fatalf("X-Base = %q, want base key preserved", got["X-Base"])
	}
	if base["Accept"] != "text/html" {
		t.Fatal("Merge must not mutate base")
	}
	if _, ok := override["X-Base"]; ok {
		t.Fatal("sanity: override should not gain keys")
	}
}

func TestMergeAssociativeOnDisjointKeys(t *testing.T) {
	a := map[string]string{"A": "1"}
	b := map[string]string{"B": "2"}
	c := map[string]string{"C": "3"}

	left := Merge(a, Merge(b, c))
	right := Merge(Merge(a, b), c)

	if len(left) != len(right) {
		t.Fatalf("length mismatch: %v vs %v", left, right)
	}
	for k, v := range left {
		if right[k] != v {
			t.Fatalf("key %q: left=%q right=%q", k, v, right[k])
		}
	}
}

func TestMergeRightmostWinsOnOverlap(t *testing.T) {
	a := map[string]string{"K": "a"}
	b := map[string]string{"K": "b"}
	c := map[string]string{"K": "c"}

	got := Merge(Merge(a, b), c)
	if got["K"] != "c" {
		t.Fatalf("K = %q, want rightmost c", got["K"])
	}
}

func TestLookupUnknownProfileReturnsEmpty(t *testing.T) {
	got := Lookup("does-not-exist")
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
