package bptree

import "testing"

func TestOrderClamped(t *testing.T) {
	tr := New(1)
	if tr.Order() != 3 {
		t.Errorf("Order() = %d, want 3 (clamped minimum)", tr.Order())
	}
}

func TestInsertAndSearch(t *testing.T) {
	tr := New(4)
	tr.Insert("b", 2)
	tr.Insert("a", 1)
	tr.Insert("c", 3)

	for _, tc := range []struct {
		key  string
		want int
	}{{"a", 1}, {"b", 2}, {"c", 3}} {
		v, ok := tr.Search(tc.key)
		if !ok {
			t.Fatalf("key %q not found", tc.key)
		}
		if v.(int) != tc.want {
			t.Errorf("Search(%q) = %v, want %d", tc.key, v, tc.want)
		}
	}

	if _, ok := tr.Search("z"); ok {
		t.Error("expected missing key to not be found")
	}
}

func TestInsertUpdatesExistingKey(t *testing.T) {
	tr := New(4)
	tr.Insert("a", 1)
	tr.Insert("a", 2)

	v, ok := tr.Search("a")
	if !ok || v.(int) != 2 {
		t.Errorf("Search(a) = %v, %v; want 2, true", v, ok)
	}
}

func TestInsertCausesSplits(t *testing.T) {
	tr := New(3)
	keys := []string{"m", "d", "t", "b", "f", "q", "z", "a", "c", "e", "g"}
	for i, k := range keys {
		tr.Insert(k, i)
	}

	for i, k := range keys {
		v, ok := tr.Search(k)
		if !ok {
			t.Fatalf("key %q not found after splits", k)
		}
		if v.(int) != i {
			t.Errorf("Search(%q) = %v, want %d", k, v, i)
		}
	}
}

func TestRangeSearch(t *testing.T) {
	tr := New(3)
	for i, k := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		tr.Insert(k, i)
	}

	results := tr.RangeSearch("b", "e")
	want := []string{"b", "c", "d", "e"}
	if len(results) != len(want) {
		t.Fatalf("RangeSearch returned %d results, want %d: %v", len(results), len(want), results)
	}
	for i, kv := range results {
		if kv.Key != want[i] {
			t.Errorf("result[%d].Key = %q, want %q", i, kv.Key, want[i])
		}
	}
}

func TestRangeSearch_EmptyWhenNoKeysInRange(t *testing.T) {
	tr := New(4)
	tr.Insert("a", 1)
	tr.Insert("z", 2)

	results := tr.RangeSearch("m", "n")
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
