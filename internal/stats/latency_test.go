package stats

import (
	"testing"
	"time"
)

func TestUpdateSeedsFirstObservation(t *testing.T) {
	tbl := NewProviderLatencyTable(8)
	defer tbl.Close()

	tbl.Update("hibp", 200*time.Millisecond, DefaultDecayWindow)
	got, ok := tbl.Get("hibp")
	if !ok {
		t.Fatal("expected entry after first update")
	}
	if got.Ewma != 200*time.Millisecond {
		t.Fatalf("Ewma = %v, want 200ms on first observation", got.Ewma)
	}
}

func TestUpdateBlendsSubsequentObservations(t *testing.T) {
	tbl := NewProviderLatencyTable(8)
	defer tbl.Close()

	tbl.Update("hibp", 100*time.Millisecond, 1*time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	tbl.Update("hibp", 500*time.Millisecond, 1*time.Millisecond)

	got, _ := tbl.Get("hibp")
	if got.Ewma < 400*time.Millisecond {
		t.Fatalf("Ewma = %v, expected blend to have mostly decayed toward the new sample", got.Ewma)
	}
}

func TestGetUnknownProviderReturnsFalse(t *testing.T) {
	tbl := NewProviderLatencyTable(8)
	defer tbl.Close()
	if _, ok := tbl.Get("ghost"); ok {
		t.Fatal("expected no entry for unseen provider")
	}
}

func TestSizeReflectsDistinctProviders(t *testing.T) {
	tbl := NewProviderLatencyTable(8)
	defer tbl.Close()
	tbl.Update("a", time.Millisecond, DefaultDecayWindow)
	tbl.Update("b", time.Millisecond, DefaultDecayWindow)
	if tbl.Size() != 2 {
		t.Fatalf("size = %d, want 2", tbl.Size())
	}
}
