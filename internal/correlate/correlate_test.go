package correlate

import "testing"

func TestTrackResolve(t *testing.T) {
	tbl := NewTable()

	tbl.Track("r1", "ev-1")
	tbl.Track("r2", "ev-2")

	got, ok := tbl.Resolve("r1")
	if !ok || got != "ev-1" {
		t.Errorf("Resolve(r1) = %q, %v, want ev-1, true", got, ok)
	}
	got, ok = tbl.Resolve("r2")
	if !ok || got != "ev-2" {
		t.Errorf("Resolve(r2) = %q, %v, want ev-2, true", got, ok)
	}

	// Resolve does not consume the entry.
	if _, ok := tbl.Resolve("r1"); !ok {
		t.Error("second Resolve(r1) should still succeed")
	}
}

func TestResolveUnknown(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Resolve("never-issued"); ok {
		t.Error("Resolve of untracked id should report not found")
	}
}

func TestReset(t *testing.T) {
	tbl := NewTable()
	tbl.Track("r1", "ev-1")
	tbl.Track("r2", "ev-2")

	tbl.Reset()

	if _, ok := tbl.Resolve("r1"); ok {
		t.Error("Resolve(r1) after Reset should report not found")
	}
	if _, ok := tbl.Resolve("r2"); ok {
		t.Error("Resolve(r2) after Reset should report not found")
	}
	if got := tbl.Len(); got != 0 {
		t.Errorf("Len() after Reset = %d, want 0", got)
	}

	// The table stays usable after a reset.
	tbl.Track("r3", "ev-3")
	if got, ok := tbl.Resolve("r3"); !ok || got != "ev-3" {
		t.Errorf("Resolve(r3) = %q, %v, want ev-3, true", got, ok)
	}
}

func TestOverwriteLeavesOthersIntact(t *testing.T) {
	tbl := NewTable()
	tbl.Track("r1", "ev-1")
	tbl.Track("r2", "ev-2")

	tbl.Track("r1", "ev-other")

	if got, _ := tbl.Resolve("r1"); got != "ev-other" {
		t.Errorf("Resolve(r1) = %q, want ev-other", got)
	}
	if got, ok := tbl.Resolve("r2"); !ok || got != "ev-2" {
		t.Errorf("Resolve(r2) = %q, %v, want ev-2, true", got, ok)
	}
}

func TestNextIDUnique(t *testing.T) {
	tbl := NewTable()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := tbl.NextID()
		if id == "" {
			t.Fatal("NextID() returned empty id")
		}
		if seen[id] {
			t.Fatalf("NextID() repeated %q", id)
		}
		seen[id] = true
	}
}
