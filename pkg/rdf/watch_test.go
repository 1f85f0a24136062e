package rdf

import "testing"

func TestDuplicateWatchCounts(t *testing.T) {
	g := NewGraph()
	w := NewDuplicateWatch(NewDuplicateWatchParams{
		Next:                   g,
		AllowedSubjectPrefixes: []string{"http://example.org/Artifact#"},
	})

	shared := Triple{Subject: "http://example.org/Artifact#r1", Predicate: "p", Object: "o"}
	unexpected := Triple{Subject: "http://example.org/Event#e1", Predicate: "p", Object: "o"}

	w.Add(shared)
	w.Add(shared)
	w.Add(shared)
	w.Add(unexpected)
	w.Add(unexpected)

	stats := w.Stats()
	if stats.Attempted != 5 {
		t.Errorf("Attempted = %d, want 5", stats.Attempted)
	}
	if stats.Duplicates != 3 {
		t.Errorf("Duplicates = %d, want 3", stats.Duplicates)
	}
	if stats.Warned != 1 {
		t.Errorf("Warned = %d, want 1", stats.Warned)
	}
	if g.Len() != 2 {
		t.Errorf("graph holds %d triples, want 2", g.Len())
	}
}

func TestDuplicateWatchForwardsEverything(t *testing.T) {
	g := NewGraph()
	w := NewDuplicateWatch(NewDuplicateWatchParams{Next: g})

	tr := Triple{Subject: "s", Predicate: "p", Object: "o"}
	if !w.Add(tr) {
		t.Fatal("first Add = false, want true")
	}
	// The duplicate is still forwarded; the store's answer is passed through.
	if w.Add(tr) {
		t.Fatal("duplicate Add = true, want false")
	}
}
