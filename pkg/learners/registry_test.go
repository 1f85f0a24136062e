package learners

import (
	"strings"
	"testing"

	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

const mappingFixture = `login,userid
user007@example.com,U007
user12@example.com,U012
,U999
user3@example.com,
`

func loadFixture(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Load(strings.NewReader(mappingFixture), LoadParams{HasHeader: true}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return r
}

func TestRegistryLoad(t *testing.T) {
	r := loadFixture(t)

	// The empty-email row is skipped, the empty-userid row is kept.
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
}

func TestRegistryLoadRejectsForeignHeader(t *testing.T) {
	r := NewRegistry()
	err := r.Load(strings.NewReader("email,account\nuser1@example.com,U1\n"), LoadParams{HasHeader: true})
	if err == nil {
		t.Fatal("Load accepted a foreign header")
	}
}

func TestRegistryLoadWithoutHeader(t *testing.T) {
	r := NewRegistry()
	if err := r.Load(strings.NewReader("user1@example.com,U1\n"), LoadParams{HasHeader: false}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryLookups(t *testing.T) {
	r := loadFixture(t)

	byExternal, err := r.UserByExternalID("U007")
	if err != nil {
		t.Fatalf("UserByExternalID failed: %v", err)
	}
	byInternal, err := r.UserByInternalID(7)
	if err != nil {
		t.Fatalf("UserByInternalID failed: %v", err)
	}
	byEmail, err := r.UserByEmailID("7")
	if err != nil {
		t.Fatalf("UserByEmailID failed: %v", err)
	}

	if byExternal != byInternal || byExternal != byEmail {
		t.Error("the three lookups resolved different users")
	}
	if byExternal.Username != "user007" {
		t.Errorf("resolved user %q, want user007", byExternal.Username)
	}

	// The empty-userid row is reachable through its username.
	fallback, err := r.UserByExternalID("user3")
	if err != nil {
		t.Fatalf("UserByExternalID(user3) failed: %v", err)
	}
	if fallback.Username != "user3" {
		t.Errorf("resolved user %q, want user3", fallback.Username)
	}

	tests := []struct {
		name   string
		lookup func() error
	}{
		{name: "unknown external id", lookup: func() error { _, err := r.UserByExternalID("nope"); return err }},
		{name: "unknown internal id", lookup: func() error { _, err := r.UserByInternalID(99); return err }},
		{name: "non numeric email id", lookup: func() error { _, err := r.UserByEmailID("seven"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.lookup() == nil {
				t.Error("lookup succeeded, want error")
			}
		})
	}
}

func TestRegistryDump(t *testing.T) {
	r := loadFixture(t)
	g := rdf.NewGraph()

	n := r.Dump(vocab.Default(), g)
	if n != 9*r.Len() {
		t.Errorf("Dump returned %d, want %d", n, 9*r.Len())
	}
	if g.Len() != n {
		t.Errorf("graph holds %d triples, want %d", g.Len(), n)
	}
}
