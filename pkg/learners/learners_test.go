package learners

import (
	"testing"

	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

func TestNewLearner(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		externalID string
		want       Learner
		wantErr    bool
	}{
		{
			name:       "regular mapping row",
			email:      "user007@example.com",
			externalID: "U007",
			want: Learner{
				Email:      "user007@example.com",
				Username:   "user007",
				FirstName:  "user007",
				LastName:   "Afel",
				ExternalID: "U007",
				InternalID: 7,
			},
		},
		{
			name:       "missing external id falls back to username",
			email:      "user12@example.com",
			externalID: "",
			want: Learner{
				Email:      "user12@example.com",
				Username:   "user12",
				FirstName:  "user12",
				LastName:   "Afel",
				ExternalID: "user12",
				InternalID: 12,
			},
		},
		{
			name:       "bare username without domain",
			email:      "user3",
			externalID: "U3",
			want: Learner{
				Email:      "user3",
				Username:   "user3",
				FirstName:  "user3",
				LastName:   "Afel",
				ExternalID: "U3",
				InternalID: 3,
			},
		},
		{
			name:       "no trailing digits",
			email:      "someone@example.com",
			externalID: "X",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLearner(tt.email, tt.externalID)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewLearner(%q, %q) succeeded, want error", tt.email, tt.externalID)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLearner(%q, %q) failed: %v", tt.email, tt.externalID, err)
			}

			if got.Email != tt.want.Email || got.Username != tt.want.Username ||
				got.FirstName != tt.want.FirstName || got.LastName != tt.want.LastName ||
				got.ExternalID != tt.want.ExternalID || got.InternalID != tt.want.InternalID {
				t.Errorf("learner = %+v, want %+v", got, tt.want)
			}
			if got.User() == nil {
				t.Fatal("learner has no user account")
			}
			if got.User().Username != tt.want.Username {
				t.Errorf("user account name = %q, want %q", got.User().Username, tt.want.Username)
			}
		})
	}
}

func TestLearnerDump(t *testing.T) {
	ns := vocab.Default()
	learner, err := NewLearner("user007@example.com", "U007")
	if err != nil {
		t.Fatalf("NewLearner failed: %v", err)
	}

	g := rdf.NewGraph()
	n := learner.Dump(ns, g)
	if n != 9 {
		t.Errorf("Dump returned %d, want 9", n)
	}
	if g.Len() != 9 {
		t.Errorf("graph holds %d triples, want 9", g.Len())
	}

	learnerRef := "http://vocab.afel-project.eu/Learner#user007"
	userRef := "http://vocab.afel-project.eu/User#user007"
	wantTriples := []rdf.Triple{
		{Subject: learnerRef, Predicate: string(vocab.RDFType), Object: "http://vocab.afel-project.eu/Learner"},
		{Subject: learnerRef, Predicate: "http://vocab.afel-project.eu/email", Object: "user007@example.com"},
		{Subject: learnerRef, Predicate: "http://vocab.afel-project.eu/lastName", Object: "Afel"},
		{Subject: userRef, Predicate: string(vocab.RDFType), Object: "http://vocab.afel-project.eu/User"},
		{Subject: userRef, Predicate: "http://vocab.afel-project.eu/accountName", Object: "user007"},
		{Subject: userRef, Predicate: "http://vocab.afel-project.eu/person", Object: learnerRef},
	}
	for _, want := range wantTriples {
		if !containsTriple(g, want) {
			t.Errorf("graph misses triple %v", want)
		}
	}
}

func containsTriple(g *rdf.Graph, want rdf.Triple) bool {
	for _, got := range g.Triples() {
		if got == want {
			return true
		}
	}
	return false
}
