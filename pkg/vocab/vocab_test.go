package vocab

import "testing"

func TestNamespaceTerm(t *testing.T) {
	ns := NewNamespace("http://example.org/", []string{"Thing", "name"})

	if got := ns.Term("Thing"); got != "http://example.org/Thing" {
		t.Errorf("Term(Thing) = %q", got)
	}
	if !ns.Has("name") {
		t.Error("Has(name) = false, want true")
	}
	if ns.Has("unknown") {
		t.Error("Has(unknown) = true, want false")
	}
}

func TestConcat(t *testing.T) {
	ref := Concat("http://example.org/Thing", "id42")
	if ref != "http://example.org/Thing#id42" {
		t.Errorf("Concat = %q", ref)
	}
}

func TestNewNamespacesDefaults(t *testing.T) {
	ns := Default()

	tests := []struct {
		name string
		got  Ref
		want Ref
	}{
		{name: "afel", got: ns.AFEL.Term("Learner"), want: "http://vocab.afel-project.eu/Learner"},
		{name: "extension", got: ns.Ext.Term("Search"), want: "http://vocab.afel-project.eu/extension/Search"},
		{name: "schema", got: ns.Schema.Term("Question"), want: "http://schema.org/Question"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNewNamespacesCustomBases(t *testing.T) {
	ns := NewNamespaces(NewNamespacesParams{
		AFELBase: "http://mirror.example.org/afel/",
	})

	if got := ns.AFEL.Term("User"); got != "http://mirror.example.org/afel/User" {
		t.Errorf("AFEL term = %q", got)
	}
	// Unset bases keep their defaults.
	if got := ns.Schema.Term("name"); got != "http://schema.org/name" {
		t.Errorf("schema term = %q", got)
	}
}

func TestClosedTermSets(t *testing.T) {
	ns := Default()

	for _, term := range []string{"Learner", "User", "Artifact", "ArtifactView", "eventStartDate"} {
		if !ns.AFEL.Has(term) {
			t.Errorf("AFEL set misses %q", term)
		}
	}
	for _, term := range []string{"DidactaliaGamePlayed", "GameAttributeChange", "Questionnaire", "facet"} {
		if !ns.Ext.Has(term) {
			t.Errorf("extension set misses %q", term)
		}
	}
	for _, term := range []string{"Question", "Rating", "ChooseAction", "ratingValue", "superEvent"} {
		if !ns.Schema.Has(term) {
			t.Errorf("schema set misses %q", term)
		}
	}
	if ns.AFEL.Has("DidactaliaGamePlayed") {
		t.Error("extension type leaked into the core set")
	}
}
