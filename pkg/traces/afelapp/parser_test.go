package afelapp

import (
	"strings"
	"testing"

	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

func testResolver(t *testing.T) *learners.Registry {
	t.Helper()
	r := learners.NewRegistry()
	err := r.Load(strings.NewReader("user007@example.com,U007\n"), learners.LoadParams{})
	if err != nil {
		t.Fatalf("load resolver fixture: %v", err)
	}
	return r
}

func containsTriple(g *rdf.Graph, want rdf.Triple) bool {
	for _, got := range g.Triples() {
		if got == want {
			return true
		}
	}
	return false
}

func envelope(hits ...string) string {
	return `{"hits":{"hits":[` + strings.Join(hits, ",") + `]}}`
}

func TestLoadBuildsTypedEvents(t *testing.T) {
	dump := envelope(
		`{"_id":"a1","_source":{"time":1520000000000,"user":"U007","type":"activitycheck","label":"https://example.org/res/1","message":"a resource"}}`,
		`{"_id":"a2","_source":{"time":1520000001000,"user":"U007","type":"recocheck","label":"https://example.org/res/2","message":"a recommendation"}}`,
		`{"_id":"a3","_source":{"time":1520000002000,"user":"U007","type":"back","label":"home","message":"went back"}}`,
		`{"_id":"a4","_source":{"time":1520000003000,"user":"U007","type":"displaychange","label":"graph","message":"switched view"}}`,
		`{"_id":"a5","_source":{"time":1520000004000,"user":"U007","type":"view scope","label":"geography","message":"scope opened"}}`,
		`{"_id":"a6","_source":{"time":1520000005000,"user":"U007","type":"heartbeat","label":"","message":""}}`,
	)

	p := NewParser()
	if err := p.Load(strings.NewReader(dump), testResolver(t)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	activities := p.Activities()
	if len(activities) != 5 {
		t.Fatalf("built %d events, want 5", len(activities))
	}

	if _, ok := activities[0].(*ArtifactView); !ok {
		t.Errorf("event 0 is %T, want *ArtifactView", activities[0])
	}
	if _, ok := activities[1].(*RecommendedArtifactView); !ok {
		t.Errorf("event 1 is %T, want *RecommendedArtifactView", activities[1])
	}
	if _, ok := activities[2].(*GoBack); !ok {
		t.Errorf("event 2 is %T, want *GoBack", activities[2])
	}
	if _, ok := activities[3].(*DisplayChange); !ok {
		t.Errorf("event 3 is %T, want *DisplayChange", activities[3])
	}
	if _, ok := activities[4].(*ScopeView); !ok {
		t.Errorf("event 4 is %T, want *ScopeView", activities[4])
	}
}

func TestLoadSortsByTime(t *testing.T) {
	dump := envelope(
		`{"_id":"late","_source":{"time":1520000001000,"user":"U007","type":"back","label":"home","message":""}}`,
		`{"_id":"early","_source":{"time":1520000000000,"user":"U007","type":"back","label":"home","message":""}}`,
	)

	p := NewParser()
	if err := p.Load(strings.NewReader(dump), testResolver(t)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(p.Activities()) != 2 {
		t.Fatalf("built %d events, want 2", len(p.Activities()))
	}

	ns := vocab.Default()
	if ref := p.Activities()[0].Ref(ns); !strings.HasSuffix(string(ref), "#early") {
		t.Errorf("first event is %q, want the earlier one", ref)
	}
}

func TestArtifactViewDump(t *testing.T) {
	dump := envelope(
		`{"_id":"a1","_source":{"time":1520000000123,"user":"U007","type":"activitycheck","label":"https://example.org/res/1","message":"a resource"}}`,
	)

	p := NewParser()
	g := rdf.NewGraph()
	n, err := p.LoadAndDump(strings.NewReader(dump), testResolver(t), vocab.Default(), g)
	if err != nil {
		t.Fatalf("LoadAndDump failed: %v", err)
	}
	if n != 11 {
		t.Errorf("LoadAndDump returned %d, want 11", n)
	}

	ref := "http://vocab.afel-project.eu/ArtifactView#a1"
	item := "http://vocab.afel-project.eu/Artifact#https:%2F%2Fexample.org%2Fres%2F1"
	wantTriples := []rdf.Triple{
		{Subject: ref, Predicate: string(vocab.RDFType), Object: "http://vocab.afel-project.eu/ArtifactView"},
		{Subject: ref, Predicate: "http://vocab.afel-project.eu/eventStartDate", Object: "2018-03-02T14:13:20.123Z"},
		{Subject: ref, Predicate: "http://schema.org/location", Object: SourceLocation},
		{Subject: item, Predicate: "http://vocab.afel-project.eu/URL", Object: "https://example.org/res/1"},
		{Subject: item, Predicate: "http://vocab.afel-project.eu/content", Object: "a resource"},
		{Subject: ref, Predicate: "http://vocab.afel-project.eu/artifact", Object: item},
	}
	for _, want := range wantTriples {
		if !containsTriple(g, want) {
			t.Errorf("graph misses triple %v", want)
		}
	}
}

func TestScopeViewDumpHasNoURL(t *testing.T) {
	dump := envelope(
		`{"_id":"a5","_source":{"time":1520000000000,"user":"U007","type":"view scope","label":"geography","message":"scope opened"}}`,
	)

	p := NewParser()
	g := rdf.NewGraph()
	n, err := p.LoadAndDump(strings.NewReader(dump), testResolver(t), vocab.Default(), g)
	if err != nil {
		t.Fatalf("LoadAndDump failed: %v", err)
	}
	if n != 10 {
		t.Errorf("LoadAndDump returned %d, want 10", n)
	}

	for _, tr := range g.Triples() {
		if tr.Predicate == "http://vocab.afel-project.eu/URL" {
			t.Error("scope artifact carries a URL triple")
		}
	}
}

func TestLoadRejectsUnknownActor(t *testing.T) {
	dump := envelope(
		`{"_id":"a1","_source":{"time":1520000000000,"user":"nobody","type":"back","label":"","message":""}}`,
	)
	p := NewParser()
	if err := p.Load(strings.NewReader(dump), testResolver(t)); err == nil {
		t.Fatal("Load accepted a record from an unknown actor")
	}
}
