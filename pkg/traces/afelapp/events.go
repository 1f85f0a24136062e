package afelapp

import (
	"strings"
	"time"

	"github.com/afel-project/traces2rdf/internal/util"
	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// SourceLocation is the fixed source-location literal attached to every
// AFEL App event.
const SourceLocation = "http://afel-project.eu/"

// event carries the attributes shared by every AFEL App record.
type event struct {
	id    string
	user  *learners.User
	start time.Time
	end   time.Time
}

func (e *event) completeDump(ref vocab.Ref, ns vocab.Namespaces, sink rdf.Sink) int {
	s := string(ref)
	afel := ns.AFEL

	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("user")), Object: string(e.user.Ref(ns))})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("eventID")), Object: e.id})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("eventStartDate")), Object: util.TimeLiteral(e.start)})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("eventEndDate")), Object: util.TimeLiteral(e.end)})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(ns.Schema.Term("location")), Object: SourceLocation})
	return 5
}

// dumpArtifactNode emits the shared Artifact node an app view points at and
// links it to the viewing activity.
func dumpArtifactNode(ref string, url, content string, withURL bool, ns vocab.Namespaces, sink rdf.Sink) int {
	afel := ns.AFEL
	item := string(vocab.Concat(afel.Term("Artifact"), util.NormalizeResourceKey(url)))

	sink.Add(rdf.Triple{Subject: item, Predicate: string(vocab.RDFType), Object: string(afel.Term("Artifact"))})
	sink.Add(rdf.Triple{Subject: item, Predicate: string(afel.Term("resourceID")), Object: strings.TrimSpace(url)})
	n := 2
	if withURL {
		sink.Add(rdf.Triple{Subject: item, Predicate: string(afel.Term("URL")), Object: url})
		n++
	}
	sink.Add(rdf.Triple{Subject: item, Predicate: string(afel.Term("content")), Object: content})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("artifact")), Object: item})
	return n + 2
}

// ArtifactView represents an 'activitycheck' record: a learner viewed a
// resource inside the app. The label carries the resource url, the message
// its content.
type ArtifactView struct {
	event
	ArtifactURL     string
	ArtifactContent string
}

func (v *ArtifactView) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.AFEL.Term("ArtifactView"), v.id)
}

func (v *ArtifactView) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(v.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.AFEL.Term("ArtifactView"))})
	n := 1 + dumpArtifactNode(ref, v.ArtifactURL, v.ArtifactContent, true, ns, sink)

	return v.completeDump(vocab.Ref(ref), ns, sink) + n
}

// RecommendedArtifactView represents a 'recocheck' record: a learner viewed
// a resource the recommender suggested.
type RecommendedArtifactView struct {
	event
	ArtifactURL     string
	ArtifactContent string
}

func (v *RecommendedArtifactView) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("RecommendedArtifactView"), v.id)
}

func (v *RecommendedArtifactView) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(v.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("RecommendedArtifactView"))})
	n := 1 + dumpArtifactNode(ref, v.ArtifactURL, v.ArtifactContent, true, ns, sink)

	return v.completeDump(vocab.Ref(ref), ns, sink) + n
}

// GoBack represents a 'back' record: a learner returned to a previous
// interface of the app.
type GoBack struct {
	event
	Destination string
	Comment     string
}

func (g *GoBack) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("GoBack"), g.id)
}

func (g *GoBack) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(g.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("GoBack"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ns.Ext.Term("destination")), Object: g.Destination})

	return g.completeDump(vocab.Ref(ref), ns, sink) + 2
}

// DisplayChange represents a 'displaychange' record: a learner switched the
// visualization displayed by the app.
type DisplayChange struct {
	event
	Display string
	Comment string
}

func (d *DisplayChange) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("DisplayChange"), d.id)
}

func (d *DisplayChange) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(d.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("DisplayChange"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ns.Ext.Term("display")), Object: d.Display})

	return d.completeDump(vocab.Ref(ref), ns, sink) + 2
}

// ScopeView represents a 'view scope' record: a learner viewed a specific
// scope. It maps to a ScopeView node plus a shared Artifact node without a
// URL.
type ScopeView struct {
	event
	Scope   string
	Comment string
}

func (s *ScopeView) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("ScopeView"), s.id)
}

func (s *ScopeView) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(s.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("ScopeView"))})
	n := 1 + dumpArtifactNode(ref, s.Scope, s.Comment, false, ns, sink)

	return s.completeDump(vocab.Ref(ref), ns, sink) + n
}
