package didactalia

import (
	"strconv"
	"strings"
	"time"

	"github.com/afel-project/traces2rdf/internal/util"
	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// SourceLocation is the fixed source-location literal attached to every
// didactalia event.
const SourceLocation = "https://didactalia.net"

// activity carries the attributes shared by every didactalia event.
type activity struct {
	id    string
	user  *learners.User
	start time.Time
	end   time.Time
}

// completeDump emits the triples every didactalia event shares: actor link,
// source-local id, start and end time and the source location.
func (a *activity) completeDump(ref vocab.Ref, ns vocab.Namespaces, sink rdf.Sink) int {
	s := string(ref)
	afel := ns.AFEL

	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("user")), Object: string(a.user.Ref(ns))})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("eventID")), Object: a.id})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("eventStartDate")), Object: util.TimeLiteral(a.start)})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(afel.Term("eventEndDate")), Object: util.TimeLiteral(a.end)})
	sink.Add(rdf.Triple{Subject: s, Predicate: string(ns.Schema.Term("location")), Object: SourceLocation})
	return 5
}

// ArtifactView represents a 'resourceVisited' record: a learner opened a
// pedagogical resource. It maps to an ArtifactView node plus a shared
// Artifact node.
type ArtifactView struct {
	activity
	Item       string
	RefererURL string
}

func (v *ArtifactView) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.AFEL.Term("ArtifactView"), v.id)
}

func (v *ArtifactView) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(v.Ref(ns))
	afel := ns.AFEL

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(afel.Term("ArtifactView"))})

	item := string(vocab.Concat(afel.Term("Artifact"), util.NormalizeResourceKey(v.Item)))
	sink.Add(rdf.Triple{Subject: item, Predicate: string(vocab.RDFType), Object: string(afel.Term("Artifact"))})
	sink.Add(rdf.Triple{Subject: item, Predicate: string(afel.Term("resourceID")), Object: strings.TrimSpace(v.Item)})
	sink.Add(rdf.Triple{Subject: item, Predicate: string(afel.Term("URL")), Object: v.RefererURL})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("artifact")), Object: item})

	return v.completeDump(vocab.Ref(ref), ns, sink) + 5
}

// Search represents a 'freeTextSearch' record: a learner submitted a query.
type Search struct {
	activity
	Query string
}

func (s *Search) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("Search"), s.id)
}

func (s *Search) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(s.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("Search"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ns.Schema.Term("query")), Object: s.Query})

	return s.completeDump(vocab.Ref(ref), ns, sink) + 2
}

// FacetAdd represents a 'facetsSearchAdd' record: a facet added to narrow a
// search.
type FacetAdd struct {
	activity
	Facet string
}

func (f *FacetAdd) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("FacetAdd"), f.id)
}

func (f *FacetAdd) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(f.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("FacetAdd"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ns.Ext.Term("facet")), Object: f.Facet})

	return f.completeDump(vocab.Ref(ref), ns, sink) + 2
}

// FacetRemove represents a 'facetsSearchRemove' record: a facet removed to
// widen a search.
type FacetRemove struct {
	activity
	Facet string
}

func (f *FacetRemove) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("FacetRemove"), f.id)
}

func (f *FacetRemove) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(f.Ref(ns))

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("FacetRemove"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ns.Ext.Term("facet")), Object: f.Facet})

	return f.completeDump(vocab.Ref(ref), ns, sink) + 2
}

// GamePlayed represents a 'playStart' record paired with its later 'playEnd'
// record through the session key. The two records map to a single
// DidactaliaGamePlayed node.
//
// Completion fields are nil until the matching playEnd record arrives; they
// are either all nil (session never achieved) or all set.
type GamePlayed struct {
	activity
	SessionKey string
	ResourceID string

	Language            string
	LabelState          string
	AnswersDetailsState string
	AudioState          string
	Longitude           float64
	Latitude            float64
	ZoomLevel           int

	Achieved        bool
	CorrectAtFirst  *int
	CorrectAtSecond *int
	CorrectAtThird  *int
	CorrectAtFourth *int
	TotalElements   *int
	Score           *int
}

func (g *GamePlayed) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("DidactaliaGamePlayed"), g.id)
}

// complete fills the activity from its matching playEnd record. A session is
// completed at most once; the caller guards against resurrection.
func (g *GamePlayed) complete(end time.Time, first, second, third, fourth, total, score int) {
	g.CorrectAtFirst = &first
	g.CorrectAtSecond = &second
	g.CorrectAtThird = &third
	g.CorrectAtFourth = &fourth
	g.TotalElements = &total
	g.Score = &score
	g.end = end
	g.Achieved = true
}

func (g *GamePlayed) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(g.Ref(ns))
	afel := ns.AFEL
	ext := ns.Ext

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ext.Term("DidactaliaGamePlayed"))})

	game := string(vocab.Concat(afel.Term("Artifact"), g.ResourceID))
	sink.Add(rdf.Triple{Subject: game, Predicate: string(vocab.RDFType), Object: string(afel.Term("Artifact"))})
	sink.Add(rdf.Triple{Subject: game, Predicate: string(afel.Term("resourceID")), Object: g.ResourceID})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("artifact")), Object: game})

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("language")), Object: g.Language})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("labelState")), Object: g.LabelState})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("audioState")), Object: g.AudioState})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("answersDetailsState")), Object: g.AnswersDetailsState})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("longitude")), Object: floatLiteral(g.Longitude)})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("latitude")), Object: floatLiteral(g.Latitude)})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("zoomLevel")), Object: strconv.Itoa(g.ZoomLevel)})
	n := 11

	if !g.Achieved {
		// Dumped without a matching playEnd: synthesize a one-day duration
		// and leave the completion properties out entirely.
		g.end = g.start.Add(24 * time.Hour)
	} else {
		sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("correctAtFirst")), Object: strconv.Itoa(*g.CorrectAtFirst)})
		sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("correctAtSecond")), Object: strconv.Itoa(*g.CorrectAtSecond)})
		sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("correctAtThird")), Object: strconv.Itoa(*g.CorrectAtThird)})
		sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("correctAtFourth")), Object: strconv.Itoa(*g.CorrectAtFourth)})
		sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("totalElements")), Object: strconv.Itoa(*g.TotalElements)})
		sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("score")), Object: strconv.Itoa(*g.Score)})
		n += 6
	}

	return g.completeDump(vocab.Ref(ref), ns, sink) + n
}

// AttributeChanged represents one of the in-session toggle records (label,
// language, audio, answers detail, study mode). When the session's
// GamePlayed activity is known the change carries a superEvent back-reference
// to it.
type AttributeChanged struct {
	activity
	Name  string
	Value string
	Game  *GamePlayed
}

func (c *AttributeChanged) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("GameAttributeChange"), c.id)
}

func (c *AttributeChanged) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(c.Ref(ns))
	ext := ns.Ext

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ext.Term("GameAttributeChange"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("gamePropertyName")), Object: c.Name})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(ext.Term("gamePropertyValue")), Object: c.Value})
	n := 3

	if c.Game != nil {
		sink.Add(rdf.Triple{Subject: ref, Predicate: string(ns.Schema.Term("superEvent")), Object: string(c.Game.Ref(ns))})
		n++
	}

	return c.completeDump(vocab.Ref(ref), ns, sink) + n
}

func floatLiteral(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
