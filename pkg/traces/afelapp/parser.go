package afelapp

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/afel-project/traces2rdf/internal/util"
	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/logger"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/traces"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// rawRecord is the source document of one AFEL App record. The timestamp is
// epoch milliseconds in UTC.
type rawRecord struct {
	Time    int64  `json:"time"`
	User    string `json:"user"`
	Type    string `json:"type"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

type record struct {
	id   string
	time time.Time
	user *learners.User
	raw  rawRecord
}

func (r record) Timestamp() time.Time {
	return r.time
}

// App records never pair up, so they all share the ordinary rank.
func (r record) Rank() int {
	return traces.RankOrdinary
}

// Parser ingests an AFEL App trace dump and converts the records into typed
// events.
type Parser struct {
	activities []traces.Activity
}

// NewParser creates an empty AFEL App parser.
func NewParser() *Parser {
	return &Parser{}
}

// Activities returns the ingested events in processing order.
func (p *Parser) Activities() []traces.Activity {
	return p.activities
}

// Load reads an AFEL App trace dump, normalizes and sorts the records, and
// builds the event sequence. Records with an unknown type are dropped
// without notice.
func (p *Parser) Load(r io.Reader, resolver traces.UserResolver) error {
	hits, err := traces.DecodeDump(r)
	if err != nil {
		return fmt.Errorf("load AFEL App traces: %w", err)
	}

	records := make([]record, 0, len(hits))
	for _, hit := range hits {
		rec, err := normalizeRecord(hit, resolver)
		if err != nil {
			return fmt.Errorf("AFEL App record %s: %w", hit.ID, err)
		}
		records = append(records, rec)
	}
	traces.Sort(records)
	logger.Debug("AFEL App traces read", "count", len(records))

	dispatch := map[string]func(record) traces.Activity{
		"activitycheck": newArtifactView,
		"recocheck":     newRecommendedArtifactView,
		"back":          newGoBack,
		"displaychange": newDisplayChange,
		"view scope":    newScopeView,
	}

	for _, rec := range records {
		build, ok := dispatch[rec.raw.Type]
		if !ok {
			continue
		}
		p.activities = append(p.activities, build(rec))
	}
	return nil
}

// LoadAndDump loads the trace dump and immediately dumps the resulting
// events into the sink, returning the number of triples attempted.
func (p *Parser) LoadAndDump(r io.Reader, resolver traces.UserResolver, ns vocab.Namespaces, sink rdf.Sink) (int, error) {
	if err := p.Load(r, resolver); err != nil {
		return 0, err
	}
	return p.Dump(ns, sink), nil
}

// Dump maps every ingested event into the sink and returns the number of
// triples attempted.
func (p *Parser) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	logger.Debug("Dumping AFEL App events into the graph", "count", len(p.activities))
	total := 0
	for _, a := range p.activities {
		total += a.Dump(ns, sink)
	}
	return total
}

func normalizeRecord(hit traces.Hit, resolver traces.UserResolver) (record, error) {
	var raw rawRecord
	if err := json.Unmarshal(hit.Source, &raw); err != nil {
		return record{}, fmt.Errorf("decode source: %w", err)
	}

	user, err := resolver.UserByExternalID(raw.User)
	if err != nil {
		return record{}, fmt.Errorf("resolve actor: %w", err)
	}

	return record{
		id:   hit.ID,
		time: util.FromUnixMilli(raw.Time),
		user: user,
		raw:  raw,
	}, nil
}

func baseEvent(rec record) event {
	return event{
		id:    rec.id,
		user:  rec.user,
		start: rec.time,
		end:   rec.time,
	}
}

func newArtifactView(rec record) traces.Activity {
	return &ArtifactView{
		event:           baseEvent(rec),
		ArtifactURL:     rec.raw.Label,
		ArtifactContent: rec.raw.Message,
	}
}

func newRecommendedArtifactView(rec record) traces.Activity {
	return &RecommendedArtifactView{
		event:           baseEvent(rec),
		ArtifactURL:     rec.raw.Label,
		ArtifactContent: rec.raw.Message,
	}
}

func newGoBack(rec record) traces.Activity {
	return &GoBack{
		event:       baseEvent(rec),
		Destination: rec.raw.Label,
		Comment:     rec.raw.Message,
	}
}

func newDisplayChange(rec record) traces.Activity {
	return &DisplayChange{
		event:   baseEvent(rec),
		Display: rec.raw.Label,
		Comment: rec.raw.Message,
	}
}

func newScopeView(rec record) traces.Activity {
	return &ScopeView{
		event:   baseEvent(rec),
		Scope:   rec.raw.Label,
		Comment: rec.raw.Message,
	}
}
