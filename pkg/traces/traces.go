package traces

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// Activity is one ingested, typed domain event ready to be mapped into the
// graph. Dump emits the activity's triples and returns the number of triples
// attempted; the count is purely diagnostic.
type Activity interface {
	Ref(ns vocab.Namespaces) vocab.Ref
	Dump(ns vocab.Namespaces, sink rdf.Sink) int
}

// UserResolver resolves source actor ids to canonical users. The identity
// registry is the only implementation used in production.
type UserResolver interface {
	UserByExternalID(id string) (*learners.User, error)
	UserByEmailID(id string) (*learners.User, error)
}

// Tie-break ranks for records sharing an identical timestamp. Some sources
// stamp a session's start and end with the same instant; causal order must
// survive sorting anyway.
const (
	RankStart    = 0
	RankOrdinary = 1
	RankEnd      = 2
)

// Ordered is a normalized record that can be sorted into processing order.
type Ordered interface {
	Timestamp() time.Time
	Rank() int
}

// Sort orders records by timestamp, breaking ties by rank (start-like before
// ordinary before end-like). The sort is stable, so records equal on both
// keys keep their input order.
func Sort[R Ordered](records []R) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := records[i].Timestamp(), records[j].Timestamp()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return records[i].Rank() < records[j].Rank()
	})
}

// Hit is one record of a search-engine export: an envelope id plus the
// source document.
type Hit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

type envelope struct {
	Hits struct {
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// DecodeDump decodes the search-engine export envelope both JSON trace
// sources arrive in and returns the contained records.
func DecodeDump(r io.Reader) ([]Hit, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode trace dump: %w", err)
	}
	return env.Hits.Hits, nil
}
