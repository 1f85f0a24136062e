package learners

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/afel-project/traces2rdf/pkg/logger"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// Registry is the identity source of truth for the whole pipeline. It owns
// every Learner and User instance and resolves external ids, internal
// numeric ids and email-derived ids to a single canonical User.
type Registry struct {
	ordered    []*Learner
	byExternal map[string]*Learner
	byInternal map[int]*Learner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExternal: make(map[string]*Learner),
		byInternal: make(map[int]*Learner),
	}
}

// LoadParams configures a registry load.
type LoadParams struct {
	// HasHeader indicates the tabular source starts with a header row. The
	// header, when present, must read exactly "login","userid".
	HasHeader bool
}

// Load consumes ordered (email, externalId) pairs from a two-column tabular
// source. Rows with an empty email are skipped with a warning; every other
// row produces one learner indexed by external and internal id.
func (r *Registry) Load(src io.Reader, params LoadParams) error {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	if params.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read identity mapping header: %w", err)
		}
		if len(header) != 2 ||
			!strings.EqualFold(strings.TrimSpace(header[0]), "login") ||
			!strings.EqualFold(strings.TrimSpace(header[1]), "userid") {
			return fmt.Errorf("identity mapping must be 2-columns: login (email), userid; got %v", header)
		}
	}

	read := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read identity mapping row: %w", err)
		}
		if len(row) < 2 {
			return fmt.Errorf("identity mapping row %v has fewer than 2 columns", row)
		}

		email := strings.TrimSpace(row[0])
		externalID := strings.TrimSpace(row[1])
		if email == "" {
			logger.Warn("Incomplete learner email, skipping row", "email", row[0], "userid", externalID)
			continue
		}

		learner, err := NewLearner(email, externalID)
		if err != nil {
			return fmt.Errorf("build learner from row (%q, %q): %w", email, externalID, err)
		}

		r.ordered = append(r.ordered, learner)
		r.byExternal[learner.ExternalID] = learner
		r.byInternal[learner.InternalID] = learner
		read++
	}

	logger.Debug("Learners read", "count", read)
	return nil
}

// Dump emits the identity and account triples of every loaded learner, in
// load order. It returns the number of triples attempted.
func (r *Registry) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	logger.Debug("Dumping learners into the graph", "count", len(r.ordered))
	total := 0
	for _, learner := range r.ordered {
		total += learner.Dump(ns, sink)
	}
	return total
}

// Len returns the number of loaded learners.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// UserByExternalID resolves an external learner id to its canonical User.
func (r *Registry) UserByExternalID(id string) (*User, error) {
	learner, ok := r.byExternal[id]
	if !ok {
		return nil, fmt.Errorf("no learner with external id %q", id)
	}
	return learner.user, nil
}

// UserByInternalID resolves an internal numeric id to its canonical User.
func (r *Registry) UserByInternalID(id int) (*User, error) {
	learner, ok := r.byInternal[id]
	if !ok {
		return nil, fmt.Errorf("no learner with internal id %d", id)
	}
	return learner.user, nil
}

// UserByEmailID resolves an email-derived id (the decimal digits embedded in
// the address's local part) to its canonical User.
func (r *Registry) UserByEmailID(id string) (*User, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("email-derived id %q is not numeric: %w", id, err)
	}
	return r.UserByInternalID(n)
}
