package rdf

// Triple is one ordered (subject, predicate, object) fact of the output graph.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// Key returns the deduplication key of the triple: the exact concatenation
// of its three components.
func (t Triple) Key() string {
	return t.Subject + t.Predicate + t.Object
}

// Sink is the "add triple" capability shared by the graph store and any
// decorator composed around it.
type Sink interface {
	// Add stores the triple and reports whether it was newly stored.
	Add(t Triple) bool
}

// Graph is an insertion-ordered, idempotent collection of triples. Re-adding
// an identical triple does not create a second copy.
type Graph struct {
	triples []Triple
	index   map[string]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]struct{}),
	}
}

// Add stores the triple unless an identical one is already present.
func (g *Graph) Add(t Triple) bool {
	key := t.Key()
	if _, ok := g.index[key]; ok {
		return false
	}
	g.index[key] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// Len returns the number of distinct triples stored.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the stored triples in insertion order. The returned slice
// is shared with the graph and must not be modified.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Writer serializes a finished graph. The on-disk notation and destination
// are the writer's concern, not the graph's.
type Writer interface {
	WriteGraph(g *Graph) error
}
