package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// NTriplesWriter serializes a graph in N-Triples notation, one triple per
// line in insertion order. Subjects and predicates are always IRIs; an object
// is written as an IRI when it looks like one and as a plain literal
// otherwise.
type NTriplesWriter struct {
	dst io.Writer
}

// NewNTriplesWriterParams configures an NTriplesWriter.
type NewNTriplesWriterParams struct {
	Destination io.Writer
}

// NewNTriplesWriter creates a writer over the given destination.
func NewNTriplesWriter(params NewNTriplesWriterParams) *NTriplesWriter {
	return &NTriplesWriter{dst: params.Destination}
}

// WriteGraph writes every triple of the graph.
func (w *NTriplesWriter) WriteGraph(g *Graph) error {
	buf := bufio.NewWriter(w.dst)
	for _, t := range g.Triples() {
		_, err := fmt.Fprintf(buf, "<%s> <%s> %s .\n", t.Subject, t.Predicate, formatObject(t.Object))
		if err != nil {
			return fmt.Errorf("write triple: %w", err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}

func formatObject(o string) string {
	if strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
		return "<" + o + ">"
	}
	return `"` + escapeLiteral(o) + `"`
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
