package rdf

import (
	"strings"

	"github.com/afel-project/traces2rdf/pkg/logger"
)

// DuplicateWatch decorates a Sink and classifies every incoming triple as
// new or duplicate. Every triple is forwarded to the underlying sink
// regardless of its classification; the store itself collapses exact
// repeats, the watch only observes.
//
// Some subjects are legitimately re-emitted by many different events, e.g.
// shared artifact nodes viewed by several learners. Duplicates under an
// allow-listed subject prefix are counted silently; any other duplicate
// additionally logs a warning.
type DuplicateWatch struct {
	next            Sink
	seen            map[string]struct{}
	allowedPrefixes []string

	attempted  int
	duplicates int
	warned     int
}

// WatchStats are the end-of-run duplicate accounting counters.
type WatchStats struct {
	Attempted  int
	Duplicates int
	Warned     int
}

// NewDuplicateWatchParams configures a DuplicateWatch.
type NewDuplicateWatchParams struct {
	Next Sink
	// AllowedSubjectPrefixes lists subject prefixes whose duplicates are
	// expected and therefore not warned about.
	AllowedSubjectPrefixes []string
}

// NewDuplicateWatch creates a DuplicateWatch around the given sink.
func NewDuplicateWatch(params NewDuplicateWatchParams) *DuplicateWatch {
	return &DuplicateWatch{
		next:            params.Next,
		seen:            make(map[string]struct{}),
		allowedPrefixes: params.AllowedSubjectPrefixes,
	}
}

// Add classifies the triple, then always forwards it to the wrapped sink.
func (w *DuplicateWatch) Add(t Triple) bool {
	w.attempted++

	key := t.Key()
	if _, ok := w.seen[key]; ok {
		w.duplicates++
		if !w.subjectAllowed(t.Subject) {
			w.warned++
			logger.Warn("Duplicate triple from unexpected subject",
				"subject", t.Subject,
				"predicate", t.Predicate,
				"object", t.Object,
			)
		}
	} else {
		w.seen[key] = struct{}{}
	}

	return w.next.Add(t)
}

// Stats returns the counters accumulated so far.
func (w *DuplicateWatch) Stats() WatchStats {
	return WatchStats{
		Attempted:  w.attempted,
		Duplicates: w.duplicates,
		Warned:     w.warned,
	}
}

func (w *DuplicateWatch) subjectAllowed(subject string) bool {
	for _, prefix := range w.allowedPrefixes {
		if strings.HasPrefix(subject, prefix) {
			return true
		}
	}
	return false
}
