package learners

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// trailingDigits extracts the internal numeric id embedded at the end of a
// username, e.g. "user007" -> 7.
var trailingDigits = regexp.MustCompile(`(\d+)$`)

// Learner is the identity profile of one study participant. The profile is
// built once from a mapping row and is immutable afterwards.
type Learner struct {
	Email      string
	Username   string
	FirstName  string
	LastName   string
	ExternalID string
	InternalID int

	user *User
}

// User is the platform account attached to a Learner. Events reference the
// User for attribution and never own it.
type User struct {
	ExternalID string
	Username   string

	learner *Learner
}

// NewLearner builds a learner and its user account from one (email,
// externalID) mapping row. The username is the local part of the email; the
// internal numeric id is the trailing run of digits in the username. An
// empty externalID falls back to the username.
func NewLearner(email, externalID string) (*Learner, error) {
	username := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		username = email[:at]
	}

	m := trailingDigits.FindStringSubmatch(username)
	if m == nil {
		return nil, fmt.Errorf("username %q carries no internal numeric id", username)
	}
	internalID, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("username %q carries no internal numeric id: %w", username, err)
	}

	if externalID == "" {
		externalID = username
	}

	learner := &Learner{
		Email:      email,
		Username:   username,
		FirstName:  username,
		LastName:   "Afel",
		ExternalID: externalID,
		InternalID: internalID,
	}
	learner.user = &User{
		ExternalID: externalID,
		Username:   username,
		learner:    learner,
	}
	return learner, nil
}

// User returns the account attached to the learner.
func (l *Learner) User() *User {
	return l.user
}

// Ref returns the canonical identifier of the learner node.
func (l *Learner) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.AFEL.Term("Learner"), l.Username)
}

// Ref returns the canonical identifier of the user node.
func (u *User) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.AFEL.Term("User"), u.Username)
}

// Dump emits the learner triples, the account triples and the account-to-person
// link. It returns the number of triples attempted.
func (l *Learner) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(l.Ref(ns))
	afel := ns.AFEL

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(afel.Term("Learner"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("email")), Object: l.Email})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("firstName")), Object: l.FirstName})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("lastName")), Object: l.LastName})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("id")), Object: l.ExternalID})

	return 5 + l.user.dump(ns, sink)
}

func (u *User) dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(u.Ref(ns))
	afel := ns.AFEL

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(afel.Term("User"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("id")), Object: u.ExternalID})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("accountName")), Object: u.Username})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(afel.Term("person")), Object: string(u.learner.Ref(ns))})

	return 4
}
