package questionnaire

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/afel-project/traces2rdf/internal/util"
	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// Questionnaire is one evaluation questionnaire with a stable id.
type Questionnaire struct {
	ID      string
	Name    string
	Comment string
}

func (q *Questionnaire) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Ext.Term("Questionnaire"), q.ID)
}

// Dump emits the questionnaire node and returns the number of triples attempted.
func (q *Questionnaire) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(q.Ref(ns))
	schema := ns.Schema

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(ns.Ext.Term("Questionnaire"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(schema.Term("identifier")), Object: q.ID})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(schema.Term("name")), Object: q.Name})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(schema.Term("comment")), Object: q.Comment})
	return 4
}

// Question belongs to exactly one questionnaire. Its canonical identifier is
// composite: questionnaireId_questionId.
type Question struct {
	ID            string
	Text          string
	Questionnaire *Questionnaire
}

func (q *Question) Ref(ns vocab.Namespaces) vocab.Ref {
	return vocab.Concat(ns.Schema.Term("Question"), q.Questionnaire.ID+"_"+q.ID)
}

// Dump emits the question node and returns the number of triples attempted.
func (q *Question) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	ref := string(q.Ref(ns))
	schema := ns.Schema

	sink.Add(rdf.Triple{Subject: ref, Predicate: string(vocab.RDFType), Object: string(schema.Term("Question"))})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(schema.Term("identifier")), Object: q.ID})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(schema.Term("text")), Object: q.Text})
	sink.Add(rdf.Triple{Subject: ref, Predicate: string(schema.Term("isPartOf")), Object: string(q.Questionnaire.Ref(ns))})
	return 4
}

// Answer is one learner's answer to one question.
type Answer interface {
	Dump(ns vocab.Namespaces, sink rdf.Sink) int
}

// answer carries the attributes shared by every answer variant. Answers have
// no duration: start and end time are both the answer timestamp.
type answer struct {
	UserID   string
	User     *learners.User
	Time     time.Time
	Question *Question
}

func (a answer) completeID() string {
	return a.Question.ID + "_" + a.Question.ID + "_" + a.UserID
}

// dumpPair emits the answer node / action node pair every answer variant
// shares: the answer node typed and identified with its value triple already
// added by the caller, the action node with its timestamps, the author and
// agent links to the user, and the action's links to the answer and the
// question.
func (a answer) dumpPair(ns vocab.Namespaces, sink rdf.Sink, answerTerm, actionTerm, linkTerm string) int {
	schema := ns.Schema
	id := a.completeID()

	answerRef := string(vocab.Concat(schema.Term(answerTerm), id))
	actionRef := string(vocab.Concat(schema.Term(actionTerm), id))

	sink.Add(rdf.Triple{Subject: actionRef, Predicate: string(vocab.RDFType), Object: string(schema.Term(actionTerm))})
	sink.Add(rdf.Triple{Subject: actionRef, Predicate: string(schema.Term("identifier")), Object: id})
	sink.Add(rdf.Triple{Subject: actionRef, Predicate: string(schema.Term("startTime")), Object: util.TimeLiteral(a.Time)})
	sink.Add(rdf.Triple{Subject: actionRef, Predicate: string(schema.Term("endTime")), Object: util.TimeLiteral(a.Time)})

	sink.Add(rdf.Triple{Subject: answerRef, Predicate: string(schema.Term("author")), Object: string(a.User.Ref(ns))})
	sink.Add(rdf.Triple{Subject: actionRef, Predicate: string(schema.Term("agent")), Object: string(a.User.Ref(ns))})

	sink.Add(rdf.Triple{Subject: actionRef, Predicate: string(schema.Term(linkTerm)), Object: answerRef})
	sink.Add(rdf.Triple{Subject: actionRef, Predicate: string(schema.Term("object")), Object: string(a.Question.Ref(ns))})
	return 8
}

// CommentAnswer is a free-text answer. It maps to an Answer node and a
// CommentAction node cross-linked to the question and the user.
type CommentAnswer struct {
	answer
	Text string
}

// NewCommentAnswer builds a comment answer.
func NewCommentAnswer(userID string, user *learners.User, t time.Time, q *Question, text string) *CommentAnswer {
	return &CommentAnswer{
		answer: answer{UserID: userID, User: user, Time: t, Question: q},
		Text:   text,
	}
}

func (c *CommentAnswer) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	schema := ns.Schema
	id := c.completeID()
	answerRef := string(vocab.Concat(schema.Term("Answer"), id))

	sink.Add(rdf.Triple{Subject: answerRef, Predicate: string(vocab.RDFType), Object: string(schema.Term("Answer"))})
	sink.Add(rdf.Triple{Subject: answerRef, Predicate: string(schema.Term("identifier")), Object: id})
	sink.Add(rdf.Triple{Subject: answerRef, Predicate: string(schema.Term("text")), Object: c.Text})

	return 3 + c.dumpPair(ns, sink, "Answer", "CommentAction", "resultComment")
}

// IntRatingAnswer is an integer-scale rating. It maps to a Rating node and a
// ChooseAction node.
type IntRatingAnswer struct {
	answer
	Value int
}

// NewIntRatingAnswer builds an integer rating, coercing the raw value. An
// int is taken as-is, a float is truncated, a numeric string is parsed as an
// int with a float fallback.
func NewIntRatingAnswer(userID string, user *learners.User, t time.Time, q *Question, value any) (*IntRatingAnswer, error) {
	v, err := CoerceInt(value)
	if err != nil {
		return nil, fmt.Errorf("question %s, user %s: %w", q.ID, userID, err)
	}
	return &IntRatingAnswer{
		answer: answer{UserID: userID, User: user, Time: t, Question: q},
		Value:  v,
	}, nil
}

func (r *IntRatingAnswer) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	return dumpRating(r.answer, strconv.Itoa(r.Value), ns, sink)
}

// FloatRatingAnswer is a float-scale rating. It maps to a Rating node and a
// ChooseAction node.
type FloatRatingAnswer struct {
	answer
	Value float64
}

// NewFloatRatingAnswer builds a float rating, coercing the raw value from an
// int, a float or a numeric string.
func NewFloatRatingAnswer(userID string, user *learners.User, t time.Time, q *Question, value any) (*FloatRatingAnswer, error) {
	v, err := CoerceFloat(value)
	if err != nil {
		return nil, fmt.Errorf("question %s, user %s: %w", q.ID, userID, err)
	}
	return &FloatRatingAnswer{
		answer: answer{UserID: userID, User: user, Time: t, Question: q},
		Value:  v,
	}, nil
}

func (r *FloatRatingAnswer) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	return dumpRating(r.answer, strconv.FormatFloat(r.Value, 'g', -1, 64), ns, sink)
}

func dumpRating(a answer, value string, ns vocab.Namespaces, sink rdf.Sink) int {
	schema := ns.Schema
	id := a.completeID()
	answerRef := string(vocab.Concat(schema.Term("Rating"), id))

	sink.Add(rdf.Triple{Subject: answerRef, Predicate: string(vocab.RDFType), Object: string(schema.Term("Rating"))})
	sink.Add(rdf.Triple{Subject: answerRef, Predicate: string(schema.Term("identifier")), Object: id})
	sink.Add(rdf.Triple{Subject: answerRef, Predicate: string(schema.Term("ratingValue")), Object: value})

	return 3 + a.dumpPair(ns, sink, "Rating", "ChooseAction", "actionOption")
}

// CoerceInt converts a raw answer value to an int. Floats truncate toward
// zero; numeric strings parse as int first, then fall back to a float parse.
func CoerceInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer rating value %q", v)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("invalid integer rating value %v", value)
	}
}

// CoerceFloat converts a raw answer value to a float64.
func CoerceFloat(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float rating value %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("invalid float rating value %v", value)
	}
}
