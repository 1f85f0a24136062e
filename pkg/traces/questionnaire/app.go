package questionnaire

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/logger"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/traces"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// Identity of the second app evaluation questionnaire.
const (
	AppQuestionnaireID      = "AFEL_QUEST_APP_2"
	appQuestionnaireName    = "2nd AFEL evaluation App questionaire"
	appQuestionnaireComment = "A questionaire to evaluate the quality of the AFEL App"
)

// appAnswerTime is the fixed timestamp attached to every app questionnaire
// answer. The answer sheet carries no per-row date; the questionnaire was
// collected on a single known day.
var appAnswerTime = time.Date(2018, time.May, 23, 10, 0, 0, 0, time.UTC)

type columnKind int

const (
	columnInt columnKind = iota
	columnFloat
	columnComment
)

// appColumnKinds is the fixed column template of the app answer sheet: blocks
// of rating scales interleaved with free-text columns, closed by six
// float-scale scores.
func appColumnKinds() []columnKind {
	kinds := make([]columnKind, 0, 46)
	add := func(kind columnKind, n int) {
		for i := 0; i < n; i++ {
			kinds = append(kinds, kind)
		}
	}
	add(columnInt, 27)
	add(columnComment, 2)
	add(columnInt, 5)
	add(columnComment, 1)
	add(columnInt, 3)
	add(columnComment, 2)
	add(columnFloat, 6)
	return kinds
}

// AppParser ingests the app questionnaire: a JSON file carrying the question
// texts and a CSV sheet carrying one row of answers per participant group.
type AppParser struct {
	questionnaire *Questionnaire
	questions     []*Question
	answers       []Answer
}

// NewAppParser creates an empty app questionnaire parser.
func NewAppParser() *AppParser {
	return &AppParser{
		questionnaire: &Questionnaire{
			ID:      AppQuestionnaireID,
			Name:    appQuestionnaireName,
			Comment: appQuestionnaireComment,
		},
	}
}

// Load reads the question details and the answer sheet. The sheet's first
// column lists the answering user ids joined by '&'; every other column is
// one question, matched positionally against the column template. Empty cells
// are unanswered questions and are skipped.
func (p *AppParser) Load(details, sheet io.Reader, resolver traces.UserResolver) error {
	texts, err := loadQuestionTexts(details)
	if err != nil {
		return err
	}

	reader := csv.NewReader(sheet)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read app questionnaire sheet: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("app questionnaire sheet is empty")
	}

	kinds := appColumnKinds()
	header := rows[0]
	if len(header)-1 != len(kinds) {
		return fmt.Errorf("app questionnaire sheet has %d question columns, want %d", len(header)-1, len(kinds))
	}

	questions := make([]*Question, 0, len(kinds))
	for _, id := range header[1:] {
		text, ok := texts[id]
		if !ok {
			return fmt.Errorf("question %s has no details entry", id)
		}
		questions = append(questions, &Question{ID: id, Text: text, Questionnaire: p.questionnaire})
	}
	p.questions = questions

	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return fmt.Errorf("app questionnaire row for %q has %d columns, want %d", row[0], len(row), len(header))
		}
		for _, userID := range strings.Split(row[0], "&") {
			userID = strings.TrimSpace(userID)
			user, err := resolver.UserByExternalID(userID)
			if err != nil {
				return fmt.Errorf("app questionnaire row: %w", err)
			}
			for i, value := range row[1:] {
				if strings.TrimSpace(value) == "" {
					continue
				}
				answer, err := buildAppAnswer(kinds[i], userID, user, questions[i], value)
				if err != nil {
					return err
				}
				p.answers = append(p.answers, answer)
			}
		}
	}

	logger.Debug("App questionnaire read", "questions", len(p.questions), "answers", len(p.answers))
	return nil
}

// LoadAndDump loads the questionnaire and immediately dumps it into the sink,
// returning the number of triples attempted.
func (p *AppParser) LoadAndDump(details, sheet io.Reader, resolver traces.UserResolver, ns vocab.Namespaces, sink rdf.Sink) (int, error) {
	if err := p.Load(details, sheet, resolver); err != nil {
		return 0, err
	}
	return p.Dump(ns, sink), nil
}

// Dump maps the questionnaire, its questions and every answer into the sink
// and returns the number of triples attempted.
func (p *AppParser) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	total := p.questionnaire.Dump(ns, sink)
	for _, q := range p.questions {
		total += q.Dump(ns, sink)
	}
	for _, a := range p.answers {
		total += a.Dump(ns, sink)
	}
	return total
}

func buildAppAnswer(kind columnKind, userID string, user *learners.User, q *Question, value string) (Answer, error) {
	switch kind {
	case columnComment:
		return NewCommentAnswer(userID, user, appAnswerTime, q, value), nil
	case columnFloat:
		return NewFloatRatingAnswer(userID, user, appAnswerTime, q, value)
	default:
		return NewIntRatingAnswer(userID, user, appAnswerTime, q, value)
	}
}

func loadQuestionTexts(r io.Reader) (map[string]string, error) {
	var texts map[string]string
	if err := json.NewDecoder(r).Decode(&texts); err != nil {
		return nil, fmt.Errorf("decode question details: %w", err)
	}
	return texts, nil
}
