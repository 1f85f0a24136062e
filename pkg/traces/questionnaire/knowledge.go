package questionnaire

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/afel-project/traces2rdf/internal/util"
	"github.com/afel-project/traces2rdf/pkg/logger"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/traces"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// KnowledgeSheet binds one exported CSV file to the questionnaire it holds.
type KnowledgeSheet struct {
	File          string
	Questionnaire Questionnaire
}

// KnowledgeSheets lists the knowledge and profile questionnaires of the
// second evaluation round, one file per questionnaire.
var KnowledgeSheets = []KnowledgeSheet{
	{File: "calib_geo.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_KNOW_PRE_GEO",
		Name:    "Pre-test in geography",
		Comment: "A test of the geography knowledge, taken before the second evaluation round",
	}},
	{File: "calib_hist.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_KNOW_PRE_HIST",
		Name:    "Pre-test in history",
		Comment: "A test of the history knowledge, taken before the second evaluation round",
	}},
	{File: "final_geo.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_KNOW_POST_GEO",
		Name:    "Post-test in geography",
		Comment: "A test of the geography knowledge, taken after the second evaluation round",
	}},
	{File: "final_hist.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_KNOW_POST_HIST",
		Name:    "Post-test in history",
		Comment: "A test of the history knowledge, taken after the second evaluation round",
	}},
	{File: "need_affect.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_NEED_AFFECT",
		Name:    "Need-for-affect test",
		Comment: "A test of the participant's need for affect",
	}},
	{File: "need_cognition.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_NEED_COGNITION",
		Name:    "Need-for-cognition test",
		Comment: "A test of the participant's need for cognition",
	}},
	{File: "geography.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_KNOW_GEO",
		Name:    "Geography test",
		Comment: "A test of the geography knowledge",
	}},
	{File: "history.csv", Questionnaire: Questionnaire{
		ID:      "AFEL_2_KNOW_HIST",
		Name:    "History test",
		Comment: "A test of the history knowledge",
	}},
}

// userDigits extracts the numeric learner id from a mail-like cell.
var userDigits = regexp.MustCompile(`(\d+)@`)

// KnowledgeParser ingests one knowledge questionnaire sheet. Every answer is
// an integer rating; the question texts are the question ids themselves, the
// export carries no wording.
type KnowledgeParser struct {
	questionnaire *Questionnaire
	questions     []*Question
	answers       []Answer
}

// NewKnowledgeParser creates an empty parser for the given questionnaire.
func NewKnowledgeParser(q Questionnaire) *KnowledgeParser {
	return &KnowledgeParser{questionnaire: &q}
}

// Load reads one knowledge sheet. The header's first column is the learner,
// the last two columns are the submission date and the client address; the
// columns between are the questions. The address column is dropped.
func (p *KnowledgeParser) Load(r io.Reader, resolver traces.UserResolver) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read questionnaire %s: %w", p.questionnaire.ID, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("questionnaire %s sheet is empty", p.questionnaire.ID)
	}

	header := rows[0]
	if len(header) < 4 {
		return fmt.Errorf("questionnaire %s sheet has %d columns, want at least 4", p.questionnaire.ID, len(header))
	}
	for _, id := range header[1 : len(header)-2] {
		p.questions = append(p.questions, &Question{ID: id, Text: id, Questionnaire: p.questionnaire})
	}

	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return fmt.Errorf("questionnaire %s row for %q has %d columns, want %d",
				p.questionnaire.ID, row[0], len(row), len(header))
		}

		userID, err := normalizeUserCell(row[0])
		if err != nil {
			return fmt.Errorf("questionnaire %s: %w", p.questionnaire.ID, err)
		}
		user, err := resolver.UserByEmailID(userID)
		if err != nil {
			return fmt.Errorf("questionnaire %s: %w", p.questionnaire.ID, err)
		}

		submitted, err := util.ParseTimestamp(row[len(row)-2])
		if err != nil {
			return fmt.Errorf("questionnaire %s row for %q: %w", p.questionnaire.ID, row[0], err)
		}

		for i, value := range row[1 : len(row)-2] {
			answer, err := NewIntRatingAnswer(userID, user, submitted, p.questions[i], value)
			if err != nil {
				return fmt.Errorf("questionnaire %s: %w", p.questionnaire.ID, err)
			}
			p.answers = append(p.answers, answer)
		}
	}

	logger.Debug("Knowledge questionnaire read",
		"id", p.questionnaire.ID, "questions", len(p.questions), "answers", len(p.answers))
	return nil
}

// LoadAndDump loads the sheet and immediately dumps it into the sink,
// returning the number of triples attempted.
func (p *KnowledgeParser) LoadAndDump(r io.Reader, resolver traces.UserResolver, ns vocab.Namespaces, sink rdf.Sink) (int, error) {
	if err := p.Load(r, resolver); err != nil {
		return 0, err
	}
	return p.Dump(ns, sink), nil
}

// Dump maps the questionnaire, its questions and every answer into the sink
// and returns the number of triples attempted.
func (p *KnowledgeParser) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	total := p.questionnaire.Dump(ns, sink)
	for _, q := range p.questions {
		total += q.Dump(ns, sink)
	}
	for _, a := range p.answers {
		total += a.Dump(ns, sink)
	}
	return total
}

// LoadAndDumpAll processes every knowledge sheet found under dir, dumping
// each one into the sink. It returns the number of triples attempted.
func LoadAndDumpAll(dir string, resolver traces.UserResolver, ns vocab.Namespaces, sink rdf.Sink) (int, error) {
	total := 0
	for _, sheet := range KnowledgeSheets {
		path := filepath.Join(dir, sheet.File)
		f, err := os.Open(path)
		if err != nil {
			return total, fmt.Errorf("open questionnaire sheet: %w", err)
		}

		n, err := NewKnowledgeParser(sheet.Questionnaire).LoadAndDump(f, resolver, ns, sink)
		f.Close()
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// normalizeUserCell reduces a learner cell to the numeric id the mapping file
// knows. The exports mix plain ids with mail addresses built around the id.
func normalizeUserCell(cell string) (string, error) {
	cell = strings.TrimSpace(cell)
	if !strings.Contains(cell, "@") {
		return cell, nil
	}
	m := userDigits.FindStringSubmatch(cell)
	if m == nil {
		return "", fmt.Errorf("cannot extract a learner id from %q", cell)
	}
	return m[1], nil
}
