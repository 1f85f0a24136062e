package didactalia

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/afel-project/traces2rdf/internal/util"
	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/logger"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/traces"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

// rawRecord is the source document of one didactalia record. Numeric payload
// fields arrive as strings or numbers depending on the export, so they are
// kept as json.Number until the dispatch step parses them.
type rawRecord struct {
	Date        string `json:"date"`
	UserID      string `json:"user_id"`
	CommunityID string `json:"community_id"`
	ActionType  string `json:"actionType"`
	Type        string `json:"type"`

	Item       string `json:"Item"`
	RefererURL string `json:"referer_url"`
	SearchText string `json:"search_text"`
	Facet      string `json:"facet"`

	PlaySession         string      `json:"playSession"`
	ResourceID          string      `json:"resource_id"`
	GameLanguage        string      `json:"gameLanguage"`
	LabelState          string      `json:"labelState"`
	AnswersDetailsState string      `json:"answersDetailsState"`
	AudioState          string      `json:"audioState"`
	State               string      `json:"state"`
	Longitude           json.Number `json:"longitude"`
	Latitude            json.Number `json:"latitude"`
	ZoomLevel           json.Number `json:"zoomLevel"`
	CorrectAtFirst      json.Number `json:"correctAtFirst"`
	CorrectAtSecond     json.Number `json:"correctAtSecond"`
	CorrectAtThird      json.Number `json:"correctAtThird"`
	CorrectAtFourth     json.Number `json:"correctAtFourth"`
	TotalElements       json.Number `json:"totalElements"`
	Score               json.Number `json:"score"`
}

// record is a normalized didactalia record: timestamp parsed, actor
// resolved, discriminator defaulted.
type record struct {
	id     string
	action string
	time   time.Time
	user   *learners.User
	raw    rawRecord
}

// actionRanks breaks timestamp ties so that a session start always sorts
// before, and its end after, any record sharing the same instant.
var actionRanks = map[string]int{
	"playStart": traces.RankStart,
	"playEnd":   traces.RankEnd,
}

func (r record) Timestamp() time.Time {
	return r.time
}

func (r record) Rank() int {
	if rank, ok := actionRanks[r.action]; ok {
		return rank
	}
	return traces.RankOrdinary
}

// Parser ingests a didactalia trace dump and converts the records into typed
// activities. Game sessions spread over several records are correlated
// through their session key during a single Load pass.
type Parser struct {
	activities []traces.Activity
}

// NewParser creates an empty didactalia parser.
func NewParser() *Parser {
	return &Parser{}
}

// Activities returns the ingested activities in processing order.
func (p *Parser) Activities() []traces.Activity {
	return p.activities
}

// Load reads a didactalia trace dump, normalizes and sorts the records, and
// builds the activity sequence. Records whose action type is not in the
// dispatch table are dropped without notice; the source is known to emit
// stray legacy actions.
func (p *Parser) Load(r io.Reader, resolver traces.UserResolver) error {
	hits, err := traces.DecodeDump(r)
	if err != nil {
		return fmt.Errorf("load didactalia traces: %w", err)
	}

	records := make([]record, 0, len(hits))
	for _, hit := range hits {
		rec, err := normalizeRecord(hit, resolver)
		if err != nil {
			return fmt.Errorf("didactalia record %s: %w", hit.ID, err)
		}
		records = append(records, rec)
	}
	traces.Sort(records)
	logger.Debug("Didactalia traces read", "count", len(records))

	return p.processRecords(records)
}

// LoadAndDump loads the trace dump and immediately dumps the resulting
// activities into the sink, returning the number of triples attempted.
func (p *Parser) LoadAndDump(r io.Reader, resolver traces.UserResolver, ns vocab.Namespaces, sink rdf.Sink) (int, error) {
	if err := p.Load(r, resolver); err != nil {
		return 0, err
	}
	return p.Dump(ns, sink), nil
}

// Dump maps every ingested activity into the sink and returns the number of
// triples attempted.
func (p *Parser) Dump(ns vocab.Namespaces, sink rdf.Sink) int {
	logger.Debug("Dumping didactalia activities into the graph", "count", len(p.activities))
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

	t, err := util.ParseTimestamp(raw.Date)
	if err != nil {
		return record{}, err
	}

	user, err := resolver.UserByExternalID(raw.UserID)
	if err != nil {
		return record{}, fmt.Errorf("resolve actor: %w", err)
	}

	// Some records miss the actionType field (source-side defect); the type
	// field carries the discriminator then.
	action := raw.ActionType
	if action == "" {
		action = raw.Type
	}

	return record{
		id:     hit.ID,
		action: action,
		time:   t,
		user:   user,
		raw:    raw,
	}, nil
}

// processRecords walks the sorted records through the dispatch table,
// correlating game sessions as it goes. The session buffer lives only for
// this pass.
func (p *Parser) processRecords(records []record) error {
	sessions := make(map[string]*GamePlayed)

	handlePlayStart := func(rec record) (traces.Activity, error) {
		game, err := newGamePlayed(rec)
		if err != nil {
			return nil, err
		}
		sessions[game.SessionKey] = game
		return game, nil
	}

	handlePlayEnd := func(rec record) (traces.Activity, error) {
		game, ok := sessions[rec.raw.PlaySession]
		if !ok {
			logger.Warn("playEnd without any relative playStart, dropping record",
				"id", rec.id, "session", rec.raw.PlaySession)
			return nil, nil
		}
		if game.Achieved {
			logger.Warn("playEnd for an already completed session, dropping record",
				"id", rec.id, "session", rec.raw.PlaySession)
			return nil, nil
		}
		return nil, completeGame(game, rec)
	}

	handleAttributeChange := func(rec record) (traces.Activity, error) {
		game, ok := sessions[rec.raw.PlaySession]
		if !ok {
			logger.Warn("Game attribute change without any relative playStart, no superEvent",
				"action", rec.action, "id", rec.id, "time", util.TimeLiteral(rec.time))
			return newAttributeChanged(rec, nil)
		}
		return newAttributeChanged(rec, game)
	}

	dispatch := map[string]func(record) (traces.Activity, error){
		"resourceVisited":    func(rec record) (traces.Activity, error) { return newArtifactView(rec), nil },
		"freeTextSearch":     func(rec record) (traces.Activity, error) { return newSearch(rec), nil },
		"facetsSearchAdd":    func(rec record) (traces.Activity, error) { return newFacetAdd(rec), nil },
		"facetsSearchRemove": func(rec record) (traces.Activity, error) { return newFacetRemove(rec), nil },
		"playStart":          handlePlayStart,
		"playEnd":            handlePlayEnd,

		"labelStateChange":          handleAttributeChange,
		"languageChange":            handleAttributeChange,
		"audioStateChange":          handleAttributeChange,
		"answersDetailsStateChange": handleAttributeChange,
		"playStudyChange":           handleAttributeChange,
	}

	for _, rec := range records {
		handler, ok := dispatch[rec.action]
		if !ok {
			continue
		}
		a, err := handler(rec)
		if err != nil {
			return fmt.Errorf("didactalia record %s (%s): %w", rec.id, rec.action, err)
		}
		if a != nil {
			p.activities = append(p.activities, a)
		}
	}
	return nil
}

func baseActivity(rec record) activity {
	return activity{
		id:    rec.id,
		user:  rec.user,
		start: rec.time,
		end:   rec.time,
	}
}

func newArtifactView(rec record) *ArtifactView {
	return &ArtifactView{
		activity:   baseActivity(rec),
		Item:       rec.raw.Item,
		RefererURL: rec.raw.RefererURL,
	}
}

func newSearch(rec record) *Search {
	return &Search{
		activity: baseActivity(rec),
		Query:    rec.raw.SearchText,
	}
}

func newFacetAdd(rec record) *FacetAdd {
	return &FacetAdd{
		activity: baseActivity(rec),
		Facet:    rec.raw.Facet,
	}
}

func newFacetRemove(rec record) *FacetRemove {
	return &FacetRemove{
		activity: baseActivity(rec),
		Facet:    rec.raw.Facet,
	}
}

func newGamePlayed(rec record) (*GamePlayed, error) {
	longitude, err := parseFloatField("longitude", rec.raw.Longitude)
	if err != nil {
		return nil, err
	}
	latitude, err := parseFloatField("latitude", rec.raw.Latitude)
	if err != nil {
		return nil, err
	}
	zoom, err := parseIntField("zoomLevel", rec.raw.ZoomLevel)
	if err != nil {
		return nil, err
	}

	return &GamePlayed{
		activity:            baseActivity(rec),
		SessionKey:          rec.raw.PlaySession,
		ResourceID:          rec.raw.ResourceID,
		Language:            rec.raw.GameLanguage,
		LabelState:          rec.raw.LabelState,
		AnswersDetailsState: rec.raw.AnswersDetailsState,
		AudioState:          rec.raw.AudioState,
		Longitude:           longitude,
		Latitude:            latitude,
		ZoomLevel:           zoom,
	}, nil
}

func completeGame(game *GamePlayed, rec record) error {
	first, err := parseIntField("correctAtFirst", rec.raw.CorrectAtFirst)
	if err != nil {
		return err
	}
	second, err := parseIntField("correctAtSecond", rec.raw.CorrectAtSecond)
	if err != nil {
		return err
	}
	third, err := parseIntField("correctAtThird", rec.raw.CorrectAtThird)
	if err != nil {
		return err
	}
	fourth, err := parseIntField("correctAtFourth", rec.raw.CorrectAtFourth)
	if err != nil {
		return err
	}
	total, err := parseIntField("totalElements", rec.raw.TotalElements)
	if err != nil {
		return err
	}
	score, err := parseIntField("score", rec.raw.Score)
	if err != nil {
		return err
	}

	game.complete(rec.time, first, second, third, fourth, total, score)
	return nil
}

func newAttributeChanged(rec record, game *GamePlayed) (*AttributeChanged, error) {
	var name, value string
	switch rec.action {
	case "labelStateChange":
		name, value = "label", rec.raw.LabelState
	case "languageChange":
		name, value = "language", rec.raw.GameLanguage
	case "audioStateChange":
		name, value = "audio", rec.raw.AudioState
	case "answersDetailsStateChange":
		name, value = "answersDetails", rec.raw.AnswersDetailsState
	case "playStudyChange":
		name, value = "playStudy", rec.raw.State
	default:
		return nil, fmt.Errorf("unrecognized game attribute change %q", rec.action)
	}

	return &AttributeChanged{
		activity: baseActivity(rec),
		Name:     name,
		Value:    value,
		Game:     game,
	}, nil
}

func parseFloatField(name string, v json.Number) (float64, error) {
	f, err := strconv.ParseFloat(v.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid numeric value %q", name, v.String())
	}
	return f, nil
}

func parseIntField(name string, v json.Number) (int, error) {
	// Exported counters occasionally arrive as "3.0"; accept the float form
	// the way ratings do.
	if n, err := strconv.Atoi(v.String()); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid numeric value %q", name, v.String())
	}
	return int(f), nil
}
