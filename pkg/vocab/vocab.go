package vocab

// Ref is a resolved vocabulary reference, either a type/property term or a
// concrete entity identifier derived from one.
type Ref string

// RDFType is the generic type predicate shared by every emitted entity.
const RDFType Ref = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Default namespace bases. The bases are configurable because the schema
// sources historically moved between hosts.
const (
	DefaultAFELBase   = "http://vocab.afel-project.eu/"
	DefaultExtBase    = "http://vocab.afel-project.eu/extension/"
	DefaultSchemaBase = "http://schema.org/"
)

// Namespace is one closed vocabulary rooted at a base URI.
type Namespace struct {
	base  string
	terms map[string]struct{}
}

// NewNamespace creates a namespace over the given base with a closed term set.
func NewNamespace(base string, terms []string) Namespace {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return Namespace{base: base, terms: set}
}

// Base returns the namespace base URI.
func (n Namespace) Base() string {
	return n.base
}

// Has reports whether the namespace's closed term set contains name.
func (n Namespace) Has(name string) bool {
	_, ok := n.terms[name]
	return ok
}

// Term resolves a term name against the namespace base.
func (n Namespace) Term(name string) Ref {
	return Ref(n.base + name)
}

// Concat builds a canonical entity identifier from a vocabulary term and a
// source-local id or normalized resource key.
func Concat(term Ref, id string) Ref {
	return term + "#" + Ref(id)
}

// Namespaces bundles the three vocabularies every mapper needs: the core
// AFEL vocabulary for stable entities, the AFEL extension vocabulary for
// experimental and derived entities, and the schema.org vocabulary for
// generic descriptive properties. It is constructed once at pipeline start
// and passed explicitly to every dump call.
type Namespaces struct {
	AFEL   Namespace
	Ext    Namespace
	Schema Namespace
}

// NewNamespacesParams configures the namespace bases. Empty fields fall back
// to the defaults.
type NewNamespacesParams struct {
	AFELBase   string
	ExtBase    string
	SchemaBase string
}

// NewNamespaces creates the namespace bundle with the built-in closed term sets.
func NewNamespaces(params NewNamespacesParams) Namespaces {
	afelBase := params.AFELBase
	if afelBase == "" {
		afelBase = DefaultAFELBase
	}
	extBase := params.ExtBase
	if extBase == "" {
		extBase = DefaultExtBase
	}
	schemaBase := params.SchemaBase
	if schemaBase == "" {
		schemaBase = DefaultSchemaBase
	}

	return Namespaces{
		AFEL:   NewNamespace(afelBase, AFELTerms),
		Ext:    NewNamespace(extBase, ExtTerms),
		Schema: NewNamespace(schemaBase, SchemaTerms),
	}
}

// Default returns the namespace bundle over the default bases.
func Default() Namespaces {
	return NewNamespaces(NewNamespacesParams{})
}

// AFELTerms is the closed term set of the core AFEL vocabulary.
var AFELTerms = []string{
	"Learner",
	"User",
	"Artifact",
	"ArtifactView",
	"email",
	"firstName",
	"lastName",
	"id",
	"person",
	"accountName",
	"user",
	"eventID",
	"eventStartDate",
	"eventEndDate",
	"artifact",
	"resourceID",
	"URL",
	"content",
}

// ExtTerms is the closed term set of the AFEL extension vocabulary.
var ExtTerms = []string{
	"Search",
	"FacetAdd",
	"FacetRemove",
	"GoBack",
	"DisplayChange",
	"ScopeView",
	"RecommendedArtifactView",
	"DidactaliaGamePlayed",
	"GameAttributeChange",
	"Questionnaire",
	"facet",
	"destination",
	"display",
	"language",
	"labelState",
	"audioState",
	"answersDetailsState",
	"longitude",
	"latitude",
	"zoomLevel",
	"correctAtFirst",
	"correctAtSecond",
	"correctAtThird",
	"correctAtFourth",
	"totalElements",
	"score",
	"gamePropertyName",
	"gamePropertyValue",
}

// SchemaTerms is the subset of schema.org terms used as generic descriptive
// types and properties.
var SchemaTerms = []string{
	"Question",
	"Answer",
	"CommentAction",
	"Rating",
	"ChooseAction",
	"location",
	"query",
	"superEvent",
	"identifier",
	"name",
	"comment",
	"text",
	"isPartOf",
	"startTime",
	"endTime",
	"author",
	"agent",
	"resultComment",
	"actionOption",
	"object",
	"ratingValue",
}
