// Package intent turns raw user text into routable decisions: a keyword
// detector for menu navigation and open queries, an LLM classifier for
// conversational intent, and rule-based helpers for domain relevance.
package intent

// Detection is the keyword detector result. It is a closed set: exactly
// one of MenuDetection, BackDetection, QueryDetection or OpenDetection,
// so callers switch on the concrete type instead of inspecting a bag of
// optional fields.
type Detection interface {
	Confidence() float64
	detection()
}

// MenuDetection navigates the session to a menu node.
type MenuDetection struct {
	NodeID   string
	Keywords []string
	Score    float64
}

// BackDetection pops the navigation history one level.
type BackDetection struct {
	Score float64
}

// QueryDetection resolves directly to a data query bound to a node.
type QueryDetection struct {
	NodeID    string
	DBQuery   string
	QueryType string
	Keywords  []string
	Score     float64
}

// OpenDetection is free text that matched no menu node: the full input is
// carried as the search query, along with any warehouse vocabulary hits.
type OpenDetection struct {
	Query     string
	QueryType string
	Keywords  []string
	DBMatches []string
	Score     float64
}

func (d MenuDetection) Confidence() float64  { return d.Score }
func (d BackDetection) Confidence() float64  { return d.Score }
func (d QueryDetection) Confidence() float64 { return d.Score }
func (d OpenDetection) Confidence() float64  { return d.Score }

func (MenuDetection) detection()  {}
func (BackDetection) detection()  {}
func (QueryDetection) detection() {}
func (OpenDetection) detection()  {}

// Conversational intents produced by the classifier. The values are the
// Spanish labels the classification prompt asks the model for.
const (
	IntentGreeting   = "saludo"
	IntentFarewell   = "despedida"
	IntentHelp       = "ayuda"
	IntentDataQuery  = "consulta_datos"
	IntentConceptual = "pregunta_conceptual"
	IntentOffTopic   = "fuera_de_dominio"
)

// Classification is the structured result of the LLM intent classifier.
type Classification struct {
	Intent       string   `json:"intencion"`
	Topic        string   `json:"tema"`
	Entities     []string `json:"entidades"`
	IsComparison bool     `json:"es_comparacion"`
	Confidence   float64  `json:"confianza"`
}
