// pkg/registry/schema.go
package registry

// ScenarioRegistry is the scripted demo layer: fixed query → result and
// answer mappings consulted before the general search path.
type ScenarioRegistry struct {
	Version        string          `json:"version"`
	LastUpdated    string          `json:"lastUpdated"`
	Scenarios      []Scenario      `json:"scenarios"`
	Orderings      []OrderingRule  `json:"orderings"`
	CitationBoosts []CitationBoost `json:"citationBoosts"`

	byQuery    map[string]int
	byOrdering map[string]int
}

// Scenario pins the behavior of one normalized query. Every field but Query
// is optional: ArticleIDs replaces fuzzy matching, AnswerTemplate and
// Confidence fix the answer, OrderingKey names a re-rank rule.
type Scenario struct {
	Query          string   `json:"query"`
	ArticleIDs     []string `json:"articleIds,omitempty"`
	AnswerTemplate string   `json:"answerTemplate,omitempty"`
	Confidence     int      `json:"confidence,omitempty"`
	OrderingKey    string   `json:"orderingKey,omitempty"`
}

// OrderingRule lists ids that move to the front, in list order.
type OrderingRule struct {
	Key      string   `json:"key"`
	Priority []string `json:"priority"`
}

// CitationBoost moves ArticleID to the front of the citation candidates
// when the answer uses Template and the caller has Role.
type CitationBoost struct {
	Template  string `json:"template"`
	Role      string `json:"role"`
	ArticleID string `json:"articleId"`
}
