// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	SecurityQuery       = "what are the enterprise security policies?"
	SecurityOrderingKey = "securityPolicies"
)

// LoadRegistry reads a registry from a JSON file.
func LoadRegistry(path string) (*ScenarioRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ScenarioRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse scenario registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	reg.build()
	return &reg, nil
}

// Load returns the registry at path, or the built-in one when path is empty.
func Load(path string) (*ScenarioRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadRegistry(path)
}

// Default returns the built-in walkthrough scenarios.
func Default() *ScenarioRegistry {
	accountIDs := make([]string, 0, 14)
	for i := 1; i <= 12; i++ {
		accountIDs = append(accountIDs, strconv.Itoa(i))
	}
	accountIDs = append(accountIDs, "1001", "2001")

	reg := &ScenarioRegistry{
		Version: "1.0",
		Scenarios: []Scenario{
			{Query: "how do i reset my account password?", ArticleIDs: []string{"2001", "1001"}, AnswerTemplate: "password", Confidence: 92},
			{Query: "my mobile app keeps crashing", ArticleIDs: []string{"2010", "2011", "2012"}, AnswerTemplate: "mobile", Confidence: 94},
			{Query: "how do i update my payment method?", ArticleIDs: []string{"2013", "2014", "2015"}, AnswerTemplate: "billing", Confidence: 93},
			{Query: "how to sync outlook with knowledge base?", ArticleIDs: []string{"2002", "2004"}},
			{Query: "what is the current stock price of apple?", ArticleIDs: []string{"2006"}, AnswerTemplate: "market", Confidence: 60},
			{Query: SecurityQuery, ArticleIDs: []string{"2005", "2003", "2007", "2008", "1004"}, AnswerTemplate: "security", Confidence: 90, OrderingKey: SecurityOrderingKey},
			{Query: "account", ArticleIDs: accountIDs},
		},
		Orderings: []OrderingRule{
			{Key: SecurityOrderingKey, Priority: []string{"1004", "2003", "2007", "2008", "2005"}},
		},
		CitationBoosts: []CitationBoost{
			{Template: "security", Role: "knowledge_author", ArticleID: "2003"},
		},
	}
	reg.build()
	return reg
}

// Validate checks that queries are unique and normalized and that every
// scenario ordering key has a rule.
func (r *ScenarioRegistry) Validate() error {
	seen := map[string]bool{}
	keys := map[string]bool{}
	for _, o := range r.Orderings {
		if o.Key == "" {
			return fmt.Errorf("ordering rule without key")
		}
		keys[o.Key] = true
	}
	for _, s := range r.Scenarios {
		if s.Query == "" {
			return fmt.Errorf("scenario without query")
		}
		if s.Query != Normalize(s.Query) {
			return fmt.Errorf("scenario query %q is not normalized", s.Query)
		}
		if seen[s.Query] {
			return fmt.Errorf("duplicate scenario query %q", s.Query)
		}
		seen[s.Query] = true
		if s.Confidence < 0 || s.Confidence > 100 {
			return fmt.Errorf("scenario %q: confidence %d out of range", s.Query, s.Confidence)
		}
		if s.OrderingKey != "" && !keys[s.OrderingKey] {
			return fmt.Errorf("scenario %q: unknown ordering key %q", s.Query, s.OrderingKey)
		}
	}
	return nil
}

func (r *ScenarioRegistry) build() {
	r.byQuery = make(map[string]int, len(r.Scenarios))
	for i, s := range r.Scenarios {
		r.byQuery[s.Query] = i
	}
	r.byOrdering = make(map[string]int, len(r.Orderings))
	for i, o := range r.Orderings {
		r.byOrdering[o.Key] = i
	}
}

// Normalize trims and lower-cases a query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Lookup finds the scenario for an already normalized query.
func (r *ScenarioRegistry) Lookup(normalized string) (Scenario, bool) {
	i, ok := r.byQuery[normalized]
	if !ok {
		return Scenario{}, false
	}
	return r.Scenarios[i], true
}

// Ordering returns the priority ids for key.
func (r *ScenarioRegistry) Ordering(key string) ([]string, bool) {
	i, ok := r.byOrdering[key]
	if !ok {
		return nil, false
	}
	return r.Orderings[i].Priority, true
}

// CitationBoost returns the article id to promote, if any.
func (r *ScenarioRegistry) CitationBoost(template, role string) (string, bool) {
	for _, b := range r.CitationBoosts {
		if b.Template == template && b.Role == role {
			return b.ArticleID, true
		}
	}
	return "", false
}
