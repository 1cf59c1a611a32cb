package models

import "time"

// ConfidenceThreshold is the inclusive lower bound of a confident answer.
const ConfidenceThreshold = 80

// IsConfident is the only way AIResponse.IsConfident is derived.
func IsConfident(confidence int) bool {
	return confidence >= ConfidenceThreshold
}

type Citation struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category"`
}

type QueryContext struct {
	OriginalQuery   string   `json:"originalQuery"`
	NormalizedQuery string   `json:"normalizedQuery"`
	SessionScoped   bool     `json:"sessionScoped"`
	PermissionLevel RoleID   `json:"permissionLevel"`
	RedactedFields  []string `json:"redactedFields"`
}

// Guardrails are asserted, not computed.
type Guardrails struct {
	PassedSafetyCheck bool `json:"passedSafetyCheck"`
	PolicyCompliant   bool `json:"policyCompliant"`
	SourceVerified    bool `json:"sourceVerified"`
}

type AIResponse struct {
	ID           string       `json:"id"`
	Answer       string       `json:"answer"`
	Confidence   int          `json:"confidence"`
	IsConfident  bool         `json:"isConfident"`
	Citations    []Citation   `json:"citations"`
	GeneratedAt  time.Time    `json:"generatedAt"`
	QueryContext QueryContext `json:"queryContext"`
	Guardrails   Guardrails   `json:"guardrails"`
}
