package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Validate())

	s, ok := reg.Lookup("how do i reset my account password?")
	require.True(t, ok)
	assert.Equal(t, []string{"2001", "1001"}, s.ArticleIDs)
	assert.Equal(t, "password", s.AnswerTemplate)
	assert.Equal(t, 92, s.Confidence)

	s, ok = reg.Lookup(SecurityQuery)
	require.True(t, ok)
	assert.Equal(t, SecurityOrderingKey, s.OrderingKey)

	account, ok := reg.Lookup("account")
	require.True(t, ok)
	assert.Len(t, account.ArticleIDs, 14)

	_, ok = reg.Lookup("How do I reset my account password?")
	assert.False(t, ok)

	priority, ok := reg.Ordering(SecurityOrderingKey)
	require.True(t, ok)
	assert.Equal(t, []string{"1004", "2003", "2007", "2008", "2005"}, priority)

	id, ok := reg.CitationBoost("security", "knowledge_author")
	require.True(t, ok)
	assert.Equal(t, "2003", id)
	_, ok = reg.CitationBoost("security", "admin")
	assert.False(t, ok)
}

func TestLoadRegistry(t *testing.T) {
	reg := ScenarioRegistry{
		Version: "2.0",
		Scenarios: []Scenario{
			{Query: "vpn setup", ArticleIDs: []string{"7"}, AnswerTemplate: "technical", Confidence: 81, OrderingKey: "vpn"},
		},
		Orderings: []OrderingRule{{Key: "vpn", Priority: []string{"7"}}},
	}
	data, err := json.Marshal(reg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "scenarios.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	s, ok := loaded.Lookup("vpn setup")
	require.True(t, ok)
	assert.Equal(t, 81, s.Confidence)
	_, ok = loaded.Ordering("vpn")
	assert.True(t, ok)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)
	_, ok := reg.Lookup(SecurityQuery)
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		reg  ScenarioRegistry
	}{
		{"not normalized", ScenarioRegistry{Scenarios: []Scenario{{Query: "Hello "}}}},
		{"duplicate", ScenarioRegistry{Scenarios: []Scenario{{Query: "a"}, {Query: "a"}}}},
		{"unknown ordering", ScenarioRegistry{Scenarios: []Scenario{{Query: "a", OrderingKey: "x"}}}},
		{"confidence range", ScenarioRegistry{Scenarios: []Scenario{{Query: "a", Confidence: 101}}}},
		{"empty query", ScenarioRegistry{Scenarios: []Scenario{{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.reg.Validate())
		})
	}
}

func TestLoadRegistry_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := LoadRegistry(path)
	assert.Error(t, err)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
