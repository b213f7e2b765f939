package ingest

import (
	"strings"

	"github.com/cognicore/slangkb/pkg/slangkb/store"
)

// GameRule maps raw game strings containing any of Match (case-insensitive)
// to the canonical Name.
type GameRule struct {
	Match []string
	Name  string
}

// DefaultGameRules is the built-in alias table. Rules are tried in order.
var DefaultGameRules = []GameRule{
	{Match: []string{"ff14"}, Name: "FF14"},
	{Match: []string{"lol", "league"}, Name: "LoL"},
	{Match: []string{"wow", "warcraft"}, Name: "WoW"},
	{Match: []string{"csgo", "cs:go"}, Name: "CS:GO"},
	{Match: []string{"dota"}, Name: "Dota2"},
}

// GameNormalizer canonicalises free-form game names from scraped data.
type GameNormalizer struct {
	rules []GameRule
}

// NewGameNormalizer creates a normalizer. A nil rule list uses DefaultGameRules.
func NewGameNormalizer(rules []GameRule) *GameNormalizer {
	if rules == nil {
		rules = DefaultGameRules
	}
	normalized := make([]GameRule, 0, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			continue
		}
		match := make([]string, 0, len(r.Match))
		for _, m := range r.Match {
			m = strings.ToLower(strings.TrimSpace(m))
			if m != "" {
				match = append(match, m)
			}
		}
		normalized = append(normalized, GameRule{Match: match, Name: r.Name})
	}
	return &GameNormalizer{rules: normalized}
}

// Normalize returns the canonical game for raw. Unrecognised names pass
// through trimmed; empty input maps to store.General.
func (n *GameNormalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return store.General
	}
	lower := strings.ToLower(raw)
	for _, r := range n.rules {
		for _, m := range r.Match {
			if strings.Contains(lower, m) {
				return r.Name
			}
		}
	}
	return raw
}
