package chat

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// containsFold reports whether lower (already lowercased) contains needle
// ignoring case.
func containsFold(lower, needle string) bool {
	return needle != "" && strings.Contains(lower, strings.ToLower(needle))
}

// Entity is one company the coverage heuristic can track. Aliases are
// matched case-insensitively as substrings; the canonical name always
// counts as an alias of itself.
type Entity struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

func (e Entity) matchesLower(lower string) bool {
	if containsFold(lower, e.Canonical) {
		return true
	}
	for _, alias := range e.Aliases {
		if containsFold(lower, alias) {
			return true
		}
	}
	return false
}

// AliasTable is an ordered list of trackable entities. Order matters:
// coverage attribution takes the first entity that matches an evidence
// item, so more specific names must come before substrings of themselves
// (SK하이닉스 before anything matching plain 하이닉스).
type AliasTable []Entity

// DefaultAliasTable covers the KOSPI names the bundled statement exports
// contain. Deployments with other data ship their own entities.yaml.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		{Canonical: "삼성전자", Aliases: []string{"삼성"}},
		{Canonical: "SK하이닉스", Aliases: []string{"하이닉스"}},
		{Canonical: "SK텔레콤", Aliases: []string{"skt"}},
		{Canonical: "케이티", Aliases: []string{"kt"}},
		{Canonical: "LG전자", Aliases: nil},
		{Canonical: "LG유플러스", Aliases: []string{"유플러스"}},
	}
}

// LoadAliasTable reads an entities.yaml file. Missing or malformed files
// are an error; callers decide whether to fall back to the default table.
func LoadAliasTable(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity config: %w", err)
	}
	var doc struct {
		Entities []Entity `yaml:"entities"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse entity config: %w", err)
	}
	if len(doc.Entities) == 0 {
		return nil, fmt.Errorf("no entities defined in %s", path)
	}
	for _, e := range doc.Entities {
		if e.Canonical == "" {
			return nil, fmt.Errorf("entity with empty canonical name in %s", path)
		}
	}
	return AliasTable(doc.Entities), nil
}

// MentionedIn lists the canonical names the text refers to, in table order.
func (t AliasTable) MentionedIn(text string) []string {
	lower := strings.ToLower(text)
	var mentioned []string
	for _, e := range t {
		if e.matchesLower(lower) {
			mentioned = append(mentioned, e.Canonical)
		}
	}
	return mentioned
}

// CoveredIn lists the canonical names the collected evidence already
// answers for. Each evidence item is attributed to at most one entity,
// the first in table order that matches it.
func (t AliasTable) CoveredIn(results []string) []string {
	seen := make(map[string]bool, len(t))
	var covered []string
	for _, result := range results {
		lower := strings.ToLower(result)
		for _, e := range t {
			if e.matchesLower(lower) {
				if !seen[e.Canonical] {
					seen[e.Canonical] = true
					covered = append(covered, e.Canonical)
				}
				break
			}
		}
	}
	return covered
}

// Remaining returns mentioned minus covered, preserving mention order.
func Remaining(mentioned, covered []string) []string {
	done := make(map[string]bool, len(covered))
	for _, c := range covered {
		done[c] = true
	}
	var remaining []string
	for _, m := range mentioned {
		if !done[m] {
			remaining = append(remaining, m)
		}
	}
	return remaining
}
