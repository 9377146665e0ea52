package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// FieldWeights are the non-negative aggregation weights applied to each
// text field's score. They are expected to sum to roughly 1.0.
type FieldWeights struct {
	Title       float64 `json:"title"`
	Tags        float64 `json:"tags"`
	Description float64 `json:"description"`
	Channel     float64 `json:"channel"`
}

// DefaultFieldWeights matches the weights used when the rules file does not
// override them.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{Title: 0.45, Tags: 0.25, Description: 0.15, Channel: 0.15}
}

// CategoryRule holds the include/exclude token sets for one category.
// Immutable after load.
type CategoryRule struct {
	IncludeTokens []string `json:"include_tokens"`
	ExcludeTokens []string `json:"exclude_tokens"`
}

// RuleSet is the parsed scoring rules file.
type RuleSet struct {
	FieldWeights FieldWeights
	Categories   map[Category]CategoryRule
}

// ruleFile is the on-disk shape of the rules file.
type ruleFile struct {
	Global struct {
		FieldWeights *FieldWeights `json:"field_weights"`
	} `json:"global"`
	Categories map[string]CategoryRule `json:"categories"`
}

// LoadRules reads and validates the scoring rules file. Unlike the persisted
// prior/series state, rules are configuration: a missing file, invalid JSON,
// or an unknown category key is an error, not an empty fallback.
func LoadRules(path string) (*RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rf ruleFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(rf.Categories) == 0 {
		return nil, fmt.Errorf("rules file %s has no categories", path)
	}

	rs := &RuleSet{
		FieldWeights: DefaultFieldWeights(),
		Categories:   make(map[Category]CategoryRule, len(rf.Categories)),
	}
	if rf.Global.FieldWeights != nil {
		rs.FieldWeights = *rf.Global.FieldWeights
	}

	for key, rule := range rf.Categories {
		cat, err := ParseCategory(key)
		if err != nil {
			return nil, fmt.Errorf("rules file %s: %w", path, err)
		}
		rs.Categories[cat] = rule
	}

	return rs, nil
}

// RuleCategories returns the rule set's categories in display order,
// restricted to those present in the file.
func (rs *RuleSet) RuleCategories() []Category {
	var out []Category
	for _, c := range Categories() {
		if _, ok := rs.Categories[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
