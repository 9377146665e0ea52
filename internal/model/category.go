package model

import "fmt"

// Category is a closed identifier for one scoring category. Rule files and
// persisted priors are keyed by Category; the trend series is keyed by the
// display label (Label) to match what the front-end renders.
type Category string

const (
	CategoryAI            Category = "ai"
	CategoryGame          Category = "game"
	CategoryCommunity     Category = "community"
	CategoryReview        Category = "review"
	CategoryPolitics      Category = "politics"
	CategoryEntertainment Category = "entertainment"
	CategorySenior        Category = "senior"
	CategoryOfficial      Category = "official"
	CategorySports        Category = "sports"
)

// categoryLabels maps category identifiers to front-end display labels,
// in display order.
var categoryLabels = map[Category]string{
	CategoryAI:            "AI",
	CategoryGame:          "게임",
	CategoryCommunity:     "커뮤니티",
	CategoryReview:        "리뷰",
	CategoryPolitics:      "정치",
	CategoryEntertainment: "연예",
	CategorySenior:        "시니어",
	CategoryOfficial:      "오피셜",
	CategorySports:        "스포츠",
}

// categoryOrder is the canonical display order used when iterating.
var categoryOrder = []Category{
	CategoryAI,
	CategoryGame,
	CategoryCommunity,
	CategoryReview,
	CategoryPolitics,
	CategoryEntertainment,
	CategorySenior,
	CategoryOfficial,
	CategorySports,
}

// Categories returns all known categories in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Label returns the display label for the category. Unknown categories fall
// back to their raw identifier so stale data still renders.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseCategory validates a raw category key against the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryLabels[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// CategoryByLabel resolves a display label back to its category identifier.
func CategoryByLabel(label string) (Category, bool) {
	for c, l := range categoryLabels {
		if l == label {
			return c, true
		}
	}
	return "", false
}
