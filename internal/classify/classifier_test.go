package classify

import (
	"math"
	"testing"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

// fakePriors is an in-memory PriorSource recording every hit.
type fakePriors struct {
	hits     map[string]map[model.Category]int
	totals   map[string]int
	recorded []struct {
		channel string
		cat     model.Category
	}
}

func newFakePriors() *fakePriors {
	return &fakePriors{
		hits:   make(map[string]map[model.Category]int),
		totals: make(map[string]int),
	}
}

func (f *fakePriors) Get(channelID string) (map[model.Category]int, int) {
	return f.hits[channelID], f.totals[channelID]
}

func (f *fakePriors) RecordHit(channelID string, cat model.Category) {
	if f.hits[channelID] == nil {
		f.hits[channelID] = make(map[model.Category]int)
	}
	f.hits[channelID][cat]++
	f.totals[channelID]++
	f.recorded = append(f.recorded, struct {
		channel string
		cat     model.Category
	}{channelID, cat})
}

func testRules() *model.RuleSet {
	return &model.RuleSet{
		FieldWeights: model.DefaultFieldWeights(),
		Categories: map[model.Category]model.CategoryRule{
			model.CategoryGame:   {IncludeTokens: []string{"game", "게임"}, ExcludeTokens: []string{"sponsored"}},
			model.CategoryReview: {IncludeTokens: []string{"review", "리뷰"}},
		},
	}
}

func newTestClassifier(priors PriorSource, overrides model.Overrides) *Classifier {
	return New(testRules(), priors, overrides, DefaultConfig())
}

func TestScoreItem_WeightsSumToOne(t *testing.T) {
	c := newTestClassifier(newFakePriors(), nil)

	weights := c.ScoreItem(model.Item{
		VideoID:   "v1",
		Title:     "Game Review 2024",
		ChannelID: "UCx",
		ViewCount: 1000,
	})

	if len(weights) != 2 {
		t.Fatalf("weights = %v, want both categories", weights)
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("weights sum = %.9f, want 1.0", sum)
	}
	// Identical content scores and neutral priors: an even split.
	if math.Abs(weights[model.CategoryGame]-0.5) > 1e-9 {
		t.Errorf("game weight = %.4f, want 0.5", weights[model.CategoryGame])
	}
}

func TestScoreItem_NoMatchIsEmpty(t *testing.T) {
	c := newTestClassifier(newFakePriors(), nil)

	weights := c.ScoreItem(model.Item{
		VideoID:   "v1",
		Title:     "오늘의 요리",
		ChannelID: "UCx",
	})
	if weights != nil {
		t.Errorf("weights = %v, want nil for unmatched item", weights)
	}
}

func TestScoreItem_ExcludeTokenSoftPenalty(t *testing.T) {
	priors := newFakePriors()
	c := newTestClassifier(priors, nil)

	clean := c.ScoreItem(model.Item{Title: "게임 game news", ChannelID: "UCa"})
	penalized := c.ScoreItem(model.Item{Title: "게임 game news sponsored", ChannelID: "UCb"})

	// Only the game category matches either item, so both normalize to
	// weight 1.0 for game: the penalty suppresses, it does not exclude.
	if penalized == nil {
		t.Fatalf("penalized item excluded entirely, want soft suppression")
	}
	if math.Abs(clean[model.CategoryGame]-1.0) > 1e-9 || math.Abs(penalized[model.CategoryGame]-1.0) > 1e-9 {
		t.Errorf("single-category weights = %.3f / %.3f, want 1.0 each",
			clean[model.CategoryGame], penalized[model.CategoryGame])
	}
}

func TestScoreItem_PenaltyShiftsMultiLabelSplit(t *testing.T) {
	c := newTestClassifier(newFakePriors(), nil)

	// Both categories hit once in the title; the exclude token scales the
	// game side by NegPenalty, so review must dominate 1 : 0.4.
	weights := c.ScoreItem(model.Item{
		Title:     "game review sponsored",
		ChannelID: "UCx",
	})

	wantGame := 0.4 / 1.4
	if math.Abs(weights[model.CategoryGame]-wantGame) > 1e-9 {
		t.Errorf("game weight = %.4f, want %.4f", weights[model.CategoryGame], wantGame)
	}
	if math.Abs(weights[model.CategoryGame]+weights[model.CategoryReview]-1.0) > 1e-9 {
		t.Errorf("weights do not sum to 1: %v", weights)
	}
}

func TestBoostOf_NeutralForUnknownChannel(t *testing.T) {
	c := newTestClassifier(newFakePriors(), nil)

	if got := c.BoostOf("UCnever-seen", model.CategoryGame); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("boost for unknown channel = %.4f, want 1.0", got)
	}
}

func TestBoostOf_AlwaysWithinClampRange(t *testing.T) {
	priors := newFakePriors()
	priors.hits["UCgamer"] = map[model.Category]int{model.CategoryGame: 100}
	priors.totals["UCgamer"] = 100
	priors.hits["UCmixed"] = map[model.Category]int{model.CategoryGame: 3, model.CategoryReview: 2}
	priors.totals["UCmixed"] = 5

	c := newTestClassifier(priors, nil)
	cfg := DefaultConfig()

	for _, channel := range []string{"UCgamer", "UCmixed", "UCnever-seen"} {
		for _, cat := range []model.Category{model.CategoryGame, model.CategoryReview} {
			got := c.BoostOf(channel, cat)
			if got < cfg.MinBoost || got > cfg.MaxBoost {
				t.Errorf("BoostOf(%s, %s) = %.4f, outside [%.1f, %.1f]",
					channel, cat, got, cfg.MinBoost, cfg.MaxBoost)
			}
		}
	}

	// A channel with an overwhelming single-category history pins to the
	// clamp edges.
	if got := c.BoostOf("UCgamer", model.CategoryGame); got != cfg.MaxBoost {
		t.Errorf("dominant category boost = %.4f, want clamp max %.1f", got, cfg.MaxBoost)
	}
	if got := c.BoostOf("UCgamer", model.CategoryReview); got != cfg.MinBoost {
		t.Errorf("absent category boost = %.4f, want clamp min %.1f", got, cfg.MinBoost)
	}
}

func TestBoostOf_HardOverrideReplaces(t *testing.T) {
	overrides := model.Overrides{
		"UCpinned": {model.CategoryGame: true},
	}
	cfg := DefaultConfig()
	cfg.OverrideMode = OverrideHard
	cfg.OverridePosBoost = 1.3
	cfg.OverrideNegBoost = 0.7
	c := New(testRules(), newFakePriors(), overrides, cfg)

	if got := c.BoostOf("UCpinned", model.CategoryGame); got != 1.3 {
		t.Errorf("member boost = %.2f, want 1.3", got)
	}
	if got := c.BoostOf("UCpinned", model.CategoryReview); got != 0.7 {
		t.Errorf("non-member boost = %.2f, want 0.7", got)
	}
	// Other channels keep the learned value.
	if got := c.BoostOf("UCother", model.CategoryGame); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("unpinned channel boost = %.2f, want 1.0", got)
	}
}

func TestBoostOf_SoftOverrideClamps(t *testing.T) {
	overrides := model.Overrides{
		"UCpinned": {model.CategoryGame: true},
	}
	cfg := DefaultConfig()
	cfg.OverridePosBoost = 1.2
	cfg.OverrideNegBoost = 0.8
	c := New(testRules(), newFakePriors(), overrides, cfg)

	// Neutral learned boost (1.0) is lifted to at least 1.2 for the pinned
	// category and capped at 0.8 for everything else.
	if got := c.BoostOf("UCpinned", model.CategoryGame); got != 1.2 {
		t.Errorf("member boost = %.2f, want raised to 1.2", got)
	}
	if got := c.BoostOf("UCpinned", model.CategoryReview); got != 0.8 {
		t.Errorf("non-member boost = %.2f, want capped at 0.8", got)
	}
}

func TestScoreItem_PriorLearningOnConfidentTop(t *testing.T) {
	priors := newFakePriors()
	c := newTestClassifier(priors, nil)

	// Title and tags both saturate for game: content = 0.45 + 0.25 = 0.70,
	// exactly at the confidence threshold.
	c.ScoreItem(model.Item{
		VideoID:   "v1",
		Title:     "게임 game play",
		Tags:      []string{"game", "게임"},
		ChannelID: "UCx",
	})

	if len(priors.recorded) != 1 {
		t.Fatalf("recorded %d hits, want 1", len(priors.recorded))
	}
	if priors.recorded[0].channel != "UCx" || priors.recorded[0].cat != model.CategoryGame {
		t.Errorf("recorded = %+v, want UCx/game", priors.recorded[0])
	}
}

func TestScoreItem_NoLearningBelowConfidence(t *testing.T) {
	priors := newFakePriors()
	c := newTestClassifier(priors, nil)

	// Single title hit: content = 0.45 * 0.5 = 0.225, well below 0.70.
	c.ScoreItem(model.Item{
		VideoID:   "v1",
		Title:     "game play",
		ChannelID: "UCx",
	})

	if len(priors.recorded) != 0 {
		t.Errorf("recorded %d hits below confidence, want 0", len(priors.recorded))
	}
}

func TestScoreItem_NoLearningWithoutChannel(t *testing.T) {
	priors := newFakePriors()
	c := newTestClassifier(priors, nil)

	c.ScoreItem(model.Item{
		VideoID: "v1",
		Title:   "게임 game play",
		Tags:    []string{"game", "게임"},
	})

	if len(priors.recorded) != 0 {
		t.Errorf("recorded a hit for an item with no channel id")
	}
}

func TestScoreItem_PriorTiltsWeights(t *testing.T) {
	priors := newFakePriors()
	priors.hits["UCgamer"] = map[model.Category]int{model.CategoryGame: 50}
	priors.totals["UCgamer"] = 50
	c := newTestClassifier(priors, nil)

	item := model.Item{Title: "Game Review 2024", ChannelID: "UCgamer"}
	weights := c.ScoreItem(item)

	// Equal content scores, but the channel's game-heavy history must tilt
	// the split: boost 1.4 vs 0.6 gives 0.7 / 0.3.
	if weights[model.CategoryGame] <= weights[model.CategoryReview] {
		t.Fatalf("game weight %.3f not above review %.3f despite prior",
			weights[model.CategoryGame], weights[model.CategoryReview])
	}
	if math.Abs(weights[model.CategoryGame]-0.7) > 1e-6 {
		t.Errorf("game weight = %.4f, want 0.7", weights[model.CategoryGame])
	}
}
