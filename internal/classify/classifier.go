package classify

import (
	"math"
	"strings"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

// NegPenalty is multiplied into a category's aggregate score when any
// exclude token matches in any field. Soft suppression, not hard exclusion.
const NegPenalty = 0.4

// Override modes.
const (
	OverrideSoft = "soft"
	OverrideHard = "hard"
)

// Config holds the classifier's tuning knobs.
type Config struct {
	Alpha            float64 // Dirichlet smoothing strength for the channel prior
	MinBoost         float64 // lower clamp on the prior boost
	MaxBoost         float64 // upper clamp on the prior boost
	Confidence       float64 // unboosted top-score threshold for prior learning
	OverrideMode     string  // OverrideSoft or OverrideHard
	OverridePosBoost float64 // boost constant for channels pinned to a category
	OverrideNegBoost float64 // boost constant for the categories a pinned channel is not in
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Alpha:            20,
		MinBoost:         0.6,
		MaxBoost:         1.4,
		Confidence:       0.70,
		OverrideMode:     OverrideSoft,
		OverridePosBoost: 1.4,
		OverrideNegBoost: 0.6,
	}
}

// PriorSource is the per-channel counter store the classifier reads boosts
// from and records confident hits into.
type PriorSource interface {
	Get(channelID string) (hits map[model.Category]int, total int)
	RecordHit(channelID string, cat model.Category)
}

// Classifier scores items against the category rules, applies the learned
// per-channel prior, and emits a normalized multi-label weight distribution.
type Classifier struct {
	rules     *model.RuleSet
	priors    PriorSource
	overrides model.Overrides
	cfg       Config

	cats []model.Category
	p0   float64 // uniform baseline, 1/|categories|
}

// New creates a Classifier. overrides may be nil.
func New(rules *model.RuleSet, priors PriorSource, overrides model.Overrides, cfg Config) *Classifier {
	cats := rules.RuleCategories()
	return &Classifier{
		rules:     rules,
		priors:    priors,
		overrides: overrides,
		cfg:       cfg,
		cats:      cats,
		p0:        1 / float64(len(cats)),
	}
}

// normFields holds the item's text fields in normalized form, computed once
// per item.
type normFields struct {
	title       string
	tags        string
	description string
	channel     string
}

func newNormFields(item model.Item) normFields {
	return normFields{
		title:       Normalize(item.Title),
		tags:        Normalize(strings.Join(item.Tags, " ")),
		description: Normalize(item.Description),
		channel:     Normalize(item.ChannelTitle),
	}
}

// contentScore aggregates the per-field saturating scores with the
// configured field weights.
func (c *Classifier) contentScore(f normFields, include []string) float64 {
	w := c.rules.FieldWeights
	return w.Title*fieldScore(f.title, include) +
		w.Tags*fieldScore(f.tags, include) +
		w.Description*fieldScore(f.description, include) +
		w.Channel*fieldScore(f.channel, include)
}

// hasNegative reports whether any exclude token matches in any field.
func hasNegative(f normFields, exclude []string) bool {
	if len(exclude) == 0 {
		return false
	}
	return countHits(f.title, exclude)+
		countHits(f.tags, exclude)+
		countHits(f.description, exclude)+
		countHits(f.channel, exclude) > 0
}

// BoostOf computes the channel's prior boost for one category: a
// Bayesian-smoothed hit-rate estimate relative to the uniform baseline,
// clamped to [MinBoost, MaxBoost]. 1.0 is neutral. Manual overrides replace
// (hard mode) or clamp (soft mode) the learned value.
func (c *Classifier) BoostOf(channelID string, cat model.Category) float64 {
	hits, total := c.priors.Get(channelID)

	prior := (float64(hits[cat]) + c.cfg.Alpha*c.p0) / (float64(total) + c.cfg.Alpha)
	boost := prior / c.p0
	if math.IsNaN(boost) || math.IsInf(boost, 0) || boost <= 0 {
		boost = 1.0
	}
	boost = math.Max(c.cfg.MinBoost, math.Min(c.cfg.MaxBoost, boost))

	if pinned, ok := c.overrides[channelID]; ok {
		member := pinned[cat]
		switch c.cfg.OverrideMode {
		case OverrideHard:
			if member {
				boost = c.cfg.OverridePosBoost
			} else {
				boost = c.cfg.OverrideNegBoost
			}
		default: // soft
			if member {
				boost = math.Max(boost, c.cfg.OverridePosBoost)
			} else {
				boost = math.Min(boost, c.cfg.OverrideNegBoost)
			}
		}
	}
	return boost
}

// ScoreItem scores one item against every category rule and returns the
// normalized multi-label weight distribution. The map is nil when nothing
// scored (item contributes nothing to aggregation). When the top unboosted
// content score clears the confidence threshold, the channel's prior is
// bumped for that category as a side effect.
func (c *Classifier) ScoreItem(item model.Item) map[model.Category]float64 {
	f := newNormFields(item)

	content := make(map[model.Category]float64, len(c.cats))
	for _, cat := range c.cats {
		rule := c.rules.Categories[cat]
		s := c.contentScore(f, rule.IncludeTokens)
		if hasNegative(f, rule.ExcludeTokens) {
			s *= NegPenalty
		}
		content[cat] = s
	}

	boosted := make(map[model.Category]float64, len(c.cats))
	var sum float64
	for _, cat := range c.cats {
		s := content[cat]
		if s <= 0 {
			continue
		}
		sb := s * c.BoostOf(item.ChannelID, cat)
		boosted[cat] = sb
		sum += sb
	}
	if sum <= 0 {
		return nil
	}

	weights := make(map[model.Category]float64, len(boosted))
	for cat, sb := range boosted {
		weights[cat] = sb / sum
	}

	// Learning uses the unboosted scores so the prior cannot feed itself.
	var topCat model.Category
	var topScore float64
	for _, cat := range c.cats {
		if content[cat] > topScore {
			topScore = content[cat]
			topCat = cat
		}
	}
	if item.ChannelID != "" && topCat != "" && topScore >= c.cfg.Confidence {
		c.priors.RecordHit(item.ChannelID, topCat)
	}

	return weights
}
