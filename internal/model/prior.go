package model

import (
	"encoding/json"
	"time"
)

// Meta keys stored beside the per-category counters in the prior file.
const (
	priorTotalKey     = "_total"
	priorUpdatedAtKey = "_updatedAt"
)

// ChannelPrior holds a channel's per-category confident-classification
// counters. Counts only ever increase within and across runs.
type ChannelPrior struct {
	Hits      map[Category]int
	Total     int
	UpdatedAt time.Time
}

// MarshalJSON flattens the record into the persisted shape:
// {"<category>": n, ..., "_total": n, "_updatedAt": "<RFC3339>"}.
func (p ChannelPrior) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Hits)+2)
	for cat, n := range p.Hits {
		flat[string(cat)] = n
	}
	flat[priorTotalKey] = p.Total
	if !p.UpdatedAt.IsZero() {
		flat[priorUpdatedAtKey] = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flattened shape back. Unknown category keys are
// kept out of the counters but do not fail the load; a malformed timestamp
// is treated as unset.
func (p *ChannelPrior) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	p.Hits = make(map[Category]int)
	for key, raw := range flat {
		switch key {
		case priorTotalKey:
			var n int
			if err := json.Unmarshal(raw, &n); err == nil {
				p.Total = n
			}
		case priorUpdatedAtKey:
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					p.UpdatedAt = ts
				}
			}
		default:
			cat, err := ParseCategory(key)
			if err != nil {
				continue
			}
			var n int
			if err := json.Unmarshal(raw, &n); err == nil {
				p.Hits[cat] = n
			}
		}
	}
	return nil
}
