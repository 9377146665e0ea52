package model

import (
	"encoding/json"
	"os"
)

// Overrides maps channel IDs to the category set a reviewer pinned for that
// channel. Read-only to the scoring core; when present for a channel it
// clamps or replaces the learned prior boost.
type Overrides map[string]map[Category]bool

// LoadOverrides reads the manual override file. The file is optional: a
// missing or unreadable file yields nil (no overrides). Shape on disk is
// {"<channelId>": ["<category>", ...], ...}; unknown category keys are
// dropped silently so stale review data cannot break a run.
func LoadOverrides(path string) Overrides {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var flat map[string][]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil
	}

	out := make(Overrides, len(flat))
	for channelID, keys := range flat {
		set := make(map[Category]bool, len(keys))
		for _, k := range keys {
			if cat, err := ParseCategory(k); err == nil {
				set[cat] = true
			}
		}
		if len(set) > 0 {
			out[channelID] = set
		}
	}
	return out
}
