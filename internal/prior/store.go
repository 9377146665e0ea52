package prior

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

// Store is the durable per-channel category-hit counter backing the
// classifier's prior. Single-writer: within one run only the classifier
// mutates it, so there is no locking.
type Store struct {
	path string
	recs map[string]*model.ChannelPrior

	now func() time.Time
}

// NewStore creates a store over the given file path. Call Load before use.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		recs: make(map[string]*model.ChannelPrior),
		now:  time.Now,
	}
}

// Load reads the prior file. A missing or corrupt file yields an empty
// baseline: losing learned priors degrades scoring quality, it must never
// fail the run.
func (s *Store) Load() {
	s.recs = make(map[string]*model.ChannelPrior)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		log.Printf("prior: %s not readable, starting empty: %v", s.path, err)
		return
	}

	var recs map[string]*model.ChannelPrior
	if err := json.Unmarshal(raw, &recs); err != nil {
		log.Printf("prior: %s corrupt, starting empty: %v", s.path, err)
		return
	}
	if recs != nil {
		s.recs = recs
	}
}

// Get returns the channel's per-category hit counts and total. A channel
// with no record yields nil counts and zero total.
func (s *Store) Get(channelID string) (map[model.Category]int, int) {
	rec, ok := s.recs[channelID]
	if !ok {
		return nil, 0
	}
	return rec.Hits, rec.Total
}

// RecordHit bumps the channel's counter for the category and its total.
// Counters are monotonic: nothing ever decrements them.
func (s *Store) RecordHit(channelID string, cat model.Category) {
	rec, ok := s.recs[channelID]
	if !ok {
		rec = &model.ChannelPrior{Hits: make(map[model.Category]int)}
		s.recs[channelID] = rec
	}
	rec.Hits[cat]++
	rec.Total++
	rec.UpdatedAt = s.now().UTC()
}

// Flush writes the store back to disk, creating parent directories as
// needed.
func (s *Store) Flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prior: create dir: %w", err)
	}
	data, err := json.MarshalIndent(s.recs, "", "  ")
	if err != nil {
		return fmt.Errorf("prior: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("prior: write %s: %w", s.path, err)
	}
	return nil
}

// Len returns how many channels have a prior record.
func (s *Store) Len() int {
	return len(s.recs)
}
