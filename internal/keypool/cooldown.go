package keypool

import "time"

// CooldownPolicy decides how long a credential sits out of rotation once its
// consecutive quota failures reach the threshold.
type CooldownPolicy interface {
	Until(now time.Time) time.Time
}

// FixedCooldown benches a credential for a fixed duration.
type FixedCooldown time.Duration

func (d FixedCooldown) Until(now time.Time) time.Time {
	return now.Add(time.Duration(d))
}

// DailyResetCooldown benches a credential until the next occurrence of the
// given UTC hour, matching providers that restore quota at a fixed daily
// reset instant.
type DailyResetCooldown struct {
	Hour int // 0-23, UTC
}

func (d DailyResetCooldown) Until(now time.Time) time.Time {
	now = now.UTC()
	reset := time.Date(now.Year(), now.Month(), now.Day(), d.Hour, 0, 0, 0, time.UTC)
	if !reset.After(now) {
		reset = reset.AddDate(0, 0, 1)
	}
	return reset
}
