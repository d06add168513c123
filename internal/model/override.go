package model

import "time"

// OverrideThrottleRowID is the primary key of the single throttle row.
const OverrideThrottleRowID uint = 1

// OverrideThrottle is the process-wide state guarding the price-override
// code. One row; every attempt mutates it under a row lock so the lockout
// boundary cannot be raced past. The scope is the feature as a whole, not
// per user: one bad actor locking out every operator is the accepted
// trade-off.
type OverrideThrottle struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	FailedAttempts int        `gorm:"not null;default:0" json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Locked reports whether the throttle is in lockout at the given instant.
func (t *OverrideThrottle) Locked(now time.Time) bool {
	return t.LockedUntil != nil && now.Before(*t.LockedUntil)
}

// RetryAfter is the whole seconds remaining in the lockout, rounded up so a
// caller never retries early. Zero when not locked.
func (t *OverrideThrottle) RetryAfter(now time.Time) int {
	if !t.Locked(now) {
		return 0
	}
	d := t.LockedUntil.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)
	return secs
}
