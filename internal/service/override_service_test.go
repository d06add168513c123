package service

import (
	"testing"
	"time"

	"go-pos-engine/internal/model"
)

func throttleConfig() OverrideConfig {
	return OverrideConfig{
		Code:        "123456",
		MaxAttempts: 3,
		Lockout:     180 * time.Second,
	}
}

func TestApplyAttemptLocksAtThreshold(t *testing.T) {
	cfg := throttleConfig()
	now := time.Now()
	row := &model.OverrideThrottle{ID: model.OverrideThrottleRowID}

	r1 := applyAttempt(row, false, now, cfg)
	if r1.OK || r1.Locked || r1.AttemptsLeft != 2 {
		t.Fatalf("first miss: %+v", r1)
	}
	r2 := applyAttempt(row, false, now, cfg)
	if r2.Locked || r2.AttemptsLeft != 1 {
		t.Fatalf("second miss: %+v", r2)
	}
	r3 := applyAttempt(row, false, now, cfg)
	if !r3.Locked || r3.RetryAfter != 180 {
		t.Fatalf("third miss: %+v", r3)
	}

	if row.LockedUntil == nil || !row.Locked(now) {
		t.Errorf("row not locked after threshold: %+v", row)
	}
	if row.FailedAttempts != 0 {
		t.Errorf("counter = %d, want 0 after lock", row.FailedAttempts)
	}
}

func TestApplyAttemptMatchResetsCounter(t *testing.T) {
	cfg := throttleConfig()
	now := time.Now()
	row := &model.OverrideThrottle{ID: model.OverrideThrottleRowID, FailedAttempts: 2}

	r := applyAttempt(row, true, now, cfg)
	if !r.OK || r.AttemptsLeft != cfg.MaxAttempts {
		t.Fatalf("match: %+v", r)
	}
	if row.FailedAttempts != 0 || row.LockedUntil != nil {
		t.Errorf("row not reset: %+v", row)
	}
}

func TestApplyAttemptWindowRestartsAfterExpiry(t *testing.T) {
	cfg := throttleConfig()
	now := time.Now()
	expired := now.Add(-time.Second)
	row := &model.OverrideThrottle{ID: model.OverrideThrottleRowID, LockedUntil: &expired}

	// The first miss after expiry starts a fresh window.
	r := applyAttempt(row, false, now, cfg)
	if r.Locked || r.AttemptsLeft != 2 {
		t.Fatalf("miss after expiry: %+v", r)
	}
	if row.LockedUntil != nil {
		t.Errorf("expired lock not cleared: %+v", row)
	}

	// And the correct code after expiry succeeds outright.
	row = &model.OverrideThrottle{ID: model.OverrideThrottleRowID, LockedUntil: &expired}
	r = applyAttempt(row, true, now, cfg)
	if !r.OK {
		t.Fatalf("match after expiry: %+v", r)
	}
}

func TestThrottleLockedAndRetryAfter(t *testing.T) {
	now := time.Now()
	row := &model.OverrideThrottle{ID: model.OverrideThrottleRowID}

	if row.Locked(now) {
		t.Error("zero-value row reports locked")
	}

	until := now.Add(90*time.Second + 500*time.Millisecond)
	row.LockedUntil = &until
	if !row.Locked(now) {
		t.Error("row with future lock reports unlocked")
	}
	// Partial seconds round up so a client never retries early.
	if got := row.RetryAfter(now); got != 91 {
		t.Errorf("RetryAfter = %d, want 91", got)
	}

	past := now.Add(-time.Second)
	row.LockedUntil = &past
	if row.Locked(now) {
		t.Error("row with expired lock reports locked")
	}
	if got := row.RetryAfter(now); got != 0 {
		t.Errorf("RetryAfter on expired lock = %d, want 0", got)
	}
}

func TestLoadOverrideConfigDefaults(t *testing.T) {
	t.Setenv("OVERRIDE_CODE", "")
	t.Setenv("OVERRIDE_MAX_ATTEMPTS", "")
	t.Setenv("OVERRIDE_LOCKOUT_SECONDS", "")

	cfg := LoadOverrideConfig()
	if cfg.Code != "123456" {
		t.Errorf("code = %q, want default", cfg.Code)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("max attempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.Lockout != 180*time.Second {
		t.Errorf("lockout = %s, want 3m0s", cfg.Lockout)
	}
}
