package service

import (
	"crypto/subtle"
	"os"
	"strconv"
	"time"

	"go-pos-engine/internal/model"
	"go-pos-engine/internal/repository"

	"gorm.io/gorm"
)

// OverrideService gates price overrides behind a shared secret code with
// progressive lockout. The state is one row in the store; every attempt
// runs in a transaction holding that row's lock, so the lockout boundary
// cannot be raced past by concurrent attempts.
type OverrideService interface {
	Validate(code string) (*OverrideResult, error)
	Status() (*OverrideStatus, error)
}

type OverrideResult struct {
	OK           bool `json:"ok"`
	Locked       bool `json:"locked,omitempty"`
	RetryAfter   int  `json:"retry_after,omitempty"`
	AttemptsLeft int  `json:"attempts_left"`
}

type OverrideStatus struct {
	Locked       bool `json:"locked"`
	RetryAfter   int  `json:"retry_after,omitempty"`
	AttemptsLeft int  `json:"attempts_left"`
}

// OverrideConfig holds the shared secret and the lockout knobs.
type OverrideConfig struct {
	Code        string
	MaxAttempts int
	Lockout     time.Duration
}

// LoadOverrideConfig reads the override knobs from the environment, with
// the observed defaults (3 attempts, 3 minute lockout).
func LoadOverrideConfig() OverrideConfig {
	cfg := OverrideConfig{
		Code:        os.Getenv("OVERRIDE_CODE"),
		MaxAttempts: 3,
		Lockout:     180 * time.Second,
	}
	if cfg.Code == "" {
		cfg.Code = "123456"
	}
	if v, err := strconv.Atoi(os.Getenv("OVERRIDE_MAX_ATTEMPTS")); err == nil && v > 0 {
		cfg.MaxAttempts = v
	}
	if v, err := strconv.Atoi(os.Getenv("OVERRIDE_LOCKOUT_SECONDS")); err == nil && v > 0 {
		cfg.Lockout = time.Duration(v) * time.Second
	}
	return cfg
}

type overrideService struct {
	overrideRepo repository.OverrideRepository
	db           *gorm.DB
	cfg          OverrideConfig
	now          func() time.Time
}

func NewOverrideService(oRepo repository.OverrideRepository, db *gorm.DB, cfg OverrideConfig) OverrideService {
	return &overrideService{
		overrideRepo: oRepo,
		db:           db,
		cfg:          cfg,
		now:          time.Now,
	}
}

// applyAttempt is the throttle's transition function. It mutates the row
// and reports what the caller should see; persistence is the caller's job.
// Reaching the threshold locks the state and zeroes the counter, so the
// window restarts clean after the lockout expires.
func applyAttempt(t *model.OverrideThrottle, match bool, now time.Time, cfg OverrideConfig) OverrideResult {
	// An expired lockout is cleared before the attempt counts.
	if t.LockedUntil != nil && !t.Locked(now) {
		t.LockedUntil = nil
	}

	if match {
		t.FailedAttempts = 0
		t.LockedUntil = nil
		return OverrideResult{OK: true, AttemptsLeft: cfg.MaxAttempts}
	}

	t.FailedAttempts++
	if t.FailedAttempts >= cfg.MaxAttempts {
		until := now.Add(cfg.Lockout)
		t.LockedUntil = &until
		t.FailedAttempts = 0
		return OverrideResult{Locked: true, RetryAfter: int(cfg.Lockout / time.Second)}
	}
	return OverrideResult{AttemptsLeft: cfg.MaxAttempts - t.FailedAttempts}
}

func (s *overrideService) Validate(code string) (*OverrideResult, error) {
	match := subtle.ConstantTimeCompare([]byte(code), []byte(s.cfg.Code)) == 1

	var result OverrideResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		throttle, err := s.overrideRepo.LockRow(tx)
		if err != nil {
			return err
		}

		now := s.now()
		if throttle.Locked(now) {
			// No attempt is consumed while locked.
			result = OverrideResult{Locked: true, RetryAfter: throttle.RetryAfter(now)}
			return nil
		}

		result = applyAttempt(throttle, match, now, s.cfg)
		return s.overrideRepo.Save(tx, throttle)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Status reports the lock state without spending an attempt, so clients
// can disable input pre-emptively.
func (s *overrideService) Status() (*OverrideStatus, error) {
	throttle, err := s.overrideRepo.Get()
	if err != nil {
		return nil, err
	}

	now := s.now()
	if throttle.Locked(now) {
		return &OverrideStatus{Locked: true, RetryAfter: throttle.RetryAfter(now)}, nil
	}
	return &OverrideStatus{
		Locked:       false,
		AttemptsLeft: s.cfg.MaxAttempts - throttle.FailedAttempts,
	}, nil
}
