package repository

import (
	"errors"

	"go-pos-engine/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OverrideRepository persists the single throttle row. Keeping the state in
// the store (and not in process memory) keeps lockouts correct across
// multiple service instances.
type OverrideRepository interface {
	Get() (*model.OverrideThrottle, error)
	LockRow(tx *gorm.DB) (*model.OverrideThrottle, error)
	Save(tx *gorm.DB, t *model.OverrideThrottle) error
	Seed() error
}

type overrideRepo struct {
	db *gorm.DB
}

func NewOverrideRepo(db *gorm.DB) OverrideRepository {
	return &overrideRepo{db}
}

func (r *overrideRepo) Get() (*model.OverrideThrottle, error) {
	var t model.OverrideThrottle
	if err := r.db.First(&t, model.OverrideThrottleRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.OverrideThrottle{ID: model.OverrideThrottleRowID}, nil
		}
		return nil, err
	}
	return &t, nil
}

// LockRow takes the FOR UPDATE lock every validation attempt runs under, so
// concurrent attempts near the lockout threshold serialize.
func (r *overrideRepo) LockRow(tx *gorm.DB) (*model.OverrideThrottle, error) {
	var t model.OverrideThrottle
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, model.OverrideThrottleRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t = model.OverrideThrottle{ID: model.OverrideThrottleRowID}
		if err := tx.Create(&t).Error; err != nil {
			return nil, err
		}
		return r.LockRow(tx)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *overrideRepo) Save(tx *gorm.DB, t *model.OverrideThrottle) error {
	return tx.Save(t).Error
}

// Seed creates the singleton row if it does not exist yet.
func (r *overrideRepo) Seed() error {
	t := model.OverrideThrottle{ID: model.OverrideThrottleRowID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&t).Error
}
