package repository

import (
	"go-pos-engine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReturnRepository interface {
	Create(tx *gorm.DB, ret *model.Return) error
	FindAll(limit, offset int) ([]model.Return, error)
	FindByID(id uuid.UUID) (*model.Return, error)
	FindBySaleID(saleID uuid.UUID) ([]model.Return, error)
}

type returnRepo struct {
	db *gorm.DB
}

func NewReturnRepo(db *gorm.DB) ReturnRepository {
	return &returnRepo{db}
}

func (r *returnRepo) Create(tx *gorm.DB, ret *model.Return) error {
	return tx.Create(ret).Error
}

func (r *returnRepo) FindAll(limit, offset int) ([]model.Return, error) {
	var returns []model.Return
	err := r.db.Preload("Lines").
		Order("occurred_at DESC").
		Limit(limit).Offset(offset).
		Find(&returns).Error
	return returns, err
}

func (r *returnRepo) FindByID(id uuid.UUID) (*model.Return, error) {
	var ret model.Return
	if err := r.db.Preload("Lines").Preload("Sale").First(&ret, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *returnRepo) FindBySaleID(saleID uuid.UUID) ([]model.Return, error) {
	var returns []model.Return
	err := r.db.Preload("Lines").
		Where("sale_id = ?", saleID).
		Order("occurred_at ASC").
		Find(&returns).Error
	return returns, err
}
