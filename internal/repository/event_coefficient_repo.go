package repository

import (
	"context"

	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
)

// EventCoefficientRepository 活动系数数据访问接口
type EventCoefficientRepository interface {
	Create(ctx context.Context, coefficient *model.EventCoefficient) error
	GetByID(ctx context.Context, id string) (*model.EventCoefficient, error)
	ListByCampusEvent(ctx context.Context, campusEventID string) ([]model.EventCoefficient, error)
}

// eventCoefficientRepo EventCoefficientRepository 的 GORM 实现
type eventCoefficientRepo struct {
	db *gorm.DB
}

// NewEventCoefficientRepo 创建 EventCoefficientRepository 实例
func NewEventCoefficientRepo(db *gorm.DB) EventCoefficientRepository {
	return &eventCoefficientRepo{db: db}
}

func (r *eventCoefficientRepo) Create(ctx context.Context, coefficient *model.EventCoefficient) error {
	return r.db.WithContext(ctx).Create(coefficient).Error
}

func (r *eventCoefficientRepo) GetByID(ctx context.Context, id string) (*model.EventCoefficient, error) {
	var coefficient model.EventCoefficient
	err := r.db.WithContext(ctx).
		Where("event_coefficient_id = ?", id).
		First(&coefficient).Error
	if err != nil {
		return nil, err
	}
	return &coefficient, nil
}

func (r *eventCoefficientRepo) ListByCampusEvent(ctx context.Context, campusEventID string) ([]model.EventCoefficient, error) {
	var coefficients []model.EventCoefficient
	err := r.db.WithContext(ctx).
		Where("campus_event_id = ?", campusEventID).
		Order("role ASC").
		Find(&coefficients).Error
	return coefficients, err
}
