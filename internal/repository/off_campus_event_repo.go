package repository

import (
	"context"

	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
)

// OffCampusEventRepository 校外活动数据访问接口
type OffCampusEventRepository interface {
	Create(ctx context.Context, event *model.OffCampusEvent) error
	GetByID(ctx context.Context, id string) (*model.OffCampusEvent, error)
	Update(ctx context.Context, event *model.OffCampusEvent) error
}

// offCampusEventRepo OffCampusEventRepository 的 GORM 实现
type offCampusEventRepo struct {
	db *gorm.DB
}

// NewOffCampusEventRepo 创建 OffCampusEventRepository 实例
func NewOffCampusEventRepo(db *gorm.DB) OffCampusEventRepository {
	return &offCampusEventRepo{db: db}
}

func (r *offCampusEventRepo) Create(ctx context.Context, event *model.OffCampusEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *offCampusEventRepo) GetByID(ctx context.Context, id string) (*model.OffCampusEvent, error) {
	var event model.OffCampusEvent
	err := r.db.WithContext(ctx).
		Where("off_campus_event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *offCampusEventRepo) Update(ctx context.Context, event *model.OffCampusEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}
