package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tmsftt/backend/internal/model"
)

// CampusEventRepository 校内活动数据访问接口
type CampusEventRepository interface {
	Create(ctx context.Context, event *model.CampusEvent) error
	GetByID(ctx context.Context, id string) (*model.CampusEvent, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询活动，
	// 报名容量检查与计数增减必须在持有该锁的事务内进行
	GetByIDForUpdate(ctx context.Context, id string) (*model.CampusEvent, error)
	Update(ctx context.Context, event *model.CampusEvent) error
	List(ctx context.Context) ([]model.CampusEvent, error)
}

// campusEventRepo CampusEventRepository 的 GORM 实现
type campusEventRepo struct {
	db *gorm.DB
}

// NewCampusEventRepo 创建 CampusEventRepository 实例
func NewCampusEventRepo(db *gorm.DB) CampusEventRepository {
	return &campusEventRepo{db: db}
}

func (r *campusEventRepo) Create(ctx context.Context, event *model.CampusEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *campusEventRepo) GetByID(ctx context.Context, id string) (*model.CampusEvent, error) {
	var event model.CampusEvent
	err := r.db.WithContext(ctx).
		Where("campus_event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询活动
func (r *campusEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.CampusEvent, error) {
	var event model.CampusEvent
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("campus_event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *campusEventRepo) Update(ctx context.Context, event *model.CampusEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *campusEventRepo) List(ctx context.Context) ([]model.CampusEvent, error) {
	var events []model.CampusEvent
	err := r.db.WithContext(ctx).
		Order("time DESC").
		Find(&events).Error
	return events, err
}
