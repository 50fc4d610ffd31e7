package repository

import (
	"context"

	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
)

// RawInfoRepository 人事落地表只读访问接口
type RawInfoRepository interface {
	ListDepartments(ctx context.Context) ([]model.RawDepartment, error)
	ListTeachers(ctx context.Context) ([]model.RawTeacher, error)
	GetDepartmentByRawID(ctx context.Context, rawID string) (*model.RawDepartment, error)
}

// rawInfoRepo RawInfoRepository 的 GORM 实现
type rawInfoRepo struct {
	db *gorm.DB
}

// NewRawInfoRepo 创建 RawInfoRepository 实例
func NewRawInfoRepo(db *gorm.DB) RawInfoRepository {
	return &rawInfoRepo{db: db}
}

func (r *rawInfoRepo) ListDepartments(ctx context.Context) ([]model.RawDepartment, error) {
	var rows []model.RawDepartment
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *rawInfoRepo) ListTeachers(ctx context.Context) ([]model.RawTeacher, error) {
	var rows []model.RawTeacher
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *rawInfoRepo) GetDepartmentByRawID(ctx context.Context, rawID string) (*model.RawDepartment, error) {
	var row model.RawDepartment
	err := r.db.WithContext(ctx).
		Where("raw_id = ?", rawID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
