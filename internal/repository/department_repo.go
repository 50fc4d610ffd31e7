package repository

import (
	"context"

	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
)

// DepartmentRepository 部门数据访问接口
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByRawID(ctx context.Context, rawID string) (*model.Department, error)
	ListAll(ctx context.Context) ([]model.Department, error)
	ListChildren(ctx context.Context, superID string) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
}

// departmentRepo DepartmentRepository 的 GORM 实现
type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("department_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByRawID(ctx context.Context, rawID string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("raw_department_id = ?", rawID).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) ListAll(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Order("raw_department_id ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) ListChildren(ctx context.Context, superID string) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Where("super_department_id = ?", superID).
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}
