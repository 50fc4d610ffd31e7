package repository

import (
	"context"

	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ListByDepartmentIDs(ctx context.Context, departmentIDs []string) ([]model.User, error)
	ListByAdministrativeDepartment(ctx context.Context, departmentID string) ([]model.User, error)
	DetachDepartment(ctx context.Context, userIDs []string) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) ListByDepartmentIDs(ctx context.Context, departmentIDs []string) ([]model.User, error) {
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("department_id IN ?", departmentIDs).
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListByAdministrativeDepartment(ctx context.Context, departmentID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("administrative_department_id = ?", departmentID).
		Find(&users).Error
	return users, err
}

// DetachDepartment 将用户与部门解绑（等待下一轮用户同步重新归属）
func (r *userRepo) DetachDepartment(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id IN ?", userIDs).
		Updates(map[string]interface{}{
			"department_id":                nil,
			"administrative_department_id": nil,
		}).Error
}
