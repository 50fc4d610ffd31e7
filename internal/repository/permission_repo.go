package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tmsftt/backend/internal/model"
)

// PermissionRepository 授权数据访问接口
// 所有写入均为幂等 upsert：同一 (主体, 模型, 对象, 动作) 重复授权不产生新行
type PermissionRepository interface {
	AddGroupModelPermission(ctx context.Context, perm *model.GroupModelPermission) error
	AddUserObjectPermission(ctx context.Context, perm *model.UserObjectPermission) error
	AddGroupObjectPermission(ctx context.Context, perm *model.GroupObjectPermission) error
	ListGroupModelPermissions(ctx context.Context, groupID string) ([]model.GroupModelPermission, error)
	ListUserObjectActions(ctx context.Context, userID, modelName, objectID string) ([]string, error)
	ListGroupObjectActions(ctx context.Context, groupID, modelName, objectID string) ([]string, error)
}

// permissionRepo PermissionRepository 的 GORM 实现
type permissionRepo struct {
	db *gorm.DB
}

// NewPermissionRepo 创建 PermissionRepository 实例
func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) AddGroupModelPermission(ctx context.Context, perm *model.GroupModelPermission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(perm).Error
}

func (r *permissionRepo) AddUserObjectPermission(ctx context.Context, perm *model.UserObjectPermission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(perm).Error
}

func (r *permissionRepo) AddGroupObjectPermission(ctx context.Context, perm *model.GroupObjectPermission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(perm).Error
}

func (r *permissionRepo) ListGroupModelPermissions(ctx context.Context, groupID string) ([]model.GroupModelPermission, error) {
	var perms []model.GroupModelPermission
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Find(&perms).Error
	return perms, err
}

func (r *permissionRepo) ListUserObjectActions(ctx context.Context, userID, modelName, objectID string) ([]string, error) {
	var actions []string
	err := r.db.WithContext(ctx).
		Model(&model.UserObjectPermission{}).
		Where("user_id = ? AND model = ? AND object_id = ?", userID, modelName, objectID).
		Pluck("action", &actions).Error
	return actions, err
}

func (r *permissionRepo) ListGroupObjectActions(ctx context.Context, groupID, modelName, objectID string) ([]string, error) {
	var actions []string
	err := r.db.WithContext(ctx).
		Model(&model.GroupObjectPermission{}).
		Where("group_id = ? AND model = ? AND object_id = ?", groupID, modelName, objectID).
		Pluck("action", &actions).Error
	return actions, err
}
