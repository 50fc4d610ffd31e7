package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tmsftt/backend/internal/model"
)

// AuthGroupRepository 权限组与成员关系数据访问接口
type AuthGroupRepository interface {
	Create(ctx context.Context, group *model.AuthGroup) error
	GetByID(ctx context.Context, id string) (*model.AuthGroup, error)
	GetByDepartmentAndRole(ctx context.Context, departmentID, role string) (*model.AuthGroup, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.AuthGroup, error)
	UpdateDisplayName(ctx context.Context, groupID, displayName string) error
	AddUserToGroup(ctx context.Context, userID, groupID string) error
	RemoveUserFromGroup(ctx context.Context, userID, groupID string) error
	RemoveUsersFromGroups(ctx context.Context, userIDs, groupIDs []string) error
	// RemoveUsersFromRole 将一批用户撤出指定角色的全部权限组
	RemoveUsersFromRole(ctx context.Context, userIDs []string, role string) error
	ListUserGroups(ctx context.Context, userID string) ([]model.AuthGroup, error)
	ListGroupUserIDs(ctx context.Context, groupID string) ([]string, error)
}

// authGroupRepo AuthGroupRepository 的 GORM 实现
type authGroupRepo struct {
	db *gorm.DB
}

// NewAuthGroupRepo 创建 AuthGroupRepository 实例
func NewAuthGroupRepo(db *gorm.DB) AuthGroupRepository {
	return &authGroupRepo{db: db}
}

func (r *authGroupRepo) Create(ctx context.Context, group *model.AuthGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *authGroupRepo) GetByID(ctx context.Context, id string) (*model.AuthGroup, error) {
	var group model.AuthGroup
	err := r.db.WithContext(ctx).
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *authGroupRepo) GetByDepartmentAndRole(ctx context.Context, departmentID, role string) (*model.AuthGroup, error) {
	var group model.AuthGroup
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND role = ?", departmentID, role).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *authGroupRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.AuthGroup, error) {
	var groups []model.AuthGroup
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Find(&groups).Error
	return groups, err
}

func (r *authGroupRepo) UpdateDisplayName(ctx context.Context, groupID, displayName string) error {
	return r.db.WithContext(ctx).
		Model(&model.AuthGroup{}).
		Where("group_id = ?", groupID).
		Update("display_name", displayName).Error
}

// AddUserToGroup 幂等添加：重复添加依赖唯一索引静默跳过
func (r *authGroupRepo) AddUserToGroup(ctx context.Context, userID, groupID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserGroup{UserID: userID, GroupID: groupID}).Error
}

func (r *authGroupRepo) RemoveUserFromGroup(ctx context.Context, userID, groupID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&model.UserGroup{}).Error
}

func (r *authGroupRepo) RemoveUsersFromGroups(ctx context.Context, userIDs, groupIDs []string) error {
	if len(userIDs) == 0 || len(groupIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id IN ? AND group_id IN ?", userIDs, groupIDs).
		Delete(&model.UserGroup{}).Error
}

func (r *authGroupRepo) RemoveUsersFromRole(ctx context.Context, userIDs []string, role string) error {
	if len(userIDs) == 0 {
		return nil
	}
	subQuery := r.db.Model(&model.AuthGroup{}).
		Select("group_id").
		Where("role = ?", role)
	return r.db.WithContext(ctx).
		Where("user_id IN ? AND group_id IN (?)", userIDs, subQuery).
		Delete(&model.UserGroup{}).Error
}

func (r *authGroupRepo) ListUserGroups(ctx context.Context, userID string) ([]model.AuthGroup, error) {
	var groups []model.AuthGroup
	err := r.db.WithContext(ctx).
		Joins("JOIN user_groups ON user_groups.group_id = auth_groups.group_id").
		Where("user_groups.user_id = ?", userID).
		Find(&groups).Error
	return groups, err
}

func (r *authGroupRepo) ListGroupUserIDs(ctx context.Context, groupID string) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&model.UserGroup{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
