package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/apperrors"
)

// ErrDepartmentChainBroken 用户所属部门的父链在数据库中不完整
var ErrDepartmentChainBroken = apperrors.Integrity("部门隶属链不完整")

// rolePersonal 授权配置表中的个人能力列。
// 个人能力不建权限组，直接落为用户对象级授权。
const rolePersonal = "个人权限"

// modelPermsTable 固定授权配置表：模型 → 角色 → 能力动作集。
// 部门建组时按"管理员/专任教师"列一次性写入模型级授权；
// 对象创建时按对应列写入对象级授权。表中没有的即不授予（默认拒绝）。
var modelPermsTable = map[string]map[string][]string{
	model.ModelCampusEvent: {
		model.GroupRoleAdmin:  {model.ActionAdd, model.ActionView, model.ActionChange, model.ActionDelete, model.ActionReview},
		model.GroupRoleMember: {model.ActionView},
	},
	model.ModelOffCampusEvent: {
		model.GroupRoleAdmin:  {model.ActionView},
		model.GroupRoleMember: {model.ActionView},
	},
	model.ModelEnrollment: {
		rolePersonal: {model.ActionAdd, model.ActionView, model.ActionDelete},
	},
	model.ModelRecord: {
		model.GroupRoleAdmin: {model.ActionBatchAdd, model.ActionView, model.ActionReview},
		rolePersonal:         {model.ActionAdd, model.ActionView, model.ActionChange},
	},
	model.ModelCampusEventFeedback: {
		model.GroupRoleAdmin: {model.ActionView},
		rolePersonal:         {model.ActionAdd, model.ActionView},
	},
}

// PermissionService 授权业务接口。
// 所有方法接收事务内的 Repository 聚合，授权写入与触发它的
// 业务写入处于同一事务。
type PermissionService interface {
	// AssignModelPermsForGroup 按授权配置表为权限组写入模型级授权
	AssignModelPermsForGroup(ctx context.Context, tx *repository.Repository, group *model.AuthGroup) error
	// AssignObjectPermissions 对象创建后授权：个人能力授予属主本人，
	// 管理能力沿属主部门父链授予每个祖先部门的管理员组
	AssignObjectPermissions(ctx context.Context, tx *repository.Repository, owner *model.User, modelName, objectID string) error
	// HasObjectPerm 判断用户对对象是否具备指定能力（本人授权或经由权限组）
	HasObjectPerm(ctx context.Context, tx *repository.Repository, userID, modelName, objectID, action string) (bool, error)
}

type permissionService struct {
	logger *zap.Logger
}

// NewPermissionService 创建 PermissionService 实例
func NewPermissionService(logger *zap.Logger) PermissionService {
	return &permissionService{logger: logger}
}

// ────────────────────── AssignModelPermsForGroup ──────────────────────

func (s *permissionService) AssignModelPermsForGroup(ctx context.Context, tx *repository.Repository, group *model.AuthGroup) error {
	for modelName, roleActions := range modelPermsTable {
		for _, action := range roleActions[group.Role] {
			perm := &model.GroupModelPermission{
				GroupID: group.GroupID,
				Model:   modelName,
				Action:  action,
			}
			if err := tx.Permission.AddGroupModelPermission(ctx, perm); err != nil {
				s.logger.Error("写入模型级授权失败",
					zap.String("group_id", group.GroupID),
					zap.String("model", modelName),
					zap.Error(err))
				return err
			}
		}
	}
	return nil
}

// ────────────────────── AssignObjectPermissions ──────────────────────

func (s *permissionService) AssignObjectPermissions(ctx context.Context, tx *repository.Repository, owner *model.User, modelName, objectID string) error {
	roleActions, ok := modelPermsTable[modelName]
	if !ok {
		return nil
	}

	// 个人能力授予属主
	for _, action := range roleActions[rolePersonal] {
		perm := &model.UserObjectPermission{
			UserID:   owner.UserID,
			Model:    modelName,
			ObjectID: objectID,
			Action:   action,
		}
		if err := tx.Permission.AddUserObjectPermission(ctx, perm); err != nil {
			s.logger.Error("写入用户对象级授权失败",
				zap.String("user_id", owner.UserID),
				zap.String("model", modelName),
				zap.Error(err))
			return err
		}
	}

	// 管理能力沿父链授予每个祖先部门的管理员组
	adminActions := roleActions[model.GroupRoleAdmin]
	if len(adminActions) == 0 || owner.DepartmentID == nil {
		return nil
	}
	chain, err := s.departmentChain(ctx, tx, *owner.DepartmentID)
	if err != nil {
		return err
	}
	for _, dept := range chain {
		group, err := tx.Group.GetByDepartmentAndRole(ctx, dept.DepartmentID, model.GroupRoleAdmin)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		for _, action := range adminActions {
			perm := &model.GroupObjectPermission{
				GroupID:  group.GroupID,
				Model:    modelName,
				ObjectID: objectID,
				Action:   action,
			}
			if err := tx.Permission.AddGroupObjectPermission(ctx, perm); err != nil {
				s.logger.Error("写入组对象级授权失败",
					zap.String("group_id", group.GroupID),
					zap.String("model", modelName),
					zap.Error(err))
				return err
			}
		}
	}
	return nil
}

// departmentChain 自下而上收集部门父链（含起点与根），带环路守卫
func (s *permissionService) departmentChain(ctx context.Context, tx *repository.Repository, departmentID string) ([]*model.Department, error) {
	var chain []*model.Department
	visited := make(map[string]bool)
	currentID := departmentID
	for {
		if visited[currentID] {
			return nil, ErrOrgTreeCycle
		}
		visited[currentID] = true
		dept, err := tx.Department.GetByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentChainBroken
			}
			return nil, err
		}
		chain = append(chain, dept)
		if dept.SuperDepartmentID == nil {
			return chain, nil
		}
		currentID = *dept.SuperDepartmentID
	}
}

// ────────────────────── HasObjectPerm ──────────────────────

func (s *permissionService) HasObjectPerm(ctx context.Context, tx *repository.Repository, userID, modelName, objectID, action string) (bool, error) {
	actions, err := tx.Permission.ListUserObjectActions(ctx, userID, modelName, objectID)
	if err != nil {
		return false, err
	}
	if containsString(actions, action) {
		return true, nil
	}

	groups, err := tx.Group.ListUserGroups(ctx, userID)
	if err != nil {
		return false, err
	}
	for i := range groups {
		groupActions, err := tx.Permission.ListGroupObjectActions(ctx, groups[i].GroupID, modelName, objectID)
		if err != nil {
			return false, err
		}
		if containsString(groupActions, action) {
			return true, nil
		}
	}
	return false, nil
}
