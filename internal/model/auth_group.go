package model

import "fmt"

// 权限组角色层级
const (
	// GroupRoleAdmin 部门管理员
	GroupRoleAdmin = "管理员"
	// GroupRoleMember 专任教师（普通成员）
	GroupRoleMember = "专任教师"
)

// AuthGroup 权限组表 — 对应 auth_groups
// 组身份由 (department_id, role) 唯一确定；DisplayName 仅作展示键
// （"{部门名}-{单位号}-{角色}"），部门改名只重写展示键，不影响组身份、
// 成员与授权。
type AuthGroup struct {
	GroupID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"group_id"`
	DepartmentID string `gorm:"type:uuid;not null;uniqueIndex:uk_auth_groups_dept_role" json:"department_id"`
	Role         string `gorm:"type:varchar(20);not null;uniqueIndex:uk_auth_groups_dept_role" json:"role"`
	DisplayName  string `gorm:"type:varchar(100);not null"                           json:"display_name"`
	BaseModel
}

// TableName 指定表名
func (AuthGroup) TableName() string { return "auth_groups" }

// GroupDisplayName 生成权限组展示键
func GroupDisplayName(departmentName, rawDepartmentID, role string) string {
	return fmt.Sprintf("%s-%s-%s", departmentName, rawDepartmentID, role)
}

// UserGroup 用户-权限组成员关系 — 对应 user_groups
type UserGroup struct {
	UserGroupID uint   `gorm:"primaryKey;autoIncrement"                      json:"user_group_id"`
	UserID      string `gorm:"type:uuid;not null;uniqueIndex:uk_user_groups" json:"user_id"`
	GroupID     string `gorm:"type:uuid;not null;uniqueIndex:uk_user_groups" json:"group_id"`
	BaseModel
}

// TableName 指定表名
func (UserGroup) TableName() string { return "user_groups" }
