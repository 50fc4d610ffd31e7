package model

// 受权限体系管辖的领域模型名
const (
	ModelCampusEvent         = "campusevent"
	ModelOffCampusEvent      = "offcampusevent"
	ModelEnrollment          = "enrollment"
	ModelRecord              = "record"
	ModelCampusEventFeedback = "campuseventfeedback"
)

// 能力动作
const (
	ActionAdd      = "add"
	ActionView     = "view"
	ActionChange   = "change"
	ActionDelete   = "delete"
	ActionReview   = "review"
	ActionBatchAdd = "batchadd"
)

// GroupModelPermission 权限组的模型级授权 — 对应 group_model_permissions
// 部门建组时一次性写入，默认拒绝：没有授权行即没有能力
type GroupModelPermission struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"                               json:"id"`
	GroupID string `gorm:"type:uuid;not null;uniqueIndex:uk_group_model_perms"    json:"group_id"`
	Model   string `gorm:"type:varchar(40);not null;uniqueIndex:uk_group_model_perms" json:"model"`
	Action  string `gorm:"type:varchar(20);not null;uniqueIndex:uk_group_model_perms" json:"action"`
	BaseModel
}

// TableName 指定表名
func (GroupModelPermission) TableName() string { return "group_model_permissions" }

// UserObjectPermission 用户的对象级授权 — 对应 user_object_permissions
type UserObjectPermission struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"                               json:"id"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:uk_user_object_perms"    json:"user_id"`
	Model    string `gorm:"type:varchar(40);not null;uniqueIndex:uk_user_object_perms" json:"model"`
	ObjectID string `gorm:"type:uuid;not null;uniqueIndex:uk_user_object_perms"    json:"object_id"`
	Action   string `gorm:"type:varchar(20);not null;uniqueIndex:uk_user_object_perms" json:"action"`
	BaseModel
}

// TableName 指定表名
func (UserObjectPermission) TableName() string { return "user_object_permissions" }

// GroupObjectPermission 权限组的对象级授权 — 对应 group_object_permissions
type GroupObjectPermission struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"                                json:"id"`
	GroupID  string `gorm:"type:uuid;not null;uniqueIndex:uk_group_object_perms"    json:"group_id"`
	Model    string `gorm:"type:varchar(40);not null;uniqueIndex:uk_group_object_perms" json:"model"`
	ObjectID string `gorm:"type:uuid;not null;uniqueIndex:uk_group_object_perms"    json:"object_id"`
	Action   string `gorm:"type:varchar(20);not null;uniqueIndex:uk_group_object_perms" json:"action"`
	BaseModel
}

// TableName 指定表名
func (GroupObjectPermission) TableName() string { return "group_object_permissions" }
