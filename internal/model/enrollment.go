package model

// 报名渠道
const (
	EnrollMethodWeb         = 0
	EnrollMethodMobile      = 1
	EnrollMethodQRCode      = 2
	EnrollMethodEmail       = 3
	EnrollMethodAdminImport = 4
)

// Enrollment 活动报名记录表 — 对应 enrollments
// (campus_event_id, user_id) 唯一，重复报名由数据库约束兜底
type Enrollment struct {
	EnrollmentID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"enrollment_id"`
	CampusEventID string `gorm:"type:uuid;not null;uniqueIndex:uk_enrollments"   json:"campus_event_id"`
	UserID        string `gorm:"type:uuid;not null;uniqueIndex:uk_enrollments"   json:"user_id"`
	EnrollMethod  int    `gorm:"not null;default:0"                              json:"enroll_method"`
	BaseModel

	// 关联
	CampusEvent *CampusEvent `gorm:"foreignKey:CampusEventID;references:CampusEventID" json:"campus_event,omitempty"`
	User        *User        `gorm:"foreignKey:UserID;references:UserID"               json:"user,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
