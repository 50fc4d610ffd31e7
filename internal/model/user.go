package model

import "time"

// 性别
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// GenderChoicesMap 人事数据源性别文本到枚举的映射
var GenderChoicesMap = map[string]int{
	"男": GenderMale,
	"女": GenderFemale,
}

// User 用户表 — 对应 users
// Username 为职工号（人事数据源的稳定标识）。
// Department 为直接所属单位；AdministrativeDepartment 为冗余缓存的
// 管理单位，祖先部门变动后由同步任务重算。
type User struct {
	UserID                     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username                   string     `gorm:"type:varchar(30);not null;uniqueIndex"          json:"username"`
	FirstName                  string     `gorm:"type:varchar(30)"                               json:"first_name"`
	PasswordHash               string     `gorm:"type:varchar(255)"                              json:"-"`
	Gender                     int        `gorm:"not null;default:0"                             json:"gender"`
	Age                        int        `gorm:"not null;default:0"                             json:"age"`
	OnboardTime                *time.Time `json:"onboard_time,omitempty"`
	TenureStatus               string     `gorm:"type:varchar(40)"                               json:"tenure_status,omitempty"`
	EducationBackground        string     `gorm:"type:varchar(40)"                               json:"education_background,omitempty"`
	TechnicalTitle             string     `gorm:"type:varchar(40)"                               json:"technical_title,omitempty"`
	TeachingType               string     `gorm:"type:varchar(40)"                               json:"teaching_type,omitempty"`
	CellPhoneNumber            string     `gorm:"type:varchar(20)"                               json:"cell_phone_number,omitempty"`
	Email                      string     `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	DepartmentID               *string    `gorm:"type:uuid;index"                                json:"department_id,omitempty"`
	AdministrativeDepartmentID *string    `gorm:"type:uuid;index"                                json:"administrative_department_id,omitempty"`
	BaseModel

	// 关联
	Department               *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID"               json:"department,omitempty"`
	AdministrativeDepartment *Department `gorm:"foreignKey:AdministrativeDepartmentID;references:DepartmentID" json:"administrative_department,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
