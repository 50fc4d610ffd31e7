package model

// 人事系统落地表。外部抽数任务按固定周期覆盖写入，
// 同步任务只读取，不回写。

// RawDepartment 单位信息落地表 — 对应 raw_departments
type RawDepartment struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"            json:"id"`
	RawID      string `gorm:"type:varchar(20);not null;index"     json:"raw_id"`       // 单位号
	Name       string `gorm:"type:varchar(64);not null"           json:"name"`         // 单位名称
	TypeCode   string `gorm:"type:varchar(20)"                    json:"type_code"`    // 单位类型
	SuperRawID string `gorm:"type:varchar(20)"                    json:"super_raw_id"` // 隶属单位号
	BaseModel
}

// TableName 指定表名
func (RawDepartment) TableName() string { return "raw_departments" }

// RawTeacher 教职工信息落地表 — 对应 raw_teachers
type RawTeacher struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"        json:"id"`
	EmployeeID       string `gorm:"type:varchar(30);not null;index" json:"employee_id"`        // 职工号
	Name             string `gorm:"type:varchar(30)"                json:"name"`               // 教师姓名
	GenderCode       string `gorm:"type:varchar(10)"                json:"gender_code"`        // 性别码
	BirthDate        string `gorm:"type:varchar(10)"                json:"birth_date"`         // 出生日期 yyyy-MM-dd
	DepartmentRawID  string `gorm:"type:varchar(20)"                json:"department_raw_id"`  // 所属单位号
	OnboardDate      string `gorm:"type:varchar(10)"                json:"onboard_date"`       // 入校时间 yyyy-MM-dd
	TenureStatusCode string `gorm:"type:varchar(20)"                json:"tenure_status_code"` // 在职状态码
	EducationCode    string `gorm:"type:varchar(20)"                json:"education_code"`     // 学历码
	TitleCode        string `gorm:"type:varchar(20)"                json:"title_code"`         // 专业技术职称码
	TeachingTypeCode string `gorm:"type:varchar(20)"                json:"teaching_type_code"` // 任教类型码
	Phone            string `gorm:"type:varchar(20)"                json:"phone"`
	Email            string `gorm:"type:varchar(255)"               json:"email"`
	BaseModel
}

// TableName 指定表名
func (RawTeacher) TableName() string { return "raw_teachers" }
