package model

// Department 部门表 — 对应 departments
// 部门以人事数据源中的单位号（RawDepartmentID）作为稳定外部标识；
// AdministrativeDepartmentID 为冗余缓存的管理单位（校区或二级部门），
// 由同步任务在全量扫描后统一重算。
type Department struct {
	DepartmentID               string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	RawDepartmentID            string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"raw_department_id"`
	Name                       string  `gorm:"type:varchar(64);not null"                      json:"name"`
	DepartmentType             string  `gorm:"type:varchar(20)"                               json:"department_type,omitempty"`
	SuperDepartmentID          *string `gorm:"type:uuid;index"                                json:"super_department_id,omitempty"`
	AdministrativeDepartmentID *string `gorm:"type:uuid;index"                                json:"administrative_department_id,omitempty"`
	BaseModel

	// 关联
	SuperDepartment          *Department `gorm:"foreignKey:SuperDepartmentID;references:DepartmentID"          json:"super_department,omitempty"`
	AdministrativeDepartment *Department `gorm:"foreignKey:AdministrativeDepartmentID;references:DepartmentID" json:"administrative_department,omitempty"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
