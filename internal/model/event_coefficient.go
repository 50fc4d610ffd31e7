package model

import "math"

// 参与角色
const (
	// RoleParticipator 参与
	RoleParticipator = 0
	// RoleExpert 专家
	RoleExpert = 1
)

// RoleChoicesMap 导入表格中的角色文本到枚举的映射
var RoleChoicesMap = map[string]int{
	"参与": RoleParticipator,
	"专家": RoleExpert,
}

// 取整方式
const (
	// RoundMethodNone 正常计算
	RoundMethodNone = 0
	// RoundMethodCeil 向上取整
	RoundMethodCeil = 1
	// RoundMethodFloor 向下取整
	RoundMethodFloor = 2
	// RoundMethodDefault 四舍五入
	RoundMethodDefault = 3
)

// EventCoefficient 培训活动系数表 — 对应 event_coefficients
// 每条记录绑定校内或校外活动之一，按参与角色定义工作量系数
// 与学时、工作量两个独立的取整策略。
type EventCoefficient struct {
	EventCoefficientID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_coefficient_id"`
	Role               int     `gorm:"not null;default:0"                             json:"role"`
	Coefficient        float64 `gorm:"not null;default:0"                             json:"coefficient"`
	HoursOption        int     `gorm:"not null;default:0"                             json:"hours_option"`
	WorkloadOption     int     `gorm:"not null;default:0"                             json:"workload_option"`
	CampusEventID      *string `gorm:"type:uuid;index"                                json:"campus_event_id,omitempty"`
	OffCampusEventID   *string `gorm:"type:uuid;index"                                json:"off_campus_event_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (EventCoefficient) TableName() string { return "event_coefficients" }

func round(value float64, option int) float64 {
	switch option {
	case RoundMethodCeil:
		return math.Ceil(value)
	case RoundMethodFloor:
		return math.Floor(value)
	case RoundMethodDefault:
		return math.Round(value)
	default:
		return value
	}
}

// CalculateWorkload 按系数与取整策略计算学时对应的工作量
// 纯函数：workload = round_w(coefficient × round_h(hours))
func (c *EventCoefficient) CalculateWorkload(numHours float64) float64 {
	hours := round(numHours, c.HoursOption)
	return round(c.Coefficient*hours, c.WorkloadOption)
}
