package model

// 培训记录状态
// 校外记录走 SUBMITTED → 院系审核 → 学校审核 → 关闭 的审批流；
// 校内记录创建即为 FEEDBACK_REQUIRED，提交反馈后变为 FEEDBACK_SUBMITTED。
const (
	StatusSubmitted               = 1
	StatusDepartmentAdminApproved = 2
	StatusDepartmentAdminRejected = 3
	StatusSchoolAdminApproved     = 4
	StatusSchoolAdminRejected     = 5
	StatusFeedbackRequired        = 6
	StatusFeedbackSubmitted       = 7
	StatusClosed                  = 8
)

// StatusChoicesMap 状态枚举到展示文本的映射
var StatusChoicesMap = map[int]string{
	StatusSubmitted:               "已提交",
	StatusDepartmentAdminApproved: "院系管理员审核通过",
	StatusDepartmentAdminRejected: "院系管理员审核不通过",
	StatusSchoolAdminApproved:     "学校管理员审核通过",
	StatusSchoolAdminRejected:     "学校管理员审核不通过",
	StatusFeedbackRequired:        "培训反馈待提交",
	StatusFeedbackSubmitted:       "培训反馈已提交",
	StatusClosed:                  "已关闭",
}

// Record 培训记录表 — 对应 records
// 校内活动与校外活动二选一
type Record struct {
	RecordID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	UserID             string  `gorm:"type:uuid;not null;index"                       json:"user_id"`
	CampusEventID      *string `gorm:"type:uuid;index"                                json:"campus_event_id,omitempty"`
	OffCampusEventID   *string `gorm:"type:uuid;index"                                json:"off_campus_event_id,omitempty"`
	EventCoefficientID string  `gorm:"type:uuid;not null"                             json:"event_coefficient_id"`
	Status             int     `gorm:"not null;default:1"                             json:"status"`
	BaseModel

	// 关联
	User             *User             `gorm:"foreignKey:UserID;references:UserID"                             json:"user,omitempty"`
	CampusEvent      *CampusEvent      `gorm:"foreignKey:CampusEventID;references:CampusEventID"               json:"campus_event,omitempty"`
	OffCampusEvent   *OffCampusEvent   `gorm:"foreignKey:OffCampusEventID;references:OffCampusEventID"         json:"off_campus_event,omitempty"`
	EventCoefficient *EventCoefficient `gorm:"foreignKey:EventCoefficientID;references:EventCoefficientID"     json:"event_coefficient,omitempty"`
}

// TableName 指定表名
func (Record) TableName() string { return "records" }

// IsOffCampus 是否为校外培训记录
func (r *Record) IsOffCampus() bool { return r.CampusEventID == nil }

// CampusEventFeedback 校内活动培训反馈 — 对应 campus_event_feedbacks
type CampusEventFeedback struct {
	FeedbackID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedback_id"`
	RecordID   string `gorm:"type:uuid;not null;uniqueIndex"                 json:"record_id"`
	Content    string `gorm:"type:text;not null"                             json:"content"`
	BaseModel
}

// TableName 指定表名
func (CampusEventFeedback) TableName() string { return "campus_event_feedbacks" }
