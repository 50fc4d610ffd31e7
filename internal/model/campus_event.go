package model

import "time"

// CampusEvent 校内培训活动表 — 对应 campus_events
// NumEnrolled 为冗余计数，与 enrollments 行数保持一致；
// 只允许在持有活动行锁的事务内修改（见 EnrollmentRepository）。
type CampusEvent struct {
	CampusEventID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"campus_event_id"`
	Name            string    `gorm:"type:varchar(64);not null"                      json:"name"`
	Time            time.Time `gorm:"not null"                                       json:"time"`
	Location        string    `gorm:"type:varchar(64);not null"                      json:"location"`
	NumHours        float64   `gorm:"not null"                                       json:"num_hours"`
	NumParticipants int       `gorm:"not null"                                       json:"num_participants"`
	Deadline        time.Time `gorm:"not null"                                       json:"deadline"`
	NumEnrolled     int       `gorm:"not null;default:0"                             json:"num_enrolled"`
	Description     string    `gorm:"type:text;not null;default:''"                  json:"description"`
	Reviewed        bool      `gorm:"not null;default:false"                         json:"reviewed"`
	BaseModel
}

// TableName 指定表名
func (CampusEvent) TableName() string { return "campus_events" }

// Expired 活动是否已不可报名（超过截止时间或人数已满）
func (e *CampusEvent) Expired(now time.Time) bool {
	return now.After(e.Deadline) || e.NumEnrolled >= e.NumParticipants
}
