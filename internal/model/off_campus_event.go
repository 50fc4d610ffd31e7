package model

import "time"

// OffCampusEvent 校外培训活动表 — 对应 off_campus_events
// 由教师自行申报，随培训记录一并创建
type OffCampusEvent struct {
	OffCampusEventID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"off_campus_event_id"`
	Name             string    `gorm:"type:varchar(64);not null"                      json:"name"`
	Time             time.Time `gorm:"not null"                                       json:"time"`
	Location         string    `gorm:"type:varchar(64);not null"                      json:"location"`
	NumHours         float64   `gorm:"not null"                                       json:"num_hours"`
	NumParticipants  int       `gorm:"not null"                                       json:"num_participants"`
	BaseModel
}

// TableName 指定表名
func (OffCampusEvent) TableName() string { return "off_campus_events" }
