package model

import "time"

// StatusChangeLog 培训记录状态变更日志 — 对应 status_change_logs
// 仅追加的审计记录：每次状态流转写入一条，永不修改或删除
type StatusChangeLog struct {
	LogID      uint      `gorm:"primaryKey;autoIncrement"  json:"log_id"`
	RecordID   string    `gorm:"type:uuid;not null;index"  json:"record_id"`
	PreStatus  int       `gorm:"not null"                  json:"pre_status"`
	PostStatus int       `gorm:"not null"                  json:"post_status"`
	Time       time.Time `gorm:"not null"                  json:"time"`
	UserID     string    `gorm:"type:uuid;not null"        json:"user_id"`
}

// TableName 指定表名
func (StatusChangeLog) TableName() string { return "status_change_logs" }
