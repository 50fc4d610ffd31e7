package dto

// ── 培训记录模块 DTO ──

// CreateOffCampusRecordRequest 校外培训记录申报请求
type CreateOffCampusRecordRequest struct {
	Name            string   `json:"name"             binding:"required,max=64"`
	Time            string   `json:"time"             binding:"required"` // RFC3339
	Location        string   `json:"location"         binding:"required,max=64"`
	NumHours        float64  `json:"num_hours"        binding:"required"`
	NumParticipants int      `json:"num_participants"`
	Role            int      `json:"role"`
	Coefficient     *float64 `json:"coefficient"` // 省略时按 1 计
}

// ReviewRecordRequest 审核请求
type ReviewRecordRequest struct {
	IsApproved *bool `json:"is_approved" binding:"required"`
}

// CreateFeedbackRequest 培训反馈提交请求
type CreateFeedbackRequest struct {
	Content string `json:"content" binding:"required"`
}

// RecordResponse 培训记录详情
type RecordResponse struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	CampusEventID    string `json:"campus_event_id,omitempty"`
	OffCampusEventID string `json:"off_campus_event_id,omitempty"`
	Status           int    `json:"status"`
	StatusDisplay    string `json:"status_display"`
	CreatedAt        string `json:"created_at"`
}

// StatusChangeLogResponse 状态流转日志
type StatusChangeLogResponse struct {
	PreStatus  int    `json:"pre_status"`
	PostStatus int    `json:"post_status"`
	Time       string `json:"time"`
	UserID     string `json:"user_id"`
}

// BatchAddResponse 批量登记结果
type BatchAddResponse struct {
	Count int `json:"count"`
}
