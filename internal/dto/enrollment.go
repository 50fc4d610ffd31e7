package dto

// ── 报名模块 DTO ──

// CreateEnrollmentRequest 报名请求
type CreateEnrollmentRequest struct {
	CampusEventID string `json:"campus_event_id" binding:"required,uuid"`
	EnrollMethod  int    `json:"enroll_method"`
}

// EnrollmentResponse 报名记录
type EnrollmentResponse struct {
	ID            string `json:"id"`
	CampusEventID string `json:"campus_event_id"`
	UserID        string `json:"user_id"`
	EnrollMethod  int    `json:"enroll_method"`
	CreatedAt     string `json:"created_at"`
}
