package dto

// ── 培训活动模块 DTO ──

// CoefficientPayload 活动角色系数
type CoefficientPayload struct {
	Role           int     `json:"role"`
	Coefficient    float64 `json:"coefficient"     binding:"required"`
	HoursOption    int     `json:"hours_option"`
	WorkloadOption int     `json:"workload_option"`
}

// CreateCampusEventRequest 创建校内活动请求
type CreateCampusEventRequest struct {
	Name            string               `json:"name"             binding:"required,max=64"`
	Time            string               `json:"time"             binding:"required"` // RFC3339
	Location        string               `json:"location"         binding:"required,max=64"`
	NumHours        float64              `json:"num_hours"        binding:"required"`
	NumParticipants int                  `json:"num_participants" binding:"required"`
	Deadline        string               `json:"deadline"         binding:"required"` // RFC3339
	Description     string               `json:"description"`
	Coefficients    []CoefficientPayload `json:"coefficients"     binding:"required,min=1,dive"`
}

// CampusEventResponse 校内活动详情
type CampusEventResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Time            string  `json:"time"`
	Location        string  `json:"location"`
	NumHours        float64 `json:"num_hours"`
	NumParticipants int     `json:"num_participants"`
	NumEnrolled     int     `json:"num_enrolled"`
	Deadline        string  `json:"deadline"`
	Description     string  `json:"description"`
	Reviewed        bool    `json:"reviewed"`
	Expired         bool    `json:"expired"`
	Enrolled        bool    `json:"enrolled"`
	EnrollmentID    string  `json:"enrollment_id,omitempty"`
}
