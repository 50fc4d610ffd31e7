package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"tmsftt/backend/internal/dto"
	"tmsftt/backend/internal/service"
	"tmsftt/backend/pkg/response"
)

// EnrollmentHandler 报名模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// CreateEnrollment 报名校内活动
// POST /api/v1/enrollments
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.Create(c.Request.Context(), userID, req.CampusEventID, req.EnrollMethod)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, dto.EnrollmentResponse{
		ID:            enrollment.EnrollmentID,
		CampusEventID: enrollment.CampusEventID,
		UserID:        enrollment.UserID,
		EnrollMethod:  enrollment.EnrollMethod,
		CreatedAt:     enrollment.CreatedAt.Format(time.RFC3339),
	})
}

// DeleteEnrollment 取消报名
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
