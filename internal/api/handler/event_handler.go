package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"tmsftt/backend/internal/dto"
	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/service"
	"tmsftt/backend/pkg/response"
)

// EventHandler 校内培训活动模块 HTTP 处理器
type EventHandler struct {
	eventSvc      service.EventService
	enrollmentSvc service.EnrollmentService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService, enrollmentSvc service.EnrollmentService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, enrollmentSvc: enrollmentSvc}
}

// ListEvents 获取活动列表（附当前用户报名状态）
// GET /api/v1/campus-events
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	events, err := h.eventSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	eventIDs := make([]string, 0, len(events))
	for i := range events {
		eventIDs = append(eventIDs, events[i].CampusEventID)
	}
	enrolled, err := h.enrollmentSvc.ListUserEnrollmentIDs(c.Request.Context(), userID, eventIDs)
	if err != nil {
		response.InternalError(c)
		return
	}

	now := time.Now()
	list := make([]dto.CampusEventResponse, 0, len(events))
	for i := range events {
		list = append(list, toCampusEventResponse(&events[i], enrolled, now))
	}

	response.OK(c, gin.H{"list": list})
}

// GetEvent 获取活动详情
// GET /api/v1/campus-events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	enrolled, err := h.enrollmentSvc.ListUserEnrollmentIDs(c.Request.Context(), userID, []string{event.CampusEventID})
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, toCampusEventResponse(event, enrolled, time.Now()))
}

// CreateEvent 创建活动
// POST /api/v1/campus-events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateCampusEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	creatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.CreateCampusEvent(c.Request.Context(), &req, creatorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, toCampusEventResponse(event, nil, time.Now()))
}

// ReviewEvent 标记活动为已审核
// POST /api/v1/campus-events/:id/review
func (h *EventHandler) ReviewEvent(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.ReviewCampusEvent(c.Request.Context(), c.Param("id"), reviewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, toCampusEventResponse(event, nil, time.Now()))
}

// ListCoefficients 查询活动的角色系数
// GET /api/v1/campus-events/:id/coefficients
func (h *EventHandler) ListCoefficients(c *gin.Context) {
	coefficients, err := h.eventSvc.ListCoefficients(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": coefficients})
}

func toCampusEventResponse(event *model.CampusEvent, enrolled map[string]string, now time.Time) dto.CampusEventResponse {
	resp := dto.CampusEventResponse{
		ID:              event.CampusEventID,
		Name:            event.Name,
		Time:            event.Time.Format(time.RFC3339),
		Location:        event.Location,
		NumHours:        event.NumHours,
		NumParticipants: event.NumParticipants,
		NumEnrolled:     event.NumEnrolled,
		Deadline:        event.Deadline.Format(time.RFC3339),
		Description:     event.Description,
		Reviewed:        event.Reviewed,
		Expired:         event.Expired(now),
	}
	if enrollmentID, ok := enrolled[event.CampusEventID]; ok {
		resp.Enrolled = true
		resp.EnrollmentID = enrollmentID
	}
	return resp
}
