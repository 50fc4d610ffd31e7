package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"tmsftt/backend/internal/dto"
	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/service"
	"tmsftt/backend/pkg/response"
)

// 批量登记表格大小上限
const maxImportFileSize = 10 * 1024 * 1024 // 10MB

// RecordHandler 培训记录模块 HTTP 处理器
type RecordHandler struct {
	recordSvc service.RecordService
}

// NewRecordHandler 创建 RecordHandler
func NewRecordHandler(recordSvc service.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// CreateOffCampusRecord 申报校外培训记录
// POST /api/v1/records/off-campus
func (h *RecordHandler) CreateOffCampusRecord(c *gin.Context) {
	var req dto.CreateOffCampusRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.recordSvc.CreateOffCampusRecord(c.Request.Context(), &req, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, toRecordResponse(record))
}

// GetRecord 查询培训记录
// GET /api/v1/records/:id
func (h *RecordHandler) GetRecord(c *gin.Context) {
	record, err := h.recordSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, toRecordResponse(record))
}

// DepartmentAdminReview 院系管理员审核
// POST /api/v1/records/:id/department-admin-review
func (h *RecordHandler) DepartmentAdminReview(c *gin.Context) {
	h.review(c, h.recordSvc.DepartmentAdminReview)
}

// SchoolAdminReview 学校管理员审核
// POST /api/v1/records/:id/school-admin-review
func (h *RecordHandler) SchoolAdminReview(c *gin.Context) {
	h.review(c, h.recordSvc.SchoolAdminReview)
}

func (h *RecordHandler) review(c *gin.Context, fn func(ctx context.Context, recordID string, isApproved bool, reviewerID string) (*model.Record, error)) {
	var req dto.ReviewRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := fn(c.Request.Context(), c.Param("id"), *req.IsApproved, reviewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, toRecordResponse(record))
}

// CloseRecord 关闭培训记录
// POST /api/v1/records/:id/close
func (h *RecordHandler) CloseRecord(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.recordSvc.CloseRecord(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, toRecordResponse(record))
}

// CreateFeedback 提交培训反馈
// POST /api/v1/records/:id/feedback
func (h *RecordHandler) CreateFeedback(c *gin.Context) {
	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	feedback, err := h.recordSvc.CreateFeedback(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, gin.H{"feedback_id": feedback.FeedbackID})
}

// BatchAddRecords 按表格批量登记校内培训记录
// POST /api/v1/records/batch-add
func (h *RecordHandler) BatchAddRecords(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少表格文件")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImportFileSize))
	if err != nil {
		response.BadRequest(c, 10001, "读取表格文件失败")
		return
	}

	count, err := h.recordSvc.CreateCampusRecordsFromExcel(c.Request.Context(), content)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, dto.BatchAddResponse{Count: count})
}

// CountWithoutFeedback 统计当前用户待提交反馈的记录数
// GET /api/v1/records/without-feedback/count
func (h *RecordHandler) CountWithoutFeedback(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.recordSvc.CountRecordsWithoutFeedback(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"count": count})
}

// ListStatusLogs 查询记录状态流转日志
// GET /api/v1/records/:id/status-logs
func (h *RecordHandler) ListStatusLogs(c *gin.Context) {
	logs, err := h.recordSvc.ListStatusLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	list := make([]dto.StatusChangeLogResponse, 0, len(logs))
	for i := range logs {
		list = append(list, dto.StatusChangeLogResponse{
			PreStatus:  logs[i].PreStatus,
			PostStatus: logs[i].PostStatus,
			Time:       logs[i].Time.Format(time.RFC3339),
			UserID:     logs[i].UserID,
		})
	}
	response.OK(c, gin.H{"list": list})
}

func toRecordResponse(record *model.Record) dto.RecordResponse {
	resp := dto.RecordResponse{
		ID:            record.RecordID,
		UserID:        record.UserID,
		Status:        record.Status,
		StatusDisplay: model.StatusChoicesMap[record.Status],
		CreatedAt:     record.CreatedAt.Format(time.RFC3339),
	}
	if record.CampusEventID != nil {
		resp.CampusEventID = *record.CampusEventID
	}
	if record.OffCampusEventID != nil {
		resp.OffCampusEventID = *record.OffCampusEventID
	}
	return resp
}
