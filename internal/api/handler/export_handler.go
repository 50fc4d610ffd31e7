package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"tmsftt/backend/internal/service"
	"tmsftt/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCalendar 导出当前用户的活动日历 (ICS)
// GET /api/v1/export/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buffer, err := h.exportSvc.ExportUserCalendar(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="campus-events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buffer.Bytes())
}

// ExportWorkload 导出工作量汇总表格
// GET /api/v1/export/workload?start=2006-01-02&end=2006-01-02&department_id=
func (h *ExportHandler) ExportWorkload(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		response.BadRequest(c, 10001, "start 日期格式无效")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		response.BadRequest(c, 10001, "end 日期格式无效")
		return
	}
	if !end.After(start) {
		response.BadRequest(c, 10001, "统计区间结束日期必须晚于开始日期")
		return
	}

	// 校级管理员可不限定管理单位；院系管理员由路由层限定角色后
	// 按自身部门过滤
	departmentID := c.Query("department_id")

	buffer, filename, err := h.exportSvc.ExportWorkloadSheet(c.Request.Context(), departmentID, start, end.AddDate(0, 0, 1))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buffer.Bytes())
}
