package handler

import (
	"github.com/gin-gonic/gin"

	"tmsftt/backend/internal/service"
	"tmsftt/backend/pkg/response"
)

// SyncHandler 人事数据同步模块 HTTP 处理器
type SyncHandler struct {
	syncSvc service.SyncService
}

// NewSyncHandler 创建 SyncHandler
func NewSyncHandler(syncSvc service.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// TriggerSync 手动触发一轮人事数据同步
// POST /api/v1/sync/hr
// 常规由定时任务调度，此接口供管理员在抽数完成后立即同步
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	if err := h.syncSvc.SyncTeachersAndDepartments(c.Request.Context()); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
