package handler

import "tmsftt/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Event      *EventHandler
	Enrollment *EnrollmentHandler
	Record     *RecordHandler
	Export     *ExportHandler
	Sync       *SyncHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Event:      NewEventHandler(svc.Event, svc.Enrollment),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Record:     NewRecordHandler(svc.Record),
		Export:     NewExportHandler(svc.Export),
		Sync:       NewSyncHandler(svc.Sync),
	}
}
