package service

import (
	"go.uber.org/zap"

	"tmsftt/backend/config"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/jwt"
	"tmsftt/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Sync       SyncService
	Permission PermissionService
	Event      EventService
	Enrollment EnrollmentService
	Record     RecordService
	Workload   WorkloadService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	perms := NewPermissionService(logger)
	workload := NewWorkloadService(repo, logger)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Sync:       NewSyncService(&cfg.Sync, repo, perms, logger),
		Permission: perms,
		Event:      NewEventService(repo, perms, logger),
		Enrollment: NewEnrollmentService(repo, perms, logger),
		Record:     NewRecordService(repo, perms, logger),
		Workload:   workload,
		Export:     NewExportService(repo, workload, logger),
	}
}
