package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/apperrors"
)

// ── 报名模块业务错误 ──

var (
	ErrEventNotFound       = apperrors.NotFound("培训活动不存在")
	ErrEnrollmentNotFound  = apperrors.NotFound("报名记录不存在")
	ErrEnrollmentFull      = apperrors.StateConflict("报名人数已满")
	ErrEnrollmentClosed    = apperrors.StateConflict("报名已截止")
	ErrDuplicateEnrollment = apperrors.StateConflict("请勿重复报名")
	ErrUserNotFound        = apperrors.NotFound("用户不存在")
)

// EnrollmentService 活动报名业务接口
type EnrollmentService interface {
	Create(ctx context.Context, userID, campusEventID string, enrollMethod int) (*model.Enrollment, error)
	Delete(ctx context.Context, enrollmentID, callerID string) error
	// ListUserEnrollmentIDs 返回用户在给定活动集合中 活动ID→报名ID 的映射
	ListUserEnrollmentIDs(ctx context.Context, userID string, campusEventIDs []string) (map[string]string, error)
	// ListUserEnrollmentStatus 返回用户在给定活动集合中 活动ID→是否已报名 的映射
	ListUserEnrollmentStatus(ctx context.Context, userID string, campusEventIDs []string) (map[string]bool, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	perms  PermissionService
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, perms PermissionService, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, perms: perms, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 报名校内活动。容量检查、报名写入与计数自增在同一事务内
// 完成，活动行全程持有行锁，并发报名串行通过检查，报名数不会越过
// 容量上限。
func (s *enrollmentService) Create(ctx context.Context, userID, campusEventID string, enrollMethod int) (*model.Enrollment, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var enrollment *model.Enrollment
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		event, err := tx.CampusEvent.GetByIDForUpdate(ctx, campusEventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if _, err := tx.Enrollment.GetByUserAndEvent(ctx, userID, campusEventID); err == nil {
			return ErrDuplicateEnrollment
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if event.NumEnrolled >= event.NumParticipants {
			return ErrEnrollmentFull
		}

		enrollment = &model.Enrollment{
			CampusEventID: campusEventID,
			UserID:        userID,
			EnrollMethod:  enrollMethod,
		}
		if err := tx.Enrollment.Create(ctx, enrollment); err != nil {
			return err
		}

		event.NumEnrolled++
		if err := tx.CampusEvent.Update(ctx, event); err != nil {
			return err
		}

		return s.perms.AssignObjectPermissions(ctx, tx, user, model.ModelEnrollment, enrollment.EnrollmentID)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			s.logger.Error("报名失败",
				zap.String("user_id", userID),
				zap.String("campus_event_id", campusEventID),
				zap.Error(err))
		}
		return nil, err
	}

	return enrollment, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 取消报名并回退活动报名计数
func (s *enrollmentService) Delete(ctx context.Context, enrollmentID, callerID string) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		enrollment, err := tx.Enrollment.GetByID(ctx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		event, err := tx.CampusEvent.GetByIDForUpdate(ctx, enrollment.CampusEventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if err := tx.Enrollment.Delete(ctx, enrollmentID); err != nil {
			return err
		}

		if event.NumEnrolled > 0 {
			event.NumEnrolled--
		}
		if err := tx.CampusEvent.Update(ctx, event); err != nil {
			return err
		}

		s.logger.Info("取消报名",
			zap.String("enrollment_id", enrollmentID),
			zap.String("caller_id", callerID))
		return nil
	})
}

// ────────────────────── 查询 ──────────────────────

func (s *enrollmentService) ListUserEnrollmentIDs(ctx context.Context, userID string, campusEventIDs []string) (map[string]string, error) {
	return s.repo.Enrollment.ListEnrolledEventIDs(ctx, userID, campusEventIDs)
}

func (s *enrollmentService) ListUserEnrollmentStatus(ctx context.Context, userID string, campusEventIDs []string) (map[string]bool, error) {
	enrolled, err := s.repo.Enrollment.ListEnrolledEventIDs(ctx, userID, campusEventIDs)
	if err != nil {
		return nil, err
	}
	status := make(map[string]bool, len(campusEventIDs))
	for _, eventID := range campusEventIDs {
		_, ok := enrolled[eventID]
		status[eventID] = ok
	}
	return status, nil
}
