package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tmsftt/backend/internal/dto"
	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/apperrors"
)

// ── 培训活动模块业务错误 ──

var (
	ErrEventDataInvalid     = apperrors.Validation("培训活动数据格式无效")
	ErrEventAlreadyReviewed = apperrors.StateConflict("培训活动已审核，请勿重复操作")
)

// EventService 校内培训活动业务接口
type EventService interface {
	// CreateCampusEvent 创建校内活动及其角色系数
	CreateCampusEvent(ctx context.Context, req *dto.CreateCampusEventRequest, creatorID string) (*model.CampusEvent, error)
	// ReviewCampusEvent 学校管理员将活动标记为已审核
	ReviewCampusEvent(ctx context.Context, eventID, reviewerID string) (*model.CampusEvent, error)
	GetByID(ctx context.Context, eventID string) (*model.CampusEvent, error)
	List(ctx context.Context) ([]model.CampusEvent, error)
	// ListCoefficients 查询活动的角色系数
	ListCoefficients(ctx context.Context, eventID string) ([]model.EventCoefficient, error)
}

type eventService struct {
	repo   *repository.Repository
	perms  PermissionService
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, perms PermissionService, logger *zap.Logger) EventService {
	return &eventService{repo: repo, perms: perms, logger: logger}
}

// ────────────────────── CreateCampusEvent ──────────────────────

func (s *eventService) CreateCampusEvent(ctx context.Context, req *dto.CreateCampusEventRequest, creatorID string) (*model.CampusEvent, error) {
	eventTime, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return nil, ErrEventDataInvalid
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		return nil, ErrEventDataInvalid
	}
	if req.Name == "" || req.Location == "" || req.NumHours <= 0 || req.NumParticipants <= 0 {
		return nil, ErrEventDataInvalid
	}
	for _, c := range req.Coefficients {
		if c.Role != model.RoleParticipator && c.Role != model.RoleExpert {
			return nil, ErrEventDataInvalid
		}
		if c.Coefficient < 0 {
			return nil, ErrEventDataInvalid
		}
	}

	creator, err := s.repo.User.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var event *model.CampusEvent
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		event = &model.CampusEvent{
			Name:            req.Name,
			Time:            eventTime,
			Location:        req.Location,
			NumHours:        req.NumHours,
			NumParticipants: req.NumParticipants,
			Deadline:        deadline,
			Description:     req.Description,
		}
		if err := tx.CampusEvent.Create(ctx, event); err != nil {
			return err
		}

		for _, c := range req.Coefficients {
			coefficient := &model.EventCoefficient{
				Role:           c.Role,
				Coefficient:    c.Coefficient,
				HoursOption:    c.HoursOption,
				WorkloadOption: c.WorkloadOption,
				CampusEventID:  &event.CampusEventID,
			}
			if err := tx.EventCoefficient.Create(ctx, coefficient); err != nil {
				return err
			}
		}

		return s.perms.AssignObjectPermissions(ctx, tx, creator, model.ModelCampusEvent, event.CampusEventID)
	})
	if err != nil {
		s.logger.Error("创建校内活动失败", zap.String("creator_id", creatorID), zap.Error(err))
		return nil, err
	}

	return event, nil
}

// ────────────────────── ReviewCampusEvent ──────────────────────

func (s *eventService) ReviewCampusEvent(ctx context.Context, eventID, reviewerID string) (*model.CampusEvent, error) {
	event, err := s.repo.CampusEvent.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.Reviewed {
		return nil, ErrEventAlreadyReviewed
	}

	event.Reviewed = true
	if err := s.repo.CampusEvent.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("培训活动审核通过",
		zap.String("campus_event_id", eventID),
		zap.String("reviewer_id", reviewerID))
	return event, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *eventService) GetByID(ctx context.Context, eventID string) (*model.CampusEvent, error) {
	event, err := s.repo.CampusEvent.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]model.CampusEvent, error) {
	return s.repo.CampusEvent.List(ctx)
}

func (s *eventService) ListCoefficients(ctx context.Context, eventID string) ([]model.EventCoefficient, error) {
	return s.repo.EventCoefficient.ListByCampusEvent(ctx, eventID)
}
