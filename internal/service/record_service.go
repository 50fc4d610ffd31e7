package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tmsftt/backend/internal/dto"
	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/apperrors"
)

// ── 培训记录模块业务错误 ──

var (
	ErrRecordNotFound           = apperrors.NotFound("无此培训记录！")
	ErrIllegalStatusTransition  = apperrors.StateConflict("无权更改！")
	ErrInvalidOffCampusEvent    = apperrors.Validation("校外培训活动数据格式无效")
	ErrFeedbackAlreadySubmitted = apperrors.StateConflict("培训反馈已提交，请勿重复提交")
	ErrInvalidWorkbook          = apperrors.Validation("无法解析表格文件")
)

// RecordService 培训记录业务接口
type RecordService interface {
	// CreateOffCampusRecord 教师申报校外培训记录，
	// 活动、系数与记录一并创建，初始状态为已提交
	CreateOffCampusRecord(ctx context.Context, req *dto.CreateOffCampusRecordRequest, userID string) (*model.Record, error)
	// DepartmentAdminReview 院系管理员审核校外培训记录
	DepartmentAdminReview(ctx context.Context, recordID string, isApproved bool, reviewerID string) (*model.Record, error)
	// SchoolAdminReview 学校管理员审核校外培训记录
	SchoolAdminReview(ctx context.Context, recordID string, isApproved bool, reviewerID string) (*model.Record, error)
	// CloseRecord 关闭已通过院系审核的校外培训记录
	CloseRecord(ctx context.Context, recordID string, callerID string) (*model.Record, error)
	// CreateFeedback 提交校内培训反馈并推进记录状态
	CreateFeedback(ctx context.Context, recordID, content string) (*model.CampusEventFeedback, error)
	// CreateCampusRecordsFromExcel 管理员按表格批量登记校内培训记录，
	// 返回成功创建的条数
	CreateCampusRecordsFromExcel(ctx context.Context, fileContent []byte) (int, error)
	// CountRecordsWithoutFeedback 统计用户待提交反馈的记录数
	CountRecordsWithoutFeedback(ctx context.Context, userID string) (int64, error)
	// ListStatusLogs 查询记录的状态流转日志
	ListStatusLogs(ctx context.Context, recordID string) ([]model.StatusChangeLog, error)
	GetByID(ctx context.Context, recordID string) (*model.Record, error)
}

type recordService struct {
	repo   *repository.Repository
	perms  PermissionService
	logger *zap.Logger
}

// NewRecordService 创建 RecordService 实例
func NewRecordService(repo *repository.Repository, perms PermissionService, logger *zap.Logger) RecordService {
	return &recordService{repo: repo, perms: perms, logger: logger}
}

// ────────────────────── CreateOffCampusRecord ──────────────────────

func (s *recordService) CreateOffCampusRecord(ctx context.Context, req *dto.CreateOffCampusRecordRequest, userID string) (*model.Record, error) {
	eventTime, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return nil, ErrInvalidOffCampusEvent
	}
	if req.Name == "" || req.Location == "" || req.NumHours <= 0 {
		return nil, ErrInvalidOffCampusEvent
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var record *model.Record
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		event := &model.OffCampusEvent{
			Name:            req.Name,
			Time:            eventTime,
			Location:        req.Location,
			NumHours:        req.NumHours,
			NumParticipants: req.NumParticipants,
		}
		if err := tx.OffCampusEvent.Create(ctx, event); err != nil {
			return err
		}

		// 未填写系数时按 1 计，显式填 0 原样保留
		coefficient := &model.EventCoefficient{
			Role:             req.Role,
			Coefficient:      1,
			HoursOption:      model.RoundMethodNone,
			WorkloadOption:   model.RoundMethodNone,
			OffCampusEventID: &event.OffCampusEventID,
		}
		if req.Coefficient != nil {
			coefficient.Coefficient = *req.Coefficient
		}
		if err := tx.EventCoefficient.Create(ctx, coefficient); err != nil {
			return err
		}

		record = &model.Record{
			UserID:             userID,
			OffCampusEventID:   &event.OffCampusEventID,
			EventCoefficientID: coefficient.EventCoefficientID,
			Status:             model.StatusSubmitted,
		}
		if err := tx.Record.Create(ctx, record); err != nil {
			return err
		}

		log := &model.StatusChangeLog{
			RecordID:   record.RecordID,
			PreStatus:  0,
			PostStatus: model.StatusSubmitted,
			Time:       time.Now(),
			UserID:     userID,
		}
		if err := tx.Record.CreateStatusLog(ctx, log); err != nil {
			return err
		}

		return s.perms.AssignObjectPermissions(ctx, tx, user, model.ModelRecord, record.RecordID)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ────────────────────── 审核状态机 ──────────────────────

func (s *recordService) DepartmentAdminReview(ctx context.Context, recordID string, isApproved bool, reviewerID string) (*model.Record, error) {
	target := model.StatusDepartmentAdminApproved
	if !isApproved {
		target = model.StatusDepartmentAdminRejected
	}
	return s.transition(ctx, recordID, reviewerID, target, func(status int) bool {
		return status == model.StatusSubmitted
	})
}

func (s *recordService) SchoolAdminReview(ctx context.Context, recordID string, isApproved bool, reviewerID string) (*model.Record, error) {
	target := model.StatusSchoolAdminApproved
	if !isApproved {
		target = model.StatusSchoolAdminRejected
	}
	return s.transition(ctx, recordID, reviewerID, target, func(status int) bool {
		return status == model.StatusDepartmentAdminApproved
	})
}

func (s *recordService) CloseRecord(ctx context.Context, recordID string, callerID string) (*model.Record, error) {
	return s.transition(ctx, recordID, callerID, model.StatusClosed, func(status int) bool {
		return status == model.StatusDepartmentAdminApproved
	})
}

// transition 校验前置状态后原子完成状态写入与日志追加。
// 审核与关闭只作用于校外培训记录，校内记录命中时视同不存在。
func (s *recordService) transition(ctx context.Context, recordID, actorID string, target int, allowed func(status int) bool) (*model.Record, error) {
	var record *model.Record
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		record, err = tx.Record.GetOffCampusByID(ctx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if !allowed(record.Status) {
			return ErrIllegalStatusTransition
		}

		pre := record.Status
		record.Status = target
		if err := tx.Record.Update(ctx, record); err != nil {
			return err
		}
		log := &model.StatusChangeLog{
			RecordID:   record.RecordID,
			PreStatus:  pre,
			PostStatus: target,
			Time:       time.Now(),
			UserID:     actorID,
		}
		return tx.Record.CreateStatusLog(ctx, log)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("培训记录状态流转",
		zap.String("record_id", recordID),
		zap.String("actor_id", actorID),
		zap.String("post_status", model.StatusChoicesMap[target]))
	return record, nil
}

// ────────────────────── CreateFeedback ──────────────────────

func (s *recordService) CreateFeedback(ctx context.Context, recordID, content string) (*model.CampusEventFeedback, error) {
	if content == "" {
		return nil, apperrors.Validation("反馈内容不能为空")
	}

	var feedback *model.CampusEventFeedback
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		record, err := tx.Record.GetByID(ctx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if record.Status != model.StatusFeedbackRequired {
			return ErrFeedbackAlreadySubmitted
		}

		feedback = &model.CampusEventFeedback{
			RecordID: recordID,
			Content:  content,
		}
		if err := tx.Record.CreateFeedback(ctx, feedback); err != nil {
			return err
		}

		record.Status = model.StatusFeedbackSubmitted
		return tx.Record.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

// ────────────────────── CreateCampusRecordsFromExcel ──────────────────────

// CreateCampusRecordsFromExcel 解析批量登记表格。
// 首行首格为活动编号；自第二行起每行为 职工号、系数编号。
// 任一行数据非法则整批回滚，错误消息带行号便于管理员修正。
func (s *recordService) CreateCampusRecordsFromExcel(ctx context.Context, fileContent []byte) (int, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(fileContent))
	if err != nil {
		return 0, ErrInvalidWorkbook
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	rows, err := workbook.GetRows(sheet)
	if err != nil || len(rows) < 1 || len(rows[0]) < 1 {
		return 0, ErrInvalidWorkbook
	}
	eventID := rows[0][0]

	count := 0
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		event, err := tx.CampusEvent.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(fmt.Sprintf("编号为%s的活动不存在", eventID))
			}
			return err
		}

		for i, row := range rows[1:] {
			rowNum := i + 2
			if len(row) < 2 || row[0] == "" {
				continue
			}
			username, coefficientID := row[0], row[1]

			user, err := tx.User.GetByUsername(ctx, username)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Validation(fmt.Sprintf("第%d行，职工号为%s的用户不存在", rowNum, username))
				}
				return err
			}
			coefficient, err := tx.EventCoefficient.GetByID(ctx, coefficientID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Validation(fmt.Sprintf("第%d行，编号为%s的活动系数不存在", rowNum, coefficientID))
				}
				return err
			}
			if coefficient.CampusEventID == nil || *coefficient.CampusEventID != event.CampusEventID {
				return apperrors.Validation(fmt.Sprintf("第%d行，系数%s不属于该活动", rowNum, coefficientID))
			}

			record := &model.Record{
				UserID:             user.UserID,
				CampusEventID:      &event.CampusEventID,
				EventCoefficientID: coefficient.EventCoefficientID,
				Status:             model.StatusFeedbackRequired,
			}
			if err := tx.Record.Create(ctx, record); err != nil {
				return err
			}
			if err := s.perms.AssignObjectPermissions(ctx, tx, user, model.ModelRecord, record.RecordID); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("批量登记校内培训记录", zap.String("campus_event_id", eventID), zap.Int("count", count))
	return count, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *recordService) CountRecordsWithoutFeedback(ctx context.Context, userID string) (int64, error) {
	return s.repo.Record.CountWithoutFeedback(ctx, userID)
}

func (s *recordService) ListStatusLogs(ctx context.Context, recordID string) ([]model.StatusChangeLog, error) {
	return s.repo.Record.ListStatusLogs(ctx, recordID)
}

func (s *recordService) GetByID(ctx context.Context, recordID string) (*model.Record, error) {
	record, err := s.repo.Record.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}
