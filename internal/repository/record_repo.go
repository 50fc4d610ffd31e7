package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
)

// RecordRepository 培训记录、状态日志与反馈数据访问接口
type RecordRepository interface {
	Create(ctx context.Context, record *model.Record) error
	GetByID(ctx context.Context, id string) (*model.Record, error)
	// GetOffCampusByID 仅匹配校外培训记录（campus_event_id IS NULL）
	GetOffCampusByID(ctx context.Context, id string) (*model.Record, error)
	Update(ctx context.Context, record *model.Record) error
	CreateStatusLog(ctx context.Context, log *model.StatusChangeLog) error
	ListStatusLogs(ctx context.Context, recordID string) ([]model.StatusChangeLog, error)
	CreateFeedback(ctx context.Context, feedback *model.CampusEventFeedback) error
	CountWithoutFeedback(ctx context.Context, userID string) (int64, error)
	ListCampusRecordsBetween(ctx context.Context, adminDepartmentID string, start, end time.Time) ([]model.Record, error)
	ListOffCampusRecordsBetween(ctx context.Context, adminDepartmentID string, start, end time.Time) ([]model.Record, error)
}

// recordRepo RecordRepository 的 GORM 实现
type recordRepo struct {
	db *gorm.DB
}

// NewRecordRepo 创建 RecordRepository 实例
func NewRecordRepo(db *gorm.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, record *model.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepo) GetByID(ctx context.Context, id string) (*model.Record, error) {
	var record model.Record
	err := r.db.WithContext(ctx).
		Where("record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) GetOffCampusByID(ctx context.Context, id string) (*model.Record, error) {
	var record model.Record
	err := r.db.WithContext(ctx).
		Where("record_id = ? AND campus_event_id IS NULL", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) Update(ctx context.Context, record *model.Record) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *recordRepo) CreateStatusLog(ctx context.Context, log *model.StatusChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *recordRepo) ListStatusLogs(ctx context.Context, recordID string) ([]model.StatusChangeLog, error) {
	var logs []model.StatusChangeLog
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("time ASC").
		Find(&logs).Error
	return logs, err
}

func (r *recordRepo) CreateFeedback(ctx context.Context, feedback *model.CampusEventFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// CountWithoutFeedback 统计用户待提交反馈的校内培训记录数
func (r *recordRepo) CountWithoutFeedback(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Record{}).
		Where("user_id = ? AND status = ?", userID, model.StatusFeedbackRequired).
		Count(&count).Error
	return count, err
}

func (r *recordRepo) ListCampusRecordsBetween(ctx context.Context, adminDepartmentID string, start, end time.Time) ([]model.Record, error) {
	var records []model.Record
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.AdministrativeDepartment").
		Preload("CampusEvent").
		Preload("EventCoefficient").
		Joins("JOIN campus_events ON campus_events.campus_event_id = records.campus_event_id").
		Joins("JOIN users ON users.user_id = records.user_id").
		Where("campus_events.time >= ? AND campus_events.time <= ?", start, end)
	if adminDepartmentID != "" {
		q = q.Where("users.administrative_department_id = ?", adminDepartmentID)
	} else {
		q = q.Where("users.administrative_department_id IS NOT NULL")
	}
	err := q.Find(&records).Error
	return records, err
}

func (r *recordRepo) ListOffCampusRecordsBetween(ctx context.Context, adminDepartmentID string, start, end time.Time) ([]model.Record, error) {
	var records []model.Record
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.AdministrativeDepartment").
		Preload("OffCampusEvent").
		Preload("EventCoefficient").
		Joins("JOIN off_campus_events ON off_campus_events.off_campus_event_id = records.off_campus_event_id").
		Joins("JOIN users ON users.user_id = records.user_id").
		Where("off_campus_events.time >= ? AND off_campus_events.time <= ?", start, end)
	if adminDepartmentID != "" {
		q = q.Where("users.administrative_department_id = ?", adminDepartmentID)
	} else {
		q = q.Where("users.administrative_department_id IS NOT NULL")
	}
	err := q.Find(&records).Error
	return records, err
}
