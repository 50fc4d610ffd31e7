package repository

import (
	"context"

	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
)

// EnrollmentRepository 报名记录数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	GetByUserAndEvent(ctx context.Context, userID, campusEventID string) (*model.Enrollment, error)
	Delete(ctx context.Context, id string) error
	CountByEvent(ctx context.Context, campusEventID string) (int64, error)
	ListEnrolledEventIDs(ctx context.Context, userID string, campusEventIDs []string) (map[string]string, error)
	ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error)
}

// enrollmentRepo EnrollmentRepository 的 GORM 实现
type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByUserAndEvent(ctx context.Context, userID, campusEventID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND campus_event_id = ?", userID, campusEventID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Delete(&model.Enrollment{}).Error
}

func (r *enrollmentRepo) CountByEvent(ctx context.Context, campusEventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("campus_event_id = ?", campusEventID).
		Count(&count).Error
	return count, err
}

// ListEnrolledEventIDs 返回用户在给定活动集合中已报名的 活动ID→报名ID 映射
func (r *enrollmentRepo) ListEnrolledEventIDs(ctx context.Context, userID string, campusEventIDs []string) (map[string]string, error) {
	if len(campusEventIDs) == 0 {
		return map[string]string{}, nil
	}
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND campus_event_id IN ?", userID, campusEventIDs).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(enrollments))
	for _, e := range enrollments {
		result[e.CampusEventID] = e.EnrollmentID
	}
	return result, nil
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("CampusEvent").
		Where("user_id = ?", userID).
		Find(&enrollments).Error
	return enrollments, err
}
