package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"tmsftt/backend/internal/repository"
)

// ExportService 日历与报表导出业务接口
type ExportService interface {
	// ExportUserCalendar 将用户已报名的校内活动导出为 iCalendar
	// (RFC 5545) 内容，供教师订阅到个人日历
	ExportUserCalendar(ctx context.Context, userID string) (*bytes.Buffer, error)
	// ExportWorkloadSheet 导出统计区间内的工作量汇总表格，
	// 返回表格内容与建议文件名
	ExportWorkloadSheet(ctx context.Context, adminDepartmentID string, start, end time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo     *repository.Repository
	workload WorkloadService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, workload WorkloadService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, workload: workload, logger: logger}
}

// ────────────────────── ExportUserCalendar ──────────────────────

func (s *exportService) ExportUserCalendar(ctx context.Context, userID string) (*bytes.Buffer, error) {
	enrollments, err := s.repo.Enrollment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户报名失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//TMSFTT//培训活动日历//CN")

	now := time.Now()
	for i := range enrollments {
		enrollment := &enrollments[i]
		if enrollment.CampusEvent == nil {
			continue
		}
		event := enrollment.CampusEvent

		vevent := cal.AddEvent(enrollment.EnrollmentID)
		vevent.SetDtStampTime(now)
		vevent.SetStartAt(event.Time)
		// 学时按小时换算为日历时长
		vevent.SetEndAt(event.Time.Add(time.Duration(event.NumHours * float64(time.Hour))))
		vevent.SetSummary(event.Name)
		vevent.SetLocation(event.Location)
		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}
	}

	return bytes.NewBufferString(cal.Serialize()), nil
}

// ────────────────────── ExportWorkloadSheet ──────────────────────

func (s *exportService) ExportWorkloadSheet(ctx context.Context, adminDepartmentID string, start, end time.Time) (*bytes.Buffer, string, error) {
	workloads, err := s.workload.CalculateWorkloads(ctx, adminDepartmentID, start, end)
	if err != nil {
		return nil, "", err
	}
	buffer, err := s.workload.GenerateWorkloadSheet(workloads)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s(%s~%s).xlsx",
		workloadSheetName,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
	return buffer, filename, nil
}
