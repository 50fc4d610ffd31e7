package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
)

// workloadSheetName 工作量导出表格的工作表名
const workloadSheetName = "工作量汇总统计"

// UserWorkload 单个教师在统计区间内的工作量汇总
type UserWorkload struct {
	User     *model.User
	Workload float64
}

// WorkloadService 教师工作量统计业务接口
type WorkloadService interface {
	// CalculateWorkloads 统计区间内各教师的工作量。
	// adminDepartmentID 非空时仅统计该管理单位下的教师；
	// 校外记录只计入已通过学校审核的。
	CalculateWorkloads(ctx context.Context, adminDepartmentID string, start, end time.Time) ([]UserWorkload, error)
	// GenerateWorkloadSheet 将工作量汇总渲染为 xlsx 表格
	GenerateWorkloadSheet(workloads []UserWorkload) (*bytes.Buffer, error)
}

type workloadService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkloadService 创建 WorkloadService 实例
func NewWorkloadService(repo *repository.Repository, logger *zap.Logger) WorkloadService {
	return &workloadService{repo: repo, logger: logger}
}

// ────────────────────── CalculateWorkloads ──────────────────────

func (s *workloadService) CalculateWorkloads(ctx context.Context, adminDepartmentID string, start, end time.Time) ([]UserWorkload, error) {
	campusRecords, err := s.repo.Record.ListCampusRecordsBetween(ctx, adminDepartmentID, start, end)
	if err != nil {
		return nil, err
	}
	offCampusRecords, err := s.repo.Record.ListOffCampusRecordsBetween(ctx, adminDepartmentID, start, end)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*UserWorkload)
	accumulate := func(record *model.Record, numHours float64) {
		if record.User == nil || record.EventCoefficient == nil {
			return
		}
		entry, ok := byUser[record.UserID]
		if !ok {
			entry = &UserWorkload{User: record.User}
			byUser[record.UserID] = entry
		}
		entry.Workload += record.EventCoefficient.CalculateWorkload(numHours)
	}

	for i := range campusRecords {
		record := &campusRecords[i]
		if record.CampusEvent == nil {
			continue
		}
		accumulate(record, record.CampusEvent.NumHours)
	}
	for i := range offCampusRecords {
		record := &offCampusRecords[i]
		if record.OffCampusEvent == nil || record.Status != model.StatusSchoolAdminApproved {
			continue
		}
		accumulate(record, record.OffCampusEvent.NumHours)
	}

	result := make([]UserWorkload, 0, len(byUser))
	for _, entry := range byUser {
		result = append(result, *entry)
	}
	// 按管理单位名、教师姓名稳定排序，保证导出顺序可复现
	sort.Slice(result, func(i, j int) bool {
		di, dj := departmentNameOf(result[i].User), departmentNameOf(result[j].User)
		if di != dj {
			return di < dj
		}
		return result[i].User.FirstName < result[j].User.FirstName
	})
	return result, nil
}

func departmentNameOf(user *model.User) string {
	if user.AdministrativeDepartment == nil {
		return ""
	}
	return user.AdministrativeDepartment.Name
}

// ────────────────────── GenerateWorkloadSheet ──────────────────────

func (s *workloadService) GenerateWorkloadSheet(workloads []UserWorkload) (*bytes.Buffer, error) {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetName("Sheet1", workloadSheetName); err != nil {
		return nil, err
	}

	headers := []string{"序号", "学部（学院）", "教师姓名", "工作量"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := workbook.SetCellValue(workloadSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, entry := range workloads {
		row := i + 2
		values := []interface{}{
			i + 1,
			departmentNameOf(entry.User),
			entry.User.FirstName,
			entry.Workload,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := workbook.SetCellValue(workloadSheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成工作量表格失败: %w", err)
	}
	return buffer, nil
}
