package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tmsftt/backend/config"
	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/apperrors"
)

// ── 同步模块业务错误 ──

var (
	ErrSyncUnknownSuperDepartment = apperrors.NotFound("隶属单位在人事数据中不存在")
)

// 人事数据源代码表。抽数接口给的是代码，入库前转成展示文本；
// 代码表未覆盖的值原样保留。
var (
	genderCodeTable = map[string]string{"1": "男", "2": "女"}

	tenureStatusCodeTable = map[string]string{
		"11": "在职",
		"12": "离退休",
		"13": "离职",
	}

	educationCodeTable = map[string]string{
		"11": "博士研究生",
		"14": "硕士研究生",
		"21": "大学本科",
	}

	teachingTypeCodeTable = map[string]string{
		"1": "专任教师",
		"2": "实验技术",
		"3": "教辅人员",
	}
)

func codeOrRaw(table map[string]string, code string) string {
	if text, ok := table[code]; ok {
		return text
	}
	return code
}

// SyncService 人事数据同步业务接口
type SyncService interface {
	// SyncTeachersAndDepartments 从人事落地表全量同步部门与教职工。
	// 整个批处理在单个事务内执行，任意一条数据失败则整体回滚，
	// 下一轮调度重新执行完整批次。
	SyncTeachersAndDepartments(ctx context.Context) error
}

type syncService struct {
	cfg    *config.SyncConfig
	repo   *repository.Repository
	perms  PermissionService
	logger *zap.Logger
}

// NewSyncService 创建 SyncService 实例
func NewSyncService(cfg *config.SyncConfig, repo *repository.Repository, perms PermissionService, logger *zap.Logger) SyncService {
	return &syncService{cfg: cfg, repo: repo, perms: perms, logger: logger}
}

// ────────────────────── SyncTeachersAndDepartments ──────────────────────

func (s *syncService) SyncTeachersAndDepartments(ctx context.Context) error {
	start := time.Now()
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tree, err := s.syncDepartments(ctx, tx)
		if err != nil {
			return err
		}
		return s.syncTeachers(ctx, tx, tree)
	})
	if err != nil {
		s.logger.Error("人事数据同步失败，本轮整体回滚", zap.Error(err))
		return err
	}
	s.logger.Info("人事数据同步完成", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// ────────────────────── 部门同步 ──────────────────────

func (s *syncService) syncDepartments(ctx context.Context, tx *repository.Repository) (*OrgTree, error) {
	tree := NewOrgTree(s.cfg.SchoolRawID)
	idToRaw := make(map[string]string)

	// 学校根节点缺失时建档（首轮同步）
	school, _, err := s.findOrCreateDepartment(ctx, tx, s.cfg.SchoolRawID, s.cfg.SchoolName)
	if err != nil {
		return nil, err
	}
	idToRaw[school.DepartmentID] = school.RawDepartmentID
	tree.Add(school, "")

	// 已有部门按现存外键恢复父链
	existing, err := tx.Department.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		idToRaw[existing[i].DepartmentID] = existing[i].RawDepartmentID
	}
	for i := range existing {
		dept := &existing[i]
		if dept.RawDepartmentID == s.cfg.SchoolRawID {
			continue
		}
		parentRawID := ""
		if dept.SuperDepartmentID != nil {
			parentRawID = idToRaw[*dept.SuperDepartmentID]
		}
		tree.Add(dept, parentRawID)
	}

	rows, err := tx.RawInfo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].RawID == s.cfg.SchoolRawID {
			continue
		}
		if err := s.applyDepartmentRow(ctx, tx, tree, idToRaw, &rows[i]); err != nil {
			s.logger.Error("部门信息更新失败",
				zap.String("raw_id", rows[i].RawID),
				zap.String("name", rows[i].Name),
				zap.Error(err))
			return nil, err
		}
	}

	if err := s.recomputeAdministrative(ctx, tx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *syncService) applyDepartmentRow(ctx context.Context, tx *repository.Repository, tree *OrgTree, idToRaw map[string]string, row *model.RawDepartment) error {
	dept, created, err := s.findOrCreateDepartment(ctx, tx, row.RawID, row.Name)
	if err != nil {
		return err
	}
	idToRaw[dept.DepartmentID] = dept.RawDepartmentID

	// 隶属单位号缺省挂学校根节点
	superRawID := row.SuperRawID
	if superRawID == "" {
		superRawID = s.cfg.SchoolRawID
	}

	parent, ok := tree.Get(superRawID)
	if !ok {
		// 父节点未建档：从落地表取名建档，父链待其自身行补齐
		superRow, err := tx.RawInfo.GetDepartmentByRawID(ctx, superRawID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("隶属单位 %s: %w", superRawID, ErrSyncUnknownSuperDepartment)
			}
			return err
		}
		parent, _, err = s.findOrCreateDepartment(ctx, tx, superRow.RawID, superRow.Name)
		if err != nil {
			return err
		}
		idToRaw[parent.DepartmentID] = parent.RawDepartmentID
		tree.Add(parent, "")
	}

	changed := false

	// 父子关系变动
	currentSuperRawID := ""
	if dept.SuperDepartmentID != nil {
		currentSuperRawID = idToRaw[*dept.SuperDepartmentID]
	}
	if currentSuperRawID != superRawID {
		// 挂靠关系改变：旧父节点子树下所有用户撤出成员组并与部门
		// 解绑，等待本轮教师同步按新父链重新归属
		if !created && currentSuperRawID != "" {
			if err := s.evictSubtreeUsers(ctx, tx, tree, currentSuperRawID); err != nil {
				return err
			}
		}
		superID := parent.DepartmentID
		dept.SuperDepartmentID = &superID
		changed = true
	}

	if created {
		tree.Add(dept, superRawID)
	} else {
		tree.SetParent(dept.RawDepartmentID, superRawID)
	}

	// 改名只重写权限组展示键，组身份与成员不动
	if dept.Name != row.Name {
		groups, err := tx.Group.ListByDepartment(ctx, dept.DepartmentID)
		if err != nil {
			return err
		}
		for i := range groups {
			displayName := model.GroupDisplayName(row.Name, dept.RawDepartmentID, groups[i].Role)
			if err := tx.Group.UpdateDisplayName(ctx, groups[i].GroupID, displayName); err != nil {
				return err
			}
		}
		dept.Name = row.Name
		changed = true
	}

	if row.TypeCode != "" && dept.DepartmentType != row.TypeCode {
		dept.DepartmentType = row.TypeCode
		changed = true
	}

	if changed {
		return tx.Department.Update(ctx, dept)
	}
	return nil
}

// findOrCreateDepartment 按单位号查找部门，不存在则建档并同时
// 创建管理员、专任教师两个权限组与模型级授权
func (s *syncService) findOrCreateDepartment(ctx context.Context, tx *repository.Repository, rawID, name string) (*model.Department, bool, error) {
	dept, err := tx.Department.GetByRawID(ctx, rawID)
	if err == nil {
		return dept, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	dept = &model.Department{RawDepartmentID: rawID, Name: name}
	if err := tx.Department.Create(ctx, dept); err != nil {
		return nil, false, err
	}
	for _, role := range []string{model.GroupRoleAdmin, model.GroupRoleMember} {
		group := &model.AuthGroup{
			DepartmentID: dept.DepartmentID,
			Role:         role,
			DisplayName:  model.GroupDisplayName(name, rawID, role),
		}
		if err := tx.Group.Create(ctx, group); err != nil {
			return nil, false, err
		}
		if err := s.perms.AssignModelPermsForGroup(ctx, tx, group); err != nil {
			return nil, false, err
		}
	}
	return dept, true, nil
}

// evictSubtreeUsers 将旧父节点子树下的所有用户撤出专任教师组
// 并解除部门归属
func (s *syncService) evictSubtreeUsers(ctx context.Context, tx *repository.Repository, tree *OrgTree, subtreeRawID string) error {
	depts := tree.Descendants(subtreeRawID)
	if len(depts) == 0 {
		return nil
	}
	deptIDs := make([]string, 0, len(depts))
	for _, dept := range depts {
		deptIDs = append(deptIDs, dept.DepartmentID)
	}
	users, err := tx.User.ListByDepartmentIDs(ctx, deptIDs)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	userIDs := make([]string, 0, len(users))
	for i := range users {
		userIDs = append(userIDs, users[i].UserID)
	}
	if err := tx.Group.RemoveUsersFromRole(ctx, userIDs, model.GroupRoleMember); err != nil {
		return err
	}
	return tx.User.DetachDepartment(ctx, userIDs)
}

// recomputeAdministrative 全量扫描结束后统一重算管理单位缓存。
// 校区与二级部门以自身为管理单位，其余节点取最近满足条件的祖先；
// 环路或断链视为数据完整性故障，终止本轮同步。
func (s *syncService) recomputeAdministrative(ctx context.Context, tx *repository.Repository, tree *OrgTree) error {
	for _, rawID := range tree.RawIDs() {
		dept, _ := tree.Get(rawID)
		admin, err := tree.ResolveAdministrative(rawID)
		if err != nil {
			s.logger.Error("管理单位解析失败", zap.String("raw_id", rawID), zap.Error(err))
			return err
		}
		if dept.AdministrativeDepartmentID != nil && *dept.AdministrativeDepartmentID == admin.DepartmentID {
			continue
		}
		adminID := admin.DepartmentID
		dept.AdministrativeDepartmentID = &adminID
		if err := tx.Department.Update(ctx, dept); err != nil {
			return err
		}
	}
	return nil
}

// ────────────────────── 教职工同步 ──────────────────────

func (s *syncService) syncTeachers(ctx context.Context, tx *repository.Repository, tree *OrgTree) error {
	rows, err := tx.RawInfo.ListTeachers(ctx)
	if err != nil {
		return err
	}
	for i := range rows {
		if err := s.applyTeacherRow(ctx, tx, tree, &rows[i]); err != nil {
			s.logger.Error("教职工信息更新失败",
				zap.String("employee_id", rows[i].EmployeeID),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *syncService) applyTeacherRow(ctx context.Context, tx *repository.Repository, tree *OrgTree, row *model.RawTeacher) error {
	user, err := tx.User.GetByUsername(ctx, row.EmployeeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user = &model.User{Username: row.EmployeeID}
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
	}

	user.FirstName = row.Name
	user.Gender = model.GenderChoicesMap[codeOrRaw(genderCodeTable, row.GenderCode)]
	user.Age = ageFromBirthDate(row.BirthDate)
	user.TenureStatus = codeOrRaw(tenureStatusCodeTable, row.TenureStatusCode)
	user.EducationBackground = codeOrRaw(educationCodeTable, row.EducationCode)
	user.TechnicalTitle = row.TitleCode
	user.TeachingType = codeOrRaw(teachingTypeCodeTable, row.TeachingTypeCode)
	user.CellPhoneNumber = row.Phone
	user.Email = row.Email
	if onboard, err := time.Parse("2006-01-02", row.OnboardDate); err == nil {
		user.OnboardTime = &onboard
	}

	dept, ok := tree.Get(row.DepartmentRawID)
	if !ok {
		// 教职工挂在未知单位下不终止整轮同步：
		// 撤出成员组、解除归属，等单位信息补齐后下一轮再归属
		s.logger.Warn("教职工所属单位不存在，暂挂",
			zap.String("employee_id", row.EmployeeID),
			zap.String("department_raw_id", row.DepartmentRawID))
		if err := tx.Group.RemoveUsersFromRole(ctx, []string{user.UserID}, model.GroupRoleMember); err != nil {
			return err
		}
		user.DepartmentID = nil
		user.AdministrativeDepartmentID = nil
		return tx.User.Update(ctx, user)
	}

	if user.DepartmentID == nil || *user.DepartmentID != dept.DepartmentID {
		if err := s.rehomeUser(ctx, tx, tree, user, dept); err != nil {
			return err
		}
	}
	return tx.User.Update(ctx, user)
}

// rehomeUser 调整用户的部门归属：撤出全部旧成员组，
// 再沿新部门父链（直接部门到管理单位，含两端）逐级加入成员组
func (s *syncService) rehomeUser(ctx context.Context, tx *repository.Repository, tree *OrgTree, user *model.User, dept *model.Department) error {
	if err := tx.Group.RemoveUsersFromRole(ctx, []string{user.UserID}, model.GroupRoleMember); err != nil {
		return err
	}

	admin, err := tree.ResolveAdministrative(dept.RawDepartmentID)
	if err != nil {
		return err
	}
	chain, err := tree.AncestorChain(dept.RawDepartmentID)
	if err != nil {
		return err
	}
	for _, rawID := range chain {
		node, _ := tree.Get(rawID)
		group, err := tx.Group.GetByDepartmentAndRole(ctx, node.DepartmentID, model.GroupRoleMember)
		if err != nil {
			return err
		}
		if err := tx.Group.AddUserToGroup(ctx, user.UserID, group.GroupID); err != nil {
			return err
		}
		if rawID == admin.RawDepartmentID {
			break
		}
	}

	deptID := dept.DepartmentID
	adminID := admin.DepartmentID
	user.DepartmentID = &deptID
	user.AdministrativeDepartmentID = &adminID
	return nil
}

// ageFromBirthDate 按出生日期粗算周岁，解析失败返回 0
func ageFromBirthDate(birthDate string) int {
	birth, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0
	}
	now := time.Now()
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
