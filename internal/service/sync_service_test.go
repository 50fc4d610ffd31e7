package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tmsftt/backend/config"
	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
	"tmsftt/backend/pkg/apperrors"
)

func setupTestSyncService() (SyncService, *repository.Repository, *testRepos) {
	repo, mocks := newTestRepos()
	cfg := &config.SyncConfig{SchoolRawID: "10141", SchoolName: "大连理工大学"}
	perms := NewPermissionService(zap.NewNop())
	return NewSyncService(cfg, repo, perms, zap.NewNop()), repo, mocks
}

func TestSyncCreatesDepartmentsAndGroups(t *testing.T) {
	svc, repo, mocks := setupTestSyncService()
	ctx := context.Background()

	mocks.rawInfo.departments = []model.RawDepartment{
		{RawID: "22", Name: "创新创业学院", TypeCode: "T3", SuperRawID: "10141"},
	}

	if err := svc.SyncTeachersAndDepartments(ctx); err != nil {
		t.Fatalf("同步应成功: %v", err)
	}

	school, err := repo.Department.GetByRawID(ctx, "10141")
	if err != nil {
		t.Fatalf("学校根节点应已建档: %v", err)
	}
	dept, err := repo.Department.GetByRawID(ctx, "22")
	if err != nil {
		t.Fatalf("部门 22 应已建档: %v", err)
	}
	if dept.SuperDepartmentID == nil || *dept.SuperDepartmentID != school.DepartmentID {
		t.Errorf("部门 22 应隶属学校根节点")
	}
	if dept.AdministrativeDepartmentID == nil || *dept.AdministrativeDepartmentID != dept.DepartmentID {
		t.Errorf("根的直接子节点应以自身为管理单位")
	}
	if dept.DepartmentType != "T3" {
		t.Errorf("单位类型应为 T3, 实际 %s", dept.DepartmentType)
	}

	// 建档同时创建两个权限组并写入模型级授权
	adminGroup, err := repo.Group.GetByDepartmentAndRole(ctx, dept.DepartmentID, model.GroupRoleAdmin)
	if err != nil {
		t.Fatalf("管理员组应已创建: %v", err)
	}
	if adminGroup.DisplayName != "创新创业学院-22-管理员" {
		t.Errorf("管理员组展示键错误: %s", adminGroup.DisplayName)
	}
	memberGroup, err := repo.Group.GetByDepartmentAndRole(ctx, dept.DepartmentID, model.GroupRoleMember)
	if err != nil {
		t.Fatalf("专任教师组应已创建: %v", err)
	}
	if memberGroup.DisplayName != "创新创业学院-22-专任教师" {
		t.Errorf("专任教师组展示键错误: %s", memberGroup.DisplayName)
	}

	perms, err := repo.Permission.ListGroupModelPermissions(ctx, adminGroup.GroupID)
	if err != nil {
		t.Fatalf("查询模型级授权失败: %v", err)
	}
	found := false
	for _, p := range perms {
		if p.Model == model.ModelCampusEvent && p.Action == model.ActionReview {
			found = true
		}
	}
	if !found {
		t.Errorf("管理员组应具备校内活动审核的模型级授权")
	}
}

func TestSyncTeacherMembershipChain(t *testing.T) {
	svc, repo, mocks := setupTestSyncService()
	ctx := context.Background()

	mocks.rawInfo.departments = []model.RawDepartment{
		{RawID: "22", Name: "创新创业学院", SuperRawID: "10141"},
		{RawID: "2201", Name: "创新创业学院基础部", SuperRawID: "22"},
	}
	mocks.rawInfo.teachers = []model.RawTeacher{
		{
			EmployeeID:       "1001",
			Name:             "张三",
			GenderCode:       "1",
			BirthDate:        "1985-06-01",
			DepartmentRawID:  "2201",
			OnboardDate:      "2010-09-01",
			TenureStatusCode: "11",
			EducationCode:    "11",
			TeachingTypeCode: "1",
		},
	}

	if err := svc.SyncTeachersAndDepartments(ctx); err != nil {
		t.Fatalf("同步应成功: %v", err)
	}

	user, err := repo.User.GetByUsername(ctx, "1001")
	if err != nil {
		t.Fatalf("教职工应已建档: %v", err)
	}
	if user.FirstName != "张三" || user.Gender != model.GenderMale {
		t.Errorf("基本信息同步错误: name=%s gender=%d", user.FirstName, user.Gender)
	}
	if user.TenureStatus != "在职" || user.EducationBackground != "博士研究生" || user.TeachingType != "专任教师" {
		t.Errorf("代码表转换错误: %s / %s / %s", user.TenureStatus, user.EducationBackground, user.TeachingType)
	}
	if user.OnboardTime == nil || user.OnboardTime.Year() != 2010 {
		t.Errorf("入校时间解析错误: %v", user.OnboardTime)
	}

	section, _ := repo.Department.GetByRawID(ctx, "2201")
	faculty, _ := repo.Department.GetByRawID(ctx, "22")
	if user.DepartmentID == nil || *user.DepartmentID != section.DepartmentID {
		t.Errorf("直接所属单位应为基础部")
	}
	if user.AdministrativeDepartmentID == nil || *user.AdministrativeDepartmentID != faculty.DepartmentID {
		t.Errorf("管理单位应为学部")
	}

	// 成员组覆盖直接部门到管理单位（含两端），不含学校根节点
	groups, err := repo.Group.ListUserGroups(ctx, user.UserID)
	if err != nil {
		t.Fatalf("查询用户权限组失败: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("应加入 2 个成员组, 实际 %d", len(groups))
	}
	deptIDs := map[string]bool{}
	for _, g := range groups {
		if g.Role != model.GroupRoleMember {
			t.Errorf("同步只应加入专任教师组, 实际 %s", g.Role)
		}
		deptIDs[g.DepartmentID] = true
	}
	if !deptIDs[section.DepartmentID] || !deptIDs[faculty.DepartmentID] {
		t.Errorf("成员组应覆盖基础部与学部")
	}
}

func TestSyncUnknownSuperDepartmentAborts(t *testing.T) {
	svc, _, mocks := setupTestSyncService()
	ctx := context.Background()

	mocks.rawInfo.departments = []model.RawDepartment{
		{RawID: "33", Name: "软件学院", SuperRawID: "99"},
	}

	err := svc.SyncTeachersAndDepartments(ctx)
	if !errors.Is(err, ErrSyncUnknownSuperDepartment) {
		t.Errorf("隶属单位缺失应终止同步, 实际 %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("隶属单位缺失应归类为未找到, 实际 %v", apperrors.KindOf(err))
	}
}

func TestSyncRenameRewritesDisplayName(t *testing.T) {
	svc, repo, mocks := setupTestSyncService()
	ctx := context.Background()

	mocks.rawInfo.departments = []model.RawDepartment{
		{RawID: "22", Name: "创新创业学院", SuperRawID: "10141"},
	}
	mocks.rawInfo.teachers = []model.RawTeacher{
		{EmployeeID: "1001", Name: "张三", DepartmentRawID: "22"},
	}
	if err := svc.SyncTeachersAndDepartments(ctx); err != nil {
		t.Fatalf("首轮同步应成功: %v", err)
	}
	dept, _ := repo.Department.GetByRawID(ctx, "22")
	adminGroup, _ := repo.Group.GetByDepartmentAndRole(ctx, dept.DepartmentID, model.GroupRoleAdmin)
	originalGroupID := adminGroup.GroupID

	// 部门改名后再同步
	mocks.rawInfo.departments = []model.RawDepartment{
		{RawID: "22", Name: "未来技术学院", SuperRawID: "10141"},
	}
	if err := svc.SyncTeachersAndDepartments(ctx); err != nil {
		t.Fatalf("第二轮同步应成功: %v", err)
	}

	dept, _ = repo.Department.GetByRawID(ctx, "22")
	if dept.Name != "未来技术学院" {
		t.Errorf("部门名应已更新, 实际 %s", dept.Name)
	}
	adminGroup, err := repo.Group.GetByDepartmentAndRole(ctx, dept.DepartmentID, model.GroupRoleAdmin)
	if err != nil {
		t.Fatalf("管理员组应仍然存在: %v", err)
	}
	if adminGroup.GroupID != originalGroupID {
		t.Errorf("改名不应改变组身份")
	}
	if adminGroup.DisplayName != "未来技术学院-22-管理员" {
		t.Errorf("展示键应已重写, 实际 %s", adminGroup.DisplayName)
	}

	// 成员关系与授权随组身份保留
	user, _ := repo.User.GetByUsername(ctx, "1001")
	groups, _ := repo.Group.ListUserGroups(ctx, user.UserID)
	kept := false
	for _, g := range groups {
		if g.DepartmentID == dept.DepartmentID && g.Role == model.GroupRoleMember {
			kept = true
		}
	}
	if !kept {
		t.Errorf("改名后成员关系应保留")
	}
	perms, _ := repo.Permission.ListGroupModelPermissions(ctx, adminGroup.GroupID)
	if len(perms) == 0 {
		t.Errorf("改名后模型级授权应保留")
	}
}

func TestSyncParentChangeRehomesUsers(t *testing.T) {
	svc, repo, mocks := setupTestSyncService()
	ctx := context.Background()

	mocks.rawInfo.departments = []model.RawDepartment{
		{RawID: "22", Name: "创新创业学院", SuperRawID: "10141"},
		{RawID: "33", Name: "软件学院", SuperRawID: "10141"},
		{RawID: "2201", Name: "基础部", SuperRawID: "22"},
	}
	mocks.rawInfo.teachers = []model.RawTeacher{
		{EmployeeID: "1001", Name: "张三", DepartmentRawID: "2201"},
	}
	if err := svc.SyncTeachersAndDepartments(ctx); err != nil {
		t.Fatalf("首轮同步应成功: %v", err)
	}

	// 基础部改挂软件学院
	mocks.rawInfo.departments = []model.RawDepartment{
		{RawID: "22", Name: "创新创业学院", SuperRawID: "10141"},
		{RawID: "33", Name: "软件学院", SuperRawID: "10141"},
		{RawID: "2201", Name: "基础部", SuperRawID: "33"},
	}
	if err := svc.SyncTeachersAndDepartments(ctx); err != nil {
		t.Fatalf("第二轮同步应成功: %v", err)
	}

	section, _ := repo.Department.GetByRawID(ctx, "2201")
	oldFaculty, _ := repo.Department.GetByRawID(ctx, "22")
	newFaculty, _ := repo.Department.GetByRawID(ctx, "33")

	if section.SuperDepartmentID == nil || *section.SuperDepartmentID != newFaculty.DepartmentID {
		t.Errorf("基础部应已改挂软件学院")
	}
	if section.AdministrativeDepartmentID == nil || *section.AdministrativeDepartmentID != newFaculty.DepartmentID {
		t.Errorf("改挂后管理单位缓存应重算为软件学院")
	}

	user, _ := repo.User.GetByUsername(ctx, "1001")
	if user.AdministrativeDepartmentID == nil || *user.AdministrativeDepartmentID != newFaculty.DepartmentID {
		t.Errorf("用户的管理单位应随改挂更新")
	}
	groups, _ := repo.Group.ListUserGroups(ctx, user.UserID)
	deptIDs := map[string]bool{}
	for _, g := range groups {
		deptIDs[g.DepartmentID] = true
	}
	if deptIDs[oldFaculty.DepartmentID] {
		t.Errorf("用户应已撤出旧学部的成员组")
	}
	if !deptIDs[section.DepartmentID] || !deptIDs[newFaculty.DepartmentID] {
		t.Errorf("用户应加入基础部与新学部的成员组")
	}
}

func TestSyncUnknownTeacherDepartmentTolerated(t *testing.T) {
	svc, repo, mocks := setupTestSyncService()
	ctx := context.Background()

	mocks.rawInfo.teachers = []model.RawTeacher{
		{EmployeeID: "1001", Name: "张三", DepartmentRawID: "999"},
	}

	// 所属单位缺失不终止整轮同步
	if err := svc.SyncTeachersAndDepartments(ctx); err != nil {
		t.Fatalf("同步应成功: %v", err)
	}
	user, err := repo.User.GetByUsername(ctx, "1001")
	if err != nil {
		t.Fatalf("教职工应已建档: %v", err)
	}
	if user.DepartmentID != nil || user.AdministrativeDepartmentID != nil {
		t.Errorf("所属单位缺失时应暂挂, 不应绑定部门")
	}
}
