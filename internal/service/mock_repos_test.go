package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tmsftt/backend/internal/model"
	"tmsftt/backend/internal/repository"
)

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = uuid.New().String()
	}
	for _, d := range m.departments {
		if d.RawDepartmentID == dept.RawDepartmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByRawID(_ context.Context, rawID string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.RawDepartmentID == rawID {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) ListAll(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDepartmentRepo) ListChildren(_ context.Context, superID string) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		if d.SuperDepartmentID != nil && *d.SuperDepartmentID == superID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.departments[dept.DepartmentID] = dept
	return nil
}

// ── Mock AuthGroupRepository ──

type mockAuthGroupRepo struct {
	groups      map[string]*model.AuthGroup
	memberships map[string]map[string]bool // userID → groupID 集合
}

func newMockAuthGroupRepo() *mockAuthGroupRepo {
	return &mockAuthGroupRepo{
		groups:      make(map[string]*model.AuthGroup),
		memberships: make(map[string]map[string]bool),
	}
}

func (m *mockAuthGroupRepo) Create(_ context.Context, group *model.AuthGroup) error {
	if group.GroupID == "" {
		group.GroupID = uuid.New().String()
	}
	for _, g := range m.groups {
		if g.DepartmentID == group.DepartmentID && g.Role == group.Role {
			return gorm.ErrDuplicatedKey
		}
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockAuthGroupRepo) GetByID(_ context.Context, id string) (*model.AuthGroup, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAuthGroupRepo) GetByDepartmentAndRole(_ context.Context, departmentID, role string) (*model.AuthGroup, error) {
	for _, g := range m.groups {
		if g.DepartmentID == departmentID && g.Role == role {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAuthGroupRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.AuthGroup, error) {
	var result []model.AuthGroup
	for _, g := range m.groups {
		if g.DepartmentID == departmentID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockAuthGroupRepo) UpdateDisplayName(_ context.Context, groupID, displayName string) error {
	if g, ok := m.groups[groupID]; ok {
		g.DisplayName = displayName
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAuthGroupRepo) AddUserToGroup(_ context.Context, userID, groupID string) error {
	if m.memberships[userID] == nil {
		m.memberships[userID] = make(map[string]bool)
	}
	m.memberships[userID][groupID] = true
	return nil
}

func (m *mockAuthGroupRepo) RemoveUserFromGroup(_ context.Context, userID, groupID string) error {
	delete(m.memberships[userID], groupID)
	return nil
}

func (m *mockAuthGroupRepo) RemoveUsersFromGroups(_ context.Context, userIDs, groupIDs []string) error {
	for _, userID := range userIDs {
		for _, groupID := range groupIDs {
			delete(m.memberships[userID], groupID)
		}
	}
	return nil
}

func (m *mockAuthGroupRepo) RemoveUsersFromRole(_ context.Context, userIDs []string, role string) error {
	for _, userID := range userIDs {
		for groupID := range m.memberships[userID] {
			if g, ok := m.groups[groupID]; ok && g.Role == role {
				delete(m.memberships[userID], groupID)
			}
		}
	}
	return nil
}

func (m *mockAuthGroupRepo) ListUserGroups(_ context.Context, userID string) ([]model.AuthGroup, error) {
	var result []model.AuthGroup
	for groupID := range m.memberships[userID] {
		if g, ok := m.groups[groupID]; ok {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockAuthGroupRepo) ListGroupUserIDs(_ context.Context, groupID string) ([]string, error) {
	var result []string
	for userID, groups := range m.memberships {
		if groups[groupID] {
			result = append(result, userID)
		}
	}
	return result, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByDepartmentIDs(_ context.Context, departmentIDs []string) ([]model.User, error) {
	idSet := make(map[string]bool, len(departmentIDs))
	for _, id := range departmentIDs {
		idSet[id] = true
	}
	var result []model.User
	for _, u := range m.users {
		if u.DepartmentID != nil && idSet[*u.DepartmentID] {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListByAdministrativeDepartment(_ context.Context, departmentID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.AdministrativeDepartmentID != nil && *u.AdministrativeDepartmentID == departmentID {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) DetachDepartment(_ context.Context, userIDs []string) error {
	for _, id := range userIDs {
		if u, ok := m.users[id]; ok {
			u.DepartmentID = nil
			u.AdministrativeDepartmentID = nil
		}
	}
	return nil
}

// ── Mock RawInfoRepository ──

type mockRawInfoRepo struct {
	departments []model.RawDepartment
	teachers    []model.RawTeacher
}

func newMockRawInfoRepo() *mockRawInfoRepo {
	return &mockRawInfoRepo{}
}

func (m *mockRawInfoRepo) ListDepartments(_ context.Context) ([]model.RawDepartment, error) {
	return m.departments, nil
}

func (m *mockRawInfoRepo) ListTeachers(_ context.Context) ([]model.RawTeacher, error) {
	return m.teachers, nil
}

func (m *mockRawInfoRepo) GetDepartmentByRawID(_ context.Context, rawID string) (*model.RawDepartment, error) {
	for i := range m.departments {
		if m.departments[i].RawID == rawID {
			return &m.departments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CampusEventRepository ──

type mockCampusEventRepo struct {
	events map[string]*model.CampusEvent
}

func newMockCampusEventRepo() *mockCampusEventRepo {
	return &mockCampusEventRepo{events: make(map[string]*model.CampusEvent)}
}

func (m *mockCampusEventRepo) Create(_ context.Context, event *model.CampusEvent) error {
	if event.CampusEventID == "" {
		event.CampusEventID = uuid.New().String()
	}
	m.events[event.CampusEventID] = event
	return nil
}

func (m *mockCampusEventRepo) GetByID(_ context.Context, id string) (*model.CampusEvent, error) {
	if e, ok := m.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCampusEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.CampusEvent, error) {
	return m.GetByID(ctx, id)
}

func (m *mockCampusEventRepo) Update(_ context.Context, event *model.CampusEvent) error {
	copied := *event
	m.events[event.CampusEventID] = &copied
	return nil
}

func (m *mockCampusEventRepo) List(_ context.Context) ([]model.CampusEvent, error) {
	var result []model.CampusEvent
	for _, e := range m.events {
		result = append(result, *e)
	}
	return result, nil
}

// ── Mock OffCampusEventRepository ──

type mockOffCampusEventRepo struct {
	events map[string]*model.OffCampusEvent
}

func newMockOffCampusEventRepo() *mockOffCampusEventRepo {
	return &mockOffCampusEventRepo{events: make(map[string]*model.OffCampusEvent)}
}

func (m *mockOffCampusEventRepo) Create(_ context.Context, event *model.OffCampusEvent) error {
	if event.OffCampusEventID == "" {
		event.OffCampusEventID = uuid.New().String()
	}
	m.events[event.OffCampusEventID] = event
	return nil
}

func (m *mockOffCampusEventRepo) GetByID(_ context.Context, id string) (*model.OffCampusEvent, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOffCampusEventRepo) Update(_ context.Context, event *model.OffCampusEvent) error {
	m.events[event.OffCampusEventID] = event
	return nil
}

// ── Mock EventCoefficientRepository ──

type mockEventCoefficientRepo struct {
	coefficients map[string]*model.EventCoefficient
}

func newMockEventCoefficientRepo() *mockEventCoefficientRepo {
	return &mockEventCoefficientRepo{coefficients: make(map[string]*model.EventCoefficient)}
}

func (m *mockEventCoefficientRepo) Create(_ context.Context, coefficient *model.EventCoefficient) error {
	if coefficient.EventCoefficientID == "" {
		coefficient.EventCoefficientID = uuid.New().String()
	}
	m.coefficients[coefficient.EventCoefficientID] = coefficient
	return nil
}

func (m *mockEventCoefficientRepo) GetByID(_ context.Context, id string) (*model.EventCoefficient, error) {
	if c, ok := m.coefficients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventCoefficientRepo) ListByCampusEvent(_ context.Context, campusEventID string) ([]model.EventCoefficient, error) {
	var result []model.EventCoefficient
	for _, c := range m.coefficients {
		if c.CampusEventID != nil && *c.CampusEventID == campusEventID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	campusRepo  *mockCampusEventRepo
}

func newMockEnrollmentRepo(campusRepo *mockCampusEventRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		enrollments: make(map[string]*model.Enrollment),
		campusRepo:  campusRepo,
	}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	for _, e := range m.enrollments {
		if e.CampusEventID == enrollment.CampusEventID && e.UserID == enrollment.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = uuid.New().String()
	}
	enrollment.CreatedAt = time.Now()
	m.enrollments[enrollment.EnrollmentID] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetByUserAndEvent(_ context.Context, userID, campusEventID string) (*model.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.CampusEventID == campusEventID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, id string) error {
	delete(m.enrollments, id)
	return nil
}

func (m *mockEnrollmentRepo) CountByEvent(_ context.Context, campusEventID string) (int64, error) {
	var count int64
	for _, e := range m.enrollments {
		if e.CampusEventID == campusEventID {
			count++
		}
	}
	return count, nil
}

func (m *mockEnrollmentRepo) ListEnrolledEventIDs(_ context.Context, userID string, campusEventIDs []string) (map[string]string, error) {
	idSet := make(map[string]bool, len(campusEventIDs))
	for _, id := range campusEventIDs {
		idSet[id] = true
	}
	result := make(map[string]string)
	for _, e := range m.enrollments {
		if e.UserID == userID && idSet[e.CampusEventID] {
			result[e.CampusEventID] = e.EnrollmentID
		}
	}
	return result, nil
}

func (m *mockEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.UserID != userID {
			continue
		}
		copied := *e
		if m.campusRepo != nil {
			if event, ok := m.campusRepo.events[e.CampusEventID]; ok {
				copied.CampusEvent = event
			}
		}
		result = append(result, copied)
	}
	return result, nil
}

// ── Mock RecordRepository ──

type mockRecordRepo struct {
	records   map[string]*model.Record
	logs      []model.StatusChangeLog
	feedbacks map[string]*model.CampusEventFeedback

	// 关联装配来源（模拟 Preload）
	userRepo        *mockUserRepo
	deptRepo        *mockDepartmentRepo
	campusRepo      *mockCampusEventRepo
	offCampusRepo   *mockOffCampusEventRepo
	coefficientRepo *mockEventCoefficientRepo
}

func newMockRecordRepo(userRepo *mockUserRepo, deptRepo *mockDepartmentRepo, campusRepo *mockCampusEventRepo, offCampusRepo *mockOffCampusEventRepo, coefficientRepo *mockEventCoefficientRepo) *mockRecordRepo {
	return &mockRecordRepo{
		records:         make(map[string]*model.Record),
		feedbacks:       make(map[string]*model.CampusEventFeedback),
		userRepo:        userRepo,
		deptRepo:        deptRepo,
		campusRepo:      campusRepo,
		offCampusRepo:   offCampusRepo,
		coefficientRepo: coefficientRepo,
	}
}

func (m *mockRecordRepo) Create(_ context.Context, record *model.Record) error {
	if record.RecordID == "" {
		record.RecordID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	m.records[record.RecordID] = record
	return nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id string) (*model.Record, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) GetOffCampusByID(_ context.Context, id string) (*model.Record, error) {
	if r, ok := m.records[id]; ok && r.CampusEventID == nil {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) Update(_ context.Context, record *model.Record) error {
	m.records[record.RecordID] = record
	return nil
}

func (m *mockRecordRepo) CreateStatusLog(_ context.Context, log *model.StatusChangeLog) error {
	log.LogID = uint(len(m.logs) + 1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockRecordRepo) ListStatusLogs(_ context.Context, recordID string) ([]model.StatusChangeLog, error) {
	var result []model.StatusChangeLog
	for _, log := range m.logs {
		if log.RecordID == recordID {
			result = append(result, log)
		}
	}
	return result, nil
}

func (m *mockRecordRepo) CreateFeedback(_ context.Context, feedback *model.CampusEventFeedback) error {
	if _, ok := m.feedbacks[feedback.RecordID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if feedback.FeedbackID == "" {
		feedback.FeedbackID = uuid.New().String()
	}
	m.feedbacks[feedback.RecordID] = feedback
	return nil
}

func (m *mockRecordRepo) CountWithoutFeedback(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, r := range m.records {
		if r.UserID == userID && r.Status == model.StatusFeedbackRequired {
			count++
		}
	}
	return count, nil
}

func (m *mockRecordRepo) ListCampusRecordsBetween(_ context.Context, adminDepartmentID string, start, end time.Time) ([]model.Record, error) {
	var result []model.Record
	for _, r := range m.records {
		if r.CampusEventID == nil {
			continue
		}
		event, ok := m.campusRepo.events[*r.CampusEventID]
		if !ok || event.Time.Before(start) || event.Time.After(end) {
			continue
		}
		copied, ok := m.assemble(r, adminDepartmentID)
		if !ok {
			continue
		}
		copied.CampusEvent = event
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockRecordRepo) ListOffCampusRecordsBetween(_ context.Context, adminDepartmentID string, start, end time.Time) ([]model.Record, error) {
	var result []model.Record
	for _, r := range m.records {
		if r.OffCampusEventID == nil || r.CampusEventID != nil {
			continue
		}
		event, ok := m.offCampusRepo.events[*r.OffCampusEventID]
		if !ok || event.Time.Before(start) || event.Time.After(end) {
			continue
		}
		copied, ok := m.assemble(r, adminDepartmentID)
		if !ok {
			continue
		}
		copied.OffCampusEvent = event
		result = append(result, copied)
	}
	return result, nil
}

// assemble 按管理单位过滤并装配 User 与 EventCoefficient 关联
func (m *mockRecordRepo) assemble(r *model.Record, adminDepartmentID string) (model.Record, bool) {
	user, ok := m.userRepo.users[r.UserID]
	if !ok || user.AdministrativeDepartmentID == nil {
		return model.Record{}, false
	}
	if adminDepartmentID != "" && *user.AdministrativeDepartmentID != adminDepartmentID {
		return model.Record{}, false
	}
	copied := *r
	copiedUser := *user
	if dept, ok := m.deptRepo.departments[*user.AdministrativeDepartmentID]; ok {
		copiedUser.AdministrativeDepartment = dept
	}
	copied.User = &copiedUser
	copied.EventCoefficient = m.coefficientRepo.coefficients[r.EventCoefficientID]
	return copied, true
}

// ── Mock PermissionRepository ──

type mockPermissionRepo struct {
	groupModelPerms  map[string]bool // groupID|model|action
	userObjectPerms  map[string]bool // userID|model|objectID|action
	groupObjectPerms map[string]bool // groupID|model|objectID|action
}

func newMockPermissionRepo() *mockPermissionRepo {
	return &mockPermissionRepo{
		groupModelPerms:  make(map[string]bool),
		userObjectPerms:  make(map[string]bool),
		groupObjectPerms: make(map[string]bool),
	}
}

func permKey(parts ...string) string {
	key := parts[0]
	for _, p := range parts[1:] {
		key += "|" + p
	}
	return key
}

func (m *mockPermissionRepo) AddGroupModelPermission(_ context.Context, perm *model.GroupModelPermission) error {
	m.groupModelPerms[permKey(perm.GroupID, perm.Model, perm.Action)] = true
	return nil
}

func (m *mockPermissionRepo) AddUserObjectPermission(_ context.Context, perm *model.UserObjectPermission) error {
	m.userObjectPerms[permKey(perm.UserID, perm.Model, perm.ObjectID, perm.Action)] = true
	return nil
}

func (m *mockPermissionRepo) AddGroupObjectPermission(_ context.Context, perm *model.GroupObjectPermission) error {
	m.groupObjectPerms[permKey(perm.GroupID, perm.Model, perm.ObjectID, perm.Action)] = true
	return nil
}

func (m *mockPermissionRepo) ListGroupModelPermissions(_ context.Context, groupID string) ([]model.GroupModelPermission, error) {
	var result []model.GroupModelPermission
	for key := range m.groupModelPerms {
		g, mod, action := splitPermKey3(key)
		if g == groupID {
			result = append(result, model.GroupModelPermission{GroupID: g, Model: mod, Action: action})
		}
	}
	return result, nil
}

func (m *mockPermissionRepo) ListUserObjectActions(_ context.Context, userID, modelName, objectID string) ([]string, error) {
	prefix := permKey(userID, modelName, objectID) + "|"
	return actionsWithPrefix(m.userObjectPerms, prefix), nil
}

func (m *mockPermissionRepo) ListGroupObjectActions(_ context.Context, groupID, modelName, objectID string) ([]string, error) {
	prefix := permKey(groupID, modelName, objectID) + "|"
	return actionsWithPrefix(m.groupObjectPerms, prefix), nil
}

func actionsWithPrefix(perms map[string]bool, prefix string) []string {
	var result []string
	for key := range perms {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			result = append(result, key[len(prefix):])
		}
	}
	return result
}

func splitPermKey3(key string) (string, string, string) {
	first, second := -1, -1
	for i, ch := range key {
		if ch != '|' {
			continue
		}
		if first < 0 {
			first = i
		} else {
			second = i
			break
		}
	}
	return key[:first], key[first+1 : second], key[second+1:]
}

// ── 聚合装配 ──

type testRepos struct {
	dept        *mockDepartmentRepo
	group       *mockAuthGroupRepo
	user        *mockUserRepo
	rawInfo     *mockRawInfoRepo
	campus      *mockCampusEventRepo
	offCampus   *mockOffCampusEventRepo
	coefficient *mockEventCoefficientRepo
	enrollment  *mockEnrollmentRepo
	record      *mockRecordRepo
	perm        *mockPermissionRepo
}

// newTestRepos 以 mock 实现装配 Repository 聚合。
// db 为空时 Transaction 以互斥锁串行执行闭包，与行锁语义一致。
func newTestRepos() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		dept:        newMockDepartmentRepo(),
		group:       newMockAuthGroupRepo(),
		user:        newMockUserRepo(),
		rawInfo:     newMockRawInfoRepo(),
		campus:      newMockCampusEventRepo(),
		offCampus:   newMockOffCampusEventRepo(),
		coefficient: newMockEventCoefficientRepo(),
		perm:        newMockPermissionRepo(),
	}
	mocks.enrollment = newMockEnrollmentRepo(mocks.campus)
	mocks.record = newMockRecordRepo(mocks.user, mocks.dept, mocks.campus, mocks.offCampus, mocks.coefficient)

	repo := &repository.Repository{
		Department:       mocks.dept,
		Group:            mocks.group,
		User:             mocks.user,
		RawInfo:          mocks.rawInfo,
		CampusEvent:      mocks.campus,
		OffCampusEvent:   mocks.offCampus,
		EventCoefficient: mocks.coefficient,
		Enrollment:       mocks.enrollment,
		Record:           mocks.record,
		Permission:       mocks.perm,
	}
	return repo, mocks
}
