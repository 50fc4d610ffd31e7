package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB
	mu sync.Mutex

	Department       DepartmentRepository
	Group            AuthGroupRepository
	User             UserRepository
	RawInfo          RawInfoRepository
	CampusEvent      CampusEventRepository
	OffCampusEvent   OffCampusEventRepository
	EventCoefficient EventCoefficientRepository
	Enrollment       EnrollmentRepository
	Record           RecordRepository
	Permission       PermissionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:               db,
		Department:       NewDepartmentRepo(db),
		Group:            NewAuthGroupRepo(db),
		User:             NewUserRepo(db),
		RawInfo:          NewRawInfoRepo(db),
		CampusEvent:      NewCampusEventRepo(db),
		OffCampusEvent:   NewOffCampusEventRepo(db),
		EventCoefficient: NewEventCoefficientRepo(db),
		Enrollment:       NewEnrollmentRepo(db),
		Record:           NewRecordRepo(db),
		Permission:       NewPermissionRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn，fn 收到绑定该事务的聚合，
// fn 返回错误时整体回滚。
// db 为空时（单测以 mock 实现组装聚合）以互斥锁串行执行 fn，
// 模拟可串行化事务语义。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
