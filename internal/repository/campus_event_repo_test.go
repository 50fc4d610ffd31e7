package repository

import (
	"context"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDryRunDB 返回只生成 SQL 不执行的会话，用于校验语句形态
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=tmsftt dbname=tmsftt sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("初始化 DryRun 会话失败: %v", err)
	}
	return db
}

// 报名容量检查依赖行级锁，锁语句必须真实出现在 SQL 中
func TestGetByIDForUpdateAppendsRowLock(t *testing.T) {
	db := newDryRunDB(t)

	var captured string
	err := db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	})
	if err != nil {
		t.Fatalf("注册 SQL 捕获回调失败: %v", err)
	}

	repo := NewCampusEventRepo(db)
	ctx := context.Background()

	repo.GetByIDForUpdate(ctx, "4cbcbedb-44d3-4b7b-a9bb-9322255f40e4")
	if !strings.Contains(captured, `FROM "campus_events"`) {
		t.Fatalf("应查询 campus_events 表, 实际: %s", captured)
	}
	if !strings.HasSuffix(captured, "FOR UPDATE") {
		t.Errorf("行锁查询应以 FOR UPDATE 收尾, 实际: %s", captured)
	}

	repo.GetByID(ctx, "4cbcbedb-44d3-4b7b-a9bb-9322255f40e4")
	if strings.Contains(captured, "FOR UPDATE") {
		t.Errorf("普通查询不应携带行锁, 实际: %s", captured)
	}
}
