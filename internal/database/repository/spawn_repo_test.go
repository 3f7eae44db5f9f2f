package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlCapture 截获 gorm 生成的语句，配合 DryRun 模式验证条件，不触库
type sqlCapture struct {
	last string
}

func (l *sqlCapture) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }
func (l *sqlCapture) Info(context.Context, string, ...interface{})     {}
func (l *sqlCapture) Warn(context.Context, string, ...interface{})     {}
func (l *sqlCapture) Error(context.Context, string, ...interface{})    {}
func (l *sqlCapture) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	l.last, _ = fc()
}

func newDryRunSpawnRepo(t *testing.T) (*SpawnRepository, *sqlCapture) {
	t.Helper()
	capture := &sqlCapture{}
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "dry:run@tcp(127.0.0.1:3306)/dryrun",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 capture,
	})
	if err != nil {
		t.Fatalf("DryRun 连接初始化失败: %v", err)
	}
	return &SpawnRepository{db: db}, capture
}

// 过期清理必须带未抢判定，读到未抢后一瞬被人抢走时不能误删已抢记录
func TestClearIfUnclaimed_GuardsAgainstClaimed(t *testing.T) {
	repo, capture := newDryRunSpawnRepo(t)

	if _, err := repo.ClearIfUnclaimed(100, "tok-a"); err != nil {
		t.Fatalf("ClearIfUnclaimed error: %v", err)
	}
	if !strings.Contains(capture.last, "caught_by IS NULL") {
		t.Errorf("过期删除缺少未抢条件: %s", capture.last)
	}
	if !strings.Contains(capture.last, "token") {
		t.Errorf("过期删除缺少 token 对号: %s", capture.last)
	}
}

// 结算清理在抢到之后执行，此时 caught_by 已非空，只按 token 对号
func TestClearIfMatches_SettlesClaimedRow(t *testing.T) {
	repo, capture := newDryRunSpawnRepo(t)

	if _, err := repo.ClearIfMatches(100, "tok-a"); err != nil {
		t.Fatalf("ClearIfMatches error: %v", err)
	}
	if strings.Contains(capture.last, "caught_by") {
		t.Errorf("结算删除不应限定抢夺状态: %s", capture.last)
	}
	if !strings.Contains(capture.last, "token") {
		t.Errorf("结算删除缺少 token 对号: %s", capture.last)
	}
}

// 抢夺是单条条件更新，caught_by 从 NULL 置为玩家，胜负看 RowsAffected
func TestAtomicClaim_ConditionalUpdate(t *testing.T) {
	repo, capture := newDryRunSpawnRepo(t)

	won, err := repo.AtomicClaim(100, "tok-a", 42)
	if err != nil {
		t.Fatalf("AtomicClaim error: %v", err)
	}
	// DryRun 不执行，RowsAffected 恒为 0
	if won {
		t.Error("DryRun 下不应判胜")
	}
	if !strings.Contains(capture.last, "caught_by IS NULL") {
		t.Errorf("抢夺更新缺少未抢条件: %s", capture.last)
	}
	if !strings.Contains(strings.ToUpper(capture.last), "UPDATE") {
		t.Errorf("抢夺应是条件更新: %s", capture.last)
	}
}
