package repository

import (
	"time"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpawnRepository 刷新记录仓库
//
// 每个群同一时间只有一条刷新记录，token 标识具体某一次刷新，
// 抢到与过期清理都以 token 为准，避免跨次误伤。
type SpawnRepository struct {
	db *gorm.DB
}

// NewSpawnRepository 创建刷新仓库
func NewSpawnRepository() *SpawnRepository {
	return &SpawnRepository{db: database.GetDB()}
}

// Upsert 写入群内当前刷新，覆盖旧记录
func (r *SpawnRepository) Upsert(spawn *models.ActiveSpawn) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "group_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"char_id", "token", "message_id", "spawned_at", "caught_by",
		}),
	}).Create(spawn).Error
}

// GetActive 获取群内未被抢走的刷新
func (r *SpawnRepository) GetActive(groupID int64) (*models.ActiveSpawn, error) {
	var spawn models.ActiveSpawn
	err := r.db.
		Where("group_id = ? AND caught_by IS NULL", groupID).
		First(&spawn).Error
	if err != nil {
		return nil, err
	}
	return &spawn, nil
}

// AtomicClaim 原子抢夺
//
// 单条条件更新，只有第一个到达的玩家能把 caught_by 从 NULL 改成自己，
// 通过 RowsAffected 判定胜负。
func (r *SpawnRepository) AtomicClaim(groupID int64, token string, userID int64) (bool, error) {
	result := r.db.Model(&models.ActiveSpawn{}).
		Where("group_id = ? AND token = ? AND caught_by IS NULL", groupID, token).
		Update("caught_by", userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearIfMatches 按 token 清理刷新记录，抢到后的结算走这里
// token 不匹配说明已被新刷新覆盖，不动
func (r *SpawnRepository) ClearIfMatches(groupID int64, token string) (bool, error) {
	result := r.db.
		Where("group_id = ? AND token = ?", groupID, token).
		Delete(&models.ActiveSpawn{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearIfUnclaimed 过期清理专用
//
// 删除条件带 caught_by IS NULL，计时器读到未抢、删除前一瞬被人抢走时
// 这条删不动，过期与抢到只会发生其一。
func (r *SpawnRepository) ClearIfUnclaimed(groupID int64, token string) (bool, error) {
	result := r.db.
		Where("group_id = ? AND token = ? AND caught_by IS NULL", groupID, token).
		Delete(&models.ActiveSpawn{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteStale 清扫超过存活窗口的残留刷新（进程重启后的善后）
func (r *SpawnRepository) DeleteStale(before time.Time) (int64, error) {
	result := r.db.
		Where("spawned_at < ?", before).
		Delete(&models.ActiveSpawn{})
	return result.RowsAffected, result.Error
}
