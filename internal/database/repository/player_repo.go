package repository

import (
	"time"

	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerRepository 玩家仓库
type PlayerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository 创建玩家仓库
func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{db: database.GetDB()}
}

// EnsureExists 确保玩家记录存在，同时刷新用户名
func (r *PlayerRepository) EnsureExists(userID int64, username, firstName string) (*models.Player, error) {
	player := models.Player{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name"}),
	}).Create(&player).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(userID)
}

// GetByID 根据用户 ID 获取玩家
func (r *PlayerRepository) GetByID(userID int64) (*models.Player, error) {
	var player models.Player
	err := r.db.Where("user_id = ?", userID).First(&player).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// GetByUsername 根据用户名获取玩家
func (r *PlayerRepository) GetByUsername(username string) (*models.Player, error) {
	var player models.Player
	err := r.db.Where("username = ?", username).First(&player).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// AddCoins 增减金币，扣减时由数据库侧钳制到 0
func (r *PlayerRepository) AddCoins(userID int64, delta int64) error {
	return r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Update("coins", gorm.Expr("GREATEST(0, coins + ?)", delta)).Error
}

// DeductCoins 原子扣币，余额不足时不生效
// 返回是否扣减成功
func (r *PlayerRepository) DeductCoins(userID int64, amount int64) (bool, error) {
	result := r.db.Model(&models.Player{}).
		Where("user_id = ? AND coins >= ?", userID, amount).
		Update("coins", gorm.Expr("coins - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementCatches 捕获计数 +1 并发放奖励金币
func (r *PlayerRepository) IncrementCatches(userID int64, reward int64) error {
	return r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"catches": gorm.Expr("catches + 1"),
			"coins":   gorm.Expr("coins + ?", reward),
		}).Error
}

// SetLastDaily 更新每日签到时间
func (r *PlayerRepository) SetLastDaily(userID int64, t time.Time) error {
	return r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Update("last_daily", t).Error
}

// AddWin 胜场 +1
func (r *PlayerRepository) AddWin(userID int64) error {
	return r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Update("wins", gorm.Expr("wins + 1")).Error
}

// AddLoss 败场 +1
func (r *PlayerRepository) AddLoss(userID int64) error {
	return r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Update("losses", gorm.Expr("losses + 1")).Error
}

// SetBanned 设置封禁状态
func (r *PlayerRepository) SetBanned(userID int64, banned bool) error {
	return r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Update("banned", banned).Error
}

// SetMilestoneLevel 更新已达成的里程碑档位
func (r *PlayerRepository) SetMilestoneLevel(userID int64, level int) error {
	return r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Update("milestone_level", level).Error
}

// GetTopByCatches 按捕获数取排行榜
func (r *PlayerRepository) GetTopByCatches(limit int) ([]models.Player, error) {
	var players []models.Player
	err := r.db.
		Where("catches > 0 AND banned = ?", false).
		Order("catches DESC, user_id").
		Limit(limit).
		Find(&players).Error
	return players, err
}

// GetTopByCoins 按金币取富豪榜
func (r *PlayerRepository) GetTopByCoins(limit int) ([]models.Player, error) {
	var players []models.Player
	err := r.db.
		Where("coins > 0 AND banned = ?", false).
		Order("coins DESC, user_id").
		Limit(limit).
		Find(&players).Error
	return players, err
}

// AllIDs 全部未封禁玩家的 ID，广播用
func (r *PlayerRepository) AllIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&models.Player{}).
		Where("banned = ?", false).
		Pluck("user_id", &ids).Error
	return ids, err
}

// CountStats 玩家总数与总捕获数
func (r *PlayerRepository) CountStats() (total int64, totalCatches int64, err error) {
	if err = r.db.Model(&models.Player{}).Count(&total).Error; err != nil {
		return
	}
	var sum struct{ Total int64 }
	err = r.db.Model(&models.Player{}).
		Select("COALESCE(SUM(catches), 0) AS total").
		Scan(&sum).Error
	totalCatches = sum.Total
	return
}
