package repository

import (
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
)

// CollectionRepository 收藏仓库
type CollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository 创建收藏仓库
func NewCollectionRepository() *CollectionRepository {
	return &CollectionRepository{db: database.GetDB()}
}

// Add 添加一条收藏记录
func (r *CollectionRepository) Add(userID int64, charID uint) error {
	entry := models.CollectionEntry{
		UserID: userID,
		CharID: charID,
	}
	return r.db.Create(&entry).Error
}

// Has 判断玩家是否已拥有该角色
func (r *CollectionRepository) Has(userID int64, charID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CollectionEntry{}).
		Where("user_id = ? AND char_id = ?", userID, charID).
		Count(&count).Error
	return count > 0, err
}

// RemoveOne 移除一条收藏（烧毁、交易用），返回是否移除成功
func (r *CollectionRepository) RemoveOne(userID int64, charID uint) (bool, error) {
	var entry models.CollectionEntry
	err := r.db.Where("user_id = ? AND char_id = ?", userID, charID).
		Order("id").First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	result := r.db.Delete(&models.CollectionEntry{}, entry.ID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetPage 分页获取玩家收藏，联表带出角色信息
func (r *CollectionRepository) GetPage(userID int64, page, pageSize int) ([]models.CollectionItem, int64, error) {
	var total int64
	err := r.db.Model(&models.CollectionEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var items []models.CollectionItem
	err = r.db.Table("collections").
		Select("collections.id AS entry_id, characters.id AS char_id, characters.name, characters.anime, characters.rarity, characters.image_url, characters.is_custom").
		Joins("JOIN characters ON characters.id = collections.char_id").
		Where("collections.user_id = ?", userID).
		Order("characters.rarity, characters.name, collections.id").
		Offset(page * pageSize).
		Limit(pageSize).
		Scan(&items).Error
	return items, total, err
}

// Count 玩家收藏总数
func (r *CollectionRepository) Count(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&models.CollectionEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountDistinct 玩家收藏的不同角色数
func (r *CollectionRepository) CountDistinct(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&models.CollectionEntry{}).
		Where("user_id = ?", userID).
		Distinct("char_id").
		Count(&count).Error
	return count, err
}

// RarityBreakdown 按稀有度统计玩家收藏
func (r *CollectionRepository) RarityBreakdown(userID int64) (map[string]int64, error) {
	type row struct {
		Rarity string
		Count  int64
	}
	var rows []row
	err := r.db.Table("collections").
		Select("characters.rarity, COUNT(*) AS count").
		Joins("JOIN characters ON characters.id = collections.char_id").
		Where("collections.user_id = ?", userID).
		Group("characters.rarity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	breakdown := make(map[string]int64, len(rows))
	for _, r := range rows {
		breakdown[r.Rarity] = r.Count
	}
	return breakdown, nil
}
