// Package repository 角色数据仓库
package repository

import (
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database"
	"github.com/nikhilgurjar7605-collab/waifu-bot/internal/database/models"
	"gorm.io/gorm"
)

// CharacterRepository 角色仓库
type CharacterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository 创建角色仓库
func NewCharacterRepository() *CharacterRepository {
	return &CharacterRepository{db: database.GetDB()}
}

// Create 创建角色
func (r *CharacterRepository) Create(char *models.Character) error {
	return r.db.Create(char).Error
}

// GetByID 根据 ID 获取角色
func (r *CharacterRepository) GetByID(id uint) (*models.Character, error) {
	var char models.Character
	err := r.db.Where("id = ?", id).First(&char).Error
	if err != nil {
		return nil, err
	}
	return &char, nil
}

// GetSpawnable 获取可刷新的角色（排除自定义/专属角色）
func (r *CharacterRepository) GetSpawnable() ([]models.Character, error) {
	var chars []models.Character
	err := r.db.Where("is_custom = ?", false).Find(&chars).Error
	return chars, err
}

// GetCustom 获取所有自定义角色
func (r *CharacterRepository) GetCustom() ([]models.Character, error) {
	var chars []models.Character
	err := r.db.Where("is_custom = ?", true).Order("created_at DESC").Find(&chars).Error
	return chars, err
}

// Search 按名称或出处模糊搜索普通角色
func (r *CharacterRepository) Search(query string) ([]models.Character, error) {
	var chars []models.Character
	q := "%" + query + "%"
	err := r.db.
		Where("(name LIKE ? OR anime LIKE ?) AND is_custom = ?", q, q, false).
		Find(&chars).Error
	return chars, err
}

// UpdateFields 更新指定字段
func (r *CharacterRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Character{}).Where("id = ?", id).Updates(updates).Error
}

// SetImage 设置角色图片
func (r *CharacterRepository) SetImage(id uint, imageURL string) error {
	return r.db.Model(&models.Character{}).Where("id = ?", id).Update("image_url", imageURL).Error
}

// Delete 删除角色并清理所有收藏引用
func (r *CharacterRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("char_id = ?", id).Delete(&models.CollectionEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Character{}, id).Error
	})
}

// Count 统计普通角色与自定义角色数量
func (r *CharacterRepository) Count() (normal int64, custom int64, err error) {
	if err = r.db.Model(&models.Character{}).Where("is_custom = ?", false).Count(&normal).Error; err != nil {
		return
	}
	err = r.db.Model(&models.Character{}).Where("is_custom = ?", true).Count(&custom).Error
	return
}

// ListPage 分页获取普通角色
func (r *CharacterRepository) ListPage(page, pageSize int) ([]models.Character, int64, error) {
	var chars []models.Character
	var total int64

	query := r.db.Model(&models.Character{}).Where("is_custom = ?", false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := page * pageSize
	err := query.Order("id").Offset(offset).Limit(pageSize).Find(&chars).Error
	return chars, total, err
}
