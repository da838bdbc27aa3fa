package repositories

import (
	"context"

	"github.com/Rufidatul726/jotter-backend/models"

	"gorm.io/gorm"
)

type GormFileNodeRepository struct {
	db *gorm.DB
}

func NewGormFileNodeRepository(db *gorm.DB) *GormFileNodeRepository {
	return &GormFileNodeRepository{db: db}
}

func (r *GormFileNodeRepository) Create(_ context.Context, tx *gorm.DB, node *models.FileNode) error {
	return useTx(r.db, tx).Create(node).Error
}

func (r *GormFileNodeRepository) GetByIDAndOwner(_ context.Context, tx *gorm.DB, nodeID uint, ownerID uint) (models.FileNode, error) {
	var node models.FileNode
	err := useTx(r.db, tx).Where("id = ? AND owner_id = ?", nodeID, ownerID).First(&node).Error
	return node, err
}

func (r *GormFileNodeRepository) FindFolderByName(_ context.Context, tx *gorm.DB, ownerID uint, name string) (models.FileNode, error) {
	var node models.FileNode
	err := useTx(r.db, tx).
		Where("owner_id = ? AND kind = ? AND name = ?", ownerID, models.KindFolder, name).
		First(&node).Error
	return node, err
}

func (r *GormFileNodeRepository) ListByOwner(_ context.Context, tx *gorm.DB, ownerID uint, filter NodeFilter) ([]models.FileNode, error) {
	db := useTx(r.db, tx).Where("owner_id = ?", ownerID)
	if filter.Kind != "" {
		db = db.Where("kind = ?", filter.Kind)
	}
	if filter.Hidden != nil {
		db = db.Where("is_hidden = ?", *filter.Hidden)
	}
	if filter.Favorite != nil {
		db = db.Where("is_favorite = ?", *filter.Favorite)
	}
	if filter.ParentID != nil {
		db = db.Where("parent_id = ?", *filter.ParentID)
	}

	var nodes []models.FileNode
	err := db.Order("created_at DESC").Find(&nodes).Error
	return nodes, err
}

func (r *GormFileNodeRepository) UpdateByIDAndOwner(_ context.Context, tx *gorm.DB, nodeID uint, ownerID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.FileNode{}).
		Where("id = ? AND owner_id = ?", nodeID, ownerID).Updates(updates).Error
}

func (r *GormFileNodeRepository) DeleteByIDAndOwner(_ context.Context, tx *gorm.DB, nodeID uint, ownerID uint) error {
	return useTx(r.db, tx).Where("id = ? AND owner_id = ?", nodeID, ownerID).Delete(&models.FileNode{}).Error
}

func (r *GormFileNodeRepository) DeleteByOwner(_ context.Context, tx *gorm.DB, ownerID uint) error {
	return useTx(r.db, tx).Where("owner_id = ?", ownerID).Delete(&models.FileNode{}).Error
}

func (r *GormFileNodeRepository) CountChildren(_ context.Context, tx *gorm.DB, ownerID uint, parentID uint) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.FileNode{}).
		Where("owner_id = ? AND parent_id = ?", ownerID, parentID).Count(&count).Error
	return count, err
}
