package repositories

import (
	"context"
	"errors"

	"github.com/Rufidatul726/jotter-backend/models"

	"gorm.io/gorm"
)

// ErrQuotaExceeded 原子配额检查失败时由 AddStorageUsedWithinQuota 返回。
var ErrQuotaExceeded = errors.New("storage quota exceeded")

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByEmail(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, userID uint, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, userID uint) error
	// AddStorageUsedWithinQuota 以单条条件 UPDATE 完成“检查并累加”，
	// 超出配额时返回 ErrQuotaExceeded 且不修改计数器。
	AddStorageUsedWithinQuota(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
	SubStorageUsed(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
}

// NodeFilter 按 kind 与标记位过滤属主的节点，nil 表示不限制。
type NodeFilter struct {
	Kind     string
	Hidden   *bool
	Favorite *bool
	ParentID *uint
}

type FileNodeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, node *models.FileNode) error
	GetByIDAndOwner(ctx context.Context, tx *gorm.DB, nodeID uint, ownerID uint) (models.FileNode, error)
	FindFolderByName(ctx context.Context, tx *gorm.DB, ownerID uint, name string) (models.FileNode, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uint, filter NodeFilter) ([]models.FileNode, error)
	UpdateByIDAndOwner(ctx context.Context, tx *gorm.DB, nodeID uint, ownerID uint, updates map[string]interface{}) error
	DeleteByIDAndOwner(ctx context.Context, tx *gorm.DB, nodeID uint, ownerID uint) error
	DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uint) error
	CountChildren(ctx context.Context, tx *gorm.DB, ownerID uint, parentID uint) (int64, error)
}

// StorageUsage 存储用量缓存条目，命中时可完全跳过用户表查询。
type StorageUsage struct {
	Used  int64
	Quota int64
}

type UsageCacheRepository interface {
	Get(ctx context.Context, userID uint) (StorageUsage, bool, error)
	Set(ctx context.Context, userID uint, usage StorageUsage, expireSeconds int) error
	Invalidate(ctx context.Context, userID uint) error
}

type Container struct {
	TxManager  TxManager
	Users      UserRepository
	Nodes      FileNodeRepository
	UsageCache UsageCacheRepository
}
