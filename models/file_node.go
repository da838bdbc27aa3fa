package models

import "time"

const (
	KindFolder = "folder"
	KindFile   = "file"
)

const (
	CategoryImage    = "image"
	CategoryVideo    = "video"
	CategoryAudio    = "audio"
	CategoryDocument = "document"
	CategoryPDF      = "pdf"
	CategoryNote     = "note"
	CategoryOther    = "other"
)

// FileNode 文件层级中的一个节点，文件和文件夹共用一张表。
// LockSecret 仅保存 bcrypt 哈希，永远不会出现在 JSON 响应中。
type FileNode struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null;index:idx_owner_name" json:"name"`
	Kind          string    `gorm:"type:varchar(10);not null;index" json:"kind"`
	Category      string    `gorm:"type:varchar(20);default:other" json:"category"`
	Size          int64     `gorm:"default:0" json:"size"`
	StoragePath   string    `gorm:"type:varchar(1000);not null" json:"storage_path"`
	ThumbnailPath string    `gorm:"type:varchar(1000)" json:"thumbnail_path,omitempty"`
	ParentID      *uint     `gorm:"index" json:"parent_id"`
	OwnerID       uint      `gorm:"not null;index:idx_owner_name" json:"owner_id"`
	IsFavorite    bool      `gorm:"default:false" json:"is_favorite"`
	IsHidden      bool      `gorm:"default:false" json:"is_hidden"`
	IsLocked      bool      `gorm:"default:false" json:"is_locked"`
	LockSecret    string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
