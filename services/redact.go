package services

import (
	"time"

	"github.com/Rufidatul726/jotter-backend/models"
)

// LockedPathSentinel 替换已锁定文件对外暴露的存储路径。
const LockedPathSentinel = "locked"

// RedactedNode 是 FileNode 的对外投影：锁定文件的路径被哨兵值替换，
// 锁定密码哈希永远不出现。投影不修改底层节点。
type RedactedNode struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	Category      string    `json:"category"`
	Size          int64     `json:"size"`
	StoragePath   string    `json:"storage_path"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	ParentID      *uint     `json:"parent_id"`
	OwnerID       uint      `json:"owner_id"`
	IsFavorite    bool      `json:"is_favorite"`
	IsHidden      bool      `json:"is_hidden"`
	IsLocked      bool      `json:"is_locked"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func redactNode(node models.FileNode) RedactedNode {
	out := RedactedNode{
		ID:            node.ID,
		Name:          node.Name,
		Kind:          node.Kind,
		Category:      node.Category,
		Size:          node.Size,
		StoragePath:   node.StoragePath,
		ThumbnailPath: node.ThumbnailPath,
		ParentID:      node.ParentID,
		OwnerID:       node.OwnerID,
		IsFavorite:    node.IsFavorite,
		IsHidden:      node.IsHidden,
		IsLocked:      node.IsLocked,
		CreatedAt:     node.CreatedAt,
		UpdatedAt:     node.UpdatedAt,
	}
	if node.IsLocked {
		out.StoragePath = LockedPathSentinel
		out.ThumbnailPath = ""
	}
	return out
}

func redactNodes(nodes []models.FileNode) []RedactedNode {
	out := make([]RedactedNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, redactNode(node))
	}
	return out
}
