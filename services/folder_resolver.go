package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Rufidatul726/jotter-backend/models"
	"github.com/Rufidatul726/jotter-backend/repositories"

	"gorm.io/gorm"
)

type folderResolver struct {
	nodes repositories.FileNodeRepository
}

// resolveParent 为一条上传记录解析父文件夹。
// originalName 可能携带 "/" 表示相对目录；目录命名空间是扁平的：
// 每个不同的完整目录路径对应一个文件夹节点，name 即完整路径字符串，
// 同一批次内通过 cache（folderKey → 节点 ID）复用，跨批次通过数据库查询复用。
func (r folderResolver) resolveParent(ctx context.Context, tx *gorm.DB, ownerID uint, originalName string, cache map[string]uint) (*uint, string, error) {
	idx := strings.LastIndex(originalName, "/")
	if idx < 0 {
		return nil, originalName, nil
	}

	folderKey := originalName[:idx]
	leafName := originalName[idx+1:]
	if folderKey == "" {
		// 以 "/" 开头的名字视为根级文件
		return nil, leafName, nil
	}

	if id, ok := cache[folderKey]; ok {
		parentID := id
		return &parentID, leafName, nil
	}

	folder, err := r.nodes.FindFolderByName(ctx, tx, ownerID, folderKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		folder = models.FileNode{
			Name:        folderKey,
			Kind:        models.KindFolder,
			Category:    ClassifyFilename(folderKey),
			StoragePath: folderKey,
			OwnerID:     ownerID,
		}
		if err := r.nodes.Create(ctx, tx, &folder); err != nil {
			return nil, "", err
		}
	}

	cache[folderKey] = folder.ID
	parentID := folder.ID
	return &parentID, leafName, nil
}
