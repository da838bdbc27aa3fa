package services

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Rufidatul726/jotter-backend/config"
	"github.com/Rufidatul726/jotter-backend/logger"
	"github.com/Rufidatul726/jotter-backend/models"
	"github.com/Rufidatul726/jotter-backend/repositories"

	"gorm.io/gorm"
)

// UploadEntry 一条已落盘的上传记录。OriginalName 可能携带 "/" 目录前缀，
// StoredPath 是相对存储根的物理路径。
type UploadEntry struct {
	OriginalName  string
	Size          int64
	StoredPath    string
	ThumbnailPath string
}

type ListFilter string

const (
	FilterVisible   ListFilter = "visible"
	FilterFavorites ListFilter = "favorites"
	FilterHidden    ListFilter = "hidden"
	FilterAll       ListFilter = "all"
)

type AllNodesOutput struct {
	Files           []RedactedNode          `json:"files"`
	FolderStructure map[uint][]RedactedNode `json:"folder_structure"`
}

type FileAccessOutput struct {
	Node         RedactedNode
	AbsPath      string
	ContentType  string
	DownloadName string
}

type UnlockOutput struct {
	Node            RedactedNode `json:"file"`
	AlreadyUnlocked bool         `json:"already_unlocked"`
}

type FileService interface {
	UploadFiles(ctx context.Context, ownerID uint, files []*multipart.FileHeader) ([]RedactedNode, error)
	UploadBatch(ctx context.Context, ownerID uint, entries []UploadEntry) ([]RedactedNode, error)
	ListNodes(ctx context.Context, ownerID uint, filter ListFilter) ([]RedactedNode, error)
	ListAll(ctx context.Context, ownerID uint) (AllNodesOutput, error)
	GroupByDate(ctx context.Context, ownerID uint) (map[string][]RedactedNode, error)
	ToggleFavorite(ctx context.Context, ownerID uint, nodeID uint) (RedactedNode, error)
	ToggleHidden(ctx context.Context, ownerID uint, nodeID uint) (RedactedNode, error)
	RenameFile(ctx context.Context, ownerID uint, nodeID uint, name string) (RedactedNode, error)
	DeleteNode(ctx context.Context, ownerID uint, nodeID uint) error
	GetDownloadInfo(ctx context.Context, ownerID uint, nodeID uint) (FileAccessOutput, error)
	LockFile(ctx context.Context, ownerID uint, nodeID uint, secret string) (RedactedNode, error)
	UnlockFile(ctx context.Context, ownerID uint, nodeID uint, secret string) (UnlockOutput, error)
}

type fileService struct {
	txManager  TxManager
	users      repositories.UserRepository
	nodes      repositories.FileNodeRepository
	usageCache repositories.UsageCacheRepository
	resolver   folderResolver
}

func NewFileService(
	txManager TxManager,
	users repositories.UserRepository,
	nodes repositories.FileNodeRepository,
	usageCache repositories.UsageCacheRepository,
) FileService {
	return &fileService{
		txManager:  txManager,
		users:      users,
		nodes:      nodes,
		usageCache: usageCache,
		resolver:   folderResolver{nodes: nodes},
	}
}

// UploadBatch 在单个事务内完成配额累加、目录推断与节点写入。
// 配额的条件 UPDATE 放在最前：超额时直接回滚，不落任何节点；
// 后续失败回滚时也会一并释放已累加的用量。
func (s *fileService) UploadBatch(ctx context.Context, ownerID uint, entries []UploadEntry) ([]RedactedNode, error) {
	if len(entries) == 0 {
		return nil, newValidationError("未收到任何文件")
	}

	var total int64
	for _, entry := range entries {
		if entry.OriginalName == "" {
			return nil, newValidationError("文件名不能为空")
		}
		if entry.Size < 0 {
			return nil, newValidationError("文件大小非法")
		}
		total += entry.Size
	}

	user, err := s.users.GetByID(ctx, nil, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("用户不存在")
		}
		return nil, newAppError(http.StatusInternalServerError, "查询用户失败", err)
	}

	created := make([]models.FileNode, 0, len(entries))
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.users.AddStorageUsedWithinQuota(ctx, tx, ownerID, total); err != nil {
			return err
		}

		cache := map[string]uint{}
		for _, entry := range entries {
			parentID, leafName, err := s.resolver.resolveParent(ctx, tx, ownerID, entry.OriginalName, cache)
			if err != nil {
				return err
			}

			node := models.FileNode{
				Name:          leafName,
				Kind:          models.KindFile,
				Category:      ClassifyFilename(entry.OriginalName),
				Size:          entry.Size,
				StoragePath:   entry.StoredPath,
				ThumbnailPath: entry.ThumbnailPath,
				ParentID:      parentID,
				OwnerID:       ownerID,
			}
			if err := s.nodes.Create(ctx, tx, &node); err != nil {
				return err
			}
			created = append(created, node)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrQuotaExceeded) {
			return nil, newAppErrorWithData(http.StatusBadRequest, "存储空间不足", map[string]interface{}{
				"storage_quota":   user.StorageQuota,
				"storage_used":    user.StorageUsed,
				"available_space": user.StorageQuota - user.StorageUsed,
				"required_space":  total,
			}, nil)
		}
		return nil, newAppError(http.StatusInternalServerError, "保存文件记录失败", err)
	}

	s.invalidateUsageCache(ctx, ownerID)
	return redactNodes(created), nil
}

func (s *fileService) invalidateUsageCache(ctx context.Context, ownerID uint) {
	if err := s.usageCache.Invalidate(ctx, ownerID); err != nil {
		logger.Errorf("invalidate usage cache for user %d: %v", ownerID, err)
	}
}

func (s *fileService) ListNodes(ctx context.Context, ownerID uint, filter ListFilter) ([]RedactedNode, error) {
	nodeFilter := repositories.NodeFilter{}
	switch filter {
	case FilterVisible:
		hidden := false
		nodeFilter.Hidden = &hidden
	case FilterFavorites:
		favorite := true
		nodeFilter.Favorite = &favorite
	case FilterHidden:
		hidden := true
		nodeFilter.Hidden = &hidden
	case FilterAll:
	default:
		return nil, newValidationError("不支持的过滤条件")
	}

	nodes, err := s.nodes.ListByOwner(ctx, nil, ownerID, nodeFilter)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "查询文件列表失败", err)
	}
	return redactNodes(nodes), nil
}

func (s *fileService) ListAll(ctx context.Context, ownerID uint) (AllNodesOutput, error) {
	nodes, err := s.nodes.ListByOwner(ctx, nil, ownerID, repositories.NodeFilter{})
	if err != nil {
		return AllNodesOutput{}, newAppError(http.StatusInternalServerError, "查询文件列表失败", err)
	}

	redacted := redactNodes(nodes)
	structure := map[uint][]RedactedNode{}
	for _, node := range redacted {
		if node.ParentID != nil {
			structure[*node.ParentID] = append(structure[*node.ParentID], node)
		}
	}
	return AllNodesOutput{Files: redacted, FolderStructure: structure}, nil
}

func (s *fileService) GroupByDate(ctx context.Context, ownerID uint) (map[string][]RedactedNode, error) {
	nodes, err := s.nodes.ListByOwner(ctx, nil, ownerID, repositories.NodeFilter{Kind: models.KindFile})
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "查询文件列表失败", err)
	}

	grouped := map[string][]RedactedNode{}
	for _, node := range nodes {
		day := node.CreatedAt.Format("2006-01-02")
		grouped[day] = append(grouped[day], redactNode(node))
	}
	return grouped, nil
}

func (s *fileService) ToggleFavorite(ctx context.Context, ownerID uint, nodeID uint) (RedactedNode, error) {
	return s.toggleFlag(ctx, ownerID, nodeID, "is_favorite")
}

func (s *fileService) ToggleHidden(ctx context.Context, ownerID uint, nodeID uint) (RedactedNode, error) {
	return s.toggleFlag(ctx, ownerID, nodeID, "is_hidden")
}

func (s *fileService) toggleFlag(ctx context.Context, ownerID uint, nodeID uint, column string) (RedactedNode, error) {
	node, err := s.nodes.GetByIDAndOwner(ctx, nil, nodeID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RedactedNode{}, newNotFoundError("文件不存在")
		}
		return RedactedNode{}, newAppError(http.StatusInternalServerError, "查询文件失败", err)
	}

	current := node.IsFavorite
	if column == "is_hidden" {
		current = node.IsHidden
	}
	if err := s.nodes.UpdateByIDAndOwner(ctx, nil, nodeID, ownerID, map[string]interface{}{column: !current}); err != nil {
		return RedactedNode{}, newAppError(http.StatusInternalServerError, "更新文件标记失败", err)
	}

	if column == "is_hidden" {
		node.IsHidden = !current
	} else {
		node.IsFavorite = !current
	}
	return redactNode(node), nil
}

func (s *fileService) RenameFile(ctx context.Context, ownerID uint, nodeID uint, name string) (RedactedNode, error) {
	if name == "" {
		return RedactedNode{}, newValidationError("文件名不能为空")
	}

	node, err := s.nodes.GetByIDAndOwner(ctx, nil, nodeID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RedactedNode{}, newNotFoundError("文件不存在")
		}
		return RedactedNode{}, newAppError(http.StatusInternalServerError, "查询文件失败", err)
	}

	if err := s.nodes.UpdateByIDAndOwner(ctx, nil, nodeID, ownerID, map[string]interface{}{"name": name}); err != nil {
		return RedactedNode{}, newAppError(http.StatusInternalServerError, "重命名文件失败", err)
	}
	node.Name = name
	return redactNode(node), nil
}

// DeleteNode 删除文件或空文件夹。文件删除会在同一事务内回补配额计数；
// 非空文件夹拒绝删除，避免留下悬空 parent_id 的子节点。
func (s *fileService) DeleteNode(ctx context.Context, ownerID uint, nodeID uint) error {
	node, err := s.nodes.GetByIDAndOwner(ctx, nil, nodeID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("文件不存在")
		}
		return newAppError(http.StatusInternalServerError, "查询文件失败", err)
	}

	if node.Kind == models.KindFolder {
		count, err := s.nodes.CountChildren(ctx, nil, ownerID, node.ID)
		if err != nil {
			return newAppError(http.StatusInternalServerError, "查询子节点失败", err)
		}
		if count > 0 {
			return newValidationError("文件夹非空，无法删除")
		}
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.nodes.DeleteByIDAndOwner(ctx, tx, nodeID, ownerID); err != nil {
			return err
		}
		if node.Kind == models.KindFile {
			return s.users.SubStorageUsed(ctx, tx, ownerID, node.Size)
		}
		return nil
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "删除文件失败", err)
	}

	if node.Kind == models.KindFile {
		basePath := config.AppConfig.Storage.BasePath
		_ = os.Remove(filepath.Join(basePath, node.StoragePath))
		if node.ThumbnailPath != "" {
			_ = os.Remove(filepath.Join(basePath, node.ThumbnailPath))
		}
		s.invalidateUsageCache(ctx, ownerID)
	}
	return nil
}

func (s *fileService) GetDownloadInfo(ctx context.Context, ownerID uint, nodeID uint) (FileAccessOutput, error) {
	node, err := s.nodes.GetByIDAndOwner(ctx, nil, nodeID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileAccessOutput{}, newNotFoundError("文件不存在")
		}
		return FileAccessOutput{}, newAppError(http.StatusInternalServerError, "查询文件失败", err)
	}
	if node.Kind != models.KindFile {
		return FileAccessOutput{}, newValidationError("文件夹不支持下载")
	}
	if node.IsLocked {
		return FileAccessOutput{}, newAppError(http.StatusForbidden, "文件已锁定，请先解锁", nil)
	}

	absPath := filepath.Join(config.AppConfig.Storage.BasePath, node.StoragePath)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return FileAccessOutput{}, newNotFoundError("文件不存在于存储中")
	}

	return FileAccessOutput{
		Node:         redactNode(node),
		AbsPath:      absPath,
		ContentType:  getMimeType(filepath.Ext(node.Name)),
		DownloadName: node.Name,
	}, nil
}
