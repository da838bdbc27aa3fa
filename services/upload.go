package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Rufidatul726/jotter-backend/config"

	"github.com/google/uuid"
)

// UploadFiles 将一批 multipart 文件落盘（含图片缩略图），再走 UploadBatch
// 写入元数据。元数据事务失败时清理已落盘的字节。
func (s *fileService) UploadFiles(ctx context.Context, ownerID uint, files []*multipart.FileHeader) ([]RedactedNode, error) {
	if len(files) == 0 {
		return nil, newValidationError("未收到任何文件")
	}

	cfg := config.AppConfig.Storage
	now := time.Now()
	relDir := filepath.Join("files", fmt.Sprintf("%d", ownerID), now.Format("2006"), now.Format("01"))
	absDir := filepath.Join(cfg.BasePath, relDir)
	thumbRelDir := filepath.Join("thumbnails", fmt.Sprintf("%d", ownerID), now.Format("2006"), now.Format("01"))

	var storedPaths []string
	cleanup := func() {
		for _, p := range storedPaths {
			_ = os.Remove(p)
		}
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, newAppError(http.StatusInternalServerError, "创建存储目录失败", err)
	}

	entries := make([]UploadEntry, 0, len(files))
	for _, header := range files {
		if header.Size > cfg.MaxFileSize {
			cleanup()
			return nil, newValidationError("文件大小超出限制")
		}
		if !isFileExtensionAllowed(header.Filename) {
			cleanup()
			return nil, newValidationError("不支持的文件类型")
		}

		fileUUID := uuid.New().String()
		storageName := fileUUID + "_" + sanitizeFilename(header.Filename)
		absPath := filepath.Join(absDir, storageName)

		if err := saveUploadedFile(header, absPath); err != nil {
			cleanup()
			return nil, newAppError(http.StatusInternalServerError, "保存文件失败", err)
		}
		storedPaths = append(storedPaths, absPath)

		var thumbnailPath string
		if IsImageFile(header.Filename) {
			thumbName := fileUUID + "_thumb.jpg"
			thumbAbsPath := filepath.Join(cfg.BasePath, thumbRelDir, thumbName)
			if err := GenerateThumbnail(absPath, thumbAbsPath); err == nil {
				thumbnailPath = filepath.Join(thumbRelDir, thumbName)
				storedPaths = append(storedPaths, thumbAbsPath)
			}
		}

		entries = append(entries, UploadEntry{
			OriginalName:  header.Filename,
			Size:          header.Size,
			StoredPath:    filepath.Join(relDir, storageName),
			ThumbnailPath: thumbnailPath,
		})
	}

	nodes, err := s.UploadBatch(ctx, ownerID, entries)
	if err != nil {
		cleanup()
		return nil, err
	}
	return nodes, nil
}

func saveUploadedFile(header *multipart.FileHeader, dstPath string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return err
	}
	return dst.Close()
}
