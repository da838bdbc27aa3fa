package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rufidatul726/jotter-backend/utils"

	"gorm.io/gorm"
)

// 锁定只是一道元数据闸门：它通过 RedactedNode 隐藏存储路径并让下载
// 接口拒绝访问，底层字节本身不会被移动或加密。绕过本服务直接读库的
// 调用方仍能拿到真实路径，这是对调用方的信任边界。

func (s *fileService) LockFile(ctx context.Context, ownerID uint, nodeID uint, secret string) (RedactedNode, error) {
	if secret == "" {
		return RedactedNode{}, newValidationError("锁定密码不能为空")
	}

	node, err := s.nodes.GetByIDAndOwner(ctx, nil, nodeID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RedactedNode{}, newNotFoundError("文件不存在")
		}
		return RedactedNode{}, newAppError(http.StatusInternalServerError, "查询文件失败", err)
	}

	hash, err := utils.HashPassword(secret)
	if err != nil {
		return RedactedNode{}, newAppError(http.StatusInternalServerError, "加密锁定密码失败", err)
	}

	if err := s.nodes.UpdateByIDAndOwner(ctx, nil, nodeID, ownerID, map[string]interface{}{
		"is_locked":   true,
		"lock_secret": hash,
	}); err != nil {
		return RedactedNode{}, newAppError(http.StatusInternalServerError, "锁定文件失败", err)
	}

	node.IsLocked = true
	node.LockSecret = hash
	return redactNode(node), nil
}

func (s *fileService) UnlockFile(ctx context.Context, ownerID uint, nodeID uint, secret string) (UnlockOutput, error) {
	node, err := s.nodes.GetByIDAndOwner(ctx, nil, nodeID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UnlockOutput{}, newNotFoundError("文件不存在")
		}
		return UnlockOutput{}, newAppError(http.StatusInternalServerError, "查询文件失败", err)
	}

	if !node.IsLocked {
		return UnlockOutput{Node: redactNode(node), AlreadyUnlocked: true}, nil
	}

	if !utils.CheckPassword(secret, node.LockSecret) {
		return UnlockOutput{}, newAuthError("密码错误")
	}

	// 解锁必须同时清除标记和哈希
	if err := s.nodes.UpdateByIDAndOwner(ctx, nil, nodeID, ownerID, map[string]interface{}{
		"is_locked":   false,
		"lock_secret": "",
	}); err != nil {
		return UnlockOutput{}, newAppError(http.StatusInternalServerError, "解锁文件失败", err)
	}

	node.IsLocked = false
	node.LockSecret = ""
	return UnlockOutput{Node: redactNode(node)}, nil
}
