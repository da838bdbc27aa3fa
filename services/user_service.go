package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rufidatul726/jotter-backend/config"
	"github.com/Rufidatul726/jotter-backend/repositories"

	"gorm.io/gorm"
)

type StorageUsageOutput struct {
	StorageQuota   int64   `json:"storage_quota"`
	StorageUsed    int64   `json:"storage_used"`
	AvailableSpace int64   `json:"available_space"`
	UsagePercent   float64 `json:"usage_percent"`
}

type UserService interface {
	GetStorageUsage(ctx context.Context, userID uint) (StorageUsageOutput, error)
}

type userService struct {
	users      repositories.UserRepository
	usageCache repositories.UsageCacheRepository
}

func NewUserService(users repositories.UserRepository, usageCache repositories.UsageCacheRepository) UserService {
	return &userService{users: users, usageCache: usageCache}
}

func (s *userService) GetStorageUsage(ctx context.Context, userID uint) (StorageUsageOutput, error) {
	usage, hit, cacheErr := s.usageCache.Get(ctx, userID)
	if cacheErr != nil || !hit {
		// 缓存读失败按未命中处理，回源用户表后写缓存
		user, err := s.users.GetByID(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return StorageUsageOutput{}, newNotFoundError("user not found")
			}
			return StorageUsageOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
		}
		usage = repositories.StorageUsage{Used: user.StorageUsed, Quota: user.StorageQuota}
		_ = s.usageCache.Set(ctx, userID, usage, config.AppConfig.Redis.UsageCacheExpire)
	}

	usagePercent := 0.0
	if usage.Quota > 0 {
		usagePercent = float64(usage.Used) / float64(usage.Quota) * 100
	}

	return StorageUsageOutput{
		StorageQuota:   usage.Quota,
		StorageUsed:    usage.Used,
		AvailableSpace: usage.Quota - usage.Used,
		UsagePercent:   usagePercent,
	}, nil
}
