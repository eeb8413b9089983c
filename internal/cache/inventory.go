package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%s"
	DriveMetaKeyPrefix = "drive:meta:%s"
)

const (
	UserTTL      = 5 * time.Minute
	DriveMetaTTL = 2 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func DriveMetaKey(fileID string) string {
	return fmt.Sprintf(DriveMetaKeyPrefix, fileID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateDriveMeta(ctx context.Context, fileID string) {
	Invalidate(ctx, DriveMetaKey(fileID))
}
