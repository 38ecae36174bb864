package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/marketplace-next/internal/models"
)

const defaultCartMirrorTTL = 10 * time.Minute

// 远端购物车镜像：已登录会话的乐观更新基线
// 变更先写镜像，网关失败后回滚到进入变更前的快照

func cartMirrorKey(sessionID string) string {
	return fmt.Sprintf("cart:mirror:%s", sessionID)
}

func snapshotCacheKey(storageKey string) string {
	return fmt.Sprintf("cart:snapshot:%s", storageKey)
}

// GetCartMirror 读取远端购物车镜像
func GetCartMirror(ctx context.Context, sessionID string) (*models.Cart, bool, error) {
	if sessionID == "" {
		return nil, false, nil
	}
	var cart models.Cart
	hit, err := GetJSON(ctx, cartMirrorKey(sessionID), &cart)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &cart, true, nil
}

// SetCartMirror 写入远端购物车镜像
func SetCartMirror(ctx context.Context, sessionID string, cart *models.Cart, ttl time.Duration) error {
	if sessionID == "" || cart == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCartMirrorTTL
	}
	return SetJSON(ctx, cartMirrorKey(sessionID), cart, ttl)
}

// DelCartMirror 删除远端购物车镜像
func DelCartMirror(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return Del(ctx, cartMirrorKey(sessionID))
}

// GetSnapshotCache 读取游客快照的读穿缓存
func GetSnapshotCache(ctx context.Context, storageKey string) (string, bool, error) {
	if storageKey == "" {
		return "", false, nil
	}
	var payload string
	hit, err := GetJSON(ctx, snapshotCacheKey(storageKey), &payload)
	if err != nil || !hit {
		return "", hit, err
	}
	return payload, true, nil
}

// SetSnapshotCache 写入游客快照缓存
func SetSnapshotCache(ctx context.Context, storageKey, payload string, ttl time.Duration) error {
	if storageKey == "" {
		return nil
	}
	return SetJSON(ctx, snapshotCacheKey(storageKey), payload, ttl)
}

// DelSnapshotCache 删除游客快照缓存
func DelSnapshotCache(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return nil
	}
	return Del(ctx, snapshotCacheKey(storageKey))
}
