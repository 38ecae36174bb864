package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"
)

const defaultSnapshotCacheTTL = time.Hour

// GuestCartService 游客购物车存储（快照表 + 缓存读穿）
type GuestCartService struct {
	snapshots repository.CartSnapshotRepository
	cacheTTL  time.Duration
}

// NewGuestCartService 创建游客购物车存储
func NewGuestCartService(snapshots repository.CartSnapshotRepository, snapshotTTLSeconds int) *GuestCartService {
	ttl := defaultSnapshotCacheTTL
	if snapshotTTLSeconds > 0 {
		ttl = time.Duration(snapshotTTLSeconds) * time.Second
	}
	return &GuestCartService{
		snapshots: snapshots,
		cacheTTL:  ttl,
	}
}

// StorageKey 会话对应的快照存储键
func StorageKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", constants.GuestCartStorageKey, sessionID)
}

// Load 加载游客购物车
// 快照缺失或损坏时返回全新空购物车，绝不向调用方返回错误
func (s *GuestCartService) Load(ctx context.Context, sessionID string) *models.Cart {
	storageKey := StorageKey(sessionID)

	payload, hit, err := cache.GetSnapshotCache(ctx, storageKey)
	if err != nil {
		logger.Warnw("guest_cart_cache_read_failed", "storage_key", storageKey, "error", err)
		hit = false
	}
	if !hit {
		snapshot, err := s.snapshots.GetByKey(storageKey)
		if err != nil {
			logger.Warnw("guest_cart_snapshot_read_failed", "storage_key", storageKey, "error", err)
			return models.NewGuestCart()
		}
		if snapshot == nil {
			return models.NewGuestCart()
		}
		payload = snapshot.Payload
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		logger.Warnw("guest_cart_snapshot_corrupt", "storage_key", storageKey, "error", err)
		return models.NewGuestCart()
	}
	if cart.ID == "" {
		logger.Warnw("guest_cart_snapshot_missing_id", "storage_key", storageKey)
		return models.NewGuestCart()
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	cart.Recalculate()
	return &cart
}

// Save 持久化游客购物车（每次变更后同步调用，后写覆盖先写）
func (s *GuestCartService) Save(ctx context.Context, sessionID string, cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	storageKey := StorageKey(sessionID)
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := s.snapshots.Upsert(&models.CartSnapshot{
		StorageKey: storageKey,
		Payload:    string(payload),
	}); err != nil {
		// 落库失败时清掉读穿缓存，避免继续命中旧快照
		if delErr := cache.DelSnapshotCache(ctx, storageKey); delErr != nil {
			logger.Warnw("guest_cart_cache_invalidate_failed", "storage_key", storageKey, "error", delErr)
		}
		return err
	}
	if err := cache.SetSnapshotCache(ctx, storageKey, string(payload), s.cacheTTL); err != nil {
		logger.Warnw("guest_cart_cache_write_failed", "storage_key", storageKey, "error", err)
	}
	return nil
}
