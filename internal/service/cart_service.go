package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/gateway"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/models"
)

// Session 购物车会话标识
type Session struct {
	ID    string // 游客会话ID（cookie / header）
	Token string // 用户 Bearer 令牌，为空表示游客
}

// Authenticated 是否已登录会话
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.Token) != ""
}

// AddItemInput 添加商品入参
type AddItemInput struct {
	ProductID string
	Name      string
	Price     models.Money
	Quantity  int
	Image     string
	Variant   models.Variant
}

// CartService 购物车聚合：游客与已登录会话的统一入口
type CartService struct {
	guest     *GuestCartService
	gateway   gateway.CartGateway
	mirrorTTL time.Duration
}

// NewCartService 创建购物车聚合服务
func NewCartService(guest *GuestCartService, gw gateway.CartGateway, mirrorTTLSeconds int) *CartService {
	ttl := 10 * time.Minute
	if mirrorTTLSeconds > 0 {
		ttl = time.Duration(mirrorTTLSeconds) * time.Second
	}
	return &CartService{
		guest:     guest,
		gateway:   gw,
		mirrorTTL: ttl,
	}
}

// Get 获取当前购物车
// 已登录会话拉取远端失败时回退到游客购物车，而不是报错
func (s *CartService) Get(ctx context.Context, session Session) (*models.Cart, error) {
	if !session.Authenticated() {
		return s.guest.Load(ctx, session.ID), nil
	}
	cart, err := s.gateway.Fetch(ctx, session.Token)
	if err != nil {
		logger.Warnw("cart_remote_fetch_failed_fallback_guest",
			"session_id", session.ID,
			"error", err,
		)
		return s.guest.Load(ctx, session.ID), nil
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	cart.Recalculate()
	if err := cache.SetCartMirror(ctx, session.ID, cart, s.mirrorTTL); err != nil {
		logger.Warnw("cart_mirror_write_failed", "session_id", session.ID, "error", err)
	}
	return cart, nil
}

// AddItem 添加商品：同商品同规格合并数量，否则新建行
func (s *CartService) AddItem(ctx context.Context, session Session, input AddItemInput) (*models.Cart, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrCartItemInvalid)
	}
	if input.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrCartItemInvalid)
	}
	if input.Price.Decimal.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrCartItemInvalid)
	}

	if !session.Authenticated() {
		cart := s.guest.Load(ctx, session.ID)
		cart.MergeLine(input.ProductID, input.Name, input.Price, input.Quantity, input.Image, input.Variant)
		if err := s.guest.Save(ctx, session.ID, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	return s.remoteMutate(ctx, session,
		func(cart *models.Cart) {
			cart.MergeLine(input.ProductID, input.Name, input.Price, input.Quantity, input.Image, input.Variant)
		},
		func() (*models.Cart, error) {
			return s.gateway.AddItem(ctx, session.Token, gateway.AddItemInput{
				ProductID: input.ProductID,
				Name:      input.Name,
				Price:     input.Price,
				Quantity:  input.Quantity,
				Image:     input.Image,
				Variant:   input.Variant,
			})
		},
	)
}

// UpdateQuantity 更新行数量；数量 <= 0 等价于删除；未知行ID不做任何修改
func (s *CartService) UpdateQuantity(ctx context.Context, session Session, lineID string, quantity int) (*models.Cart, error) {
	if !session.Authenticated() {
		cart := s.guest.Load(ctx, session.ID)
		cart.UpdateLineQuantity(lineID, quantity)
		if err := s.guest.Save(ctx, session.ID, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, session, lineID)
	}
	return s.remoteMutate(ctx, session,
		func(cart *models.Cart) {
			cart.UpdateLineQuantity(lineID, quantity)
		},
		func() (*models.Cart, error) {
			return s.gateway.UpdateItem(ctx, session.Token, lineID, quantity)
		},
	)
}

// RemoveItem 删除行；未知行ID不做任何修改
func (s *CartService) RemoveItem(ctx context.Context, session Session, lineID string) (*models.Cart, error) {
	if !session.Authenticated() {
		cart := s.guest.Load(ctx, session.ID)
		cart.RemoveLine(lineID)
		if err := s.guest.Save(ctx, session.ID, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	return s.remoteMutate(ctx, session,
		func(cart *models.Cart) {
			cart.RemoveLine(lineID)
		},
		func() (*models.Cart, error) {
			return s.gateway.RemoveItem(ctx, session.Token, lineID)
		},
	)
}

// Clear 清空购物车，保留购物车标识
func (s *CartService) Clear(ctx context.Context, session Session) (*models.Cart, error) {
	if !session.Authenticated() {
		cart := s.guest.Load(ctx, session.ID)
		cart.ClearLines()
		if err := s.guest.Save(ctx, session.ID, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	if err := s.gateway.Clear(ctx, session.Token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartSyncFailed, err)
	}
	if err := cache.DelCartMirror(ctx, session.ID); err != nil {
		logger.Warnw("cart_mirror_delete_failed", "session_id", session.ID, "error", err)
	}
	return s.Get(ctx, session)
}

// remoteMutate 远端两阶段乐观变更
// 先基于镜像乐观落地，网关确认后以远端结果为准；失败时回滚镜像并返回可重试的同步错误
func (s *CartService) remoteMutate(ctx context.Context, session Session, apply func(*models.Cart), call func() (*models.Cart, error)) (*models.Cart, error) {
	baseline, hit, err := cache.GetCartMirror(ctx, session.ID)
	if err != nil {
		logger.Warnw("cart_mirror_read_failed", "session_id", session.ID, "error", err)
		hit = false
	}
	if hit && baseline != nil {
		optimistic := baseline.Clone()
		apply(optimistic)
		if err := cache.SetCartMirror(ctx, session.ID, optimistic, s.mirrorTTL); err != nil {
			logger.Warnw("cart_mirror_write_failed", "session_id", session.ID, "error", err)
		}
	}

	result, err := call()
	if err != nil {
		if hit && baseline != nil {
			if rollbackErr := cache.SetCartMirror(ctx, session.ID, baseline, s.mirrorTTL); rollbackErr != nil {
				logger.Warnw("cart_mirror_rollback_failed", "session_id", session.ID, "error", rollbackErr)
			}
		} else {
			_ = cache.DelCartMirror(ctx, session.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrCartSyncFailed, err)
	}

	if result.Items == nil {
		result.Items = []models.CartLine{}
	}
	result.Recalculate()
	if err := cache.SetCartMirror(ctx, session.ID, result, s.mirrorTTL); err != nil {
		logger.Warnw("cart_mirror_write_failed", "session_id", session.ID, "error", err)
	}
	return result, nil
}
