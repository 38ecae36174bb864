package router

import (
	"fmt"
	"strings"

	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/config"
	storefronthandlers "github.com/marketplace-next/internal/http/handlers/storefront"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	storefrontHandler := storefronthandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mp"
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		Message:       "order already submitted",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	apiV1.Use(CartSessionMiddleware(), OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey))
	{
		apiV1.GET("/cart", storefrontHandler.GetCart)
		apiV1.POST("/cart/items", storefrontHandler.AddCartItem)
		apiV1.PUT("/cart/items/:id", storefrontHandler.UpdateCartItem)
		apiV1.DELETE("/cart/items/:id", storefrontHandler.RemoveCartItem)
		apiV1.DELETE("/cart", storefrontHandler.ClearCart)

		apiV1.GET("/checkout/preview", storefrontHandler.CheckoutPreview)
		apiV1.POST("/orders", RateLimitMiddleware(redisClient, checkoutRule, KeyByCartSession), storefrontHandler.SubmitOrder)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
