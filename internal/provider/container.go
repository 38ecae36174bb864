package provider

import (
	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/config"
	"github.com/marketplace-next/internal/gateway"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/queue"
	"github.com/marketplace-next/internal/repository"
	"github.com/marketplace-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CartSnapshotRepo repository.CartSnapshotRepository

	// Gateways
	CartGateway         gateway.CartGateway
	OrderGateway        gateway.OrderGateway
	NotificationGateway gateway.NotificationGateway

	// Services
	GuestCartService *service.GuestCartService
	CartService      *service.CartService
	PricingService   *service.PricingService
	CheckoutService  *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化上游网关
	c.initGateways()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CartSnapshotRepo = repository.NewCartSnapshotRepository(db)
}

func (c *Container) initGateways() {
	client, err := gateway.NewClient(gateway.Config{
		BaseURL:   c.Config.Upstream.BaseURL,
		TimeoutMS: c.Config.Upstream.TimeoutMS,
	})
	if err != nil {
		logger.Errorw("provider_init_upstream_client_failed", "error", err)
		panic(err)
	}
	c.CartGateway = gateway.NewHTTPCartGateway(client)
	c.OrderGateway = gateway.NewHTTPOrderGateway(client)
	c.NotificationGateway = gateway.NewHTTPNotificationGateway(client)
}

func (c *Container) initServices() {
	c.GuestCartService = service.NewGuestCartService(c.CartSnapshotRepo, c.Config.Cart.SnapshotTTLSeconds)
	c.CartService = service.NewCartService(c.GuestCartService, c.CartGateway, c.Config.Cart.MirrorTTLSeconds)
	c.PricingService = service.NewPricingService(c.Config.Pricing)
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.PricingService, c.OrderGateway, c.QueueClient)
}
