package constants

// 购物车会话常量
const (
	// GuestCartStorageKey 游客购物车快照的固定存储键前缀
	GuestCartStorageKey = "guestCart"
	// CartSessionCookie 购物车会话 Cookie 名称
	CartSessionCookie = "cart_session"
	// CartSessionHeader 购物车会话 Header 名称
	CartSessionHeader = "X-Cart-Session"
	// GuestCartIDPrefix 游客购物车 ID 前缀
	GuestCartIDPrefix = "guest"
)

// 支付方式常量
const (
	PaymentMethodCard   = "card"
	PaymentMethodPaypal = "paypal"
)

// 配送方式常量
const (
	ShippingMethodStandard = "standard"
	ShippingMethodExpress  = "express"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderPlacedNotify = "order:placed_notify"
)

// 定价默认值（可被配置覆盖）
const (
	DefaultFreeShippingThreshold = 50.0
	DefaultFlatShippingFee       = 9.99
	DefaultTaxRate               = 0.08
)
