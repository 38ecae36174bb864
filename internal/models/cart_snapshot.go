package models

import (
	"time"
)

// CartSnapshot 游客购物车快照（按会话持久化的序列化购物车）
type CartSnapshot struct {
	ID         uint      `gorm:"primarykey" json:"id"`                              // 主键
	StorageKey string    `gorm:"type:varchar(191);uniqueIndex" json:"storage_key"`  // 存储键（guestCart:<会话ID>）
	Payload    string    `gorm:"type:text" json:"payload"`                          // 序列化的购物车 JSON
	CreatedAt  time.Time `json:"created_at"`                                        // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                           // 更新时间
}

// TableName 指定表名
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
