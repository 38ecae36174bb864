package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/marketplace-next/internal/constants"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant 商品规格组合（如 size/color），键值无序
type Variant map[string]string

// Key 返回规格的规范化字符串（按键排序）
func (v Variant) Key() string {
	if len(v) == 0 {
		return ""
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+v[k])
	}
	return strings.Join(parts, ";")
}

// Equal 判断两个规格组合是否等价（与键的书写顺序无关）
func (v Variant) Equal(other Variant) bool {
	if len(v) != len(other) {
		return false
	}
	for k, val := range v {
		if other[k] != val {
			return false
		}
	}
	return true
}

// CartLine 购物车行项目
type CartLine struct {
	ID          string  `json:"id"`                // 行ID
	ProductID   string  `json:"productId"`         // 商品ID
	ProductName string  `json:"name"`              // 商品名称
	UnitPrice   Money   `json:"price"`             // 单价
	Quantity    int     `json:"quantity"`          // 数量
	ImageRef    string  `json:"image,omitempty"`   // 商品图片
	Variant     Variant `json:"variant,omitempty"` // 规格组合
}

// LineTotal 行小计（单价 × 数量）
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Matches 判断能否与给定商品和规格合并
func (l CartLine) Matches(productID string, variant Variant) bool {
	return l.ProductID == productID && l.Variant.Equal(variant)
}

// Cart 购物车聚合
type Cart struct {
	ID          string     `json:"id"`          // 购物车ID
	Items       []CartLine `json:"items"`       // 行项目
	TotalAmount Money      `json:"totalAmount"` // 商品总额
}

// NewGuestCart 创建空的游客购物车
func NewGuestCart() *Cart {
	return &Cart{
		ID:    NewGuestCartID(),
		Items: []CartLine{},
	}
}

// NewGuestCartID 生成游客购物车ID
func NewGuestCartID() string {
	return fmt.Sprintf("%s-%d", constants.GuestCartIDPrefix, time.Now().UnixMilli())
}

// NewLineID 生成购物车行ID（毫秒时间戳 + 随机后缀，快速连续调用不冲突）
func NewLineID(productID string) string {
	return fmt.Sprintf("%s-%d-%s", productID, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Recalculate 重算商品总额
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.LineTotal())
	}
	c.TotalAmount = NewMoneyFromDecimal(total)
}

// ItemCount 商品件数（各行数量之和，派生值）
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Items {
		count += line.Quantity
	}
	return count
}

// FindLine 按行ID查找，未找到返回 -1
func (c *Cart) FindLine(lineID string) int {
	for i, line := range c.Items {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}

// MergeLine 合并行项目：同商品同规格累加数量，否则新建行
func (c *Cart) MergeLine(productID, name string, price Money, quantity int, image string, variant Variant) CartLine {
	for i := range c.Items {
		if c.Items[i].Matches(productID, variant) {
			c.Items[i].Quantity += quantity
			c.Recalculate()
			return c.Items[i]
		}
	}
	line := CartLine{
		ID:          NewLineID(productID),
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   price,
		Quantity:    quantity,
		ImageRef:    image,
		Variant:     variant,
	}
	c.Items = append(c.Items, line)
	c.Recalculate()
	return line
}

// UpdateLineQuantity 更新行数量；数量 <= 0 等价于删除；行不存在时不做任何修改
func (c *Cart) UpdateLineQuantity(lineID string, quantity int) {
	idx := c.FindLine(lineID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Quantity = quantity
	}
	c.Recalculate()
}

// RemoveLine 删除行；行不存在时不做任何修改
func (c *Cart) RemoveLine(lineID string) {
	c.UpdateLineQuantity(lineID, 0)
}

// ClearLines 清空所有行，保留购物车ID
func (c *Cart) ClearLines() {
	c.Items = []CartLine{}
	c.Recalculate()
}

// Clone 深拷贝购物车
func (c *Cart) Clone() *Cart {
	cloned := &Cart{
		ID:          c.ID,
		Items:       make([]CartLine, len(c.Items)),
		TotalAmount: c.TotalAmount,
	}
	copy(cloned.Items, c.Items)
	for i := range cloned.Items {
		if c.Items[i].Variant != nil {
			variant := make(Variant, len(c.Items[i].Variant))
			for k, v := range c.Items[i].Variant {
				variant[k] = v
			}
			cloned.Items[i].Variant = variant
		}
	}
	return cloned
}

// PricingBreakdown 定价明细
type PricingBreakdown struct {
	Subtotal    Money `json:"subtotal"`    // 商品小计
	ShippingFee Money `json:"shippingFee"` // 运费
	Tax         Money `json:"tax"`         // 税费
	GrandTotal  Money `json:"grandTotal"`  // 应付总额
}
