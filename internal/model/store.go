package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category 商品分类，两级结构：顶级分类和子分类
type Category struct {
	ID            int         `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	IsSubcategory bool        `json:"is_subcategory"`
	TopCategoryID *int        `json:"top_category_id,omitempty"` // 仅子分类设置
	SubCategories []*Category `json:"sub_categories,omitempty"`
	CreatedAt     time.Time   `json:"-"`
	UpdatedAt     time.Time   `json:"-"`
}

// Product 商品模型
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"` // 序列化为定点小数字符串
	IsAvailable bool            `json:"is_available"`
	Stock       int             `json:"stock"`
	Photo       string          `json:"photo"`
	CategoryID  int             `json:"-"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
