package interfaces

import "github.com/MIKU-7437/astrawood/internal/model"

// StoreRepository 接口定义了商品目录仓库应该实现的方法
type StoreRepository interface {
	FindTopCategories() ([]*model.Category, error)
	FindCategoryBySlug(slug string) (*model.Category, error)
	FindProductsByTopCategorySlug(slug string) ([]*model.Product, error)
	FindProductsByCategorySlug(slug string) ([]*model.Product, error)
	FindProductBySlug(slug string) (*model.Product, error)
	CreateCategory(category *model.Category) error
	UpdateCategory(category *model.Category) error
	DeleteCategory(id int) error
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id int) error
}
