package service

import (
	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/repository/interfaces"
	"github.com/MIKU-7437/astrawood/internal/util"

	"go.uber.org/zap"
)

// StoreService 处理商品目录的业务逻辑
type StoreService struct {
	storeRepo interfaces.StoreRepository
}

// NewStoreService 创建一个新的 StoreService 实例
func NewStoreService(storeRepo interfaces.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// ListCategories 返回所有顶级分类及其子分类
func (s *StoreService) ListCategories() ([]*model.Category, error) {
	categories, err := s.storeRepo.FindTopCategories()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询分类失败", err)
	}
	if categories == nil {
		categories = []*model.Category{}
	}
	return categories, nil
}

// ListCategoryProducts 返回某个分类slug下的可售商品。
// 先按“slug是父分类”查询其子分类下的全部商品；结果为空时退回
// 按“slug是分类本身”查询，因此同一个接口同时支持顶级和叶子分类。
func (s *StoreService) ListCategoryProducts(slug string) ([]*model.Product, error) {
	category, err := s.storeRepo.FindCategoryBySlug(slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询分类失败", err)
	}
	if category == nil {
		return nil, errors.New(errors.ErrCategoryNotFound, "Category not found")
	}

	products, err := s.storeRepo.FindProductsByTopCategorySlug(slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if len(products) == 0 {
		products, err = s.storeRepo.FindProductsByCategorySlug(slug)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
		}
	}
	if products == nil {
		products = []*model.Product{}
	}
	return products, nil
}

// GetProductBySlug 通过slug获取单个商品。
// 单品查询不过滤 is_available，下架商品仍可直接访问。
func (s *StoreService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.storeRepo.FindProductBySlug(slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if product == nil {
		return nil, errors.New(errors.ErrProductNotFound, "Product not found")
	}
	return product, nil
}

// CreateCategory 创建分类。slug为空时由标题生成。
func (s *StoreService) CreateCategory(category *model.Category) error {
	if category.Title == "" {
		return errors.NewValidation(map[string][]string{
			"title": {"This field is required."},
		})
	}
	if category.Slug == "" {
		category.Slug = util.Slugify(category.Title)
	}

	// 子分类必须引用父分类，顶级分类不允许有父分类
	if category.IsSubcategory && category.TopCategoryID == nil {
		return errors.NewValidation(map[string][]string{
			"top_category_id": {"subcategory requires a top category"},
		})
	}
	if !category.IsSubcategory {
		category.TopCategoryID = nil
	}

	existing, err := s.storeRepo.FindCategoryBySlug(category.Slug)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询分类失败", err)
	}
	if existing != nil {
		return errors.NewValidation(map[string][]string{
			"slug": {"category with this slug already exists"},
		})
	}

	if err := s.storeRepo.CreateCategory(category); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建分类失败", err)
	}

	util.Logger.Info("分类创建成功", zap.Int("category_id", category.ID), zap.String("slug", category.Slug))
	return nil
}

// UpdateCategory 更新分类
func (s *StoreService) UpdateCategory(category *model.Category) error {
	if category.IsSubcategory && category.TopCategoryID == nil {
		return errors.NewValidation(map[string][]string{
			"top_category_id": {"subcategory requires a top category"},
		})
	}
	if !category.IsSubcategory {
		category.TopCategoryID = nil
	}
	if err := s.storeRepo.UpdateCategory(category); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新分类失败", err)
	}
	return nil
}

// DeleteCategory 删除分类
func (s *StoreService) DeleteCategory(id int) error {
	if err := s.storeRepo.DeleteCategory(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除分类失败", err)
	}
	return nil
}

// CreateProduct 创建商品
func (s *StoreService) CreateProduct(product *model.Product) error {
	if fields := validateProduct(product); len(fields) > 0 {
		return errors.NewValidation(fields)
	}
	if product.Slug == "" {
		product.Slug = util.Slugify(product.Title)
	}

	existing, err := s.storeRepo.FindProductBySlug(product.Slug)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if existing != nil {
		return errors.NewValidation(map[string][]string{
			"slug": {"product with this slug already exists"},
		})
	}

	if err := s.storeRepo.CreateProduct(product); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建商品失败", err)
	}

	util.Logger.Info("商品创建成功", zap.Int("product_id", product.ID), zap.String("slug", product.Slug))
	return nil
}

// UpdateProduct 更新商品
func (s *StoreService) UpdateProduct(product *model.Product) error {
	if fields := validateProduct(product); len(fields) > 0 {
		return errors.NewValidation(fields)
	}
	if err := s.storeRepo.UpdateProduct(product); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新商品失败", err)
	}
	return nil
}

// DeleteProduct 删除商品
func (s *StoreService) DeleteProduct(id int) error {
	if err := s.storeRepo.DeleteProduct(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除商品失败", err)
	}
	return nil
}

func validateProduct(product *model.Product) map[string][]string {
	fields := make(map[string][]string)
	if product.Title == "" {
		fields["title"] = append(fields["title"], "This field is required.")
	}
	if product.Price.IsNegative() {
		fields["price"] = append(fields["price"], "price must not be negative")
	}
	if product.Stock < 0 {
		fields["stock"] = append(fields["stock"], "stock must not be negative")
	}
	if product.CategoryID == 0 {
		fields["category_id"] = append(fields["category_id"], "This field is required.")
	}
	return fields
}

type StoreServiceInterface interface {
	ListCategories() ([]*model.Category, error)
	ListCategoryProducts(slug string) ([]*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	CreateCategory(category *model.Category) error
	UpdateCategory(category *model.Category) error
	DeleteCategory(id int) error
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id int) error
}

// 确保 StoreService 实现了 StoreServiceInterface
var _ StoreServiceInterface = (*StoreService)(nil)
