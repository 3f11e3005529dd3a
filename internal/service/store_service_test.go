package service

import (
	"testing"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockStoreRepository 是 StoreRepository 接口的模拟实现
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindTopCategories() ([]*model.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockStoreRepository) FindCategoryBySlug(slug string) (*model.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockStoreRepository) FindProductsByTopCategorySlug(slug string) ([]*model.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockStoreRepository) FindProductsByCategorySlug(slug string) ([]*model.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockStoreRepository) FindProductBySlug(slug string) (*model.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockStoreRepository) CreateCategory(category *model.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockStoreRepository) UpdateCategory(category *model.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockStoreRepository) DeleteCategory(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStoreRepository) CreateProduct(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockStoreRepository) UpdateProduct(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockStoreRepository) DeleteProduct(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// TestListCategories 测试分类列表，空结果返回空切片而不是nil
func TestListCategories(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	mockRepo.On("FindTopCategories").Return(nil, nil)

	categories, err := service.ListCategories()
	assert.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Len(t, categories, 0)
}

// TestListCategoryProductsTopLevel 父分类slug命中时不再退回叶子查询
func TestListCategoryProductsTopLevel(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	products := []*model.Product{
		{ID: 1, Title: "Oak Table", Slug: "oak-table", IsAvailable: true},
		{ID: 2, Title: "Oak Chair", Slug: "oak-chair", IsAvailable: true},
	}
	mockRepo.On("FindCategoryBySlug", "furniture").Return(&model.Category{ID: 1, Slug: "furniture"}, nil)
	mockRepo.On("FindProductsByTopCategorySlug", "furniture").Return(products, nil)

	got, err := service.ListCategoryProducts("furniture")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	mockRepo.AssertNotCalled(t, "FindProductsByCategorySlug", mock.Anything)
}

// TestListCategoryProductsFallback 父分类查询为空时退回按叶子分类查询
func TestListCategoryProductsFallback(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	products := []*model.Product{
		{ID: 3, Title: "Pine Shelf", Slug: "pine-shelf", IsAvailable: true},
	}
	mockRepo.On("FindCategoryBySlug", "shelves").Return(&model.Category{ID: 4, Slug: "shelves", IsSubcategory: true}, nil)
	mockRepo.On("FindProductsByTopCategorySlug", "shelves").Return([]*model.Product{}, nil)
	mockRepo.On("FindProductsByCategorySlug", "shelves").Return(products, nil)

	got, err := service.ListCategoryProducts("shelves")
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "pine-shelf", got[0].Slug)
	mockRepo.AssertExpectations(t)
}

// TestListCategoryProductsUnknownSlug 未知分类slug返回404业务错误
func TestListCategoryProductsUnknownSlug(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	mockRepo.On("FindCategoryBySlug", "nope").Return(nil, nil)

	_, err := service.ListCategoryProducts("nope")
	assert.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrCategoryNotFound, appErr.Code)
	assert.Equal(t, "Category not found", appErr.Message)
	mockRepo.AssertNotCalled(t, "FindProductsByTopCategorySlug", mock.Anything)
}

// TestGetProductBySlug 测试单品查询
func TestGetProductBySlug(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	// 下架商品仍然可以直接访问
	product := &model.Product{ID: 5, Title: "Walnut Desk", Slug: "walnut-desk", IsAvailable: false}
	mockRepo.On("FindProductBySlug", "walnut-desk").Return(product, nil)

	got, err := service.GetProductBySlug("walnut-desk")
	assert.NoError(t, err)
	assert.Equal(t, "Walnut Desk", got.Title)

	mockRepo.On("FindProductBySlug", "missing").Return(nil, nil)
	_, err = service.GetProductBySlug("missing")
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrProductNotFound, appErr.Code)
	assert.Equal(t, "Product not found", appErr.Message)
}

// TestCreateCategory 测试分类创建和slug生成
func TestCreateCategory(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	category := &model.Category{Title: "Garden Furniture"}
	mockRepo.On("FindCategoryBySlug", "garden-furniture").Return(nil, nil)
	mockRepo.On("CreateCategory", category).Return(nil)

	err := service.CreateCategory(category)
	assert.NoError(t, err)
	assert.Equal(t, "garden-furniture", category.Slug)
	mockRepo.AssertExpectations(t)
}

// TestCreateCategorySubcategoryRequiresParent 子分类必须引用父分类
func TestCreateCategorySubcategoryRequiresParent(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	category := &model.Category{Title: "Chairs", IsSubcategory: true}
	err := service.CreateCategory(category)
	assert.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Contains(t, appErr.Fields, "top_category_id")
	mockRepo.AssertNotCalled(t, "CreateCategory", mock.Anything)
}

// TestCreateCategoryTopLevelDropsParent 顶级分类强制清空父分类引用
func TestCreateCategoryTopLevelDropsParent(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	parentID := 9
	category := &model.Category{Title: "Decor", IsSubcategory: false, TopCategoryID: &parentID}
	mockRepo.On("FindCategoryBySlug", "decor").Return(nil, nil)
	mockRepo.On("CreateCategory", category).Return(nil)

	err := service.CreateCategory(category)
	assert.NoError(t, err)
	assert.Nil(t, category.TopCategoryID)
}

// TestCreateCategoryDuplicateSlug 测试slug唯一性检查
func TestCreateCategoryDuplicateSlug(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	category := &model.Category{Title: "Lighting"}
	mockRepo.On("FindCategoryBySlug", "lighting").Return(&model.Category{ID: 2, Slug: "lighting"}, nil)

	err := service.CreateCategory(category)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Contains(t, appErr.Fields, "slug")
	mockRepo.AssertNotCalled(t, "CreateCategory", mock.Anything)
}

// TestCreateProductValidation 测试商品字段校验
func TestCreateProductValidation(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	product := &model.Product{
		Price: decimal.NewFromInt(-1),
		Stock: -3,
	}
	err := service.CreateProduct(product)
	assert.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Contains(t, appErr.Fields, "title")
	assert.Contains(t, appErr.Fields, "price")
	assert.Contains(t, appErr.Fields, "stock")
	assert.Contains(t, appErr.Fields, "category_id")
	mockRepo.AssertNotCalled(t, "CreateProduct", mock.Anything)
}

// TestCreateProduct 测试商品创建
func TestCreateProduct(t *testing.T) {
	mockRepo := new(MockStoreRepository)
	service := NewStoreService(mockRepo)

	product := &model.Product{
		Title:      "Birch Bench",
		Price:      decimal.RequireFromString("149.90"),
		Stock:      5,
		CategoryID: 3,
	}
	mockRepo.On("FindProductBySlug", "birch-bench").Return(nil, nil)
	mockRepo.On("CreateProduct", product).Return(nil)

	err := service.CreateProduct(product)
	assert.NoError(t, err)
	assert.Equal(t, "birch-bench", product.Slug)
	mockRepo.AssertExpectations(t)
}
