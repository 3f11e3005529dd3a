package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockStoreService 是 StoreServiceInterface 的模拟实现
type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) ListCategories() ([]*model.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockStoreService) ListCategoryProducts(slug string) ([]*model.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockStoreService) GetProductBySlug(slug string) (*model.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockStoreService) CreateCategory(category *model.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockStoreService) UpdateCategory(category *model.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockStoreService) DeleteCategory(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStoreService) CreateProduct(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockStoreService) UpdateProduct(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockStoreService) DeleteProduct(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func newStoreRouter(mockService *MockStoreService) *gin.Engine {
	handler := NewStoreHandler(mockService)
	r := gin.New()
	r.GET("/api/categories", handler.ListCategories)
	r.GET("/api/categories/:slug/products", handler.ListCategoryProducts)
	r.GET("/api/products/:slug", handler.GetProduct)
	return r
}

func performRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestListCategoriesHandler 测试分类树接口
func TestListCategoriesHandler(t *testing.T) {
	mockService := new(MockStoreService)
	r := newStoreRouter(mockService)

	subID := 1
	mockService.On("ListCategories").Return([]*model.Category{
		{
			ID:    1,
			Title: "Furniture",
			Slug:  "furniture",
			SubCategories: []*model.Category{
				{ID: 2, Title: "Chairs", Slug: "chairs", IsSubcategory: true, TopCategoryID: &subID},
			},
		},
	}, nil)

	w := performRequest(r, "GET", "/api/categories")
	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "furniture", response[0]["slug"])

	subs, ok := response[0]["sub_categories"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, subs, 1)
}

// TestListCategoriesEmpty 空目录返回空数组而不是null
func TestListCategoriesEmpty(t *testing.T) {
	mockService := new(MockStoreService)
	r := newStoreRouter(mockService)

	mockService.On("ListCategories").Return([]*model.Category{}, nil)

	w := performRequest(r, "GET", "/api/categories")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

// TestListCategoryProductsHandler 商品价格序列化为字符串
func TestListCategoryProductsHandler(t *testing.T) {
	mockService := new(MockStoreService)
	r := newStoreRouter(mockService)

	mockService.On("ListCategoryProducts", "furniture").Return([]*model.Product{
		{
			ID:          1,
			Title:       "Oak Table",
			Slug:        "oak-table",
			Price:       decimal.RequireFromString("249.99"),
			Stock:       3,
			IsAvailable: true,
		},
	}, nil)

	w := performRequest(r, "GET", "/api/categories/furniture/products")
	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "249.99", response[0]["price"])
}

// TestListCategoryProductsNotFound 未知分类返回404
func TestListCategoryProductsNotFound(t *testing.T) {
	mockService := new(MockStoreService)
	r := newStoreRouter(mockService)

	mockService.On("ListCategoryProducts", "nope").Return(nil, errors.New(errors.ErrCategoryNotFound, "Category not found"))

	w := performRequest(r, "GET", "/api/categories/nope/products")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Category not found"}`, w.Body.String())
}

// TestGetProductHandler 测试单品接口
func TestGetProductHandler(t *testing.T) {
	mockService := new(MockStoreService)
	r := newStoreRouter(mockService)

	mockService.On("GetProductBySlug", "oak-table").Return(&model.Product{
		ID:          1,
		Title:       "Oak Table",
		Slug:        "oak-table",
		Price:       decimal.RequireFromString("249.99"),
		IsAvailable: false,
	}, nil)

	w := performRequest(r, "GET", "/api/products/oak-table")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Oak Table", response["title"])
	// 下架商品详情仍然可以访问
	assert.Equal(t, false, response["is_available"])
}

// TestGetProductNotFound 未知商品slug返回404
func TestGetProductNotFound(t *testing.T) {
	mockService := new(MockStoreService)
	r := newStoreRouter(mockService)

	mockService.On("GetProductBySlug", "missing").Return(nil, errors.New(errors.ErrProductNotFound, "Product not found"))

	w := performRequest(r, "GET", "/api/products/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Product not found"}`, w.Body.String())
}
