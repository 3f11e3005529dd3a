package store

import (
	"net/http"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/service"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StoreHandler 处理商品目录的只读HTTP请求
type StoreHandler struct {
	storeService service.StoreServiceInterface
}

// NewStoreHandler 创建一个新的 StoreHandler 实例
func NewStoreHandler(storeService service.StoreServiceInterface) *StoreHandler {
	return &StoreHandler{storeService}
}

// ListCategories 返回所有顶级分类及其子分类
func (h *StoreHandler) ListCategories(c *gin.Context) {
	categories, err := h.storeService.ListCategories()
	if err != nil {
		util.Logger.Error("获取分类列表失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// ListCategoryProducts 返回某分类slug下的可售商品
func (h *StoreHandler) ListCategoryProducts(c *gin.Context) {
	slug := c.Param("slug")

	products, err := h.storeService.ListCategoryProducts(slug)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct 返回单个商品详情
func (h *StoreHandler) GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.storeService.GetProductBySlug(slug)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}
