package admin

import (
	"strconv"

	"github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/service"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminHandler 处理后台对商品目录的写操作
type AdminHandler struct {
	storeService service.StoreServiceInterface
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(storeService service.StoreServiceInterface) *AdminHandler {
	return &AdminHandler{storeService}
}

type categoryRequest struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	IsSubcategory bool   `json:"is_subcategory"`
	TopCategoryID *int   `json:"top_category_id"`
}

// CreateCategory 创建分类
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	category := &model.Category{
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		IsSubcategory: req.IsSubcategory,
		TopCategoryID: req.TopCategoryID,
	}

	if err := h.storeService.CreateCategory(category); err != nil {
		util.Logger.Warn("创建分类失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"category": category}, "分类创建成功")
}

// UpdateCategory 更新分类
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的分类ID"))
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	category := &model.Category{
		ID:            id,
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		IsSubcategory: req.IsSubcategory,
		TopCategoryID: req.TopCategoryID,
	}

	if err := h.storeService.UpdateCategory(category); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"category": category}, "分类更新成功")
}

// DeleteCategory 删除分类
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的分类ID"))
		return
	}

	if err := h.storeService.DeleteCategory(id); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "分类已删除")
}

type productRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsAvailable bool   `json:"is_available"`
	Stock       int    `json:"stock"`
	Photo       string `json:"photo"`
	CategoryID  int    `json:"category_id"`
}

func (r *productRequest) toModel() (*model.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, errors.NewValidation(map[string][]string{
			"price": {"A valid number is required."},
		})
	}
	return &model.Product{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       price,
		IsAvailable: r.IsAvailable,
		Stock:       r.Stock,
		Photo:       r.Photo,
		CategoryID:  r.CategoryID,
	}, nil
}

// CreateProduct 创建商品
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	product, err := req.toModel()
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.storeService.CreateProduct(product); err != nil {
		util.Logger.Warn("创建商品失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "商品创建成功")
}

// UpdateProduct 更新商品
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的商品ID"))
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	product, err := req.toModel()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	product.ID = id

	if err := h.storeService.UpdateProduct(product); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "商品更新成功")
}

// DeleteProduct 删除商品
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的商品ID"))
		return
	}

	if err := h.storeService.DeleteProduct(id); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "商品已删除")
}
