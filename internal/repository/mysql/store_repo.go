package mysql

import (
	"database/sql"

	"github.com/MIKU-7437/astrawood/internal/model"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const productColumns = `p.id, p.title, p.slug, p.description, p.price, p.is_available, p.stock, p.photo,
               p.category_id, p.created_at, p.updated_at,
               c.id, c.title, c.slug, c.description, c.is_subcategory`

// storeRepository 实现了 StoreRepository 接口
type storeRepository struct {
	db *sql.DB
}

// NewStoreRepository 创建一个新的 storeRepository 实例
func NewStoreRepository(db *sql.DB) *storeRepository {
	return &storeRepository{db}
}

// FindTopCategories 返回所有顶级分类，并挂载各自的子分类
func (r *storeRepository) FindTopCategories() ([]*model.Category, error) {
	rows, err := r.db.Query(`
		SELECT id, title, slug, description, is_subcategory
		FROM categories
		WHERE is_subcategory = false
		ORDER BY title`)
	if err != nil {
		util.Logger.Error("查询顶级分类失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	byID := make(map[int]*model.Category)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.IsSubcategory); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 一次性取出全部子分类并按父分类归组
	subRows, err := r.db.Query(`
		SELECT id, title, slug, description, is_subcategory, top_category_id
		FROM categories
		WHERE is_subcategory = true AND top_category_id IS NOT NULL
		ORDER BY title`)
	if err != nil {
		util.Logger.Error("查询子分类失败", zap.Error(err))
		return nil, err
	}
	defer subRows.Close()

	for subRows.Next() {
		var sub model.Category
		if err := subRows.Scan(&sub.ID, &sub.Title, &sub.Slug, &sub.Description, &sub.IsSubcategory, &sub.TopCategoryID); err != nil {
			return nil, err
		}
		if parent, ok := byID[*sub.TopCategoryID]; ok {
			parent.SubCategories = append(parent.SubCategories, &sub)
		}
	}
	return categories, subRows.Err()
}

// FindCategoryBySlug 通过slug查找分类，未找到时返回 (nil, nil)
func (r *storeRepository) FindCategoryBySlug(slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(`
		SELECT id, title, slug, description, is_subcategory, top_category_id
		FROM categories WHERE slug = ?`, slug).Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.IsSubcategory, &c.TopCategoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindProductsByTopCategorySlug 返回父分类slug下所有子分类的可售商品
func (r *storeRepository) FindProductsByTopCategorySlug(slug string) ([]*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON p.category_id = c.id
		JOIN categories top ON c.top_category_id = top.id
		WHERE top.slug = ? AND p.is_available = true
		ORDER BY p.title`
	return r.queryProducts(query, slug)
}

// FindProductsByCategorySlug 返回分类自身的可售商品
func (r *storeRepository) FindProductsByCategorySlug(slug string) ([]*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE c.slug = ? AND p.is_available = true
		ORDER BY p.title`
	return r.queryProducts(query, slug)
}

func (r *storeRepository) queryProducts(query string, args ...interface{}) ([]*model.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询商品列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// FindProductBySlug 通过slug查找单个商品，不过滤可售状态
func (r *storeRepository) FindProductBySlug(slug string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.slug = ?`
	rows, err := r.db.Query(query, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return scanProduct(rows)
}

// scanProduct 扫描商品行，价格列以字符串读出后转为定点小数
func scanProduct(rows *sql.Rows) (*model.Product, error) {
	var p model.Product
	var c model.Category
	var price string
	err := rows.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &price, &p.IsAvailable, &p.Stock, &p.Photo,
		&p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.IsSubcategory,
	)
	if err != nil {
		return nil, err
	}
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// CreateCategory 创建一个新分类
func (r *storeRepository) CreateCategory(category *model.Category) error {
	result, err := r.db.Exec(`
		INSERT INTO categories (title, slug, description, is_subcategory, top_category_id)
		VALUES (?, ?, ?, ?, ?)`,
		category.Title, category.Slug, category.Description, category.IsSubcategory, category.TopCategoryID)
	if err != nil {
		util.Logger.Error("创建分类失败", zap.Error(err), zap.String("slug", category.Slug))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	category.ID = int(id)
	return nil
}

// UpdateCategory 更新分类
func (r *storeRepository) UpdateCategory(category *model.Category) error {
	_, err := r.db.Exec(`
		UPDATE categories
		SET title = ?, slug = ?, description = ?, is_subcategory = ?, top_category_id = ?
		WHERE id = ?`,
		category.Title, category.Slug, category.Description,
		category.IsSubcategory, category.TopCategoryID, category.ID)
	return err
}

// DeleteCategory 删除分类
func (r *storeRepository) DeleteCategory(id int) error {
	_, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return err
}

// CreateProduct 创建一个新商品
func (r *storeRepository) CreateProduct(product *model.Product) error {
	result, err := r.db.Exec(`
		INSERT INTO products (title, slug, description, price, is_available, stock, photo, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.Title, product.Slug, product.Description, product.Price.String(),
		product.IsAvailable, product.Stock, product.Photo, product.CategoryID)
	if err != nil {
		util.Logger.Error("创建商品失败", zap.Error(err), zap.String("slug", product.Slug))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	product.ID = int(id)
	return nil
}

// UpdateProduct 更新商品
func (r *storeRepository) UpdateProduct(product *model.Product) error {
	_, err := r.db.Exec(`
		UPDATE products
		SET title = ?, slug = ?, description = ?, price = ?, is_available = ?,
		    stock = ?, photo = ?, category_id = ?
		WHERE id = ?`,
		product.Title, product.Slug, product.Description, product.Price.String(),
		product.IsAvailable, product.Stock, product.Photo, product.CategoryID, product.ID)
	return err
}

// DeleteProduct 删除商品
func (r *storeRepository) DeleteProduct(id int) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}
