package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"alegria_backend/internal/models"
)

// ProductCategoryRepository defines the interface for product category database operations.
type ProductCategoryRepository interface {
	CreateProductCategory(executor SQLExecutor, category *models.ProductCategory) (int64, error)
	GetProductCategoryByID(id int64) (*models.ProductCategory, error)
	CountProductCategories() (int, error)
	GetProductCategories(offset, limit int) ([]models.ProductCategory, error)
	UpdateProductCategory(executor SQLExecutor, category *models.ProductCategory) error
	DeleteProductCategory(executor SQLExecutor, id int64) error
}

type productCategoryRepository struct {
	db *sql.DB
}

// NewProductCategoryRepository creates a new instance of ProductCategoryRepository.
func NewProductCategoryRepository(db *sql.DB) ProductCategoryRepository {
	return &productCategoryRepository{db: db}
}

func (r *productCategoryRepository) CreateProductCategory(executor SQLExecutor, category *models.ProductCategory) (int64, error) {
	query := `INSERT INTO product_categories (name, is_deleted, created_at, updated_at)
	          VALUES ($1, FALSE, $2, $3)
	          RETURNING id`

	now := time.Now()
	category.CreatedAt, category.UpdatedAt = now, now

	if err := executor.QueryRow(query, category.Name, category.CreatedAt, category.UpdatedAt).Scan(&category.ID); err != nil {
		return 0, mapWriteError(err, "creating product category")
	}
	return category.ID, nil
}

func (r *productCategoryRepository) GetProductCategoryByID(id int64) (*models.ProductCategory, error) {
	query := `SELECT id, name, is_deleted, created_at, updated_at
	          FROM product_categories WHERE id = $1 AND is_deleted = FALSE`

	category := &models.ProductCategory{}
	err := r.db.QueryRow(query, id).Scan(&category.ID, &category.Name, &category.IsDeleted, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product category by ID %d: %v", ErrDatabaseError, id, err)
	}
	return category, nil
}

func (r *productCategoryRepository) CountProductCategories() (int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM product_categories WHERE is_deleted = FALSE`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting product categories: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func (r *productCategoryRepository) GetProductCategories(offset, limit int) ([]models.ProductCategory, error) {
	query := `SELECT id, name, is_deleted, created_at, updated_at
	          FROM product_categories
	          WHERE is_deleted = FALSE
	          ORDER BY id ASC
	          LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: querying product categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	categories := []models.ProductCategory{}
	for rows.Next() {
		var c models.ProductCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning product category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product category rows: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *productCategoryRepository) UpdateProductCategory(executor SQLExecutor, category *models.ProductCategory) error {
	query := `UPDATE product_categories SET name = $1, updated_at = $2
	          WHERE id = $3 AND is_deleted = FALSE`

	category.UpdatedAt = time.Now()
	result, err := executor.Exec(query, category.Name, category.UpdatedAt, category.ID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating product category ID %d", category.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating product category ID %d", category.ID))
}

// DeleteProductCategory soft-deletes the category; its products stay for old invoices.
func (r *productCategoryRepository) DeleteProductCategory(executor SQLExecutor, id int64) error {
	query := `UPDATE product_categories SET is_deleted = TRUE, updated_at = $1
	          WHERE id = $2 AND is_deleted = FALSE`

	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting product category ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting product category ID %d", id))
}
