package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"alegria_backend/internal/models"
)

// ProductRepository defines the interface for product database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(executor SQLExecutor, id int64) (*models.Product, error)
	CountProducts(categoryID *int64) (int, error)
	GetProducts(categoryID *int64, offset, limit int) ([]models.Product, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.category_id, p.name, p.inside_price, p.outside_price, p.tax_percentage,
	p.is_deleted, p.created_at, p.updated_at, pc.name`

func scanProduct(s scanner) (*models.Product, error) {
	p := &models.Product{}
	var categoryName sql.NullString
	err := s.Scan(&p.ID, &p.CategoryID, &p.Name, &p.InsidePrice, &p.OutsidePrice, &p.TaxPercentage,
		&p.IsDeleted, &p.CreatedAt, &p.UpdatedAt, &categoryName)
	if err != nil {
		return nil, err
	}
	if categoryName.Valid {
		p.CategoryName = &categoryName.String
	}
	return p, nil
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (category_id, name, inside_price, outside_price, tax_percentage, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)
	          RETURNING id`

	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now

	err := executor.QueryRow(query,
		product.CategoryID, product.Name, product.InsidePrice, product.OutsidePrice, product.TaxPercentage,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating product")
	}
	return product.ID, nil
}

// GetProductByID takes an executor so the bar can read the product inside its ticket transaction.
func (r *productRepository) GetProductByID(executor SQLExecutor, id int64) (*models.Product, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + productColumns + `
	          FROM products p
	          LEFT JOIN product_categories pc ON pc.id = p.category_id
	          WHERE p.id = $1 AND p.is_deleted = FALSE`

	product, err := scanProduct(executor.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func productConditions(categoryID *int64) (string, []interface{}) {
	conditions := []string{"p.is_deleted = FALSE"}
	var args []interface{}
	if categoryID != nil {
		args = append(args, *categoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *productRepository) CountProducts(categoryID *int64) (int, error) {
	where, args := productConditions(categoryID)
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting products: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func (r *productRepository) GetProducts(categoryID *int64, offset, limit int) ([]models.Product, error) {
	where, args := productConditions(categoryID)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productColumns + `
	    FROM products p
	    LEFT JOIN product_categories pc ON pc.id = p.category_id`)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY p.id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET
	            category_id = $1, name = $2, inside_price = $3, outside_price = $4,
	            tax_percentage = $5, updated_at = $6
	          WHERE id = $7 AND is_deleted = FALSE`

	product.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		product.CategoryID, product.Name, product.InsidePrice, product.OutsidePrice,
		product.TaxPercentage, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating product ID %d", product.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating product ID %d", product.ID))
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	query := `UPDATE products SET is_deleted = TRUE, updated_at = $1 WHERE id = $2 AND is_deleted = FALSE`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("deleting product ID %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting product ID %d", id))
}
