package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
)

// --- Custom Service Errors for the catalogue ---
var (
	ErrCategoryNotFound = errors.New("product category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrValidation       = errors.New("validation error") // Generic validation error
)

// --- Category DTOs ---
type ProductCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Product DTOs ---
type CreateProductRequest struct {
	CategoryID    int64            `json:"category_id" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	InsidePrice   *decimal.Decimal `json:"inside_price"`
	OutsidePrice  *decimal.Decimal `json:"outside_price"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
}

type UpdateProductRequest struct {
	CategoryID    *int64           `json:"category_id"`
	Name          *string          `json:"name"`
	InsidePrice   *decimal.Decimal `json:"inside_price"`
	OutsidePrice  *decimal.Decimal `json:"outside_price"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	// ClearOutsidePrice removes the outside price so garden tables fall back to zero.
	ClearOutsidePrice bool `json:"clear_outside_price"`
}

// --- CatalogueService Interface ---
type CatalogueService interface {
	CreateCategory(req ProductCategoryRequest) (*models.ProductCategory, error)
	GetCategoryByID(categoryID int64) (*models.ProductCategory, error)
	GetCategories(req PageRequest) (*Page[models.ProductCategory], error)
	UpdateCategory(categoryID int64, req ProductCategoryRequest) (*models.ProductCategory, error)
	DeleteCategory(categoryID int64) error

	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(categoryID *int64, req PageRequest) (*Page[models.Product], error)
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
}

type catalogueService struct {
	categoryRepo repositories.ProductCategoryRepository
	productRepo  repositories.ProductRepository
	db           repositories.SQLExecutor
}

// NewCatalogueService creates a new instance of CatalogueService.
func NewCatalogueService(categoryRepo repositories.ProductCategoryRepository, productRepo repositories.ProductRepository, db repositories.SQLExecutor) CatalogueService {
	return &catalogueService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		db:           db,
	}
}

func nonNegative(field string, d *decimal.Decimal) error {
	if d != nil && d.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidation, field)
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// --- Category Method Implementations ---

func (s *catalogueService) CreateCategory(req ProductCategoryRequest) (*models.ProductCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	category := &models.ProductCategory{Name: name}
	if _, err := s.categoryRepo.CreateProductCategory(s.db, category); err != nil {
		return nil, fmt.Errorf("failed to create product category: %w", err)
	}
	return category, nil
}

func (s *catalogueService) GetCategoryByID(categoryID int64) (*models.ProductCategory, error) {
	category, err := s.categoryRepo.GetProductCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get product category by ID: %w", err)
	}
	return category, nil
}

func (s *catalogueService) GetCategories(req PageRequest) (*Page[models.ProductCategory], error) {
	return paginate(req, s.categoryRepo.CountProductCategories, s.categoryRepo.GetProductCategories)
}

func (s *catalogueService) UpdateCategory(categoryID int64, req ProductCategoryRequest) (*models.ProductCategory, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	category.Name = name

	if err := s.categoryRepo.UpdateProductCategory(s.db, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update product category: %w", err)
	}
	return category, nil
}

func (s *catalogueService) DeleteCategory(categoryID int64) error {
	if err := s.categoryRepo.DeleteProductCategory(s.db, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete product category: %w", err)
	}
	return nil
}

// --- Product Method Implementations ---

func (s *catalogueService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	for field, value := range map[string]*decimal.Decimal{
		"inside price":   req.InsidePrice,
		"outside price":  req.OutsidePrice,
		"tax percentage": req.TaxPercentage,
	} {
		if err := nonNegative(field, value); err != nil {
			return nil, err
		}
	}
	if _, err := s.GetCategoryByID(req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:   req.CategoryID,
		Name:         name,
		InsidePrice:  nullDecimal(req.InsidePrice),
		OutsidePrice: nullDecimal(req.OutsidePrice),
	}
	if req.TaxPercentage != nil {
		product.TaxPercentage = *req.TaxPercentage
	}

	id, err := s.productRepo.CreateProduct(s.db, product)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	// Fetch to get the category name
	return s.GetProductByID(id)
}

func (s *catalogueService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(nil, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

// GetProducts lists the catalogue, or one category of it when categoryID is set.
func (s *catalogueService) GetProducts(categoryID *int64, req PageRequest) (*Page[models.Product], error) {
	count := func() (int, error) { return s.productRepo.CountProducts(categoryID) }
	fetch := func(offset, limit int) ([]models.Product, error) {
		return s.productRepo.GetProducts(categoryID, offset, limit)
	}
	return paginate(req, count, fetch)
}

func (s *catalogueService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name cannot be empty if provided", ErrValidation)
		}
		product.Name = name
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if _, err := s.GetCategoryByID(*req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}
	if err := nonNegative("inside price", req.InsidePrice); err != nil {
		return nil, err
	}
	if err := nonNegative("outside price", req.OutsidePrice); err != nil {
		return nil, err
	}
	if err := nonNegative("tax percentage", req.TaxPercentage); err != nil {
		return nil, err
	}
	if req.InsidePrice != nil {
		product.InsidePrice = nullDecimal(req.InsidePrice)
	}
	if req.OutsidePrice != nil {
		product.OutsidePrice = nullDecimal(req.OutsidePrice)
	} else if req.ClearOutsidePrice {
		product.OutsidePrice = decimal.NullDecimal{}
	}
	if req.TaxPercentage != nil {
		product.TaxPercentage = *req.TaxPercentage
	}

	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProductByID(productID)
}

func (s *catalogueService) DeleteProduct(productID int64) error {
	if err := s.productRepo.DeleteProduct(s.db, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
