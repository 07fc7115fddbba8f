package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"
)

// ProductRepository handles product and variant data operations
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product together with its variants
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (vendor_id, name, description, category, brand, sku_prefix, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	created := *product
	err = tx.QueryRowContext(ctx, query,
		nullableID(product.VendorID),
		product.Name,
		product.Description,
		product.Category,
		product.Brand,
		product.SKUPrefix,
		product.ImageURL,
		now,
		now,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	for i, v := range product.Variants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_variants (product_id, variant_id, position, size, color, regular_price, sale_price, stock_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			created.ID, v.VariantID, i, v.Size, v.Color, v.RegularPrice, v.SalePrice, v.StockQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create variant %s: %w", v.VariantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product creation: %w", err)
	}

	created.Variants = append([]models.Variant(nil), product.Variants...)
	return &created, nil
}

// GetByID retrieves a product with its variants in declared order
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT id, COALESCE(vendor_id, 0), name, description, category, brand, sku_prefix, image_url, created_at, updated_at
		FROM products
		WHERE id = $1`

	product := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.VendorID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Brand,
		&product.SKUPrefix,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	variants, err := r.variants(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Variants = variants

	return product, nil
}

func (r *ProductRepository) variants(ctx context.Context, productID int) ([]models.Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT variant_id, size, color, regular_price, sale_price, stock_quantity
		FROM product_variants
		WHERE product_id = $1
		ORDER BY position`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}
	defer rows.Close()

	var variants []models.Variant
	for rows.Next() {
		var (
			v     models.Variant
			size  sql.NullString
			color sql.NullString
			sale  sql.NullFloat64
		)
		if err := rows.Scan(&v.VariantID, &size, &color, &v.RegularPrice, &sale, &v.StockQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		if size.Valid {
			v.Size = models.StringPtr(size.String)
		}
		if color.Valid {
			v.Color = models.StringPtr(color.String)
		}
		if sale.Valid {
			v.SalePrice = models.FloatPtr(sale.Float64)
		}
		variants = append(variants, v)
	}

	return variants, rows.Err()
}

// List returns products without variants, newest first
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(vendor_id, 0), name, description, category, brand, sku_prefix, image_url, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Category, &p.Brand, &p.SKUPrefix, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Update applies the non-nil fields of the request
func (r *ProductRepository) Update(ctx context.Context, id int, req *models.ProductUpdateRequest) (*models.Product, error) {
	set := newSetBuilder()
	setField(set, "name", req.Name)
	setField(set, "description", req.Description)
	setField(set, "category", req.Category)
	setField(set, "brand", req.Brand)
	setField(set, "image_url", req.ImageURL)

	if !set.empty() {
		set.addValue("updated_at", time.Now())
		query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", set.clause(), set.next())
		result, err := r.db.ExecContext(ctx, query, append(set.args, id)...)
		if err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		if err := expectRow(result, models.ErrProductNotFound); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a product and its variants
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectRow(result, models.ErrProductNotFound)
}

// DecrementStock removes quantity units from a variant inside tx. It fails
// with ErrInsufficientStock when fewer units are left.
func DecrementStock(ctx context.Context, tx *sql.Tx, productID int, variantID string, quantity int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE product_variants
		SET stock_quantity = stock_quantity - $3
		WHERE product_id = $1 AND variant_id = $2 AND stock_quantity >= $3`,
		productID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%d/%s: %w", productID, variantID, models.ErrInsufficientStock)
	}
	return nil
}
