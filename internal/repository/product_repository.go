package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/stock-service/internal/domain"
)

// ProductRepository defines persistence access for products.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	const query = `
        SELECT p.id, p.product_name, p.unit_price, p.unit_in_stock,
               p.category_id, c.category_name, p.created_date, p.modified_date
        FROM products p
        JOIN categories c ON c.id = p.category_id
        ORDER BY p.id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.ProductName,
			&product.UnitPrice,
			&product.UnitInStock,
			&product.CategoryID,
			&product.CategoryName,
			&product.CreatedDate,
			&product.ModifiedDate,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `
        SELECT p.id, p.product_name, p.unit_price, p.unit_in_stock,
               p.category_id, c.category_name, p.created_date, p.modified_date
        FROM products p
        JOIN categories c ON c.id = p.category_id
        WHERE p.id=$1`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.ProductName,
		&product.UnitPrice,
		&product.UnitInStock,
		&product.CategoryID,
		&product.CategoryName,
		&product.CreatedDate,
		&product.ModifiedDate,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (product_name, unit_price, unit_in_stock, category_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_date`

	return r.pool.QueryRow(ctx, query,
		product.ProductName,
		product.UnitPrice,
		product.UnitInStock,
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedDate)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products
        SET product_name=$1, unit_price=$2, unit_in_stock=$3, category_id=$4, modified_date=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		product.ProductName,
		product.UnitPrice,
		product.UnitInStock,
		product.CategoryID,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM products WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
