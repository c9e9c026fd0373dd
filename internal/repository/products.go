package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT product_id, name, description, price, category
		FROM products
		WHERE product_id = $1
	`

	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// ListProducts returns one page of products ordered by ID. An empty category
// matches all products. Pages start at 1.
func (r *ProductRepository) ListProducts(ctx context.Context, category string, page, pageSize int) ([]*domain.Product, error) {
	if page < 1 {
		page = 1
	}
	query := `
		SELECT product_id, name, description, price, category
		FROM products
		WHERE ($1 = '' OR category = $1)
		ORDER BY product_id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, category, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, pageSize)
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) CountProducts(ctx context.Context, category string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE ($1 = '' OR category = $1)`, category).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

// AllProducts lists the whole catalog ordered by ID.
func (r *ProductRepository) AllProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, description, price, category
		FROM products
		ORDER BY product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

// CreateProduct inserts p and assigns its ID.
func (r *ProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, category)
		 VALUES ($1, $2, $3, $4)
		 RETURNING product_id`,
		p.Name, p.Description, p.Price, p.Category).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3, category = $4
		 WHERE product_id = $5`,
		p.Name, p.Description, p.Price, p.Category, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct refuses to remove a product that order lines still point at.
func (r *ProductRepository) DeleteProduct(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin product tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var refs int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM order_lines WHERE product_id = $1`, id).Scan(&refs); err != nil {
		return fmt.Errorf("failed to count product references: %w", err)
	}
	if refs > 0 {
		err = ErrProductInUse
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		err = ErrProductNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit product delete: %w", err)
	}
	return nil
}
