package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

// OrderQuery filters and pages the orders listing. Zero value lists every order by ascending ID.
type OrderQuery struct {
	Shipped *bool
	Sort    SortDirection
	Limit   int
	Offset  int
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// SaveOrder inserts a new order (ID 0) and assigns its ID, or updates the header
// of an existing one. In both cases the stored lines are replaced by order.Lines
// in the same transaction.
func (r *OrderRepository) SaveOrder(ctx context.Context, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	orderID := order.ID
	if order.IsNew() {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (name, address, city, state, zip, country, gift_wrap, shipped)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING order_id`,
			order.Name,
			order.Address,
			order.City,
			order.State,
			order.Zip,
			order.Country,
			order.GiftWrap,
			order.Shipped).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
	} else {
		res, errUpdate := tx.ExecContext(ctx,
			`UPDATE orders
			 SET name = $1, address = $2, city = $3, state = $4, zip = $5, country = $6, gift_wrap = $7, shipped = $8
			 WHERE order_id = $9`,
			order.Name,
			order.Address,
			order.City,
			order.State,
			order.Zip,
			order.Country,
			order.GiftWrap,
			order.Shipped,
			order.ID)
		if errUpdate != nil {
			return fmt.Errorf("update order: %w", errUpdate)
		}
		affected, errAffected := res.RowsAffected()
		if errAffected != nil {
			return fmt.Errorf("update order: %w", errAffected)
		}
		if affected == 0 {
			err = ErrOrderNotFound
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
	}

	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, product_id, position, quantity) VALUES ($1, $2, $3, $4)`,
			orderID, line.Product.ID, i, line.Quantity)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	order.ID = orderID
	return nil
}

// Orders loads orders with their lines and products in a single query.
func (r *OrderRepository) Orders(ctx context.Context, q OrderQuery) ([]*domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if q.Shipped != nil {
		args = append(args, *q.Shipped)
		where = append(where, fmt.Sprintf("shipped = $%d", len(args)))
	}

	return r.query(ctx, where, args, q.Sort, q.Limit, q.Offset)
}

func (r *OrderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.query(ctx, []string{"order_id = $1"}, []any{id}, SortAscending, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

func (r *OrderRepository) MarkShipped(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET shipped = $1 WHERE order_id = $2`, true, id)
	if err != nil {
		return fmt.Errorf("mark order shipped: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark order shipped: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) query(ctx context.Context, where []string, args []any, sort SortDirection, limit, offset int) ([]*domain.Order, error) {
	direction := "ASC"
	if sort == SortDescending {
		direction = "DESC"
	}

	var inner strings.Builder
	inner.WriteString(`SELECT order_id, name, address, city, state, zip, country, gift_wrap, shipped FROM orders`)
	if len(where) > 0 {
		inner.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	inner.WriteString(" ORDER BY order_id " + direction)
	if limit > 0 {
		args = append(args, limit, offset)
		fmt.Fprintf(&inner, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	query := `
		SELECT o.order_id, o.name, o.address, o.city, o.state, o.zip, o.country, o.gift_wrap, o.shipped,
		       l.quantity, l.product_id, p.name, p.description, p.price, p.category
		FROM (` + inner.String() + `) o
		LEFT JOIN order_lines l ON l.order_id = o.order_id
		LEFT JOIN products p ON p.product_id = l.product_id
		ORDER BY o.order_id ` + direction + `, l.position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var current *domain.Order
	for rows.Next() {
		var (
			o           domain.Order
			quantity    sql.NullInt64
			productID   sql.NullInt64
			productName sql.NullString
			description sql.NullString
			price       decimal.NullDecimal
			category    sql.NullString
		)
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Address,
			&o.City,
			&o.State,
			&o.Zip,
			&o.Country,
			&o.GiftWrap,
			&o.Shipped,
			&quantity,
			&productID,
			&productName,
			&description,
			&price,
			&category,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		if current == nil || current.ID != o.ID {
			o.Lines = []domain.CartLine{}
			current = &o
			orders = append(orders, current)
		}
		if productID.Valid {
			current.Lines = append(current.Lines, domain.CartLine{
				Product: domain.Product{
					ID:          productID.Int64,
					Name:        productName.String,
					Description: description.String,
					Price:       price.Decimal,
					Category:    category.String,
				},
				Quantity: int(quantity.Int64),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}
