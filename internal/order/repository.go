package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order row and returns its generated id.
func (r *Repository) Create(ctx context.Context, userID string, status Status, total float64) (int64, error) {
	query := `INSERT INTO orders (user_id, status, total) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, status.String(), total).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// CreateItems batch-inserts the order lines in one statement.
func (r *Repository) CreateItems(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	var (
		values []string
		args   []any
	)
	for _, item := range items {
		args = append(args, item.OrderID, item.ProductID, item.Quantity, item.Price)
		n := len(args)
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d)", n-3, n-2, n-1, n))
	}

	query := "INSERT INTO order_items (order_id, product_id, quantity, price) VALUES " +
		strings.Join(values, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// SetStatus updates the order's status; used to mark an order failed when
// its item writes do not complete.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status.String(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Get fetches an order scoped to its owning identity, with its items joined
// to the product name and image for display.
func (r *Repository) Get(ctx context.Context, id int64, userID string) (*Order, error) {
	query := `SELECT id, user_id, status, total, created_at
	          FROM orders WHERE id = $1 AND user_id = $2`

	o := &Order{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&o.ID,
		&o.UserID,
		&status,
		&o.Total,
		&o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	o.Status = Status(status)

	itemsQuery := `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name, p.image_url
	               FROM order_items oi
	               JOIN products p ON p.id = oi.product_id
	               WHERE oi.order_id = $1
	               ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.ProductName,
			&item.ProductImage,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return o, nil
}

// ListByUser returns the identity's orders, newest first, without items.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	query := `SELECT id, user_id, status, total, created_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o := &Order{}
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &status, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.Status = Status(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}
