package repository

import (
	"context"

	"github.com/ordercrm/crm-service/internal/core/domain"
)

// PgxOrderRepository implements domain.OrderRepository using pgx.
type PgxOrderRepository struct {
	db DB
}

// NewOrderRepository creates a new PgxOrderRepository.
func NewOrderRepository(db DB) *PgxOrderRepository {
	return &PgxOrderRepository{db: db}
}

const orderInsert = `
	INSERT INTO orders (id, marketplace, customer_name, customer_email, product, quantity, price, status, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// List returns all orders, newest first.
func (r *PgxOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, marketplace, customer_name, customer_email, product, quantity, price, status, notes, created_at
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(&o.ID, &o.Marketplace, &o.CustomerName, &o.CustomerEmail,
			&o.Product, &o.Quantity, &o.Price, &o.Status, &o.Notes, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Create inserts a new order.
func (r *PgxOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	_, err := r.db.Exec(ctx, orderInsert,
		order.ID, order.Marketplace, order.CustomerName, order.CustomerEmail,
		order.Product, order.Quantity, order.Price, order.Status, order.Notes, order.CreatedAt,
	)
	return err
}

// Update rewrites all mutable fields. Returns domain.ErrNotFound for an
// unknown id.
func (r *PgxOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET marketplace = $1, customer_name = $2, customer_email = $3, product = $4,
		    quantity = $5, price = $6, status = $7, notes = $8
		WHERE id = $9
	`
	tag, err := r.db.Exec(ctx, query,
		order.Marketplace, order.CustomerName, order.CustomerEmail, order.Product,
		order.Quantity, order.Price, order.Status, order.Notes, order.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the order. Deleting an unknown id is not an error.
func (r *PgxOrderRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM orders WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// DeleteAll removes every order.
func (r *PgxOrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders`)
	return err
}

// CreateBatch inserts all orders in one transaction.
func (r *PgxOrderRepository) CreateBatch(ctx context.Context, orders []domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range orders {
		o := &orders[i]
		_, err := tx.Exec(ctx, orderInsert,
			o.ID, o.Marketplace, o.CustomerName, o.CustomerEmail,
			o.Product, o.Quantity, o.Price, o.Status, o.Notes, o.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
