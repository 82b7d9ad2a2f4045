package domain

import "context"

// OrderRepository defines the data-access contract for order records.
type OrderRepository interface {
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)

	// Create inserts a new order.
	Create(ctx context.Context, order *Order) error

	// Update rewrites all mutable fields of the order. Returns ErrNotFound
	// for an unknown id.
	Update(ctx context.Context, order *Order) error

	// Delete removes the order. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every order.
	DeleteAll(ctx context.Context) error

	// CreateBatch inserts all orders in a single transaction; either every
	// order lands or none do.
	CreateBatch(ctx context.Context, orders []Order) error
}
