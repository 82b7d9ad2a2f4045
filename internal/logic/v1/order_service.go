package v1

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ordercrm/crm-service/internal/core/domain"
	"github.com/ordercrm/crm-service/middleware"
)

// csvHeader is the column layout of order exports and imports.
var csvHeader = []string{
	"Order ID", "Marketplace", "Customer Name", "Customer Email",
	"Product", "Quantity", "Price", "Status", "Notes",
}

// OrderService implements order CRUD, bulk import and CSV exchange.
type OrderService struct {
	orders domain.OrderRepository
	now    func() time.Time
}

// NewOrderService creates a new OrderService with the given repository.
func NewOrderService(orders domain.OrderRepository) *OrderService {
	return &OrderService{
		orders: orders,
		now:    time.Now,
	}
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	ctx, span := middleware.StartSpan(ctx, "orders.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	orders, err := s.orders.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

// Create stores a new order, generating an id and creation time when the
// caller supplies none.
func (s *OrderService) Create(ctx context.Context, order domain.Order) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "orders.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("insert order: %w", err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	return order.ID, nil
}

// Update rewrites an existing order's fields.
func (s *OrderService) Update(ctx context.Context, id string, order domain.Order) error {
	ctx, span := middleware.StartSpan(ctx, "orders.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("order.id", id),
	))
	defer span.End()

	order.ID = id
	if err := s.orders.Update(ctx, &order); err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("update order %q: %w", id, ErrNotFound)
		}
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// Delete removes an order. Deleting an unknown id succeeds.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	ctx, span := middleware.StartSpan(ctx, "orders.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("order.id", id),
	))
	defer span.End()

	if err := s.orders.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete order %q: %w", id, err)
	}
	return nil
}

// Clear removes every order.
func (s *OrderService) Clear(ctx context.Context) error {
	ctx, span := middleware.StartSpan(ctx, "orders.clear", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.orders.DeleteAll(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("clear orders: %w", err)
	}
	return nil
}

// BulkImport inserts orders in one transaction and returns how many landed.
// Missing ids and creation times are filled in.
func (s *OrderService) BulkImport(ctx context.Context, orders []domain.Order) (int, error) {
	ctx, span := middleware.StartSpan(ctx, "orders.bulk_import", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("orders.count", len(orders)),
	))
	defer span.End()

	if len(orders) == 0 {
		return 0, nil
	}
	now := s.now()
	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = uuid.NewString()
		}
		if orders[i].CreatedAt.IsZero() {
			orders[i].CreatedAt = now
		}
	}
	if err := s.orders.CreateBatch(ctx, orders); err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("bulk import orders: %w", err)
	}
	return len(orders), nil
}

// ExportCSV writes all orders to w as CSV, newest first.
func (s *OrderService) ExportCSV(ctx context.Context, w io.Writer) error {
	orders, err := s.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range orders {
		o := &orders[i]
		record := []string{
			o.ID,
			o.Marketplace,
			o.CustomerName,
			o.CustomerEmail,
			o.Product,
			strconv.Itoa(o.Quantity),
			strconv.FormatFloat(o.Price, 'f', 2, 64),
			o.Status,
			o.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV parses orders from r (header row required, columns as produced
// by ExportCSV) and stores them in one transaction.
func (s *OrderService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("import csv: empty input")
		}
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return 0, fmt.Errorf("import csv: expected %d columns, got %d", len(csvHeader), len(header))
	}

	var orders []domain.Order
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", line, err)
		}

		quantity, err := strconv.Atoi(record[5])
		if err != nil {
			return 0, fmt.Errorf("csv line %d: invalid quantity %q", line, record[5])
		}
		price, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return 0, fmt.Errorf("csv line %d: invalid price %q", line, record[6])
		}

		orders = append(orders, domain.Order{
			ID:            record[0],
			Marketplace:   record[1],
			CustomerName:  record[2],
			CustomerEmail: record[3],
			Product:       record[4],
			Quantity:      quantity,
			Price:         price,
			Status:        record[7],
			Notes:         record[8],
		})
	}

	return s.BulkImport(ctx, orders)
}
