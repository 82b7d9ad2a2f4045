package v1

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordercrm/crm-service/internal/core/domain"
)

func newOrderFixture(t *testing.T) (*OrderService, *fakeOrderRepo) {
	t.Helper()
	repo := newFakeOrderRepo()
	return NewOrderService(repo), repo
}

func TestOrderCreate_FillsIDAndTime(t *testing.T) {
	svc, repo := newOrderFixture(t)

	id, err := svc.Create(context.Background(), domain.Order{
		Marketplace:  "Amazon",
		CustomerName: "Alice",
		Product:      "Widget",
		Quantity:     2,
		Price:        19.99,
		Status:       "pending",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, repo.orders, 1)
	stored := repo.orders[0]
	assert.Equal(t, id, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestOrderCreate_KeepsCallerID(t *testing.T) {
	svc, repo := newOrderFixture(t)

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id, err := svc.Create(context.Background(), domain.Order{
		ID:        "ord-1",
		Product:   "Widget",
		Status:    "pending",
		CreatedAt: fixed,
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", id)
	assert.Equal(t, fixed, repo.orders[0].CreatedAt)
}

func TestOrderUpdate_UnknownID(t *testing.T) {
	svc, _ := newOrderFixture(t)
	err := svc.Update(context.Background(), "ghost", domain.Order{Product: "Widget"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderDeleteAndClear(t *testing.T) {
	svc, repo := newOrderFixture(t)
	_, err := svc.Create(context.Background(), domain.Order{ID: "ord-1", Status: "pending"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), domain.Order{ID: "ord-2", Status: "shipped"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "ord-1"))
	assert.Len(t, repo.orders, 1)

	// Unknown ids are fine.
	require.NoError(t, svc.Delete(context.Background(), "ghost"))

	require.NoError(t, svc.Clear(context.Background()))
	assert.Empty(t, repo.orders)
}

func TestBulkImport(t *testing.T) {
	svc, repo := newOrderFixture(t)

	count, err := svc.BulkImport(context.Background(), []domain.Order{
		{Product: "Widget", Quantity: 1, Price: 5, Status: "pending"},
		{ID: "ord-keep", Product: "Gadget", Quantity: 3, Price: 12.5, Status: "shipped"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, repo.orders, 2)
	assert.NotEmpty(t, repo.orders[0].ID)
	assert.False(t, repo.orders[0].CreatedAt.IsZero())
	assert.Equal(t, "ord-keep", repo.orders[1].ID)
}

func TestBulkImport_EmptySliceIsNoop(t *testing.T) {
	svc, repo := newOrderFixture(t)

	count, err := svc.BulkImport(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, repo.orders)
}

func TestBulkImport_BatchFailure(t *testing.T) {
	svc, repo := newOrderFixture(t)
	repo.batchErr = errors.New("tx aborted")

	_, err := svc.BulkImport(context.Background(), []domain.Order{{Product: "Widget"}})
	require.Error(t, err)
	assert.Empty(t, repo.orders)
}

func TestExportCSV(t *testing.T) {
	svc, _ := newOrderFixture(t)
	_, err := svc.Create(context.Background(), domain.Order{
		ID:            "ord-1",
		Marketplace:   "eBay",
		CustomerName:  "Bob, Jr.",
		CustomerEmail: "bob@example.com",
		Product:       "Widget",
		Quantity:      2,
		Price:         19.9,
		Status:        "shipped",
		Notes:         "fragile",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"ord-1", "eBay", "Bob, Jr.", "bob@example.com",
		"Widget", "2", "19.90", "shipped", "fragile",
	}, records[1])
}

func TestImportCSV_Roundtrip(t *testing.T) {
	src, _ := newOrderFixture(t)
	_, err := src.Create(context.Background(), domain.Order{
		ID: "ord-1", Marketplace: "Amazon", CustomerName: "Alice",
		Product: "Widget", Quantity: 1, Price: 9.99, Status: "pending",
	})
	require.NoError(t, err)
	_, err = src.Create(context.Background(), domain.Order{
		ID: "ord-2", Marketplace: "Etsy", CustomerName: "Bob",
		Product: "Gadget", Quantity: 4, Price: 3.5, Status: "delivered",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.ExportCSV(context.Background(), &buf))

	dst, repo := newOrderFixture(t)
	count, err := dst.ImportCSV(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, repo.orders, 2)
	byID := map[string]domain.Order{}
	for _, o := range repo.orders {
		byID[o.ID] = o
	}
	assert.Equal(t, 9.99, byID["ord-1"].Price)
	assert.Equal(t, 4, byID["ord-2"].Quantity)
	assert.Equal(t, "delivered", byID["ord-2"].Status)
}

func TestImportCSV_Errors(t *testing.T) {
	header := strings.Join(csvHeader, ",")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "empty input",
		},
		{
			name:  "bad quantity",
			input: header + "\nord-1,Amazon,Alice,a@example.com,Widget,two,9.99,pending,",
			want:  "invalid quantity",
		},
		{
			name:  "bad price",
			input: header + "\nord-1,Amazon,Alice,a@example.com,Widget,2,cheap,pending,",
			want:  "invalid price",
		},
		{
			name:  "short row",
			input: header + "\nord-1,Amazon,Alice",
			want:  "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newOrderFixture(t)
			_, err := svc.ImportCSV(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, repo.orders)
		})
	}
}

func TestImportCSV_HeaderOnly(t *testing.T) {
	svc, repo := newOrderFixture(t)
	count, err := svc.ImportCSV(context.Background(), strings.NewReader(strings.Join(csvHeader, ",")+"\n"))
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, repo.orders)
}
