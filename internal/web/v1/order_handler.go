package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ordercrm/crm-service/internal/core/domain"
	logicv1 "github.com/ordercrm/crm-service/internal/logic/v1"
	"github.com/ordercrm/crm-service/middleware"
)

// ListOrders handles GET /orders.
func (h *Handler) ListOrders(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	orders, err := h.orders.List(ctx)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("List orders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// CreateOrder handles POST /orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	var order domain.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.orders.Create(ctx, order)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Create order failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// UpdateOrder handles PUT /orders/:id.
func (h *Handler) UpdateOrder(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	var order domain.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.orders.Update(ctx, id, order); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Str("order_id", id).Msg("Update order failed")

		if errors.Is(err, logicv1.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteOrder handles DELETE /orders/:id. Idempotent.
func (h *Handler) DeleteOrder(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	id := c.Param("id")
	if err := h.orders.Delete(ctx, id); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Str("order_id", id).Msg("Delete order failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearOrders handles DELETE /orders.
func (h *Handler) ClearOrders(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	if err := h.orders.Clear(ctx); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Clear orders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	evt := zerolog.Ctx(ctx).Info()
	if user, ok := CurrentUser(c); ok {
		evt = evt.Str("user_id", user.ID)
	}
	evt.Msg("All orders cleared")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BulkImportOrders handles POST /orders/bulk: a JSON batch inserted in one
// transaction.
func (h *Handler) BulkImportOrders(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	var req struct {
		Orders []domain.Order `json:"orders" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.orders.BulkImport(ctx, req.Orders)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Bulk import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	zerolog.Ctx(ctx).Info().Int("count", count).Msg("Orders imported")
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// ExportOrdersCSV handles GET /orders/export, streaming a CSV attachment.
func (h *Handler) ExportOrdersCSV(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	filename := fmt.Sprintf("orders_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.orders.ExportCSV(ctx, c.Writer); err != nil {
		// Headers may already be out; log, there is no clean error path.
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("CSV export failed")
	}
}

// ImportOrdersCSV handles POST /orders/import with a raw CSV body.
func (h *Handler) ImportOrdersCSV(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	count, err := h.orders.ImportCSV(ctx, c.Request.Body)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("CSV import failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zerolog.Ctx(ctx).Info().Int("count", count).Msg("Orders imported from CSV")
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
