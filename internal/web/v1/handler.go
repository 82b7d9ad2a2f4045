// Package v1 exposes the HTTP surface for API version 1.
package v1

import (
	"strings"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/ordercrm/crm-service/internal/logic/v1"
)

// currentUserKey is the gin context key holding the authenticated user set
// by the session middlewares.
const currentUserKey = "currentUser"

// Handler groups HTTP handlers for API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth   *logicv1.AuthService
	users  *logicv1.UserService
	orders *logicv1.OrderService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(auth *logicv1.AuthService, users *logicv1.UserService, orders *logicv1.OrderService) *Handler {
	return &Handler{auth: auth, users: users, orders: orders}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// User management requires the admin role; orders require any valid session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/verify", h.Verify)
	rg.POST("/auth/logout", h.Logout)

	users := rg.Group("/users", h.RequireAdmin())
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)
	users.POST("/:id/change-password", h.ChangePassword)

	orders := rg.Group("/orders", h.RequireSession())
	orders.GET("", h.ListOrders)
	orders.POST("", h.CreateOrder)
	orders.DELETE("", h.ClearOrders)
	orders.POST("/bulk", h.BulkImportOrders)
	orders.GET("/export", h.ExportOrdersCSV)
	orders.POST("/import", h.ImportOrdersCSV)
	orders.PUT("/:id", h.UpdateOrder)
	orders.DELETE("/:id", h.DeleteOrder)
}

// bearerToken extracts the opaque session token from the Authorization
// header. Returns "" when the header is missing or not Bearer-shaped.
func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}
