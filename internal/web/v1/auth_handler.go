package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ordercrm/crm-service/internal/core/domain"
	logicv1 "github.com/ordercrm/crm-service/internal/logic/v1"
	"github.com/ordercrm/crm-service/middleware"
)

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Error().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	response, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Login failed")

		switch {
		// Unknown user and wrong password present identically: no
		// username enumeration.
		case errors.Is(err, logicv1.ErrInvalidCredentials),
			errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info().Str("user_id", response.User.ID).Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// Verify handles POST /auth/verify: body-carried session id to user.
func (h *Handler) Verify(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.VerifySession(ctx, req.SessionID)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrNoSession):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No session"})
		case errors.Is(err, logicv1.ErrSessionNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		default:
			logger.Error().Err(err).Msg("Session verification failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Logout handles POST /auth/logout. Always succeeds from the caller's
// perspective, even for unknown or expired ids.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	var req domain.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := h.auth.Logout(ctx, req.SessionID); err != nil {
		// Sign-out is idempotent and never visibly fails; log and move on.
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Logout failed")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
