package handlers

import (
	"net/http"
	"strconv"
	"time"

	"warbler/internal/services"
	"warbler/pkg/utils"

	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	csrfActiveKey   = "csrf_active"
)

// AuthRequired lets the request through only when a user is logged in.
// Anonymous requests are sent home with a flash before any handler runs.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			h.flash(c, flashDanger, "Access unauthorized.")
			h.redirect(c, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFProtection rejects unsafe requests whose _csrf field or X-CSRF-Token
// header does not match the salt kept in the session.
func (h *Handler) CSRFProtection() gin.HandlerFunc {
	protect := csrf.Middleware(csrf.Options{
		Secret: h.cfg.SessionSecret,
		ErrorFunc: func(c *gin.Context) {
			h.logger.Warn("CSRF token mismatch",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(requestIDKey)),
			)
			h.render(c, http.StatusForbidden, "403.html", nil)
			c.Abort()
		},
	})
	return func(c *gin.Context) {
		c.Set(csrfActiveKey, true)
		protect(c)
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// RequestLogger tags the request with an id, logs it once it completes and
// counts it by route and status.
func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = utils.NewRequestID()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.metrics.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			h.logger.Error("Request", fields...)
		case status >= http.StatusBadRequest:
			h.logger.Warn("Request", fields...)
		default:
			h.logger.Info("Request", fields...)
		}
	}
}

func (h *Handler) recoverPanic(c *gin.Context, recovered interface{}) {
	h.logger.Error("Recovered from panic",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
	)
	c.AbortWithStatus(http.StatusInternalServerError)
}
