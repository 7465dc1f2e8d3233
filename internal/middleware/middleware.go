package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const authContextKey = "auth_context"

// Logger logs one line per request with the zap fields the dashboards expect.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString("request_id")),
		}

		if status >= 500 {
			logger.Error("Server error", fields...)
		} else if status >= 400 {
			logger.Warn("Client error", fields...)
		} else {
			logger.Info("Request", fields...)
		}
	}
}

// CORS is deliberately permissive: the tracking page is a public tool and the
// admin headers ride along from the back office SPA.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID, x-admin-pin, x-admin-bypass-pin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestID tags every request for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// AuthContext turns the shared-secret headers into an explicit capability
// object; nothing below the handler layer reads headers.
func AuthContext(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := service.AuthContext{}
		if secret != "" {
			if secretEqual(c.GetHeader("x-admin-pin"), secret) {
				auth.Admin = true
				auth.BypassPin = true
			}
			if secretEqual(c.GetHeader("x-admin-bypass-pin"), secret) {
				auth.BypassPin = true
			}
		}
		c.Set(authContextKey, auth)
		c.Next()
	}
}

func secretEqual(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// AuthFrom returns the capability object set by AuthContext.
func AuthFrom(c *gin.Context) service.AuthContext {
	if v, ok := c.Get(authContextKey); ok {
		if auth, ok := v.(service.AuthContext); ok {
			return auth
		}
	}
	return service.AuthContext{}
}
