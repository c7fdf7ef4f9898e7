package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
	"github.com/smallbiznis/facturo/pkg/tenantctx"
)

const contextTenantKey = "tenant"

// RequestLogger logs each request with correlation identifiers and safe fields.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	httpLog := log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.String("error", lastErr.Err.Error()))
		}

		logRequest(httpLog, route, status, fields)
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set("request_id", requestID)
	c.Header("X-Request-Id", requestID)
	return requestID
}

func logRequest(log *zap.Logger, route string, status int, fields []zap.Field) {
	level := zap.InfoLevel
	if status >= http.StatusInternalServerError {
		level = zap.ErrorLevel
	}
	if isMetric(route) {
		level = zap.DebugLevel
	}

	switch level {
	case zap.DebugLevel:
		log.Debug("http_request", fields...)
	case zap.ErrorLevel:
		log.Error("http_request", fields...)
	default:
		log.Info("http_request", fields...)
	}
}

func isMetric(route string) bool {
	return strings.EqualFold(strings.TrimSpace(route), "/metrics")
}

// TenantContext resolves the :slug path parameter and injects the tenant ID
// into the request context for downstream tenant-scoped queries.
func (s *Server) TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))
		if slug == "" {
			AbortWithError(c, newValidationError("slug", "invalid_slug", "tenant slug is required"))
			return
		}

		tenant, err := s.tenantSvc.ResolveSlug(c.Request.Context(), slug)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextTenantKey, tenant)
		ctx := tenantctx.WithTenantID(c.Request.Context(), tenant.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func tenantFromContext(c *gin.Context) (tenantdomain.Tenant, bool) {
	v, ok := c.Get(contextTenantKey)
	if !ok {
		return tenantdomain.Tenant{}, false
	}
	tenant, ok := v.(tenantdomain.Tenant)
	return tenant, ok
}
