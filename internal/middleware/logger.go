package middleware

import (
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// RequestLogger logs one line per completed request.
func RequestLogger(logger *zap.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
