package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Yayabtw/ishak-school-new/pkg/config"
	"github.com/Yayabtw/ishak-school-new/pkg/middleware/requestid"
)

// New builds the process logger from the LOG_LEVEL / LOG_FORMAT settings.
func New(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		zc = zap.NewProductionConfig()
	}

	zc.Encoding = "json"
	if cfg.Log.Format == "console" {
		zc.Encoding = "console"
	}

	if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}

// GinMiddleware logs one line per request, at error level for 5xx responses.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if id := requestid.Value(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Error("http_request", fields...)
			return
		}
		l.Info("http_request", fields...)
	}
}
