package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger логирует каждый запрос через logrus. Приватные ошибки хендлеров (gin.ErrorTypePrivate)
// попадают только в лог, клиенту они не отдаются.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := l.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"clientIP": c.ClientIP(),
			"duration": time.Since(start).String(),
		})

		privateErrs := c.Errors.ByType(gin.ErrorTypePrivate)
		if len(privateErrs) > 0 {
			entry.WithField("errors", privateErrs.Errors()).Error("request failed")
			return
		}
		entry.Info("request")
	}
}
