package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AccessLogMiddleware struct {
	logger *logrus.Logger
}

func NewAccessLogMiddleware(logger *logrus.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		err := c.Next()

		m.logger.WithFields(logrus.Fields{
			"rid":     rid,
			"ip":      c.IP(),
			"method":  c.Method(),
			"path":    c.OriginalURL(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
		}).Info("http access")

		return err
	}
}
