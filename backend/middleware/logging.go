package middleware

import (
	"log"
	"time"

	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func LoggingMiddleware(logger *log.Logger, colors bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// let the app error handler write the status before logging it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		method := c.Method()
		if colors {
			logger.Printf("%s %s%s%s %s %s%d%s %v",
				c.IP(),
				utils.MethodColor(method), method, utils.ColorReset,
				c.Path(),
				utils.StatusColor(status), status, utils.ColorReset,
				time.Since(start),
			)
		} else {
			logger.Printf("%s %s %s %d %v", c.IP(), method, c.Path(), status, time.Since(start))
		}
		return nil
	}
}
