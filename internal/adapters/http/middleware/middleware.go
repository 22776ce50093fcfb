package middleware

import (
	"errors"
	"log"
	"time"

	"loandesk/internal/config"
	"loandesk/internal/core/domain"
	"loandesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// General rate limit: 100 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests, please try again later")
		},
	}))

	if cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	} else {
		app.Use(logger.New(logger.Config{
			Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	if cfg.IsDev() {
		app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		}))
	} else {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.GetAllowedOrigins(),
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
			AllowCredentials: true,
		}))
	}
}

// AuthRateLimiter creates a stricter rate limiter for auth endpoints
// (login, signup, refresh): 5 requests per minute per IP.
func AuthRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "-auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many authentication attempts, please wait a minute")
		},
	})
}

// ErrorHandler translates errors escaping handlers into the error body
// shape. Domain errors map by kind; anything unrecognized is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		if derr.Kind == domain.KindInternal {
			log.Printf("❌ Internal error on %s %s: %v", c.Method(), c.Path(), derr.Unwrap())
		}
		return response.DomainError(c, derr)
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code := "ERROR"
		switch ferr.Code {
		case fiber.StatusNotFound:
			code = "ENDPOINT_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_SUPPORTED"
		}
		return response.Error(c, ferr.Code, code, ferr.Message)
	}

	log.Printf("❌ Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	return response.Error(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
		"An unexpected error occurred. Please try again later")
}
