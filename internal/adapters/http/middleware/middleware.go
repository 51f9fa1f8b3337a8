package middleware

import (
	"errors"
	"time"

	"vgt-backoffice/internal/config"
	applog "vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const accessLogFormat = "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n"

// Setup installs the global middleware chain: panic recovery, compression,
// security headers, the per-IP request limit, access logging and CORS.
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDev()}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
		// swagger UI loads its own assets
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	app.Use(rateLimiter(100, "api", "Too many requests, please slow down"))

	app.Use(logger.New(logger.Config{
		Format:     accessLogFormat,
		TimeFormat: "2006-01-02 15:04:05",
	}))

	origins := cfg.GetAllowedOrigins()
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization",
		ExposeHeaders: "Content-Disposition",
		// credentials cannot be combined with a wildcard origin
		AllowCredentials: origins != "*",
	}))
}

// AuthRateLimiter allows 5 login attempts per minute per IP
func AuthRateLimiter() fiber.Handler {
	return rateLimiter(5, "auth", "Too many login attempts, please wait a minute")
}

// StrictRateLimiter allows 3 requests per minute per IP (password changes)
func StrictRateLimiter() fiber.Handler {
	return rateLimiter(3, "strict", "Please wait before trying again")
}

func rateLimiter(limit int, bucket, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "-" + bucket
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// CustomErrorHandler answers errors that escaped the handlers, including
// fiber's own 404 and 405, with the standard response envelope.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		applog.Error(c.Method()+" "+c.Path()+" failed", err)
	}

	return response.Error(c, code, message)
}
