package http

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/config"
	"github.com/spec-kit/homecare-api/internal/observability"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// MiddlewareConfig bundles what the global middleware chain needs.
type MiddlewareConfig struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Timeout time.Duration
	CORS    config.CORSConfig
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORS.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(compress.New())
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

// ErrorHandler renders errors that escape the middleware chain, such as
// unmatched routes and oversized bodies.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return renderError(c, logger, metrics, err)
	}
}

func renderError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("code", domainErr.Code),
			zap.Error(domainErr))
	}

	response := fiber.Map{
		"message": domainErr.Message,
		"code":    domainErr.Code,
	}
	if len(domainErr.Details) > 0 {
		response["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(response)
}
