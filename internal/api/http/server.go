package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ServerConfig bundles everything NewApp needs.
type ServerConfig struct {
	Name           string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Routes         RouteConfig
}

// NewApp builds the fiber application with middlewares and routes attached.
func NewApp(cfg ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout)
	if cfg.Routes.Metrics == nil {
		cfg.Routes.Metrics = cfg.Metrics
	}
	RegisterRoutes(app, cfg.Routes)
	return app
}
