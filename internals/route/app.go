package routes

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	middlewares "obra360_backend/internals/middlewares"
)

// NewApp builds the Fiber app with the JSON codec, error handler and base middlewares.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            middlewares.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})
	middlewares.SetupMiddlewares(app)
	return app
}
