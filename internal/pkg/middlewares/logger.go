package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/plantops/opsboard/internal/pkg/flog"
)

const (
	HeaderRequestID      = "X-Opsboard-Request-ID"
	HeaderSession        = "X-Opsboard-Session"
	HeaderAdminKey       = "X-Opsboard-Admin-Key"
	HeaderIdempotencyKey = "X-Opsboard-Idempotency-Key"
	HeaderIdempotency    = "X-Opsboard-Idempotency"
)

func Logger(app *fiber.App) {
	Chained(
		app,
		injectLogger(),
		flog.RequestIDHandler("request_id", HeaderRequestID),
		flog.RemoteAddrHandler("ip"),
		flog.MethodHandler("method"),
		flog.URLHandler("url"),
		flog.UserAgentHandler("user_agent"),
		flog.HeaderHandler("session", HeaderSession),
		requestLogger(),
	)
}

func injectLogger() func(ctx *fiber.Ctx) error {
	return flog.NewHandlerMiddleware(log.With().Logger())
}

func requestLogger() func(ctx *fiber.Ctx) error {
	return flog.AccessHandler(func(ctx *fiber.Ctx, duration time.Duration) {
		flog.FromFiberCtx(ctx).Info().
			Str("component", "httpreq").
			Int("status", ctx.Response().StatusCode()).
			Int("size", len(ctx.Response().Body())).
			Dur("duration", duration).
			Msg("received request")
	})
}
