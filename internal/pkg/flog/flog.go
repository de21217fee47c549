// Package flog attaches a request scoped zerolog logger to fiber requests.
package flog

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FromFiberCtx gets the logger in the request's context.
func FromFiberCtx(ctx *fiber.Ctx) *zerolog.Logger {
	return log.Ctx(ctx.UserContext())
}

// NewHandlerMiddleware injects a copy of l into the request context.
func NewHandlerMiddleware(l zerolog.Logger) func(*fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		// a fresh copy per request so UpdateContext does not race
		rl := l.With().Logger()
		ctx.SetUserContext(rl.WithContext(ctx.UserContext()))
		return ctx.Next()
	}
}

func field(fieldKey string, value func(ctx *fiber.Ctx) string) func(ctx *fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		l := zerolog.Ctx(ctx.UserContext())
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str(fieldKey, value(ctx))
		})
		return ctx.Next()
	}
}

// URLHandler logs the request path under fieldKey.
func URLHandler(fieldKey string) func(ctx *fiber.Ctx) error {
	return field(fieldKey, func(ctx *fiber.Ctx) string { return ctx.Path() })
}

// MethodHandler logs the request method under fieldKey.
func MethodHandler(fieldKey string) func(ctx *fiber.Ctx) error {
	return field(fieldKey, func(ctx *fiber.Ctx) string { return ctx.Method() })
}

// RemoteAddrHandler logs the client address under fieldKey.
func RemoteAddrHandler(fieldKey string) func(ctx *fiber.Ctx) error {
	return field(fieldKey, func(ctx *fiber.Ctx) string { return ctx.IP() })
}

// UserAgentHandler logs the user agent under fieldKey.
func UserAgentHandler(fieldKey string) func(ctx *fiber.Ctx) error {
	return field(fieldKey, func(ctx *fiber.Ctx) string { return ctx.Get(fiber.HeaderUserAgent) })
}

// HeaderHandler logs the request header under fieldKey when it is present.
func HeaderHandler(fieldKey, header string) func(ctx *fiber.Ctx) error {
	return func(ctx *fiber.Ctx) error {
		if v := ctx.Get(header); v != "" {
			l := zerolog.Ctx(ctx.UserContext())
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str(fieldKey, v)
			})
		}
		return ctx.Next()
	}
}

type idKey struct{}

// IDFromFiberCtx returns the request id assigned by RequestIDHandler.
func IDFromFiberCtx(ctx *fiber.Ctx) (id xid.ID, ok bool) {
	if ctx == nil {
		return
	}
	return IDFromCtx(ctx.UserContext())
}

func IDFromCtx(ctx context.Context) (id xid.ID, ok bool) {
	id, ok = ctx.Value(idKey{}).(xid.ID)
	return
}

func CtxWithID(ctx context.Context, id xid.ID) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// RequestIDHandler assigns every request an xid, logs it under fieldKey and echoes it in the
// headerName response header. Empty fieldKey or headerName skip the respective step.
func RequestIDHandler(fieldKey, headerName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, ok := IDFromFiberCtx(ctx)
		if !ok {
			id = xid.New()
			ctx.SetUserContext(CtxWithID(ctx.UserContext(), id))
		}
		if fieldKey != "" {
			l := FromFiberCtx(ctx)
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str(fieldKey, id.String())
			})
		}
		if headerName != "" {
			ctx.Set(headerName, id.String())
		}
		return ctx.Next()
	}
}

// AccessHandler calls f after each request with its duration.
func AccessHandler(f func(ctx *fiber.Ctx, duration time.Duration)) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		f(ctx, time.Since(start))
		return err
	}
}

func DebugFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Debug()
}

func InfoFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Info()
}

func WarnFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Warn()
}

func ErrorFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Error()
}
