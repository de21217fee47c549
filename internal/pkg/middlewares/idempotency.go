package middlewares

import (
	"context"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/plantops/opsboard/internal/pkg/opserr"
	"github.com/plantops/opsboard/internal/util/rekuest"
)

const (
	idempotencyKeyRule = "max=128,alphanum"

	idempotencyHit   = "hit"
	idempotencySaved = "saved"
)

type IdempotencyConfig struct {
	// Lifetime is how long a stored response is replayed.
	Lifetime time.Duration

	// KeyHeader carries the client's key. Defaults to HeaderIdempotencyKey.
	KeyHeader string

	// KeepResponseHeaders limits which response headers are stored. Empty keeps them all.
	KeepResponseHeaders []string

	Storage fiber.Storage
	RedSync *redsync.Redsync
}

// storedResponse is the msgpack record kept in Storage under the client's key.
type storedResponse struct {
	Status  int                 `msgpack:"s"`
	Headers map[string][]string `msgpack:"h"`
	Body    []byte              `msgpack:"b"`
}

type idempotency struct {
	IdempotencyConfig
	keep map[string]struct{}
}

// Idempotency makes a handler safe to retry. The first request carrying a key runs the handler
// under a distributed lock on that key and stores its response if the status is below 400.
// Later requests with the same key get the stored response back, marked with HeaderIdempotency.
// Requests without a key pass through untouched.
func Idempotency(config IdempotencyConfig) fiber.Handler {
	if config.KeyHeader == "" {
		config.KeyHeader = HeaderIdempotencyKey
	}
	m := &idempotency{IdempotencyConfig: config}
	if len(config.KeepResponseHeaders) > 0 {
		m.keep = make(map[string]struct{}, len(config.KeepResponseHeaders))
		for _, h := range config.KeepResponseHeaders {
			m.keep[strings.ToLower(h)] = struct{}{}
		}
	}
	return m.handle
}

func (m *idempotency) handle(c *fiber.Ctx) error {
	key := c.Get(m.KeyHeader)
	if key == "" {
		return c.Next()
	}
	if err := rekuest.Validate.Var(key, idempotencyKeyRule); err != nil {
		return opserr.ErrInvalidReq.Msg("invalid idempotency key: at most 128 alphanumeric characters are allowed")
	}

	if hit, err := m.replay(c, key); hit || err != nil {
		return err
	}

	ctx := c.UserContext()
	mutex := m.RedSync.NewMutex("mutex:idempotency:"+key,
		redsync.WithExpiry(time.Minute),
		redsync.WithTries(5),
		redsync.WithRetryDelay(250*time.Millisecond))
	if err := mutex.LockContext(ctx); err != nil {
		log.Warn().Err(err).
			Str("evt.name", "http.idempotency.lock.failed").
			Str("key", key).
			Msg("failed to lock idempotency key")
		return opserr.ErrInternalError.Msg("the idempotency key is held by a concurrent request")
	}
	defer m.unlock(ctx, mutex, key)

	// the previous holder may have stored a response while we waited
	if hit, err := m.replay(c, key); hit || err != nil {
		return err
	}

	if err := c.Next(); err != nil {
		return err
	}
	if c.Response().StatusCode() >= fiber.StatusBadRequest {
		return nil
	}

	if err := m.store(c, key); err != nil {
		log.Error().Err(err).
			Str("evt.name", "http.idempotency.save.failed").
			Str("key", key).
			Msg("failed to store idempotent response")
		return err
	}
	c.Set(HeaderIdempotency, idempotencySaved)
	return nil
}

// replay writes the stored response for key, if any. A storage read failure counts as a miss.
func (m *idempotency) replay(c *fiber.Ctx, key string) (bool, error) {
	raw, err := m.Storage.Get(key)
	if err != nil {
		log.Warn().Err(err).
			Str("evt.name", "http.idempotency.read.failed").
			Str("key", key).
			Msg("failed to read idempotent response")
		return false, nil
	}
	if raw == nil {
		return false, nil
	}

	var resp storedResponse
	if err := msgpack.Unmarshal(raw, &resp); err != nil {
		return true, err
	}

	c.Status(resp.Status)
	header := &c.Response().Header
	for name, values := range resp.Headers {
		for _, v := range values {
			header.Add(name, v)
		}
	}
	c.Set(HeaderIdempotency, idempotencyHit)
	return true, c.Send(resp.Body)
}

func (m *idempotency) store(c *fiber.Ctx, key string) error {
	resp := storedResponse{
		Status:  c.Response().StatusCode(),
		Headers: map[string][]string{},
		Body:    c.Response().Body(),
	}
	c.Response().Header.VisitAll(func(k, v []byte) {
		name := string(k)
		if strings.EqualFold(name, fiber.HeaderContentLength) {
			return
		}
		if m.keep != nil {
			if _, ok := m.keep[strings.ToLower(name)]; !ok {
				return
			}
		}
		resp.Headers[name] = append(resp.Headers[name], string(v))
	})

	raw, err := msgpack.Marshal(&resp)
	if err != nil {
		return err
	}
	return m.Storage.Set(key, raw, m.Lifetime)
}

func (m *idempotency) unlock(ctx context.Context, mutex *redsync.Mutex, key string) {
	if _, err := mutex.UnlockContext(ctx); err != nil {
		log.Warn().Err(err).
			Str("evt.name", "http.idempotency.unlock.failed").
			Str("key", key).
			Msg("failed to unlock idempotency key")
	}
}
