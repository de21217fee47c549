// Package runseq hands out per-session run tickets so that a run finishing after a newer run of
// the same session started can be recognised as stale.
package runseq

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Ticket identifies one run of a session. The zero Ticket belongs to no session and is always
// current.
type Ticket struct {
	Session string
	Seq     int64
}

func (t Ticket) String() string {
	return t.Session + "#" + strconv.FormatInt(t.Seq, 10)
}

type Sequencer interface {
	// Begin issues the next ticket of session.
	Begin(ctx context.Context, session string) (Ticket, error)
	// IsCurrent reports whether no run of the ticket's session began after it.
	IsCurrent(ctx context.Context, t Ticket) (bool, error)
}

type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: "runseq#session:",
		ttl:    ttl,
	}
}

func (s *Redis) Begin(ctx context.Context, session string) (Ticket, error) {
	if session == "" {
		return Ticket{}, nil
	}
	key := s.prefix + session

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return Ticket{}, errors.Wrap(err, "runseq: failed to issue ticket")
	}
	return Ticket{Session: session, Seq: incr.Val()}, nil
}

func (s *Redis) IsCurrent(ctx context.Context, t Ticket) (bool, error) {
	if t.Session == "" {
		return true, nil
	}
	cur, err := s.client.Get(ctx, s.prefix+t.Session).Int64()
	if errors.Is(err, redis.Nil) {
		// the sequence expired: nothing began since
		return true, nil
	} else if err != nil {
		return false, errors.Wrap(err, "runseq: failed to read sequence")
	}
	return cur == t.Seq, nil
}

// Memory is an in-process Sequencer for single-instance deployments and tests.
type Memory struct {
	mu  sync.Mutex
	seq map[string]int64
}

func NewMemory() *Memory {
	return &Memory{seq: map[string]int64{}}
}

func (s *Memory) Begin(_ context.Context, session string) (Ticket, error) {
	if session == "" {
		return Ticket{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[session]++
	return Ticket{Session: session, Seq: s.seq[session]}, nil
}

func (s *Memory) IsCurrent(_ context.Context, t Ticket) (bool, error) {
	if t.Session == "" {
		return true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq[t.Session] == t.Seq, nil
}
