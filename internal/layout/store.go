package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"lunarbase-server/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

// SessionStore keeps working sessions between requests. Get reports false
// when the user has no session yet.
type SessionStore interface {
	Get(ctx context.Context, userID int) (*Session, bool, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID int) error
}

// MemoryStore is the single-instance store used when Redis is disabled.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int]Session)}
}

func (m *MemoryStore) Get(_ context.Context, userID int) (*Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, false, nil
	}
	snap := s.Snapshot()
	return &snap, true, nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.UserID] = s.Snapshot()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// BreakerSettings configures the circuit breaker in front of Redis.
type BreakerSettings struct {
	MaxFailures uint32
	Timeout     time.Duration
}

// RedisSessionStore shares sessions between server instances. Every call
// goes through a circuit breaker so an unreachable Redis fails fast.
type RedisSessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[[]byte]
	logger *slog.Logger
}

const (
	sessionKeyPrefix = "lunarbase:session:"
	breakerName      = "redis-session-store"
)

func NewRedisSessionStore(client redis.Cmdable, ttl time.Duration, settings BreakerSettings) *RedisSessionStore {
	logger := slog.With("component", "layout_session_store")
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= max(settings.MaxFailures, 1)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &RedisSessionStore{client: client, ttl: ttl, cb: cb, logger: logger}
}

func sessionKey(userID int) string {
	return sessionKeyPrefix + strconv.Itoa(userID)
}

func (r *RedisSessionStore) execute(fn func() ([]byte, error)) ([]byte, error) {
	data, err := r.cb.Execute(fn)
	switch {
	case err == nil, errors.Is(err, redis.Nil):
		metrics.SessionStoreRequests.WithLabelValues("success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.SessionStoreRequests.WithLabelValues("rejected").Inc()
	default:
		metrics.SessionStoreRequests.WithLabelValues("failure").Inc()
	}
	return data, err
}

func (r *RedisSessionStore) Get(ctx context.Context, userID int) (*Session, bool, error) {
	data, err := r.execute(func() ([]byte, error) {
		return r.client.Get(ctx, sessionKey(userID)).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn("Discarding unreadable session", "user_id", userID, "error", err)
		return nil, false, nil
	}
	return &s, true, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	_, err = r.execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, sessionKey(s.UserID), data, r.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, userID int) error {
	_, err := r.execute(func() ([]byte, error) {
		return nil, r.client.Del(ctx, sessionKey(userID)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// State exposes the breaker state for health reporting.
func (r *RedisSessionStore) State() string {
	return r.cb.State().String()
}
