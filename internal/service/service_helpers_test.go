package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/phonebook-service/internal/config"
	"github.com/spec-kit/phonebook-service/internal/events"
	"github.com/spec-kit/phonebook-service/internal/limiter"
	"github.com/spec-kit/phonebook-service/internal/persistence"
	"github.com/spec-kit/phonebook-service/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handler(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type authFixture struct {
	service  *AuthService
	users    repository.UserRepository
	numbers  repository.PhoneNumberRepository
	clock    *fakeClock
	redis    *miniredis.Miniredis
	recorded *recordedEvents
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                 "service-test-secret",
		JWTAlgorithm:              "HS256",
		AccessTokenTTLMinutes:     1,
		RefreshTokenTTLDays:       1,
		BcryptCost:                4,
		LoginMaxAttempts:          3,
		LoginAttemptWindowSeconds: 60,
	}
}

func newAuthFixture(t *testing.T, cfg config.AuthConfig) *authFixture {
	t.Helper()
	ctx := context.Background()

	db, err := persistence.OpenSQLite(ctx, persistence.MemoryDSN, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	recorded := &recordedEvents{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range auditedEvents {
		dispatcher.Subscribe(eventType, recorded.handler)
	}

	clock := &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	users := repository.NewSQLiteUserRepository(db.DB)
	svc, err := NewAuthService(cfg, AuthDependencies{
		UserRepo: users,
		Limiter: limiter.NewLoginLimiter(client, limiter.Config{
			MaxAttempts: cfg.LoginMaxAttempts,
			Window:      cfg.LoginWindow(),
		}),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	return &authFixture{
		service:  svc,
		users:    users,
		numbers:  repository.NewSQLitePhoneNumberRepository(db.DB),
		clock:    clock,
		redis:    mr,
		recorded: recorded,
	}
}
