package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/phonebook-service/internal/auth"
	"github.com/spec-kit/phonebook-service/internal/config"
	"github.com/spec-kit/phonebook-service/internal/domain"
	"github.com/spec-kit/phonebook-service/internal/events"
	"github.com/spec-kit/phonebook-service/internal/limiter"
	"github.com/spec-kit/phonebook-service/internal/repository"
	apperrors "github.com/spec-kit/phonebook-service/pkg/util/errorutil"
)

// IssuedTokens is what login and refresh hand back to clients. Refresh is
// nil when only an access token was minted.
type IssuedTokens struct {
	Access  auth.Token
	Refresh *auth.Token
}

// AuthService coordinates registration, login and token renewal.
type AuthService struct {
	users      repository.UserRepository
	issuer     *auth.Issuer
	verifier   *auth.Verifier
	limiter    *limiter.LoginLimiter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	// dummyHash is compared against when the email is unknown so that
	// response time does not reveal which accounts exist.
	dummyHash       string
	passwordMatches func(hash, plain string) bool
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *limiter.LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Now overrides the clock used for issuing and verifying tokens.
	Now func() time.Time
}

// NewAuthService builds the service and its token machinery from cfg.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	codec, err := auth.NewCodec([]byte(cfg.JWTSecret), cfg.JWTAlgorithm)
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewIssuer(codec, auth.IssuerConfig{
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
		Now:        deps.Now,
	})
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dummyHash, err := auth.HashPassword(uuid.NewString(), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	return &AuthService{
		users:           deps.UserRepo,
		issuer:          issuer,
		verifier:        auth.NewVerifier(codec, deps.Now),
		limiter:         deps.Limiter,
		dispatcher:      deps.Dispatcher,
		logger:          logger,
		bcryptCost:      cfg.BcryptCost,
		dummyHash:       dummyHash,
		passwordMatches: auth.PasswordMatches,
	}, nil
}

// RegisterUser creates a new account.
func (s *AuthService) RegisterUser(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := parseEmail(email)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewAlreadyRegistered("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewAlreadyRegistered("email already registered")
		}
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, nil))
	return user, nil
}

// Login checks the password and issues an access and refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*IssuedTokens, error) {
	email = normalizeEmail(email)

	// Every attempt is counted up front; a successful login clears the count.
	allowed, retryAfter, err := s.limiter.Reserve(ctx, email)
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if !allowed {
		s.publish(ctx, events.New(events.EventLoginThrottled, "", events.LoginFailedPayload{Email: email}))
		return nil, apperrors.NewTooManyRequests("too many failed login attempts", map[string]any{
			"retry_after_seconds": int(math.Ceil(retryAfter.Seconds())),
		})
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	found := err == nil && user != nil
	hash := s.dummyHash
	if found {
		hash = user.PasswordHash
	}
	if !s.passwordMatches(hash, password) || !found {
		s.publish(ctx, events.New(events.EventLoginFailed, "", events.LoginFailedPayload{Email: email}))
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	}

	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	issued := &IssuedTokens{Access: pair.Access, Refresh: &pair.Refresh}

	s.publish(ctx, events.New(events.EventLoginSucceeded, user.ID, issued.payload()))
	return issued, nil
}

// Refresh exchanges a valid refresh token for a new access token, or for a
// new pair when paired is set. The presented refresh token stays valid until
// it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, paired bool) (*IssuedTokens, error) {
	claims, err := s.verifier.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		reason := "unknown"
		var verr *auth.VerificationError
		if errors.As(err, &verr) {
			reason = string(verr.Reason)
		}
		s.publish(ctx, events.New(events.EventRefreshRejected, "", events.RefreshRejectedPayload{Reason: reason}))
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}

	if _, err := s.users.FindBySubject(ctx, claims.Subject); err != nil {
		s.logger.Debug("refresh for unknown subject", zap.String("subject", claims.Subject), zap.Error(err))
		s.publish(ctx, events.New(events.EventRefreshRejected, claims.Subject, events.RefreshRejectedPayload{Reason: string(auth.AuthPrincipalNotFound)}))
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}

	var issued *IssuedTokens
	if paired {
		pair, err := s.issuer.IssuePair(claims.Subject)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		issued = &IssuedTokens{Access: pair.Access, Refresh: &pair.Refresh}
	} else {
		access, err := s.issuer.Issue(claims.Subject, auth.KindAccess)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		issued = &IssuedTokens{Access: access}
	}

	s.publish(ctx, events.New(events.EventAccessTokenRefreshed, claims.Subject, issued.payload()))
	return issued, nil
}

// DeleteAccount removes the user. Tokens already issued to it stop resolving.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	s.publish(ctx, events.New(events.EventAccountDeleted, userID, nil))
	return nil
}

// Verifier exposes the token verifier for the auth middleware.
func (s *AuthService) Verifier() *auth.Verifier {
	return s.verifier
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func (t *IssuedTokens) payload() events.TokensIssuedPayload {
	p := events.TokensIssuedPayload{AccessExpiresAt: t.Access.ExpiresAt}
	if t.Refresh != nil {
		exp := t.Refresh.ExpiresAt
		p.RefreshExpiresAt = &exp
	}
	return p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseEmail accepts a bare address and returns it normalized.
func parseEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperrors.NewValidationError("email required", nil)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", apperrors.NewValidationError("invalid email format", nil)
	}
	return normalizeEmail(addr.Address), nil
}
