package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/phonebook-service/internal/domain"
)

const bearerScheme = "Bearer"

var errPrincipalMissing = errors.New("identity store returned no user")

// IdentityStore looks callers up by the subject embedded in their token.
type IdentityStore interface {
	FindBySubject(ctx context.Context, subject string) (*domain.User, error)
}

// ResolverConfig tunes the identity lookup.
type ResolverConfig struct {
	// LookupTimeout bounds the identity store call. Zero means the request
	// context alone governs it.
	LookupTimeout time.Duration
}

// Resolver turns an Authorization header into the calling user.
type Resolver struct {
	verifier *Verifier
	store    IdentityStore
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResolver constructs a resolver.
func NewResolver(verifier *Verifier, store IdentityStore, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{verifier: verifier, store: store, timeout: cfg.LookupTimeout, logger: logger}
}

// Resolve authenticates the bearer credential in authorization. Every failure
// is an *AuthError.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*domain.User, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return nil, r.reject(&AuthError{Reason: AuthMissingOrMalformed})
	}

	claims, err := r.verifier.Verify(token, KindAccess)
	if err != nil {
		return nil, r.reject(&AuthError{Reason: AuthInvalidOrExpired, Err: err})
	}

	lookupCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	user, err := r.store.FindBySubject(lookupCtx, claims.Subject)
	if err != nil {
		return nil, r.reject(&AuthError{Reason: AuthPrincipalNotFound, Err: err})
	}
	if user == nil {
		return nil, r.reject(&AuthError{Reason: AuthPrincipalNotFound, Err: errPrincipalMissing})
	}
	return user, nil
}

func (r *Resolver) reject(err *AuthError) error {
	fields := []zap.Field{zap.String("reason", string(err.Reason))}
	var verr *VerificationError
	if errors.As(err, &verr) {
		fields = append(fields, zap.String("verification", string(verr.Reason)))
	}
	if err.Err != nil {
		fields = append(fields, zap.Error(err.Err))
	}
	r.logger.Debug("authentication rejected", fields...)
	return err
}

// BearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
