package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token is a signed credential together with the metadata clients need.
type Token struct {
	Value     string
	Kind      Kind
	ExpiresAt time.Time
}

// Pair groups the access and refresh tokens minted at login.
type Pair struct {
	Access  Token
	Refresh Token
}

// IssuerConfig holds per-kind lifetimes and the clock used for issuance.
type IssuerConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Issuer mints access and refresh tokens.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer builds an issuer. Both TTLs must be positive.
func NewIssuer(codec *Codec, cfg IssuerConfig) (*Issuer, error) {
	if codec == nil {
		return nil, errors.New("issuer requires a codec")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("issuer requires positive access and refresh TTLs")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{codec: codec, accessTTL: cfg.AccessTTL, refreshTTL: cfg.RefreshTTL, now: now}, nil
}

// IssueOption customizes a single issuance.
type IssueOption func(*issueOptions)

type issueOptions struct {
	extra map[string]string
}

// WithExtra attaches an extension claim to the token.
func WithExtra(key, value string) IssueOption {
	return func(o *issueOptions) {
		if o.extra == nil {
			o.extra = make(map[string]string)
		}
		o.extra[key] = value
	}
}

// Issue mints one token of the given kind for subject.
func (i *Issuer) Issue(subject string, kind Kind, opts ...IssueOption) (Token, error) {
	return i.issueAt(subject, kind, i.now(), opts)
}

// IssuePair mints an access and a refresh token from the same instant.
func (i *Issuer) IssuePair(subject string) (Pair, error) {
	now := i.now()
	access, err := i.issueAt(subject, KindAccess, now, nil)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.issueAt(subject, KindRefresh, now, nil)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// TTL returns the configured lifetime for kind.
func (i *Issuer) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return i.refreshTTL
	}
	return i.accessTTL
}

func (i *Issuer) issueAt(subject string, kind Kind, now time.Time, opts []IssueOption) (Token, error) {
	if subject == "" {
		return Token{}, errors.New("issue token: subject is required")
	}
	if !kind.Valid() {
		return Token{}, fmt.Errorf("issue token: unknown kind %q", kind)
	}

	var o issueOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Match the second precision of the encoded exp claim.
	expiresAt := now.Add(i.TTL(kind)).Truncate(jwt.TimePrecision)
	value, err := i.codec.Encode(Claims{
		Subject:   subject,
		Kind:      kind,
		ExpiresAt: expiresAt,
		IssuedAt:  now,
		ID:        uuid.NewString(),
		Extra:     o.extra,
	})
	if err != nil {
		return Token{}, err
	}
	return Token{Value: value, Kind: kind, ExpiresAt: expiresAt}, nil
}
