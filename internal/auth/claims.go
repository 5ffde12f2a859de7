package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Kind discriminates what a token may be used for.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Valid reports whether k is one of the known token kinds.
func (k Kind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

// Claims is the payload carried by a token.
type Claims struct {
	Subject   string
	Kind      Kind
	ExpiresAt time.Time
	IssuedAt  time.Time
	ID        string
	// Extra holds issuer supplied values. It is encoded under its own claim
	// so it can never shadow the reserved fields above.
	Extra map[string]string
}

// wireClaims is the JWT representation of Claims.
type wireClaims struct {
	Kind  Kind              `json:"type"`
	Extra map[string]string `json:"ext,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) toWire() wireClaims {
	wc := wireClaims{
		Kind: c.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
			ID:        c.ID,
		},
	}
	if len(c.Extra) > 0 {
		wc.Extra = make(map[string]string, len(c.Extra))
		for k, v := range c.Extra {
			wc.Extra[k] = v
		}
	}
	if !c.IssuedAt.IsZero() {
		wc.IssuedAt = jwt.NewNumericDate(c.IssuedAt)
	}
	return wc
}

func (wc *wireClaims) toClaims() *Claims {
	claims := &Claims{
		Subject: wc.Subject,
		Kind:    wc.Kind,
		ID:      wc.ID,
		Extra:   wc.Extra,
	}
	if wc.ExpiresAt != nil {
		claims.ExpiresAt = wc.ExpiresAt.Time
	}
	if wc.IssuedAt != nil {
		claims.IssuedAt = wc.IssuedAt.Time
	}
	return claims
}
