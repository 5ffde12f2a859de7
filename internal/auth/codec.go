package auth

import (
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

var errIncompleteClaims = errors.New("token is missing sub, exp or type")

// Codec signs and decodes tokens with a single HMAC secret.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	parser *jwt.Parser
}

// NewCodec builds a codec for one of HS256, HS384 or HS512.
func NewCodec(secret []byte, algorithm string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	method, ok := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(algorithm))).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	// Expiry is checked by the Verifier against its own clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	return &Codec{
		secret: append([]byte(nil), secret...),
		method: method,
		parser: parser,
	}, nil
}

// Algorithm returns the JWT alg identifier used for signing.
func (c *Codec) Algorithm() string {
	return c.method.Alg()
}

// Encode signs claims into a compact JWT.
func (c *Codec) Encode(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("encode token: subject is required")
	}
	if !claims.Kind.Valid() {
		return "", fmt.Errorf("encode token: unknown kind %q", claims.Kind)
	}
	if claims.ExpiresAt.IsZero() {
		return "", errors.New("encode token: expiry is required")
	}

	token := jwt.NewWithClaims(c.method, claims.toWire())
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature of token and returns its claims. It does not
// look at the clock.
func (c *Codec) Decode(token string) (*Claims, error) {
	var wc wireClaims
	parsed, err := c.parser.ParseWithClaims(token, &wc, c.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, &DecodeError{Reason: DecodeMalformed, Err: err}
		}
		return nil, &DecodeError{Reason: DecodeBadSignature, Err: err}
	}
	if !parsed.Valid {
		return nil, &DecodeError{Reason: DecodeBadSignature}
	}
	if wc.Subject == "" || wc.ExpiresAt == nil || !wc.Kind.Valid() {
		return nil, &DecodeError{Reason: DecodeMalformed, Err: errIncompleteClaims}
	}
	return wc.toClaims(), nil
}

func (c *Codec) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != c.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
	}
	return c.secret, nil
}
