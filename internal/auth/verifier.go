package auth

import "time"

// Verifier checks signature, kind and expiry of presented tokens.
type Verifier struct {
	codec *Codec
	now   func() time.Time
}

// NewVerifier builds a verifier. A nil clock means time.Now.
func NewVerifier(codec *Codec, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{codec: codec, now: now}
}

// Verify decodes token and requires it to be an unexpired token of kind expected.
func (v *Verifier) Verify(token string, expected Kind) (*Claims, error) {
	claims, err := v.codec.Decode(token)
	if err != nil {
		return nil, &VerificationError{Reason: VerifyInvalidSignature, Err: err}
	}
	if claims.Kind != expected {
		return nil, &VerificationError{Reason: VerifyWrongType}
	}
	if !claims.ExpiresAt.After(v.now()) {
		return nil, &VerificationError{Reason: VerifyExpired}
	}
	return claims, nil
}
