package auth

import "fmt"

// DecodeReason explains why a token could not be decoded.
type DecodeReason string

const (
	DecodeMalformed    DecodeReason = "malformed"
	DecodeBadSignature DecodeReason = "bad_signature"
)

// DecodeError is returned by Codec.Decode.
type DecodeError struct {
	Reason DecodeReason
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode token: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode token: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// VerificationReason explains why a decoded token was rejected.
type VerificationReason string

const (
	VerifyInvalidSignature VerificationReason = "invalid_signature"
	VerifyWrongType        VerificationReason = "wrong_type"
	VerifyExpired          VerificationReason = "expired"
)

// VerificationError is returned by Verifier.Verify.
type VerificationError struct {
	Reason VerificationReason
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("verify token: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("verify token: %s", e.Reason)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// AuthReason is the externally visible class of an authentication failure.
type AuthReason string

const (
	AuthMissingOrMalformed AuthReason = "missing_or_malformed"
	AuthInvalidOrExpired   AuthReason = "invalid_or_expired"
	AuthPrincipalNotFound  AuthReason = "principal_not_found"
)

// AuthError is returned by Resolver.Resolve. Err keeps the underlying cause
// for logging only; it must not be rendered to clients.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authenticate: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authenticate: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
