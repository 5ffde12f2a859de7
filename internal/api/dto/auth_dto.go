package dto

// AuthTypeBearer is the only auth_type issued.
const AuthTypeBearer = "bearer"

// RefreshRequest payload for renewing an access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by login and refresh. RefreshToken is omitted
// for access-only renewal.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	AuthType     string `json:"auth_type"`
}
