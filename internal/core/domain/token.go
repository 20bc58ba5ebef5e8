package domain

import "time"

// AuthTokens bundles the credentials issued on register and login: a signed
// stateless access token plus an opaque revocable session token.
type AuthTokens struct {
	AccessToken  string
	SessionToken string
	ExpiresAt    time.Time
}
