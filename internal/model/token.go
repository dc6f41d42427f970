package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims of an ops API access token. The subject names the
// client the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
}

type TokenResponse struct {
	Subject              string    `json:"subject"`
	AccessToken          string    `json:"accessToken"`
	AccessTokenExpiresIn int       `json:"accessTokenExpiresIn"`
	ExpiresAt            time.Time `json:"expiresAt"`
	TokenType            string    `json:"tokenType"`
}
