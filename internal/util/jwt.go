package util

import (
	"errors"
	"strings"
	"time"

	"github.com/ferdian3456/staffroster/internal/constant"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	BearerPrefix            = "Bearer "
	TokenIssuer             = "github.com/ferdian3456/staffroster"
	AccessTokenDuration     = 24 * time.Hour
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
)

// GenerateAccessToken signs an ops API token for subject.
func GenerateAccessToken(subject string, jwtSecretKey string, ttl time.Duration) (model.TokenResponse, error) {
	if jwtSecretKey == "" {
		return model.TokenResponse{}, errors.New("jwt secret key is not configured")
	}

	if ttl <= 0 {
		ttl = AccessTokenDuration
	}

	now := time.Now().UTC()
	claims := &model.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(jwtSecretKey))
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		Subject:              subject,
		AccessToken:          signedToken,
		AccessTokenExpiresIn: int(ttl.Seconds()),
		ExpiresAt:            claims.ExpiresAt.Time,
		TokenType:            strings.TrimSpace(BearerPrefix),
	}, nil
}

// ValidateAccessToken validates the Authorization header value and
// returns the token subject.
func ValidateAccessToken(authHeader string, log *zap.Logger, jwtSecretKey string) (string, error) {
	if jwtSecretKey == "" {
		return "", errors.New("jwt secret key is not configured")
	}

	tokenString, err := extractBearerToken(authHeader)
	if err != nil {
		return "", err
	}

	token, err := jwt.ParseWithClaims(tokenString, &model.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(jwtSecretKey), nil
	}, jwt.WithIssuer(TokenIssuer))

	if err != nil {
		log.Debug("access token rejected", zap.Error(err))
		return "", handleParseError(err)
	}

	claims, ok := token.Claims.(*model.Claims)
	if !ok || !token.Valid {
		return "", tokenError("Authentication token is invalid")
	}

	return claims.Subject, nil
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", tokenError("No authentication token is provided")
	}

	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", tokenError("Authentication token format is not match")
	}

	token := strings.TrimPrefix(authHeader, BearerPrefix)
	if token == "" {
		return "", tokenError("Authentication token is empty")
	}

	return token, nil
}

func tokenError(message string) *model.ValidationError {
	return &model.ValidationError{
		Code:    constant.ERR_UNATHORIZED_ERROR,
		Message: message,
		Param:   "accessToken",
	}
}

func handleParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return tokenError("Authentication token is malformed")
	case errors.Is(err, jwt.ErrTokenExpired):
		return tokenError("Authentication token is expired")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return tokenError("Authentication token is not valid yet")
	case errors.Is(err, ErrInvalidSigningMethod):
		return tokenError("Authentication token has invalid signing method")
	default:
		return tokenError("Authentication token is invalid")
	}
}
