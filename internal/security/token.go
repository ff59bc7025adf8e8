package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ModeratorClaims carries the identity behind a review-API bearer token.
type ModeratorClaims struct {
	ModeratorID string   `json:"moderator_id"`
	GuildIDs    []string `json:"guild_ids,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAPIToken(moderatorID string, guildIDs []string) (string, error)
	ValidateToken(tokenString string) (*ModeratorClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateAPIToken(moderatorID string, guildIDs []string) (string, error) {
	claims := ModeratorClaims{
		ModeratorID: moderatorID,
		GuildIDs:    guildIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   moderatorID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gatekeeper-bot",
			Audience:  jwt.ClaimStrings{"review-api"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*ModeratorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ModeratorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*ModeratorClaims); ok && token.Valid {
		if claims.ModeratorID == "" && claims.Subject != "" {
			claims.ModeratorID = claims.Subject
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
