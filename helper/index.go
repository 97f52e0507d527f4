package helper

import (
	"campus_eats/config"
	"campus_eats/model"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	AccessTokenTTL  = time.Minute * 60
	RefreshTokenTTL = time.Hour * 24 * 7
)

func jwtSecret() []byte {
	return []byte(config.Load().JWTSecret)
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	return generateToken(tokenClaim, TokenAccess, AccessTokenTTL)
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	return generateToken(tokenClaim, TokenRefresh, RefreshTokenTTL)
}

func GenerateTokens(tokenClaim model.TokenClaim) (model.TokenData, error) {
	access, err := GenerateAccessToken(tokenClaim)
	if err != nil {
		return model.TokenData{}, err
	}
	refresh, err := GenerateRefreshToken(tokenClaim)
	if err != nil {
		return model.TokenData{}, err
	}
	return model.TokenData{AccessToken: access, RefreshToken: refresh}, nil
}

func generateToken(tokenClaim model.TokenClaim, kind string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = tokenClaim.UserId.String()
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	claims["type"] = kind
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString(jwtSecret())
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
}

// ClaimFromToken reads our claims out of a verified token. kind restricts the
// token type when it is not empty.
func ClaimFromToken(token *jwt.Token, kind string) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, errors.New("invalid claims")
	}
	if kind != "" {
		if t, _ := claims["type"].(string); t != kind {
			return model.TokenClaim{}, fmt.Errorf("expected %s token", kind)
		}
	}
	rawID, _ := claims["userId"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return model.TokenClaim{}, errors.New("invalid userId claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return model.TokenClaim{UserId: userID, Email: email, Role: role}, nil
}

// ActingUserFromCtx returns the principal stored by the auth middleware.
func ActingUserFromCtx(c *fiber.Ctx) (model.ActingUser, bool) {
	actor, ok := c.Locals("actor").(model.ActingUser)
	return actor, ok
}
