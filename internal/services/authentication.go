package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"talktoearn/internal/models"
)

type CustomClaims struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("empty JWT secret")
	}
	return &Authentication{secret}, nil
}

func (authentication *Authentication) CreateToken(user *models.UserFromAuth) (string, error) {
	claims := CustomClaims{
		ID:          strings.ToLower(user.ID),
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(token string) (*models.UserFromAuth, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}

	return &models.UserFromAuth{
		ID:          claims.ID,
		DisplayName: claims.DisplayName,
	}, nil
}
