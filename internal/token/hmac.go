package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HMACCodec issues HS256 JWTs whose subject is the user id. Unlike
// [AffixCodec] the payload cannot be forged without the secret.
type HMACCodec struct {
	key []byte
	now func() time.Time
}

// NewHMACCodec returns a codec signing with secret.
func NewHMACCodec(secret string) (*HMACCodec, error) {
	if secret == "" {
		return nil, ErrSecretNotConfigured
	}

	return &HMACCodec{key: []byte(secret), now: time.Now}, nil
}

func (c *HMACCodec) Mint(userID string) (string, error) {
	if c == nil || len(c.key) == 0 {
		return "", ErrSecretNotConfigured
	}
	if userID == "" {
		return "", ErrEmptyUserID
	}

	jti, err := RandomHex(prefixBytes)
	if err != nil {
		return "", fmt.Errorf("error generating token id: %w", err)
	}

	claims := &jwt.RegisteredClaims{
		Subject:  userID,
		ID:       jti,
		IssuedAt: jwt.NewNumericDate(c.now()),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing token: %w", err)
	}

	return signed, nil
}

func (c *HMACCodec) Verify(token, userID string) bool {
	subject, err := c.Extract(token)
	if err != nil {
		return false
	}
	return subject == userID
}

func (c *HMACCodec) Extract(token string) (string, error) {
	if c == nil || len(c.key) == 0 {
		return "", ErrSecretNotConfigured
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, errors.New("empty subject"))
	}

	return claims.Subject, nil
}
