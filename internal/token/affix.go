package token

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	prefixBytes = 10
	suffixBytes = 8

	prefixLen = prefixBytes * 2
	suffixLen = suffixBytes * 2
)

// AffixCodec embeds the user id between the two halves of the shared secret.
type AffixCodec struct {
	first  string
	second string
	ready  bool
}

// NewAffixCodec splits secret at len/2 into the leading and trailing affix.
func NewAffixCodec(secret string) (*AffixCodec, error) {
	if secret == "" {
		return nil, ErrSecretNotConfigured
	}

	half := len(secret) / 2
	return &AffixCodec{
		first:  secret[:half],
		second: secret[half:],
		ready:  true,
	}, nil
}

func (c *AffixCodec) Mint(userID string) (string, error) {
	if c == nil || !c.ready {
		return "", ErrSecretNotConfigured
	}
	if userID == "" {
		return "", ErrEmptyUserID
	}

	prefix, err := RandomHex(prefixBytes)
	if err != nil {
		return "", fmt.Errorf("error generating token prefix: %w", err)
	}
	suffix, err := RandomHex(suffixBytes)
	if err != nil {
		return "", fmt.Errorf("error generating token suffix: %w", err)
	}

	payload := base64.StdEncoding.EncodeToString([]byte(c.first + userID + c.second))
	return prefix + payload + suffix, nil
}

func (c *AffixCodec) Verify(token, userID string) bool {
	if c == nil || !c.ready {
		return false
	}

	decoded, ok := decodePayload(token)
	if !ok {
		return false
	}

	expected := []byte(c.first + userID + c.second)
	return subtle.ConstantTimeCompare(decoded, expected) == 1
}

func (c *AffixCodec) Extract(token string) (string, error) {
	if c == nil || !c.ready {
		return "", ErrSecretNotConfigured
	}

	decoded, ok := decodePayload(token)
	if !ok {
		return "", ErrMalformedToken
	}

	merged := string(decoded)
	if len(merged) <= len(c.first)+len(c.second) ||
		!strings.HasPrefix(merged, c.first) ||
		!strings.HasSuffix(merged, c.second) {
		return "", ErrMalformedToken
	}

	return merged[len(c.first) : len(merged)-len(c.second)], nil
}

// decodePayload strips the random prefix and suffix and base64-decodes what
// remains. Tokens too short to hold a payload are rejected.
func decodePayload(token string) ([]byte, bool) {
	if len(token) <= prefixLen+suffixLen {
		return nil, false
	}

	payload := token[prefixLen : len(token)-suffixLen]
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return decoded, true
}
