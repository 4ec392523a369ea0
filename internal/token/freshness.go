package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Freshness is the decoded "ts" anti-replay token.
type Freshness struct {
	// GeneratedAt is the client clock reading in Unix milliseconds.
	GeneratedAt int64 `json:"generatedAt"`
}

// Time returns GeneratedAt as a time.Time.
func (f Freshness) Time() time.Time {
	return time.UnixMilli(f.GeneratedAt)
}

// NewFreshnessToken encodes a freshness token generated at t.
func NewFreshnessToken(t time.Time) string {
	raw, _ := json.Marshal(Freshness{GeneratedAt: t.UnixMilli()})
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeFreshness decodes a standard or URL-safe base64 JSON freshness token.
func DecodeFreshness(ts string) (Freshness, error) {
	if ts == "" {
		return Freshness{}, ErrFreshnessMissing
	}

	var raw []byte
	var err error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if raw, err = enc.DecodeString(ts); err == nil {
			break
		}
	}
	if err != nil {
		return Freshness{}, fmt.Errorf("%w: %w", ErrFreshnessMalformed, err)
	}

	var f Freshness
	if err = json.Unmarshal(raw, &f); err != nil {
		return Freshness{}, fmt.Errorf("%w: %w", ErrFreshnessMalformed, err)
	}
	if f.GeneratedAt <= 0 {
		return Freshness{}, fmt.Errorf("%w: generatedAt is missing", ErrFreshnessMalformed)
	}

	return f, nil
}

// CheckFreshness decodes ts and rejects it when it is older than maxAge at
// now. Tokens claiming to come from further than maxAge in the future are
// rejected the same way.
func CheckFreshness(ts string, now time.Time, maxAge time.Duration) error {
	f, err := DecodeFreshness(ts)
	if err != nil {
		return err
	}

	age := now.Sub(f.Time())
	if age > maxAge || age < -maxAge {
		return ErrFreshnessExpired
	}

	return nil
}
