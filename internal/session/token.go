package session

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
)

// IsExpiredAt reports whether token should be treated as expired at now.
//
// Only the payload segment is decoded. The header and signature are never
// checked, so any signing algorithm is accepted. The result only decides
// whether calling the API is worthwhile; the server remains the authority.
// Absent, malformed and undecodable tokens, and tokens without an exp claim,
// count as expired.
func IsExpiredAt(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return true
	}
	return !now.Before(exp)
}

// ExpiresAt returns the exp claim of token, if it can be decoded.
func ExpiresAt(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// Fingerprint returns a short, non-reversible identifier for token that is
// safe to write to logs.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(token))
	fp := base58.Encode(hash[:])
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fp
}
