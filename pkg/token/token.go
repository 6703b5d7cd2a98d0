package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// resetSalt is the signing context for password-reset tokens. Deriving the
// reset key from the secret under this salt keeps reset and session tokens
// non-interchangeable even though both come from the same server secret.
const resetSalt = "reset-password"

// Codec issues and verifies the two token kinds the app uses: short-lived
// session tokens (JWT, expiry embedded) and password-reset tokens (signed
// payload carrying an issued-at timestamp; age is enforced at verification).
//
// All verification failures collapse to ok=false. Callers never learn whether
// a token was expired, tampered with, or malformed.
type Codec struct {
	secret     []byte
	resetKey   []byte
	sessionTTL time.Duration
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func NewCodec(secret string, sessionTTL time.Duration) *Codec {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(resetSalt))
	return &Codec{
		secret:     []byte(secret),
		resetKey:   mac.Sum(nil),
		sessionTTL: sessionTTL,
	}
}

// IssueSession creates a session token for email using the configured TTL.
func (c *Codec) IssueSession(email string) (string, time.Time, error) {
	return c.IssueSessionTTL(email, c.sessionTTL)
}

// IssueSessionTTL creates a session token for email expiring at now+ttl.
func (c *Codec) IssueSessionTTL(email string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(c.secret)
	return s, exp, err
}

// VerifySession validates a session token and returns the embedded email.
// Bad signature, malformed payload, expiry, and empty subject all yield
// ok=false.
func (c *Codec) VerifySession(tokenStr string) (string, bool) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// IssueReset creates a password-reset token for email. The token embeds no
// expiry; VerifyReset enforces a maximum age against the issued-at timestamp.
func (c *Codec) IssueReset(email string) (string, error) {
	return c.issueResetAt(email, time.Now()), nil
}

func (c *Codec) issueResetAt(email string, issued time.Time) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(email)) +
		"." + base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(issued.Unix(), 10)))
	mac := hmac.New(sha256.New, c.resetKey)
	mac.Write([]byte(payload))
	return payload + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyReset validates a reset token and returns the embedded email.
// Signature mismatch, wrong signing context, malformed payload, a future
// issued-at, or age beyond maxAge all yield ok=false.
func (c *Codec) VerifyReset(tokenStr string, maxAge time.Duration) (string, bool) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return "", false
	}
	payload := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, c.resetKey)
	mac.Write([]byte(payload))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", false
	}

	emailB, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(emailB) == 0 {
		return "", false
	}
	tsB, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	ts, err := strconv.ParseInt(string(tsB), 10, 64)
	if err != nil {
		return "", false
	}

	age := time.Since(time.Unix(ts, 0))
	if age < 0 || age > maxAge {
		return "", false
	}
	return string(emailB), true
}
