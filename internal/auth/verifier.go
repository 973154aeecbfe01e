package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any credential that does not verify.
var ErrInvalidToken = errors.New("invalid token")

// StaticVerifier accepts exactly one shared bearer token. This is the
// original deployment mode: MCP_AUTH_TOKEN compared on every request.
type StaticVerifier struct {
	token string
}

// NewStaticVerifier creates a verifier for the given shared token.
func NewStaticVerifier(token string) *StaticVerifier {
	return &StaticVerifier{token: token}
}

// Verify compares the presented token in constant time.
func (v *StaticVerifier) Verify(token string) (*Principal, error) {
	if v.token == "" {
		return nil, ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return nil, ErrInvalidToken
	}
	return &Principal{Subject: "mcp-client"}, nil
}

// JWTVerifier validates HS256-signed tokens against a shared secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given HS256 secret.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates the token, returning a principal carrying the
// subject claim.
func (v *JWTVerifier) Verify(token string) (*Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		subject = "mcp-client"
	}
	return &Principal{Subject: subject}, nil
}
