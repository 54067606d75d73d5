package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerifyClaims son los claims del token de verificación de cuenta.
type VerifyClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// VerifyIssuer firma y valida tokens de verificación de email (HS256).
type VerifyIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewVerifyIssuer crea un issuer con el secreto y TTL dados.
func NewVerifyIssuer(secret string, ttl time.Duration) *VerifyIssuer {
	return &VerifyIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue emite el token firmado para la cuenta.
func (i *VerifyIssuer) Issue(userID, email string) (string, error) {
	now := time.Now().UTC()
	claims := VerifyClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			Subject:   email,
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign verify token: %w", err)
	}
	return signed, nil
}

// Parse valida la firma y expiración del token y retorna sus claims.
func (i *VerifyIssuer) Parse(token string) (*VerifyClaims, error) {
	var claims VerifyClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse verify token: %w", err)
	}
	return &claims, nil
}
