package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InviteClaims son los claims del token de invitación.
type InviteClaims struct {
	InvitationID string `json:"inv"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// InviteIssuer firma y valida tokens de invitación (HS256).
type InviteIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewInviteIssuer crea un issuer con el secreto y TTL dados.
func NewInviteIssuer(secret string, ttl time.Duration) *InviteIssuer {
	return &InviteIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue emite el token firmado para la invitación.
func (i *InviteIssuer) Issue(invitationID, email, role string) (string, error) {
	now := time.Now().UTC()
	claims := InviteClaims{
		InvitationID: invitationID,
		Email:        email,
		Role:         role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			Subject:   email,
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign invite token: %w", err)
	}
	return signed, nil
}

// Parse valida la firma y expiración del token y retorna sus claims.
func (i *InviteIssuer) Parse(token string) (*InviteClaims, error) {
	var claims InviteClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse invite token: %w", err)
	}
	return &claims, nil
}
