package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifyIssuer_RoundTrip(t *testing.T) {
	issuer := NewVerifyIssuer("secreto", time.Hour)

	token, err := issuer.Issue("u7", "ana@example.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "u7", claims.UserID)
	require.Equal(t, "ana@example.com", claims.Email)
	require.Equal(t, "ana@example.com", claims.Subject)
}

func TestVerifyIssuer_RejectsExpired(t *testing.T) {
	issuer := NewVerifyIssuer("secreto", -time.Minute)

	token, err := issuer.Issue("u1", "ana@example.com")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.Error(t, err)
}

func TestVerifyIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewVerifyIssuer("uno", time.Hour).Issue("u1", "a@x.com")
	require.NoError(t, err)

	_, err = NewVerifyIssuer("dos", time.Hour).Parse(token)
	require.Error(t, err)
}
