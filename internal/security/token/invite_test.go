package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInviteIssuer_RoundTrip(t *testing.T) {
	issuer := NewInviteIssuer("secreto", time.Hour)

	token, err := issuer.Issue("inv42", "eva@example.com", "editor")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "inv42", claims.InvitationID)
	require.Equal(t, "eva@example.com", claims.Email)
	require.Equal(t, "editor", claims.Role)
	require.Equal(t, "eva@example.com", claims.Subject)
}

func TestInviteIssuer_RejectsExpired(t *testing.T) {
	issuer := NewInviteIssuer("secreto", -time.Minute)

	token, err := issuer.Issue("inv1", "eva@example.com", "editor")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.Error(t, err)
}

func TestInviteIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewInviteIssuer("uno", time.Hour).Issue("inv1", "e@x.com", "viewer")
	require.NoError(t, err)

	_, err = NewInviteIssuer("dos", time.Hour).Parse(token)
	require.Error(t, err)
}

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	b, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.NotEmpty(t, a)
}
