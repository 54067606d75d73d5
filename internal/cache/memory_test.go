package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("test")

	_, err := c.Get(ctx, "missing")
	require.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryClient_TTLExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	require.NoError(t, c.Set(ctx, "fugaz", "x", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, err := c.Get(ctx, "fugaz")
	require.True(t, IsNotFound(err))
}

func TestMemoryClient_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := NewMemory("a")
	b := NewMemory("b")

	require.NoError(t, a.Set(ctx, "k", "de-a", 0))
	_, err := b.Get(ctx, "k")
	require.True(t, IsNotFound(err))
}

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())
}
