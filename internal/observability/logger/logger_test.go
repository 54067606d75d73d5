package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"  WARN ": zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"basura":  zapcore.InfoLevel,
	}
	for in, want := range cases {
		require.Equal(t, want, parseLevel(in), "nivel %q", in)
	}
}

func TestFrom_PrefersContextLogger(t *testing.T) {
	scoped := zap.NewNop().With(zap.String("request_id", "r1"))
	ctx := ToContext(context.Background(), scoped)
	require.Same(t, scoped, From(ctx))

	// Sin logger en el contexto se cae al singleton.
	require.NotNil(t, From(context.Background()))
}

func TestBuild_NeverReturnsNil(t *testing.T) {
	require.NotNil(t, build(Config{Env: "dev", Level: "debug"}))
	require.NotNil(t, build(Config{Env: "prod"}))
}
