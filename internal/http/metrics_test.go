package http

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":           "/",
		"/":          "/",
		"/healthz":   "/healthz",
		"/v1/users":  "/v1/users",
		"/v1/users/": "/v1/users",
		// IDs dinámicos colapsan a :param para acotar la cardinalidad.
		"/v1/users/42":                                   "/v1/users/:param",
		"/v1/users/550e8400-e29b-41d4-a716-446655440000": "/v1/users/:param",
		"/v1/users/665f0f6d2c8b9a0012345678":             "/v1/users/:param",
		"/v1/workspaces/42/posts/7":                      "/v1/workspaces/:param/posts/:param",
		"/v1/users?page=2":                               "/v1/users",
		"v1/users":                                       "/v1/users",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizePath(in), "path %q", in)
	}
}

func TestIsDynamicSegment(t *testing.T) {
	dynamic := []string{
		"42",
		"550e8400-e29b-41d4-a716-446655440000",
		"665f0f6d2c8b9a0012345678",
		"deadbeefdeadbeef",
		"aBcDeFgHiJkLmNoPqRsTuVwX-_0123",
	}
	for _, seg := range dynamic {
		require.True(t, isDynamicSegment(seg), "segment %q", seg)
	}

	static := []string{"users", "profiles", "person", "team", "restore", "v1"}
	for _, seg := range static {
		require.False(t, isDynamicSegment(seg), "segment %q", seg)
	}
}
