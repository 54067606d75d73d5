package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"ana@example.com":  "a…@e….com",
		"Eva@Sub.Test.ORG": "e…@s….test.org",
		"a@b.c":            "a@b.c",
		"":                 "",
		"xy":               "***",
		"sin-arroba":       "s…a",
	}
	for in, want := range cases {
		require.Equal(t, want, MaskEmail(in), "email %q", in)
	}
}
