package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	t.Run("decodes to requested length", func(t *testing.T) {
		tok, err := RandomToken(32)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("url safe", func(t *testing.T) {
		tok, err := RandomToken(64)
		require.NoError(t, err)
		assert.NotContains(t, tok, "+")
		assert.NotContains(t, tok, "/")
		assert.NotContains(t, tok, "=")
	})

	t.Run("unique values", func(t *testing.T) {
		a, err := RandomToken(32)
		require.NoError(t, err)
		b, err := RandomToken(32)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}
