package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScope(t *testing.T) {
	scope, err := NewScope("wishlist", "api")
	require.NoError(t, err)
	assert.Equal(t, "wishlist", scope.Instance())
	assert.Equal(t, "api", scope.Guard())
}

func TestNewScope_BlankParts(t *testing.T) {
	_, err := NewScope("", "web")
	assert.ErrorIs(t, err, ErrBlankInstance)

	_, err = NewScope("default", "")
	assert.ErrorIs(t, err, ErrBlankGuard)
}

func TestDefaultScope(t *testing.T) {
	scope := DefaultScope()
	assert.Equal(t, DefaultInstance, scope.Instance())
	assert.Equal(t, DefaultGuard, scope.Guard())
}
