package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_FreshSaltEachCall(t *testing.T) {
	a, err := HashPassword("hunter22")
	require.NoError(t, err)
	b, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CompareHashAndPassword(a, "hunter22"))
	assert.True(t, CompareHashAndPassword(b, "hunter22"))
}

func TestCompareHashAndPassword_MismatchIsFalse(t *testing.T) {
	h, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.False(t, CompareHashAndPassword(h, "hunter23"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "hunter22"))
	assert.False(t, CompareHashAndPassword("", ""))
}

func TestGravatarURL(t *testing.T) {
	u := GravatarURL("  A@X.com ")
	assert.Equal(t, GravatarURL("a@x.com"), u)
	assert.Contains(t, u, "//www.gravatar.com/avatar/")
	assert.Contains(t, u, "d=mm")
	assert.Contains(t, u, "s=200")
}
