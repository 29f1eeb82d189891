package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256("booking")
const testHash = "001d057c49888db925f47ba4f0cbb75edf527893381dc5a27d7a965c766508c4"

func TestNew(t *testing.T) {
	_, err := New("zz")
	assert.Error(t, err)

	_, err = New("abcd")
	assert.Error(t, err)

	g, err := New("")
	require.NoError(t, err)
	ok, err := g.Check("anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheck(t *testing.T) {
	g, err := New(testHash)
	require.NoError(t, err)

	_, err = g.Check("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	ok, err := g.Check("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckMatches(t *testing.T) {
	g, err := New(" " + testHash + "\n")
	require.NoError(t, err)

	ok, err := g.Check("booking")
	require.NoError(t, err)
	assert.True(t, ok)
}
