package signer

import (
	"errors"
	"strings"
	"testing"

	"github.com/localnerve/callboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := New("test-secret", DefaultSalt)
	require.NoError(t, err)
	return s
}

func TestSignRoundTrip(t *testing.T) {
	s := newSigner(t)

	for _, username := range []string{"alice", "bob.smith", "carol+ads@example.com", ""} {
		token := s.Sign(username)
		assert.True(t, strings.HasPrefix(token, username+":"))

		got, err := s.Unsign(token)
		require.NoError(t, err)
		assert.Equal(t, username, got)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	s := newSigner(t)
	assert.Equal(t, s.Sign("alice"), s.Sign("alice"))
	assert.NotEqual(t, s.Sign("alice"), s.Sign("alicf"))
}

func TestUnsignRejectsTampering(t *testing.T) {
	s := newSigner(t)
	token := s.Sign("alice")
	sig := token[strings.Index(token, ":")+1:]

	bad := []string{
		"alice",
		"mallory:" + sig,
		token + "x",
		"alice:!!!notbase64",
		"alice:",
		":",
		"",
	}
	for _, tok := range bad {
		_, err := s.Unsign(tok)
		assert.Truef(t, errors.Is(err, types.ErrInvalidSignature), "token %q: %v", tok, err)
	}
}

func TestDifferentKeysDoNotVerify(t *testing.T) {
	a := newSigner(t)
	b, err := New("other-secret", DefaultSalt)
	require.NoError(t, err)
	c, err := New("test-secret", "other.salt")
	require.NoError(t, err)

	token := a.Sign("alice")
	_, err = b.Unsign(token)
	assert.ErrorIs(t, err, types.ErrInvalidSignature)
	_, err = c.Unsign(token)
	assert.ErrorIs(t, err, types.ErrInvalidSignature)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("", DefaultSalt)
	assert.Error(t, err)
}
