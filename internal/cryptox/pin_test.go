package cryptox

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyHash_KnownValues(t *testing.T) {
	tests := map[string]string{
		"":                     "0",
		"1234":                 "wcoy",
		"4321":                 "yada",
		"0000":                 "vo5c",
		"9999":                 "11lxc",
		"primepost-pin-123456": "-77tl6f",
	}
	for in, want := range tests {
		assert.Equal(t, want, LegacyHash(in), in)
	}
}

func TestLegacyHash_Idempotent(t *testing.T) {
	assert.Equal(t, LegacyHash("2580"), LegacyHash("2580"))
}

func TestNewPinHasher_UnknownScheme(t *testing.T) {
	_, err := NewPinHasher("md5")
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestHasher_Legacy_RoundTrip(t *testing.T) {
	h, err := NewPinHasher(SchemeLegacy)
	require.NoError(t, err)

	stored, err := h.Hash("1234")
	require.NoError(t, err)
	assert.Equal(t, "wcoy", stored)

	ok, err := h.Verify("1234", stored)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("4321", stored)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_Argon2id_RoundTrip(t *testing.T) {
	h, err := NewPinHasher(SchemeArgon2id)
	require.NoError(t, err)

	stored, err := h.Hash("1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "argon2id$"))
	assert.NotContains(t, stored, "1234")

	ok, err := h.Verify("1234", stored)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("1235", stored)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_Argon2id_SameSaltIsDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, saltSize)
	assert.Equal(t, argon2Record("0000", salt), argon2Record("0000", salt))
}

func TestHasher_VerifiesRecordsOfTheOtherScheme(t *testing.T) {
	modern, err := NewPinHasher(SchemeArgon2id)
	require.NoError(t, err)

	ok, err := modern.Verify("1234", LegacyHash("1234"))
	require.NoError(t, err)
	assert.True(t, ok)

	legacy, err := NewPinHasher(SchemeLegacy)
	require.NoError(t, err)
	stored, err := modern.Hash("9876")
	require.NoError(t, err)

	ok, err = legacy.Verify("9876", stored)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_Verify_Malformed(t *testing.T) {
	h, err := NewPinHasher(SchemeArgon2id)
	require.NoError(t, err)

	_, err = h.Verify("1234", "argon2id$only-one-part")
	require.ErrorIs(t, err, ErrMalformedHash)

	_, err = h.Verify("1234", "argon2id$!!!$abc")
	require.ErrorIs(t, err, ErrMalformedHash)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestHasher_Hash_SaltFailure(t *testing.T) {
	h := &Hasher{scheme: SchemeArgon2id, rand: failingReader{}}
	_, err := h.Hash("1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate salt")
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	a := DeriveKey([]byte("1234"), []byte("salt-1"))
	b := DeriveKey([]byte("1234"), []byte("salt-2"))
	assert.Len(t, a, keySize)
	assert.NotEqual(t, a, b)
}
