// Package cryptox hashes and verifies local unlock PINs.
//
// Two schemes are supported. "argon2id" derives a salted key and is the
// default for new records. "legacy" reproduces the 32-bit rolling hash that
// older installations stored, so their records keep verifying after an
// upgrade. Verification dispatches on the stored record, never on the
// configured scheme.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	SchemeArgon2id = "argon2id"
	SchemeLegacy   = "legacy"

	saltSize = 16
	keySize  = 32
)

var (
	ErrUnknownScheme = errors.New("unknown pin hash scheme")
	ErrMalformedHash = errors.New("malformed pin hash")
)

// PinHasher turns a PIN into a storable record and checks candidates
// against such a record.
type PinHasher interface {
	Hash(pin string) (string, error)
	Verify(pin, stored string) (bool, error)
}

type Hasher struct {
	scheme string
	rand   io.Reader
}

func NewPinHasher(scheme string) (*Hasher, error) {
	switch scheme {
	case SchemeArgon2id, SchemeLegacy:
		return &Hasher{scheme: scheme, rand: rand.Reader}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

func (h *Hasher) Scheme() string {
	return h.scheme
}

func (h *Hasher) Hash(pin string) (string, error) {
	if h.scheme == SchemeLegacy {
		return LegacyHash(pin), nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return argon2Record(pin, salt), nil
}

func (h *Hasher) Verify(pin, stored string) (bool, error) {
	if !strings.HasPrefix(stored, SchemeArgon2id+"$") {
		return subtle.ConstantTimeCompare([]byte(LegacyHash(pin)), []byte(stored)) == 1, nil
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false, ErrMalformedHash
	}
	salt, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	return subtle.ConstantTimeCompare([]byte(argon2Record(pin, salt)), []byte(stored)) == 1, nil
}

// DeriveKey stretches secret with argon2id using the project-wide cost
// parameters.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize)
}

// LegacyHash is h = h*31 + c over the input with int32 wrap-around, printed
// in base 36 ("-" prefix for negative values).
func LegacyHash(pin string) string {
	var h int32
	for _, c := range pin {
		h = (h << 5) - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 36)
}

func argon2Record(pin string, salt []byte) string {
	key := DeriveKey([]byte(pin), salt)
	return SchemeArgon2id + "$" +
		base64.RawURLEncoding.EncodeToString(salt) + "$" +
		base64.RawURLEncoding.EncodeToString(key)
}
