// Package credentials persists the local unlock PIN, the session unlock flag
// and the biometric enrollment, and mirrors PIN/unlock into session.State.
package credentials

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/primepost/internal/client/session"
	"github.com/dmitrijs2005/primepost/internal/client/storage"
	"github.com/dmitrijs2005/primepost/internal/cryptox"
)

const (
	KeyPinHash          = "primepost_pin_hash"
	KeyUnlocked         = "primepost_unlocked"
	KeyBiometricEnabled = "primepost_biometric_enabled"
	KeyCredentialID     = "primepost_credential_id"

	flagTrue = "true"
	pinLen   = 4
)

var (
	ErrInvalidPin = errors.New("pin must be exactly 4 digits")
	ErrPinNotSet  = errors.New("pin is not set")
)

// Enrollment is the stored biometric enrollment. Enabled is only reported
// when a credential id is stored alongside it.
type Enrollment struct {
	Enabled      bool
	CredentialID []byte
}

type Store struct {
	persistent storage.Store
	ephemeral  storage.Store
	state      *session.State
	hasher     cryptox.PinHasher
}

// New wires the store. persistent survives restarts; ephemeral is the
// session tier holding the unlock flag.
func New(persistent, ephemeral storage.Store, state *session.State, hasher cryptox.PinHasher) *Store {
	return &Store{persistent: persistent, ephemeral: ephemeral, state: state, hasher: hasher}
}

func ValidatePin(pin string) error {
	if len(pin) != pinLen {
		return ErrInvalidPin
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return ErrInvalidPin
		}
	}
	return nil
}

// Restore seeds the session state from storage. An unlock flag left behind
// without a PIN record is ignored.
func (s *Store) Restore(ctx context.Context) error {
	pinSet, err := s.IsPinSet(ctx)
	if err != nil {
		return err
	}
	unlocked := false
	if pinSet {
		v, err := s.ephemeral.Get(ctx, KeyUnlocked)
		if err != nil {
			return err
		}
		unlocked = string(v) == flagTrue
	}
	s.state.SetPinSet(pinSet)
	s.state.SetUnlocked(unlocked)
	return nil
}

// SetPin replaces the PIN record and unlocks the session. When the record
// cannot be written the error wraps storage.ErrStorage and the session
// state is left untouched.
func (s *Store) SetPin(ctx context.Context, pin string) error {
	if err := ValidatePin(pin); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(pin)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	if err := s.persistent.Set(ctx, KeyPinHash, []byte(hash)); err != nil {
		return fmt.Errorf("save pin: %w", err)
	}
	s.state.SetPinSet(true)

	if err := s.ephemeral.Set(ctx, KeyUnlocked, []byte(flagTrue)); err != nil {
		return fmt.Errorf("save unlock flag: %w", err)
	}
	s.state.SetUnlocked(true)
	return nil
}

// VerifyPin reports whether pin matches the stored record. No record is a
// false result, not an error.
func (s *Store) VerifyPin(ctx context.Context, pin string) (bool, error) {
	stored, err := s.persistent.Get(ctx, KeyPinHash)
	if err != nil {
		return false, fmt.Errorf("read pin: %w", err)
	}
	if stored == nil {
		return false, nil
	}
	return s.hasher.Verify(pin, string(stored))
}

func (s *Store) IsPinSet(ctx context.Context) (bool, error) {
	stored, err := s.persistent.Get(ctx, KeyPinHash)
	if err != nil {
		return false, fmt.Errorf("read pin: %w", err)
	}
	return stored != nil, nil
}

// ClearPin removes the PIN record and the unlock flag. The session state
// only drops what was actually deleted.
func (s *Store) ClearPin(ctx context.Context) error {
	pinErr := s.persistent.Delete(ctx, KeyPinHash)
	if pinErr == nil {
		s.state.SetPinSet(false)
	}
	unlockErr := s.ephemeral.Delete(ctx, KeyUnlocked)
	if unlockErr == nil {
		s.state.SetUnlocked(false)
	}
	if err := errors.Join(pinErr, unlockErr); err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	return nil
}

// Unlock marks the session unlocked. It refuses when no PIN exists.
func (s *Store) Unlock(ctx context.Context) error {
	pinSet, err := s.IsPinSet(ctx)
	if err != nil {
		return err
	}
	if !pinSet {
		return ErrPinNotSet
	}
	if err := s.ephemeral.Set(ctx, KeyUnlocked, []byte(flagTrue)); err != nil {
		return fmt.Errorf("save unlock flag: %w", err)
	}
	s.state.SetUnlocked(true)
	return nil
}

// Lock clears the unlock flag and keeps the PIN.
func (s *Store) Lock(ctx context.Context) error {
	s.state.SetUnlocked(false)
	if err := s.ephemeral.Delete(ctx, KeyUnlocked); err != nil {
		return fmt.Errorf("clear unlock flag: %w", err)
	}
	return nil
}

func (s *Store) IsUnlocked() bool {
	return s.state.Snapshot().Unlocked
}

func (s *Store) Enrollment(ctx context.Context) (Enrollment, error) {
	enabled, err := s.persistent.Get(ctx, KeyBiometricEnabled)
	if err != nil {
		return Enrollment{}, fmt.Errorf("read biometric flag: %w", err)
	}
	if string(enabled) != flagTrue {
		return Enrollment{}, nil
	}

	encoded, err := s.persistent.Get(ctx, KeyCredentialID)
	if err != nil {
		return Enrollment{}, fmt.Errorf("read credential id: %w", err)
	}
	id, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil || len(id) == 0 {
		return Enrollment{}, nil
	}
	return Enrollment{Enabled: true, CredentialID: id}, nil
}

func (s *Store) SaveEnrollment(ctx context.Context, credentialID []byte) error {
	if len(credentialID) == 0 {
		return errors.New("empty credential id")
	}
	err := s.persistent.SetMany(ctx, map[string][]byte{
		KeyBiometricEnabled: []byte(flagTrue),
		KeyCredentialID:     []byte(base64.StdEncoding.EncodeToString(credentialID)),
	})
	if err != nil {
		return fmt.Errorf("save biometric enrollment: %w", err)
	}
	return nil
}

func (s *Store) ClearEnrollment(ctx context.Context) error {
	return errors.Join(
		s.persistent.Delete(ctx, KeyBiometricEnabled),
		s.persistent.Delete(ctx, KeyCredentialID),
	)
}
