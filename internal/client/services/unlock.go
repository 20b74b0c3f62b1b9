package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/primepost/internal/client/biometric"
	"github.com/dmitrijs2005/primepost/internal/client/credentials"
	"github.com/dmitrijs2005/primepost/internal/client/gate"
	"github.com/dmitrijs2005/primepost/internal/logging"
)

var ErrIncorrectPin = errors.New("incorrect pin")

// UnlockFlow drives the PIN setup and unlock gates. Wrong PINs are not
// rate limited.
type UnlockFlow struct {
	creds  *credentials.Store
	bio    Biometrics
	offers *gate.OfferTracker
	logger logging.Logger

	mu        sync.Mutex
	attempted bool
}

func NewUnlockFlow(creds *credentials.Store, bio Biometrics, offers *gate.OfferTracker, logger logging.Logger) *UnlockFlow {
	return &UnlockFlow{creds: creds, bio: bio, offers: offers, logger: logger.With("module", "unlock")}
}

// SetPin stores a confirmed PIN. The session is unlocked as a side effect.
func (u *UnlockFlow) SetPin(ctx context.Context, pin string) error {
	if err := u.creds.SetPin(ctx, pin); err != nil {
		return err
	}
	u.resetAttempt()
	return nil
}

// Start makes the automatic biometric attempt for this gate entry. It runs
// at most once until the session is unlocked or locked again. unlocked is
// false when the caller must fall back to PIN entry; err then says why the
// biometric attempt did not succeed, or is nil when none was made.
func (u *UnlockFlow) Start(ctx context.Context) (unlocked bool, err error) {
	u.mu.Lock()
	if u.attempted {
		u.mu.Unlock()
		return false, nil
	}
	u.attempted = true
	u.mu.Unlock()

	if !u.bio.IsAvailable(ctx) {
		return false, nil
	}
	enrolled, err := u.bio.IsEnrolled(ctx)
	if err != nil || !enrolled {
		return false, err
	}

	if err := u.bio.Verify(ctx); err != nil {
		if errors.Is(err, biometric.ErrUserCancelled) {
			u.logger.Debug(ctx, "biometric unlock cancelled, falling back to pin")
		} else {
			u.logger.Warn(ctx, "biometric unlock failed, falling back to pin", "error", err)
		}
		return false, err
	}

	if err := u.creds.Unlock(ctx); err != nil {
		return false, err
	}
	u.resetAttempt()
	return true, nil
}

func (u *UnlockFlow) SubmitPin(ctx context.Context, pin string) error {
	ok, err := u.creds.VerifyPin(ctx, pin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIncorrectPin
	}
	if err := u.creds.Unlock(ctx); err != nil {
		return err
	}
	u.resetAttempt()
	return nil
}

// Lock ends the unlocked session. The next unlock gate gets a fresh
// biometric attempt and the enrollment offer may be shown again.
func (u *UnlockFlow) Lock(ctx context.Context) error {
	u.Reset()
	return u.creds.Lock(ctx)
}

// Reset forgets the biometric attempt and the enrollment offer without
// touching the unlock flag. Session teardown calls it.
func (u *UnlockFlow) Reset() {
	u.offers.Reset()
	u.resetAttempt()
}

func (u *UnlockFlow) resetAttempt() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attempted = false
}
