// Package biometric runs platform step-up ceremonies (WebAuthn style) to
// enroll and verify a device-bound credential.
//
// Capability is probed on every call and never cached. Only one ceremony
// may be in flight; a second caller gets ErrAlreadyInProgress immediately.
// A dismissed platform dialog surfaces as ErrUserCancelled so callers can
// fall back to PIN entry without alarming the user.
package biometric

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/primepost/internal/client/credentials"
	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
)

var (
	ErrUnsupported       = errors.New("biometric authentication is not available on this device")
	ErrUserCancelled     = errors.New("biometric prompt was dismissed")
	ErrFailed            = errors.New("biometric authentication failed")
	ErrAlreadyInProgress = errors.New("a biometric prompt is already in progress")
	ErrNotEnrolled       = errors.New("biometric authentication is not enabled")

	// ErrNotAllowed is what an Authenticator returns when the user dismisses
	// the platform dialog or lets it time out.
	ErrNotAllowed = errors.New("operation not allowed by user")
)

// Authenticator is the platform credential API.
type Authenticator interface {
	Create(ctx context.Context, opts protocol.PublicKeyCredentialCreationOptions) (credentialID []byte, err error)
	Get(ctx context.Context, opts protocol.PublicKeyCredentialRequestOptions) error
}

type EnrollmentStore interface {
	Enrollment(ctx context.Context) (credentials.Enrollment, error)
	SaveEnrollment(ctx context.Context, credentialID []byte) error
}

type Phase int

const (
	Idle Phase = iota
	Requesting
)

func (p Phase) String() string {
	if p == Requesting {
		return "requesting"
	}
	return "idle"
}

type Config struct {
	RelyingPartyID   string
	RelyingPartyName string
	Timeout          time.Duration
}

const (
	userName        = "user@primepost"
	userDisplayName = "PrimePost User"
	userHandleSize  = 16
)

type Gateway struct {
	capability Capability
	auth       Authenticator
	store      EnrollmentStore
	cfg        Config
	logger     logging.Logger
	busy       atomic.Bool

	newChallenge func() (protocol.URLEncodedBase64, error)
}

func NewGateway(capability Capability, auth Authenticator, store EnrollmentStore, cfg Config, logger logging.Logger) *Gateway {
	return &Gateway{
		capability:   capability,
		auth:         auth,
		store:        store,
		cfg:          cfg,
		logger:       logger.With("module", "biometric"),
		newChallenge: protocol.CreateChallenge,
	}
}

func (g *Gateway) State() Phase {
	if g.busy.Load() {
		return Requesting
	}
	return Idle
}

// IsAvailable probes the platform. A failing probe counts as unavailable.
func (g *Gateway) IsAvailable(ctx context.Context) bool {
	ok, err := g.capability.Available(ctx)
	if err != nil {
		g.logger.Debug(ctx, "capability probe failed", "error", err)
		return false
	}
	return ok
}

// IsEnrolled reports a stored enrollment. It does not probe the platform.
func (g *Gateway) IsEnrolled(ctx context.Context) (bool, error) {
	e, err := g.store.Enrollment(ctx)
	if err != nil {
		return false, err
	}
	return e.Enabled, nil
}

// Enable creates a platform credential and stores its id.
func (g *Gateway) Enable(ctx context.Context) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrAlreadyInProgress
	}
	defer g.busy.Store(false)

	if !g.IsAvailable(ctx) {
		return ErrUnsupported
	}

	challenge, err := g.newChallenge()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}

	opts := protocol.PublicKeyCredentialCreationOptions{
		RelyingParty: protocol.RelyingPartyEntity{
			CredentialEntity: protocol.CredentialEntity{Name: g.cfg.RelyingPartyName},
			ID:               g.cfg.RelyingPartyID,
		},
		User: protocol.UserEntity{
			CredentialEntity: protocol.CredentialEntity{Name: userName},
			DisplayName:      userDisplayName,
			ID:               protocol.URLEncodedBase64(make([]byte, userHandleSize)),
		},
		Challenge: challenge,
		Parameters: []protocol.CredentialParameter{
			{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgES256},
			{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgRS256},
		},
		Timeout: int(g.cfg.Timeout.Milliseconds()),
		AuthenticatorSelection: protocol.AuthenticatorSelection{
			AuthenticatorAttachment: protocol.Platform,
			UserVerification:        protocol.VerificationRequired,
		},
	}

	id, err := g.auth.Create(ctx, opts)
	if err != nil {
		return g.normalize(ctx, "enable", err)
	}
	if len(id) == 0 {
		return fmt.Errorf("%w: platform returned no credential", ErrFailed)
	}

	if err := g.store.SaveEnrollment(ctx, id); err != nil {
		return err
	}
	g.logger.Info(ctx, "biometric enrollment saved")
	return nil
}

// Verify asks the platform for an assertion against the stored credential.
func (g *Gateway) Verify(ctx context.Context) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrAlreadyInProgress
	}
	defer g.busy.Store(false)

	if !g.IsAvailable(ctx) {
		return ErrUnsupported
	}

	enrollment, err := g.store.Enrollment(ctx)
	if err != nil {
		return err
	}
	if !enrollment.Enabled {
		return ErrNotEnrolled
	}

	challenge, err := g.newChallenge()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}

	opts := protocol.PublicKeyCredentialRequestOptions{
		Challenge:      challenge,
		Timeout:        int(g.cfg.Timeout.Milliseconds()),
		RelyingPartyID: g.cfg.RelyingPartyID,
		AllowedCredentials: []protocol.CredentialDescriptor{{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: enrollment.CredentialID,
		}},
		UserVerification: protocol.VerificationRequired,
	}

	if err := g.auth.Get(ctx, opts); err != nil {
		return g.normalize(ctx, "verify", err)
	}
	return nil
}

func (g *Gateway) normalize(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, ErrNotAllowed), errors.Is(err, context.Canceled):
		g.logger.Debug(ctx, "biometric prompt dismissed", "op", op)
		return ErrUserCancelled
	case errors.Is(err, ErrUnsupported):
		return ErrUnsupported
	default:
		g.logger.Warn(ctx, "biometric ceremony failed", "op", op, "error", err)
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}
}
