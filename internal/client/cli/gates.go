package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/primepost/internal/client/biometric"
	"github.com/dmitrijs2005/primepost/internal/client/credentials"
	"github.com/dmitrijs2005/primepost/internal/client/gate"
	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/client/services"
	"github.com/dmitrijs2005/primepost/internal/common"
)

var errRemoteUnavailable = errors.New("service unavailable, press Enter to retry")

// maxGatePrompts bounds how many gates one resolveGate call walks through:
// profile setup, PIN setup and the biometric offer at most.
const maxGatePrompts = 4

// resolveGate runs the prompts of the gates in front of the user until none
// is left or one fails. A failed prompt is retried on the next call.
func (a *App) resolveGate(ctx context.Context) error {
	for i := 0; i < maxGatePrompts; i++ {
		g := a.access.Gate(ctx)
		if g == gate.None {
			return nil
		}
		a.logger.Debug(ctx, "gate", "gate", g.String())
		if err := a.runGate(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) runGate(ctx context.Context, g gate.Gate) error {
	switch g {
	case gate.ProfileSetup:
		return a.setupProfile(ctx)
	case gate.PinSetup:
		return a.setupPin(ctx)
	case gate.Unlock:
		return a.unlockSession(ctx)
	case gate.BiometricOffer:
		return a.offerBiometrics(ctx)
	case gate.RemoteUnavailable:
		return errRemoteUnavailable
	default:
		return nil
	}
}

func (a *App) setupProfile(ctx context.Context) error {
	a.println("Complete your profile to continue.")

	var in services.ProfileInput
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &in.FullName},
		{"Phone number", &in.PhoneNumber},
		{"Email", &in.Email},
		{"Date of birth (YYYY-MM-DD)", &in.DateOfBirth},
		{"Nationality", &in.Nationality},
		{"State of residence", &in.StateOfResidence},
	}
	for _, f := range fields {
		v, err := GetSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	roleText, err := GetSimpleText(a.reader, "Role (customer, owner, admin)", a.out)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(roleText)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	in.Role = role

	if role != models.RoleSuperAdmin {
		in.AcceptTerms, err = GetConfirmation(a.reader, "I accept the PrimePost terms of service", a.out)
		if err != nil {
			return err
		}
	}

	if err := a.access.SubmitProfile(ctx, in); err != nil {
		return err
	}
	a.println("Profile saved.")
	return nil
}

func (a *App) setupPin(ctx context.Context) error {
	a.println("Create a 4-digit PIN to protect PrimePost on this device.")

	pin, err := a.readPin("New PIN")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	if err := a.pinSetup.Enter(string(pin), credentials.ValidatePin); err != nil {
		return err
	}

	confirm, err := a.readPin("Confirm PIN")
	if err != nil {
		a.pinSetup.Reset()
		return err
	}
	defer common.WipeByteArray(confirm)

	final, err := a.pinSetup.Confirm(string(confirm))
	if err != nil {
		return err
	}
	if err := a.unlock.SetPin(ctx, final); err != nil {
		return err
	}
	a.println("PIN set.")
	return nil
}

func (a *App) unlockSession(ctx context.Context) error {
	unlocked, err := a.unlock.Start(ctx)
	if unlocked {
		a.println("Unlocked.")
		return nil
	}
	if err != nil && !errors.Is(err, biometric.ErrUserCancelled) {
		a.println("Biometric unlock failed, use your PIN.")
	}

	pin, err := a.readPin("Enter PIN")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	if err := a.unlock.SubmitPin(ctx, string(pin)); err != nil {
		return err
	}
	a.println("Unlocked.")
	return nil
}

func (a *App) offerBiometrics(ctx context.Context) error {
	ok, err := GetConfirmation(a.reader, "Use biometrics to unlock PrimePost next time?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.access.DeclineBiometricOffer()
		return nil
	}

	if err := a.access.AcceptBiometricOffer(ctx); err != nil {
		if errors.Is(err, biometric.ErrUserCancelled) {
			a.println("Biometric setup cancelled.")
			return nil
		}
		return err
	}
	a.println("Biometric unlock enabled.")
	return nil
}
