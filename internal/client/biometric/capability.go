package biometric

import "context"

// Capability reports whether the device can run a step-up ceremony right
// now: the platform API exists and a user-verifying authenticator is set up.
type Capability interface {
	Available(ctx context.Context) (bool, error)
}

type Available struct{}

func (Available) Available(context.Context) (bool, error) { return true, nil }

type Unavailable struct{}

func (Unavailable) Available(context.Context) (bool, error) { return false, nil }

// CapabilityFunc adapts a probe function.
type CapabilityFunc func(ctx context.Context) (bool, error)

func (f CapabilityFunc) Available(ctx context.Context) (bool, error) { return f(ctx) }
