// Package gate decides which blocking prompt, if any, the client must show
// before content, and whether a protected route may render.
//
// Evaluate and CheckRoute are pure: the same inputs always give the same
// answer, so callers simply re-run them whenever an input changes.
package gate

// ProfileStatus separates "still loading" and "fetch failed" from a profile
// that is known to be absent. Only Absent leads to profile setup.
type ProfileStatus int

const (
	ProfileLoading ProfileStatus = iota
	ProfileAbsent
	ProfilePresent
	ProfileFailed
)

type Gate int

const (
	None Gate = iota
	ProfileSetup
	PinSetup
	Unlock
	BiometricOffer
	// RemoteUnavailable means the profile could not be fetched; the caller
	// shows a retryable error instead of guessing.
	RemoteUnavailable
)

func (g Gate) String() string {
	switch g {
	case ProfileSetup:
		return "profile-setup"
	case PinSetup:
		return "pin-setup"
	case Unlock:
		return "unlock"
	case BiometricOffer:
		return "biometric-offer"
	case RemoteUnavailable:
		return "remote-unavailable"
	default:
		return "none"
	}
}

type Inputs struct {
	Authenticated      bool
	Profile            ProfileStatus
	PinSet             bool
	Unlocked           bool
	BiometricAvailable bool
	BiometricEnrolled  bool
	BiometricOffered   bool
}

// Evaluate returns the single gate to show, highest precedence first:
// profile setup, PIN setup, unlock, then the optional biometric offer.
func Evaluate(in Inputs) Gate {
	if !in.Authenticated {
		return None
	}

	switch in.Profile {
	case ProfileLoading:
		return None
	case ProfileFailed:
		return RemoteUnavailable
	case ProfileAbsent:
		return ProfileSetup
	}

	if !in.PinSet {
		return PinSetup
	}
	if !in.Unlocked {
		return Unlock
	}
	if in.BiometricAvailable && !in.BiometricEnrolled && !in.BiometricOffered {
		return BiometricOffer
	}
	return None
}
