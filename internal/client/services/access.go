package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/primepost/internal/client/client"
	"github.com/dmitrijs2005/primepost/internal/client/gate"
	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/client/querycache"
	"github.com/dmitrijs2005/primepost/internal/client/session"
	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/logging"
)

// Query cache keys.
const (
	KeyProfile       = "currentUserProfile"
	KeyAcceptedTerms = "hasAcceptedTerms/"
	KeyTermsContent  = "termsContent/"
)

var ErrTermsNotAccepted = errors.New("terms must be accepted to continue")

type Identity interface {
	IsAuthenticated() bool
	IsLoading() bool
}

type Biometrics interface {
	IsAvailable(ctx context.Context) bool
	IsEnrolled(ctx context.Context) (bool, error)
	Enable(ctx context.Context) error
	Verify(ctx context.Context) error
}

// ProfileInput is the profile setup form.
type ProfileInput struct {
	FullName         string
	PhoneNumber      string
	Email            string
	DateOfBirth      string
	Nationality      string
	StateOfResidence string
	Role             models.Role
	AcceptTerms      bool
}

func (in ProfileInput) validate() error {
	fields := []struct{ name, value string }{
		{"full name", in.FullName},
		{"phone number", in.PhoneNumber},
		{"email", in.Email},
		{"date of birth", in.DateOfBirth},
		{"nationality", in.Nationality},
		{"state of residence", in.StateOfResidence},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", common.ErrInvalidArgument, f.name)
		}
	}
	if _, err := models.ParseRole(string(in.Role)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	// Super admins have no terms to accept.
	if in.Role != models.RoleSuperAdmin && !in.AcceptTerms {
		return ErrTermsNotAccepted
	}
	return nil
}

type AccessService struct {
	backend  client.Backend
	identity Identity
	cache    *querycache.Cache
	state    *session.State
	bio      Biometrics
	offers   *gate.OfferTracker
	logger   logging.Logger
}

func NewAccessService(backend client.Backend, id Identity, cache *querycache.Cache, state *session.State, bio Biometrics, offers *gate.OfferTracker, logger logging.Logger) *AccessService {
	return &AccessService{
		backend:  backend,
		identity: id,
		cache:    cache,
		state:    state,
		bio:      bio,
		offers:   offers,
		logger:   logger.With("module", "access"),
	}
}

// Profile returns the caller's profile and its load status. A failed fetch
// is reported as ProfileFailed together with the error, never as absence.
func (s *AccessService) Profile(ctx context.Context) (*models.UserProfile, gate.ProfileStatus, error) {
	p, err := querycache.Fetch(ctx, s.cache, KeyProfile, func(ctx context.Context) (*models.UserProfile, error) {
		return s.backend.GetCallerUserProfile(ctx)
	})
	switch {
	case errors.Is(err, querycache.ErrStale):
		return nil, gate.ProfileLoading, err
	case err != nil:
		return nil, gate.ProfileFailed, err
	case p == nil:
		return nil, gate.ProfileAbsent, nil
	default:
		return p, gate.ProfilePresent, nil
	}
}

// Inputs gathers the current gate inputs.
func (s *AccessService) Inputs(ctx context.Context) gate.Inputs {
	if !s.identity.IsAuthenticated() {
		return gate.Inputs{}
	}

	_, status, err := s.Profile(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile fetch failed", "error", err)
	}

	snap := s.state.Snapshot()
	in := gate.Inputs{
		Authenticated:    true,
		Profile:          status,
		PinSet:           snap.PinSet,
		Unlocked:         snap.Unlocked,
		BiometricOffered: s.offers.Offered(),
	}

	// The platform is only asked once the offer could actually be shown.
	if in.Profile == gate.ProfilePresent && snap.Unlocked && !in.BiometricOffered {
		in.BiometricAvailable = s.bio.IsAvailable(ctx)
		if in.BiometricAvailable {
			enrolled, err := s.bio.IsEnrolled(ctx)
			if err != nil {
				s.logger.Warn(ctx, "reading biometric enrollment failed", "error", err)
			}
			in.BiometricEnrolled = enrolled
		}
	}
	return in
}

func (s *AccessService) Gate(ctx context.Context) gate.Gate {
	return gate.Evaluate(s.Inputs(ctx))
}

// CheckRoute decides whether path may render for the current caller.
func (s *AccessService) CheckRoute(ctx context.Context, path string) gate.Outcome {
	route := gate.RouteFor(path)
	in := gate.RouteInputs{
		IdentityLoading: s.identity.IsLoading(),
		Authenticated:   s.identity.IsAuthenticated(),
	}
	if in.IdentityLoading || !in.Authenticated {
		return gate.CheckRoute(route, in)
	}

	p, status, err := s.Profile(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile fetch failed", "path", path, "error", err)
	}
	in.Profile = status
	if p != nil {
		in.Role = p.Role
	}

	needsTerms := route.RequiredTerms != "" && p != nil && p.Role == route.RequiredRole && p.Role != models.RoleSuperAdmin
	if needsTerms {
		accepted, err := s.HasAcceptedTerms(ctx, route.RequiredTerms)
		if err != nil {
			s.logger.Warn(ctx, "terms lookup failed", "terms", route.RequiredTerms, "error", err)
			if !errors.Is(err, querycache.ErrStale) {
				return gate.Unavailable
			}
		} else {
			in.TermsAccepted = &accepted
		}
	}
	return gate.CheckRoute(route, in)
}

func (s *AccessService) HasAcceptedTerms(ctx context.Context, terms models.TermsType) (bool, error) {
	return querycache.Fetch(ctx, s.cache, KeyAcceptedTerms+string(terms), func(ctx context.Context) (bool, error) {
		return s.backend.HasAcceptedTerms(ctx, terms)
	})
}

// SubmitProfile saves the profile setup form. A super admin is bootstrapped
// before the profile is written. Terms acceptance is recorded separately,
// so the saved profile starts with both acceptance flags unset.
func (s *AccessService) SubmitProfile(ctx context.Context, in ProfileInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	if in.Role == models.RoleSuperAdmin {
		if err := s.backend.BootstrapSuperAdmin(ctx); err != nil {
			return fmt.Errorf("bootstrap super admin: %w", err)
		}
	}

	p := models.UserProfile{
		FullName:         strings.TrimSpace(in.FullName),
		PhoneNumber:      strings.TrimSpace(in.PhoneNumber),
		Email:            strings.TrimSpace(in.Email),
		DateOfBirth:      strings.TrimSpace(in.DateOfBirth),
		Nationality:      strings.TrimSpace(in.Nationality),
		StateOfResidence: strings.TrimSpace(in.StateOfResidence),
		Role:             in.Role,
	}
	if err := s.backend.SaveCallerUserProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	s.cache.Invalidate(KeyProfile)
	s.logger.Info(ctx, "profile saved", "role", in.Role)
	return nil
}

func (s *AccessService) AcceptTerms(ctx context.Context, terms models.TermsType) error {
	if err := s.backend.AcceptTerms(ctx, terms); err != nil {
		return fmt.Errorf("accept terms: %w", err)
	}
	s.cache.Invalidate(KeyAcceptedTerms + string(terms))
	s.cache.Invalidate(KeyProfile)
	return nil
}

// TermsContent returns the backend's text for terms, or the bundled text
// when the backend has none.
func (s *AccessService) TermsContent(ctx context.Context, terms models.TermsType) (string, error) {
	text, err := querycache.Fetch(ctx, s.cache, KeyTermsContent+string(terms), func(ctx context.Context) (string, error) {
		return s.backend.GetTermsContent(ctx, terms)
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return BundledTerms(terms), nil
	}
	return text, nil
}

// AcceptBiometricOffer enrolls biometrics. The offer counts as shown
// whatever the outcome.
func (s *AccessService) AcceptBiometricOffer(ctx context.Context) error {
	s.offers.MarkOffered()
	return s.bio.Enable(ctx)
}

func (s *AccessService) DeclineBiometricOffer() {
	s.offers.MarkOffered()
}
