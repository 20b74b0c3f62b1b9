// Package marketplace is the development backend's in-memory state: caller
// profiles, terms acceptance, the super admin seat and placed orders.
package marketplace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/google/uuid"
)

const (
	RoleCustomer   = "customer"
	RoleStoreOwner = "storeOwner"
	RoleSuperAdmin = "superAdmin"

	TermsCustomer      = "customerTerms"
	TermsStoreOwner    = "storeOwnerTerms"
	TermsPrivacyPolicy = "privacyPolicy"

	PaymentCash        = "cash"
	PaymentMobileMoney = "mobileMoney"
)

type Profile struct {
	FullName                string
	PhoneNumber             string
	Email                   string
	DateOfBirth             string
	Nationality             string
	StateOfResidence        string
	Role                    string
	AcceptedCustomerTerms   bool
	AcceptedStoreOwnerTerms bool
	IsSuspended             bool
}

type OrderItem struct {
	ProductID string
	Quantity  int64
}

type Order struct {
	ID            string
	Principal     string
	StoreID       string
	Items         []OrderItem
	TableNumber   string
	SpecialNote   string
	PaymentMethod string
	CreatedAt     time.Time
}

type Store struct {
	mu         sync.RWMutex
	profiles   map[string]Profile
	accepted   map[string]map[string]bool
	terms      map[string]string
	orders     []Order
	superAdmin string
	logger     logging.Logger
	now        func() time.Time
}

func NewStore(logger logging.Logger) *Store {
	s := &Store{
		terms:  map[string]string{},
		logger: logger.With("module", "marketplace"),
		now:    time.Now,
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.profiles = map[string]Profile{}
	s.accepted = map[string]map[string]bool{}
	s.orders = nil
	s.superAdmin = ""
}

func validTerms(t string) error {
	switch t {
	case TermsCustomer, TermsStoreOwner, TermsPrivacyPolicy:
		return nil
	default:
		return fmt.Errorf("%w: unknown terms type %q", common.ErrInvalidArgument, t)
	}
}

// Profile returns the caller's profile, or common.ErrNotFound.
func (s *Store) Profile(ctx context.Context, principal string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[principal]
	if !ok {
		return Profile{}, common.ErrNotFound
	}
	return p, nil
}

// SaveProfile creates or replaces the caller's profile. The acceptance and
// suspension flags are owned by the store and never taken from p. Only the
// bootstrapped super admin may save a super admin profile.
func (s *Store) SaveProfile(ctx context.Context, principal string, p Profile) error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("%w: full name is required", common.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch p.Role {
	case RoleCustomer, RoleStoreOwner:
	case RoleSuperAdmin:
		if s.superAdmin != principal {
			return fmt.Errorf("%w: super admin seat is not held by caller", common.ErrForbidden)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", common.ErrInvalidArgument, p.Role)
	}

	accepted := s.accepted[principal]
	p.AcceptedCustomerTerms = accepted[TermsCustomer]
	p.AcceptedStoreOwnerTerms = accepted[TermsStoreOwner]
	p.IsSuspended = s.profiles[principal].IsSuspended

	s.profiles[principal] = p
	s.logger.Info(ctx, "profile saved", "principal", principal, "role", p.Role)
	return nil
}

// BootstrapSuperAdmin gives the first caller the super admin seat. Repeating
// the call as the holder succeeds; anyone else is refused.
func (s *Store) BootstrapSuperAdmin(ctx context.Context, principal string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.superAdmin {
	case "":
		s.superAdmin = principal
		s.logger.Info(ctx, "super admin bootstrapped", "principal", principal)
		return nil
	case principal:
		return nil
	default:
		return fmt.Errorf("%w: super admin already exists", common.ErrForbidden)
	}
}

func (s *Store) HasAcceptedTerms(ctx context.Context, principal, terms string) (bool, error) {
	if err := validTerms(terms); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accepted[principal][terms], nil
}

// AcceptTerms records acceptance and mirrors it onto the caller's profile.
func (s *Store) AcceptTerms(ctx context.Context, principal, terms string) error {
	if err := validTerms(terms); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accepted[principal] == nil {
		s.accepted[principal] = map[string]bool{}
	}
	s.accepted[principal][terms] = true

	if p, ok := s.profiles[principal]; ok {
		switch terms {
		case TermsCustomer:
			p.AcceptedCustomerTerms = true
		case TermsStoreOwner:
			p.AcceptedStoreOwnerTerms = true
		}
		s.profiles[principal] = p
	}

	s.logger.Info(ctx, "terms accepted", "principal", principal, "terms", terms)
	return nil
}

// TermsContent returns the published text for terms. An empty string means
// nothing has been published and clients show their bundled copy.
func (s *Store) TermsContent(ctx context.Context, terms string) (string, error) {
	if err := validTerms(terms); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terms[terms], nil
}

func (s *Store) PublishTerms(ctx context.Context, terms, content string) error {
	if err := validTerms(terms); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[terms] = content
	return nil
}

// PlaceOrder validates and records an order for the caller and returns its
// ID. The caller must have a profile that is not suspended.
func (s *Store) PlaceOrder(ctx context.Context, principal string, o Order) (string, error) {
	if err := validateOrder(o); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[principal]
	if !ok {
		return "", fmt.Errorf("%w: profile required", common.ErrForbidden)
	}
	if p.IsSuspended {
		return "", fmt.Errorf("%w: account suspended", common.ErrForbidden)
	}

	o.ID = uuid.NewString()
	o.Principal = principal
	o.CreatedAt = s.now()
	o.Items = append([]OrderItem(nil), o.Items...)
	s.orders = append(s.orders, o)

	s.logger.Info(ctx, "order placed", "order_id", o.ID, "store_id", o.StoreID, "items", len(o.Items))
	return o.ID, nil
}

func validateOrder(o Order) error {
	if strings.TrimSpace(o.StoreID) == "" {
		return fmt.Errorf("%w: store is required", common.ErrInvalidArgument)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order has no items", common.ErrInvalidArgument)
	}
	for _, it := range o.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return fmt.Errorf("%w: bad item %q x%d", common.ErrInvalidArgument, it.ProductID, it.Quantity)
		}
	}
	switch o.PaymentMethod {
	case PaymentCash, PaymentMobileMoney:
		return nil
	default:
		return fmt.Errorf("%w: unknown payment method %q", common.ErrInvalidArgument, o.PaymentMethod)
	}
}

// Orders returns the orders placed for storeID, oldest first.
func (s *Store) Orders(ctx context.Context, storeID string) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Order
	for _, o := range s.orders {
		if o.StoreID == storeID {
			out = append(out, o)
		}
	}
	return out
}

// FactoryReset drops every profile, acceptance and order and frees the super
// admin seat. Only the super admin may call it. Published terms are kept.
func (s *Store) FactoryReset(ctx context.Context, principal string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.superAdmin == "" || s.superAdmin != principal {
		return fmt.Errorf("%w: factory reset requires the super admin", common.ErrForbidden)
	}

	s.resetLocked()
	s.logger.Warn(ctx, "factory reset", "principal", principal)
	return nil
}
