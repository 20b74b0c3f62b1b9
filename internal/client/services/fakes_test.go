package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/primepost/internal/client/cart"
	"github.com/dmitrijs2005/primepost/internal/client/credentials"
	"github.com/dmitrijs2005/primepost/internal/client/gate"
	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/client/querycache"
	"github.com/dmitrijs2005/primepost/internal/client/session"
	"github.com/dmitrijs2005/primepost/internal/client/storage"
	"github.com/dmitrijs2005/primepost/internal/cryptox"
	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake backend ----

type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	profile      *models.UserProfile
	profileErr   error
	profileCalls int

	saved   []models.UserProfile
	saveErr error

	bootstrapErr error

	accepted    map[models.TermsType]bool
	acceptedErr error
	acceptErr   error

	content string

	orders   []models.Order
	orderErr error
	// onOrder runs while PlaceOrder is in flight.
	onOrder func()

	resetErr error
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) Close() error                   { return nil }
func (f *fakeBackend) SetIdentityToken(string)        {}
func (f *fakeBackend) Ping(ctx context.Context) error { return nil }

func (f *fakeBackend) Login(ctx context.Context, name string) (string, error) {
	f.record("Login")
	return "", nil
}

func (f *fakeBackend) GetCallerUserProfile(ctx context.Context) (*models.UserProfile, error) {
	f.record("GetCallerUserProfile")
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return nil, nil
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeBackend) SaveCallerUserProfile(ctx context.Context, p models.UserProfile) error {
	f.record("SaveCallerUserProfile")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, p)
	f.profile = &p
	return nil
}

func (f *fakeBackend) BootstrapSuperAdmin(ctx context.Context) error {
	f.record("BootstrapSuperAdmin")
	return f.bootstrapErr
}

func (f *fakeBackend) HasAcceptedTerms(ctx context.Context, t models.TermsType) (bool, error) {
	f.record("HasAcceptedTerms")
	if f.acceptedErr != nil {
		return false, f.acceptedErr
	}
	return f.accepted[t], nil
}

func (f *fakeBackend) AcceptTerms(ctx context.Context, t models.TermsType) error {
	f.record("AcceptTerms")
	if f.acceptErr != nil {
		return f.acceptErr
	}
	if f.accepted == nil {
		f.accepted = map[models.TermsType]bool{}
	}
	f.accepted[t] = true
	return nil
}

func (f *fakeBackend) GetTermsContent(ctx context.Context, t models.TermsType) (string, error) {
	f.record("GetTermsContent")
	return f.content, nil
}

func (f *fakeBackend) PlaceOrder(ctx context.Context, o models.Order) (string, error) {
	f.record("PlaceOrder")
	if f.onOrder != nil {
		f.onOrder()
	}
	if f.orderErr != nil {
		return "", f.orderErr
	}
	f.orders = append(f.orders, o)
	return "order-1", nil
}

func (f *fakeBackend) FactoryReset(ctx context.Context) error {
	f.record("FactoryReset")
	return f.resetErr
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

// ---- fake identity ----

type fakeIdentity struct {
	authed  bool
	loading bool
}

func (i *fakeIdentity) IsAuthenticated() bool { return i.authed }
func (i *fakeIdentity) IsLoading() bool       { return i.loading }

// ---- fake biometrics ----

type fakeBio struct {
	available   bool
	enrolled    bool
	verifyErr   error
	enableErr   error
	verifyCalls int
	enableCalls int
}

func (b *fakeBio) IsAvailable(context.Context) bool { return b.available }

func (b *fakeBio) IsEnrolled(context.Context) (bool, error) { return b.enrolled, nil }

func (b *fakeBio) Enable(context.Context) error {
	b.enableCalls++
	if b.enableErr == nil {
		b.enrolled = true
	}
	return b.enableErr
}

func (b *fakeBio) Verify(context.Context) error {
	b.verifyCalls++
	return b.verifyErr
}

// ---- environment ----

type env struct {
	backend  *fakeBackend
	identity *fakeIdentity
	bio      *fakeBio
	state    *session.State
	epoch    *session.Epoch
	cache    *querycache.Cache
	offers   *gate.OfferTracker
	creds    *credentials.Store
	cart     *cart.Store

	access   *AccessService
	unlock   *UnlockFlow
	checkout *CheckoutService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	e := &env{
		backend:  &fakeBackend{},
		identity: &fakeIdentity{authed: true},
		bio:      &fakeBio{},
		state:    session.NewState(),
		epoch:    &session.Epoch{},
		offers:   &gate.OfferTracker{},
	}
	e.cache = querycache.New(e.epoch)

	hasher, err := cryptox.NewPinHasher(cryptox.SchemeLegacy)
	require.NoError(t, err)
	persistent := storage.NewMemoryStore()
	e.creds = credentials.New(persistent, storage.NewMemoryStore(), e.state, hasher)

	e.cart, err = cart.Load(ctx, persistent)
	require.NoError(t, err)

	log := logging.Nop()
	e.access = NewAccessService(e.backend, e.identity, e.cache, e.state, e.bio, e.offers, log)
	e.unlock = NewUnlockFlow(e.creds, e.bio, e.offers, log)
	e.checkout = NewCheckoutService(e.backend, e.cart, e.creds, e.bio, e.epoch, e.cache, log)
	return e
}

func customer() *models.UserProfile {
	return &models.UserProfile{FullName: "Ada", Role: models.RoleCustomer}
}
