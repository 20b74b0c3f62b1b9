package marketplace

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(logging.Nop())
}

func customer(name string) Profile {
	return Profile{FullName: name, Email: name + "@example.com", Role: RoleCustomer}
}

func cashOrder(storeID string) Order {
	return Order{
		StoreID:       storeID,
		Items:         []OrderItem{{ProductID: "p1", Quantity: 2}},
		PaymentMethod: PaymentCash,
	}
}

func TestProfile_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.Profile(context.Background(), "ada")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveProfile_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProfile(ctx, "ada", customer("Ada")))

	p, err := s.Profile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FullName)
	assert.Equal(t, RoleCustomer, p.Role)
	assert.False(t, p.AcceptedCustomerTerms)
}

func TestSaveProfile_Validation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		profile Profile
		wantErr error
	}{
		{"missing name", Profile{Role: RoleCustomer}, common.ErrInvalidArgument},
		{"unknown role", Profile{FullName: "Ada", Role: "pirate"}, common.ErrInvalidArgument},
		{"super admin without seat", Profile{FullName: "Ada", Role: RoleSuperAdmin}, common.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SaveProfile(ctx, "ada", tt.profile)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSaveProfile_IgnoresClientAcceptanceFlags(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p := customer("Ada")
	p.AcceptedCustomerTerms = true
	p.IsSuspended = true
	require.NoError(t, s.SaveProfile(ctx, "ada", p))

	got, err := s.Profile(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, got.AcceptedCustomerTerms)
	assert.False(t, got.IsSuspended)
}

func TestAcceptTerms_MirrorsOntoProfile(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProfile(ctx, "ada", customer("Ada")))
	require.NoError(t, s.AcceptTerms(ctx, "ada", TermsCustomer))

	ok, err := s.HasAcceptedTerms(ctx, "ada", TermsCustomer)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasAcceptedTerms(ctx, "ada", TermsStoreOwner)
	require.NoError(t, err)
	assert.False(t, ok)

	p, err := s.Profile(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, p.AcceptedCustomerTerms)
	assert.False(t, p.AcceptedStoreOwnerTerms)
}

func TestAcceptTerms_BeforeProfileIsKept(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.AcceptTerms(ctx, "ada", TermsCustomer))
	require.NoError(t, s.SaveProfile(ctx, "ada", customer("Ada")))

	p, err := s.Profile(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, p.AcceptedCustomerTerms)
}

func TestTerms_UnknownType(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.HasAcceptedTerms(ctx, "ada", "cookies")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.ErrorIs(t, s.AcceptTerms(ctx, "ada", "cookies"), common.ErrInvalidArgument)
	_, err = s.TermsContent(ctx, "cookies")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestTermsContent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	text, err := s.TermsContent(ctx, TermsPrivacyPolicy)
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, s.PublishTerms(ctx, TermsPrivacyPolicy, "We keep nothing."))
	text, err = s.TermsContent(ctx, TermsPrivacyPolicy)
	require.NoError(t, err)
	assert.Equal(t, "We keep nothing.", text)
}

func TestBootstrapSuperAdmin(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.BootstrapSuperAdmin(ctx, "root"))
	require.NoError(t, s.BootstrapSuperAdmin(ctx, "root"))
	assert.ErrorIs(t, s.BootstrapSuperAdmin(ctx, "mallory"), common.ErrForbidden)

	require.NoError(t, s.SaveProfile(ctx, "root", Profile{FullName: "Root", Role: RoleSuperAdmin}))
	assert.ErrorIs(t, s.SaveProfile(ctx, "mallory", Profile{FullName: "M", Role: RoleSuperAdmin}), common.ErrForbidden)
}

func TestPlaceOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveProfile(ctx, "ada", customer("Ada")))

	o := cashOrder("s1")
	o.TableNumber = "7"
	id, err := s.PlaceOrder(ctx, "ada", o)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	orders := s.Orders(ctx, "s1")
	require.Len(t, orders, 1)
	assert.Equal(t, id, orders[0].ID)
	assert.Equal(t, "ada", orders[0].Principal)
	assert.Equal(t, "7", orders[0].TableNumber)
	assert.False(t, orders[0].CreatedAt.IsZero())
	assert.Empty(t, s.Orders(ctx, "s2"))
}

func TestPlaceOrder_Rejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*Order)
		wantErr error
	}{
		{"missing store", func(o *Order) { o.StoreID = " " }, common.ErrInvalidArgument},
		{"no items", func(o *Order) { o.Items = nil }, common.ErrInvalidArgument},
		{"zero quantity", func(o *Order) { o.Items[0].Quantity = 0 }, common.ErrInvalidArgument},
		{"unknown payment", func(o *Order) { o.PaymentMethod = "card" }, common.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			require.NoError(t, s.SaveProfile(ctx, "ada", customer("Ada")))

			o := cashOrder("s1")
			tt.mutate(&o)
			_, err := s.PlaceOrder(ctx, "ada", o)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.Orders(ctx, "s1"))
		})
	}
}

func TestPlaceOrder_RequiresProfile(t *testing.T) {
	s := newStore(t)
	_, err := s.PlaceOrder(context.Background(), "ghost", cashOrder("s1"))
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestFactoryReset(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.BootstrapSuperAdmin(ctx, "root"))
	require.NoError(t, s.SaveProfile(ctx, "ada", customer("Ada")))
	require.NoError(t, s.AcceptTerms(ctx, "ada", TermsCustomer))
	_, err := s.PlaceOrder(ctx, "ada", cashOrder("s1"))
	require.NoError(t, err)
	require.NoError(t, s.PublishTerms(ctx, TermsCustomer, "v2"))

	assert.ErrorIs(t, s.FactoryReset(ctx, "ada"), common.ErrForbidden)

	require.NoError(t, s.FactoryReset(ctx, "root"))

	_, err = s.Profile(ctx, "ada")
	assert.ErrorIs(t, err, common.ErrNotFound)
	ok, err := s.HasAcceptedTerms(ctx, "ada", TermsCustomer)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.Orders(ctx, "s1"))

	text, err := s.TermsContent(ctx, TermsCustomer)
	require.NoError(t, err)
	assert.Equal(t, "v2", text)

	// The seat is free again.
	require.NoError(t, s.BootstrapSuperAdmin(ctx, "ada"))
}

func TestFactoryReset_NoSuperAdmin(t *testing.T) {
	s := newStore(t)
	assert.ErrorIs(t, s.FactoryReset(context.Background(), ""), common.ErrForbidden)
}
