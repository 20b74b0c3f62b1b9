package client

import (
	"context"

	"github.com/dmitrijs2005/primepost/internal/client/models"
)

// Backend is the remote PrimePost service as seen by the client. Calls
// other than Login and Ping act on behalf of the identity set with
// SetIdentityToken.
type Backend interface {
	Close() error
	SetIdentityToken(token string)
	Login(ctx context.Context, name string) (string, error)
	Ping(ctx context.Context) error
	// GetCallerUserProfile returns nil, nil when the caller has no profile.
	GetCallerUserProfile(ctx context.Context) (*models.UserProfile, error)
	SaveCallerUserProfile(ctx context.Context, p models.UserProfile) error
	BootstrapSuperAdmin(ctx context.Context) error
	HasAcceptedTerms(ctx context.Context, terms models.TermsType) (bool, error)
	AcceptTerms(ctx context.Context, terms models.TermsType) error
	GetTermsContent(ctx context.Context, terms models.TermsType) (string, error)
	PlaceOrder(ctx context.Context, order models.Order) (string, error)
	FactoryReset(ctx context.Context) error
}
