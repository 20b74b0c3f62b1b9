package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/primepost/internal/client/biometric"
	"github.com/dmitrijs2005/primepost/internal/client/cart"
	"github.com/dmitrijs2005/primepost/internal/client/client"
	"github.com/dmitrijs2005/primepost/internal/client/credentials"
	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/client/querycache"
	"github.com/dmitrijs2005/primepost/internal/client/session"
	"github.com/dmitrijs2005/primepost/internal/logging"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrStepUpRequired  = errors.New("pin confirmation required")
	ErrOrderNotCleared = errors.New("order placed but cart could not be cleared")
)

// PinPrompt asks the user for their PIN during step-up verification.
type PinPrompt func(ctx context.Context) (string, error)

type CheckoutInput struct {
	TableNumber   string
	SpecialNote   string
	PaymentMethod models.PaymentMethod
}

type CheckoutService struct {
	backend client.Backend
	cart    *cart.Store
	creds   *credentials.Store
	bio     Biometrics
	epoch   *session.Epoch
	cache   *querycache.Cache
	logger  logging.Logger
}

func NewCheckoutService(backend client.Backend, c *cart.Store, creds *credentials.Store, bio Biometrics, epoch *session.Epoch, cache *querycache.Cache, logger logging.Logger) *CheckoutService {
	return &CheckoutService{
		backend: backend,
		cart:    c,
		creds:   creds,
		bio:     bio,
		epoch:   epoch,
		cache:   cache,
		logger:  logger.With("module", "checkout"),
	}
}

// PlaceOrder confirms the user's presence, submits the store's cart and
// clears it. A response that arrives after a logout is discarded with
// querycache.ErrStale and the cart is left alone.
func (s *CheckoutService) PlaceOrder(ctx context.Context, storeID string, in CheckoutInput, prompt PinPrompt) (string, error) {
	items := s.cart.OrderItems(storeID)
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}

	if err := s.stepUp(ctx, prompt); err != nil {
		return "", err
	}

	start := s.epoch.Current()
	orderID, err := s.backend.PlaceOrder(ctx, models.Order{
		StoreID:       storeID,
		Items:         items,
		TableNumber:   in.TableNumber,
		SpecialNote:   in.SpecialNote,
		PaymentMethod: in.PaymentMethod,
	})
	if err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}
	if !s.epoch.IsCurrent(start) {
		return "", querycache.ErrStale
	}

	s.logger.Info(ctx, "order placed", "store", storeID, "order", orderID)

	if err := s.cart.ClearCart(ctx, storeID); err != nil {
		return orderID, fmt.Errorf("%w: %w", ErrOrderNotCleared, err)
	}
	return orderID, nil
}

// stepUp prefers biometrics and falls back to the PIN when they are
// unavailable, not enrolled, dismissed or failing.
func (s *CheckoutService) stepUp(ctx context.Context, prompt PinPrompt) error {
	if s.bio.IsAvailable(ctx) {
		enrolled, err := s.bio.IsEnrolled(ctx)
		if err != nil {
			s.logger.Warn(ctx, "reading biometric enrollment failed", "error", err)
		}
		if enrolled {
			err := s.bio.Verify(ctx)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, biometric.ErrAlreadyInProgress):
				return err
			case errors.Is(err, biometric.ErrUserCancelled):
				s.logger.Debug(ctx, "step-up cancelled, asking for pin")
			default:
				s.logger.Warn(ctx, "biometric step-up failed, asking for pin", "error", err)
			}
		}
	}

	if prompt == nil {
		return ErrStepUpRequired
	}
	pin, err := prompt(ctx)
	if err != nil {
		return err
	}
	ok, err := s.creds.VerifyPin(ctx, pin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIncorrectPin
	}
	return nil
}
