// Package teardown wipes the client back to a signed-out state on logout and
// after a factory reset, and drops the previous session when a different
// principal signs in.
//
// Every step runs even when an earlier one fails or panics; failures are
// logged and collected in the returned Report. On logout and factory reset
// navigation home always runs last.
package teardown

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/primepost/internal/client/session"
	"github.com/dmitrijs2005/primepost/internal/client/storage"
	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/logging"
)

const (
	StepAdvanceEpoch     = "advance_epoch"
	StepClearIdentity    = "clear_identity"
	StepClearQueryCache  = "clear_query_cache"
	StepClearUnlock      = "clear_unlock"
	StepClearCart        = "clear_cart"
	StepResetOffer       = "reset_biometric_offer"
	StepClearPin         = "clear_pin"
	StepClearEnrollment  = "clear_biometric_enrollment"
	StepDeleteNamespaced = "delete_app_keys"
	StepNavigateHome     = "navigate_home"
)

type Navigator interface {
	// ReplaceHome navigates to the public home, replacing history so back
	// navigation cannot return to an authenticated screen.
	ReplaceHome(ctx context.Context) error
}

type Identity interface {
	Clear(ctx context.Context) error
}

type QueryCache interface {
	Clear()
}

type Credentials interface {
	Lock(ctx context.Context) error
	ClearPin(ctx context.Context) error
	ClearEnrollment(ctx context.Context) error
}

type Cart interface {
	ClearAll(ctx context.Context) error
}

type OfferTracker interface {
	Reset()
}

type Deps struct {
	Epoch       *session.Epoch
	Identity    Identity
	QueryCache  QueryCache
	Credentials Credentials
	Cart        Cart
	Offers      OfferTracker
	Persistent  storage.Store
	Navigator   Navigator
	Logger      logging.Logger
	// DeviceKeys survive logout: they secure the device, not the identity.
	DeviceKeys []string
}

type Manager struct {
	deps   Deps
	logger logging.Logger
}

func NewManager(d Deps) *Manager {
	return &Manager{deps: d, logger: d.Logger.With("module", "teardown")}
}

// Report lists the steps that failed, in execution order.
type Report struct {
	Failed []string
}

func (r Report) OK() bool {
	return len(r.Failed) == 0
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

// PerformLogout ends the session. The local PIN and biometric enrollment
// survive, listed in Deps.DeviceKeys.
func (m *Manager) PerformLogout(ctx context.Context) Report {
	steps := m.sessionSteps()
	steps = append(steps,
		step{StepDeleteNamespaced, m.deleteSessionKeys},
		step{StepNavigateHome, m.deps.Navigator.ReplaceHome},
	)
	return m.run(ctx, "logout", steps)
}

// PerformFactoryResetCleanup runs after the backend confirmed a factory
// reset and also forgets the PIN and biometric enrollment.
func (m *Manager) PerformFactoryResetCleanup(ctx context.Context) Report {
	steps := m.sessionSteps()
	steps = append(steps,
		step{StepClearPin, m.deps.Credentials.ClearPin},
		step{StepClearEnrollment, m.deps.Credentials.ClearEnrollment},
		step{StepDeleteNamespaced, m.deleteNamespaced},
		step{StepNavigateHome, m.deps.Navigator.ReplaceHome},
	)
	return m.run(ctx, "factory_reset", steps)
}

// ResetSession drops the previous principal's session data while a
// different principal signs in. The identity itself is left to the caller
// and no navigation happens.
func (m *Manager) ResetSession(ctx context.Context) Report {
	steps := append([]step{m.advanceEpoch()}, m.localSteps()...)
	steps = append(steps, step{StepDeleteNamespaced, m.deleteSessionKeys})
	return m.run(ctx, "principal_change", steps)
}

func (m *Manager) sessionSteps() []step {
	steps := []step{m.advanceEpoch(), {StepClearIdentity, m.deps.Identity.Clear}}
	return append(steps, m.localSteps()...)
}

func (m *Manager) advanceEpoch() step {
	return step{StepAdvanceEpoch, func(context.Context) error {
		m.deps.Epoch.Increment()
		return nil
	}}
}

// localSteps clear what the client holds for the signed-in principal.
func (m *Manager) localSteps() []step {
	return []step{
		{StepClearQueryCache, func(context.Context) error {
			m.deps.QueryCache.Clear()
			return nil
		}},
		{StepClearUnlock, m.deps.Credentials.Lock},
		{StepClearCart, m.deps.Cart.ClearAll},
		{StepResetOffer, func(context.Context) error {
			m.deps.Offers.Reset()
			return nil
		}},
	}
}

// deleteSessionKeys removes every namespaced key except DeviceKeys. Each
// key is deleted on its own so one failure does not keep the rest.
func (m *Manager) deleteSessionKeys(ctx context.Context) error {
	keys, err := m.deps.Persistent.Keys(ctx)
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(m.deps.DeviceKeys))
	for _, k := range m.deps.DeviceKeys {
		keep[k] = true
	}

	var errs []error
	for _, k := range keys {
		if !strings.HasPrefix(k, common.KeyNamespace) || keep[k] {
			continue
		}
		if err := m.deps.Persistent.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) deleteNamespaced(ctx context.Context) error {
	n, err := m.deps.Persistent.DeletePrefix(ctx, common.KeyNamespace)
	if err != nil {
		return err
	}
	m.logger.Debug(ctx, "deleted app keys", "count", n)
	return nil
}

func (m *Manager) run(ctx context.Context, op string, steps []step) Report {
	var r Report
	for _, s := range steps {
		if err := guard(ctx, s); err != nil {
			m.logger.Warn(ctx, "teardown step failed", "op", op, "step", s.name, "error", err)
			r.Failed = append(r.Failed, s.name)
		}
	}
	if r.OK() {
		m.logger.Info(ctx, "teardown complete", "op", op)
	}
	return r
}

func guard(ctx context.Context, s step) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return s.run(ctx)
}
