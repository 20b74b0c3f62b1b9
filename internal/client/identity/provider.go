// Package identity tracks who is signed in. The identity token is a JWT
// issued by the backend; the client only reads its subject and expiry and
// never verifies the signature, which is the server's job.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/primepost/internal/client/storage"
	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenKey holds the cached identity token in the persistent tier.
	TokenKey = "primepost_identity"
	// LastPrincipalKey remembers who signed in last, even after the token
	// has expired, so a different sign-in can drop the old session first.
	LastPrincipalKey = "primepost_last_principal"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoggingIn
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoggingIn:
		return "logging-in"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

type Identity struct {
	Principal string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now. A token
// without expiry never expires.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Authenticator is the part of the backend the provider needs.
type Authenticator interface {
	Login(ctx context.Context, name string) (string, error)
	SetIdentityToken(token string)
}

type Provider struct {
	backend Authenticator
	store   storage.Store
	logger  logging.Logger
	now     func() time.Time

	mu        sync.RWMutex
	current   *Identity
	last      string
	onSwitch  func(ctx context.Context, prev, next string)
	status    Status
	lastErr   error
	listeners map[int]func()
	nextID    int
}

func NewProvider(backend Authenticator, persistent storage.Store, logger logging.Logger) *Provider {
	return &Provider{
		backend:   backend,
		store:     persistent,
		logger:    logger.With("module", "identity"),
		now:       time.Now,
		listeners: map[int]func(){},
	}
}

// Parse reads principal and expiry from a token without verifying it.
func Parse(token string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	id := Identity{Principal: claims.Subject, Token: token}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// OnPrincipalChange registers fn to run when a login yields a principal
// other than the one signed in last. fn runs before the new identity is
// stored or published.
func (p *Provider) OnPrincipalChange(fn func(ctx context.Context, prev, next string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSwitch = fn
}

// Restore loads a cached token. A missing, malformed or expired token
// leaves the provider signed out; the stale entry is removed.
func (p *Provider) Restore(ctx context.Context) error {
	last, err := p.store.Get(ctx, LastPrincipalKey)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.last = string(last)
	p.mu.Unlock()

	raw, err := p.store.Get(ctx, TokenKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	id, err := Parse(string(raw))
	if err == nil && id.Expired(p.now()) {
		err = common.ErrTokenExpired
	}
	if err != nil {
		p.logger.Info(ctx, "discarding cached identity", "error", err)
		return p.store.Delete(ctx, TokenKey)
	}

	p.mu.Lock()
	p.last = id.Principal
	p.mu.Unlock()
	p.set(&id, StatusSuccess, nil)
	return nil
}

func (p *Provider) Login(ctx context.Context, name string) error {
	p.set(nil, StatusLoggingIn, nil)

	id, err := p.login(ctx, name)
	if err != nil {
		p.set(nil, StatusError, err)
		return err
	}

	p.set(&id, StatusSuccess, nil)
	p.logger.Info(ctx, "signed in", "principal", id.Principal)
	return nil
}

func (p *Provider) login(ctx context.Context, name string) (Identity, error) {
	token, err := p.backend.Login(ctx, name)
	if err != nil {
		return Identity{}, err
	}
	id, err := Parse(token)
	if err != nil {
		return Identity{}, err
	}
	if id.Expired(p.now()) {
		return Identity{}, common.ErrTokenExpired
	}

	p.mu.RLock()
	prev, onSwitch := p.last, p.onSwitch
	p.mu.RUnlock()
	if prev != "" && prev != id.Principal {
		p.logger.Info(ctx, "principal changed", "previous", prev, "principal", id.Principal)
		if onSwitch != nil {
			onSwitch(ctx, prev, id.Principal)
		}
	}

	if err := p.store.Set(ctx, TokenKey, []byte(token)); err != nil {
		return Identity{}, err
	}
	if err := p.store.Set(ctx, LastPrincipalKey, []byte(id.Principal)); err != nil {
		return Identity{}, err
	}
	p.mu.Lock()
	p.last = id.Principal
	p.mu.Unlock()
	return id, nil
}

// Clear signs out and forgets the last principal. In-memory state is
// dropped even when the cached entries cannot be deleted.
func (p *Provider) Clear(ctx context.Context) error {
	p.mu.Lock()
	p.last = ""
	p.mu.Unlock()
	p.set(nil, StatusIdle, nil)
	return errors.Join(
		p.store.Delete(ctx, TokenKey),
		p.store.Delete(ctx, LastPrincipalKey),
	)
}

// Current returns the signed-in identity, or nil. An identity whose token
// has expired counts as absent.
func (p *Provider) Current() *Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil || p.current.Expired(p.now()) {
		return nil
	}
	id := *p.current
	return &id
}

func (p *Provider) IsAuthenticated() bool {
	return p.Current() != nil
}

// IsLoading reports whether a login is in flight.
func (p *Provider) IsLoading() bool {
	return p.Status() == StatusLoggingIn
}

func (p *Provider) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Err returns the error of the last failed login.
func (p *Provider) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Subscribe registers fn to run after every identity change. fn must not
// call Subscribe or its unsubscribe func.
func (p *Provider) Subscribe(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *Provider) set(id *Identity, status Status, err error) {
	p.mu.Lock()
	p.current = id
	p.status = status
	p.lastErr = err
	fns := make([]func(), 0, len(p.listeners))
	for i := 0; i < p.nextID; i++ {
		if fn, ok := p.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	token := ""
	if id != nil {
		token = id.Token
	}
	p.backend.SetIdentityToken(token)

	for _, fn := range fns {
		fn()
	}
}

// IsAuthError reports whether err means the identity was rejected.
func IsAuthError(err error) bool {
	return errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired)
}
