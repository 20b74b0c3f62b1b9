package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/primepost/internal/client/biometric"
	"github.com/dmitrijs2005/primepost/internal/client/cart"
	"github.com/dmitrijs2005/primepost/internal/client/client"
	"github.com/dmitrijs2005/primepost/internal/client/config"
	"github.com/dmitrijs2005/primepost/internal/client/credentials"
	"github.com/dmitrijs2005/primepost/internal/client/gate"
	"github.com/dmitrijs2005/primepost/internal/client/identity"
	"github.com/dmitrijs2005/primepost/internal/client/querycache"
	"github.com/dmitrijs2005/primepost/internal/client/services"
	"github.com/dmitrijs2005/primepost/internal/client/session"
	"github.com/dmitrijs2005/primepost/internal/client/storage"
	"github.com/dmitrijs2005/primepost/internal/client/teardown"
	"github.com/dmitrijs2005/primepost/internal/cryptox"
	"github.com/dmitrijs2005/primepost/internal/filex"
	"github.com/dmitrijs2005/primepost/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const dbFileName = "primepost.db"

// Deps are the pieces of an App that differ between a real terminal session
// and a test.
type Deps struct {
	Config     *config.Config
	Backend    client.Backend
	Persistent storage.Store
	Ephemeral  storage.Store
	Hasher     cryptox.PinHasher
	Capability biometric.Capability
	// Authenticator defaults to a terminal confirmation prompt.
	Authenticator biometric.Authenticator
	Logger        logging.Logger
	In            io.Reader
	Out           io.Writer
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend client.Backend
	closers []func() error

	epoch    *session.Epoch
	state    *session.State
	cache    *querycache.Cache
	creds    *credentials.Store
	cart     *cart.Store
	bio      *biometric.Gateway
	offers   *gate.OfferTracker
	identity *identity.Provider

	access   *services.AccessService
	unlock   *services.UnlockFlow
	checkout *services.CheckoutService
	admin    *services.AdminService
	teardown *teardown.Manager

	pinSetup gate.PinEntry

	modeMu sync.RWMutex
	mode   Mode

	reader *bufio.Reader
	out    io.Writer

	// readPin reads a PIN for prompts; tests replace it.
	readPin func(prompt string) ([]byte, error)
}

// NewApp opens local storage under cfg.DataDir, connects to the backend and
// assembles the client.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := storage.OpenSQLite(ctx, filepath.Join(dir, dbFileName))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	hasher, err := cryptox.NewPinHasher(cfg.PinHashScheme)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(cfg.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var capability biometric.Capability = biometric.Unavailable{}
	if cfg.BiometricMode == config.BiometricPrompt {
		capability = biometric.Available{}
	}

	app, err := Assemble(ctx, Deps{
		Config:     cfg,
		Backend:    apiClient,
		Persistent: db,
		Ephemeral:  storage.NewMemoryStore(),
		Hasher:     hasher,
		Capability: capability,
		Logger:     logger,
		In:         os.Stdin,
		Out:        os.Stdout,
	})
	if err != nil {
		_ = apiClient.Close()
		_ = db.Close()
		return nil, err
	}
	app.closers = append(app.closers, db.Close)
	return app, nil
}

// Assemble wires the client from d and restores persisted state: the PIN
// record, the cart and a cached identity.
func Assemble(ctx context.Context, d Deps) (*App, error) {
	a := &App{
		config:  d.Config,
		logger:  d.Logger,
		backend: d.Backend,
		closers: []func() error{d.Backend.Close},
		epoch:   &session.Epoch{},
		state:   session.NewState(),
		offers:  &gate.OfferTracker{},
		reader:  bufio.NewReader(d.In),
		out:     d.Out,
	}
	a.readPin = func(prompt string) ([]byte, error) {
		return GetPin(a.reader, prompt, a.out)
	}

	a.cache = querycache.New(a.epoch)
	a.creds = credentials.New(d.Persistent, d.Ephemeral, a.state, d.Hasher)
	if err := a.creds.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore credentials: %w", err)
	}

	c, err := cart.Load(ctx, d.Persistent)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	a.cart = c

	auth := d.Authenticator
	if auth == nil {
		auth = &terminalAuthenticator{app: a}
	}
	a.bio = biometric.NewGateway(d.Capability, auth, a.creds, biometric.Config{
		RelyingPartyID:   d.Config.RelyingPartyID,
		RelyingPartyName: d.Config.RelyingPartyName,
		Timeout:          d.Config.BiometricTimeout,
	}, d.Logger)

	a.identity = identity.NewProvider(d.Backend, d.Persistent, d.Logger)
	if err := a.identity.Restore(ctx); err != nil {
		d.Logger.Warn(ctx, "cached identity could not be restored", "error", err)
	}

	a.access = services.NewAccessService(d.Backend, a.identity, a.cache, a.state, a.bio, a.offers, d.Logger)
	a.unlock = services.NewUnlockFlow(a.creds, a.bio, a.offers, d.Logger)
	a.checkout = services.NewCheckoutService(d.Backend, a.cart, a.creds, a.bio, a.epoch, a.cache, d.Logger)

	a.teardown = teardown.NewManager(teardown.Deps{
		Epoch:       a.epoch,
		Identity:    a.identity,
		QueryCache:  a.cache,
		Credentials: a.creds,
		Cart:        a.cart,
		Offers:      a.unlock,
		Persistent:  d.Persistent,
		Navigator:   a,
		Logger:      d.Logger,
		DeviceKeys: []string{
			credentials.KeyPinHash,
			credentials.KeyBiometricEnabled,
			credentials.KeyCredentialID,
		},
	})
	a.identity.OnPrincipalChange(func(ctx context.Context, _, _ string) {
		a.teardown.ResetSession(ctx)
	})
	a.admin = services.NewAdminService(d.Backend, a.teardown, d.Logger)

	return a, nil
}

// Run starts the connectivity watcher and blocks in the REPL until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to PrimePost (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

// ReplaceHome is the navigation target of every teardown: drop any half
// finished prompt state and show the signed-out home screen.
func (a *App) ReplaceHome(ctx context.Context) error {
	a.pinSetup.Reset()
	a.println("Signed out. Type 'login' to sign in.")
	return nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// connectivity mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.backend.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) getStatus() string {
	s := ""
	if id := a.identity.Current(); id != nil {
		s = id.Principal + " "
	}
	if a.creds.IsUnlocked() {
		s += "unlocked "
	} else if a.state.Snapshot().PinSet {
		s += "locked "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}
