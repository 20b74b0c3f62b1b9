package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/primepost/internal/client/client"
	"github.com/dmitrijs2005/primepost/internal/client/identity"
	"github.com/dmitrijs2005/primepost/internal/client/querycache"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	resolveGate(ctx context.Context) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Lock(ctx context.Context) error
	Terms(ctx context.Context, args []string) error
	Route(ctx context.Context, args []string) error
	Cart(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Checkout(ctx context.Context, args []string) error
	Biometric(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the PrimePost CLI.
//
// Before every prompt the pending gates (profile setup, PIN setup, unlock,
// biometric offer) are resolved; an unfinished gate keeps coming back until
// it is completed or the user logs out. The loop exits on EOF, on "exit" or
// "quit", or when ctx is cancelled.
//
//	Not logged in:
//	  - help                 show available commands
//	  - login [name]         sign in
//	  - route <path>         check whether a page may open
//	  - exit | quit          leave the program
//
//	Logged in:
//	  - status               identity, profile, PIN and biometric state
//	  - lock                 lock the session
//	  - terms <type>         read and accept terms
//	  - cart                 show the cart
//	  - add ... / remove ... edit the cart
//	  - checkout <store>     place an order
//	  - biometric            enable biometric unlock
//	  - reset                factory reset (super admin)
//	  - logout               sign out
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := a.resolveGate(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			printlnFn("Error:", describeError(err))
		}

		printlnFn(fmt.Sprintf("pp %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, lock, terms, route, cart, add, remove, checkout, biometric, reset, logout, exit")
			} else {
				printlnFn("Available commands: login, route, status, exit")
			}

		case "login":
			err = a.Login(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "status":
			err = a.Status(ctx)

		case "lock":
			err = a.Lock(ctx)

		case "terms":
			err = a.Terms(ctx, args)

		case "route":
			err = a.Route(ctx, args)

		case "cart":
			err = a.Cart(ctx)

		case "add":
			err = a.Add(ctx, args)

		case "remove":
			err = a.Remove(ctx, args)

		case "checkout":
			err = a.Checkout(ctx, args)

		case "biometric":
			err = a.Biometric(ctx)

		case "reset":
			err = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			printlnFn("Error:", describeError(err))
		}
	}
}

// describeError turns service errors into something a user can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "service unavailable, check your connection and try again"
	case errors.Is(err, querycache.ErrStale):
		return "your session changed, the request was discarded"
	case identity.IsAuthError(err):
		return "your sign-in is no longer valid, type 'logout' and sign in again"
	default:
		return err.Error()
	}
}
