// Package cli provides the interactive PrimePost command-line client.
//
// It wires configuration, local storage, the backend client, the session
// services and an interactive REPL. Before every prompt the REPL walks the
// user through whatever gate is pending: profile setup, PIN setup, unlock
// or the one-time biometric offer. Protected commands stay refused until
// no gate is left.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See Assemble, StartOnlineStatusWatcher, and runREPL for details.
package cli
