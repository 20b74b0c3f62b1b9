// Package services is the PrimePost client's application layer. It combines
// identity, the backend, local credentials and session state into the
// operations the CLI exposes:
//
//   - AccessService: gate and route decisions, profile setup, terms.
//   - UnlockFlow: PIN setup and unlock with an optional biometric attempt.
//   - CheckoutService: step-up verification and order placement.
//   - AdminService: factory reset.
//
// Remote reads go through the query cache so that a logout, which advances
// the session epoch, discards any response still in flight.
package services
