// Package common contains constants and sentinel errors shared by the
// PrimePost client and the development backend.
package common

const (
	// IdentityTokenHeaderName is the gRPC metadata key carrying the caller's
	// identity token.
	IdentityTokenHeaderName = "identity_token"

	// KeyNamespace prefixes every device-local key owned by the app.
	KeyNamespace = "primepost"

	// FactoryResetPhrase must be typed verbatim to confirm a factory reset.
	FactoryResetPhrase = "RESET ALL DATA"
)
