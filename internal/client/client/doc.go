// Package client talks to the PrimePost backend.
//
// # Overview
//
// Backend is the transport-agnostic contract the rest of the client codes
// against: identity login, profile read and write, super-admin bootstrap,
// terms acceptance and content, order placement, factory reset and a
// liveness Ping. GRPCClient implements it over the Marketplace gRPC service
// described in internal/rpc.
//
// # Identity
//
// The identity token set with SetIdentityToken is attached to every call as
// gRPC metadata by a unary interceptor. An empty token sends no header, so
// the server treats the caller as anonymous.
//
// # Error Handling
//
// gRPC status codes are mapped to sentinel errors callers can match with
// errors.Is:
//
//   - Unauthenticated:               ErrUnauthorized
//   - PermissionDenied:              common.ErrForbidden
//   - NotFound:                      common.ErrNotFound
//   - InvalidArgument:               common.ErrInvalidArgument
//   - Unavailable, DeadlineExceeded: ErrUnavailable
//
// Anything else is wrapped as "rpc error: ...".
package client
