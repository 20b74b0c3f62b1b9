package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/dmitrijs2005/primepost/internal/rpc"
	"github.com/dmitrijs2005/primepost/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testSecret = "secret"

func newTestServer(m Marketplace) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), m, testSecret, time.Hour)
}

func withToken(t *testing.T, principal string, ttl time.Duration) context.Context {
	t.Helper()
	token, err := auth.GenerateToken(principal, []byte(testSecret), ttl)
	require.NoError(t, err)
	md := metadata.Pairs(common.IdentityTokenHeaderName, token)
	return metadata.NewIncomingContext(context.Background(), md)
}

func callInterceptor(s *GRPCServer, ctx context.Context, method string) (string, error) {
	info := &grpc.UnaryServerInfo{FullMethod: method}
	var seen string
	_, err := s.identityTokenInterceptor(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		seen, _ = principalFromContext(ctx)
		return "ok", nil
	})
	return seen, err
}

func TestInterceptor_PublicMethodsSkipToken(t *testing.T) {
	s := newTestServer(nil)

	for _, m := range []string{rpc.FullMethod("Login"), rpc.FullMethod("Ping")} {
		principal, err := callInterceptor(s, context.Background(), m)
		require.NoError(t, err, m)
		assert.Empty(t, principal)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer(nil)

	_, err := callInterceptor(s, context.Background(), rpc.FullMethod("GetCallerUserProfile"))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer(nil)
	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs(common.IdentityTokenHeaderName, "not-a-valid-jwt"))

	_, err := callInterceptor(s, ctx, rpc.FullMethod("PlaceOrder"))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "invalid token", status.Convert(err).Message())
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s := newTestServer(nil)

	_, err := callInterceptor(s, withToken(t, "ada", -time.Minute), rpc.FullMethod("PlaceOrder"))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "token expired", status.Convert(err).Message())
}

func TestInterceptor_PutsPrincipalInContext(t *testing.T) {
	s := newTestServer(nil)

	principal, err := callInterceptor(s, withToken(t, "ada", time.Hour), rpc.FullMethod("AcceptTerms"))
	require.NoError(t, err)
	assert.Equal(t, "ada", principal)
}
