// Package grpc serves the Marketplace service of the development backend.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/dmitrijs2005/primepost/internal/rpc"
	"github.com/dmitrijs2005/primepost/internal/server/marketplace"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// Marketplace is the state the handlers read and change on behalf of the
// authenticated caller.
type Marketplace interface {
	Profile(ctx context.Context, principal string) (marketplace.Profile, error)
	SaveProfile(ctx context.Context, principal string, p marketplace.Profile) error
	BootstrapSuperAdmin(ctx context.Context, principal string) error
	HasAcceptedTerms(ctx context.Context, principal, terms string) (bool, error)
	AcceptTerms(ctx context.Context, principal, terms string) error
	TermsContent(ctx context.Context, terms string) (string, error)
	PlaceOrder(ctx context.Context, principal string, o marketplace.Order) (string, error)
	FactoryReset(ctx context.Context, principal string) error
}

type GRPCServer struct {
	rpc.UnimplementedMarketplaceServer
	address   string
	market    Marketplace
	logger    logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

var _ rpc.MarketplaceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, m Marketplace, secretKey string, tokenTTL time.Duration) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		market:    m,
		jwtSecret: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.identityTokenInterceptor),
	)
	rpc.RegisterMarketplaceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
