package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/rpc"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const pingTimeout = 5 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.MarketplaceClient

	mu            sync.RWMutex
	identityToken string
}

var _ Backend = (*GRPCClient)(nil)

func withIdentityToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.IdentityTokenHeaderName)
	if token != "" {
		md.Set(common.IdentityTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) identityTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if !rpc.IsPublic(method) {
		ctx = withIdentityToken(ctx, s.token())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(s.identityTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewMarketplaceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) SetIdentityToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identityToken = token
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identityToken
}

func (s *GRPCClient) Login(ctx context.Context, name string) (string, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Name: name})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.IdentityToken, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) GetCallerUserProfile(ctx context.Context) (*models.UserProfile, error) {
	resp, err := s.client.GetCallerUserProfile(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Profile == nil {
		return nil, nil
	}
	p := profileFromRPC(*resp.Profile)
	return &p, nil
}

func (s *GRPCClient) SaveCallerUserProfile(ctx context.Context, p models.UserProfile) error {
	_, err := s.client.SaveCallerUserProfile(ctx, &rpc.SaveProfileRequest{Profile: profileToRPC(p)})
	return s.mapError(err)
}

func (s *GRPCClient) BootstrapSuperAdmin(ctx context.Context) error {
	_, err := s.client.BootstrapSuperAdmin(ctx, &rpc.Empty{})
	return s.mapError(err)
}

func (s *GRPCClient) HasAcceptedTerms(ctx context.Context, terms models.TermsType) (bool, error) {
	resp, err := s.client.HasAcceptedTerms(ctx, &rpc.TermsRequest{Terms: string(terms)})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Accepted, nil
}

func (s *GRPCClient) AcceptTerms(ctx context.Context, terms models.TermsType) error {
	_, err := s.client.AcceptTerms(ctx, &rpc.TermsRequest{Terms: string(terms)})
	return s.mapError(err)
}

func (s *GRPCClient) GetTermsContent(ctx context.Context, terms models.TermsType) (string, error) {
	resp, err := s.client.GetTermsContent(ctx, &rpc.TermsRequest{Terms: string(terms)})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Content, nil
}

func (s *GRPCClient) PlaceOrder(ctx context.Context, order models.Order) (string, error) {
	items := make([]rpc.OrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, rpc.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	req := &rpc.PlaceOrderRequest{
		StoreID:       order.StoreID,
		Items:         items,
		TableNumber:   order.TableNumber,
		SpecialNote:   order.SpecialNote,
		PaymentMethod: string(order.PaymentMethod),
	}

	resp, err := s.client.PlaceOrder(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.OrderID, nil
}

func (s *GRPCClient) FactoryReset(ctx context.Context) error {
	_, err := s.client.FactoryReset(ctx, &rpc.Empty{})
	return s.mapError(err)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return common.ErrForbidden
	case codes.NotFound:
		return common.ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func profileFromRPC(p rpc.Profile) models.UserProfile {
	return models.UserProfile{
		FullName:                p.FullName,
		PhoneNumber:             p.PhoneNumber,
		Email:                   p.Email,
		DateOfBirth:             p.DateOfBirth,
		Nationality:             p.Nationality,
		StateOfResidence:        p.StateOfResidence,
		Role:                    models.Role(p.Role),
		AcceptedCustomerTerms:   p.AcceptedCustomerTerms,
		AcceptedStoreOwnerTerms: p.AcceptedStoreOwnerTerms,
		IsSuspended:             p.IsSuspended,
	}
}

func profileToRPC(p models.UserProfile) rpc.Profile {
	return rpc.Profile{
		FullName:                p.FullName,
		PhoneNumber:             p.PhoneNumber,
		Email:                   p.Email,
		DateOfBirth:             p.DateOfBirth,
		Nationality:             p.Nationality,
		StateOfResidence:        p.StateOfResidence,
		Role:                    string(p.Role),
		AcceptedCustomerTerms:   p.AcceptedCustomerTerms,
		AcceptedStoreOwnerTerms: p.AcceptedStoreOwnerTerms,
		IsSuspended:             p.IsSuspended,
	}
}
