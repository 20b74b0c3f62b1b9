package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/rpc"
	"github.com/dmitrijs2005/primepost/internal/server/auth"
	"github.com/dmitrijs2005/primepost/internal/server/marketplace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) caller(ctx context.Context) (string, error) {
	p, ok := principalFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return p, nil
}

// Login is the development identity provider: any non-empty name becomes
// the principal of a freshly signed token.
func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	token, err := auth.GenerateToken(name, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Logged in", "principal", name)
	return &rpc.LoginResponse{IdentityToken: token}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) GetCallerUserProfile(ctx context.Context, _ *rpc.Empty) (*rpc.GetProfileResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.market.Profile(ctx, principal)
	if errors.Is(err, common.ErrNotFound) {
		return &rpc.GetProfileResponse{}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}

	out := profileToRPC(p)
	return &rpc.GetProfileResponse{Profile: &out}, nil
}

func (s *GRPCServer) SaveCallerUserProfile(ctx context.Context, req *rpc.SaveProfileRequest) (*rpc.Empty, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.market.SaveProfile(ctx, principal, profileFromRPC(req.Profile)); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) BootstrapSuperAdmin(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.market.BootstrapSuperAdmin(ctx, principal); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) HasAcceptedTerms(ctx context.Context, req *rpc.TermsRequest) (*rpc.HasAcceptedTermsResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := s.market.HasAcceptedTerms(ctx, principal, req.Terms)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.HasAcceptedTermsResponse{Accepted: ok}, nil
}

func (s *GRPCServer) AcceptTerms(ctx context.Context, req *rpc.TermsRequest) (*rpc.Empty, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.market.AcceptTerms(ctx, principal, req.Terms); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetTermsContent(ctx context.Context, req *rpc.TermsRequest) (*rpc.TermsContentResponse, error) {
	if _, err := s.caller(ctx); err != nil {
		return nil, err
	}
	text, err := s.market.TermsContent(ctx, req.Terms)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.TermsContentResponse{Content: text}, nil
}

func (s *GRPCServer) PlaceOrder(ctx context.Context, req *rpc.PlaceOrderRequest) (*rpc.PlaceOrderResponse, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	o := marketplace.Order{
		StoreID:       req.StoreID,
		TableNumber:   req.TableNumber,
		SpecialNote:   req.SpecialNote,
		PaymentMethod: req.PaymentMethod,
	}
	for _, it := range req.Items {
		o.Items = append(o.Items, marketplace.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	id, err := s.market.PlaceOrder(ctx, principal, o)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.PlaceOrderResponse{OrderID: id}, nil
}

func (s *GRPCServer) FactoryReset(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	principal, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.market.FactoryReset(ctx, principal); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.Empty{}, nil
}

func profileToRPC(p marketplace.Profile) rpc.Profile {
	return rpc.Profile{
		FullName:                p.FullName,
		PhoneNumber:             p.PhoneNumber,
		Email:                   p.Email,
		DateOfBirth:             p.DateOfBirth,
		Nationality:             p.Nationality,
		StateOfResidence:        p.StateOfResidence,
		Role:                    p.Role,
		AcceptedCustomerTerms:   p.AcceptedCustomerTerms,
		AcceptedStoreOwnerTerms: p.AcceptedStoreOwnerTerms,
		IsSuspended:             p.IsSuspended,
	}
}

func profileFromRPC(p rpc.Profile) marketplace.Profile {
	return marketplace.Profile{
		FullName:                p.FullName,
		PhoneNumber:             p.PhoneNumber,
		Email:                   p.Email,
		DateOfBirth:             p.DateOfBirth,
		Nationality:             p.Nationality,
		StateOfResidence:        p.StateOfResidence,
		Role:                    p.Role,
		AcceptedCustomerTerms:   p.AcceptedCustomerTerms,
		AcceptedStoreOwnerTerms: p.AcceptedStoreOwnerTerms,
		IsSuspended:             p.IsSuspended,
	}
}
