// Package rpc describes the PrimePost Marketplace gRPC service shared by the
// client and the development backend: message types, the service
// descriptor, a typed client stub and the JSON wire codec.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "primepost.v1.Marketplace"

// Public methods are callable without an identity token.
var publicMethods = map[string]bool{
	FullMethod("Login"): true,
	FullMethod("Ping"):  true,
}

func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func IsPublic(fullMethod string) bool {
	return publicMethods[fullMethod]
}

type MarketplaceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	GetCallerUserProfile(context.Context, *Empty) (*GetProfileResponse, error)
	SaveCallerUserProfile(context.Context, *SaveProfileRequest) (*Empty, error)
	BootstrapSuperAdmin(context.Context, *Empty) (*Empty, error)
	HasAcceptedTerms(context.Context, *TermsRequest) (*HasAcceptedTermsResponse, error)
	AcceptTerms(context.Context, *TermsRequest) (*Empty, error)
	GetTermsContent(context.Context, *TermsRequest) (*TermsContentResponse, error)
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error)
	FactoryReset(context.Context, *Empty) (*Empty, error)
}

// UnimplementedMarketplaceServer answers every call with codes.Unimplemented.
// Embed it to implement a subset of the service.
type UnimplementedMarketplaceServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedMarketplaceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedMarketplaceServer) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedMarketplaceServer) GetCallerUserProfile(context.Context, *Empty) (*GetProfileResponse, error) {
	return nil, unimplemented("GetCallerUserProfile")
}
func (UnimplementedMarketplaceServer) SaveCallerUserProfile(context.Context, *SaveProfileRequest) (*Empty, error) {
	return nil, unimplemented("SaveCallerUserProfile")
}
func (UnimplementedMarketplaceServer) BootstrapSuperAdmin(context.Context, *Empty) (*Empty, error) {
	return nil, unimplemented("BootstrapSuperAdmin")
}
func (UnimplementedMarketplaceServer) HasAcceptedTerms(context.Context, *TermsRequest) (*HasAcceptedTermsResponse, error) {
	return nil, unimplemented("HasAcceptedTerms")
}
func (UnimplementedMarketplaceServer) AcceptTerms(context.Context, *TermsRequest) (*Empty, error) {
	return nil, unimplemented("AcceptTerms")
}
func (UnimplementedMarketplaceServer) GetTermsContent(context.Context, *TermsRequest) (*TermsContentResponse, error) {
	return nil, unimplemented("GetTermsContent")
}
func (UnimplementedMarketplaceServer) PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	return nil, unimplemented("PlaceOrder")
}
func (UnimplementedMarketplaceServer) FactoryReset(context.Context, *Empty) (*Empty, error) {
	return nil, unimplemented("FactoryReset")
}

func unary[Req, Resp any](name string, call func(MarketplaceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(MarketplaceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var MarketplaceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", MarketplaceServer.Login),
		unary("Ping", MarketplaceServer.Ping),
		unary("GetCallerUserProfile", MarketplaceServer.GetCallerUserProfile),
		unary("SaveCallerUserProfile", MarketplaceServer.SaveCallerUserProfile),
		unary("BootstrapSuperAdmin", MarketplaceServer.BootstrapSuperAdmin),
		unary("HasAcceptedTerms", MarketplaceServer.HasAcceptedTerms),
		unary("AcceptTerms", MarketplaceServer.AcceptTerms),
		unary("GetTermsContent", MarketplaceServer.GetTermsContent),
		unary("PlaceOrder", MarketplaceServer.PlaceOrder),
		unary("FactoryReset", MarketplaceServer.FactoryReset),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "primepost/v1/marketplace",
}

func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&MarketplaceServiceDesc, srv)
}

type MarketplaceClient interface {
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetCallerUserProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetProfileResponse, error)
	SaveCallerUserProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*Empty, error)
	BootstrapSuperAdmin(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	HasAcceptedTerms(ctx context.Context, in *TermsRequest, opts ...grpc.CallOption) (*HasAcceptedTermsResponse, error)
	AcceptTerms(ctx context.Context, in *TermsRequest, opts ...grpc.CallOption) (*Empty, error)
	GetTermsContent(ctx context.Context, in *TermsRequest, opts ...grpc.CallOption) (*TermsContentResponse, error)
	PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error)
	FactoryReset(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
}

type marketplaceClient struct {
	cc grpc.ClientConnInterface
}

func NewMarketplaceClient(cc grpc.ClientConnInterface) MarketplaceClient {
	return &marketplaceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", in, opts)
}

func (c *marketplaceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, "Ping", in, opts)
}

func (c *marketplaceClient) GetCallerUserProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, "GetCallerUserProfile", in, opts)
}

func (c *marketplaceClient) SaveCallerUserProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SaveCallerUserProfile", in, opts)
}

func (c *marketplaceClient) BootstrapSuperAdmin(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "BootstrapSuperAdmin", in, opts)
}

func (c *marketplaceClient) HasAcceptedTerms(ctx context.Context, in *TermsRequest, opts ...grpc.CallOption) (*HasAcceptedTermsResponse, error) {
	return invoke[HasAcceptedTermsResponse](ctx, c.cc, "HasAcceptedTerms", in, opts)
}

func (c *marketplaceClient) AcceptTerms(ctx context.Context, in *TermsRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "AcceptTerms", in, opts)
}

func (c *marketplaceClient) GetTermsContent(ctx context.Context, in *TermsRequest, opts ...grpc.CallOption) (*TermsContentResponse, error) {
	return invoke[TermsContentResponse](ctx, c.cc, "GetTermsContent", in, opts)
}

func (c *marketplaceClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	return invoke[PlaceOrderResponse](ctx, c.cc, "PlaceOrder", in, opts)
}

func (c *marketplaceClient) FactoryReset(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "FactoryReset", in, opts)
}
