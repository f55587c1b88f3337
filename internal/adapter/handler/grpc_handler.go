package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/core/service"
)

const catalogServiceName = "axion.catalog.v1.CatalogService"

type ListProductsRequest struct {
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`
}

type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type AddProductRPCRequest struct {
	Product domain.Product `json:"product"`
}

type AddProductRPCResponse struct {
	Product domain.Product `json:"product"`
}

type GetStateRequest struct{}

type GetStateResponse struct {
	State service.State      `json:"state"`
	Sync  service.SyncStatus `json:"sync"`
}

// CatalogService is the RPC surface over the workspace.
type CatalogService interface {
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	AddProduct(context.Context, *AddProductRPCRequest) (*AddProductRPCResponse, error)
	GetState(context.Context, *GetStateRequest) (*GetStateResponse, error)
}

type GRPCHandler struct {
	app *service.App
}

func NewGRPCHandler(app *service.App) *GRPCHandler {
	return &GRPCHandler{app: app}
}

// Register attaches the catalog service to s.
func (h *GRPCHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&catalogServiceDesc, h)
}

func (h *GRPCHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	products, err := h.app.FilterProducts(req.Query, req.Category)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListProductsResponse{Products: products}, nil
}

func (h *GRPCHandler) AddProduct(ctx context.Context, req *AddProductRPCRequest) (*AddProductRPCResponse, error) {
	product := req.Product
	if err := validateStruct(AddProductRequest{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Description: product.Description,
	}); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := h.app.AddProduct(product); err != nil {
		return nil, toStatus(err)
	}
	return &AddProductRPCResponse{Product: product}, nil
}

func (h *GRPCHandler) GetState(ctx context.Context, req *GetStateRequest) (*GetStateResponse, error) {
	return &GetStateResponse{State: h.app.State(), Sync: h.app.SyncStatus()}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownView):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*CatalogService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListProducts",
			Handler: unaryHandler("ListProducts", func(srv CatalogService, ctx context.Context, req *ListProductsRequest) (any, error) {
				return srv.ListProducts(ctx, req)
			}),
		},
		{
			MethodName: "AddProduct",
			Handler: unaryHandler("AddProduct", func(srv CatalogService, ctx context.Context, req *AddProductRPCRequest) (any, error) {
				return srv.AddProduct(ctx, req)
			}),
		},
		{
			MethodName: "GetState",
			Handler: unaryHandler("GetState", func(srv CatalogService, ctx context.Context, req *GetStateRequest) (any, error) {
				return srv.GetState(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog",
}

// unaryHandler adapts a typed call into a grpc.MethodHandler, routing it
// through the server interceptor when one is installed.
func unaryHandler[Req any](method string, call func(CatalogService, context.Context, *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + catalogServiceName + "/" + method

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogService), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogService), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
