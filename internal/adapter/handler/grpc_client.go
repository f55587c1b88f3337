package handler

import (
	"context"

	"google.golang.org/grpc"
)

// CatalogClient calls the catalog service over an existing connection.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	out := new(ListProductsResponse)
	if err := c.invoke(ctx, "ListProducts", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) AddProduct(ctx context.Context, req *AddProductRPCRequest) (*AddProductRPCResponse, error) {
	out := new(AddProductRPCResponse)
	if err := c.invoke(ctx, "AddProduct", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) GetState(ctx context.Context, req *GetStateRequest) (*GetStateResponse, error) {
	out := new(GetStateResponse)
	if err := c.invoke(ctx, "GetState", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) invoke(ctx context.Context, method string, in, out any) error {
	return c.cc.Invoke(ctx, "/"+catalogServiceName+"/"+method, in, out, grpc.CallContentSubtype(jsonCodecName))
}
