package handler

import (
	"context"

	"google.golang.org/grpc"
)

const InventoryServiceName = "wine.inventory.v1.InventoryService"

type DeleteRequest struct {
	ID         string `json:"id"`
	ModifiedBy string `json:"modified_by"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type MoveStockRequest struct {
	ID         string `json:"id"`
	Quantity   int    `json:"quantity"`
	ModifiedBy string `json:"modified_by"`
}

type WineResponse struct {
	Wine WineDTO `json:"wine"`
}

type ListWinesRequest struct{}

type ListWinesResponse struct {
	Wines []WineDTO `json:"wines"`
}

type ListHistoriesRequest struct {
	Query HistoryQuery `json:"query"`
}

type ListHistoriesResponse struct {
	Histories []HistoryDTO `json:"histories"`
}

type InventoryServiceServer interface {
	Register(context.Context, *RegisterWineRequest) (*WineResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	Store(context.Context, *MoveStockRequest) (*WineResponse, error)
	Retrieve(context.Context, *MoveStockRequest) (*WineResponse, error)
	ListWines(context.Context, *ListWinesRequest) (*ListWinesResponse, error)
	ListHistories(context.Context, *ListHistoriesRequest) (*ListHistoriesResponse, error)
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, call func(InventoryServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + InventoryServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler("Register", InventoryServiceServer.Register)},
		{MethodName: "Delete", Handler: unaryHandler("Delete", InventoryServiceServer.Delete)},
		{MethodName: "Store", Handler: unaryHandler("Store", InventoryServiceServer.Store)},
		{MethodName: "Retrieve", Handler: unaryHandler("Retrieve", InventoryServiceServer.Retrieve)},
		{MethodName: "ListWines", Handler: unaryHandler("ListWines", InventoryServiceServer.ListWines)},
		{MethodName: "ListHistories", Handler: unaryHandler("ListHistories", InventoryServiceServer.ListHistories)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wine/inventory/v1/inventory.json",
}

// InventoryServiceClient calls the inventory service with the JSON codec.
type InventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) *InventoryServiceClient {
	return &InventoryServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+InventoryServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *InventoryServiceClient) Register(ctx context.Context, in *RegisterWineRequest, opts ...grpc.CallOption) (*WineResponse, error) {
	return invoke[WineResponse](ctx, c.cc, "Register", in, opts...)
}

func (c *InventoryServiceClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, "Delete", in, opts...)
}

func (c *InventoryServiceClient) Store(ctx context.Context, in *MoveStockRequest, opts ...grpc.CallOption) (*WineResponse, error) {
	return invoke[WineResponse](ctx, c.cc, "Store", in, opts...)
}

func (c *InventoryServiceClient) Retrieve(ctx context.Context, in *MoveStockRequest, opts ...grpc.CallOption) (*WineResponse, error) {
	return invoke[WineResponse](ctx, c.cc, "Retrieve", in, opts...)
}

func (c *InventoryServiceClient) ListWines(ctx context.Context, in *ListWinesRequest, opts ...grpc.CallOption) (*ListWinesResponse, error) {
	return invoke[ListWinesResponse](ctx, c.cc, "ListWines", in, opts...)
}

func (c *InventoryServiceClient) ListHistories(ctx context.Context, in *ListHistoriesRequest, opts ...grpc.CallOption) (*ListHistoriesResponse, error) {
	return invoke[ListHistoriesResponse](ctx, c.cc, "ListHistories", in, opts...)
}
