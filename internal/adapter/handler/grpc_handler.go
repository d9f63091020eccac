package handler

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/wine-inventory/internal/core/domain"
	"github.com/rl1809/wine-inventory/internal/core/service"
)

// StockLeftTrailer is set on FailedPrecondition responses for retrieves that
// exceed the current stock.
const StockLeftTrailer = "stock-left"

type GRPCHandler struct {
	inventory *service.InventoryService
	logger    logrus.FieldLogger
}

var _ InventoryServiceServer = (*GRPCHandler)(nil)

func NewGRPCHandler(inventory *service.InventoryService, logger logrus.FieldLogger) *GRPCHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GRPCHandler{inventory: inventory, logger: logger}
}

func (h *GRPCHandler) Register(ctx context.Context, req *RegisterWineRequest) (*WineResponse, error) {
	wine, err := h.inventory.Register(ctx, req.toDomain(), req.ModifiedBy)
	if err != nil {
		return nil, h.toStatus(ctx, "Register", err)
	}
	return &WineResponse{Wine: toWineDTO(wine)}, nil
}

func (h *GRPCHandler) Delete(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	if err := h.inventory.Delete(ctx, req.ID, req.ModifiedBy); err != nil {
		return nil, h.toStatus(ctx, "Delete", err)
	}
	return &DeleteResponse{ID: req.ID, Deleted: true}, nil
}

func (h *GRPCHandler) Store(ctx context.Context, req *MoveStockRequest) (*WineResponse, error) {
	wine, err := h.inventory.Store(ctx, req.ID, req.Quantity, req.ModifiedBy)
	if err != nil {
		return nil, h.toStatus(ctx, "Store", err)
	}
	return &WineResponse{Wine: toWineDTO(wine)}, nil
}

func (h *GRPCHandler) Retrieve(ctx context.Context, req *MoveStockRequest) (*WineResponse, error) {
	wine, err := h.inventory.Retrieve(ctx, req.ID, req.Quantity, req.ModifiedBy)
	if err != nil {
		return nil, h.toStatus(ctx, "Retrieve", err)
	}
	return &WineResponse{Wine: toWineDTO(wine)}, nil
}

func (h *GRPCHandler) ListWines(ctx context.Context, _ *ListWinesRequest) (*ListWinesResponse, error) {
	wines, err := h.inventory.GetAll(ctx)
	if err != nil {
		return nil, h.toStatus(ctx, "ListWines", err)
	}
	return &ListWinesResponse{Wines: toWineDTOs(wines)}, nil
}

func (h *GRPCHandler) ListHistories(ctx context.Context, req *ListHistoriesRequest) (*ListHistoriesResponse, error) {
	filters, err := req.Query.filters()
	if err != nil {
		return nil, h.toStatus(ctx, "ListHistories", err)
	}
	entries, err := h.inventory.Histories(ctx, filters...)
	if err != nil {
		return nil, h.toStatus(ctx, "ListHistories", err)
	}
	return &ListHistoriesResponse{Histories: toHistoryDTOs(entries)}, nil
}

func (h *GRPCHandler) toStatus(ctx context.Context, method string, err error) error {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.KindDuplicateWine:
		return status.Error(codes.AlreadyExists, err.Error())
	case domain.KindWineNotFound:
		return status.Error(codes.NotFound, err.Error())
	case domain.KindNotEnoughStock:
		if left, ok := domain.StockLeft(err); ok {
			// SetTrailer fails when ctx carries no server stream
			_ = grpc.SetTrailer(ctx, metadata.Pairs(StockLeftTrailer, strconv.Itoa(left)))
		}
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.KindLockTimeout:
		return status.Error(codes.Unavailable, err.Error())
	}

	h.logger.WithError(err).WithField("method", method).Error("rpc failed")
	return status.Error(codes.Internal, "internal error")
}
