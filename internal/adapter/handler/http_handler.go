package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/wine-inventory/internal/core/domain"
	"github.com/rl1809/wine-inventory/internal/core/service"
)

const modifiedByHeader = "X-Modified-By"

type HTTPHandler struct {
	inventory *service.InventoryService
	logger    logrus.FieldLogger
}

func NewHTTPHandler(inventory *service.InventoryService, logger logrus.FieldLogger) *HTTPHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HTTPHandler{inventory: inventory, logger: logger}
}

// Routes mounts the inventory API on r.
func (h *HTTPHandler) Routes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.GET("/wines", h.ListWines)
	api.GET("/wines/:id", h.GetWine)
	api.POST("/wines", h.RegisterWine)
	api.DELETE("/wines/:id", h.DeleteWine)
	api.POST("/wines/:id/store", h.StoreWine)
	api.POST("/wines/:id/retrieve", h.RetrieveWine)
	api.GET("/histories", h.ListHistories)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) ListWines(c *gin.Context) {
	wines, err := h.inventory.GetAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWineDTOs(wines))
}

func (h *HTTPHandler) GetWine(c *gin.Context) {
	wine, err := h.inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWineDTO(wine))
}

func (h *HTTPHandler) RegisterWine(c *gin.Context) {
	var req RegisterWineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	wine, err := h.inventory.Register(c.Request.Context(), req.toDomain(), modifiedBy(c, req.ModifiedBy))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWineDTO(wine))
}

// DeleteWine accepts an optional JSON body carrying modified_by.
func (h *HTTPHandler) DeleteWine(c *gin.Context) {
	var req DeleteWineRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	id := c.Param("id")
	if err := h.inventory.Delete(c.Request.Context(), id, modifiedBy(c, req.ModifiedBy)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (h *HTTPHandler) StoreWine(c *gin.Context) {
	h.moveStock(c, h.inventory.Store)
}

func (h *HTTPHandler) RetrieveWine(c *gin.Context) {
	h.moveStock(c, h.inventory.Retrieve)
}

type stockMove func(ctx context.Context, id string, quantity int, modifiedBy string) (domain.Wine, error)

func (h *HTTPHandler) moveStock(c *gin.Context, move stockMove) {
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	wine, err := move(c.Request.Context(), c.Param("id"), req.Quantity, modifiedBy(c, req.ModifiedBy))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWineDTO(wine))
}

func (h *HTTPHandler) ListHistories(c *gin.Context) {
	query := HistoryQuery{
		ID:              c.Query("id"),
		Type:            c.Query("type"),
		WineID:          c.Query("wine_id"),
		QuantityChanged: c.Query("quantity_changed"),
		ModifiedBy:      c.Query("modified_by"),
	}
	filters, err := query.filters()
	if err != nil {
		h.writeError(c, err)
		return
	}

	entries, err := h.inventory.Histories(c.Request.Context(), filters...)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistoryDTOs(entries))
}

func modifiedBy(c *gin.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.GetHeader(modifiedByHeader)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: err.Error(),
		Kind:  domain.KindInvalidInput.String(),
	})
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	resp := ErrorResponse{Error: err.Error(), Kind: kind.String()}

	status := http.StatusInternalServerError
	switch kind {
	case domain.KindInvalidInput:
		status = http.StatusBadRequest
	case domain.KindNotEnoughStock:
		status = http.StatusBadRequest
		if left, ok := domain.StockLeft(err); ok {
			resp.StockLeft = &left
		}
	case domain.KindDuplicateWine:
		status = http.StatusConflict
	case domain.KindWineNotFound:
		status = http.StatusNotFound
	case domain.KindLockTimeout:
		c.Header("Retry-After", "1")
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		resp.Error = "internal error"
	}

	c.JSON(status, resp)
}
