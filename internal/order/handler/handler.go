package handler

import (
	"net/http"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/httpquery"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order"
	"github.com/fekuna/penstore/internal/order/dto"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

// Create answers 400 for missing or invalid input and a fixed 500 message
// for everything else.
func (h *OrderHandler) Create(c *gin.Context) {
	var input dto.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}

	o, err := h.uc.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		if status, _ := apierror.Status(err); status == http.StatusBadRequest {
			apierror.Respond(c, h.logger, err)
			return
		}
		h.logger.Error("Order creation error", zap.Error(err))
		apierror.Abort(c, http.StatusInternalServerError, "order_create_failed", nil)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) GetByNumber(c *gin.Context) {
	o, err := h.uc.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	if o == nil {
		apierror.Respond(c, h.logger, model.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, o)
}

// --- admin ---

func (h *OrderHandler) List(c *gin.Context) {
	page, err := h.uc.ListOrders(c.Request.Context(), &dto.OrderFilters{
		Status: c.Query("status"),
		Email:  c.Query("email"),
	}, httpquery.Options(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Update(c *gin.Context) {
	var input dto.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}
	input.ID = c.Param("id")

	o, err := h.uc.UpdateOrder(c.Request.Context(), &input)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
