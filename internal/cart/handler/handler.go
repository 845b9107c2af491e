package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/cart"
	"github.com/fekuna/penstore/internal/cart/dto"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CartHeader carries the session cart key in both directions.
const CartHeader = "X-Cart-ID"

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{uc: uc, logger: log}
}

// cartKey reads the cart key, issuing a new one when the client has none.
func cartKey(c *gin.Context) string {
	key := strings.TrimSpace(c.GetHeader(CartHeader))
	if key == "" {
		key = uuid.New().String()
	}
	c.Header(CartHeader, key)
	return key
}

func (h *CartHandler) Get(c *gin.Context) {
	result, err := h.uc.GetCart(c.Request.Context(), cartKey(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartView(result))
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.uc.ClearCart(c.Request.Context(), cartKey(c)); err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartView(&model.Cart{}))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	key := cartKey(c)
	var input dto.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}

	result, err := h.uc.AddItem(c.Request.Context(), key, &input)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartView(result))
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	key := cartKey(c)
	var input dto.UpdateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}

	result, err := h.uc.UpdateQuantity(c.Request.Context(), key, c.Param("productId"), input.Quantity)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartView(result))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	result, err := h.uc.RemoveItem(c.Request.Context(), cartKey(c), c.Param("productId"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartView(result))
}

// Checkout mirrors order creation: validation errors are 400, anything else
// is the fixed order failure message.
func (h *CartHandler) Checkout(c *gin.Context) {
	key := cartKey(c)
	var input dto.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}

	o, err := h.uc.Checkout(c.Request.Context(), key, &input)
	if err != nil {
		if status, _ := apierror.Status(err); status < http.StatusInternalServerError {
			apierror.Respond(c, h.logger, err)
			return
		}
		h.logger.Error("Checkout error", zap.String("cart", key), zap.Error(err))
		apierror.Abort(c, http.StatusInternalServerError, "order_create_failed", nil)
		return
	}
	c.JSON(http.StatusOK, o)
}
