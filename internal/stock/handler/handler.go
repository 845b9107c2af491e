package handler

import (
	"net/http"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/auth"
	"github.com/fekuna/penstore/internal/httpquery"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock"
	"github.com/fekuna/penstore/internal/stock/dto"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{uc: uc, logger: log}
}

func (h *StockHandler) Adjust(c *gin.Context) {
	var input dto.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}
	input.ProductID = c.Param("id")
	input.UserID = auth.GetUserID(c)

	m, err := h.uc.AdjustStock(c.Request.Context(), &input)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	page, err := h.uc.ListMovements(c.Request.Context(), &dto.MovementFilters{
		ProductID:    c.Query("product_id"),
		MovementType: c.Query("movement_type"),
		ReferenceID:  c.Query("reference_id"),
		Page:         httpquery.Int(c, "page"),
		PageSize:     httpquery.Int(c, "limit"),
	})
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
