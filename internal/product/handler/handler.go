package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/httpquery"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/product"
	"github.com/fekuna/penstore/internal/product/dto"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: log}
}

func filtersFromQuery(c *gin.Context) *dto.ProductFilters {
	return &dto.ProductFilters{
		CollectionSlug: strings.TrimSpace(c.Query("collection")),
		NibSize:        strings.TrimSpace(c.Query("nib_size")),
		TrimColor:      strings.TrimSpace(c.Query("trim_color")),
		MinPrice:       httpquery.Decimal(c, "min_price"),
		MaxPrice:       httpquery.Decimal(c, "max_price"),
		Featured:       httpquery.Bool(c, "featured"),
	}
}

// --- storefront ---

func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.uc.ListProducts(c.Request.Context(), filtersFromQuery(c), httpquery.Options(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Featured(c *gin.Context) {
	items, err := h.uc.ListFeaturedProducts(c.Request.Context(), httpquery.Int(c, "limit"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"docs": items})
}

func (h *ProductHandler) Search(c *gin.Context) {
	page, err := h.uc.SearchProducts(c.Request.Context(), c.Query("q"), httpquery.Options(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) ByCollection(c *gin.Context) {
	page, err := h.uc.ListProductsByCollection(c.Request.Context(), c.Param("slug"), httpquery.Options(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	p, err := h.uc.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	if p == nil {
		apierror.Respond(c, h.logger, model.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Related(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.uc.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	if p == nil {
		apierror.Respond(c, h.logger, model.ErrNotFound)
		return
	}

	items, err := h.uc.ListRelatedProducts(ctx, p.ID, p.CollectionID, httpquery.Int(c, "limit"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"docs": items})
}

// --- admin ---

func (h *ProductHandler) AdminList(c *gin.Context) {
	filters := filtersFromQuery(c)
	filters.SearchQuery = strings.TrimSpace(c.Query("q"))

	page, err := h.uc.ListProducts(c.Request.Context(), filters, httpquery.Options(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}
	input.ID = c.Param("id")

	p, err := h.uc.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
