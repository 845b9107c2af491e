package handler

import (
	"net/http"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/collection"
	"github.com/fekuna/penstore/internal/collection/dto"
	"github.com/fekuna/penstore/internal/httpquery"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type CollectionHandler struct {
	uc     collection.UseCase
	logger logger.ZapLogger
}

func NewCollectionHandler(uc collection.UseCase, log logger.ZapLogger) *CollectionHandler {
	return &CollectionHandler{uc: uc, logger: log}
}

// --- storefront ---

func (h *CollectionHandler) List(c *gin.Context) {
	page, err := h.uc.ListCollections(c.Request.Context(), httpquery.Options(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CollectionHandler) Featured(c *gin.Context) {
	items, err := h.uc.ListFeaturedCollections(c.Request.Context())
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"docs": items})
}

func (h *CollectionHandler) GetBySlug(c *gin.Context) {
	col, err := h.uc.GetCollectionBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	if col == nil {
		apierror.Respond(c, h.logger, model.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, col)
}

// --- admin ---

func (h *CollectionHandler) Create(c *gin.Context) {
	var input dto.CreateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}

	col, err := h.uc.CreateCollection(c.Request.Context(), &input)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (h *CollectionHandler) Get(c *gin.Context) {
	col, err := h.uc.GetCollection(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

func (h *CollectionHandler) Update(c *gin.Context) {
	var input dto.UpdateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}
	input.ID = c.Param("id")

	col, err := h.uc.UpdateCollection(c.Request.Context(), &input)
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteCollection(c.Request.Context(), c.Param("id")); err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
