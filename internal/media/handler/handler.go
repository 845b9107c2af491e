package handler

import (
	"io"
	"net/http"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/httpquery"
	"github.com/fekuna/penstore/internal/media"
	"github.com/fekuna/penstore/internal/media/dto"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const maxUploadBytes = 20 << 20

type MediaHandler struct {
	uc     media.UseCase
	logger logger.ZapLogger
}

func NewMediaHandler(uc media.UseCase, log logger.ZapLogger) *MediaHandler {
	return &MediaHandler{uc: uc, logger: log}
}

// Upload expects multipart fields "file" and "alt".
func (h *MediaHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrMissingFields, "file"))
		return
	}
	if fh.Size > maxUploadBytes {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, "file is larger than 20MB"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}

	m, err := h.uc.Upload(c.Request.Context(), &dto.UploadInput{
		Filename: fh.Filename,
		Alt:      c.PostForm("alt"),
		Data:     data,
	})
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MediaHandler) Get(c *gin.Context) {
	m, err := h.uc.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MediaHandler) List(c *gin.Context) {
	page, err := h.uc.ListMedia(c.Request.Context(), httpquery.Options(c))
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteMedia(c.Request.Context(), c.Param("id")); err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MediaHandler) BackfillBlur(c *gin.Context) {
	report, err := h.uc.BackfillBlur(c.Request.Context())
	if err != nil {
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
