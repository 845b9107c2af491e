package handler

import (
	"net/http"

	"github.com/fekuna/penstore/internal/apierror"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/user"
	"github.com/fekuna/penstore/internal/user/dto"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{uc: uc, logger: log}
}

func (h *UserHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apierror.Respond(c, h.logger, errors.Wrap(model.ErrInvalid, err.Error()))
		return
	}

	res, err := h.uc.Login(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			apierror.Abort(c, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		apierror.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
