// Package apierror turns use case errors into localized JSON responses.
package apierror

import (
	"net/http"
	"strings"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/i18n"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Response struct {
	Error string `json:"error"`
}

var mapping = []struct {
	target    error
	status    int
	messageID string
}{
	{model.ErrMissingFields, http.StatusBadRequest, "missing_required_fields"},
	{model.ErrInvalid, http.StatusBadRequest, "invalid_request"},
	{model.ErrNotFound, http.StatusNotFound, "not_found"},
	{model.ErrConflict, http.StatusConflict, "conflict"},
	{model.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden"},
	{model.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{model.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{model.ErrBusy, http.StatusServiceUnavailable, "service_busy"},
	{model.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "invalid_file"},
}

// Status returns the HTTP status and message id for err.
func Status(err error) (int, string) {
	for _, m := range mapping {
		if errors.Is(err, m.target) {
			return m.status, m.messageID
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// Respond writes err as {"error": "..."} and aborts the chain. Unmapped errors
// are logged and hidden behind the generic message.
func Respond(c *gin.Context, log logger.ZapLogger, err error) {
	status, messageID := Status(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	var data map[string]interface{}
	if messageID == "invalid_request" {
		data = map[string]interface{}{"Detail": Detail(err)}
	}
	Abort(c, status, messageID, data)
}

// Abort writes a localized message with the given status.
func Abort(c *gin.Context, status int, messageID string, data map[string]interface{}) {
	msg := i18n.T(c.GetHeader("Accept-Language"), messageID, data)
	c.AbortWithStatusJSON(status, Response{Error: msg})
}

// Detail strips the trailing sentinel text from a wrapped validation error.
func Detail(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+model.ErrInvalid.Error())
}
