package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/pkg/response"
	"github.com/oksasatya/pulse-backoffice/pkg/validation"
)

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, log *logrus.Entry, err error) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verr.Details())
	case errors.Is(err, entity.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, entity.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, entity.ErrTransient):
		response.Error[any](c, http.StatusServiceUnavailable, "service temporarily unavailable", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("request cancelled")
		response.Error[any](c, http.StatusServiceUnavailable, "request cancelled", nil)
	default:
		log.WithError(err).Error("unhandled error")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// badRequest reports a payload that failed binding.
func badRequest(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func reqLog(l *logrus.Logger, c *gin.Context) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	})
}
