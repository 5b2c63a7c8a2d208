package handlers

import (
	"errors"
	"net/http"
	"strings"

	"menu-api/apperr"
	"menu-api/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// respond writes the standard success envelope, merging extra fields
// into it.
func respond(c *gin.Context, status int, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail writes the error envelope. Errors outside the taxonomy are
// logged with context and surfaced as a generic 500 so internals never
// leak to clients.
func fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		config.Log.Error("unexpected error",
			zap.String("requestID", c.GetString("requestID")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		ae = apperr.Internal("Something went wrong")
	}

	body := gin.H{"success": false, "message": ae.Message}
	if len(ae.Errors) > 0 {
		body["errors"] = ae.Errors
	}
	c.JSON(ae.Status, body)
}

// notFound maps a record miss onto the taxonomy inside a wrapped
// operation. A miss is deterministic: left as a bare gorm error it
// would be retried as if transient.
func notFound(err error, appErr *apperr.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErr
	}
	return err
}

// asConflict maps a unique-constraint violation onto Conflict. The
// handlers probe for duplicates before writing, but a concurrent
// writer can slip between probe and insert; the constraint is the
// authority.
func asConflict(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
		return apperr.Conflict(message)
	}
	return err
}

// bindError maps a JSON bind failure onto the taxonomy: oversized
// bodies become 413, everything else 400.
func bindError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apperr.PayloadTooLarge("Request body too large")
	}
	return apperr.InvalidInput("Invalid request body", err.Error())
}
