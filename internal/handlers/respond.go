package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/inkwell/internal/services"
)

// respondError maps the service error taxonomy to HTTP statuses. Internal
// failures keep their generic message so storage details never leak.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *services.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Kind {
		case services.KindValidation:
			status = http.StatusBadRequest
		case services.KindNotFound:
			status = http.StatusNotFound
		case services.KindUnauthorized:
			status = http.StatusUnauthorized
		case services.KindForbidden:
			status = http.StatusForbidden
		case services.KindConflict:
			status = http.StatusConflict
		case services.KindInternal:
			status = http.StatusInternalServerError
			message = "internal server error"
		}
	}

	c.JSON(status, gin.H{"error": message})
}
