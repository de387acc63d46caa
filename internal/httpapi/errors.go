package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portal/internal/account"
	"portal/internal/logging"
)

// writeError maps domain errors onto status codes. Anything unrecognised
// is logged and answered with fallback and a 500.
func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *account.ValidationError
	var dup *account.DuplicateKeyError

	switch {
	case errors.As(err, &verr):
		body := gin.H{"msg": verr.Message}
		if len(verr.Details) > 0 {
			body["details"] = verr.Details
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &dup):
		c.JSON(http.StatusBadRequest, gin.H{"msg": dup.Field + " already exists.", "field": dup.Field})
	case errors.Is(err, account.ErrInvalidIDFormat):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid ID format."})
	case errors.Is(err, account.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials."})
	case errors.Is(err, account.ErrWrongPassword):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Current password is incorrect"})
	case errors.Is(err, account.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Not authenticated"})
	case errors.Is(err, account.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": "Access denied"})
	case errors.Is(err, account.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"msg": "Account is not active."})
	case errors.Is(err, account.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Account not found"})
	default:
		logging.WithError(h.log, err).
			WithField("path", c.FullPath()).
			Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": fallback})
	}
}

func (h *Handler) badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body."})
}
