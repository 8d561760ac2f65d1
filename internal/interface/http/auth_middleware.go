package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mwalkowski/travel-notes/internal/domain/identity"
	apperrors "github.com/mwalkowski/travel-notes/pkg/errors"
)

func authMiddleware(svc identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		user, err := svc.Resolve(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			status := http.StatusUnauthorized
			code := "unauthorized"
			if apperrors.IsCode(err, "config_error") {
				status = http.StatusInternalServerError
				code = "config_error"
			}
			abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
			return
		}
		setUser(c, user)
		c.Next()
	}
}
