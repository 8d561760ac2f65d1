package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mwalkowski/travel-notes/internal/domain/identity"
)

const identityKey = "auth_identity"

func setUser(c *gin.Context, user identity.User) {
	c.Set(identityKey, user)
}

func getUser(c *gin.Context) (identity.User, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return identity.User{}, false
	}
	user, ok := value.(identity.User)
	return user, ok
}
