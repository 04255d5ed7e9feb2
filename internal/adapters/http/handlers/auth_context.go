package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wallethub/core/internal/adapters/http/common"
	"github.com/wallethub/core/internal/adapters/http/middleware"
)

// authUserID reads the authenticated user id middleware.Auth stored as a
// string claim and parses it as the int64 the wallet domain keys on. The
// teacher's GetAuthUserID parses that same claim as a UUID, which does not
// fit this domain's numeric user ids, so the wallet RPC handlers use this
// instead of reusing it.
func authUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get(middleware.AuthUserIDKey)
	if !exists {
		common.UnauthorizedResponse(c, "missing authenticated user")
		return 0, false
	}
	claim, ok := raw.(string)
	if !ok {
		common.UnauthorizedResponse(c, "malformed authenticated user")
		return 0, false
	}
	userID, err := strconv.ParseInt(claim, 10, 64)
	if err != nil {
		common.UnauthorizedResponse(c, "malformed authenticated user")
		return 0, false
	}
	return userID, true
}
