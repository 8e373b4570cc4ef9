package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kensetsu-dev/kensetsu/internal/auth"
	"github.com/kensetsu-dev/kensetsu/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (auth.User, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return auth.User{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(auth.User)

	if !ok {
		return auth.User{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}
