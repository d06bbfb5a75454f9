package middleware

import (
	"fmt"

	"usertodos/internal/adapter/http/helper"

	"github.com/gin-gonic/gin"
)

// Recovery answers panics with the generic 500 body. The panic value is
// attached to the context so the request logger records it.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		_ = c.Error(fmt.Errorf("panic: %v", recovered))
		helper.SendInternalError(c)
	})
}
