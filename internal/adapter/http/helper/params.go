package helper

import (
	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into a fresh T.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}

// Bind decodes the body according to its Content-Type (JSON or form).
func Bind[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBind(&params); err != nil {
		return params, err
	}

	return params, nil
}
