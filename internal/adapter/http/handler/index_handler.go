package handler

import (
	"net/http"

	"usertodos/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, response.MessageResponse{Message: "App is running"})
}
