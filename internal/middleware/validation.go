package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/models/dto"
)

// BindJSON binds and validates a JSON body. On failure it writes a 400
// response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, c.ShouldBindJSON(obj))
}

// BindQuery binds and validates query parameters
func BindQuery(c *gin.Context, obj interface{}) bool {
	return bindWith(c, c.ShouldBindQuery(obj))
}

// BindForm binds and validates a (multipart) form
func BindForm(c *gin.Context, obj interface{}) bool {
	return bindWith(c, c.ShouldBind(obj))
}

func bindWith(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
	return false
}
