package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserID(c *gin.Context) (int, bool) {
	return getIntFromCtx(c, "user_id")
}

// Контракт исходного API: любые неожиданные ошибки уходят как 500 с
// приклеенным текстом причины.
func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error: " + err.Error()})
}
